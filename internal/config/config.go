// Package config loads graphloom settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, GRAPHLOOM_*
// environment variables. Command-line flags are applied on top by the CLI.
// A missing config file is not an error.
//
// Example graphloom.toml:
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[storage]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "graphloom"
//
//	[ingest]
//	directed = false
//	style = "block"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "graphloom.toml"

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type CacheConfig struct {
	Backend       string `toml:"backend"` // file, redis or none
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type StorageConfig struct {
	Backend       string `toml:"backend"` // none, file or mongo
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type IngestConfig struct {
	Directed  *bool  `toml:"directed"`
	Delimiter string `toml:"delimiter"`
	Style     string `toml:"style"`
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Neo4j   Neo4jConfig   `toml:"neo4j"`
	Ingest  IngestConfig  `toml:"ingest"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Cache:   CacheConfig{Backend: BackendFile, RedisAddr: "localhost:6379"},
		Storage: StorageConfig{Backend: BackendNone, MongoDatabase: "graphloom"},
		Neo4j:   Neo4jConfig{URI: "bolt://localhost:7687", User: "neo4j"},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path means DefaultFile; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendMongo}, c.Storage.Backend) {
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"GRAPHLOOM_ADDR":           &c.Server.Addr,
		"GRAPHLOOM_CACHE":          &c.Cache.Backend,
		"GRAPHLOOM_CACHE_DIR":      &c.Cache.Dir,
		"GRAPHLOOM_REDIS_ADDR":     &c.Cache.RedisAddr,
		"GRAPHLOOM_REDIS_PASSWORD": &c.Cache.RedisPassword,
		"GRAPHLOOM_STORAGE":        &c.Storage.Backend,
		"GRAPHLOOM_STORAGE_DIR":    &c.Storage.Dir,
		"GRAPHLOOM_MONGO_URI":      &c.Storage.MongoURI,
		"GRAPHLOOM_MONGO_DATABASE": &c.Storage.MongoDatabase,
		"GRAPHLOOM_NEO4J_URI":      &c.Neo4j.URI,
		"GRAPHLOOM_NEO4J_USER":     &c.Neo4j.User,
		"GRAPHLOOM_NEO4J_PASSWORD": &c.Neo4j.Password,
		"GRAPHLOOM_NEO4J_DATABASE": &c.Neo4j.Database,
		"GRAPHLOOM_DELIMITER":      &c.Ingest.Delimiter,
		"GRAPHLOOM_STYLE":          &c.Ingest.Style,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("GRAPHLOOM_REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRAPHLOOM_REDIS_DB: %w", err)
		}
		c.Cache.RedisDB = n
	}
	if v, ok := lookup("GRAPHLOOM_DIRECTED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GRAPHLOOM_DIRECTED: %w", err)
		}
		c.Ingest.Directed = &b
	}
	return nil
}
