// Package cli implements the graphloom command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/internal/config"
	"github.com/matzehuels/graphloom/pkg/buildinfo"
	"github.com/matzehuels/graphloom/pkg/cache"
	"github.com/matzehuels/graphloom/pkg/pipeline"
	"github.com/matzehuels/graphloom/pkg/render"
	"github.com/matzehuels/graphloom/pkg/source/remote"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphloom"

	// graphSuffix is appended to ingested graph files.
	graphSuffix = ".graph.json"

	// redisPrefix namespaces cache keys shared with other applications.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out  *printer  // command results, stdout
	errw io.Writer // spinners, next to the logger

	configPath string
	config     *config.Config
}

// New creates a new CLI instance. Logs and spinners go to w, command
// results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    &printer{w: os.Stdout},
		errw:   w,
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graphloom turns tables, lists and trees into entity graphs",
		Long: `Graphloom ingests semi-structured data (CSV/TSV tables, JSON or YAML
lists and trees), infers attribute types, builds a validated entity graph and
renders it as a breadth-first level layout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.DefaultFile+")")

	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	backend := c.config.Cache.Backend
	if noCache {
		backend = config.BackendNone
	}

	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.config.Cache.RedisAddr,
			Password: c.config.Cache.RedisPassword,
			DB:       c.config.Cache.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, else the per-user one.
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// basePath strips the graph suffix or extension from an input path. URLs
// map to their last path segment in the working directory.
func basePath(input string) string {
	if remote.IsURL(input) {
		u, err := url.Parse(input)
		if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
			return "remote"
		}
		input = path.Base(u.Path)
	}
	if strings.HasSuffix(input, graphSuffix) {
		return strings.TrimSuffix(input, graphSuffix)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig seeds opts from the [ingest] section of the config file.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	if opts.Directed == nil {
		opts.Directed = c.config.Ingest.Directed
	}
	if opts.Delimiter == "" {
		opts.Delimiter = c.config.Ingest.Delimiter
	}
	if opts.Style == "" {
		opts.Style = c.config.Ingest.Style
	}
	opts.Logger = c.Logger
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
