// Package cache stores pipeline results keyed by content hashes.
//
// The pipeline caches three kinds of results: ingested graphs (keyed by a
// hash of the raw payload and the ingest options), layouts (keyed by a hash
// of the plain graph and the layout options) and rendered artifacts (keyed by
// a hash of the layout and the format). A [Keyer] derives those keys; a
// [Cache] stores the bytes.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	GraphTTL    = 7 * 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss (false) with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts holds the ingest options that affect the built graph.
type GraphKeyOpts struct {
	Normalizer string `json:"normalizer"`
	Directed   bool   `json:"directed"`
	Delimiter  string `json:"delimiter,omitempty"`
}

// LayoutKeyOpts holds the options that affect placement.
type LayoutKeyOpts struct {
	Style  string  `json:"style"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ArtifactKeyOpts holds the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys.
type Keyer interface {
	GraphKey(payloadHash string, opts GraphKeyOpts) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "graph:", "layout:" and "artifact:" keys followed by
// a SHA-256 of the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns the key of an ingested graph.
func (DefaultKeyer) GraphKey(payloadHash string, opts GraphKeyOpts) string {
	return hashKey("graph", payloadHash, opts)
}

// LayoutKey returns the key of a layout.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
