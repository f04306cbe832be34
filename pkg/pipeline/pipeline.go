// Package pipeline provides the ingest → layout → render pipeline.
//
// This package implements the complete pipeline used by the CLI and the HTTP
// API. By centralizing this logic, both entry points share defaults, caching
// and error classification.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Ingest: decode the raw payload, normalize it into canonical records and
//     build a validated graph
//  2. Layout: assign BFS levels and place nodes in a frame
//  3. Render: draw the placed graph in one or more formats (svg, dot,
//     graphviz, json)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	src := pipeline.Source{Name: "people.csv", Data: data}
//	result, err := runner.Execute(ctx, src, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Ingest(ctx, src, opts)
//	l, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, g, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphloom/pkg/cache"
	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/render"
	"github.com/matzehuels/graphloom/pkg/source/sources"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDirected is the graph-level direction when none is given.
	DefaultDirected = true

	// DefaultStyle is the default layout style.
	DefaultStyle = layout.StyleSimple

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultFormat is the default output format.
	DefaultFormat = render.FormatSVG
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Ingest options
	Format    string `json:"format,omitempty"`    // normalizer name; empty means "from the source name"
	Directed  *bool  `json:"directed,omitempty"`  // graph-level default direction
	Delimiter string `json:"delimiter,omitempty"` // table delimiter; empty means auto-detect
	Refresh   bool   `json:"refresh,omitempty"`   // bypass the cache for reads

	// Layout options
	Style  string  `json:"style,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built entity graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph's plain form.
	GraphHash string

	// Layout is the placed graph.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Levels     int
	IngestTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	IngestHit bool // Whether the graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is registered.
func ValidateFormat(format string) error {
	if _, err := render.Default().Get(format); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "invalid output format")
	}
	return nil
}

// ValidateFormats checks that all output formats are registered.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a layout style is supported.
func ValidateStyle(style string) error {
	if style == "" {
		return gerrors.New(gerrors.ErrCodeInvalidStyle, "style is required")
	}
	if err := layout.ValidateStyle(style); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidStyle, err, "invalid style")
	}
	return nil
}

// ValidateNormalizer checks that name is a built-in normalizer. The empty
// name is accepted and means "pick from the source".
func ValidateNormalizer(name string) error {
	if name == "" {
		return nil
	}
	if _, err := sources.Default().Get(name); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "invalid input format")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForIngest checks ingest options and applies defaults.
func (o *Options) ValidateForIngest() error {
	if err := ValidateNormalizer(o.Format); err != nil {
		return err
	}
	if err := gerrors.ValidateDelimiter(o.Delimiter); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "frame size must be positive, got %vx%v", o.Width, o.Height)
	}
	return ValidateStyle(o.Style)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForIngest(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsDirected returns the graph-level direction, defaulting to true.
func (o *Options) IsDirected() bool {
	if o.Directed == nil {
		return DefaultDirected
	}
	return *o.Directed
}

// LayoutOptions returns the placement options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{Style: o.Style, Width: o.Width, Height: o.Height}
}

// GraphKeyOpts returns cache key options for an ingested graph.
func (o *Options) GraphKeyOpts(normalizer string) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Normalizer: normalizer,
		Directed:   o.IsDirected(),
		Delimiter:  o.Delimiter,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Style:  o.Style,
		Width:  o.Width,
		Height: o.Height,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
