package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphloom/pkg/build"
	"github.com/matzehuels/graphloom/pkg/cache"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/observability"
	"github.com/matzehuels/graphloom/pkg/render"
	"github.com/matzehuels/graphloom/pkg/source"
	"github.com/matzehuels/graphloom/pkg/source/sources"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Sources   *source.Registry
	Renderers *render.Registry
	Logger    *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Sources:   sources.Default(),
		Renderers: render.Default(),
		Logger:    logger,
	}
}

// Execute runs the complete ingest → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Ingest
	ingestStart := time.Now()
	g, ingestHit, err := r.IngestWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.IngestTime = time.Since(ingestStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.IngestHit = ingestHit
	if data, err := graph.MarshalPlain(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.IngestTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Levels = len(l.Levels)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"levels", len(l.Levels),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// IngestWithCacheInfo builds a graph from src with caching and returns cache
// hit info. The cache key covers the payload bytes, the normalizer, the
// direction and the delimiter.
func (r *Runner) IngestWithCacheInfo(ctx context.Context, src Source, opts Options) (*graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForIngest(); err != nil {
		return nil, false, err
	}

	payload, name, err := Decode(src, opts)
	hooks := observability.Pipeline()
	hooks.OnIngestStart(ctx, name, len(src.Data))
	start := time.Now()
	if err != nil {
		err = build.Classify(err)
		hooks.OnIngestComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, false, err
	}

	cacheKey := r.Keyer.GraphKey(cache.Hash(src.Data), opts.GraphKeyOpts(name))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if g, ok := r.cachedGraph(ctx, cacheKey); ok {
			hooks.OnIngestComplete(ctx, name, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
			return g, true, nil
		}
	}

	g, err := normalizeAndBuild(payload, name, src, r.Sources, opts)
	if err != nil {
		hooks.OnIngestComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnIngestComplete(ctx, name, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	if data, err := graph.MarshalPlain(g); err == nil {
		r.store(ctx, "graph", cacheKey, data, cache.GraphTTL)
	}
	return g, false, nil
}

func (r *Runner) cachedGraph(ctx context.Context, key string) (*graph.Graph, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, false
	}
	p, err := graph.UnmarshalPlain(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, false
	}
	g, err := build.Rebuild(p, build.WithLogger(r.Logger))
	if err != nil {
		r.Logger.Warn("discarding unusable cached graph", "err", err)
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "graph")
	return g, true
}

// Ingest is a convenience wrapper that calls IngestWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Ingest(ctx context.Context, src Source, opts Options) (*graph.Graph, error) {
	g, _, err := r.IngestWithCacheInfo(ctx, src, opts)
	return g, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit
// info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	graphData, err := graph.MarshalPlain(g)
	if err != nil {
		return layout.Layout{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := layout.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Style, g.NodeCount())
	start := time.Now()
	l, err := GenerateLayout(g, opts)
	hooks.OnLayoutComplete(ctx, opts.Style, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := layout.MarshalLayout(l); err == nil {
		r.store(ctx, "layout", cacheKey, data, cache.LayoutTTL)
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Artifacts are keyed by graph and layout together, since labels and
// attributes are drawn from the graph.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	for _, f := range opts.Formats {
		if _, err := r.Renderers.Get(f); err != nil {
			return nil, false, err
		}
	}

	graphData, err := graph.MarshalPlain(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	keyHash := cache.Hash(append(graphData, layoutData...))

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(keyHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderAll(g, l, r.Renderers, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(keyHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", cacheKey, data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
