// Package observability lets callers watch graphloom at work without the
// libraries depending on a metrics backend.
//
// Three hook sets exist: [PipelineHooks] for ingest, layout and render
// stages, [CacheHooks] for cache traffic by key type, and [HTTPHooks] for the
// API server. Every set defaults to a no-op. A binary installs real hooks
// once at startup with [Install]; libraries only read them:
//
//	observability.Install(observability.Logging(logger))
//
//	hooks := observability.Pipeline()
//	hooks.OnIngestStart(ctx, "table", len(payload))
//
// [Logging] reports every event through a charmbracelet logger. The CLI
// installs it when run with --verbose.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives ingest, layout and render stage events.
type PipelineHooks interface {
	OnIngestStart(ctx context.Context, normalizer string, size int)
	OnIngestComplete(ctx context.Context, normalizer string, nodes, edges int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, style string, nodeCount int)
	OnLayoutComplete(ctx context.Context, style string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is one of "graph", "layout"
// or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API request events. route is the matched route
// pattern when one is known.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Hooks bundles one implementation of each hook set. Nil fields leave the
// installed set unchanged.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnIngestStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnIngestComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// Noop returns a bundle of no-op hooks.
func Noop() Hooks {
	return Hooks{
		Pipeline: NoopPipelineHooks{},
		Cache:    NoopCacheHooks{},
		HTTP:     NoopHTTPHooks{},
	}
}

// =============================================================================
// Registry
// =============================================================================

var (
	mu        sync.RWMutex
	installed = Noop()
)

// Install replaces the non-nil hook sets in h. Call it at startup, before
// any pipeline, cache or server work begins.
func Install(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	if h.Pipeline != nil {
		installed.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		installed.Cache = h.Cache
	}
	if h.HTTP != nil {
		installed.HTTP = h.HTTP
	}
}

// Installed returns the current bundle.
func Installed() Hooks {
	mu.RLock()
	defer mu.RUnlock()
	return installed
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return Installed().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return Installed().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return Installed().HTTP }

// Reset restores the no-op hooks. Tests use it to undo Install.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	installed = Noop()
}
