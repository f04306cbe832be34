package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks reports pipeline stages at debug level.
type LogPipelineHooks struct{ Logger *log.Logger }

func (h LogPipelineHooks) OnIngestStart(_ context.Context, normalizer string, size int) {
	h.Logger.Debug("ingest started", "normalizer", normalizer, "bytes", size)
}

func (h LogPipelineHooks) OnIngestComplete(_ context.Context, normalizer string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("ingest failed", "normalizer", normalizer, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("ingest finished", "normalizer", normalizer, "nodes", nodes, "edges", edges, "duration", d)
}

func (h LogPipelineHooks) OnLayoutStart(_ context.Context, style string, nodeCount int) {
	h.Logger.Debug("layout started", "style", style, "nodes", nodeCount)
}

func (h LogPipelineHooks) OnLayoutComplete(_ context.Context, style string, d time.Duration, err error) {
	h.Logger.Debug("layout finished", "style", style, "duration", d, "err", err)
}

func (h LogPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h LogPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render finished", "formats", formats, "duration", d, "err", err)
}

// LogCacheHooks reports cache traffic at debug level.
type LogCacheHooks struct{ Logger *log.Logger }

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

// LogHTTPHooks logs every API response at info level.
type LogHTTPHooks struct{ Logger *log.Logger }

func (h LogHTTPHooks) OnRequest(context.Context, string, string) {}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "duration", d)
}

// Logging returns hooks that report every event through logger. Pipeline
// and cache events log at debug level, responses at info level.
func Logging(logger *log.Logger) Hooks {
	return Hooks{
		Pipeline: LogPipelineHooks{Logger: logger},
		Cache:    LogCacheHooks{Logger: logger},
		HTTP:     LogHTTPHooks{Logger: logger},
	}
}

var (
	_ PipelineHooks = LogPipelineHooks{}
	_ CacheHooks    = LogCacheHooks{}
	_ HTTPHooks     = LogHTTPHooks{}
)
