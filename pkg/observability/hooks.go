// Package observability provides hooks for metrics and tracing of
// extraction runs.
//
// Library packages call the registered hooks; the CLI decides which
// implementation is registered. The default hooks do nothing, and
// [PromHooks] records Prometheus metrics that can be written to a node
// exporter textfile.
//
// # Usage
//
// Register hooks at application startup:
//
//	prom := observability.NewPromHooks()
//	observability.SetPipelineHooks(prom)
//	observability.SetCacheHooks(prom)
//	observability.SetReportHooks(prom)
//	// ... run extraction
//	_ = prom.WriteTextfile("dienet.prom")
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StageConnect)
//	// ... run the connectivity engine ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StageConnect, nets, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names one step of an extraction run.
type Stage string

const (
	StageLoad    Stage = "load"
	StageConnect Stage = "connect"
	StageAnalyze Stage = "analyze"
	StageEmit    Stage = "emit"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the extraction pipeline.
type PipelineHooks interface {
	// Layer file events
	OnLayerLoaded(ctx context.Context, layer string, polygons int, cacheHit bool, duration time.Duration)

	// Stage events. count is the stage's main output: polygons loaded, nets
	// formed, transistors emitted or files written.
	OnStageStart(ctx context.Context, stage Stage)
	OnStageComplete(ctx context.Context, stage Stage, count int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Report Hooks
// =============================================================================

// ReportHooks receives the outcome of a run.
type ReportHooks interface {
	// OnWarning records one non-fatal warning.
	OnWarning(ctx context.Context, kind string)

	// OnFatal records a run aborted with the given error code.
	OnFatal(ctx context.Context, code string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayerLoaded(context.Context, string, int, bool, time.Duration)   {}
func (NoopPipelineHooks) OnStageStart(context.Context, Stage)                               {}
func (NoopPipelineHooks) OnStageComplete(context.Context, Stage, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopReportHooks is a no-op implementation of ReportHooks.
type NoopReportHooks struct{}

func (NoopReportHooks) OnWarning(context.Context, string) {}
func (NoopReportHooks) OnFatal(context.Context, string)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	reportHooks   ReportHooks   = NoopReportHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetReportHooks registers custom report hooks.
func SetReportHooks(h ReportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reportHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Report returns the registered report hooks.
func Report() ReportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	reportHooks = NoopReportHooks{}
}
