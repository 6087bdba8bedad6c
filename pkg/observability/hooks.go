// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about dataset builds, analysis runs, suggestion calls, and
// cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDatasetHooks(&myDatasetHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dataset().OnLoadStart(ctx, name)
//	// ... build the graph ...
//	observability.Dataset().OnLoadComplete(ctx, name, relations, skipped, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dataset Hooks
// =============================================================================

// DatasetHooks receives events from dataset loads and analysis runs.
type DatasetHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, name string)
	OnLoadComplete(ctx context.Context, name string, relations, skipped int, duration time.Duration, err error)

	// Analysis events
	OnAnalysisStart(ctx context.Context, nodeCount int)
	OnAnalysisComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Suggestion Hooks
// =============================================================================

// SuggestHooks receives events from the suggestion client.
type SuggestHooks interface {
	// OnRemoteCall records one attempted remote call.
	OnRemoteCall(ctx context.Context, operation string, duration time.Duration, err error)

	// OnFallback records that a local fallback produced the answer.
	OnFallback(ctx context.Context, operation string)
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
// No-op Implementations
// =============================================================================

// NoopDatasetHooks is a no-op implementation of DatasetHooks.
type NoopDatasetHooks struct{}

func (NoopDatasetHooks) OnLoadStart(context.Context, string) {}
func (NoopDatasetHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopDatasetHooks) OnAnalysisStart(context.Context, int)                       {}
func (NoopDatasetHooks) OnAnalysisComplete(context.Context, int, time.Duration, error) {}
func (NoopDatasetHooks) OnRenderStart(context.Context, []string)                    {}
func (NoopDatasetHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
}

// NoopSuggestHooks is a no-op implementation of SuggestHooks.
type NoopSuggestHooks struct{}

func (NoopSuggestHooks) OnRemoteCall(context.Context, string, time.Duration, error) {}
func (NoopSuggestHooks) OnFallback(context.Context, string)                         {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	datasetHooks DatasetHooks = NoopDatasetHooks{}
	suggestHooks SuggestHooks = NoopSuggestHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetDatasetHooks registers custom dataset hooks.
// This should be called once at application startup before any loads.
func SetDatasetHooks(h DatasetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		datasetHooks = h
	}
}

// SetSuggestHooks registers custom suggestion hooks.
// This should be called once at application startup before any remote calls.
func SetSuggestHooks(h SuggestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		suggestHooks = h
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

// Dataset returns the registered dataset hooks.
func Dataset() DatasetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return datasetHooks
}

// Suggest returns the registered suggestion hooks.
func Suggest() SuggestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return suggestHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	datasetHooks = NoopDatasetHooks{}
	suggestHooks = NoopSuggestHooks{}
	cacheHooks = NoopCacheHooks{}
}
