// Package observability defines the instrumentation hook points for the
// pipeline, the result cache, and the document store.
//
// The core packages stay free of metrics dependencies: they emit events
// through the interfaces here, and the process hosting them decides what
// to do with those events. The HTTP server registers Prometheus-backed
// hooks; the CLI leaves the no-op defaults in place.
//
// Register implementations once, at startup, before any pipeline runs:
//
//	observability.SetPipelineHooks(&promPipelineHooks{reg: registry})
//
// Emitting an event is a plain call on the registered set:
//
//	observability.Pipeline().OnFlattenStart(ctx, graph)
//	defer func() {
//	    observability.Pipeline().OnFlattenComplete(ctx, graph, n, time.Since(t0), err)
//	}()
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the flatten pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source, format string, graphCount int, duration time.Duration, err error)

	// Flatten events
	OnFlattenStart(ctx context.Context, graph string)
	OnFlattenComplete(ctx context.Context, graph string, nodeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// StoreHooks receives events from graph store operations.
type StoreHooks interface {
	// OnStoreGet records a read. found is false when the name was absent.
	OnStoreGet(ctx context.Context, name string, found bool, duration time.Duration)

	// OnStorePut records a write.
	OnStorePut(ctx context.Context, name string, size int, duration time.Duration)

	// OnStoreDelete records a removal.
	OnStoreDelete(ctx context.Context, name string, duration time.Duration)

	// OnStoreError records a failed operation (backend outage, bad name).
	OnStoreError(ctx context.Context, op, name string, err error)
}

// NoopPipelineHooks discards all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnFlattenStart(context.Context, string) {}
func (NoopPipelineHooks) OnFlattenComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks discards all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks discards all store events.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreGet(context.Context, string, bool, time.Duration) {}
func (NoopStoreHooks) OnStorePut(context.Context, string, int, time.Duration)  {}
func (NoopStoreHooks) OnStoreDelete(context.Context, string, time.Duration)    {}
func (NoopStoreHooks) OnStoreError(context.Context, string, string, error)     {}

// The registry holds one implementation per category, no-op until a host
// replaces it. Reads vastly outnumber writes, hence the RWMutex.
var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks replaces the pipeline hook set. Nil is ignored so a
// host can pass an optional implementation without checking it first.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks replaces the cache hook set. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetStoreHooks replaces the store hook set. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Pipeline returns the current pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Store returns the current store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores the no-op defaults. Tests use it to isolate state.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	storeHooks = NoopStoreHooks{}
}
