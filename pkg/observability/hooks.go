// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about canvas gestures, workflow store
// operations, and HTTP requests.
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
//	    observability.SetCanvasHooks(&myCanvasHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Canvas Hooks
// =============================================================================

// CanvasHooks receives events from the interactive canvas engine.
// Gesture kinds are "marquee", "node-drag", "group-drag" and "drag".
type CanvasHooks interface {
	// OnGestureStart records the beginning of a pointer gesture.
	OnGestureStart(kind string)

	// OnGestureEnd records the completion of a pointer gesture.
	OnGestureEnd(kind string)

	// OnZoom records an applied zoom change with the new zoom factor.
	OnZoom(zoom float64)

	// OnCheckpoint records a history checkpoint pushed by a gesture.
	OnCheckpoint()
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from workflow store operations.
type StoreHooks interface {
	// OnGet records a workflow read with its outcome.
	OnGet(ctx context.Context, backend, id string, duration time.Duration, err error)

	// OnPut records a workflow write with its outcome.
	OnPut(ctx context.Context, backend, id string, size int, duration time.Duration, err error)

	// OnDelete records a workflow deletion with its outcome.
	OnDelete(ctx context.Context, backend, id string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCanvasHooks is a no-op implementation of CanvasHooks.
type NoopCanvasHooks struct{}

func (NoopCanvasHooks) OnGestureStart(string) {}
func (NoopCanvasHooks) OnGestureEnd(string)   {}
func (NoopCanvasHooks) OnZoom(float64)        {}
func (NoopCanvasHooks) OnCheckpoint()         {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnPut(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, time.Duration, error)   {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	canvasHooks CanvasHooks = NoopCanvasHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetCanvasHooks registers custom canvas hooks.
// This should be called once at application startup before any canvas use.
func SetCanvasHooks(h CanvasHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		canvasHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store use.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Canvas returns the registered canvas hooks.
func Canvas() CanvasHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return canvasHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	canvasHooks = NoopCanvasHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
