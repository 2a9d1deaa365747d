// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies to the clone engine. Consumers register hooks at startup to
// receive events about document I/O and clone execution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// A Prometheus-backed implementation is provided by [PrometheusHooks].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    reg := prometheus.NewRegistry()
//	    observability.SetCloneHooks(observability.NewPrometheusHooks(reg))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Clone().OnCloneStart(ctx, topLevel, batches)
//	// ... clone ...
//	observability.Clone().OnCloneComplete(ctx, instances, omitted, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Clone Hooks
// =============================================================================

// CloneHooks receives events from the clone engine.
type CloneHooks interface {
	// Document I/O events
	OnDecode(ctx context.Context, path string, instances int, duration time.Duration, err error)
	OnEncode(ctx context.Context, path string, instances int, duration time.Duration, err error)

	// Clone events
	OnCloneStart(ctx context.Context, topLevel, batches int)
	OnBatchComplete(ctx context.Context, batch, instances int, duration time.Duration, err error)
	OnCloneComplete(ctx context.Context, instances, omittedIDs int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCloneHooks is a no-op implementation of CloneHooks.
type NoopCloneHooks struct{}

func (NoopCloneHooks) OnDecode(context.Context, string, int, time.Duration, error)     {}
func (NoopCloneHooks) OnEncode(context.Context, string, int, time.Duration, error)     {}
func (NoopCloneHooks) OnCloneStart(context.Context, int, int)                          {}
func (NoopCloneHooks) OnBatchComplete(context.Context, int, int, time.Duration, error) {}
func (NoopCloneHooks) OnCloneComplete(context.Context, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cloneHooks CloneHooks = NoopCloneHooks{}
	hooksMu    sync.RWMutex
)

// SetCloneHooks registers custom clone hooks.
// This should be called once at application startup before any clone runs.
func SetCloneHooks(h CloneHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cloneHooks = h
	}
}

// Clone returns the registered clone hooks.
func Clone() CloneHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cloneHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cloneHooks = NoopCloneHooks{}
}
