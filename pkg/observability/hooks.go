// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through the registered hooks; the binary decides
// what receives them. Nothing is recorded until a hook is registered, so
// library users pay nothing for instrumentation they did not ask for.
//
// # Usage
//
// Register hooks at application startup:
//
//	reg := prometheus.NewRegistry()
//	m := observability.NewPrometheus(reg)
//	observability.SetScheduleHooks(m)
//	observability.SetCacheHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Schedule().OnScheduleStart(ctx, policy, acts)
//	// ... run the scheduler ...
//	observability.Schedule().OnScheduleComplete(ctx, policy, metrics, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ScheduleHooks receives events from the scheduling pipeline.
type ScheduleHooks interface {
	// Schedule events
	OnScheduleStart(ctx context.Context, policy string, acts int)
	OnScheduleComplete(ctx context.Context, policy string, quickChanges, instantConflicts int, duration time.Duration, err error)

	// OnForcedRound records a round where every candidate put a performer
	// back on stage immediately.
	OnForcedRound(ctx context.Context, policy string, round int)

	// Render events
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

// NoopScheduleHooks is a no-op implementation of ScheduleHooks.
type NoopScheduleHooks struct{}

func (NoopScheduleHooks) OnScheduleStart(context.Context, string, int) {}
func (NoopScheduleHooks) OnScheduleComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopScheduleHooks) OnForcedRound(context.Context, string, int)                          {}
func (NoopScheduleHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	scheduleHooks ScheduleHooks = NoopScheduleHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetScheduleHooks registers custom schedule hooks.
// This should be called once at application startup.
func SetScheduleHooks(h ScheduleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scheduleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Schedule returns the registered schedule hooks.
func Schedule() ScheduleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scheduleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scheduleHooks = NoopScheduleHooks{}
	cacheHooks = NoopCacheHooks{}
}
