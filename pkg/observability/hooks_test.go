package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScheduleHooks{}
	s.OnScheduleStart(ctx, "maximize-rest", 12)
	s.OnScheduleComplete(ctx, "maximize-rest", 2, 1, time.Millisecond, nil)
	s.OnForcedRound(ctx, "maximize-rest", 4)
	s.OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "schedule")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "graph", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Schedule().(NoopScheduleHooks); !ok {
		t.Error("Schedule() should return NoopScheduleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customSchedule := &testScheduleHooks{}
	SetScheduleHooks(customSchedule)
	if Schedule() != customSchedule {
		t.Error("SetScheduleHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Schedule().(NoopScheduleHooks); !ok {
		t.Error("Reset() should restore NoopScheduleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testScheduleHooks{}
	SetScheduleHooks(custom)
	SetScheduleHooks(nil)

	if Schedule() != custom {
		t.Error("SetScheduleHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.OnScheduleComplete(ctx, "maximize-rest", 3, 1, time.Millisecond, nil)
	p.OnScheduleComplete(ctx, "maximize-rest", 1, 0, time.Millisecond, nil)
	p.OnScheduleComplete(ctx, "minimize-risk", 0, 0, 0, errors.New("boom"))
	p.OnForcedRound(ctx, "maximize-rest", 2)
	p.OnCacheHit(ctx, "schedule")
	p.OnCacheMiss(ctx, "schedule")
	p.OnCacheMiss(ctx, "schedule")

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"ok schedules", p.schedules.WithLabelValues("maximize-rest", "ok"), 2},
		{"failed schedules", p.schedules.WithLabelValues("minimize-risk", "error"), 1},
		{"quick changes", p.quickChanges.WithLabelValues("maximize-rest"), 4},
		{"instant conflicts", p.instantConflicts.WithLabelValues("maximize-rest"), 1},
		{"forced rounds", p.forcedRounds.WithLabelValues("maximize-rest"), 1},
		{"cache hits", p.cacheEvents.WithLabelValues("schedule", "hit"), 1},
		{"cache misses", p.cacheEvents.WithLabelValues("schedule", "miss"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPrometheusRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering the collectors twice should panic")
		}
	}()
	NewPrometheus(reg)
}

type testScheduleHooks struct{ NoopScheduleHooks }
type testCacheHooks struct{ NoopCacheHooks }
