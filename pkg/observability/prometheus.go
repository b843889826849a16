package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements ScheduleHooks and CacheHooks with Prometheus
// collectors. Register it with SetScheduleHooks and SetCacheHooks.
type Prometheus struct {
	schedules        *prometheus.CounterVec
	scheduleDuration *prometheus.HistogramVec
	quickChanges     *prometheus.CounterVec
	instantConflicts *prometheus.CounterVec
	forcedRounds     *prometheus.CounterVec
	renders          *prometheus.CounterVec
	renderBytes      *prometheus.HistogramVec
	cacheEvents      *prometheus.CounterVec
}

// NewPrometheus creates the lineup collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "schedules_total",
			Help:      "Running orders computed, by policy and outcome.",
		}, []string{"policy", "outcome"}),
		scheduleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lineup",
			Name:      "schedule_duration_seconds",
			Help:      "Time spent computing a running order.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"policy"}),
		quickChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "quick_changes_total",
			Help:      "Performers appearing with exactly one act of rest.",
		}, []string{"policy"}),
		instantConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "instant_conflicts_total",
			Help:      "Rounds with a performer appearing in consecutive acts.",
		}, []string{"policy"}),
		forcedRounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "forced_rounds_total",
			Help:      "Rounds where no candidate avoided a back-to-back appearance.",
		}, []string{"policy"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "renders_total",
			Help:      "Rendered outputs, by format and outcome.",
		}, []string{"format", "outcome"}),
		renderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lineup",
			Name:      "render_bytes",
			Help:      "Size of rendered outputs.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
	}
	reg.MustRegister(
		p.schedules, p.scheduleDuration, p.quickChanges, p.instantConflicts,
		p.forcedRounds, p.renders, p.renderBytes, p.cacheEvents,
	)
	return p
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnScheduleStart(context.Context, string, int) {}

func (p *Prometheus) OnScheduleComplete(_ context.Context, policy string, quick, instant int, d time.Duration, err error) {
	p.schedules.WithLabelValues(policy, outcome(err)).Inc()
	if err != nil {
		return
	}
	p.scheduleDuration.WithLabelValues(policy).Observe(d.Seconds())
	p.quickChanges.WithLabelValues(policy).Add(float64(quick))
	p.instantConflicts.WithLabelValues(policy).Add(float64(instant))
}

func (p *Prometheus) OnForcedRound(_ context.Context, policy string, _ int) {
	p.forcedRounds.WithLabelValues(policy).Inc()
}

func (p *Prometheus) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	p.renders.WithLabelValues(format, outcome(err)).Inc()
	if err == nil {
		p.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

var (
	_ ScheduleHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
)
