package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineup/pkg/cache"
	"github.com/matzehuels/lineup/pkg/conflict"
	"github.com/matzehuels/lineup/pkg/history"
	rosterio "github.com/matzehuels/lineup/pkg/io"
	"github.com/matzehuels/lineup/pkg/observability"
	"github.com/matzehuels/lineup/pkg/render/nodelink"
	"github.com/matzehuels/lineup/pkg/report"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// Runner encapsulates pipeline execution with caching and run history.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger

	// TTL bounds how long schedules stay cached; zero means TTLSchedule.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means DefaultKeyer and a nil store disables run history.
func NewRunner(c cache.Cache, keyer cache.Keyer, store history.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = history.NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, History: store, Logger: logger}
}

// RosterHash returns the content hash of r's canonical JSON form.
func RosterHash(r *roster.Roster) (string, error) {
	var buf bytes.Buffer
	if err := rosterio.WriteJSON(&buf, r.Entries()); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Schedule computes the running order of r, serving it from the cache when
// an identical run was done before.
func (r *Runner) Schedule(ctx context.Context, ro *roster.Roster, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	policy := opts.ParsedPolicy()
	logger := opts.Logger

	hash, err := RosterHash(ro)
	if err != nil {
		return nil, err
	}
	out := &Result{RosterHash: hash}
	key := r.Keyer.ScheduleKey(hash, cache.ScheduleKeyOpts{Policy: policy.String(), Pins: opts.PinKeys()})

	start := time.Now()
	if !opts.Refresh {
		out.Schedule, out.CacheHit = r.cached(ctx, key)
	}
	if out.Schedule == nil {
		hooks := observability.Schedule()
		hooks.OnScheduleStart(ctx, policy.String(), ro.Len())

		s, err := schedule.New(ro, schedule.Options{
			Policy:    policy,
			Overrides: opts.Overrides,
			Observer:  logObserver(ctx, logger, policy),
		})
		if err != nil {
			hooks.OnScheduleComplete(ctx, policy.String(), 0, 0, time.Since(start), err)
			return nil, err
		}
		res, err := s.Run(ctx)
		if err != nil {
			hooks.OnScheduleComplete(ctx, policy.String(), 0, 0, time.Since(start), err)
			return nil, err
		}
		hooks.OnScheduleComplete(ctx, policy.String(), res.Metrics.QuickChanges, res.Metrics.InstantConflicts, time.Since(start), nil)
		out.Schedule = res
		r.store(ctx, key, res)
	}
	out.Duration = time.Since(start)

	logger.Info("scheduled acts",
		"acts", out.Schedule.Len(),
		"policy", policy,
		"quick_changes", out.Schedule.Metrics.QuickChanges,
		"instant_conflicts", out.Schedule.Metrics.InstantConflicts,
		"cached", out.CacheHit,
		"duration", out.Duration)

	if !opts.NoHistory {
		rec := history.NewRecord(opts.Source, hash, opts.Overrides, out.Schedule)
		if err := r.History.Save(ctx, rec); err != nil {
			logger.Warn("could not record run", "error", err)
		} else {
			out.RunID = rec.ID
		}
	}
	return out, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*schedule.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "schedule")
		return nil, false
	}
	res, err := report.ReadJSON(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "schedule")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "schedule")
	return res, true
}

func (r *Runner) store(ctx context.Context, key string, res *schedule.Result) {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, res); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), r.ttl()); err != nil {
		r.Logger.Debug("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "schedule", buf.Len())
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return TTLSchedule
}

// Graph renders the conflict diagram of ro. SVG and PNG output is cached;
// DOT is cheap enough to rebuild every time.
func (r *Runner) Graph(ctx context.Context, ro *roster.Roster, opts GraphOptions) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	dot := nodelink.ToDOT(ro, conflict.Build(ro.Acts), nodelink.Options{Detailed: opts.Detailed, Result: opts.Result})
	if opts.Format == FormatDOT {
		observability.Schedule().OnRenderComplete(ctx, opts.Format, len(dot), time.Since(start), nil)
		return []byte(dot), nil
	}

	hash, err := RosterHash(ro)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.GraphKey(hash, cache.GraphKeyOpts{
		Format:     opts.Format,
		Detailed:   opts.Detailed,
		ResultHash: cache.Hash([]byte(dot)),
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "graph")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "graph")

	var data []byte
	switch opts.Format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	}
	observability.Schedule().OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, TTLGraph); err == nil {
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}
	return data, nil
}

// Close releases the cache and history backends.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.History != nil {
		if err := r.History.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// logObserver logs every placement at debug level and forced rounds at
// warn level.
func logObserver(ctx context.Context, logger *log.Logger, policy schedule.Policy) schedule.Observer {
	return schedule.ObserverFunc(func(rd schedule.Round) {
		logger.Debug("placed act",
			"round", rd.Index+1,
			"act", rd.Act,
			"weight", rd.Weight,
			"pinned", rd.Pinned)
		if rd.Forced {
			observability.Schedule().OnForcedRound(ctx, policy.String(), rd.Index)
			logger.Warn("no act avoids a back-to-back appearance",
				"round", rd.Index+1,
				"act", rd.Act,
				"performers", rd.Instant)
		}
	})
}
