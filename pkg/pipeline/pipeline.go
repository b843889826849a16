// Package pipeline provides the load → schedule → render pipeline shared by
// the CLI and the HTTP server.
//
// Centralizing it here keeps caching, run history and logging identical for
// every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, store, logger)
//	out, err := runner.Schedule(ctx, r, pipeline.Options{
//	    Policy:    "maximize-rest",
//	    Overrides: []schedule.Override{{Round: 0, Act: "Opening"}},
//	})
//	if err != nil {
//	    return err
//	}
//	report.WriteText(os.Stdout, out.Schedule)
//
// Render the conflict diagram of the same roster:
//
//	svg, err := runner.Graph(ctx, r, pipeline.GraphOptions{
//	    Format: pipeline.FormatSVG,
//	    Result: out.Schedule,
//	})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/schedule"
)

const (
	// TTLSchedule is how long a computed schedule stays cached. Schedules
	// are a pure function of their key, so this only bounds disk use.
	TTLSchedule = 7 * 24 * time.Hour

	// TTLGraph is how long a rendered conflict diagram stays cached.
	TTLGraph = 24 * time.Hour
)

// Graph output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidGraphFormats is the set of supported diagram formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// Options configures one scheduling run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Policy    string              `json:"policy,omitempty"`
	Overrides []schedule.Override `json:"overrides,omitempty"`

	// Source names where the roster came from, for run history.
	Source string `json:"source,omitempty"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// NoHistory skips recording the run.
	NoHistory bool `json:"no_history,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	policy    schedule.Policy
	validated bool
}

// ValidateAndSetDefaults parses the policy and fills defaults.
// Calling it more than once is harmless.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	p, err := schedule.ParsePolicy(o.Policy)
	if err != nil {
		return err
	}
	o.policy = p
	o.Policy = p.String()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ParsedPolicy returns the policy after ValidateAndSetDefaults.
func (o *Options) ParsedPolicy() schedule.Policy { return o.policy }

// PinKeys renders the overrides as "round=act" strings in round order, the
// form used in cache keys.
func (o *Options) PinKeys() []string {
	sorted := slices.Clone(o.Overrides)
	slices.SortFunc(sorted, func(a, b schedule.Override) int { return a.Round - b.Round })
	keys := make([]string, len(sorted))
	for i, ov := range sorted {
		keys[i] = fmt.Sprintf("%d=%s", ov.Round, ov.Act)
	}
	return keys
}

// GraphOptions configures conflict diagram rendering.
type GraphOptions struct {
	Format   string           `json:"format,omitempty"`
	Detailed bool             `json:"detailed,omitempty"`
	Result   *schedule.Result `json:"result,omitempty"`
}

// ValidateAndSetDefaults checks the format, defaulting to SVG.
func (o *GraphOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if !ValidGraphFormats[o.Format] {
		return lerrors.New(lerrors.ErrCodeInvalidFormat, "invalid graph format %q (must be one of: dot, svg, png)", o.Format)
	}
	return nil
}

// Result contains the outputs of a scheduling run.
type Result struct {
	Schedule *schedule.Result

	// RosterHash is the content hash of the roster, used in cache keys and
	// run history.
	RosterHash string

	// RunID identifies the history record, empty when history is off.
	RunID string

	CacheHit bool
	Duration time.Duration
}
