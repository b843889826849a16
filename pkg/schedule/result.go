package schedule

import (
	"errors"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

var (
	// ErrRoundOutOfRange is returned when an override targets a round
	// outside [0, number of acts).
	ErrRoundOutOfRange = errors.New("round out of range")

	// ErrActPinnedTwice is returned when two overrides name the same act.
	ErrActPinnedTwice = errors.New("act pinned twice")

	// ErrRoundPinnedTwice is returned when two overrides target the same round.
	ErrRoundPinnedTwice = errors.New("round pinned twice")
)

// NoRest is the MinRest of a performer who appears at most once.
const NoRest = -1

// Metrics counts costume-change risk across a run. Only the scheduling loop
// updates it; everyone else receives copies.
type Metrics struct {
	// QuickChanges is the number of performer appearances with exactly one
	// act of rest.
	QuickChanges int `json:"quick_changes" bson:"quick_changes"`

	// InstantConflicts is the number of rounds that placed at least one
	// performer with zero rest.
	InstantConflicts int `json:"instant_conflicts" bson:"instant_conflicts"`
}

func (m *Metrics) record(r Round) {
	m.QuickChanges += len(r.Quick)
	if len(r.Instant) > 0 {
		m.InstantConflicts++
	}
}

// Override pins an act to a 0-based round.
type Override struct {
	Round int    `json:"round" yaml:"round" bson:"round"`
	Act   string `json:"act" yaml:"act" bson:"act"`
}

// Overrides is a set of pins.
type Overrides []Override

// Validate checks every override against r. Any failure is an
// INVALID_OVERRIDE error wrapping one of ErrRoundOutOfRange,
// roster.ErrUnknownAct, ErrActPinnedTwice or ErrRoundPinnedTwice.
func (o Overrides) Validate(r *roster.Roster) error {
	acts := make(map[string]int, len(o))
	rounds := make(map[int]string, len(o))
	for _, ov := range o {
		if ov.Round < 0 || ov.Round >= r.Len() {
			return lerrors.Wrap(lerrors.ErrCodeInvalidOverride, ErrRoundOutOfRange,
				"pin %q at round %d (show has %d acts)", ov.Act, ov.Round, r.Len())
		}
		if _, ok := r.Act(ov.Act); !ok {
			return lerrors.Wrap(lerrors.ErrCodeInvalidOverride, roster.ErrUnknownAct, "pin %q", ov.Act)
		}
		if prev, ok := acts[ov.Act]; ok {
			return lerrors.Wrap(lerrors.ErrCodeInvalidOverride, ErrActPinnedTwice,
				"%q at rounds %d and %d", ov.Act, prev, ov.Round)
		}
		if prev, ok := rounds[ov.Round]; ok {
			return lerrors.Wrap(lerrors.ErrCodeInvalidOverride, ErrRoundPinnedTwice,
				"round %d has %q and %q", ov.Round, prev, ov.Act)
		}
		acts[ov.Act] = ov.Round
		rounds[ov.Round] = ov.Act
	}
	return nil
}

// Placement is one slot of the running order.
type Placement struct {
	Position   int      `json:"position" bson:"position"`
	Act        string   `json:"act" bson:"act"`
	Performers []string `json:"performers" bson:"performers"`
	Locked     bool     `json:"locked" bson:"locked"`
}

// PerformerStats summarises one performer over a finished run.
type PerformerStats struct {
	Name        string `json:"name" bson:"name"`
	Appearances int    `json:"appearances" bson:"appearances"`
	Completed   int    `json:"completed" bson:"completed"`

	// MinRest is the fewest acts between two consecutive appearances, or
	// NoRest for performers in a single act.
	MinRest int `json:"min_rest" bson:"min_rest"`
}

// Result is a complete running order.
type Result struct {
	Policy     Policy           `json:"policy" bson:"policy"`
	Order      []string         `json:"order" bson:"order"`
	Placements []Placement      `json:"placements" bson:"placements"`
	Rounds     []Round          `json:"rounds" bson:"rounds"`
	Metrics    Metrics          `json:"metrics" bson:"metrics"`
	Performers []PerformerStats `json:"performers" bson:"performers"`
}

// Len returns the number of placed acts.
func (r *Result) Len() int { return len(r.Order) }

// Position returns the 0-based slot of the named act.
func (r *Result) Position(act string) (int, bool) {
	for i, name := range r.Order {
		if name == act {
			return i, true
		}
	}
	return 0, false
}

// Overrides returns the pins that reproduce the result's locked slots.
func (r *Result) Overrides() []Override {
	var out []Override
	for _, p := range r.Placements {
		if p.Locked {
			out = append(out, Override{Round: p.Position, Act: p.Act})
		}
	}
	return out
}
