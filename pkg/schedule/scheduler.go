package schedule

import (
	"context"
	"errors"
	"slices"

	"github.com/matzehuels/lineup/pkg/conflict"
	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

// ErrDone is returned by [Scheduler.Step] once every act has been placed.
var ErrDone = errors.New("schedule complete")

// State is the lifecycle stage of an act inside a scheduler.
type State int

const (
	Pending       State = iota // eligible for automatic selection
	LockedPending              // reserved for a pinned round
	Scheduled                  // placed; removed from the graph
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case LockedPending:
		return "locked"
	case Scheduled:
		return "scheduled"
	}
	return "unknown"
}

// Round describes one placement.
type Round struct {
	Index      int      `json:"index" bson:"index"`
	Act        string   `json:"act" bson:"act"`
	Performers []string `json:"performers" bson:"performers"`

	// Pinned is set when an override placed the act.
	Pinned bool `json:"pinned" bson:"pinned"`
	// Forced is set when every candidate carried the forced weight.
	Forced bool  `json:"forced" bson:"forced"`
	Weight Score `json:"weight" bson:"weight"`

	// Instant lists performers with zero rest before this act, Quick those
	// with exactly one act of rest.
	Instant []string `json:"instant,omitempty" bson:"instant,omitempty"`
	Quick   []string `json:"quick,omitempty" bson:"quick,omitempty"`
}

// Observer is notified after every round. Implementations must not retain
// the slices in Round beyond the call.
type Observer interface {
	OnRound(Round)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Round)

// OnRound calls f(r).
func (f ObserverFunc) OnRound(r Round) { f(r) }

// Options configures a Scheduler.
type Options struct {
	Policy    Policy     // DefaultPolicy if empty
	Overrides []Override // validated by New
	Observer  Observer   // optional
}

// Scheduler places the acts of a roster one round at a time.
//
// A Scheduler owns a private copy of the roster, so the caller's roster is
// never mutated and repeated runs over the same input are identical.
// It is not safe for concurrent use.
type Scheduler struct {
	roster   *roster.Roster
	graph    *conflict.Graph
	policy   Policy
	pins     map[int]int // round -> act ID
	states   []State
	observer Observer

	round   int
	rounds  []Round
	metrics Metrics
}

// New validates opts against r and returns a scheduler positioned before
// round 0. Policy and override problems are reported here, before any act
// is placed.
func New(r *roster.Roster, opts Options) (*Scheduler, error) {
	if r == nil {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "roster is nil")
	}
	policy := opts.Policy
	if policy == "" {
		policy = DefaultPolicy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := Overrides(opts.Overrides).Validate(r); err != nil {
		return nil, err
	}

	own := r.Clone()
	own.Performers.Reset()
	s := &Scheduler{
		roster:   own,
		graph:    conflict.Build(own.Acts),
		policy:   policy,
		pins:     make(map[int]int, len(opts.Overrides)),
		states:   make([]State, own.Len()),
		observer: opts.Observer,
		rounds:   make([]Round, 0, own.Len()),
	}
	for _, a := range own.Acts {
		a.Position = roster.Unscheduled
		a.Locked = false
	}
	for _, o := range opts.Overrides {
		a, _ := own.Act(o.Act)
		a.Locked = true
		s.pins[o.Round] = a.ID
		s.states[a.ID] = LockedPending
	}
	return s, nil
}

// Policy returns the active policy.
func (s *Scheduler) Policy() Policy { return s.policy }

// Done reports whether every act has been placed.
func (s *Scheduler) Done() bool { return s.round >= s.roster.Len() }

// NextRound returns the index of the round Step will place.
func (s *Scheduler) NextRound() int { return s.round }

// Metrics returns a snapshot of the counters.
func (s *Scheduler) Metrics() Metrics { return s.metrics }

// State returns the state of the named act.
func (s *Scheduler) State(act string) (State, bool) {
	a, ok := s.roster.Act(act)
	if !ok {
		return 0, false
	}
	return s.states[a.ID], true
}

// Candidates returns the acts eligible for automatic selection this round
// with their current weights, best first.
func (s *Scheduler) Candidates() []Candidate {
	var out []Candidate
	for _, a := range s.roster.Acts {
		if s.states[a.ID] != Pending {
			continue
		}
		out = append(out, Candidate{Act: a, Weight: s.policy.Weight(a, s.graph, s.roster.Performers)})
	}
	slices.SortFunc(out, s.policy.Compare)
	return out
}

// Weights returns the current weight of every pending, unpinned act.
func (s *Scheduler) Weights() map[string]Score {
	out := make(map[string]Score)
	for _, c := range s.Candidates() {
		out[c.Act.Name] = c.Weight
	}
	return out
}

// Step places one act and returns the round it produced.
//
// A pinned round places its act regardless of weight. Otherwise every
// pending act is scored and the best by [Policy.Compare] is placed. When
// the best is itself forced the round still proceeds and is reported with
// Forced set.
func (s *Scheduler) Step() (Round, error) {
	if s.Done() {
		return Round{}, ErrDone
	}

	var (
		act *roster.Act
		rnd = Round{Index: s.round}
	)
	if id, ok := s.pins[s.round]; ok {
		act = s.roster.Acts[id]
		rnd.Pinned = true
		rnd.Weight = s.policy.Weight(act, s.graph, s.roster.Performers)
	} else {
		cands := s.Candidates()
		if len(cands) == 0 {
			return Round{}, lerrors.New(lerrors.ErrCodeInternal, "no candidate for round %d", s.round)
		}
		best := cands[0]
		act = best.Act
		rnd.Weight = best.Weight
		rnd.Forced = s.policy.IsForced(best.Weight)
	}
	rnd.Act = act.Name
	rnd.Performers = slices.Clone(act.Performers)

	for _, name := range act.Performers {
		p, _ := s.roster.Performers.Get(name)
		switch p.SinceLast {
		case 0:
			rnd.Instant = append(rnd.Instant, name)
		case 1:
			rnd.Quick = append(rnd.Quick, name)
		}
	}
	s.metrics.record(rnd)

	s.graph.Remove(act.ID)
	act.Position = s.round
	s.states[act.ID] = Scheduled

	s.roster.Performers.Appear(act.Performers)
	s.roster.Performers.TickAll(act.Performers)

	s.rounds = append(s.rounds, rnd)
	s.round++
	if s.observer != nil {
		s.observer.OnRound(rnd)
	}
	return rnd, nil
}

// Run places every remaining act. ctx is checked between rounds; a
// cancelled run returns ctx.Err() and no result.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.Step(); err != nil {
			return nil, err
		}
	}
	return s.Result(), nil
}

// Result assembles the outcome of a finished run. It returns nil while
// acts remain.
func (s *Scheduler) Result() *Result {
	if !s.Done() {
		return nil
	}
	res := &Result{
		Policy:     s.policy,
		Order:      make([]string, 0, len(s.rounds)),
		Placements: make([]Placement, 0, len(s.rounds)),
		Rounds:     slices.Clone(s.rounds),
		Metrics:    s.metrics,
	}
	for _, r := range s.rounds {
		res.Order = append(res.Order, r.Act)
		res.Placements = append(res.Placements, Placement{
			Position:   r.Index,
			Act:        r.Act,
			Performers: r.Performers,
			Locked:     r.Pinned,
		})
	}
	res.Performers = performerStats(s.roster.Performers, s.rounds)
	return res
}

func performerStats(reg *roster.Registry, rounds []Round) []PerformerStats {
	last := make(map[string]int)
	minRest := make(map[string]int)
	for _, r := range rounds {
		for _, name := range r.Performers {
			if prev, ok := last[name]; ok {
				rest := r.Index - prev - 1
				if cur, seen := minRest[name]; !seen || rest < cur {
					minRest[name] = rest
				}
			}
			last[name] = r.Index
		}
	}

	out := make([]PerformerStats, 0, reg.Len())
	for _, p := range reg.Performers() {
		st := PerformerStats{
			Name:        p.Name,
			Appearances: p.Appearances,
			Completed:   p.Completed,
			MinRest:     NoRest,
		}
		if v, ok := minRest[p.Name]; ok {
			st.MinRest = v
		}
		out = append(out, st)
	}
	return out
}

// Schedule runs a scheduler over r to completion.
func Schedule(ctx context.Context, r *roster.Roster, policy Policy, overrides []Override) (*Result, error) {
	s, err := New(r, Options{Policy: policy, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// Pins returns pinned act names keyed by round.
func (s *Scheduler) Pins() map[int]string {
	out := make(map[int]string, len(s.pins))
	for round, id := range s.pins {
		out[round] = s.roster.Acts[id].Name
	}
	return out
}
