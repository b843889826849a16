package roster

import (
	"maps"
	"math"
	"slices"
)

// Never is the SinceLast value of a performer who has not appeared yet.
// Ticking it leaves it unchanged.
const Never = math.MaxInt

// Performer is one person in the roster.
type Performer struct {
	Name string

	// Appearances is the number of acts the performer is listed in.
	Appearances int

	// Completed is the number of those acts already placed in the running order.
	Completed int

	// SinceLast is the number of rounds since the performer last appeared,
	// or Never.
	SinceLast int
}

// Registry owns every Performer of a roster, keyed by name.
//
// The zero value is not usable - use NewRegistry.
type Registry struct {
	byName map[string]*Performer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Performer)}
}

// GetOrCreate returns the performer with the given name. A new performer
// starts with one appearance; every later call for the same name counts
// another appearance.
func (r *Registry) GetOrCreate(name string) *Performer {
	if p, ok := r.byName[name]; ok {
		p.Appearances++
		return p
	}
	p := &Performer{Name: name, Appearances: 1, SinceLast: Never}
	r.byName[name] = p
	return p
}

// Get returns the performer with the given name without counting an appearance.
func (r *Registry) Get(name string) (*Performer, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of distinct performers.
func (r *Registry) Len() int { return len(r.byName) }

// Names returns all performer names in ascending order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.byName))
}

// Performers returns all performers ordered by name.
func (r *Registry) Performers() []*Performer {
	names := r.Names()
	out := make([]*Performer, len(names))
	for i, n := range names {
		out[i] = r.byName[n]
	}
	return out
}

// Appear records that the named performers were just on stage: Completed is
// incremented and SinceLast reset to zero. Unknown names are ignored.
func (r *Registry) Appear(names []string) {
	for _, n := range names {
		if p, ok := r.byName[n]; ok {
			p.Completed++
			p.SinceLast = 0
		}
	}
}

// TickAll advances SinceLast by one for every performer not in except.
// Performers who have never appeared stay at Never.
func (r *Registry) TickAll(except []string) {
	for name, p := range r.byName {
		if slices.Contains(except, name) || p.SinceLast == Never {
			continue
		}
		p.SinceLast++
	}
}

// Reset clears Completed and SinceLast for every performer. Appearances are
// kept since they describe the roster, not a run.
func (r *Registry) Reset() {
	for _, p := range r.byName {
		p.Completed = 0
		p.SinceLast = Never
	}
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{byName: make(map[string]*Performer, len(r.byName))}
	for n, p := range r.byName {
		cp := *p
		c.byName[n] = &cp
	}
	return c
}
