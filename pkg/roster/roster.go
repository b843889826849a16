package roster

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
)

var (
	// ErrDuplicateAct is returned by [Build] when two entries share a name.
	ErrDuplicateAct = errors.New("duplicate act name")

	// ErrUnknownAct is returned when an act name is not in the roster.
	ErrUnknownAct = errors.New("unknown act")
)

// Unscheduled is the Position of an act that has not been placed yet.
const Unscheduled = -1

// Act is a schedulable unit of the show.
type Act struct {
	ID         int      // Index in Roster.Acts
	Name       string   // Unique act name
	Performers []string // Sorted, unique performer names

	// Position is the act's slot in the running order, or Unscheduled.
	Position int
	// Locked marks an act pinned to a fixed slot by an operator.
	Locked bool
}

// Has reports whether the named performer is in the act.
func (a *Act) Has(performer string) bool {
	_, ok := slices.BinarySearch(a.Performers, performer)
	return ok
}

// Shares reports whether the two acts have at least one performer in common.
// Both performer lists are sorted, so this is a linear merge.
func (a *Act) Shares(b *Act) bool {
	i, j := 0, 0
	for i < len(a.Performers) && j < len(b.Performers) {
		switch strings.Compare(a.Performers[i], b.Performers[j]) {
		case 0:
			return true
		case -1:
			i++
		default:
			j++
		}
	}
	return false
}

// Entry is one act as read from a roster source.
type Entry struct {
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Performers []string `json:"performers" yaml:"performers" toml:"performers"`
}

// Roster is the built form of a show: its acts and the performer registry.
type Roster struct {
	Acts       []*Act
	Performers *Registry

	// Dropped lists acts that had no performers left after trimming.
	Dropped []string

	byName map[string]int
}

// Build constructs a roster from entries, keeping their order. Act and
// performer names are trimmed; empty performer names are dropped, as is any
// act left without performers. A performer listed twice in one act counts
// once.
func Build(entries []Entry) (*Roster, error) {
	r := &Roster{
		Performers: NewRegistry(),
		byName:     make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if err := lerrors.ValidateActName(name); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if _, dup := r.byName[name]; dup || slices.Contains(r.Dropped, name) {
			return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, ErrDuplicateAct, "act %q", name)
		}

		performers, err := cleanPerformers(e.Performers)
		if err != nil {
			return nil, fmt.Errorf("act %q: %w", name, err)
		}
		if len(performers) == 0 {
			r.Dropped = append(r.Dropped, name)
			continue
		}

		act := &Act{ID: len(r.Acts), Name: name, Performers: performers, Position: Unscheduled}
		for _, p := range performers {
			r.Performers.GetOrCreate(p)
		}
		r.byName[name] = act.ID
		r.Acts = append(r.Acts, act)
	}
	return r, nil
}

// FromMap builds a roster from a name -> performers mapping. Acts are
// ordered by name.
func FromMap(m map[string][]string) (*Roster, error) {
	entries := make([]Entry, 0, len(m))
	for name, performers := range m {
		entries = append(entries, Entry{Name: name, Performers: performers})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return Build(entries)
}

func cleanPerformers(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := lerrors.ValidatePerformerName(p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Len returns the number of acts.
func (r *Roster) Len() int { return len(r.Acts) }

// Act returns the act with the given name.
func (r *Roster) Act(name string) (*Act, bool) {
	id, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.Acts[id], true
}

// ActNames returns act names in roster order.
func (r *Roster) ActNames() []string {
	out := make([]string, len(r.Acts))
	for i, a := range r.Acts {
		out[i] = a.Name
	}
	return out
}

// Entries returns the roster in its source form, without dropped acts.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, len(r.Acts))
	for i, a := range r.Acts {
		out[i] = Entry{Name: a.Name, Performers: slices.Clone(a.Performers)}
	}
	return out
}

// Clone returns a deep copy, including performer clocks and act positions.
func (r *Roster) Clone() *Roster {
	c := &Roster{
		Acts:       make([]*Act, len(r.Acts)),
		Performers: r.Performers.Clone(),
		Dropped:    slices.Clone(r.Dropped),
		byName:     make(map[string]int, len(r.byName)),
	}
	for i, a := range r.Acts {
		cp := *a
		cp.Performers = slices.Clone(a.Performers)
		c.Acts[i] = &cp
		c.byName[a.Name] = i
	}
	return c
}
