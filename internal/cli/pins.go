package cli

import (
	"strconv"
	"strings"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// pinFlags collects the pinning flags shared by schedule and arrange.
type pinFlags struct {
	pins  []string // "N=Act", N counted from 1
	first string
	last  string
}

// overrides converts the flags to 0-based overrides for a show of n acts.
// --first and --last are shorthand for 1=Act and n=Act.
func (f pinFlags) overrides(n int) ([]schedule.Override, error) {
	out := make([]schedule.Override, 0, len(f.pins)+2)
	for _, p := range f.pins {
		o, err := parsePin(p)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if f.first != "" {
		out = append(out, schedule.Override{Round: 0, Act: f.first})
	}
	if f.last != "" {
		if n == 0 {
			return nil, lerrors.New(lerrors.ErrCodeInvalidOverride, "--last %q: show has no acts", f.last)
		}
		out = append(out, schedule.Override{Round: n - 1, Act: f.last})
	}
	return out, nil
}

// parsePin parses "N=Act" with N a 1-based show position.
func parsePin(s string) (schedule.Override, error) {
	pos, act, ok := strings.Cut(s, "=")
	if !ok {
		return schedule.Override{}, lerrors.New(lerrors.ErrCodeInvalidOverride, "pin %q: want POSITION=ACT", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(pos))
	if err != nil || n < 1 {
		return schedule.Override{}, lerrors.New(lerrors.ErrCodeInvalidOverride, "pin %q: position must be a number from 1", s)
	}
	act = strings.TrimSpace(act)
	if act == "" {
		return schedule.Override{}, lerrors.New(lerrors.ErrCodeInvalidOverride, "pin %q: missing act name", s)
	}
	return schedule.Override{Round: n - 1, Act: act}, nil
}
