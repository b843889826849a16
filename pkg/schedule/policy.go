package schedule

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/lineup/pkg/conflict"
	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

// Policy selects the weight function and the direction of selection.
type Policy string

const (
	// MaximizeRest weighs an act by twice its live conflict degree and picks
	// the heaviest, placing the most constrained acts while they still have
	// room. An act with a performer who was just on stage weighs -Inf.
	MaximizeRest Policy = "maximize-rest"

	// MinimizeRisk weighs an act by the number of its performers who would
	// get a quick change and picks the lightest. An act with a performer who
	// was just on stage weighs +Inf.
	MinimizeRisk Policy = "minimize-risk"
)

// DefaultPolicy is used when no policy is given.
const DefaultPolicy = MaximizeRest

// Policies lists the supported policies.
var Policies = []Policy{MaximizeRest, MinimizeRisk}

// ParsePolicy parses a policy name. Underscores and case are ignored, so
// "MAXIMIZE_REST" and "maximize-rest" are the same policy. An empty name
// yields DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPolicy, nil
	}
	p := Policy(strings.ReplaceAll(s, "_", "-"))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate returns an INVALID_POLICY error for unknown policies.
func (p Policy) Validate() error {
	switch p {
	case MaximizeRest, MinimizeRisk:
		return nil
	}
	return lerrors.New(lerrors.ErrCodeInvalidPolicy, "unknown policy %q (want %s or %s)", p, MaximizeRest, MinimizeRisk)
}

func (p Policy) String() string { return string(p) }

// Score is the weight of an act in one round. The forced values are
// math.Inf(-1) for MaximizeRest and math.Inf(1) for MinimizeRisk.
type Score float64

// IsInf reports whether s is a forced (infinite) score.
func (s Score) IsInf() bool { return math.IsInf(float64(s), 0) }

func (s Score) String() string {
	switch {
	case math.IsInf(float64(s), 1):
		return "+inf"
	case math.IsInf(float64(s), -1):
		return "-inf"
	}
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

// MarshalJSON encodes infinite scores as the strings "+inf" and "-inf",
// which plain JSON numbers cannot represent.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.IsInf() {
		return json.Marshal(s.String())
	}
	return json.Marshal(float64(s))
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (s *Score) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		switch str {
		case "+inf":
			*s = Score(math.Inf(1))
		case "-inf":
			*s = Score(math.Inf(-1))
		default:
			return lerrors.New(lerrors.ErrCodeInvalidFormat, "invalid score %q", str)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// Weight scores act against the live conflict graph and the current
// performer clocks. It must be recomputed every round.
func (p Policy) Weight(act *roster.Act, g *conflict.Graph, perf *roster.Registry) Score {
	switch p {
	case MinimizeRisk:
		var w Score
		for _, name := range act.Performers {
			pr, _ := perf.Get(name)
			switch pr.SinceLast {
			case 0:
				return Score(math.Inf(1))
			case 1:
				w++
			}
		}
		return w
	default:
		for _, name := range act.Performers {
			if pr, _ := perf.Get(name); pr.SinceLast == 0 {
				return Score(math.Inf(-1))
			}
		}
		return Score(2 * g.Degree(act.ID))
	}
}

// IsForced reports whether w is the policy's "do not pick if avoidable" value.
func (p Policy) IsForced(w Score) bool {
	if p == MinimizeRisk {
		return math.IsInf(float64(w), 1)
	}
	return math.IsInf(float64(w), -1)
}

// Candidate is an act competing for the current round.
type Candidate struct {
	Act    *roster.Act
	Weight Score
}

// Compare orders candidates best first: by weight in the policy's direction,
// then by act name ascending. It is a total order over distinct act names,
// so selection never depends on iteration order.
func (p Policy) Compare(a, b Candidate) int {
	var c int
	if p == MinimizeRisk {
		c = cmp.Compare(a.Weight, b.Weight)
	} else {
		c = cmp.Compare(b.Weight, a.Weight)
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.Act.Name, b.Act.Name)
}
