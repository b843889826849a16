package schedule

import (
	"encoding/json"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/lineup/pkg/conflict"
	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"maximize-rest", MaximizeRest, false},
		{"MAXIMIZE_REST", MaximizeRest, false},
		{" minimize_risk ", MinimizeRisk, false},
		{"", DefaultPolicy, false},
		{"shortest", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !lerrors.Is(err, lerrors.ErrCodeInvalidPolicy) {
			t.Errorf("ParsePolicy(%q) code = %v", tt.in, lerrors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWeight(t *testing.T) {
	r, _ := roster.FromMap(map[string][]string{
		"A": {"x", "y"},
		"B": {"y", "z"},
		"C": {"z"},
	})
	g := conflict.Build(r.Acts)
	perf := r.Performers
	a, _ := r.Act("A")
	b, _ := r.Act("B")
	c, _ := r.Act("C")

	// Fresh clocks: weights depend on degree only.
	if got := MaximizeRest.Weight(b, g, perf); got != 4 {
		t.Errorf("MaximizeRest.Weight(B) = %v, want 4", got)
	}
	if got := MinimizeRisk.Weight(b, g, perf); got != 0 {
		t.Errorf("MinimizeRisk.Weight(B) = %v, want 0", got)
	}

	// y just performed, z had one act of rest.
	y, _ := perf.Get("y")
	z, _ := perf.Get("z")
	y.SinceLast, z.SinceLast = 0, 1

	tests := []struct {
		policy Policy
		act    *roster.Act
		want   Score
	}{
		{MaximizeRest, a, Score(math.Inf(-1))},
		{MaximizeRest, b, Score(math.Inf(-1))},
		{MaximizeRest, c, 2},
		{MinimizeRisk, a, Score(math.Inf(1))},
		{MinimizeRisk, b, Score(math.Inf(1))},
		{MinimizeRisk, c, 1},
	}
	for _, tt := range tests {
		if got := tt.policy.Weight(tt.act, g, perf); got != tt.want {
			t.Errorf("%s.Weight(%s) = %v, want %v", tt.policy, tt.act.Name, got, tt.want)
		}
	}

	if !MaximizeRest.IsForced(Score(math.Inf(-1))) || MaximizeRest.IsForced(Score(math.Inf(1))) {
		t.Error("MaximizeRest.IsForced mismatch")
	}
	if !MinimizeRisk.IsForced(Score(math.Inf(1))) || MinimizeRisk.IsForced(0) {
		t.Error("MinimizeRisk.IsForced mismatch")
	}
}

func TestCompareBreaksTiesByName(t *testing.T) {
	mk := func(name string, w Score) Candidate {
		return Candidate{Act: &roster.Act{Name: name}, Weight: w}
	}
	inf := Score(math.Inf(1))

	tests := []struct {
		policy Policy
		in     []Candidate
		want   []string
	}{
		{MaximizeRest, []Candidate{mk("b", 2), mk("a", 2), mk("c", 4)}, []string{"c", "a", "b"}},
		{MaximizeRest, []Candidate{mk("b", -inf), mk("a", -inf)}, []string{"a", "b"}},
		{MinimizeRisk, []Candidate{mk("b", 1), mk("c", 0), mk("a", 1)}, []string{"c", "a", "b"}},
		{MinimizeRisk, []Candidate{mk("d", inf), mk("a", inf), mk("z", 3)}, []string{"z", "a", "d"}},
	}
	for _, tt := range tests {
		slices.SortFunc(tt.in, tt.policy.Compare)
		var got []string
		for _, c := range tt.in {
			got = append(got, c.Act.Name)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("%s order = %v, want %v", tt.policy, got, tt.want)
		}
	}
}

func TestScoreJSON(t *testing.T) {
	for _, s := range []Score{0, 4, 1.5, Score(math.Inf(1)), Score(math.Inf(-1))} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", s, err)
		}
		var back Score
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %s -> %v", s, data, back)
		}
	}
	if got := Score(math.Inf(-1)).String(); got != "-inf" {
		t.Errorf("String() = %q, want -inf", got)
	}
	var s Score
	if err := json.Unmarshal([]byte(`"huge"`), &s); err == nil {
		t.Error("Unmarshal(\"huge\") error = nil")
	}
}
