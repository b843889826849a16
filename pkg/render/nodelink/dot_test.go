package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lineup/pkg/conflict"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

func chain(t *testing.T) *roster.Roster {
	t.Helper()
	r, err := roster.FromMap(map[string][]string{
		"A": {"x", "y"},
		"B": {"y", "z"},
		"C": {"z"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestToDOT(t *testing.T) {
	r := chain(t)
	dot := ToDOT(r, conflict.Build(r.Acts), Options{Detailed: true})

	for _, want := range []string{
		"graph G {",
		`"A" -- "B" [label="y"]`,
		`"B" -- "C" [label="z"]`,
		`label="A\nx\ny"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"A" -- "C"`) {
		t.Error("ToDOT() has an edge between acts without shared performers")
	}
}

func TestToDOTWithResult(t *testing.T) {
	r := chain(t)
	res, err := schedule.Schedule(context.Background(), r, schedule.MaximizeRest, []schedule.Override{{Round: 2, Act: "C"}})
	if err != nil {
		t.Fatal(err)
	}
	// Order B, A, C.
	dot := ToDOT(r, conflict.Build(r.Acts), Options{Result: res})

	for _, want := range []string{
		`label="1. B"`,
		`label="3. C", style="rounded,filled,bold"`,
		`"A" -- "B" [label="y", color="` + colorBackToBack + `"`,
		`"B" -- "C" [label="z", color="` + colorQuickChange + `"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestGap(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 1, 0},
		{3, 1, 1},
		{0, 5, 4},
	}
	for _, tt := range tests {
		if got := gap(tt.a, tt.b); got != tt.want {
			t.Errorf("gap(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.25 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.25 200.00" width="100" height="200"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}
