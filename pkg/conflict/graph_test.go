package conflict

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/lineup/pkg/roster"
)

func mustRoster(t *testing.T, m map[string][]string) *roster.Roster {
	t.Helper()
	r, err := roster.FromMap(m)
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	return r
}

func TestBuild(t *testing.T) {
	// A=0, B=1, C=2, D=3
	r := mustRoster(t, map[string][]string{
		"A": {"x", "y"},
		"B": {"y", "z"},
		"C": {"z"},
		"D": {"w"},
	})
	g := Build(r.Acts)

	if g.Len() != 4 {
		t.Errorf("Len() = %d, want 4", g.Len())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if got := g.Neighbors(1); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Neighbors(B) = %v, want [0 2]", got)
	}
	if g.Degree(3) != 0 {
		t.Errorf("Degree(D) = %d, want 0", g.Degree(3))
	}
	if got := g.Edges(); !slices.Equal(got, []Edge{{0, 1}, {1, 2}}) {
		t.Errorf("Edges() = %v", got)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRemoveKeepsSymmetry(t *testing.T) {
	r := mustRoster(t, map[string][]string{
		"A": {"z"},
		"B": {"z"},
		"C": {"z"},
		"D": {"z"},
	})
	g := Build(r.Acts)
	if g.EdgeCount() != 6 {
		t.Fatalf("EdgeCount() = %d, want 6", g.EdgeCount())
	}

	former := g.Remove(1)
	if !slices.Equal(former, []int{0, 2, 3}) {
		t.Errorf("Remove(B) = %v, want [0 2 3]", former)
	}
	if g.Has(1) {
		t.Error("B still present after Remove")
	}
	for _, id := range []int{0, 2, 3} {
		if g.Degree(id) != 2 {
			t.Errorf("Degree(%d) = %d, want 2", id, g.Degree(id))
		}
		if g.Adjacent(id, 1) {
			t.Errorf("%d still adjacent to removed vertex", id)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	if got := g.Remove(1); got != nil {
		t.Errorf("second Remove(B) = %v, want nil", got)
	}
}

func TestValidateDetectsBadEdges(t *testing.T) {
	g := New()
	g.AddVertex(0)
	g.adj[0][0] = struct{}{}
	if err := g.Validate(); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Validate() = %v, want ErrSelfLoop", err)
	}

	g = New()
	g.AddVertex(0)
	g.adj[0][7] = struct{}{}
	if err := g.Validate(); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("Validate() = %v, want ErrUnknownVertex", err)
	}
}

func TestValidateDetectsAsymmetry(t *testing.T) {
	g := New()
	g.AddVertex(0)
	g.AddVertex(1)
	g.adj[0][1] = struct{}{}

	if err := g.Validate(); !errors.Is(err, ErrAsymmetric) {
		t.Errorf("Validate() = %v, want ErrAsymmetric", err)
	}
}

func TestClone(t *testing.T) {
	r := mustRoster(t, map[string][]string{"A": {"x"}, "B": {"x"}})
	g := Build(r.Acts)
	c := g.Clone()
	c.Remove(0)

	if !g.Has(0) || !g.Adjacent(1, 0) {
		t.Error("Remove on clone changed the original")
	}
}
