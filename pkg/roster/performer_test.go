package roster

import (
	"slices"
	"testing"
)

func TestGetOrCreateCountsAppearances(t *testing.T) {
	r := NewRegistry()
	p := r.GetOrCreate("Avery")
	if p.Appearances != 1 || p.SinceLast != Never || p.Completed != 0 {
		t.Errorf("new performer = %+v", *p)
	}
	if again := r.GetOrCreate("Avery"); again != p || again.Appearances != 2 {
		t.Errorf("second GetOrCreate = %+v, want same performer with 2 appearances", *again)
	}
	if _, ok := r.Get("Blake"); ok {
		t.Error("Get(Blake) found a performer that was never created")
	}
}

func TestClock(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"x", "y", "z"} {
		r.GetOrCreate(n)
	}

	// Round 0: x on stage.
	r.Appear([]string{"x"})
	r.TickAll([]string{"x"})
	// Round 1: y on stage.
	r.Appear([]string{"y"})
	r.TickAll([]string{"y"})

	tests := []struct {
		name      string
		sinceLast int
		completed int
	}{
		{"x", 1, 1},
		{"y", 0, 1},
		{"z", Never, 0},
	}
	for _, tt := range tests {
		p, _ := r.Get(tt.name)
		if p.SinceLast != tt.sinceLast {
			t.Errorf("%s.SinceLast = %d, want %d", tt.name, p.SinceLast, tt.sinceLast)
		}
		if p.Completed != tt.completed {
			t.Errorf("%s.Completed = %d, want %d", tt.name, p.Completed, tt.completed)
		}
	}

	r.Reset()
	for _, p := range r.Performers() {
		if p.SinceLast != Never || p.Completed != 0 {
			t.Errorf("after Reset %s = %+v", p.Name, *p)
		}
	}
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"casey", "avery", "blake"} {
		r.GetOrCreate(n)
	}
	if got := r.Names(); !slices.Equal(got, []string{"avery", "blake", "casey"}) {
		t.Errorf("Names() = %v", got)
	}
}
