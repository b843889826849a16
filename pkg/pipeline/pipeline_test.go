package pipeline

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineup/pkg/cache"
	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/history"
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

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store, err := history.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, store, log.NewWithOptions(io.Discard, log.Options{}))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should be valid: %v", err)
	}
	if opts.ParsedPolicy() != schedule.DefaultPolicy {
		t.Errorf("policy = %s, want %s", opts.ParsedPolicy(), schedule.DefaultPolicy)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	opts = Options{Policy: "MINIMIZE_RISK"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Policy != "minimize-risk" {
		t.Errorf("Policy = %q, want normalized minimize-risk", opts.Policy)
	}

	opts = Options{Policy: "loudest-first"}
	if err := opts.ValidateAndSetDefaults(); !lerrors.Is(err, lerrors.ErrCodeInvalidPolicy) {
		t.Errorf("unknown policy error = %v", err)
	}
}

func TestPinKeys(t *testing.T) {
	opts := Options{Overrides: []schedule.Override{{Round: 4, Act: "Finale"}, {Round: 0, Act: "Opening"}}}
	got := opts.PinKeys()
	want := []string{"0=Opening", "4=Finale"}
	if !slices.Equal(got, want) {
		t.Errorf("PinKeys() = %v, want %v", got, want)
	}
	if opts.Overrides[0].Act != "Finale" {
		t.Error("PinKeys() reordered the caller's overrides")
	}
}

func TestGraphOptionsValidate(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true},
	}
	for _, tt := range tests {
		opts := GraphOptions{Format: tt.format}
		err := opts.ValidateAndSetDefaults()
		if (err != nil) != tt.wantErr {
			t.Errorf("GraphOptions{%q}.ValidateAndSetDefaults() error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestRunnerScheduleCaches(t *testing.T) {
	ctx := context.Background()
	runner := newRunner(t)
	r := chain(t)

	first, err := runner.Schedule(ctx, r, Options{Source: "chain.txt"})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	if got := strings.Join(first.Schedule.Order, ","); got != "B,A,C" {
		t.Errorf("Order = %s, want B,A,C", got)
	}

	second, err := runner.Schedule(ctx, r, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if !slices.Equal(second.Schedule.Order, first.Schedule.Order) || second.Schedule.Metrics != first.Schedule.Metrics {
		t.Errorf("cached result differs: %+v vs %+v", second.Schedule, first.Schedule)
	}
	if second.RosterHash != first.RosterHash {
		t.Error("RosterHash should be stable")
	}

	refreshed, _ := runner.Schedule(ctx, r, Options{Refresh: true})
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	other, _ := runner.Schedule(ctx, r, Options{Policy: "minimize-risk"})
	if other.CacheHit {
		t.Error("a different policy must not share a cache entry")
	}
	if got := strings.Join(other.Schedule.Order, ","); got != "A,C,B" {
		t.Errorf("minimize-risk Order = %s, want A,C,B", got)
	}

	pinned, _ := runner.Schedule(ctx, r, Options{Overrides: []schedule.Override{{Round: 2, Act: "A"}}})
	if pinned.CacheHit {
		t.Error("different pins must not share a cache entry")
	}
	if got := strings.Join(pinned.Schedule.Order, ","); got != "B,C,A" {
		t.Errorf("pinned Order = %s, want B,C,A", got)
	}
}

func TestRunnerScheduleRecordsHistory(t *testing.T) {
	ctx := context.Background()
	runner := newRunner(t)

	out, err := runner.Schedule(ctx, chain(t), Options{Source: "chain.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if out.RunID == "" {
		t.Fatal("RunID should be set when history is on")
	}
	rec, err := runner.History.Get(ctx, out.RunID)
	if err != nil {
		t.Fatalf("History.Get() error = %v", err)
	}
	if rec.Source != "chain.txt" || rec.RosterHash != out.RosterHash {
		t.Errorf("record = %+v", rec)
	}

	quiet, _ := runner.Schedule(ctx, chain(t), Options{NoHistory: true})
	if quiet.RunID != "" {
		t.Error("NoHistory run should not be recorded")
	}
	recs, _ := runner.History.List(ctx, 0)
	if len(recs) != 1 {
		t.Errorf("history has %d records, want 1", len(recs))
	}
}

func TestRunnerScheduleErrors(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil, log.NewWithOptions(io.Discard, log.Options{}))

	_, err := runner.Schedule(ctx, chain(t), Options{Overrides: []schedule.Override{{Round: 9, Act: "A"}}})
	if !lerrors.Is(err, lerrors.ErrCodeInvalidOverride) {
		t.Errorf("out-of-range pin error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := runner.Schedule(cancelled, chain(t), Options{}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestRunnerGraphDOT(t *testing.T) {
	ctx := context.Background()
	runner := newRunner(t)
	r := chain(t)
	out, _ := runner.Schedule(ctx, r, Options{NoHistory: true})

	data, err := runner.Graph(ctx, r, GraphOptions{Format: FormatDOT, Result: out.Schedule})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "graph G {") || !strings.Contains(dot, `label="1. B"`) {
		t.Errorf("Graph(dot) = %s", dot)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	res, err := schedule.Schedule(ctx, chain(t), schedule.MaximizeRest, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Render(ctx, res, "text")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasPrefix(string(out), "1. B - 2 performers [unlocked]\n") {
		t.Errorf("Render(text) = %s", out)
	}
	if _, err := Render(ctx, res, "yaml"); err == nil {
		t.Error("Render(yaml) should fail")
	}
}

func TestRosterHashIgnoresInputOrder(t *testing.T) {
	a, _ := roster.Build([]roster.Entry{{Name: "A", Performers: []string{"y", "x"}}})
	b, _ := roster.Build([]roster.Entry{{Name: "A", Performers: []string{"x", "y", "x"}}})
	ha, _ := RosterHash(a)
	hb, _ := RosterHash(b)
	if ha != hb {
		t.Error("equivalent rosters should hash the same")
	}
}
