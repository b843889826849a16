package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/lineup/pkg/schedule"
)

func sampleResult() *schedule.Result {
	return &schedule.Result{
		Policy: schedule.MaximizeRest,
		Order:  []string{"B", "A"},
		Placements: []schedule.Placement{
			{Position: 0, Act: "B", Performers: []string{"y"}},
			{Position: 1, Act: "A", Performers: []string{"x", "y"}, Locked: true},
		},
		Metrics: schedule.Metrics{InstantConflicts: 1},
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "runs"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	rec := NewRecord("show.txt", "abc", []schedule.Override{{Round: 1, Act: "A"}}, sampleResult())
	if !ValidID(rec.ID) {
		t.Fatalf("NewRecord ID %q is not a UUID", rec.ID)
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != "show.txt" || got.Result.Metrics.InstantConflicts != 1 || !got.Result.Placements[1].Locked {
		t.Errorf("Get = %+v", got)
	}
	if len(got.Overrides) != 1 || got.Overrides[0].Act != "A" {
		t.Errorf("Overrides = %+v", got.Overrides)
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	base := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		rec := NewRecord("", "h", nil, sampleResult())
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		ids = append(ids, rec.ID)
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	// Stray files are ignored.
	_ = os.WriteFile(filepath.Join(s.Path(), "notes.txt"), []byte("x"), 0o644)

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d records, want 3", len(all))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if all[i].ID != want {
			t.Errorf("List[%d] = %s, want %s", i, all[i].ID, want)
		}
	}

	two, _ := s.List(ctx, 2)
	if len(two) != 2 {
		t.Errorf("List(2) returned %d records", len(two))
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	if _, err := s.Get(ctx, "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(traversal) = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, &Record{ID: "not-a-uuid"}); err == nil {
		t.Error("Save with invalid id should fail")
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	var s Store = NullStore{}
	if err := s.Save(ctx, NewRecord("", "", nil, nil)); err != nil {
		t.Errorf("Save: %v", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v", err)
	}
	if recs, _ := s.List(ctx, 10); len(recs) != 0 {
		t.Errorf("List = %v", recs)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("LINEUP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LINEUP_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "lineup_test", Collection: "runs_" + time.Now().Format("150405")})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close()

	rec := NewRecord("show.txt", "abc", nil, sampleResult())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, rec.ID)
	if err != nil || got.Result.Order[0] != "B" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
