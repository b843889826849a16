// Package history keeps a record of every schedule produced, so a running
// order can be looked up and re-rendered after the fact.
//
// Backends:
//   - [FileStore]: JSON files in a directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP server
//   - [NullStore]: records nothing, for --no-history
//
// Records are identified by random UUIDs and listed newest first.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lineup/pkg/schedule"
)

// ErrNotFound is returned by Get and Delete for an unknown record ID.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Record is one stored scheduling run.
type Record struct {
	ID         string              `json:"id" bson:"_id"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	Source     string              `json:"source,omitempty" bson:"source,omitempty"`
	RosterHash string              `json:"roster_hash" bson:"roster_hash"`
	Overrides  []schedule.Override `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Result     *schedule.Result    `json:"result" bson:"result"`
}

// NewRecord creates a record with a fresh ID and the current time.
func NewRecord(source, rosterHash string, overrides []schedule.Override, res *schedule.Result) *Record {
	return &Record{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Source:     source,
		RosterHash: rosterHash,
		Overrides:  overrides,
		Result:     res,
	}
}

// ValidID reports whether id has the shape of a record ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for history backends.
type Store interface {
	// Save stores rec, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit <= 0 means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes the record with the given ID or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NullStore discards every record.
type NullStore struct{}

func (NullStore) Save(context.Context, *Record) error { return nil }

func (NullStore) Get(context.Context, string) (*Record, error) { return nil, ErrNotFound }

func (NullStore) List(context.Context, int) ([]*Record, error) { return nil, nil }

func (NullStore) Delete(context.Context, string) error { return ErrNotFound }

func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
