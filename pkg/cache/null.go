package cache

import (
	"context"
	"time"
)

// NullCache backs --no-cache runs: every lookup misses and writes are
// discarded, so the scheduler always runs.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a Cache that never holds a schedule or diagram.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
