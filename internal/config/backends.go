package config

import (
	"context"

	"github.com/matzehuels/lineup/pkg/cache"
	"github.com/matzehuels/lineup/pkg/history"
)

// OpenCache connects the configured schedule cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendFile:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
	return cache.NewNullCache(), nil
}

// Keyer returns the cache keyer, scoped when cache.scope is set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Scope+":")
}

// OpenHistory connects the configured run history store.
func (c *Config) OpenHistory(ctx context.Context) (history.Store, error) {
	switch c.History.Backend {
	case BackendMongo:
		ms, err := history.NewMongoStore(ctx, history.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	case BackendFile:
		fs, err := history.NewFileStore(c.History.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
	return history.NullStore{}, nil
}
