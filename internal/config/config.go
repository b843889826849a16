// Package config defines lineup's process configuration and how it is
// loaded.
//
// Values are layered, later sources winning:
//
//  1. defaults ([New])
//  2. a YAML file, named by --config or LINEUP_CONFIG
//  3. environment variables with the LINEUP_ prefix
//
// Environment names map to keys by lowercasing and turning the first
// underscore into a dot: LINEUP_CACHE_BACKEND sets cache.backend and
// LINEUP_MONGO_URI sets mongo.uri.
package config

import (
	"os"
	"path/filepath"
	"time"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/schedule"
)

const appName = "lineup"

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config contains process configuration.
type Config struct {
	// Policy is the default weight policy for runs that do not name one.
	Policy string `koanf:"policy"`

	Log     LogConfig     `koanf:"log"`
	Cache   CacheConfig   `koanf:"cache"`
	Redis   RedisConfig   `koanf:"redis"`
	History HistoryConfig `koanf:"history"`
	Mongo   MongoConfig   `koanf:"mongo"`
	Server  ServerConfig  `koanf:"server"`
}

// LogConfig controls verbosity: debug, info, warn, error.
type LogConfig struct {
	Level string `koanf:"level"`
}

// CacheConfig selects the schedule cache backend.
type CacheConfig struct {
	Backend string        `koanf:"backend"` // file, redis or none
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`

	// Scope prefixes every key so deployments sharing a Redis stay apart.
	Scope string `koanf:"scope"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// HistoryConfig selects where finished runs are recorded.
type HistoryConfig struct {
	Backend string `koanf:"backend"` // file, mongo or none
	Dir     string `koanf:"dir"`
}

type MongoConfig struct {
	URI        string `koanf:"uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps request bodies on the HTTP API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Policy: schedule.DefaultPolicy.String(),
		Log:    LogConfig{Level: "info"},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     CacheDir(),
			TTL:     7 * 24 * time.Hour,
		},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: "lineup:"},
		History: HistoryConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(DataDir(), "runs"),
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   appName,
			Collection: "runs",
		},
		Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 1 << 20},
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := schedule.ParsePolicy(c.Policy); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInvalidConfig, err, "policy")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return lerrors.New(lerrors.ErrCodeInvalidConfig, "cache.dir must not be empty for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return lerrors.New(lerrors.ErrCodeInvalidConfig, "redis.addr must not be empty for the redis backend")
		}
	case BackendNone:
	default:
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "cache.backend %q must be file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.History.Backend {
	case BackendFile:
		if c.History.Dir == "" {
			return lerrors.New(lerrors.ErrCodeInvalidConfig, "history.dir must not be empty for the file backend")
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return lerrors.New(lerrors.ErrCodeInvalidConfig, "mongo.uri must not be empty for the mongo backend")
		}
	case BackendNone:
	default:
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "history.backend %q must be file, mongo or none", c.History.Backend)
	}
	if c.Server.Addr == "" {
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return lerrors.New(lerrors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/lineup/).
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return homeDir(".cache")
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/lineup/).
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return homeDir(".local", "share")
}

func homeDir(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{home}, parts...), appName)...)
}
