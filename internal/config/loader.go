package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
)

// EnvPrefix prefixes every environment variable lineup reads.
const EnvPrefix = "LINEUP_"

// EnvConfigFile names the environment variable holding the config file
// path when no path is passed to Load.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, the YAML file at path (or
// $LINEUP_CONFIG when path is empty) and LINEUP_ environment variables.
func Load(_ context.Context, path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, lerrors.Wrap(lerrors.ErrCodeInvalidConfig, err, "load %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidConfig, err, "load environment")
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps LINEUP_CACHE_BACKEND to cache.backend. Only the first
// underscore separates sections, so LINEUP_SERVER_MAX_BODY_BYTES becomes
// server.max_body_bytes.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if s == "config" {
		return ""
	}
	return strings.Replace(s, "_", ".", 1)
}
