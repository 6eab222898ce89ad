// Package config provides configuration management for EmberDB.
//
// Configuration is loaded through koanf with the usual precedence:
// defaults, then an optional YAML file, then EMBERDB_* environment
// variables. Nested keys use a double underscore in the environment
// (EMBERDB_LOG__LEVEL -> log.level).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/emberdb/emberdb/internal/logging"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "EMBERDB_"

// Config holds the EmberDB server configuration.
type Config struct {
	// Server settings
	Addr      string `koanf:"addr"`
	StatsAddr string `koanf:"stats_addr"`

	// Performance
	MaxClients int           `koanf:"max_clients"`
	Timeout    time.Duration `koanf:"timeout"`
	Shards     int           `koanf:"shards"`

	// Logging
	Log logging.Config `koanf:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Addr:       ":6379",
		StatsAddr:  ":8080",
		MaxClients: 10000,
		Timeout:    0, // No timeout
		Shards:     32,
		Log:        logging.Default(),
	}
}

// Load loads configuration from the YAML file at path (missing file is
// not an error) and the environment, on top of defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// envKey maps EMBERDB_STATS_ADDR to stats_addr and
// EMBERDB_LOG__LEVEL to log.level.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
