// Package config loads soundview configuration from the YAML config
// file, environment variables, and defaults, and holds the global
// structured logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acousticlab/soundview/internal/cache"
)

// Environment variables honored in addition to the ones the cache and
// fetch packages define.
const (
	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "SOUNDVIEW_LOG_LEVEL"

	// EnvConfigDir overrides the config directory (tests use this).
	EnvConfigDir = "SOUNDVIEW_CONFIG_DIR"
)

// DefaultTimeout is the per-request timeout applied when the config file
// does not set one.
const DefaultTimeout = 30 * time.Second

// Config is the loaded soundview configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig configures the content endpoint.
type DataConfig struct {
	// BaseURL is the content endpoint origin. Empty means resolve via
	// SOUNDVIEW_DATA_URL or fall back to the local dev origin.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single request ("30s", "1m"). Empty means the
	// default.
	Timeout string `yaml:"timeout"`
}

// CacheConfig configures the payload cache.
type CacheConfig struct {
	// TTL is the entry lifetime ("5m" or integer seconds). Empty means
	// the default.
	TTL string `yaml:"ttl"`

	// Enabled toggles caching. Defaults to true.
	Enabled *bool `yaml:"enabled"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	Level string `yaml:"level"`
}

// Dir returns the soundview config directory, honoring EnvConfigDir.
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".soundview"
	}
	return filepath.Join(home, ".soundview")
}

// Path returns the config file path inside Dir.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// New loads configuration from the config file, if present, and applies
// defaults. A missing file is not an error; a malformed one is.
func New() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing config file: %w", unmarshalErr)
	}

	return cfg, nil
}

// CacheTTL resolves the effective cache TTL: environment override first,
// then the config file, then the default. Invalid values fall back to
// the default rather than failing startup.
func (c *Config) CacheTTL() time.Duration {
	if os.Getenv(cache.EnvCacheTTL) != "" {
		return cache.TTLFromEnv()
	}
	if c.Cache.TTL != "" {
		if d, err := cache.ParseTTL(c.Cache.TTL); err == nil {
			return d
		}
	}
	return cache.DefaultTTL
}

// CacheEnabled resolves whether caching is on: environment override
// first, then the config file, then true.
func (c *Config) CacheEnabled() bool {
	if os.Getenv(cache.EnvCacheEnabled) != "" {
		return cache.EnabledFromEnv()
	}
	if c.Cache.Enabled != nil {
		return *c.Cache.Enabled
	}
	return true
}

// RequestTimeout resolves the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.Data.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.Data.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// LogLevel resolves the log level: environment override, config file,
// then "info".
func (c *Config) LogLevel() string {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		return lvl
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}
