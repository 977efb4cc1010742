package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL bounds and defaults.
const (
	// DefaultTTL is the default payload lifetime (5 minutes).
	DefaultTTL = 5 * time.Minute

	// MinTTL is the minimum allowed TTL.
	MinTTL = 10 * time.Second

	// MaxTTL is the maximum allowed TTL.
	MaxTTL = 24 * time.Hour

	// EnvCacheTTL overrides the TTL; accepts a duration string ("5m",
	// "90s") or integer seconds ("300").
	EnvCacheTTL = "SOUNDVIEW_CACHE_TTL"

	// EnvCacheEnabled enables or disables caching ("true"/"false").
	EnvCacheEnabled = "SOUNDVIEW_CACHE_ENABLED"
)

// ErrInvalidTTL is returned for TTL values outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)

// TTLConfig holds a validated cache TTL.
type TTLConfig struct {
	Duration time.Duration
}

// NewTTLConfig validates d against the allowed range.
func NewTTLConfig(d time.Duration) (TTLConfig, error) {
	if d < MinTTL || d > MaxTTL {
		return TTLConfig{}, fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return TTLConfig{Duration: d}, nil
}

// DefaultTTLConfig returns the default TTL configuration.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{Duration: DefaultTTL}
}

// ParseTTL parses a TTL string as either integer seconds ("300") or a
// duration ("5m", "1h30m") and validates the range.
func ParseTTL(s string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		d := time.Duration(seconds) * time.Second
		if d < MinTTL || d > MaxTTL {
			return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
		}
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}
	if d < MinTTL || d > MaxTTL {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return d, nil
}

// TTLFromEnv reads the TTL override from the environment.
// Unset, unparseable, or out-of-range values yield the default.
func TTLFromEnv() time.Duration {
	envVal := os.Getenv(EnvCacheTTL)
	if envVal == "" {
		return DefaultTTL
	}
	d, err := ParseTTL(envVal)
	if err != nil {
		return DefaultTTL
	}
	return d
}

// EnabledFromEnv reads the cache-enabled flag from the environment.
// Caching is enabled by default, including on parse errors.
func EnabledFromEnv() bool {
	envVal := os.Getenv(EnvCacheEnabled)
	if envVal == "" {
		return true
	}
	enabled, err := strconv.ParseBool(envVal)
	if err != nil {
		return true
	}
	return enabled
}
