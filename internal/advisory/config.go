package advisory

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the advisory subsystem.
type Config struct {
	Enabled     bool
	Endpoint    string
	Model       string
	TimeoutMs   int
	MaxAttempts int
	Temperature float64
	CacheTTL    time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
// The advisor is disabled by default.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Endpoint:    "http://localhost:8089",
		Model:       "advisor-1",
		TimeoutMs:   10000,
		MaxAttempts: 3,
		Temperature: 0.7,
		CacheTTL:    time.Hour,
	}
}

// LoadConfig reads advisory configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TASKALLOC_ADVISORY_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKALLOC_ADVISORY_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TASKALLOC_ADVISORY_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TASKALLOC_ADVISORY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TASKALLOC_ADVISORY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	if v := os.Getenv("TASKALLOC_ADVISORY_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("TASKALLOC_ADVISORY_CACHE_TTL_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheTTL = time.Duration(n) * time.Second
		}
	}

	return cfg
}
