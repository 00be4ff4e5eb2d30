package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TASKALLOC_CONFIG is set
//  3. env (prefix TASKALLOC_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TASKALLOC_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Environment variables: TASKALLOC_DB_PATH, TASKALLOC_STRATEGY, ...
	// Keys map to the flat koanf tags, underscores preserved. The advisory
	// subsystem reads its own TASKALLOC_ADVISORY_* variables separately.
	envProvider := env.Provider("TASKALLOC_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "taskalloc_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if !domain.ValidStrategies[domain.Strategy(c.Strategy)] {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.WorkloadWeight < 0 || c.WorkloadWeight > 1 {
		return fmt.Errorf("workload_weight %v outside [0,1]", c.WorkloadWeight)
	}
	if c.MaxAssignments <= 0 {
		return errors.New("max_assignments must be positive")
	}
	if c.PreviewTTLMin <= 0 {
		return errors.New("preview_ttl_min must be positive")
	}
	return nil
}
