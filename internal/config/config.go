// Package config defines process configuration and its layered loading.
package config

import (
	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

// Config contains process configuration for the allocator CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// ModelPath locates the trained model artifact. Empty or unloadable
	// selects the heuristic scoring path.
	ModelPath string `koanf:"model_path"`

	// Strategy is the default assignment strategy for plan runs.
	Strategy string `koanf:"strategy"`

	// MaxAssignments bounds how many tasks one run hands a single employee.
	MaxAssignments int `koanf:"max_assignments"`

	// RequireAvailable filters employees to availability == available.
	RequireAvailable bool `koanf:"require_available"`

	// WorkloadWeight blends match score against workload headroom in the
	// workload-balanced strategy.
	WorkloadWeight float64 `koanf:"workload_weight"`

	// PreviewTTLMin is how long an unfinalized preview stays addressable,
	// in minutes.
	PreviewTTLMin int `koanf:"preview_ttl_min"`
}

// New returns a Config with defaults applied.
func New() *Config {
	defaults := contract.DefaultConstraints()
	return &Config{
		LogLevel:         "info",
		DBPath:           "taskalloc.db",
		ModelPath:        "",
		Strategy:         string(domain.StrategyPriorityGreedy),
		MaxAssignments:   defaults.MaxAssignmentsPerEmployee,
		RequireAvailable: defaults.RequireAvailable,
		WorkloadWeight:   defaults.WorkloadWeight,
		PreviewTTLMin:    30,
	}
}

// Constraints converts the configured bounds into contract form.
func (c *Config) Constraints() contract.Constraints {
	return contract.Constraints{
		MaxAssignmentsPerEmployee: c.MaxAssignments,
		RequireAvailable:          c.RequireAvailable,
		WorkloadWeight:            c.WorkloadWeight,
	}
}
