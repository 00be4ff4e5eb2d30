package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "taskalloc.db", cfg.DBPath)
	assert.Equal(t, "priority_greedy", cfg.Strategy)
	assert.Equal(t, 5, cfg.MaxAssignments)
	assert.True(t, cfg.RequireAvailable)
	assert.Equal(t, 0.3, cfg.WorkloadWeight)
	assert.Equal(t, 30, cfg.PreviewTTLMin)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"strategy: workload_balanced\nmax_assignments: 7\nworkload_weight: 0.5\n"), 0o644))
	t.Setenv("TASKALLOC_CONFIG", path)
	t.Setenv("TASKALLOC_MAX_ASSIGNMENTS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "workload_balanced", cfg.Strategy, "file overrides defaults")
	assert.Equal(t, 2, cfg.MaxAssignments, "env overrides file")
	assert.Equal(t, 0.5, cfg.WorkloadWeight)
}

func TestLoad_RejectsUnknownStrategy(t *testing.T) {
	t.Setenv("TASKALLOC_STRATEGY", "random_guess")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown strategy")
}

func TestLoad_RejectsBadWeight(t *testing.T) {
	t.Setenv("TASKALLOC_WORKLOAD_WEIGHT", "1.5")

	_, err := Load()
	assert.ErrorContains(t, err, "workload_weight")
}

func TestConstraints_FromConfig(t *testing.T) {
	cfg := New()
	cfg.MaxAssignments = 3
	cfg.RequireAvailable = false
	cfg.WorkloadWeight = 0.4

	cons := cfg.Constraints()
	assert.Equal(t, 3, cons.MaxAssignmentsPerEmployee)
	assert.False(t, cons.RequireAvailable)
	assert.Equal(t, 0.4, cons.WorkloadWeight)
}
