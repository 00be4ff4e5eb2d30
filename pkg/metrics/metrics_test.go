package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(WithPrometheusRegistry(reg), WithNamespace("test"))

	m.previewsCreated.Inc()
	m.assignmentsCommitted.WithLabelValues("priority_greedy").Add(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["test_core_previews_created_total"])
	assert.True(t, names["test_core_assignments_committed_total"])

	assert.Equal(t, 3.0, testutil.ToFloat64(
		m.assignmentsCommitted.WithLabelValues("priority_greedy")))
}

func TestPackageLevelRecorders(t *testing.T) {
	before := testutil.ToFloat64(globalManager.previewsFinalized)

	RecordPreviewCreated()
	RecordPreviewFinalized()
	RecordAssignmentsCommitted("workload_balanced", 2)
	RecordAnomalyDetected("deadline_risk", "high")
	RecordAdvisoryCall("triage", "fallback")

	assert.Equal(t, before+1, testutil.ToFloat64(globalManager.previewsFinalized))
	assert.Equal(t, 2.0, testutil.ToFloat64(
		globalManager.assignmentsCommitted.WithLabelValues("workload_balanced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		globalManager.anomaliesDetected.WithLabelValues("deadline_risk", "high")))
}
