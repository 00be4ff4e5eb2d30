// Package metrics provides Prometheus instrumentation for the task
// allocation core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the allocator.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scheduling lifecycle
	previewsCreated   prometheus.Counter
	previewsFinalized prometheus.Counter
	previewsDiscarded prometheus.Counter
	previewsExpired   prometheus.Counter

	assignmentsCommitted *prometheus.CounterVec
	assignLatency        prometheus.Histogram

	// Detection
	anomaliesDetected *prometheus.CounterVec

	// Advisory collaborator
	advisoryCalls *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "taskalloc",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.previewsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "previews_created_total",
		Help:      "Total number of assignment previews created",
	})
	m.previewsFinalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "previews_finalized_total",
		Help:      "Total number of previews finalized into durable assignments",
	})
	m.previewsDiscarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "previews_discarded_total",
		Help:      "Total number of previews discarded by callers",
	})
	m.previewsExpired = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "previews_expired_total",
		Help:      "Total number of previews removed by the TTL sweeper",
	})

	m.assignmentsCommitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "assignments_committed_total",
			Help:      "Total number of assignments stored, by strategy",
		},
		[]string{"strategy"},
	)
	m.assignLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignment_run_duration_milliseconds",
		Help:      "Duration of one assignment strategy run in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.anomaliesDetected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "anomalies_detected_total",
			Help:      "Total number of anomalies detected, by type and severity",
		},
		[]string{"type", "severity"},
	)

	m.advisoryCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "advisory_calls_total",
			Help:      "Total number of advisory calls, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
}

// RecordPreviewCreated increments the previews created counter.
func RecordPreviewCreated() {
	globalManager.previewsCreated.Inc()
}

// RecordPreviewFinalized increments the previews finalized counter.
func RecordPreviewFinalized() {
	globalManager.previewsFinalized.Inc()
}

// RecordPreviewDiscarded increments the previews discarded counter.
func RecordPreviewDiscarded() {
	globalManager.previewsDiscarded.Inc()
}

// RecordPreviewExpired increments the previews expired counter.
func RecordPreviewExpired() {
	globalManager.previewsExpired.Inc()
}

// RecordAssignmentsCommitted adds stored assignments for one strategy.
func RecordAssignmentsCommitted(strategy string, count int) {
	globalManager.assignmentsCommitted.WithLabelValues(strategy).Add(float64(count))
}

// RecordAssignmentRunDuration records one strategy run duration.
func RecordAssignmentRunDuration(latencyMs float64) {
	globalManager.assignLatency.Observe(latencyMs)
}

// RecordAnomalyDetected increments the anomaly counter for one finding.
func RecordAnomalyDetected(anomalyType, severity string) {
	globalManager.anomaliesDetected.WithLabelValues(anomalyType, severity).Inc()
}

// RecordAdvisoryCall increments the advisory call counter.
// Outcome is one of ok, cached, fallback.
func RecordAdvisoryCall(kind, outcome string) {
	globalManager.advisoryCalls.WithLabelValues(kind, outcome).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
