package domain

import "time"

// ProgressLog is one progress report for an in-flight task.
type ProgressLog struct {
	TaskID             string
	ProgressPercentage float64
	HoursSpent         float64
	LoggedAt           time.Time
}

// Anomaly is a risk finding over the live assignment snapshot. Anomalies are
// created fresh on every detection pass and are not deduplicated across runs.
type Anomaly struct {
	Type        AnomalyType
	Severity    Severity
	TaskID      string
	EmployeeID  string
	Description string
	DetectedAt  time.Time
	Metadata    map[string]any

	// Advisory enrichment, attached after triage. Empty when not enriched.
	TriageNotes        string
	RecommendedActions []string
	TriagePriority     string
}
