package domain

import "time"

// Candidate is a scored (employee, task) pairing considered during one
// assignment run. It is ephemeral and never persisted.
type Candidate struct {
	EmployeeID   string
	TaskID       string
	EmployeeName string
	MatchScore   float64
	Confidence   float64

	// AdjustedScore is strategy-specific (workload-balanced); nil otherwise.
	AdjustedScore *float64

	// Features is a copy of the scoring feature vector for downstream audit.
	Features []float64
}

// Assignment is a proposed (task, employee) pairing produced by an assignment
// strategy. It becomes durable only once a finalize call stores it.
type Assignment struct {
	ID         string
	TaskID     string
	EmployeeID string
	Strategy   Strategy
	Score      float64
	Confidence float64

	// Denormalized display fields.
	TaskTitle      string
	EmployeeName   string
	EstimatedHours float64

	// Features is the raw scoring vector, carried for the training log.
	Features []float64

	AssignedAt time.Time
}

// TrainingRecord is one audit row handed to the training-log collaborator
// when a preview is finalized.
type TrainingRecord struct {
	TaskID       string
	EmployeeID   string
	Features     []float64
	FeatureNames []string
	Score        float64
	Confidence   float64
	Strategy     Strategy
	LoggedAt     time.Time
}
