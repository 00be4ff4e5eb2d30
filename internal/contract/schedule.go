package contract

import (
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// Constraints bound an assignment run. Capacity is always respected by the
// greedy strategies regardless of these settings.
type Constraints struct {
	MaxAssignmentsPerEmployee int
	RequireAvailable          bool

	// WorkloadWeight blends match score and workload headroom in the
	// workload-balanced strategy.
	WorkloadWeight float64
}

// DefaultConstraints returns the constraint set used when a caller passes none.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxAssignmentsPerEmployee: 5,
		RequireAvailable:          true,
		WorkloadWeight:            0.3,
	}
}

type PreviewRequest struct {
	Tasks       []domain.Task
	Employees   []domain.Employee
	Strategy    domain.Strategy
	Constraints *Constraints

	// Now overrides the clock for deterministic runs; nil uses wall time.
	Now *time.Time
}

// PreviewSummary counts what one assignment run covered.
type PreviewSummary struct {
	TotalTasks         int
	TotalEmployees     int
	AssignmentsCreated int
	UnassignedTasks    int
}

// Preview is a proposed, not-yet-durable batch of assignments, addressable
// by id until finalized, discarded, or expired.
type Preview struct {
	ID          string
	CreatedAt   time.Time
	Strategy    domain.Strategy
	Constraints Constraints
	Assignments []domain.Assignment
	Summary     PreviewSummary
}

type FinalizeResult struct {
	PreviewID         string
	FinalizedAt       time.Time
	AssignmentsStored int
	Summary           PreviewSummary
}

type ScheduleErrorCode string

const (
	ErrPreviewNotFound ScheduleErrorCode = "PREVIEW_NOT_FOUND"
	ErrInvalidInput    ScheduleErrorCode = "INVALID_INPUT"
	ErrUnknownStrategy ScheduleErrorCode = "UNKNOWN_STRATEGY"
	ErrStoreFailure    ScheduleErrorCode = "STORE_FAILURE"
)

type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
}

func (e *ScheduleError) Error() string {
	return string(e.Code) + ": " + e.Message
}
