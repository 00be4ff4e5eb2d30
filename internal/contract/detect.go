package contract

import (
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// DetectRequest is a snapshot of live scheduling state to scan for anomalies.
type DetectRequest struct {
	Tasks        []domain.Task
	Employees    []domain.Employee
	Assignments  []domain.Assignment
	ProgressLogs []domain.ProgressLog

	// EnrichTriage asks the advisory collaborator for notes per anomaly.
	EnrichTriage bool

	Now *time.Time
}

type DetectReport struct {
	GeneratedAt      time.Time
	Anomalies        []domain.Anomaly
	TasksScanned     int
	EmployeesScanned int
	Enriched         bool
}
