// Package service wires the pure scheduling logic to persistence, the
// advisory collaborator, and observability. Services own the two-phase
// preview/finalize lifecycle and the detection pass.
package service

import (
	"context"

	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

// SchedulerService runs assignment strategies as preview/finalize pairs.
// A preview holds proposed assignments in memory until it is finalized
// into SQLite, discarded, or swept by the TTL janitor.
type SchedulerService interface {
	PreviewAssignments(ctx context.Context, req contract.PreviewRequest) (*contract.Preview, error)
	GetPreview(ctx context.Context, previewID string) (*contract.Preview, error)
	FinalizeAssignments(ctx context.Context, previewID string) (*contract.FinalizeResult, error)
	DiscardPreview(ctx context.Context, previewID string) error
}

// DetectorService scans a live snapshot for anomalies, optionally enriching
// each finding with advisory triage.
type DetectorService interface {
	Detect(ctx context.Context, req contract.DetectRequest) (*contract.DetectReport, error)
}

// ImportResult summarizes one snapshot import.
type ImportResult struct {
	Employees    int
	Tasks        int
	ProgressLogs int
}

// ImportService loads an external snapshot file into the database.
type ImportService interface {
	ImportSnapshot(ctx context.Context, path string) (*ImportResult, error)
}

// SnapshotLoader assembles the current scheduling state from storage.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (tasks []domain.Task, employees []domain.Employee, assignments []domain.Assignment, logs []domain.ProgressLog, err error)
}
