// Package repository holds the SQLite persistence collaborators. All
// implementations accept a db.DBTX so the same code runs against the shared
// handle or inside a finalize transaction.
package repository

import (
	"context"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

type EmployeeRepo interface {
	Upsert(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)

	// AddWorkload bumps the committed hours after a finalize.
	AddWorkload(ctx context.Context, id string, hours float64) error
}

type TaskRepo interface {
	Upsert(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	ListByStatus(ctx context.Context, statuses ...domain.TaskStatus) ([]domain.Task, error)
	SetStatus(ctx context.Context, id string, status domain.TaskStatus) error
}

type AssignmentRepo interface {
	// StoreAssignments persists a finalized batch and returns how many rows
	// were written. Assignments without an id are given one.
	StoreAssignments(ctx context.Context, assignments []domain.Assignment) (int, error)
	List(ctx context.Context) ([]domain.Assignment, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Assignment, error)
}

type TrainingLogRepo interface {
	StoreRecords(ctx context.Context, records []domain.TrainingRecord) error
	Count(ctx context.Context) (int, error)
}

type ProgressLogRepo interface {
	Append(ctx context.Context, l *domain.ProgressLog) error
	List(ctx context.Context) ([]domain.ProgressLog, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.ProgressLog, error)
}
