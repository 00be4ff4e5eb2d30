package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo over SQLite.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(dbtx db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: dbtx}
}

const assignmentColumns = `id, task_id, employee_id, strategy, score, confidence,
	task_title, employee_name, estimated_hours, assigned_at`

func (r *SQLiteAssignmentRepo) StoreAssignments(ctx context.Context, assignments []domain.Assignment) (int, error) {
	query := `INSERT INTO assignments (` + assignmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stored := 0
	for _, a := range assignments {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		_, err := r.db.ExecContext(ctx, query,
			a.ID, a.TaskID, a.EmployeeID, string(a.Strategy), a.Score, a.Confidence,
			a.TaskTitle, a.EmployeeName, a.EstimatedHours, a.AssignedAt.Format(time.RFC3339),
		)
		if err != nil {
			return stored, fmt.Errorf("inserting assignment for task %s: %w", a.TaskID, err)
		}
		stored++
	}
	return stored, nil
}

func (r *SQLiteAssignmentRepo) List(ctx context.Context) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments ORDER BY assigned_at, id`
	return r.queryAssignments(ctx, query)
}

func (r *SQLiteAssignmentRepo) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE employee_id = ? ORDER BY assigned_at, id`
	return r.queryAssignments(ctx, query, employeeID)
}

func (r *SQLiteAssignmentRepo) queryAssignments(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var strategy, assignedAt string
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.EmployeeID, &strategy, &a.Score, &a.Confidence,
			&a.TaskTitle, &a.EmployeeName, &a.EstimatedHours, &assignedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.Strategy = domain.Strategy(strategy)
		a.AssignedAt = parseTime(assignedAt)
		out = append(out, a)
	}
	return out, rows.Err()
}
