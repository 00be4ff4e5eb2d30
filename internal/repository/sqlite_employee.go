package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

// SQLiteEmployeeRepo implements EmployeeRepo over SQLite.
type SQLiteEmployeeRepo struct {
	db db.DBTX
}

// NewSQLiteEmployeeRepo creates a new SQLiteEmployeeRepo.
func NewSQLiteEmployeeRepo(dbtx db.DBTX) *SQLiteEmployeeRepo {
	return &SQLiteEmployeeRepo{db: dbtx}
}

const employeeColumns = `id, name, skills, experience_years, current_workload, max_workload,
	availability, performance_rating, active_tasks, avg_completion_time, department, success_rate`

func (r *SQLiteEmployeeRepo) Upsert(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (` + employeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			skills = excluded.skills,
			experience_years = excluded.experience_years,
			current_workload = excluded.current_workload,
			max_workload = excluded.max_workload,
			availability = excluded.availability,
			performance_rating = excluded.performance_rating,
			active_tasks = excluded.active_tasks,
			avg_completion_time = excluded.avg_completion_time,
			department = excluded.department,
			success_rate = excluded.success_rate`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Skills, e.ExperienceYears, e.CurrentWorkload, e.MaxWorkload,
		string(e.Availability), e.PerformanceRating, e.ActiveTasks, e.AvgCompletionTime,
		e.Department, e.SuccessRate,
	)
	if err != nil {
		return fmt.Errorf("upserting employee: %w", err)
	}
	return nil
}

func (r *SQLiteEmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("employee %s: %w", id, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("loading employee: %w", err)
	}
	return e, nil
}

func (r *SQLiteEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *SQLiteEmployeeRepo) AddWorkload(ctx context.Context, id string, hours float64) error {
	query := `UPDATE employees
		SET current_workload = current_workload + ?, active_tasks = active_tasks + 1
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, hours, id)
	if err != nil {
		return fmt.Errorf("updating employee workload: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("employee %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	var availability string
	if err := row.Scan(
		&e.ID, &e.Name, &e.Skills, &e.ExperienceYears, &e.CurrentWorkload, &e.MaxWorkload,
		&availability, &e.PerformanceRating, &e.ActiveTasks, &e.AvgCompletionTime,
		&e.Department, &e.SuccessRate,
	); err != nil {
		return nil, err
	}
	e.Availability = domain.Availability(availability)
	return &e, nil
}
