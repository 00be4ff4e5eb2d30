package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

// SQLiteProgressLogRepo implements ProgressLogRepo over SQLite.
type SQLiteProgressLogRepo struct {
	db db.DBTX
}

// NewSQLiteProgressLogRepo creates a new SQLiteProgressLogRepo.
func NewSQLiteProgressLogRepo(dbtx db.DBTX) *SQLiteProgressLogRepo {
	return &SQLiteProgressLogRepo{db: dbtx}
}

func (r *SQLiteProgressLogRepo) Append(ctx context.Context, l *domain.ProgressLog) error {
	query := `INSERT INTO progress_logs (task_id, progress_percentage, hours_spent, logged_at)
		VALUES (?, ?, ?, ?)`
	loggedAt := l.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		l.TaskID, l.ProgressPercentage, l.HoursSpent, loggedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting progress log: %w", err)
	}
	return nil
}

func (r *SQLiteProgressLogRepo) List(ctx context.Context) ([]domain.ProgressLog, error) {
	query := `SELECT task_id, progress_percentage, hours_spent, logged_at
		FROM progress_logs ORDER BY logged_at, id`
	return r.queryLogs(ctx, query)
}

func (r *SQLiteProgressLogRepo) ListByTask(ctx context.Context, taskID string) ([]domain.ProgressLog, error) {
	query := `SELECT task_id, progress_percentage, hours_spent, logged_at
		FROM progress_logs WHERE task_id = ? ORDER BY logged_at, id`
	return r.queryLogs(ctx, query, taskID)
}

func (r *SQLiteProgressLogRepo) queryLogs(ctx context.Context, query string, args ...any) ([]domain.ProgressLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing progress logs: %w", err)
	}
	defer rows.Close()

	var out []domain.ProgressLog
	for rows.Next() {
		var l domain.ProgressLog
		var loggedAt string
		if err := rows.Scan(&l.TaskID, &l.ProgressPercentage, &l.HoursSpent, &loggedAt); err != nil {
			return nil, fmt.Errorf("scanning progress log: %w", err)
		}
		l.LoggedAt = parseTime(loggedAt)
		out = append(out, l)
	}
	return out, rows.Err()
}
