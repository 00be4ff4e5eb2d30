package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

// SQLiteTrainingLogRepo implements TrainingLogRepo over SQLite. Each stored
// record is one labeled example for future model retraining.
type SQLiteTrainingLogRepo struct {
	db db.DBTX
}

// NewSQLiteTrainingLogRepo creates a new SQLiteTrainingLogRepo.
func NewSQLiteTrainingLogRepo(dbtx db.DBTX) *SQLiteTrainingLogRepo {
	return &SQLiteTrainingLogRepo{db: dbtx}
}

func (r *SQLiteTrainingLogRepo) StoreRecords(ctx context.Context, records []domain.TrainingRecord) error {
	query := `INSERT INTO training_log (task_id, employee_id, strategy, score, confidence, features, feature_names, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, rec := range records {
		_, err := r.db.ExecContext(ctx, query,
			rec.TaskID, rec.EmployeeID, string(rec.Strategy), rec.Score, rec.Confidence,
			floatsToJSON(rec.Features), stringsToJSON(rec.FeatureNames),
			rec.LoggedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting training record for task %s: %w", rec.TaskID, err)
		}
	}
	return nil
}

func (r *SQLiteTrainingLogRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting training records: %w", err)
	}
	return n, nil
}
