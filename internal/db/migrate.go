package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list re-runs safely on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		skills              TEXT NOT NULL DEFAULT '',
		experience_years    REAL NOT NULL DEFAULT 0,
		current_workload    REAL NOT NULL DEFAULT 0,
		max_workload        REAL NOT NULL DEFAULT 40,
		availability        TEXT NOT NULL DEFAULT 'available'
		                    CHECK(availability IN ('available','busy','on_leave')),
		performance_rating  REAL NOT NULL DEFAULT 3.0,
		active_tasks        INTEGER NOT NULL DEFAULT 0,
		avg_completion_time REAL NOT NULL DEFAULT 0,
		department          TEXT NOT NULL DEFAULT '',
		success_rate        REAL NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		required_skills  TEXT NOT NULL DEFAULT '',
		priority         TEXT NOT NULL DEFAULT 'medium'
		                 CHECK(priority IN ('low','medium','high','critical')),
		estimated_hours  REAL NOT NULL DEFAULT 0,
		deadline         TEXT,
		complexity_score REAL NOT NULL DEFAULT 0,
		dependencies     TEXT NOT NULL DEFAULT '',
		department       TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'pending'
		                 CHECK(status IN ('pending','assigned','in_progress','completed','cancelled'))
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id              TEXT PRIMARY KEY,
		task_id         TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		employee_id     TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		strategy        TEXT NOT NULL,
		score           REAL NOT NULL DEFAULT 0,
		confidence      REAL NOT NULL DEFAULT 0,
		task_title      TEXT NOT NULL DEFAULT '',
		employee_name   TEXT NOT NULL DEFAULT '',
		estimated_hours REAL NOT NULL DEFAULT 0,
		assigned_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_task ON assignments(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_employee ON assignments(employee_id)`,

	`CREATE TABLE IF NOT EXISTS progress_logs (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id             TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		progress_percentage REAL NOT NULL DEFAULT 0,
		hours_spent         REAL NOT NULL DEFAULT 0,
		logged_at           TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_logs_task ON progress_logs(task_id)`,

	`CREATE TABLE IF NOT EXISTS training_log (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id       TEXT NOT NULL,
		employee_id   TEXT NOT NULL,
		strategy      TEXT NOT NULL,
		score         REAL NOT NULL DEFAULT 0,
		confidence    REAL NOT NULL DEFAULT 0,
		features      TEXT NOT NULL DEFAULT '[]',
		feature_names TEXT NOT NULL DEFAULT '[]',
		logged_at     TEXT NOT NULL
	)`,
}
