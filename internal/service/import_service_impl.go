package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer OpObserver
	now      func() time.Time
}

// NewImportService creates an ImportService that loads snapshot files into
// the database inside one transaction.
func NewImportService(uow db.UnitOfWork, observers ...OpObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: opObserverOrNoop(observers),
		now:      time.Now,
	}
}

// snapshotFile is the JSON layout accepted by import. Field names follow the
// export convention of the surrounding tooling.
type snapshotFile struct {
	Employees []struct {
		ID                string  `json:"id"`
		Name              string  `json:"name"`
		Skills            string  `json:"skills"`
		ExperienceYears   float64 `json:"experience_years"`
		CurrentWorkload   float64 `json:"current_workload"`
		MaxWorkload       float64 `json:"max_workload"`
		Availability      string  `json:"availability"`
		PerformanceRating float64 `json:"performance_rating"`
		ActiveTasks       int     `json:"active_tasks"`
		AvgCompletionTime float64 `json:"avg_completion_time"`
		Department        string  `json:"department"`
		SuccessRate       float64 `json:"success_rate"`
	} `json:"employees"`
	Tasks []struct {
		ID              string  `json:"id"`
		Title           string  `json:"title"`
		RequiredSkills  string  `json:"required_skills"`
		Priority        string  `json:"priority"`
		EstimatedHours  float64 `json:"estimated_hours"`
		Deadline        string  `json:"deadline"`
		ComplexityScore float64 `json:"complexity_score"`
		Dependencies    string  `json:"dependencies"`
		Department      string  `json:"department"`
		CreatedAt       string  `json:"created_at"`
		Status          string  `json:"status"`
	} `json:"tasks"`
	ProgressLogs []struct {
		TaskID             string  `json:"task_id"`
		ProgressPercentage float64 `json:"progress_percentage"`
		HoursSpent         float64 `json:"hours_spent"`
		LoggedAt           string  `json:"logged_at"`
	} `json:"progress_logs"`
}

func (s *importService) ImportSnapshot(ctx context.Context, path string) (*ImportResult, error) {
	start := s.now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}

	result := &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		employees := repository.NewSQLiteEmployeeRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)
		progress := repository.NewSQLiteProgressLogRepo(tx)

		for _, raw := range snap.Employees {
			e := domain.Employee{
				ID: raw.ID, Name: raw.Name, Skills: raw.Skills,
				ExperienceYears: raw.ExperienceYears,
				CurrentWorkload: raw.CurrentWorkload, MaxWorkload: raw.MaxWorkload,
				Availability:      domain.Availability(raw.Availability),
				PerformanceRating: raw.PerformanceRating,
				ActiveTasks:       raw.ActiveTasks, AvgCompletionTime: raw.AvgCompletionTime,
				Department: raw.Department, SuccessRate: raw.SuccessRate,
			}
			if e.Availability == "" {
				e.Availability = domain.Available
			}
			if e.MaxWorkload <= 0 {
				e.MaxWorkload = 40
			}
			if err := employees.Upsert(ctx, &e); err != nil {
				return err
			}
			result.Employees++
		}

		for _, raw := range snap.Tasks {
			t := domain.Task{
				ID: raw.ID, Title: raw.Title, RequiredSkills: raw.RequiredSkills,
				Priority:       domain.Priority(raw.Priority),
				EstimatedHours: raw.EstimatedHours,
				Deadline:       parseSnapshotTime(raw.Deadline),
				ComplexityScore: raw.ComplexityScore,
				Dependencies:    raw.Dependencies,
				Department:      raw.Department,
				Status:          domain.TaskStatus(raw.Status),
			}
			if created := parseSnapshotTime(raw.CreatedAt); created != nil {
				t.CreatedAt = *created
			} else {
				t.CreatedAt = start.UTC()
			}
			if t.Priority == "" {
				t.Priority = domain.PriorityMedium
			}
			if t.Status == "" {
				t.Status = domain.TaskPending
			}
			if err := tasks.Upsert(ctx, &t); err != nil {
				return err
			}
			result.Tasks++
		}

		for _, raw := range snap.ProgressLogs {
			l := domain.ProgressLog{
				TaskID:             raw.TaskID,
				ProgressPercentage: raw.ProgressPercentage,
				HoursSpent:         raw.HoursSpent,
			}
			if at := parseSnapshotTime(raw.LoggedAt); at != nil {
				l.LoggedAt = *at
			}
			if err := progress.Append(ctx, &l); err != nil {
				return err
			}
			result.ProgressLogs++
		}
		return nil
	})
	if err != nil {
		s.observe(ctx, start, err, path)
		return nil, fmt.Errorf("importing snapshot: %w", err)
	}

	s.observe(ctx, start, nil, path)
	return result, nil
}

func (s *importService) observe(ctx context.Context, start time.Time, err error, path string) {
	s.observer.ObserveOp(ctx, OpEvent{
		Op:       "import_snapshot",
		Elapsed:  s.now().Sub(start),
		Err:      err,
		Snapshot: path,
	})
}

// parseSnapshotTime accepts RFC3339 or plain dates, returning nil for empty
// or unparseable values.
func parseSnapshotTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
