package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/repository"
	"github.com/kmelnikov/taskalloc/internal/scheduler"
	"github.com/kmelnikov/taskalloc/internal/scoring"
	"github.com/kmelnikov/taskalloc/pkg/metrics"
)

// DefaultPreviewTTL is how long an unfinalized preview stays addressable.
const DefaultPreviewTTL = 30 * time.Minute

type schedulerService struct {
	scorer   scheduler.PairScorer
	uow      db.UnitOfWork
	observer OpObserver

	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	previews map[string]*contract.Preview
}

// NewSchedulerService creates a SchedulerService. A non-positive ttl falls
// back to DefaultPreviewTTL.
func NewSchedulerService(scorer scheduler.PairScorer, uow db.UnitOfWork, ttl time.Duration, observers ...OpObserver) SchedulerService {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &schedulerService{
		scorer:   scorer,
		uow:      uow,
		observer: opObserverOrNoop(observers),
		ttl:      ttl,
		now:      time.Now,
		previews: make(map[string]*contract.Preview),
	}
}

func (s *schedulerService) PreviewAssignments(ctx context.Context, req contract.PreviewRequest) (*contract.Preview, error) {
	start := s.now()

	if err := validatePreviewRequest(req); err != nil {
		s.observe(ctx, OpEvent{Op: "preview_assignments"}, start, err)
		return nil, err
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyPriorityGreedy
	}
	cons := contract.DefaultConstraints()
	if req.Constraints != nil {
		cons = *req.Constraints
	}
	now := start
	if req.Now != nil {
		now = *req.Now
	}

	assignments := scheduler.Assign(req.Tasks, req.Employees, strategy, cons, s.scorer, now)
	metrics.RecordAssignmentRunDuration(float64(s.now().Sub(start).Milliseconds()))

	preview := &contract.Preview{
		ID:          uuid.NewString(),
		CreatedAt:   start,
		Strategy:    strategy,
		Constraints: cons,
		Assignments: assignments,
		Summary: contract.PreviewSummary{
			TotalTasks:         len(req.Tasks),
			TotalEmployees:     len(req.Employees),
			AssignmentsCreated: len(assignments),
			UnassignedTasks:    len(req.Tasks) - len(assignments),
		},
	}

	s.mu.Lock()
	s.sweepExpiredLocked(start)
	s.previews[preview.ID] = preview
	s.mu.Unlock()

	metrics.RecordPreviewCreated()
	s.observe(ctx, OpEvent{
		Op:         "preview_assignments",
		PreviewID:  preview.ID,
		Strategy:   strategy,
		Assigned:   len(assignments),
		Unassigned: preview.Summary.UnassignedTasks,
	}, start, nil)
	return copyPreview(preview), nil
}

func (s *schedulerService) GetPreview(ctx context.Context, previewID string) (*contract.Preview, error) {
	s.mu.Lock()
	s.sweepExpiredLocked(s.now())
	preview, ok := s.previews[previewID]
	s.mu.Unlock()

	if !ok {
		return nil, previewNotFound(previewID)
	}
	return copyPreview(preview), nil
}

// FinalizeAssignments atomically claims the preview, then persists its
// assignments, task status changes, workload bumps, and training records in
// one transaction. Concurrent finalize calls for the same id see exactly one
// success; the rest get PREVIEW_NOT_FOUND.
func (s *schedulerService) FinalizeAssignments(ctx context.Context, previewID string) (*contract.FinalizeResult, error) {
	start := s.now()

	s.mu.Lock()
	s.sweepExpiredLocked(start)
	preview, ok := s.previews[previewID]
	if ok {
		delete(s.previews, previewID)
	}
	s.mu.Unlock()

	if !ok {
		err := previewNotFound(previewID)
		s.observe(ctx, OpEvent{Op: "finalize_assignments", PreviewID: previewID}, start, err)
		return nil, err
	}

	stored := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		assignments := repository.NewSQLiteAssignmentRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)
		employees := repository.NewSQLiteEmployeeRepo(tx)
		training := repository.NewSQLiteTrainingLogRepo(tx)

		n, err := assignments.StoreAssignments(ctx, preview.Assignments)
		if err != nil {
			return err
		}
		stored = n

		for _, a := range preview.Assignments {
			if err := tasks.SetStatus(ctx, a.TaskID, domain.TaskAssigned); err != nil {
				return err
			}
			if err := employees.AddWorkload(ctx, a.EmployeeID, a.EstimatedHours); err != nil {
				return err
			}
		}

		return training.StoreRecords(ctx, trainingRecords(preview.Assignments, start))
	})
	if err != nil {
		// Put the claim back so the caller can retry after fixing the cause.
		s.mu.Lock()
		s.previews[previewID] = preview
		s.mu.Unlock()

		storeErr := &contract.ScheduleError{
			Code:    contract.ErrStoreFailure,
			Message: fmt.Sprintf("finalizing preview %s: %v", previewID, err),
		}
		s.observe(ctx, OpEvent{Op: "finalize_assignments", PreviewID: previewID}, start, storeErr)
		return nil, storeErr
	}

	metrics.RecordPreviewFinalized()
	metrics.RecordAssignmentsCommitted(string(preview.Strategy), stored)
	s.observe(ctx, OpEvent{
		Op:        "finalize_assignments",
		PreviewID: previewID,
		Strategy:  preview.Strategy,
		Stored:    stored,
	}, start, nil)

	return &contract.FinalizeResult{
		PreviewID:         previewID,
		FinalizedAt:       start,
		AssignmentsStored: stored,
		Summary:           preview.Summary,
	}, nil
}

func (s *schedulerService) DiscardPreview(ctx context.Context, previewID string) error {
	start := s.now()

	s.mu.Lock()
	_, ok := s.previews[previewID]
	if ok {
		delete(s.previews, previewID)
	}
	s.mu.Unlock()

	if !ok {
		return previewNotFound(previewID)
	}
	metrics.RecordPreviewDiscarded()
	s.observe(ctx, OpEvent{Op: "discard_preview", PreviewID: previewID}, start, nil)
	return nil
}

// RunJanitor sweeps expired previews on the given interval until the context
// is cancelled. Expiry is also enforced lazily on every lookup, so running
// the janitor is an optimization, not a correctness requirement.
func (s *schedulerService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.sweepExpiredLocked(s.now())
			s.mu.Unlock()
		}
	}
}

// sweepExpiredLocked drops previews older than the TTL. Callers hold s.mu.
func (s *schedulerService) sweepExpiredLocked(now time.Time) {
	for id, p := range s.previews {
		if now.Sub(p.CreatedAt) >= s.ttl {
			delete(s.previews, id)
			metrics.RecordPreviewExpired()
		}
	}
}

func (s *schedulerService) observe(ctx context.Context, event OpEvent, start time.Time, err error) {
	event.Elapsed = s.now().Sub(start)
	event.Err = err
	s.observer.ObserveOp(ctx, event)
}

func validatePreviewRequest(req contract.PreviewRequest) error {
	if len(req.Tasks) == 0 {
		return &contract.ScheduleError{Code: contract.ErrInvalidInput, Message: "no tasks to assign"}
	}
	if len(req.Employees) == 0 {
		return &contract.ScheduleError{Code: contract.ErrInvalidInput, Message: "no employees to assign to"}
	}
	if req.Strategy != "" && !domain.ValidStrategies[req.Strategy] {
		return &contract.ScheduleError{
			Code:    contract.ErrUnknownStrategy,
			Message: fmt.Sprintf("unknown strategy %q", req.Strategy),
		}
	}
	if req.Constraints != nil {
		if req.Constraints.MaxAssignmentsPerEmployee <= 0 {
			return &contract.ScheduleError{Code: contract.ErrInvalidInput, Message: "max assignments per employee must be positive"}
		}
		if w := req.Constraints.WorkloadWeight; w < 0 || w > 1 {
			return &contract.ScheduleError{Code: contract.ErrInvalidInput, Message: "workload weight must be within [0,1]"}
		}
	}
	return nil
}

func previewNotFound(id string) error {
	return &contract.ScheduleError{
		Code:    contract.ErrPreviewNotFound,
		Message: fmt.Sprintf("preview %s not found (finalized, discarded, or expired)", id),
	}
}

// copyPreview returns a copy with its own assignment slice and feature
// vectors so callers cannot mutate the stored preview or the audit trail
// written at finalize.
func copyPreview(p *contract.Preview) *contract.Preview {
	cp := *p
	cp.Assignments = make([]domain.Assignment, len(p.Assignments))
	copy(cp.Assignments, p.Assignments)
	for i := range cp.Assignments {
		cp.Assignments[i].Features = append([]float64(nil), p.Assignments[i].Features...)
	}
	return &cp
}

func trainingRecords(assignments []domain.Assignment, loggedAt time.Time) []domain.TrainingRecord {
	names := scoring.FeatureNames()
	records := make([]domain.TrainingRecord, 0, len(assignments))
	for _, a := range assignments {
		records = append(records, domain.TrainingRecord{
			TaskID:       a.TaskID,
			EmployeeID:   a.EmployeeID,
			Features:     a.Features,
			FeatureNames: names,
			Score:        a.Score,
			Confidence:   a.Confidence,
			Strategy:     a.Strategy,
			LoggedAt:     loggedAt,
		})
	}
	return records
}
