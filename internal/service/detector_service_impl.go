package service

import (
	"context"
	"time"

	"github.com/kmelnikov/taskalloc/internal/advisory"
	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/scheduler"
	"github.com/kmelnikov/taskalloc/pkg/metrics"
)

type detectorService struct {
	advisor  advisory.Advisor
	observer OpObserver
	now      func() time.Time
}

// NewDetectorService creates a DetectorService. A nil advisor disables
// triage enrichment regardless of the request flag.
func NewDetectorService(advisor advisory.Advisor, observers ...OpObserver) DetectorService {
	return &detectorService{
		advisor:  advisor,
		observer: opObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *detectorService) Detect(ctx context.Context, req contract.DetectRequest) (*contract.DetectReport, error) {
	start := s.now()
	now := start
	if req.Now != nil {
		now = *req.Now
	}

	anomalies := scheduler.DetectAnomalies(req.Tasks, req.Employees, req.Assignments, req.ProgressLogs, now)
	for _, a := range anomalies {
		metrics.RecordAnomalyDetected(string(a.Type), string(a.Severity))
	}

	enriched := false
	if req.EnrichTriage && s.advisor != nil {
		for i := range anomalies {
			s.enrich(ctx, &anomalies[i], req)
		}
		enriched = len(anomalies) > 0
	}

	s.observer.ObserveOp(ctx, OpEvent{
		Op:        "detect_anomalies",
		Elapsed:   s.now().Sub(start),
		Scanned:   len(req.Tasks),
		Anomalies: len(anomalies),
		Enriched:  enriched,
	})

	return &contract.DetectReport{
		GeneratedAt:      now,
		Anomalies:        anomalies,
		TasksScanned:     len(req.Tasks),
		EmployeesScanned: len(req.Employees),
		Enriched:         enriched,
	}, nil
}

// enrich attaches advisory triage to one anomaly. Advisory failures surface
// as fallback payloads, never as errors.
func (s *detectorService) enrich(ctx context.Context, a *domain.Anomaly, req contract.DetectRequest) {
	treq := advisory.TriageRequest{
		AnomalyType: string(a.Type),
		Severity:    string(a.Severity),
		Description: a.Description,
	}
	if task := findTask(req.Tasks, a.TaskID); task != nil {
		treq.TaskTitle = task.Title
	}
	if e := findEmployee(req.Employees, a.EmployeeID); e != nil {
		treq.EmployeeName = e.Name
		treq.Workload = e.CurrentWorkload
	}
	if log := latestProgress(req.ProgressLogs, a.TaskID); log != nil {
		treq.Progress = log.ProgressPercentage
	}

	res := s.advisor.Triage(ctx, treq)
	a.TriageNotes = res.Notes
	a.RecommendedActions = res.Actions
	a.TriagePriority = res.Priority

	outcome := "ok"
	if res.Fallback {
		outcome = "fallback"
	}
	metrics.RecordAdvisoryCall("triage", outcome)
}

func findTask(tasks []domain.Task, id string) *domain.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func findEmployee(employees []domain.Employee, id string) *domain.Employee {
	for i := range employees {
		if employees[i].ID == id {
			return &employees[i]
		}
	}
	return nil
}

func latestProgress(logs []domain.ProgressLog, taskID string) *domain.ProgressLog {
	var latest *domain.ProgressLog
	for i := range logs {
		if logs[i].TaskID != taskID {
			continue
		}
		if latest == nil || logs[i].LoggedAt.After(latest.LoggedAt) {
			latest = &logs[i]
		}
	}
	return latest
}
