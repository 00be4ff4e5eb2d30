package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// Detection thresholds.
const (
	deadlineRiskDays       = 3
	deadlineRiskProgress   = 90.0
	progressDelayRatio     = 0.3
	progressDelaySeverePts = 30.0
	workloadOverloadRatio  = 0.9
	stagnationDays         = 2
	workdayHours           = 8.0
)

// CheckDeadlineRisk flags a task whose deadline is near while completion is
// not. Severity is critical within one day, high within three.
func CheckDeadlineRisk(task *domain.Task, assignment *domain.Assignment, progress *domain.ProgressLog, now time.Time) *domain.Anomaly {
	days, ok := task.DaysUntilDeadline(now)
	if !ok || days > deadlineRiskDays {
		return nil
	}

	pct := 0.0
	if progress != nil {
		pct = progress.ProgressPercentage
	}
	if pct >= deadlineRiskProgress {
		return nil
	}

	severity := domain.SeverityHigh
	if days <= 1 {
		severity = domain.SeverityCritical
	}

	employeeID := ""
	if assignment != nil {
		employeeID = assignment.EmployeeID
	}

	return &domain.Anomaly{
		Type:       domain.AnomalyDeadlineRisk,
		Severity:   severity,
		TaskID:     task.ID,
		EmployeeID: employeeID,
		Description: fmt.Sprintf("Task is %.1f%% complete with %d days remaining until deadline",
			pct, days),
		DetectedAt: now,
		Metadata: map[string]any{
			"days_remaining":      days,
			"progress_percentage": pct,
			"deadline":            task.Deadline.Format(time.RFC3339),
		},
	}
}

// CheckProgressDelay compares actual progress against the linear pace implied
// by the estimate (one workday of 8 hours per day). A gap beyond 30% of the
// expected pace is a delay; 30 points or more of gap raises the severity.
func CheckProgressDelay(task *domain.Task, assignment *domain.Assignment, progress *domain.ProgressLog, now time.Time) *domain.Anomaly {
	if assignment == nil || assignment.AssignedAt.IsZero() {
		return nil
	}

	estimated := task.EstimatedHours
	if estimated <= 0 {
		estimated = 40
	}

	pct := 0.0
	hoursSpent := 0.0
	if progress != nil {
		pct = progress.ProgressPercentage
		hoursSpent = progress.HoursSpent
	}

	daysElapsed := now.Sub(assignment.AssignedAt).Hours() / 24
	expectedDaily := 100 / (estimated / workdayHours)
	expected := math.Min(expectedDaily*math.Floor(daysElapsed), 100)

	gap := expected - pct
	if gap <= expected*progressDelayRatio {
		return nil
	}

	severity := domain.SeverityMedium
	if gap >= progressDelaySeverePts {
		severity = domain.SeverityHigh
	}

	return &domain.Anomaly{
		Type:       domain.AnomalyProgressDelay,
		Severity:   severity,
		TaskID:     task.ID,
		EmployeeID: assignment.EmployeeID,
		Description: fmt.Sprintf("Task progress (%.1f%%) is behind expected (%.1f%%) by %.1f%%",
			pct, expected, gap),
		DetectedAt: now,
		Metadata: map[string]any{
			"actual_progress":   pct,
			"expected_progress": expected,
			"progress_gap":      gap,
			"hours_spent":       hoursSpent,
		},
	}
}

// CheckWorkloadOverload flags an employee committed past 90% of capacity;
// past 100% raises the severity.
func CheckWorkloadOverload(employee *domain.Employee, assignments []domain.Assignment, now time.Time) *domain.Anomaly {
	ratio := employee.WorkloadRatio()
	if ratio <= workloadOverloadRatio {
		return nil
	}

	severity := domain.SeverityMedium
	if ratio > 1.0 {
		severity = domain.SeverityHigh
	}

	return &domain.Anomaly{
		Type:       domain.AnomalyWorkloadOverload,
		Severity:   severity,
		EmployeeID: employee.ID,
		Description: fmt.Sprintf("Employee workload (%.1fh) is at %.1f%% of capacity (%.0fh)",
			employee.CurrentWorkload, ratio*100, employee.MaxWorkload),
		DetectedAt: now,
		Metadata: map[string]any{
			"current_workload": employee.CurrentWorkload,
			"max_workload":     employee.MaxWorkload,
			"workload_ratio":   ratio,
			"active_tasks":     len(assignments),
		},
	}
}

// CheckStagnation flags an uncompleted task whose most recent progress log
// is two or more days old.
func CheckStagnation(task *domain.Task, logs []domain.ProgressLog, now time.Time) *domain.Anomaly {
	if len(logs) == 0 || task.Status == domain.TaskCompleted {
		return nil
	}

	latest := logs[0]
	for _, l := range logs[1:] {
		if l.LoggedAt.After(latest.LoggedAt) {
			latest = l
		}
	}

	daysSince := int(now.Sub(latest.LoggedAt).Hours() / 24)
	if daysSince < stagnationDays {
		return nil
	}

	return &domain.Anomaly{
		Type:        domain.AnomalyStagnation,
		Severity:    domain.SeverityMedium,
		TaskID:      task.ID,
		Description: fmt.Sprintf("No progress updates for %d days", daysSince),
		DetectedAt:  now,
		Metadata: map[string]any{
			"days_since_update": daysSince,
			"last_update":       latest.LoggedAt.Format(time.RFC3339),
			"last_progress":     latest.ProgressPercentage,
		},
	}
}

// DetectAnomalies runs every check across the snapshot and concatenates the
// findings. Completed and cancelled tasks are skipped; no deduplication
// against earlier passes is attempted.
func DetectAnomalies(
	tasks []domain.Task,
	employees []domain.Employee,
	assignments []domain.Assignment,
	progressLogs []domain.ProgressLog,
	now time.Time,
) []domain.Anomaly {
	var anomalies []domain.Anomaly

	byTask := make(map[string][]domain.ProgressLog)
	for _, l := range progressLogs {
		byTask[l.TaskID] = append(byTask[l.TaskID], l)
	}

	for i := range tasks {
		task := &tasks[i]
		if !task.Status.Active() {
			continue
		}

		assignment := findAssignmentForTask(assignments, task.ID)
		if assignment == nil {
			continue
		}

		logs := byTask[task.ID]
		latest := latestLog(logs)

		if a := CheckDeadlineRisk(task, assignment, latest, now); a != nil {
			anomalies = append(anomalies, *a)
		}
		if a := CheckProgressDelay(task, assignment, latest, now); a != nil {
			anomalies = append(anomalies, *a)
		}
		if a := CheckStagnation(task, logs, now); a != nil {
			anomalies = append(anomalies, *a)
		}
	}

	for i := range employees {
		e := &employees[i]
		var own []domain.Assignment
		for _, a := range assignments {
			if a.EmployeeID == e.ID {
				own = append(own, a)
			}
		}
		if a := CheckWorkloadOverload(e, own, now); a != nil {
			anomalies = append(anomalies, *a)
		}
	}

	return anomalies
}

func findAssignmentForTask(assignments []domain.Assignment, taskID string) *domain.Assignment {
	for i := range assignments {
		if assignments[i].TaskID == taskID {
			return &assignments[i]
		}
	}
	return nil
}

func latestLog(logs []domain.ProgressLog) *domain.ProgressLog {
	if len(logs) == 0 {
		return nil
	}
	latest := &logs[0]
	for i := range logs[1:] {
		if logs[i+1].LoggedAt.After(latest.LoggedAt) {
			latest = &logs[i+1]
		}
	}
	return latest
}
