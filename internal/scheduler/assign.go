// Package scheduler holds the pure assignment and detection logic: strategy
// implementations over employee/task snapshots and anomaly checks over live
// progress data. Nothing here touches storage or clocks directly.
package scheduler

import (
	"sort"
	"time"

	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/scoring"
)

// PairScorer rates one (employee, task) pair. *scoring.Engine satisfies it.
type PairScorer interface {
	Score(e *domain.Employee, t *domain.Task, now time.Time) scoring.Result
}

// Assign runs the named strategy over the snapshot and returns the proposed
// assignments. Inputs are treated as immutable; running workload counters
// are tracked separately. Unknown strategies fall back to priority-greedy.
func Assign(
	tasks []domain.Task,
	employees []domain.Employee,
	strategy domain.Strategy,
	cons contract.Constraints,
	scorer PairScorer,
	now time.Time,
) []domain.Assignment {
	switch strategy {
	case domain.StrategyWorkloadBalanced:
		return workloadBalanced(tasks, employees, cons, scorer, now)
	case domain.StrategyOptimalBipartite:
		return optimalBipartite(tasks, employees, scorer, now)
	default:
		return priorityGreedy(tasks, employees, cons, scorer, now)
	}
}

// sortTasks orders tasks for the greedy strategies: priority rank descending,
// then earlier deadline first (no deadline last), then id for determinism.
func sortTasks(tasks []domain.Task) []domain.Task {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ra, rb := domain.PriorityRank(a.Priority), domain.PriorityRank(b.Priority)
		if ra != rb {
			return ra > rb
		}
		if (a.Deadline == nil) != (b.Deadline == nil) {
			return a.Deadline != nil
		}
		if a.Deadline != nil && !a.Deadline.Equal(*b.Deadline) {
			return a.Deadline.Before(*b.Deadline)
		}
		return a.ID < b.ID
	})
	return sorted
}

// runState tracks per-employee counters during one greedy run.
type runState struct {
	assigned map[string]int
	workload map[string]float64
}

func newRunState(employees []domain.Employee) *runState {
	st := &runState{
		assigned: make(map[string]int, len(employees)),
		workload: make(map[string]float64, len(employees)),
	}
	for _, e := range employees {
		st.workload[e.ID] = e.CurrentWorkload
	}
	return st
}

// fits reports whether the employee can take the task's hours without
// exceeding capacity.
func (st *runState) fits(e *domain.Employee, hours float64) bool {
	return st.workload[e.ID]+hours <= e.MaxWorkload
}

func (st *runState) commit(e *domain.Employee, hours float64) {
	st.assigned[e.ID]++
	st.workload[e.ID] += hours
}

// priorityGreedy assigns each task, in priority order, to the single best
// scoring employee that still has assignment-count and capacity headroom.
// Tasks with no eligible employee are skipped, not errors.
func priorityGreedy(
	tasks []domain.Task,
	employees []domain.Employee,
	cons contract.Constraints,
	scorer PairScorer,
	now time.Time,
) []domain.Assignment {
	st := newRunState(employees)
	var out []domain.Assignment

	for _, task := range sortTasks(tasks) {
		var best *domain.Candidate
		for i := range employees {
			e := &employees[i]
			if st.assigned[e.ID] >= cons.MaxAssignmentsPerEmployee {
				continue
			}
			if !st.fits(e, task.EstimatedHours) {
				continue
			}
			if cons.RequireAvailable && e.Availability != domain.Available {
				continue
			}
			res := scorer.Score(e, &task, now)
			if best == nil || res.Score > best.MatchScore {
				best = &domain.Candidate{
					EmployeeID:   e.ID,
					TaskID:       task.ID,
					EmployeeName: e.Name,
					MatchScore:   res.Score,
					Confidence:   res.Confidence,
					Features:     res.Features,
				}
			}
		}
		if best == nil {
			continue
		}
		out = append(out, toAssignment(*best, best.MatchScore, task, domain.StrategyPriorityGreedy, now))
		st.commit(findEmployee(employees, best.EmployeeID), task.EstimatedHours)
	}
	return out
}

// workloadBalanced scores every available employee per task, blends the
// match score with workload headroom, and walks candidates in descending
// adjusted order until one has capacity for the task.
// MaxAssignmentsPerEmployee is intentionally not enforced here: this
// strategy limits concentration through the headroom blend and the hour
// capacity alone, carried from the reference behavior.
func workloadBalanced(
	tasks []domain.Task,
	employees []domain.Employee,
	cons contract.Constraints,
	scorer PairScorer,
	now time.Time,
) []domain.Assignment {
	w := cons.WorkloadWeight
	st := newRunState(employees)
	var out []domain.Assignment

	for _, task := range sortTasks(tasks) {
		var candidates []domain.Candidate
		for i := range employees {
			e := &employees[i]
			if cons.RequireAvailable && e.Availability != domain.Available {
				continue
			}
			res := scorer.Score(e, &task, now)

			workloadFactor := 0.0
			if e.MaxWorkload > 0 {
				workloadFactor = 1 - st.workload[e.ID]/e.MaxWorkload
			}
			adjusted := (1-w)*res.Score + w*workloadFactor
			candidates = append(candidates, domain.Candidate{
				EmployeeID:    e.ID,
				TaskID:        task.ID,
				EmployeeName:  e.Name,
				MatchScore:    res.Score,
				Confidence:    res.Confidence,
				AdjustedScore: &adjusted,
				Features:      res.Features,
			})
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return *candidates[i].AdjustedScore > *candidates[j].AdjustedScore
		})

		for _, c := range candidates {
			e := findEmployee(employees, c.EmployeeID)
			if !st.fits(e, task.EstimatedHours) {
				continue
			}
			out = append(out, toAssignment(c, *c.AdjustedScore, task, domain.StrategyWorkloadBalanced, now))
			st.commit(e, task.EstimatedHours)
			break
		}
	}
	return out
}

// optimalBipartite builds a full cost matrix (cost = 1 - match score) and
// solves the minimum-cost assignment. Each task and employee appears at most
// once. Known limitation carried from the reference behavior: this strategy
// enforces neither capacity nor availability.
func optimalBipartite(
	tasks []domain.Task,
	employees []domain.Employee,
	scorer PairScorer,
	now time.Time,
) []domain.Assignment {
	if len(tasks) == 0 || len(employees) == 0 {
		return nil
	}

	cost := make([][]float64, len(tasks))
	results := make([][]scoring.Result, len(tasks))
	for i := range tasks {
		cost[i] = make([]float64, len(employees))
		results[i] = make([]scoring.Result, len(employees))
		for j := range employees {
			res := scorer.Score(&employees[j], &tasks[i], now)
			results[i][j] = res
			cost[i][j] = 1 - res.Score
		}
	}

	var out []domain.Assignment
	for _, pair := range solveAssignment(cost) {
		task := tasks[pair.row]
		e := employees[pair.col]
		res := results[pair.row][pair.col]
		c := domain.Candidate{
			EmployeeID:   e.ID,
			TaskID:       task.ID,
			EmployeeName: e.Name,
			MatchScore:   res.Score,
			Confidence:   res.Confidence,
			Features:     res.Features,
		}
		out = append(out, toAssignment(c, res.Score, task, domain.StrategyOptimalBipartite, now))
	}
	return out
}

func toAssignment(c domain.Candidate, finalScore float64, task domain.Task, strategy domain.Strategy, now time.Time) domain.Assignment {
	return domain.Assignment{
		TaskID:         task.ID,
		EmployeeID:     c.EmployeeID,
		Strategy:       strategy,
		Score:          finalScore,
		Confidence:     c.Confidence,
		TaskTitle:      task.Title,
		EmployeeName:   c.EmployeeName,
		EstimatedHours: task.EstimatedHours,
		Features:       c.Features,
		AssignedAt:     now,
	}
}

func findEmployee(employees []domain.Employee, id string) *domain.Employee {
	for i := range employees {
		if employees[i].ID == id {
			return &employees[i]
		}
	}
	return nil
}
