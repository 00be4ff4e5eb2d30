// Package scoring builds feature vectors for (employee, task) pairs and
// turns them into compatibility scores.
package scoring

import (
	"math"
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/matching"
)

// Normalization constants. These are part of the scoring contract: a trained
// model artifact is only valid against the exact constants and feature
// ordering it was trained with, so changes here require retraining.
const (
	maxExperienceYears  = 20.0
	maxPerformance      = 5.0
	maxActiveTasks      = 10.0
	maxAvgCompletion    = 100.0
	maxComplexity       = 5.0
	maxEstimatedHours   = 200.0
	deadlineHorizonDays = 30.0
	maxDependencies     = 5.0
	maxTaskAgeDays      = 30.0

	defaultPerformance   = 3.0
	defaultComplexity    = 3.0
	defaultMaxWorkload   = 40.0
	defaultAvgCompletion = 40.0
	defaultSuccessRate   = 0.8
	defaultTimePressure  = 0.5
)

// FeatureCount is the fixed length of every feature vector.
const FeatureCount = 17

var featureNames = []string{
	"employee_experience",
	"employee_workload_ratio",
	"employee_availability",
	"employee_performance",
	"employee_active_tasks",
	"employee_avg_completion",

	"task_priority",
	"task_complexity",
	"task_estimated_hours",
	"task_time_pressure",
	"task_dependencies",
	"task_age",

	"skill_match_score",
	"experience_complexity_ratio",
	"workload_capacity_fit",
	"department_match",
	"historical_success_rate",
}

// FeatureNames returns the ordered names matching Build's output. The
// ordering is load-bearing for any trained model consuming these vectors.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// Builder assembles fixed-length feature vectors from employee/task pairs.
// Missing optional fields default to neutral mid-range values so scoring
// degrades gracefully on incomplete snapshots.
type Builder struct {
	matcher *matching.Matcher
}

func NewBuilder(matcher *matching.Matcher) *Builder {
	return &Builder{matcher: matcher}
}

// Build returns the 17-dimension vector for one pair: 6 employee features,
// 6 task features, 5 interaction features, each in approximately [0,1].
func (b *Builder) Build(e *domain.Employee, t *domain.Task, now time.Time) []float64 {
	features := make([]float64, 0, FeatureCount)
	features = append(features, b.employeeFeatures(e)...)
	features = append(features, b.taskFeatures(t, now)...)
	features = append(features, b.interactionFeatures(e, t)...)
	return features
}

func (b *Builder) employeeFeatures(e *domain.Employee) []float64 {
	maxWorkload := e.MaxWorkload
	if maxWorkload <= 0 {
		maxWorkload = defaultMaxWorkload
	}

	availability := 0.0
	if e.Availability == domain.Available {
		availability = 1.0
	}

	performance := e.PerformanceRating
	if performance == 0 {
		performance = defaultPerformance
	}

	avgCompletion := e.AvgCompletionTime
	if avgCompletion == 0 {
		avgCompletion = defaultAvgCompletion
	}

	return []float64{
		math.Min(e.ExperienceYears/maxExperienceYears, 1),
		e.CurrentWorkload / maxWorkload,
		availability,
		math.Min(performance/maxPerformance, 1),
		math.Min(float64(e.ActiveTasks)/maxActiveTasks, 1),
		math.Min(avgCompletion/maxAvgCompletion, 1),
	}
}

func (b *Builder) taskFeatures(t *domain.Task, now time.Time) []float64 {
	complexity := t.ComplexityScore
	if complexity == 0 {
		complexity = defaultComplexity
	}

	timePressure := defaultTimePressure
	if days, ok := t.DaysUntilDeadline(now); ok {
		timePressure = clamp(1-float64(days)/deadlineHorizonDays, 0, 1)
	}

	age := 0.0
	if !t.CreatedAt.IsZero() {
		ageDays := now.Sub(t.CreatedAt).Hours() / 24
		age = math.Min(ageDays/maxTaskAgeDays, 1)
	}

	return []float64{
		priorityFeature(t.Priority),
		math.Min(complexity/maxComplexity, 1),
		math.Min(t.EstimatedHours/maxEstimatedHours, 1),
		timePressure,
		math.Min(float64(t.DependencyCount())/maxDependencies, 1),
		age,
	}
}

func (b *Builder) interactionFeatures(e *domain.Employee, t *domain.Task) []float64 {
	skillScore := b.matcher.Similarity(e.Skills, t.RequiredSkills)

	complexity := t.ComplexityScore
	if complexity == 0 {
		complexity = defaultComplexity
	}
	expComplexity := math.Min(e.ExperienceYears/complexity, 2) / 2

	maxWorkload := e.MaxWorkload
	if maxWorkload <= 0 {
		maxWorkload = defaultMaxWorkload
	}
	capacityFit := 0.0
	if t.EstimatedHours > 0 {
		capacityFit = math.Max(0, math.Min((maxWorkload-e.CurrentWorkload)/t.EstimatedHours, 1))
	}

	deptMatch := 0.5
	if e.Department == t.Department {
		deptMatch = 1.0
	}

	successRate := e.SuccessRate
	if successRate == 0 {
		successRate = defaultSuccessRate
	}

	return []float64{skillScore, expComplexity, capacityFit, deptMatch, successRate}
}

func priorityFeature(p domain.Priority) float64 {
	switch p {
	case domain.PriorityLow:
		return 0.25
	case domain.PriorityHigh:
		return 0.75
	case domain.PriorityCritical:
		return 1.0
	default:
		return 0.5
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
