package scoring

import (
	"testing"
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	m := matching.NewMatcher()
	m.Fit([]string{"Python, Flask, PostgreSQL", "React, JavaScript", "Java, Spring"})
	return NewBuilder(m)
}

func TestBuild_LengthAndNames(t *testing.T) {
	b := newTestBuilder()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := domain.Employee{ID: "e1", Skills: "Python", MaxWorkload: 40}
	task := domain.Task{ID: "t1", RequiredSkills: "Python", Priority: domain.PriorityHigh}

	vec := b.Build(&e, &task, now)
	require.Len(t, vec, FeatureCount)
	require.Len(t, FeatureNames(), FeatureCount)
}

func TestBuild_Bounds(t *testing.T) {
	b := newTestBuilder()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 2)

	e := domain.Employee{
		ID: "e1", Skills: "Python, Flask", ExperienceYears: 35,
		CurrentWorkload: 38, MaxWorkload: 40, Availability: domain.Available,
		PerformanceRating: 4.5, ActiveTasks: 20, AvgCompletionTime: 300,
	}
	task := domain.Task{
		ID: "t1", RequiredSkills: "Python", Priority: domain.PriorityCritical,
		ComplexityScore: 5, EstimatedHours: 500, Deadline: &deadline,
		Dependencies: "a,b,c,d,e,f,g", CreatedAt: now.AddDate(0, -6, 0),
	}

	for i, v := range b.Build(&e, &task, now) {
		assert.GreaterOrEqual(t, v, 0.0, "feature %s", FeatureNames()[i])
		assert.LessOrEqual(t, v, 1.0, "feature %s", FeatureNames()[i])
	}
}

func TestBuild_NormalizationConstants(t *testing.T) {
	b := newTestBuilder()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 15)

	e := domain.Employee{
		ID: "e1", Skills: "Python", ExperienceYears: 10,
		CurrentWorkload: 20, MaxWorkload: 40, Availability: domain.Available,
		PerformanceRating: 4.0, ActiveTasks: 5, AvgCompletionTime: 50,
	}
	task := domain.Task{
		ID: "t1", RequiredSkills: "Python", Priority: domain.PriorityHigh,
		ComplexityScore: 2.5, EstimatedHours: 100, Deadline: &deadline,
		Dependencies: "x,y", CreatedAt: now.AddDate(0, 0, -15),
	}

	vec := b.Build(&e, &task, now)

	assert.InDelta(t, 0.5, vec[0], 1e-9, "experience / 20")
	assert.InDelta(t, 0.5, vec[1], 1e-9, "workload ratio")
	assert.InDelta(t, 1.0, vec[2], 1e-9, "available")
	assert.InDelta(t, 0.8, vec[3], 1e-9, "rating / 5")
	assert.InDelta(t, 0.5, vec[4], 1e-9, "active tasks / 10")
	assert.InDelta(t, 0.5, vec[5], 1e-9, "avg completion / 100")

	assert.InDelta(t, 0.75, vec[6], 1e-9, "high priority")
	assert.InDelta(t, 0.5, vec[7], 1e-9, "complexity / 5")
	assert.InDelta(t, 0.5, vec[8], 1e-9, "hours / 200")
	assert.InDelta(t, 0.5, vec[9], 1e-9, "1 - 15/30 deadline pressure")
	assert.InDelta(t, 0.4, vec[10], 1e-9, "2 deps / 5")
	assert.InDelta(t, 0.5, vec[11], 1e-9, "15 day age / 30")
}

func TestBuild_MissingOptionalsDefaultNeutral(t *testing.T) {
	b := newTestBuilder()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := domain.Employee{ID: "e1", Skills: "Python"}
	task := domain.Task{ID: "t1", RequiredSkills: "Python"}

	vec := b.Build(&e, &task, now)

	assert.InDelta(t, defaultPerformance/maxPerformance, vec[3], 1e-9)
	assert.InDelta(t, defaultTimePressure, vec[9], 1e-9, "no deadline => medium pressure")
	assert.InDelta(t, 0.0, vec[11], 1e-9, "no created_at => zero age")
	assert.InDelta(t, defaultSuccessRate, vec[16], 1e-9)
}

func TestBuild_DeadlinePressureClamped(t *testing.T) {
	b := newTestBuilder()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.AddDate(0, 0, -10)
	far := now.AddDate(0, 1, 15)

	overdue := domain.Task{ID: "t1", Deadline: &past}
	relaxed := domain.Task{ID: "t2", Deadline: &far}
	e := domain.Employee{ID: "e1"}

	assert.InDelta(t, 1.0, b.Build(&e, &overdue, now)[9], 1e-9, "past due pegs pressure at 1")
	assert.InDelta(t, 0.0, b.Build(&e, &relaxed, now)[9], 1e-9, "distant deadline floors at 0")
}
