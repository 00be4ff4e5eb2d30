package scoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPredictor struct {
	score float64
	err   error
}

func (s *stubPredictor) Predict([]float64) (float64, error) { return s.score, s.err }
func (s *stubPredictor) Version() string                    { return "stub-1" }

func testPair() (domain.Employee, domain.Task) {
	e := domain.Employee{
		ID: "e1", Name: "Alice", Skills: "Python, Flask, PostgreSQL",
		ExperienceYears: 5, CurrentWorkload: 10, MaxWorkload: 40,
		Availability: domain.Available, PerformanceRating: 4.0,
	}
	task := domain.Task{
		ID: "t1", Title: "API endpoint", RequiredSkills: "Python, Flask",
		Priority: domain.PriorityMedium, EstimatedHours: 10, ComplexityScore: 3,
	}
	return e, task
}

func TestEngine_HeuristicPath(t *testing.T) {
	en := NewEngine(newTestBuilder(), nil, nil)
	e, task := testPair()

	res := en.Score(&e, &task, time.Now())

	assert.Equal(t, heuristicConfidence, res.Confidence)
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 1.0)
	assert.Len(t, res.Features, FeatureCount)
}

func TestEngine_ModelPath(t *testing.T) {
	en := NewEngine(newTestBuilder(), &stubPredictor{score: 1.7}, nil)
	e, task := testPair()

	res := en.Score(&e, &task, time.Now())

	assert.Equal(t, modelConfidence, res.Confidence)
	assert.Equal(t, 1.0, res.Score, "raw model output must be clamped to [0,1]")
}

func TestEngine_ModelErrorFallsBackToHeuristic(t *testing.T) {
	en := NewEngine(newTestBuilder(), &stubPredictor{err: errors.New("boom")}, nil)
	e, task := testPair()

	res := en.Score(&e, &task, time.Now())

	assert.Equal(t, heuristicConfidence, res.Confidence,
		"prediction error must transparently use the heuristic path")
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 1.0)
}

func TestEngine_HeuristicBlend(t *testing.T) {
	// Fully loaded employee: workload term contributes zero.
	en := NewEngine(newTestBuilder(), nil, nil)
	e, task := testPair()
	e.CurrentWorkload = 40

	loaded := en.Score(&e, &task, time.Now())

	e.CurrentWorkload = 0
	idle := en.Score(&e, &task, time.Now())

	assert.InDelta(t, workloadWeight, idle.Score-loaded.Score, 1e-9,
		"workload availability carries exactly its blend weight")
}

func TestEngine_ExperienceFit(t *testing.T) {
	en := NewEngine(newTestBuilder(), nil, nil)
	e, task := testPair()
	task.ComplexityScore = 4

	e.ExperienceYears = 2 // under-qualified: 2/4 * 0.8
	under := en.Score(&e, &task, time.Now())

	e.ExperienceYears = 6 // qualified: min(1, 6/6)
	over := en.Score(&e, &task, time.Now())

	assert.InDelta(t, experienceWeight*(1.0-0.4), over.Score-under.Score, 1e-9)
}

func TestEngine_Determinism(t *testing.T) {
	en := NewEngine(newTestBuilder(), nil, nil)
	e, task := testPair()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r1 := en.Score(&e, &task, now)
	r2 := en.Score(&e, &task, now)
	assert.Equal(t, r1, r2)
}

func writeArtifact(t *testing.T, names []string, weights []float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	art := `{"version":"v1","feature_names":` + jsonStrings(names) +
		`,"weights":` + jsonFloats(weights) + `,"bias":0.1}`
	require.NoError(t, os.WriteFile(path, []byte(art), 0o644))
	return path
}

func TestLoadPredictor_ValidArtifact(t *testing.T) {
	weights := make([]float64, FeatureCount)
	weights[0] = 0.5
	path := writeArtifact(t, FeatureNames(), weights)

	p, err := LoadPredictor(path)
	require.NoError(t, err)
	assert.Equal(t, "v1", p.Version())

	features := make([]float64, FeatureCount)
	features[0] = 1.0
	score, err := p.Predict(features)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, score, 1e-9, "bias + w0*x0")
}

func TestLoadPredictor_FeatureOrderMismatch(t *testing.T) {
	names := FeatureNames()
	names[0], names[1] = names[1], names[0]
	path := writeArtifact(t, names, make([]float64, FeatureCount))

	_, err := LoadPredictor(path)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestLoadPredictor_MissingFile(t *testing.T) {
	_, err := LoadPredictor(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func jsonStrings(ss []string) string {
	out := "["
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += `"` + s + `"`
	}
	return out + "]"
}

func jsonFloats(fs []float64) string {
	out := "["
	for i, f := range fs {
		if i > 0 {
			out += ","
		}
		if f == 0 {
			out += "0"
		} else {
			out += "0.5"
		}
	}
	return out + "]"
}
