package scoring

import (
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// Fixed trust levels per scoring path. Confidence is a static property of
// the path that produced a score, not a per-prediction calibration.
const (
	modelConfidence     = 0.85
	heuristicConfidence = 0.6
)

// Heuristic blend weights.
const (
	skillWeight      = 0.4
	experienceWeight = 0.3
	workloadWeight   = 0.3
)

// Result is one scored (employee, task) pair.
type Result struct {
	Score      float64
	Confidence float64
	Features   []float64
}

// scorePath is the per-engine scoring strategy, chosen once at construction.
type scorePath interface {
	score(features []float64, e *domain.Employee, t *domain.Task) (float64, float64)
}

// Engine produces compatibility scores in [0,1] with a path-fixed
// confidence. With a loaded model it scores via the model and transparently
// falls back to the heuristic on a prediction error; without one it scores
// heuristically. Callers cannot observe which path ran except through the
// confidence value.
type Engine struct {
	builder *Builder
	path    scorePath
	logger  *slog.Logger
}

// NewEngine builds an engine around the given predictor. A nil predictor
// selects the heuristic path permanently.
func NewEngine(builder *Builder, predictor Predictor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	heuristic := &heuristicPath{}
	var path scorePath = heuristic
	if predictor != nil {
		path = &modelPath{predictor: predictor, fallback: heuristic, logger: logger}
		logger.Info("scoring via trained model", "version", predictor.Version())
	} else {
		logger.Info("no scoring model loaded, using heuristic path")
	}
	return &Engine{builder: builder, path: path, logger: logger}
}

// Score rates one (employee, task) pair. The returned feature vector is the
// exact input to the scoring path, for downstream audit and training logs.
func (en *Engine) Score(e *domain.Employee, t *domain.Task, now time.Time) Result {
	features := en.builder.Build(e, t, now)
	score, confidence := en.path.score(features, e, t)
	return Result{Score: score, Confidence: confidence, Features: features}
}

type modelPath struct {
	predictor Predictor
	fallback  *heuristicPath
	logger    *slog.Logger
}

func (p *modelPath) score(features []float64, e *domain.Employee, t *domain.Task) (float64, float64) {
	raw, err := p.predictor.Predict(features)
	if err != nil {
		p.logger.Warn("model prediction failed, falling back to heuristic",
			"task", t.ID, "employee", e.ID, "error", err)
		return p.fallback.score(features, e, t)
	}
	return clamp(raw, 0, 1), modelConfidence
}

type heuristicPath struct{}

// score blends skill similarity, experience fit, and workload headroom.
// The skill similarity is read back out of the feature vector so both paths
// consume identical inputs.
func (p *heuristicPath) score(features []float64, e *domain.Employee, t *domain.Task) (float64, float64) {
	skillScore := features[12] // skill_match_score

	complexity := t.ComplexityScore
	if complexity == 0 {
		complexity = defaultComplexity
	}
	var expScore float64
	if e.ExperienceYears >= complexity {
		expScore = math.Min(1, e.ExperienceYears/(complexity*1.5))
	} else {
		expScore = e.ExperienceYears / complexity * 0.8
	}

	workloadScore := 0.0
	if e.MaxWorkload > 0 {
		workloadScore = math.Max(0, 1-e.CurrentWorkload/e.MaxWorkload)
	}

	score := skillWeight*skillScore + experienceWeight*expScore + workloadWeight*workloadScore
	return clamp(score, 0, 1), heuristicConfidence
}
