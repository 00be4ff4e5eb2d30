package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrModelUnavailable marks a model artifact that could not be loaded or
// validated. It is non-fatal: the engine logs it and scores heuristically.
var ErrModelUnavailable = errors.New("scoring model unavailable")

// Predictor is the trained compatibility model collaborator: it maps a
// feature vector to a raw score. Absence is a valid, expected state.
type Predictor interface {
	Predict(features []float64) (float64, error)
	Version() string
}

// modelArtifact is the serialized form of a trained linear scorer. The
// feature_names list must match FeatureNames() exactly: the ordering is
// part of the model semantics.
type modelArtifact struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
}

type linearPredictor struct {
	artifact modelArtifact
}

// LoadPredictor reads a model artifact from path and validates it against
// the current feature contract. Any mismatch wraps ErrModelUnavailable.
func LoadPredictor(path string) (Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrModelUnavailable, path, err)
	}

	var art modelArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrModelUnavailable, path, err)
	}

	if err := validateArtifact(art); err != nil {
		return nil, err
	}
	return &linearPredictor{artifact: art}, nil
}

func validateArtifact(art modelArtifact) error {
	names := FeatureNames()
	if len(art.FeatureNames) != len(names) {
		return fmt.Errorf("%w: model has %d features, builder produces %d",
			ErrModelUnavailable, len(art.FeatureNames), len(names))
	}
	for i, n := range art.FeatureNames {
		if n != names[i] {
			return fmt.Errorf("%w: feature %d is %q, expected %q",
				ErrModelUnavailable, i, n, names[i])
		}
	}
	if len(art.Weights) != len(names) {
		return fmt.Errorf("%w: %d weights for %d features",
			ErrModelUnavailable, len(art.Weights), len(names))
	}
	return nil
}

func (p *linearPredictor) Predict(features []float64) (float64, error) {
	if len(features) != len(p.artifact.Weights) {
		return 0, fmt.Errorf("predicting: got %d features, model expects %d",
			len(features), len(p.artifact.Weights))
	}
	score := p.artifact.Bias
	for i, w := range p.artifact.Weights {
		score += w * features[i]
	}
	return score, nil
}

func (p *linearPredictor) Version() string {
	return p.artifact.Version
}
