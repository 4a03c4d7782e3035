package engine

import (
	"context"

	"github.com/Veraticus/rota/internal/model"
)

// SequenceClassifier defines the contract for the trainable pattern classifier.
type SequenceClassifier interface {
	Load() error
	Predict(sequence []int) (code string, probability float64, err error)
	Train(ctx context.Context, examples []model.Example) error
	Save() error
}

// Strategy is one stage of the matching chain.
type Strategy interface {
	Name() model.Stage
	// Evaluate returns a result and true when the stage accepts the pattern.
	Evaluate(ctx context.Context, req Request) (model.MatchResult, bool)
}

// Request is the input to every matching stage.
type Request struct {
	Pattern string
	Labels  []model.ShiftLabel
}
