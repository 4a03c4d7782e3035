package engine

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/model"
	"github.com/Veraticus/rota/internal/pattern"
	"github.com/Veraticus/rota/internal/sequence"
	"github.com/Veraticus/rota/internal/service"
)

const (
	similarityScale      = 100
	lengthMatchBonus     = 20
	learnedConfidence    = 1.0
	periodicityConfident = 1.0
)

// LearnedStrategy accepts exact hits in the learning store.
type LearnedStrategy struct {
	store service.PatternStore
}

// Name implements Strategy.
func (s *LearnedStrategy) Name() model.Stage { return model.StageLearned }

// Evaluate implements Strategy.
func (s *LearnedStrategy) Evaluate(_ context.Context, req Request) (model.MatchResult, bool) {
	code, ok := s.store.Lookup(req.Pattern)
	if !ok {
		return model.MatchResult{}, false
	}
	return model.MatchResult{Code: code, Stage: model.StageLearned, Confidence: learnedConfidence}, true
}

// PredefinedStrategy accepts canonical rotations scoring above its threshold.
type PredefinedStrategy struct {
	matcher   pattern.Matcher
	threshold float64
}

// Name implements Strategy.
func (s *PredefinedStrategy) Name() model.Stage { return model.StagePredefined }

// Evaluate implements Strategy.
func (s *PredefinedStrategy) Evaluate(_ context.Context, req Request) (model.MatchResult, bool) {
	name, score, ok := s.matcher.Match(req.Labels)
	if !ok || score <= s.threshold {
		return model.MatchResult{}, false
	}
	return model.MatchResult{Code: name, Stage: model.StagePredefined, Confidence: score}, true
}

// ClassifierStrategy accepts confident sequence classifier predictions.
// Prediction errors decline the stage.
type ClassifierStrategy struct {
	classifier SequenceClassifier
	threshold  float64
}

// Name implements Strategy.
func (s *ClassifierStrategy) Name() model.Stage { return model.StageClassifier }

// Evaluate implements Strategy.
func (s *ClassifierStrategy) Evaluate(_ context.Context, req Request) (model.MatchResult, bool) {
	if s.classifier == nil {
		return model.MatchResult{}, false
	}

	code, prob, err := s.classifier.Predict(sequence.Encode(req.Labels))
	if err != nil {
		if errors.Is(err, sequence.ErrNotTrained) {
			slog.Debug("Classifier not trained, skipping", "pattern", req.Pattern)
		} else {
			common.LogWarn(err, "Classifier prediction failed", common.Fields{"pattern": req.Pattern})
		}
		return model.MatchResult{}, false
	}
	if code == "" || prob <= s.threshold {
		return model.MatchResult{}, false
	}
	return model.MatchResult{Code: code, Stage: model.StageClassifier, Confidence: prob}, true
}

// SimilarityStrategy picks the catalog code with the best weighted score and
// accepts it when its raw similarity clears the threshold. The score folds in
// the code's learned confidence and a bonus for equal string length; the
// acceptance gate uses similarity alone.
type SimilarityStrategy struct {
	catalog   *pattern.Catalog
	store     service.PatternStore
	threshold float64
}

// Name implements Strategy.
func (s *SimilarityStrategy) Name() model.Stage { return model.StageSimilarity }

// Evaluate implements Strategy.
func (s *SimilarityStrategy) Evaluate(_ context.Context, req Request) (model.MatchResult, bool) {
	var (
		bestCode       string
		bestScore      float64
		bestSimilarity float64
	)

	for _, code := range s.catalog.Codes() {
		similarity := pattern.SemanticSimilarity(req.Pattern, code)
		score := similarity*similarityScale + float64(s.store.Confidence(code))
		if utf8.RuneCountInString(req.Pattern) == utf8.RuneCountInString(code) {
			score += lengthMatchBonus
		}
		if score > bestScore {
			bestCode, bestScore, bestSimilarity = code, score, similarity
		}
	}

	if bestCode == "" || bestSimilarity <= s.threshold {
		return model.MatchResult{}, false
	}
	return model.MatchResult{Code: bestCode, Stage: model.StageSimilarity, Confidence: bestSimilarity}, true
}

// PeriodicityStrategy synthesizes a code from the sequence's repeating unit.
type PeriodicityStrategy struct{}

// Name implements Strategy.
func (PeriodicityStrategy) Name() model.Stage { return model.StagePeriodicity }

// Evaluate implements Strategy.
func (PeriodicityStrategy) Evaluate(_ context.Context, req Request) (model.MatchResult, bool) {
	unit, ok := pattern.DetectRepeatingUnit(req.Labels)
	if !ok {
		return model.MatchResult{}, false
	}
	return model.MatchResult{
		Code:       pattern.RepeatingCode(unit),
		Stage:      model.StagePeriodicity,
		Confidence: periodicityConfident,
	}, true
}
