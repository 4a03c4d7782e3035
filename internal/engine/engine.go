// Package engine matches shift patterns to pattern codes and learns from
// confirmed results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/rota/internal/classification"
	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/model"
	"github.com/Veraticus/rota/internal/pattern"
	"github.com/Veraticus/rota/internal/sequence"
	"github.com/Veraticus/rota/internal/service"
	"github.com/google/uuid"
)

// Thresholds are the acceptance gates of the matching chain and of the
// usage/learning decisions made after a match.
type Thresholds struct {
	Predefined float64
	Classifier float64
	Similarity float64
	Usage      float64
	Learn      float64
}

// Config holds configuration options for the engine.
type Config struct {
	Encoder    *classification.Encoder
	Rotations  []pattern.Rotation
	Thresholds Thresholds
}

// DefaultThresholds returns the default gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Predefined: 0.9,
		Classifier: 0.8,
		Similarity: 0.7,
		Usage:      0.5,
		Learn:      0.8,
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Thresholds: DefaultThresholds()}
}

// Engine runs the matching chain over encoded rows.
type Engine struct {
	store      service.PatternStore
	classifier SequenceClassifier
	catalog    *pattern.Catalog
	encoder    *classification.Encoder
	strategies []Strategy
	thresholds Thresholds
}

// New creates an engine with the default configuration.
func New(store service.PatternStore, classifier SequenceClassifier, catalog *pattern.Catalog) *Engine {
	return NewWithConfig(store, classifier, catalog, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration. The store should
// already be loaded; its custom codes are added to the catalog. A nil catalog
// starts from the built-in codes and a nil classifier disables that stage.
func NewWithConfig(store service.PatternStore, classifier SequenceClassifier, catalog *pattern.Catalog, config Config) *Engine {
	if catalog == nil {
		catalog = pattern.NewCatalog(pattern.DefaultCodes())
	}
	for _, code := range store.Codes() {
		catalog.Add(code)
	}

	encoder := config.Encoder
	if encoder == nil {
		encoder = classification.NewEncoder(nil)
	}

	t := config.Thresholds
	return &Engine{
		store:      store,
		classifier: classifier,
		catalog:    catalog,
		encoder:    encoder,
		thresholds: t,
		strategies: []Strategy{
			&LearnedStrategy{store: store},
			&PredefinedStrategy{matcher: pattern.NewRotationMatcher(config.Rotations), threshold: t.Predefined},
			&ClassifierStrategy{classifier: classifier, threshold: t.Classifier},
			&SimilarityStrategy{catalog: catalog, store: store, threshold: t.Similarity},
			PeriodicityStrategy{},
		},
	}
}

// Catalog returns the engine's code catalog.
func (e *Engine) Catalog() *pattern.Catalog {
	return e.catalog
}

// Stages returns the matching stages in evaluation order.
func (e *Engine) Stages() []model.Stage {
	stages := make([]model.Stage, len(e.strategies))
	for i, s := range e.strategies {
		stages[i] = s.Name()
	}
	return stages
}

// ClassifyRow encodes a row into its pattern string, histogram and labels.
func (e *Engine) ClassifyRow(row model.Row) model.EncodedRow {
	return e.encoder.EncodeRow(row)
}

// Match runs the matching chain and returns the first accepted result, or a
// result with StageNone when every stage declines. It does not touch the store.
func (e *Engine) Match(ctx context.Context, patternStr string, labels []model.ShiftLabel) (model.MatchResult, error) {
	if len(labels) == 0 {
		return model.NoMatch(), common.InvalidInput("cannot match an empty label sequence")
	}
	if patternStr == "" {
		patternStr = model.JoinLabels(labels)
	}

	req := Request{Pattern: patternStr, Labels: labels}
	for _, s := range e.strategies {
		if result, ok := s.Evaluate(ctx, req); ok {
			slog.Debug("Pattern matched",
				"pattern", patternStr,
				"stage", result.Stage,
				"code", result.Code,
				"confidence", result.Confidence)
			return result, nil
		}
	}

	slog.Debug("No stage matched pattern", "pattern", patternStr)
	return model.NoMatch(), nil
}

// Detect encodes and matches a row, then records the outcome: usage is
// counted above the usage gate, the pattern is learned above the learn gate,
// and anything else is marked unknown. Store write failures are logged.
func (e *Engine) Detect(ctx context.Context, row model.Row) (model.DetectionResult, error) {
	encoded := e.ClassifyRow(row)
	result := model.DetectionResult{
		RowID:   row.ID,
		Pattern: encoded.Pattern,
		Labels:  encoded.Labels,
	}

	match, err := e.Match(ctx, encoded.Pattern, encoded.Labels)
	if err != nil {
		result.Match = match
		return result, err
	}
	result.Match = match

	if !match.Matched() || match.Confidence <= e.thresholds.Usage {
		e.store.MarkUnknown(encoded.Pattern)
		result.Unknown = true
		return result, nil
	}

	if err := e.store.RecordUsage(ctx, match.Code); err != nil {
		common.LogWarn(err, "Failed to record pattern usage", common.Fields{"code": match.Code})
	}

	if match.Confidence > e.thresholds.Learn {
		if err := e.store.Learn(ctx, encoded.Pattern, match.Code); err != nil {
			common.LogWarn(err, "Failed to learn pattern", common.Fields{
				"pattern": encoded.Pattern,
				"code":    match.Code,
			})
		} else {
			result.Learned = true
		}
	}

	return result, nil
}

// DetectAll runs Detect over every row. Rows without any shift cells are
// reported as unknown. onResult, when set, is called after each row.
// Cancellation stops the run and returns the partial report with the
// context's error.
func (e *Engine) DetectAll(ctx context.Context, rows []model.Row, onResult func(model.DetectionResult)) (model.DetectionReport, error) {
	report := model.DetectionReport{
		RunID:   uuid.NewString(),
		Results: make([]model.DetectionResult, 0, len(rows)),
	}
	start := time.Now()

	slog.Info("Starting pattern detection", "run_id", report.RunID, "rows", len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := e.Detect(ctx, row)
		if err != nil {
			if !errors.Is(err, common.ErrInvalidInput) {
				return report, fmt.Errorf("failed to detect pattern for row %q: %w", row.ID, err)
			}
			slog.Debug("Row has no shift cells", "row", row.ID)
			result.Unknown = true
		}

		switch {
		case result.Unknown:
			report.Unknown++
		case result.Match.Matched():
			report.Matched++
		}
		if result.Learned {
			report.Learned++
		}

		report.Results = append(report.Results, result)
		if onResult != nil {
			onResult(result)
		}
	}

	slog.Info("Pattern detection complete",
		"run_id", report.RunID,
		"matched", report.Matched,
		"learned", report.Learned,
		"unknown", report.Unknown,
		"duration", time.Since(start))

	return report, nil
}

// Confirm records a human-confirmed classification: the code joins the
// catalog if new, the pattern is learned and the code's usage is counted.
func (e *Engine) Confirm(ctx context.Context, patternStr, code string) error {
	patternStr = strings.TrimSpace(patternStr)
	code = strings.TrimSpace(code)
	if patternStr == "" {
		return common.InvalidInput("pattern is required")
	}
	if code == "" {
		return common.InvalidInput("code is required")
	}

	if _, err := e.AddCode(ctx, code); err != nil {
		return err
	}
	if err := e.store.Learn(ctx, patternStr, code); err != nil {
		return fmt.Errorf("failed to learn pattern: %w", err)
	}
	if err := e.store.RecordUsage(ctx, code); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}

	slog.Info("Confirmed pattern", "pattern", patternStr, "code", code)
	return nil
}

// ClusterUnknowns groups the unknown patterns seen so far.
func (e *Engine) ClusterUnknowns() []model.Cluster {
	return pattern.Cluster(e.store.Unknowns())
}

// TrainClassifier trains the sequence classifier on the given examples.
func (e *Engine) TrainClassifier(ctx context.Context, examples []model.Example) error {
	if e.classifier == nil {
		return fmt.Errorf("%w: no sequence classifier configured", common.ErrMissingConfig)
	}
	if err := e.classifier.Train(ctx, examples); err != nil {
		return fmt.Errorf("failed to train classifier: %w", err)
	}
	return nil
}

// TrainFromLearned trains the classifier on every learned mapping and returns
// the number of examples used.
func (e *Engine) TrainFromLearned(ctx context.Context) (int, error) {
	mappings := e.store.Mappings()
	patterns := make([]string, 0, len(mappings))
	for p := range mappings {
		patterns = append(patterns, p)
	}
	slices.Sort(patterns)

	examples := make([]model.Example, 0, len(patterns))
	for _, p := range patterns {
		examples = append(examples, model.Example{
			Code:     mappings[p],
			Sequence: sequence.EncodePattern(p),
		})
	}

	if err := e.TrainClassifier(ctx, examples); err != nil {
		return 0, err
	}
	return len(examples), nil
}

// TrainFromRoster trains the classifier on rows labelled with their assigned
// codes. codes[i] labels rows[i]; rows whose code is empty, not in the
// catalog or whose shifts encode to nothing are skipped. It returns the
// number of examples used.
func (e *Engine) TrainFromRoster(ctx context.Context, rows []model.Row, codes []string) (int, error) {
	examples := make([]model.Example, 0, len(rows))
	for i, row := range rows {
		if i >= len(codes) {
			break
		}
		code := strings.TrimSpace(codes[i])
		if code == "" || !e.catalog.Contains(code) {
			continue
		}
		encoded := e.ClassifyRow(row)
		if len(encoded.Labels) == 0 {
			continue
		}
		examples = append(examples, model.Example{
			Code:     code,
			Sequence: sequence.Encode(encoded.Labels),
		})
	}

	slog.Info("Training classifier from roster",
		"rows", len(rows),
		"examples", len(examples))

	if err := e.TrainClassifier(ctx, examples); err != nil {
		return 0, err
	}
	return len(examples), nil
}

// AddCode adds a code to the catalog and persists it. It reports whether the
// code was new.
func (e *Engine) AddCode(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, common.InvalidInput("code is required")
	}
	if !e.catalog.Add(code) {
		return false, nil
	}
	if err := e.store.AddCode(ctx, code); err != nil {
		return true, fmt.Errorf("failed to save catalog code: %w", err)
	}
	slog.Debug("Added catalog code", "code", code)
	return true, nil
}

// SearchCodes returns catalog codes matching a partial query.
func (e *Engine) SearchCodes(query string, limit int) []string {
	return e.catalog.Search(query, limit)
}

// ValidateCodes checks assigned codes against the catalog.
func (e *Engine) ValidateCodes(assigned []string) model.CodeValidation {
	return e.catalog.Validate(assigned)
}
