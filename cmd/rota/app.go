package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/rota/internal/classification"
	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/config"
	"github.com/Veraticus/rota/internal/engine"
	"github.com/Veraticus/rota/internal/pattern"
	"github.com/Veraticus/rota/internal/sequence"
	"github.com/Veraticus/rota/internal/storage"
	"github.com/spf13/viper"
)

// app wires the engine and its collaborators from configuration.
type app struct {
	engine *engine.Engine
	store  *storage.LearningStore
	tokens *classification.TokenClassifier
	close  func() error
	cfg    config.Config
}

// loadApp reads the configuration from viper and builds the app.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return newApp(ctx, cfg)
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	backend, closeBackend, err := initBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	store := storage.NewLearningStore(backend)
	if err := store.Load(ctx); err != nil {
		_ = closeBackend()
		return nil, fmt.Errorf("failed to load learned patterns: %w", err)
	}

	tokens, err := newTokenClassifier(cfg)
	if err != nil {
		_ = closeBackend()
		return nil, err
	}

	codes := cfg.Catalog
	if len(codes) == 0 {
		codes = pattern.DefaultCodes()
	}
	catalog := pattern.NewCatalog(codes)

	model := sequence.NewModel(sequence.Options{
		Source:       catalog,
		Path:         cfg.Classifier.WeightsPath,
		Epochs:       cfg.Classifier.Epochs,
		LearningRate: cfg.Classifier.LearningRate,
	})
	if err := model.Load(); err != nil {
		common.LogWarn(err, "Failed to load classifier weights, continuing untrained",
			common.Fields{"path": cfg.Classifier.WeightsPath})
	}

	eng := engine.NewWithConfig(store, model, catalog, engine.Config{
		Encoder: classification.NewEncoder(tokens),
		Thresholds: engine.Thresholds{
			Predefined: cfg.Matching.PredefinedThreshold,
			Classifier: cfg.Matching.ClassifierThreshold,
			Similarity: cfg.Matching.SimilarityThreshold,
			Usage:      cfg.Matching.UsageThreshold,
			Learn:      cfg.Matching.LearnThreshold,
		},
	})

	common.LogDebug("Engine ready", common.Fields{
		"backend":            cfg.Storage.Backend,
		"codes":              catalog.Len(),
		"classifier_trained": model.Trained(),
	})

	return &app{
		cfg:    cfg,
		engine: eng,
		store:  store,
		tokens: tokens,
		close:  closeBackend,
	}, nil
}

// newTokenClassifier builds the cell classifier from the configured rest
// keywords and timing table, falling back to the built-in ones.
func newTokenClassifier(cfg config.Config) (*classification.TokenClassifier, error) {
	timings, err := classification.TimingsFromMap(cfg.Timings)
	if err != nil {
		return nil, err
	}
	var keywords []string
	if len(cfg.Keywords) > 0 {
		keywords = cfg.Keywords
	}
	return classification.NewTokenClassifier(keywords, timings), nil
}

// initBackend opens the configured storage backend. The returned function
// releases it.
func initBackend(ctx context.Context, cfg config.StorageConfig) (storage.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.NewSQLiteBackend(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, db.Close, nil
	default:
		file, err := storage.NewFileBackend(cfg.LearnedPath)
		if err != nil {
			return nil, nil, err
		}
		return file, func() error { return nil }, nil
	}
}

// Close releases the storage backend.
func (a *app) Close() {
	if err := a.close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}
