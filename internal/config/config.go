package config

import (
	"fmt"

	"github.com/Veraticus/rota/internal/common"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the typed view of the rota configuration.
type Config struct {
	Timings    map[string][]string
	Storage    StorageConfig
	Logging    LoggingConfig
	Classifier ClassifierConfig
	Keywords   []string
	Catalog    []string
	Matching   MatchingConfig
}

// StorageConfig locates the learned-pattern store.
type StorageConfig struct {
	Backend      string
	LearnedPath  string
	DatabasePath string
}

// ClassifierConfig controls the sequence classifier.
type ClassifierConfig struct {
	WeightsPath  string
	Epochs       int
	LearningRate float64
}

// MatchingConfig holds the acceptance gates of the matching chain.
type MatchingConfig struct {
	PredefinedThreshold float64
	ClassifierThreshold float64
	SimilarityThreshold float64
	UsageThreshold      float64
	LearnThreshold      float64
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.learned_path", "~/.config/rota/learned_patterns.yaml")
	v.SetDefault("storage.database_path", "~/.local/share/rota/rota.db")

	v.SetDefault("classifier.weights_path", "~/.config/rota/pattern_model.json")
	v.SetDefault("classifier.epochs", 30)
	v.SetDefault("classifier.learning_rate", 0.5)

	v.SetDefault("matching.predefined_threshold", 0.9)
	v.SetDefault("matching.classifier_threshold", 0.8)
	v.SetDefault("matching.similarity_threshold", 0.7)
	v.SetDefault("matching.usage_threshold", 0.5)
	v.SetDefault("matching.learn_threshold", 0.8)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v. Defaults must already be registered.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Storage: StorageConfig{
			Backend:      v.GetString("storage.backend"),
			LearnedPath:  ExpandPath(v.GetString("storage.learned_path")),
			DatabasePath: ExpandPath(v.GetString("storage.database_path")),
		},
		Classifier: ClassifierConfig{
			WeightsPath:  ExpandPath(v.GetString("classifier.weights_path")),
			Epochs:       v.GetInt("classifier.epochs"),
			LearningRate: v.GetFloat64("classifier.learning_rate"),
		},
		Matching: MatchingConfig{
			PredefinedThreshold: v.GetFloat64("matching.predefined_threshold"),
			ClassifierThreshold: v.GetFloat64("matching.classifier_threshold"),
			SimilarityThreshold: v.GetFloat64("matching.similarity_threshold"),
			UsageThreshold:      v.GetFloat64("matching.usage_threshold"),
			LearnThreshold:      v.GetFloat64("matching.learn_threshold"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Keywords: v.GetStringSlice("shifts.rest_keywords"),
		Catalog:  v.GetStringSlice("catalog.codes"),
	}

	if timings := v.GetStringMapStringSlice("shifts.timings"); len(timings) > 0 {
		cfg.Timings = timings
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.LearnedPath == "" {
			return fmt.Errorf("%w: storage.learned_path", common.ErrMissingConfig)
		}
	case BackendSQLite:
		if c.Storage.DatabasePath == "" {
			return fmt.Errorf("%w: storage.database_path", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, c.Storage.Backend)
	}

	if c.Classifier.WeightsPath == "" {
		return fmt.Errorf("%w: classifier.weights_path", common.ErrMissingConfig)
	}
	if c.Classifier.Epochs <= 0 {
		return fmt.Errorf("%w: classifier.epochs must be positive", common.ErrInvalidConfig)
	}
	if c.Classifier.LearningRate <= 0 {
		return fmt.Errorf("%w: classifier.learning_rate must be positive", common.ErrInvalidConfig)
	}

	gates := map[string]float64{
		"matching.predefined_threshold": c.Matching.PredefinedThreshold,
		"matching.classifier_threshold": c.Matching.ClassifierThreshold,
		"matching.similarity_threshold": c.Matching.SimilarityThreshold,
		"matching.usage_threshold":      c.Matching.UsageThreshold,
		"matching.learn_threshold":      c.Matching.LearnThreshold,
	}
	for key, value := range gates {
		if value < 0 || value > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", common.ErrInvalidConfig, key, value)
		}
	}

	return nil
}
