package sequence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/model"
)

// ErrNotTrained is returned by Predict before any weights exist.
var ErrNotTrained = errors.New("sequence classifier is not trained")

const (
	artifactVersion = 1
	trainingSeed    = 42

	// DefaultEpochs is the number of passes over the training set.
	DefaultEpochs = 30
	// DefaultLearningRate is the SGD step size.
	DefaultLearningRate = 0.5
)

// ClassSource supplies the codes the classifier can predict.
type ClassSource interface {
	Codes() []string
}

// Options configures a Model.
type Options struct {
	Source       ClassSource
	Path         string
	Epochs       int
	LearningRate float64
}

// Model is a softmax regression over encoded shift sequences. Classes are
// append-only; codes that appear in the source after training start with
// zero weights.
type Model struct {
	source     ClassSource
	classIndex map[string]int
	trainedAt  time.Time
	path       string
	classes    []string
	weights    [][]float64
	bias       []float64
	epochs     int
	rate       float64
	trained    bool
	mu         sync.RWMutex
	trainMu    sync.Mutex
}

type artifact struct {
	TrainedAt time.Time   `json:"trained_at"`
	Classes   []string    `json:"classes"`
	Weights   [][]float64 `json:"weights"`
	Bias      []float64   `json:"bias"`
	Version   int         `json:"version"`
	Features  int         `json:"features"`
}

// NewModel creates an untrained model. An empty Path keeps the model in memory.
func NewModel(opts Options) *Model {
	m := &Model{
		source:     opts.Source,
		path:       opts.Path,
		epochs:     opts.Epochs,
		rate:       opts.LearningRate,
		classIndex: make(map[string]int),
	}
	if m.epochs <= 0 {
		m.epochs = DefaultEpochs
	}
	if m.rate <= 0 {
		m.rate = DefaultLearningRate
	}
	m.syncClasses(nil)
	return m
}

// Classes returns the class codes in index order.
func (m *Model) Classes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.classes)
}

// Trained reports whether weights have been trained or loaded.
func (m *Model) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// Predict returns the most probable code for an encoded sequence.
func (m *Model) Predict(sequence []int) (string, float64, error) {
	m.syncClasses(nil)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained || len(m.classes) == 0 {
		return "", 0, ErrNotTrained
	}

	probs := softmax(logits(extract(Pad(sequence)), m.weights, m.bias))
	best := 0
	for c, p := range probs {
		if p > probs[best] {
			best = c
		}
	}
	return m.classes[best], probs[best], nil
}

// Train fits the model on the given examples and saves the artifact. An empty
// example set is a no-op. Concurrent calls are serialized.
func (m *Model) Train(ctx context.Context, examples []model.Example) error {
	m.trainMu.Lock()
	defer m.trainMu.Unlock()

	if len(examples) == 0 {
		slog.Debug("No training examples, skipping classifier training")
		return nil
	}

	codes := make([]string, 0, len(examples))
	for _, ex := range examples {
		if ex.Code == "" {
			return common.InvalidInput("training example without a code")
		}
		codes = append(codes, ex.Code)
	}
	m.syncClasses(codes)

	m.mu.RLock()
	classIndex := make(map[string]int, len(m.classIndex))
	for code, idx := range m.classIndex {
		classIndex[code] = idx
	}
	weights := cloneMatrix(m.weights)
	bias := slices.Clone(m.bias)
	m.mu.RUnlock()

	inputs := make([][]feature, len(examples))
	targets := make([]int, len(examples))
	for i, ex := range examples {
		inputs[i] = extract(Pad(ex.Sequence))
		targets[i] = classIndex[ex.Code]
	}

	rng := rand.New(rand.NewPCG(trainingSeed, 0))
	start := time.Now()
	var loss float64
	for epoch := range m.epochs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrTrainingFailed, err)
		}

		loss = 0
		for _, i := range rng.Perm(len(inputs)) {
			probs := softmax(logits(inputs[i], weights, bias))
			loss -= math.Log(max(probs[targets[i]], 1e-12))

			for c, p := range probs {
				grad := p
				if c == targets[i] {
					grad--
				}
				if grad == 0 {
					continue
				}
				step := m.rate * grad
				bias[c] -= step
				for _, f := range inputs[i] {
					weights[c][f.index] -= step * f.value
				}
			}
		}
		loss /= float64(len(inputs))

		slog.Debug("Classifier epoch complete", "epoch", epoch+1, "loss", loss)
	}

	m.mu.Lock()
	// Classes may have grown while training ran unlocked.
	for len(weights) < len(m.weights) {
		weights = append(weights, make([]float64, featureCount))
		bias = append(bias, 0)
	}
	m.weights = weights
	m.bias = bias
	m.trained = true
	m.trainedAt = time.Now().UTC()
	m.mu.Unlock()

	slog.Info("Trained pattern classifier",
		"examples", len(examples),
		"classes", len(weights),
		"epochs", m.epochs,
		"loss", loss,
		"duration", time.Since(start))

	return m.Save()
}

// Load reads the saved artifact. A missing artifact leaves the model untrained
// and is not an error.
func (m *Model) Load() error {
	if m.path == "" {
		return nil
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read classifier weights: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("%w: classifier weights: %w", common.ErrCorruptedStore, err)
	}
	if err := a.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.classes = nil
	m.classIndex = make(map[string]int, len(a.Classes))
	m.weights = nil
	m.bias = nil
	for i, code := range a.Classes {
		m.addClassLocked(code)
		copy(m.weights[i], a.Weights[i])
		m.bias[i] = a.Bias[i]
	}
	m.trained = true
	m.trainedAt = a.TrainedAt
	m.mu.Unlock()

	m.syncClasses(nil)
	slog.Debug("Loaded classifier weights", "path", m.path, "classes", len(a.Classes))
	return nil
}

// Save writes the artifact atomically. It is a no-op for in-memory models.
func (m *Model) Save() error {
	if m.path == "" {
		return nil
	}

	m.mu.RLock()
	a := artifact{
		Version:   artifactVersion,
		Features:  featureCount,
		TrainedAt: m.trainedAt,
		Classes:   slices.Clone(m.classes),
		Weights:   cloneMatrix(m.weights),
		Bias:      slices.Clone(m.bias),
	}
	m.mu.RUnlock()

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode classifier weights: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o750); err != nil {
		return fmt.Errorf("failed to create weights directory: %w", err)
	}

	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write classifier weights: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, m.path); err != nil {
		return fmt.Errorf("failed to replace classifier weights: %w", err)
	}
	return nil
}

// syncClasses appends codes from the source and extra that are not yet classes.
func (m *Model) syncClasses(extra []string) {
	var codes []string
	if m.source != nil {
		codes = m.source.Codes()
	}
	codes = append(codes, extra...)

	m.mu.RLock()
	missing := false
	for _, code := range codes {
		if _, ok := m.classIndex[code]; !ok && code != "" {
			missing = true
			break
		}
	}
	m.mu.RUnlock()
	if !missing {
		return
	}

	m.mu.Lock()
	for _, code := range codes {
		if code != "" {
			m.addClassLocked(code)
		}
	}
	m.mu.Unlock()
}

func (m *Model) addClassLocked(code string) {
	if _, ok := m.classIndex[code]; ok {
		return
	}
	m.classIndex[code] = len(m.classes)
	m.classes = append(m.classes, code)
	m.weights = append(m.weights, make([]float64, featureCount))
	m.bias = append(m.bias, 0)
}

func (a artifact) validate() error {
	if a.Version != artifactVersion {
		return fmt.Errorf("%w: unsupported classifier version %d", common.ErrCorruptedStore, a.Version)
	}
	if a.Features != featureCount {
		return fmt.Errorf("%w: classifier has %d features, want %d", common.ErrCorruptedStore, a.Features, featureCount)
	}
	if len(a.Weights) != len(a.Classes) || len(a.Bias) != len(a.Classes) {
		return fmt.Errorf("%w: classifier shape mismatch", common.ErrCorruptedStore)
	}
	seen := make(map[string]struct{}, len(a.Classes))
	for _, code := range a.Classes {
		if _, ok := seen[code]; ok || code == "" {
			return fmt.Errorf("%w: classifier class %q is blank or repeated", common.ErrCorruptedStore, code)
		}
		seen[code] = struct{}{}
	}
	for _, row := range a.Weights {
		if len(row) != featureCount {
			return fmt.Errorf("%w: classifier weight row has %d entries", common.ErrCorruptedStore, len(row))
		}
	}
	return nil
}

func logits(features []feature, weights [][]float64, bias []float64) []float64 {
	out := make([]float64, len(weights))
	for c, row := range weights {
		sum := bias[c]
		for _, f := range features {
			sum += row[f.index] * f.value
		}
		out[c] = sum
	}
	return out
}

func softmax(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}
	peak := slices.Max(values)
	total := 0.0
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Exp(v - peak)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = slices.Clone(row)
	}
	return out
}
