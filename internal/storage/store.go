package storage

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/service"
)

// Ensure LearningStore implements PatternStore interface.
var _ service.PatternStore = (*LearningStore)(nil)

// SnapshotVersion is the version written by this build.
const SnapshotVersion = 1

const (
	initialConfidence   = 10
	reinforcementStep   = 5
	snapshotDescription = "learned patterns"
)

// Snapshot is the persisted state of a LearningStore.
type Snapshot struct {
	Patterns   map[string]string `yaml:"patterns"`
	Confidence map[string]int    `yaml:"confidence"`
	Usage      map[string]int    `yaml:"usage"`
	Codes      []string          `yaml:"codes,omitempty"`
	Version    int               `yaml:"version"`
}

// NewSnapshot returns an empty snapshot at the current version.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:    SnapshotVersion,
		Patterns:   make(map[string]string),
		Confidence: make(map[string]int),
		Usage:      make(map[string]int),
	}
}

// Backend persists snapshots. Write must replace the stored state atomically.
type Backend interface {
	Load(ctx context.Context) (*Snapshot, error)
	Write(ctx context.Context, snapshot *Snapshot) error
}

// LearningStore maps pattern strings to confirmed codes and tracks per-code
// counters. Every mutation is written through to the backend while the store
// lock is held and only becomes visible once the write succeeds. It is safe
// for concurrent use.
type LearningStore struct {
	backend  Backend
	state    *Snapshot
	unknowns map[string]struct{}
	order    []string
	mu       sync.RWMutex
}

// NewLearningStore creates an empty store. A nil backend keeps state in memory.
func NewLearningStore(backend Backend) *LearningStore {
	return &LearningStore{
		backend:  backend,
		state:    NewSnapshot(),
		unknowns: make(map[string]struct{}),
	}
}

// Load replaces the in-memory state with the backend's. Unreadable or invalid
// state is logged and replaced by an empty store; it is never returned.
func (s *LearningStore) Load(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if s.backend == nil {
		return nil
	}

	snapshot, err := s.backend.Load(ctx)
	if err == nil {
		err = validateSnapshot(snapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		common.LogWarn(err, "Failed to load learned patterns, starting empty", nil)
		s.state = NewSnapshot()
		return nil
	}

	s.state = normalize(snapshot)
	slog.Debug("Loaded learned patterns",
		"patterns", len(s.state.Patterns),
		"custom_codes", len(s.state.Codes))
	return nil
}

// Save writes the current state to the backend.
func (s *LearningStore) Save(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// Lookup returns the code learned for an exact pattern string.
func (s *LearningStore) Lookup(pattern string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.state.Patterns[pattern]
	return code, ok
}

// Learn records a confirmed pattern. A pattern seen for the first time is
// mapped to code and code's confidence is set to 10. A pattern that is
// already mapped keeps its existing code while code's confidence grows by 5.
func (s *LearningStore) Learn(ctx context.Context, pattern, code string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return err
	}
	if err := validateString(code, "code"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	if existing, ok := next.Patterns[pattern]; ok {
		next.Confidence[code] += reinforcementStep
		if existing != code {
			slog.Debug("Reinforced pattern under a different code",
				"pattern", pattern, "stored", existing, "code", code)
		}
	} else {
		next.Patterns[pattern] = code
		next.Confidence[code] = initialConfidence
	}

	return s.commitLocked(ctx, next)
}

// RecordUsage increments the usage counter of code.
func (s *LearningStore) RecordUsage(ctx context.Context, code string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(code, "code"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	next.Usage[code]++
	return s.commitLocked(ctx, next)
}

// AddCode persists a custom catalog code. Known codes are ignored.
func (s *LearningStore) AddCode(ctx context.Context, code string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(code, "code"); err != nil {
		return err
	}
	code = strings.TrimSpace(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.state.Codes, code) {
		return nil
	}
	next := s.copyLocked()
	next.Codes = append(next.Codes, code)
	return s.commitLocked(ctx, next)
}

// MarkUnknown remembers a pattern that no stage could match. Unknown
// patterns live only for the life of the process.
func (s *LearningStore) MarkUnknown(pattern string) {
	if pattern == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.unknowns[pattern]; ok {
		return
	}
	s.unknowns[pattern] = struct{}{}
	s.order = append(s.order, pattern)
}

// Unknowns returns unknown patterns in the order they were first seen.
func (s *LearningStore) Unknowns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Confidence returns the confidence counter of code.
func (s *LearningStore) Confidence(code string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Confidence[code]
}

// Usage returns the usage counter of code.
func (s *LearningStore) Usage(code string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Usage[code]
}

// Mappings returns a copy of all learned pattern to code mappings.
func (s *LearningStore) Mappings() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.state.Patterns)
}

// Codes returns the persisted custom catalog codes.
func (s *LearningStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Codes)
}

// Stats summarises the store.
func (s *LearningStore) Stats() service.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := service.StoreStats{
		Patterns:    len(s.state.Patterns),
		Codes:       len(s.state.Confidence),
		Unknowns:    len(s.order),
		CustomCodes: len(s.state.Codes),
	}
	for _, n := range s.state.Usage {
		stats.TotalUsage += n
	}
	return stats
}

func (s *LearningStore) persistLocked(ctx context.Context) error {
	return s.writeLocked(ctx, s.copyLocked())
}

// commitLocked writes next and makes it the live state. On a failed write
// the live state is left untouched.
func (s *LearningStore) commitLocked(ctx context.Context, next *Snapshot) error {
	if err := s.writeLocked(ctx, next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *LearningStore) writeLocked(ctx context.Context, snapshot *Snapshot) error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Write(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist %s: %w", snapshotDescription, err)
	}
	return nil
}

func (s *LearningStore) copyLocked() *Snapshot {
	return &Snapshot{
		Version:    SnapshotVersion,
		Patterns:   maps.Clone(s.state.Patterns),
		Confidence: maps.Clone(s.state.Confidence),
		Usage:      maps.Clone(s.state.Usage),
		Codes:      slices.Clone(s.state.Codes),
	}
}

// normalize fills nil maps so a sparse document loads cleanly.
func normalize(s *Snapshot) *Snapshot {
	if s.Patterns == nil {
		s.Patterns = make(map[string]string)
	}
	if s.Confidence == nil {
		s.Confidence = make(map[string]int)
	}
	if s.Usage == nil {
		s.Usage = make(map[string]int)
	}
	s.Version = SnapshotVersion
	return s
}
