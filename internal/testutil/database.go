// Package testutil provides test helpers for building learning stores backed
// by an in-memory SQLite database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/rota/internal/storage"
)

// Mapping is a learned pattern to seed a store with.
type Mapping struct {
	Pattern string
	Code    string
}

// TestStore is a learning store over an in-memory database.
type TestStore struct {
	Store   *storage.LearningStore
	Backend *storage.SQLiteBackend
	t       *testing.T
}

// SetupTestStore creates a migrated in-memory database, loads a learning
// store over it and learns the given mappings in order. The database is
// closed when the test ends.
//
// Example:
//
//	ts := testutil.SetupTestStore(t,
//		testutil.Mapping{Pattern: "M-M-RD", Code: "PAX-M"},
//	)
func SetupTestStore(t *testing.T, mappings ...Mapping) *TestStore {
	t.Helper()

	ctx := context.Background()
	backend, err := storage.NewSQLiteBackend(ctx, storage.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := backend.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	store := storage.NewLearningStore(backend)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("failed to load learning store: %v", err)
	}

	ts := &TestStore{Store: store, Backend: backend, t: t}
	for _, m := range mappings {
		ts.MustLearn(m.Pattern, m.Code)
	}
	return ts
}

// MustLearn learns a mapping or fails the test.
func (ts *TestStore) MustLearn(pattern, code string) {
	ts.t.Helper()
	if err := ts.Store.Learn(context.Background(), pattern, code); err != nil {
		ts.t.Fatalf("failed to learn %q -> %q: %v", pattern, code, err)
	}
}

// Reload returns a fresh store loaded from the same database, showing what
// a later process would see.
func (ts *TestStore) Reload() *storage.LearningStore {
	ts.t.Helper()
	store := storage.NewLearningStore(ts.Backend)
	if err := store.Load(context.Background()); err != nil {
		ts.t.Fatalf("failed to reload learning store: %v", err)
	}
	return store
}
