package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBackend(t *testing.T, dbPath string) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestSQLiteBackend_EmptyDatabase(t *testing.T) {
	backend := createTestBackend(t, MemoryDatabase)

	snapshot, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Patterns)
	assert.Empty(t, snapshot.Confidence)
	assert.Empty(t, snapshot.Codes)
}

func TestSQLiteBackend_WriteReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := createTestBackend(t, MemoryDatabase)

	first := NewSnapshot()
	first.Patterns["M-M-RD"] = "PAX-M"
	first.Patterns["N-N-RD"] = "APR-N"
	first.Confidence["PAX-M"] = 10
	first.Usage["APR-N"] = 4
	first.Codes = []string{"CUSTOM-2", "CUSTOM-1"}
	require.NoError(t, backend.Write(ctx, first))

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := NewSnapshot()
	second.Patterns["A-A-RD"] = "PAX-A"
	second.Confidence["PAX-A"] = 10
	require.NoError(t, backend.Write(ctx, second))

	got, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSQLiteBackend_Migrate(t *testing.T) {
	ctx := context.Background()
	backend := createTestBackend(t, MemoryDatabase)

	// Already at the latest version; running again is a no-op.
	require.NoError(t, backend.Migrate(ctx))

	var version int
	require.NoError(t, backend.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	for _, table := range []string{"learned_patterns", "code_stats", "catalog_codes"} {
		var count int
		require.NoError(t, backend.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count))
		assert.Equal(t, 1, count, table)
	}
}

func TestSQLiteBackend_LearningStorePersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "rota.db")

	backend, err := NewSQLiteBackend(ctx, dbPath)
	require.NoError(t, err)
	store := NewLearningStore(backend)
	require.NoError(t, store.Load(ctx))
	require.NoError(t, store.Learn(ctx, "M-M-RD-M-M-RD-RD", "Regular Morning"))
	require.NoError(t, store.Learn(ctx, "M-M-RD-M-M-RD-RD", "Regular Morning"))
	require.NoError(t, store.RecordUsage(ctx, "Regular Morning"))
	require.NoError(t, store.AddCode(ctx, "CUSTOM"))
	require.NoError(t, backend.Close())

	reopened := createTestBackend(t, dbPath)
	restored := NewLearningStore(reopened)
	require.NoError(t, restored.Load(ctx))

	code, ok := restored.Lookup("M-M-RD-M-M-RD-RD")
	require.True(t, ok)
	assert.Equal(t, "Regular Morning", code)
	assert.Equal(t, 15, restored.Confidence("Regular Morning"))
	assert.Equal(t, 1, restored.Usage("Regular Morning"))
	assert.Equal(t, []string{"CUSTOM"}, restored.Codes())
}
