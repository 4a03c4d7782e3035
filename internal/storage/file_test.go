package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/rota/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_MissingDocument(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	snapshot, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Patterns)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
}

func TestFileBackend_WriteAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "learned.yaml")
	backend, err := NewFileBackend(path)
	require.NoError(t, err)

	want := NewSnapshot()
	want.Patterns["M-M-RD"] = "PAX-M"
	want.Confidence["PAX-M"] = 15
	want.Usage["PAX-M"] = 3
	want.Codes = []string{"CUSTOM-1"}

	require.NoError(t, backend.Write(ctx, want))
	assert.NoFileExists(t, path+".tmp")

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "M-M-RD: PAX-M")
}

func TestFileBackend_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learned.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns: [unterminated"), 0600))
	backend, err := NewFileBackend(path)
	require.NoError(t, err)

	_, err = backend.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrCorruptedStore)
}

func TestFileBackend_Validation(t *testing.T) {
	_, err := NewFileBackend(" ")
	assert.ErrorIs(t, err, ErrEmptyString)

	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "x.yaml"))
	require.NoError(t, err)
	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, backend.Write(nil, NewSnapshot()), ErrNilContext)
	assert.ErrorIs(t, backend.Write(context.Background(), nil), ErrNilParameter)
}
