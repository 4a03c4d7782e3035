package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/rota/internal/common"
	"gopkg.in/yaml.v3"
)

// FileBackend stores snapshots as a YAML document.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for the document at path.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	return &FileBackend{path: path}, nil
}

// Path returns the document location.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the document. A missing document is an empty snapshot.
func (b *FileBackend) Load(ctx context.Context) (*Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No learned patterns file yet", "path", b.path)
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	snapshot := NewSnapshot()
	if err := yaml.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrCorruptedStore, b.path, err)
	}
	return snapshot, nil
}

// Write replaces the document atomically.
func (b *FileBackend) Write(ctx context.Context, snapshot *Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode learned patterns: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	// Write to temporary file first
	tmpPath := b.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write learned patterns: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, b.path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			slog.Error("failed to remove temporary file after rename error", "error", removeErr)
		}
		return fmt.Errorf("failed to replace learned patterns: %w", err)
	}
	return nil
}
