// Package storage provides the persistence layer for learned shift patterns.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/rota/internal/common"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid learning record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %w: %s", common.ErrInvalidInput, ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot checks a loaded snapshot before it replaces in-memory state.
func validateSnapshot(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if s.Version > SnapshotVersion {
		return fmt.Errorf("%w: snapshot version %d is newer than %d", ErrInvalidRecord, s.Version, SnapshotVersion)
	}
	for pattern, code := range s.Patterns {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w: empty pattern", ErrInvalidRecord)
		}
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: empty code for pattern %q", ErrInvalidRecord, pattern)
		}
	}
	for code, n := range s.Confidence {
		if n < 0 {
			return fmt.Errorf("%w: negative confidence for %q", ErrInvalidRecord, code)
		}
	}
	for code, n := range s.Usage {
		if n < 0 {
			return fmt.Errorf("%w: negative usage for %q", ErrInvalidRecord, code)
		}
	}
	return nil
}
