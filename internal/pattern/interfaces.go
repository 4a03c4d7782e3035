// Package pattern compares shift patterns: rotation matching, semantic
// similarity, periodicity detection, clustering and the code catalog.
package pattern

import "github.com/Veraticus/rota/internal/model"

// Ensure RotationMatcher implements Matcher interface.
var _ Matcher = (*RotationMatcher)(nil)

// Matcher finds the canonical rotation a label sequence follows.
type Matcher interface {
	// Match returns the rotation name and score, or ok=false when nothing is close enough.
	Match(sequence []model.ShiftLabel) (name string, score float64, ok bool)
}
