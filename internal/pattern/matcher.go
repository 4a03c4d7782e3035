package pattern

import (
	"slices"

	"github.com/Veraticus/rota/internal/model"
)

// Rotation is a named canonical shift cycle.
type Rotation struct {
	Name string
	Unit []model.ShiftLabel
}

// DefaultRotations returns the canonical rotations, in matching order.
func DefaultRotations() []Rotation {
	m, a, n, rd := model.LabelMorning, model.LabelAfternoon, model.LabelNight, model.LabelRestDay
	return []Rotation{
		{Name: "Regular Morning", Unit: []model.ShiftLabel{m, m, m, m, m, m, rd}},
		{Name: "Regular Afternoon", Unit: []model.ShiftLabel{a, a, a, a, a, a, rd}},
		{Name: "Regular Night", Unit: []model.ShiftLabel{n, n, n, n, n, n, rd}},
		{Name: "5-2 Rotation", Unit: []model.ShiftLabel{m, m, m, m, m, rd, rd}},
		{Name: "4-3 Rotation", Unit: []model.ShiftLabel{m, m, m, m, rd, rd, rd}},
		{Name: "Mixed Rotation", Unit: []model.ShiftLabel{m, a, n, rd, m, a, n}},
		{Name: "Nights Rotation", Unit: []model.ShiftLabel{n, n, n, n, rd, rd, rd}},
	}
}

// partialFloor is the minimum windowed ratio for a rotation to be reported at all.
const partialFloor = 0.7

// RotationMatcher matches label sequences against canonical rotations.
type RotationMatcher struct {
	rotations []Rotation
}

// NewRotationMatcher creates a matcher over the given rotations, in priority order.
func NewRotationMatcher(rotations []Rotation) *RotationMatcher {
	if rotations == nil {
		rotations = DefaultRotations()
	}
	return &RotationMatcher{rotations: rotations}
}

// Match returns the best rotation for a sequence. An exact tiling scores 1;
// otherwise the best sliding-window ratio above 0.7 is reported. ok is false
// when nothing reaches the floor.
func (rm *RotationMatcher) Match(sequence []model.ShiftLabel) (name string, score float64, ok bool) {
	for _, r := range rm.rotations {
		if Tiles(sequence, r.Unit) {
			return r.Name, 1, true
		}
	}

	for _, r := range rm.rotations {
		s := WindowSimilarity(sequence, r.Unit)
		if s > score && s > partialFloor {
			name, score = r.Name, s
		}
	}
	return name, score, name != ""
}

// Tiles reports whether sequence is unit repeated a whole number of times.
func Tiles(sequence, unit []model.ShiftLabel) bool {
	if len(unit) == 0 || len(sequence) == 0 || len(sequence)%len(unit) != 0 {
		return false
	}
	for start := 0; start < len(sequence); start += len(unit) {
		if !slices.Equal(sequence[start:start+len(unit)], unit) {
			return false
		}
	}
	return true
}

// WindowSimilarity slides the shorter sequence across the longer one and
// returns the best fraction of positions that agree.
func WindowSimilarity(a, b []model.ShiftLabel) float64 {
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if len(shorter) == 0 {
		return 0
	}

	best := 0.0
	for offset := 0; offset+len(shorter) <= len(longer); offset++ {
		matches := 0
		for i, label := range shorter {
			if longer[offset+i] == label {
				matches++
			}
		}
		if s := float64(matches) / float64(len(shorter)); s > best {
			best = s
		}
	}
	return best
}
