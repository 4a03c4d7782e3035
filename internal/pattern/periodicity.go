package pattern

import (
	"slices"

	"github.com/Veraticus/rota/internal/model"
)

const (
	minPeriod = 3
	maxPeriod = 14
)

// DetectRepeatingUnit finds the prefix that, repeated a whole number of times,
// reproduces the sequence exactly. Periods from 3 to 14 are tried and the one
// explaining the most of the sequence (period x repetitions) wins; the
// shortest such period is kept on ties.
func DetectRepeatingUnit(sequence []model.ShiftLabel) ([]model.ShiftLabel, bool) {
	limit := min(maxPeriod, len(sequence))

	var best []model.ShiftLabel
	bestScore := 0

	for period := minPeriod; period <= limit; period++ {
		if len(sequence)%period != 0 {
			continue
		}

		unit := sequence[:period]
		repetitions := len(sequence) / period
		if !repeats(sequence, unit, repetitions) {
			continue
		}

		if score := period * repetitions; score > bestScore {
			bestScore = score
			best = unit
		}
	}

	if best == nil {
		return nil, false
	}
	return slices.Clone(best), true
}

// RepeatingCode names a synthesized pattern code for a repeating unit.
func RepeatingCode(unit []model.ShiftLabel) string {
	return "Rep-" + model.JoinLabels(unit)
}

func repeats(sequence, unit []model.ShiftLabel, repetitions int) bool {
	period := len(unit)
	for r := 1; r < repetitions; r++ {
		if !slices.Equal(sequence[r*period:(r+1)*period], unit) {
			return false
		}
	}
	return true
}
