// Package sequence implements the trainable classifier that maps encoded
// shift sequences to pattern codes.
package sequence

import "github.com/Veraticus/rota/internal/model"

// MaxLength is the fixed length of an encoded sequence.
const MaxLength = 42

// Token values of an encoded sequence. Padding is always zero.
const (
	TokenPad = iota
	TokenMorning
	TokenAfternoon
	TokenNight
	TokenRestDay
	TokenUnknown
)

const vocabulary = TokenUnknown + 1

// Encode converts labels to a fixed-length integer sequence. Padding is
// appended; sequences longer than MaxLength keep their last MaxLength entries.
func Encode(labels []model.ShiftLabel) []int {
	raw := make([]int, len(labels))
	for i, l := range labels {
		raw[i] = token(l)
	}
	return Pad(raw)
}

// EncodePattern encodes a pattern string.
func EncodePattern(pattern string) []int {
	return Encode(model.ParseLabels(pattern))
}

// Pad normalizes an integer sequence to MaxLength. Values outside the
// vocabulary are treated as unknown.
func Pad(sequence []int) []int {
	if len(sequence) > MaxLength {
		sequence = sequence[len(sequence)-MaxLength:]
	}
	out := make([]int, MaxLength)
	for i, v := range sequence {
		if v < TokenPad || v >= vocabulary {
			v = TokenUnknown
		}
		out[i] = v
	}
	return out
}

func token(l model.ShiftLabel) int {
	switch l {
	case model.LabelMorning:
		return TokenMorning
	case model.LabelAfternoon:
		return TokenAfternoon
	case model.LabelNight:
		return TokenNight
	case model.LabelRestDay:
		return TokenRestDay
	default:
		return TokenUnknown
	}
}
