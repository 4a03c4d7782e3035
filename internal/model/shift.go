// Package model defines the core data types shared across the roster pattern engine.
package model

import "strings"

// ShiftLabel is the coarse classification of a single roster cell.
type ShiftLabel string

const (
	// LabelMorning is a shift starting between 05:00 and 12:00.
	LabelMorning ShiftLabel = "M"
	// LabelAfternoon is a shift starting between 12:00 and 17:00.
	LabelAfternoon ShiftLabel = "A"
	// LabelNight is a shift starting at 17:00 or later, or before 05:00.
	LabelNight ShiftLabel = "N"
	// LabelRestDay is a non-working day.
	LabelRestDay ShiftLabel = "RD"
	// LabelUnknown is a cell that could not be classified.
	LabelUnknown ShiftLabel = "?"
)

// PatternDelimiter joins shift labels into a pattern string.
const PatternDelimiter = "-"

// Labels lists every label in a stable order, used for histograms and reports.
var Labels = []ShiftLabel{LabelMorning, LabelAfternoon, LabelNight, LabelRestDay, LabelUnknown}

// String returns the label text.
func (l ShiftLabel) String() string {
	return string(l)
}

// JoinLabels builds the pattern string for a label sequence.
func JoinLabels(labels []ShiftLabel) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, PatternDelimiter)
}

// SplitPattern returns the raw parts of a pattern string.
// An empty pattern yields a single empty part, mirroring strings.Split.
func SplitPattern(pattern string) []string {
	return strings.Split(pattern, PatternDelimiter)
}

// ParseLabels converts a pattern string back to labels. Parts that are not a
// known label map to LabelUnknown.
func ParseLabels(pattern string) []ShiftLabel {
	if pattern == "" {
		return nil
	}
	parts := SplitPattern(pattern)
	labels := make([]ShiftLabel, len(parts))
	for i, p := range parts {
		switch ShiftLabel(p) {
		case LabelMorning, LabelAfternoon, LabelNight, LabelRestDay:
			labels[i] = ShiftLabel(p)
		default:
			labels[i] = LabelUnknown
		}
	}
	return labels
}
