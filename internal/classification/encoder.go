package classification

import (
	"strings"

	"github.com/Veraticus/rota/internal/model"
)

// Encoder turns an ordered row of cells into a pattern string.
type Encoder struct {
	classifier *TokenClassifier
}

// NewEncoder creates an encoder backed by the given token classifier.
func NewEncoder(classifier *TokenClassifier) *Encoder {
	if classifier == nil {
		classifier = NewTokenClassifier(nil, nil)
	}
	return &Encoder{classifier: classifier}
}

// Encode classifies every non-empty cell in order. Empty cells are skipped,
// they do not become LabelUnknown.
func (e *Encoder) Encode(cells []string) model.EncodedRow {
	labels := make([]model.ShiftLabel, 0, len(cells))
	histogram := make(map[model.ShiftLabel]int)

	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		label := e.classifier.Classify(cell)
		labels = append(labels, label)
		histogram[label]++
	}

	return model.EncodedRow{
		Pattern:   model.JoinLabels(labels),
		Histogram: histogram,
		Labels:    labels,
	}
}

// EncodeRow encodes the cells of a row in column order.
func (e *Encoder) EncodeRow(row model.Row) model.EncodedRow {
	return e.Encode(row.Values())
}
