package pattern

import (
	"testing"

	"github.com/Veraticus/rota/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRepeatingUnit(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		wantUnit string
		wantOK   bool
	}{
		{name: "two repetitions prefer shortest unit", sequence: "M-M-RD-M-M-RD", wantUnit: "M-M-RD", wantOK: true},
		{name: "four weeks", sequence: "M-M-M-M-M-RD-RD-M-M-M-M-M-RD-RD-M-M-M-M-M-RD-RD-M-M-M-M-M-RD-RD", wantUnit: "M-M-M-M-M-RD-RD", wantOK: true},
		{name: "single week is its own unit", sequence: "M-M-RD-M-M-RD-RD", wantUnit: "M-M-RD-M-M-RD-RD", wantOK: true},
		{name: "three labels", sequence: "M-A-N", wantUnit: "M-A-N", wantOK: true},
		{name: "too short", sequence: "M-M", wantOK: false},
		{name: "irregular fortnight plus one", sequence: "M-M-M-M-M-M-M-M-M-M-M-M-M-M-A", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, ok := DetectRepeatingUnit(model.ParseLabels(tt.sequence))
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantUnit, model.JoinLabels(unit))
			} else {
				assert.Nil(t, unit)
			}
		})
	}
}

func TestDetectRepeatingUnit_ReturnsCopy(t *testing.T) {
	sequence := model.ParseLabels("N-N-RD-N-N-RD")
	unit, ok := DetectRepeatingUnit(sequence)
	require.True(t, ok)

	unit[0] = model.LabelMorning
	assert.Equal(t, model.LabelNight, sequence[0])
}

func TestRepeatingCode(t *testing.T) {
	assert.Equal(t, "Rep-M-M-RD", RepeatingCode(model.ParseLabels("M-M-RD")))
}
