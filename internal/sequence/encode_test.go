package sequence

import (
	"strings"
	"testing"

	"github.com/Veraticus/rota/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePattern(t *testing.T) {
	got := EncodePattern("M-A-N-RD-?-X")

	require.Len(t, got, MaxLength)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 5}, got[:6])
	for _, v := range got[6:] {
		assert.Equal(t, TokenPad, v)
	}
}

func TestEncode_KeepsLastEntries(t *testing.T) {
	labels := model.ParseLabels(strings.Repeat("M-", 10) + strings.TrimSuffix(strings.Repeat("N-", 42), "-"))

	got := Encode(labels)

	require.Len(t, got, MaxLength)
	for _, v := range got {
		assert.Equal(t, TokenNight, v)
	}
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, make([]int, MaxLength), Encode(nil))
}

func TestPad(t *testing.T) {
	got := Pad([]int{1, 9, -1, 4})

	require.Len(t, got, MaxLength)
	assert.Equal(t, []int{1, TokenUnknown, TokenUnknown, 4, 0}, got[:5])
}
