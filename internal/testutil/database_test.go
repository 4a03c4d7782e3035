package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestStore(t *testing.T) {
	ts := SetupTestStore(t,
		Mapping{Pattern: "M-M-RD", Code: "PAX-M"},
		Mapping{Pattern: "N-N-RD", Code: "PAX-N"},
	)

	code, ok := ts.Store.Lookup("M-M-RD")
	require.True(t, ok)
	assert.Equal(t, "PAX-M", code)

	reloaded := ts.Reload()
	assert.Equal(t, ts.Store.Mappings(), reloaded.Mappings())
	assert.Equal(t, 10, reloaded.Confidence("PAX-N"))
}

func TestSetupTestStore_Empty(t *testing.T) {
	ts := SetupTestStore(t)
	assert.Empty(t, ts.Store.Mappings())
	assert.Empty(t, ts.Reload().Mappings())
}
