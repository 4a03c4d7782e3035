package pattern

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	c := NewCatalog([]string{"PAX-M", "APR-N", "PAX-M", "  ", ""})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"PAX-M", "APR-N"}, c.Codes())
	assert.True(t, c.Contains("APR-N"))
	assert.False(t, c.Contains("apr-n"))
}

func TestCatalog_Add(t *testing.T) {
	c := NewCatalog(nil)

	assert.True(t, c.Add("SEC-GEN"))
	assert.False(t, c.Add("SEC-GEN"))
	assert.False(t, c.Add(" "))
	assert.True(t, c.Add(" EK-5M1A1RD "))

	assert.Equal(t, []string{"SEC-GEN", "EK-5M1A1RD"}, c.Codes())
}

func TestCatalog_CodesIsSnapshot(t *testing.T) {
	c := NewCatalog([]string{"PAX-M"})
	codes := c.Codes()
	codes[0] = "changed"

	assert.Equal(t, []string{"PAX-M"}, c.Codes())
}

func TestCatalog_Search(t *testing.T) {
	c := NewCatalog([]string{"PAX-M", "APR-M", "PAX-A", "SEC-MORN"})

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "prefix", query: "pax", want: []string{"PAX-M", "PAX-A"}},
		{name: "substring keeps catalog order", query: "-m", want: []string{"PAX-M", "APR-M", "SEC-MORN"}},
		{name: "limit", query: "-m", limit: 2, want: []string{"PAX-M", "APR-M"}},
		{name: "prefix before substring", query: "a", want: []string{"APR-M", "PAX-M", "PAX-A"}},
		{name: "fuzzy fallback", query: "PXM", want: []string{"PAX-M"}},
		{name: "blank", query: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Search(tt.query, tt.limit))
		})
	}
}

func TestCatalog_Validate(t *testing.T) {
	c := NewCatalog([]string{"PAX-M", "APR-N"})

	result := c.Validate([]string{"PAX-M", "NEW-1", "", "APR-N", "NEW-1", "PAX-M"})

	assert.Equal(t, 3, result.Valid)
	assert.Equal(t, []string{"NEW-1"}, result.Invalid)
}

func TestCatalog_ConcurrentAdd(t *testing.T) {
	c := NewCatalog(DefaultCodes())
	base := c.Len()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Add(fmt.Sprintf("CUSTOM-%d", i%10))
			c.Search("CUSTOM", 0)
		}(i)
	}
	wg.Wait()

	require.Equal(t, base+10, c.Len())
}
