package pattern

import (
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/rota/internal/model"
	"github.com/sahilm/fuzzy"
)

// Catalog is the ordered, append-only set of known pattern codes.
// It is safe for concurrent use.
type Catalog struct {
	index map[string]struct{}
	codes []string
	mu    sync.RWMutex
}

// NewCatalog creates a catalog seeded with codes. Blank and duplicate codes are dropped.
func NewCatalog(codes []string) *Catalog {
	c := &Catalog{index: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		c.add(code)
	}
	return c
}

// Add appends code if it is new. It reports whether the catalog changed.
func (c *Catalog) Add(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(code)
}

func (c *Catalog) add(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	if _, ok := c.index[code]; ok {
		return false
	}
	c.index[code] = struct{}{}
	c.codes = append(c.codes, code)
	return true
}

// Contains reports whether code is in the catalog.
func (c *Catalog) Contains(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[code]
	return ok
}

// Codes returns a snapshot of the catalog in insertion order.
func (c *Catalog) Codes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.codes)
}

// Len returns the number of codes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.codes)
}

// Search finds codes for a partially typed query: case-insensitive prefix
// matches first, then substring matches, then fuzzy matches by score.
// A limit of zero or less returns every match.
func (c *Catalog) Search(query string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	codes := c.Codes()
	upper := strings.ToUpper(query)

	var prefix, substring []string
	seen := make(map[string]struct{})
	for _, code := range codes {
		uc := strings.ToUpper(code)
		switch {
		case strings.HasPrefix(uc, upper):
			prefix = append(prefix, code)
		case strings.Contains(uc, upper):
			substring = append(substring, code)
		default:
			continue
		}
		seen[code] = struct{}{}
	}

	results := append(prefix, substring...)
	for _, m := range fuzzy.Find(query, codes) {
		if _, ok := seen[m.Str]; ok {
			continue
		}
		seen[m.Str] = struct{}{}
		results = append(results, m.Str)
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Validate splits assigned codes into catalog members and unknown codes.
// Blank assignments are ignored; unknown codes are reported once each.
func (c *Catalog) Validate(assigned []string) model.CodeValidation {
	var result model.CodeValidation
	seen := make(map[string]struct{})
	for _, code := range assigned {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if c.Contains(code) {
			result.Valid++
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		result.Invalid = append(result.Invalid, code)
	}
	return result
}
