// Package classification turns raw roster cells into shift labels and pattern strings.
package classification

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/model"
)

const (
	minutesPerDay  = 24 * 60
	morningStart   = 5 * 60
	afternoonStart = 12 * 60
	nightStart     = 17 * 60
)

var (
	clockRange   = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)
	numericRange = regexp.MustCompile(`(\d{1,4})\s*[-:]\s*(\d{1,4})`)
)

// Timing associates known exact timing strings with a shift label.
type Timing struct {
	Label  model.ShiftLabel
	Values []string
}

// TokenClassifier maps a single roster cell to a shift label.
type TokenClassifier struct {
	keywords []string
	timings  []Timing
	mu       sync.RWMutex
}

// NewTokenClassifier creates a classifier. Nil arguments select the defaults.
func NewTokenClassifier(keywords []string, timings []Timing) *TokenClassifier {
	tc := &TokenClassifier{}
	tc.Update(keywords, timings)
	return tc
}

// Update replaces the rest-day keywords and timing table.
func (tc *TokenClassifier) Update(keywords []string, timings []Timing) {
	if keywords == nil {
		keywords = DefaultRestKeywords()
	}
	if timings == nil {
		timings = DefaultTimings()
	}

	upper := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
			upper = append(upper, k)
		}
	}

	table := make([]Timing, len(timings))
	for i, t := range timings {
		values := make([]string, len(t.Values))
		for j, v := range t.Values {
			values[j] = strings.ToUpper(strings.TrimSpace(v))
		}
		table[i] = Timing{Label: t.Label, Values: values}
	}

	tc.mu.Lock()
	tc.keywords = upper
	tc.timings = table
	tc.mu.Unlock()
}

// Classify returns the shift label for a raw cell. It never fails: anything
// that cannot be interpreted is LabelUnknown.
func (tc *TokenClassifier) Classify(cell string) model.ShiftLabel {
	text := strings.ToUpper(strings.TrimSpace(cell))
	if text == "" {
		return model.LabelUnknown
	}

	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// Rest-day keywords win over any numeric content.
	for _, k := range tc.keywords {
		if strings.Contains(text, k) {
			return model.LabelRestDay
		}
	}

	for _, t := range tc.timings {
		for _, v := range t.Values {
			if v != "" && strings.Contains(text, v) {
				return t.Label
			}
		}
	}

	start, _, ok := ParseRange(text)
	if !ok {
		return model.LabelUnknown
	}
	return LabelForStart(start)
}

// ParseRange extracts a start-end time range from text and returns both ends in
// minutes since midnight. An end before the start is moved to the next day.
func ParseRange(text string) (start, end int, ok bool) {
	if m := clockRange.FindStringSubmatch(text); m != nil {
		var err error
		if start, err = clockMinutes(m[1], m[2]); err != nil {
			return 0, 0, false
		}
		if end, err = clockMinutes(m[3], m[4]); err != nil {
			return 0, 0, false
		}
	} else if m := numericRange.FindStringSubmatch(text); m != nil {
		var err error
		if start, err = compactMinutes(m[1]); err != nil {
			return 0, 0, false
		}
		if end, err = compactMinutes(m[2]); err != nil {
			return 0, 0, false
		}
	} else {
		return 0, 0, false
	}

	if end < start {
		end += minutesPerDay
	}
	return start, end, true
}

// LabelForStart classifies a shift by its start minute.
func LabelForStart(start int) model.ShiftLabel {
	switch {
	case start >= morningStart && start < afternoonStart:
		return model.LabelMorning
	case start >= afternoonStart && start < nightStart:
		return model.LabelAfternoon
	default:
		return model.LabelNight
	}
}

// compactMinutes reads an HHMM token, left-padding it with zeros to four digits.
func compactMinutes(token string) (int, error) {
	padded := strings.Repeat("0", 4-len(token)) + token
	return clockMinutes(padded[:2], padded[2:4])
}

func clockMinutes(hh, mm string) (int, error) {
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: hour %q", common.ErrInvalidInput, hh)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: minute %q", common.ErrInvalidInput, mm)
	}
	if hours > 24 || minutes > 59 {
		return 0, fmt.Errorf("%w: time %s:%s out of range", common.ErrInvalidInput, hh, mm)
	}
	return hours*60 + minutes, nil
}

// TimingsFromMap converts a label-keyed timing table (as read from config) into
// an ordered table. Keys are matched case-insensitively against M, A and N.
func TimingsFromMap(table map[string][]string) ([]Timing, error) {
	if len(table) == 0 {
		return nil, nil
	}

	byLabel := make(map[model.ShiftLabel][]string, len(table))
	for key, values := range table {
		label := model.ShiftLabel(strings.ToUpper(strings.TrimSpace(key)))
		switch label {
		case model.LabelMorning, model.LabelAfternoon, model.LabelNight:
			byLabel[label] = values
		default:
			return nil, fmt.Errorf("%w: timing label %q", common.ErrInvalidConfig, key)
		}
	}

	timings := make([]Timing, 0, len(byLabel))
	for _, label := range []model.ShiftLabel{model.LabelMorning, model.LabelAfternoon, model.LabelNight} {
		if values, ok := byLabel[label]; ok {
			timings = append(timings, Timing{Label: label, Values: values})
		}
	}
	return timings, nil
}
