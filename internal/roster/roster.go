// Package roster imports employee rosters from CSV and spreadsheet files.
package roster

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/rota/internal/common"
	"github.com/Veraticus/rota/internal/model"
)

// CodeColumn is the header of the optional column holding assigned pattern codes.
const CodeColumn = "Pattern Code"

// fallbackShiftColumns is how many columns after the first two are treated as
// shifts when no header looks like a date.
const fallbackShiftColumns = 7

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported roster format")
	// ErrEmptyRoster is returned when a file has no header row.
	ErrEmptyRoster = errors.New("roster has no header row")
)

var idHints = []string{"emp", "id", "employee", "staff"}

// Sheet is a parsed roster: the header, the columns holding shifts and one
// row per employee. Codes holds each row's assigned pattern code when the
// file has a Pattern Code column.
type Sheet struct {
	Header       []string
	ShiftColumns []string
	Rows         []model.Row
	Codes        []string
	IDColumn     string
	HasCodes     bool
}

// Parse builds a sheet from raw records, the first of which is the header.
// Blank records are skipped.
func Parse(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, ErrEmptyRoster
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if len(header) == 0 {
		return nil, ErrEmptyRoster
	}

	shiftIdx := ShiftColumns(header)
	idIdx := idColumn(header, shiftIdx)
	codeIdx := -1
	for i, h := range header {
		if strings.EqualFold(h, CodeColumn) {
			codeIdx = i
			break
		}
	}

	sheet := &Sheet{
		Header:   header,
		IDColumn: header[idIdx],
		HasCodes: codeIdx >= 0,
	}
	for _, i := range shiftIdx {
		sheet.ShiftColumns = append(sheet.ShiftColumns, header[i])
	}

	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		row := model.Row{ID: strings.ToUpper(field(record, idIdx))}
		for _, i := range shiftIdx {
			row.Cells = append(row.Cells, model.Cell{Column: header[i], Value: field(record, i)})
		}
		sheet.Rows = append(sheet.Rows, row)
		if codeIdx >= 0 {
			sheet.Codes = append(sheet.Codes, field(record, codeIdx))
		} else {
			sheet.Codes = append(sheet.Codes, "")
		}
	}

	return sheet, nil
}

// ShiftColumns returns the indexes of the columns that hold shifts: headers
// containing a date separator, or the seven columns after the first two when
// none does.
func ShiftColumns(header []string) []int {
	var idx []int
	for i, h := range header {
		if strings.ContainsAny(h, "/-") {
			idx = append(idx, i)
		}
	}
	if len(idx) > 0 {
		return idx
	}
	for i := 2; i < len(header) && i < 2+fallbackShiftColumns; i++ {
		idx = append(idx, i)
	}
	return idx
}

// idColumn returns the first non-shift column whose header names an employee
// identifier, or the first column.
func idColumn(header []string, shiftIdx []int) int {
	for i, h := range header {
		if slices.Contains(shiftIdx, i) {
			continue
		}
		lower := strings.ToLower(h)
		for _, hint := range idHints {
			if strings.Contains(lower, hint) {
				return i
			}
		}
	}
	return 0
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RestDetector classifies a single cell.
type RestDetector interface {
	Classify(cell string) model.ShiftLabel
}

// DetectRosterBegin returns the column where the employee's roster starts:
// the first working column after the first rest day. Rows with no rest day,
// or nothing but rest after it, start at their first column. Empty cells are
// skipped. A row without cells yields "".
func DetectRosterBegin(row model.Row, detector RestDetector) string {
	if len(row.Cells) == 0 {
		return ""
	}
	first := row.Cells[0].Column

	for i, c := range row.Cells {
		if c.Value == "" || detector.Classify(c.Value) != model.LabelRestDay {
			continue
		}
		for _, next := range row.Cells[i+1:] {
			if next.Value != "" && detector.Classify(next.Value) != model.LabelRestDay {
				return next.Column
			}
		}
		return first
	}
	return first
}

// Issue is a data problem found in a sheet.
type Issue struct {
	Kind  string
	Count int
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %d", i.Kind, i.Count)
}

// Issue kinds reported by Validate.
const (
	IssueMissingIDs   = "Missing Employee IDs"
	IssueEmptyPattern = "Empty Pattern Codes"
)

// Validate reports rows without an employee ID and, when the sheet carries
// assigned codes, rows whose code is empty.
func Validate(sheet *Sheet) ([]Issue, error) {
	if sheet == nil {
		return nil, common.InvalidInput("sheet is required")
	}

	var missingIDs, emptyCodes int
	for i, row := range sheet.Rows {
		if row.ID == "" {
			missingIDs++
		}
		if sheet.HasCodes && sheet.Codes[i] == "" {
			emptyCodes++
		}
	}

	var issues []Issue
	if missingIDs > 0 {
		issues = append(issues, Issue{Kind: IssueMissingIDs, Count: missingIDs})
	}
	if emptyCodes > 0 {
		issues = append(issues, Issue{Kind: IssueEmptyPattern, Count: emptyCodes})
	}
	return issues, nil
}

// AssignedCodes returns the non-empty pattern codes of the sheet in row order.
func (s *Sheet) AssignedCodes() []string {
	var codes []string
	for _, c := range s.Codes {
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
