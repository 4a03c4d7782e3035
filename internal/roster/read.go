package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/rota/internal/common"
	"github.com/xuri/excelize/v2"
)

// ReadFile loads a roster, choosing the reader from the file extension.
func ReadFile(path string) (*Sheet, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path) //nolint:gosec // path comes from the command line
		if err != nil {
			return nil, fmt.Errorf("failed to open roster: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				slog.Warn("Failed to close roster file", "path", path, "error", cerr)
			}
		}()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, "")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadCSV parses a roster from CSV. Records may have differing lengths.
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster CSV: %w", err)
	}
	return Parse(records)
}

// ReadXLSX parses a roster from a worksheet of an XLSX workbook. An empty
// sheet name selects the first worksheet.
func ReadXLSX(path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close roster workbook", "path", path, "error", cerr)
		}
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyRoster
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: worksheet %q in %s", common.ErrNotFound, sheet, path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}

	slog.Debug("Read roster worksheet", "path", path, "sheet", sheet, "rows", len(rows))
	return Parse(rows)
}
