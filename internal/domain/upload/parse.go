// Package upload parses batch files (CSV and Excel) into name/school pairs.
package upload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/linkscout/linkscout-api/internal/domain/model"
)

// MaxFileBytes is the upload ceiling. Matches the client-side limit.
const MaxFileBytes = 5 << 20

// ErrUnsupportedFormat is returned for files that are neither CSV nor Excel.
var ErrUnsupportedFormat = errors.New("please upload a CSV or Excel file")

// ErrMissingColumns is returned when the header lacks Name or School.
var ErrMissingColumns = errors.New("missing required 'Name' or 'School' column")

// ErrNoRows is returned when no data rows were found.
var ErrNoRows = errors.New("no valid rows found in file")

// ParseBatchFile extracts (name, school) pairs from an uploaded batch file.
// The format is chosen by file extension. Row count is validated against
// the file-upload batch ceiling.
func ParseBatchFile(filename string, r io.Reader) ([]model.InputName, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx", ".xls":
		return parseExcel(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseCSV(r io.Reader) ([]model.InputName, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Tolerate ragged rows; cells are resolved by header index below.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToNames(rows)
}

func parseExcel(r io.Reader) ([]model.InputName, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsToNames(rows)
}

// rowsToNames resolves the Name and School columns from the header row and
// collects data rows. An empty required cell fails the whole file so the
// user fixes it rather than silently losing entries.
func rowsToNames(rows [][]string) ([]model.InputName, error) {
	if len(rows) < 2 {
		return nil, errors.New("file must have headers and at least one data row")
	}

	nameIdx, schoolIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameIdx = i
		case "school":
			schoolIdx = i
		}
	}
	if nameIdx == -1 || schoolIdx == -1 {
		return nil, ErrMissingColumns
	}

	var out []model.InputName
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		name := cellAt(row, nameIdx)
		school := cellAt(row, schoolIdx)
		if name == "" || school == "" {
			return nil, fmt.Errorf("row %d has empty Name or School cell", i+2)
		}
		out = append(out, model.InputName{Name: name, School: school})
	}

	if len(out) == 0 {
		return nil, ErrNoRows
	}
	if len(out) > model.MaxFileBatchSize {
		return nil, fmt.Errorf(
			"maximum %d names allowed. Your file has %d",
			model.MaxFileBatchSize, len(out),
		)
	}
	return out, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
