package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/excipients/internal/logging"
	"github.com/nconklindev/excipients/internal/types"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	ColumnIngredient = "INGREDIENT_NAME"
	ColumnRoute      = "ROUTE"
	ColumnDosageForm = "DOSAGE_FORM"
)

// RequiredColumns must be present in the header of every input file.
var RequiredColumns = []string{ColumnIngredient, ColumnRoute, ColumnDosageForm}

// ReadFileData loads the first sheet of filePath. Cells are typed but not yet
// normalized. A failure is always a *LoadError.
func ReadFileData(filePath string) (*types.FileData, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, &LoadError{Path: filePath, Err: err}
	}

	var (
		data *types.FileData
		err  error
	)
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".csv":
		data, err = readCSVData(filePath)
	case ".xlsx", ".xlsm":
		data, err = readXLSXData(filePath)
	default:
		return nil, loadErr(filePath, "unsupported file type: %q", ext)
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Path: filePath, Err: err}
	}

	if missing := missingColumns(data.Headers); len(missing) > 0 {
		return nil, loadErr(filePath, "missing expected columns: %s", strings.Join(missing, ", "))
	}

	logging.Debug("Spreadsheet loaded",
		"file", filePath,
		"columns", len(data.Headers),
		"rows", len(data.Rows),
		"header_row", data.HeaderRow)

	return data, nil
}

func missingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

func readCSVData(filePath string) (*types.FileData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Strip a UTF-8 byte order mark so it does not end up in the first header.
	bom := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(file, bom))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	headerRowIdx := findHeaderRow(records)
	if headerRowIdx == -1 {
		return nil, fmt.Errorf("empty file")
	}

	var body [][]string
	for _, rec := range records[headerRowIdx+1:] {
		if !isBlankRow(rec) {
			body = append(body, rec)
		}
	}

	headers := headerNames(records[headerRowIdx], maxWidth(body))
	numeric := DetectNumericColumns(len(headers), body)

	rows := make([][]any, len(body))
	for i, rec := range body {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = csvCell(cell, numeric[j])
		}
		rows[i] = row
	}

	return &types.FileData{
		Headers:   headers,
		Rows:      rows,
		HeaderRow: headerRowIdx,
	}, nil
}

func csvCell(cell string, numeric bool) any {
	if cell == "" {
		return nil
	}
	if numeric && !IsMissingMarker(cell) {
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	}
	return cell
}

// IsNumeric checks if a CSV cell reads as a number
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// DetectNumericColumns marks the columns whose every non-missing cell is a
// number. Such columns load as numbers, all others as text.
func DetectNumericColumns(width int, rows [][]string) []bool {
	numeric := make([]bool, width)
	for i := range numeric {
		checked := 0
		ok := true
		for _, row := range rows {
			if i >= len(row) || IsMissingMarker(row[i]) {
				continue
			}
			if !IsNumeric(row[i]) {
				ok = false
				break
			}
			checked++
		}
		numeric[i] = ok && checked > 0
	}
	return numeric
}

func readXLSXData(filePath string) (*types.FileData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, fmt.Errorf("empty file")
	}

	cells := newCellReader(f, sheetName)

	var data [][]any
	width := 0
	for rowIdx := headerRowIdx + 1; rowIdx < len(rows); rowIdx++ {
		if isBlankRow(rows[rowIdx]) {
			continue
		}
		row := make([]any, len(rows[rowIdx]))
		for colIdx, raw := range rows[rowIdx] {
			v, err := cells.value(colIdx+1, rowIdx+1, raw)
			if err != nil {
				return nil, err
			}
			row[colIdx] = v
		}
		if len(row) > width {
			width = len(row)
		}
		data = append(data, row)
	}

	header := make([]string, len(rows[headerRowIdx]))
	for colIdx, raw := range rows[headerRowIdx] {
		v, err := cells.value(colIdx+1, headerRowIdx+1, raw)
		if err != nil {
			return nil, err
		}
		header[colIdx] = headerText(v)
	}

	return &types.FileData{
		Headers:   headerNames(header, width),
		Rows:      data,
		HeaderRow: headerRowIdx,
	}, nil
}

func headerText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(val)
	}
}

// headerNames names every column of a sheet at least width columns wide.
// Blank names become "Unnamed: <index>". A name already used by an earlier
// column gets the next free ".1", ".2", … suffix.
func headerNames(raw []string, width int) []string {
	if width < len(raw) {
		width = len(raw)
	}

	names := make([]string, width)
	for i := range names {
		if i < len(raw) && raw[i] != "" {
			names[i] = raw[i]
		} else {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	counts := make(map[string]int, width)
	for i, n := range names {
		for counts[n] > 0 {
			c := counts[n]
			counts[n] = c + 1
			n = fmt.Sprintf("%s.%d", n, c)
		}
		names[i] = n
		counts[n]++
	}
	return names
}

func maxWidth(rows [][]string) int {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// findHeaderRow returns the index of the first row with any content, or -1
// when every row is blank.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if !isBlankRow(row) {
			return i
		}
	}
	return -1
}
