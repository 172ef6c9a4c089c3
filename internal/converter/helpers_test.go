package converter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeXLSX saves rows to a new workbook, one row per sheet row starting at
// A1. nil cells are left empty.
func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeCSV(t *testing.T, content [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

var sampleHeader = []any{
	"INGREDIENT_NAME", "ROUTE", "DOSAGE_FORM", "CAS_NUMBER", "UNII",
	"POTENCY_AMOUNT", "POTENCY_UNIT",
}
