// Package testutil builds spreadsheet fixtures shaped like the meter
// operator's consumption export.
package testutil

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

const (
	Sheet             = "Spotřeba"
	TimestampColumn   = "Počátek intervalu"
	ConsumptionColumn = "Celkem Činná - spotřeba[kW]"
)

// Reading is one data row of the fixture. Value may be a float64, a string
// or nil for a blank cell.
type Reading struct {
	Start string
	Value any
}

// ExportWorkbook returns .xlsx bytes with a title row, three metadata rows,
// the column header row and one row per reading. Extra sheets are added
// empty, after the data sheet.
func ExportWorkbook(t testing.TB, readings []Reading, extraSheets ...string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]any{
		{"Export průběhových dat"},
		{"EAN", "859182400000000000"},
		{"Období", "01.03.2024 - 31.03.2024"},
		{"Jednotka", "kW"},
		{TimestampColumn, "Konec intervalu", ConsumptionColumn, "Status"},
	}
	for _, r := range readings {
		rows = append(rows, []any{r.Start, "", r.Value, "OK"})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}
	for _, name := range extraSheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("add sheet %s: %v", name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// QuarterHours returns n readings every 15 minutes starting on the given day
// at midnight, with values 0.1, 0.2, ...
func QuarterHours(day string, n int) []Reading {
	out := make([]Reading, 0, n)
	for i := 0; i < n; i++ {
		m := i * 15
		out = append(out, Reading{
			Start: fmt.Sprintf("%s %02d:%02d:00", day, m/60, m%60),
			Value: float64(i+1) / 10,
		})
	}
	return out
}
