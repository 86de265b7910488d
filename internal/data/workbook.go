package data

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"consumption-heatmap/internal/model"
	"consumption-heatmap/internal/pivot"
)

// Workbook is an opened .xlsx file.
type Workbook struct {
	f *excelize.File
}

// OpenWorkbook parses spreadsheet bytes. Anything excelize cannot read is a
// file-read failure.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pivot.Fail(pivot.KindFileRead, "open workbook", err)
	}
	return &Workbook{f: f}, nil
}

// OpenWorkbookBytes is OpenWorkbook over an in-memory upload.
func OpenWorkbookBytes(raw []byte) (*Workbook, error) {
	return OpenWorkbook(bytes.NewReader(raw))
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheets lists sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.f.GetSheetList()
}

// HasSheet reports whether the workbook contains a sheet with exactly this
// name.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// Table reads one sheet. The first sheet row becomes Header; all other rows
// are returned as raw cell text, so numbers keep their stored precision
// instead of the display format.
func (w *Workbook) Table(ctx context.Context, sheet string) (*model.Table, error) {
	if !w.HasSheet(sheet) {
		return nil, &pivot.Failure{
			Kind:  pivot.KindSheetLookup,
			Op:    "find sheet",
			Value: sheet,
			Err:   fmt.Errorf("workbook has sheets: %s", strings.Join(w.Sheets(), ", ")),
		}
	}

	rows, err := w.f.Rows(sheet)
	if err != nil {
		return nil, pivot.Fail(pivot.KindFileRead, "read sheet "+sheet, err)
	}
	defer rows.Close()

	t := &model.Table{Sheet: sheet}
	first := true
	for n := 0; rows.Next(); n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, pivot.Fail(pivot.KindInternal, "read sheet "+sheet, err)
			}
		}
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, pivot.Fail(pivot.KindFileRead, "read sheet "+sheet, err)
		}
		if first {
			t.Header = cols
			first = false
			continue
		}
		t.Rows = append(t.Rows, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, pivot.Fail(pivot.KindFileRead, "read sheet "+sheet, err)
	}
	return t, nil
}

// LoadTable opens raw workbook bytes and reads one sheet.
func LoadTable(ctx context.Context, raw []byte, sheet string) (*model.Table, error) {
	wb, err := OpenWorkbookBytes(raw)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Table(ctx, sheet)
}
