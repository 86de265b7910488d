package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"consumption-heatmap/internal/model"
)

const xlsxSheet = "Heatmap"

// WriteXLSX writes the matrix to a workbook with dates across, times down and
// a Viridis-like 3-color scale over the values.
func WriteXLSX(w io.Writer, m *model.ConsumptionMatrix, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "consumption-heatmap"}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}

	header := make([]any, 0, m.Cols()+1)
	header = append(header, "Time")
	for _, d := range m.Dates {
		header = append(header, d.String())
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, t := range m.Times {
		row := make([]any, 0, m.Cols()+1)
		row = append(row, t.String())
		for _, c := range m.Cells[i] {
			if c.Valid {
				row = append(row, c.Value)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if m.Rows() > 0 && m.Cols() > 0 {
		last, err := excelize.CoordinatesToCellName(m.Cols()+1, m.Rows()+1)
		if err != nil {
			return err
		}
		err = f.SetConditionalFormat(xlsxSheet, "B2:"+last, []excelize.ConditionalFormatOptions{{
			Type:     "3_color_scale",
			Criteria: "=",
			MinType:  "min",
			MidType:  "percentile",
			MidValue: "50",
			MaxType:  "max",
			MinColor: viridis[0].c.Hex(),
			MidColor: Viridis(0.5).Hex(),
			MaxColor: viridis[len(viridis)-1].c.Hex(),
		}})
		if err != nil {
			return fmt.Errorf("conditional format: %w", err)
		}
		if err := f.SetPanes(xlsxSheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      1,
			YSplit:      1,
			TopLeftCell: "B2",
			ActivePane:  "bottomRight",
		}); err != nil {
			return fmt.Errorf("freeze panes: %w", err)
		}
	}
	if err := f.SetColWidth(xlsxSheet, "A", "A", 10); err != nil {
		return err
	}

	return f.Write(w)
}
