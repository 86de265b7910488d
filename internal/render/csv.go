package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"consumption-heatmap/internal/model"
)

// WriteCSV writes the matrix as a wide table: one row per time of day, one
// column per date. Missing cells are empty.
func WriteCSV(w io.Writer, m *model.ConsumptionMatrix) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, m.Cols()+1)
	header = append(header, "time")
	for _, d := range m.Dates {
		header = append(header, d.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range m.Times {
		row := make([]string, 0, m.Cols()+1)
		row = append(row, t.String())
		for _, c := range m.Cells[i] {
			row = append(row, fmtCell(c))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtCell(c model.Cell) string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}
