package model

import (
	"encoding/json"
	"strconv"
)

// Cell is a consumption value that may be missing.
// A missing cell is never the same thing as a zero reading.
type Cell struct {
	Value float64
	Valid bool
}

// Value returns a populated cell.
func Value(v float64) Cell { return Cell{Value: v, Valid: true} }

// Missing is the "no data" cell.
var Missing = Cell{}

// MarshalJSON encodes a missing cell as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(c.Value, 'g', -1, 64)), nil
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Value(v)
	return nil
}

// ConsumptionMatrix is the time-of-day x date grid feeding the heatmap.
// Cells[i][j] holds the reading at Times[i] on Dates[j].
type ConsumptionMatrix struct {
	Times []TimeOfDay `json:"times"`
	Dates []Date      `json:"dates"`
	Cells [][]Cell    `json:"cells"`
}

// Rows returns the number of distinct times of day.
func (m *ConsumptionMatrix) Rows() int { return len(m.Times) }

// Cols returns the number of distinct dates.
func (m *ConsumptionMatrix) Cols() int { return len(m.Dates) }

// At returns the cell for the given key, or Missing when the key is not part
// of the grid.
func (m *ConsumptionMatrix) At(d Date, t TimeOfDay) Cell {
	i := -1
	for k, v := range m.Times {
		if v == t {
			i = k
			break
		}
	}
	if i < 0 {
		return Missing
	}
	for j, v := range m.Dates {
		if v == d {
			return m.Cells[i][j]
		}
	}
	return Missing
}

// Each calls fn for every populated cell in row-major order.
func (m *ConsumptionMatrix) Each(fn func(t TimeOfDay, d Date, v float64)) {
	for i, row := range m.Cells {
		for j, c := range row {
			if c.Valid {
				fn(m.Times[i], m.Dates[j], c.Value)
			}
		}
	}
}
