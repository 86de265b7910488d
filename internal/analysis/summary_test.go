package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"consumption-heatmap/internal/model"
)

func matrix() *model.ConsumptionMatrix {
	d1 := model.Date{Year: 2024, Month: time.March, Day: 1}
	d2 := model.Date{Year: 2024, Month: time.March, Day: 2}
	return &model.ConsumptionMatrix{
		Times: []model.TimeOfDay{0, 900},
		Dates: []model.Date{d1, d2},
		Cells: [][]model.Cell{
			{model.Value(0), model.Value(4)},
			{model.Value(2), model.Missing},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(matrix())

	assert.Equal(t, 2, s.Times)
	assert.Equal(t, 2, s.Dates)
	assert.Equal(t, 4, s.Cells)
	assert.Equal(t, 3, s.Populated)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 0.0, s.MinKW)
	assert.Equal(t, 4.0, s.MaxKW)
	assert.InDelta(t, 2.0, s.MeanKW, 1e-9)
	assert.InDelta(t, 0.2, s.P05KW, 1e-9)
	assert.InDelta(t, 3.8, s.P95KW, 1e-9)
	assert.Equal(t, "2024-03-01", s.FirstDate)
	assert.Equal(t, "2024-03-02", s.LastDate)
	assert.Equal(t, "2024-03-02", s.PeakDate)
	assert.Equal(t, "00:00:00", s.PeakTime)
}

func TestSummarizeAllMissing(t *testing.T) {
	m := matrix()
	for i := range m.Cells {
		for j := range m.Cells[i] {
			m.Cells[i][j] = model.Missing
		}
	}

	s := Summarize(m)
	assert.Equal(t, 0, s.Populated)
	assert.Equal(t, 4, s.Missing)
	assert.Zero(t, s.MaxKW)

	_, _, ok := Range(m)
	assert.False(t, ok)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestRange(t *testing.T) {
	lo, hi, ok := Range(matrix())
	assert.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestPercentileSorted(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentileSorted(vals, 0))
	assert.Equal(t, 5.0, percentileSorted(vals, 1))
	assert.Equal(t, 3.0, percentileSorted(vals, 0.5))
	assert.Equal(t, 0.0, percentileSorted(nil, 0.5))
}
