package analysis

import (
	"math"
	"sort"

	"consumption-heatmap/internal/model"
)

// Summary describes a ConsumptionMatrix for the success notice and API
// response. Statistics only consider populated cells.
type Summary struct {
	Times     int `json:"times"`
	Dates     int `json:"dates"`
	Cells     int `json:"cells"`
	Populated int `json:"populated"`
	Missing   int `json:"missing"`

	// kW
	MinKW  float64 `json:"min_kw"`
	MaxKW  float64 `json:"max_kw"`
	MeanKW float64 `json:"mean_kw"`
	P05KW  float64 `json:"p05_kw"`
	P95KW  float64 `json:"p95_kw"`

	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`

	// Peak is the first cell (row-major) holding MaxKW.
	PeakDate string `json:"peak_date,omitempty"`
	PeakTime string `json:"peak_time,omitempty"`
}

func Summarize(m *model.ConsumptionMatrix) Summary {
	s := Summary{}
	if m == nil {
		return s
	}
	s.Times = m.Rows()
	s.Dates = m.Cols()
	s.Cells = s.Times * s.Dates
	if s.Dates > 0 {
		s.FirstDate = m.Dates[0].String()
		s.LastDate = m.Dates[len(m.Dates)-1].String()
	}

	vals := make([]float64, 0, s.Cells)
	sum := 0.0
	maxv := math.Inf(-1)
	minv := math.Inf(1)
	m.Each(func(t model.TimeOfDay, d model.Date, v float64) {
		vals = append(vals, v)
		sum += v
		if v > maxv {
			maxv = v
			s.PeakDate = d.String()
			s.PeakTime = t.String()
		}
		if v < minv {
			minv = v
		}
	})
	s.Populated = len(vals)
	s.Missing = s.Cells - s.Populated
	if len(vals) == 0 {
		return s
	}

	sort.Float64s(vals)
	s.MinKW = minv
	s.MaxKW = maxv
	s.MeanKW = sum / float64(len(vals))
	s.P05KW = percentileSorted(vals, 0.05)
	s.P95KW = percentileSorted(vals, 0.95)
	return s
}

// Range returns the smallest and largest populated values, or ok=false when
// the matrix has no populated cell.
func Range(m *model.ConsumptionMatrix) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	m.Each(func(_ model.TimeOfDay, _ model.Date, v float64) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	})
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
