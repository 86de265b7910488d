package pivot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"consumption-heatmap/internal/model"
)

// DuplicatePolicy decides which reading wins when a (date, time-of-day) key
// occurs more than once, e.g. the repeated hour of a daylight-saving change.
type DuplicatePolicy string

const (
	KeepFirst DuplicatePolicy = "keep-first"
	KeepLast  DuplicatePolicy = "keep-last"
)

// ParseDuplicatePolicy accepts "", "keep-first" and "keep-last".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.TrimSpace(s)) {
	case "", KeepFirst:
		return KeepFirst, nil
	case KeepLast:
		return KeepLast, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want %s or %s)", s, KeepFirst, KeepLast)
	}
}

// Request carries the user's selections for one render.
type Request struct {
	Sheet             string
	TimestampColumn   string
	ConsumptionColumn string
	Title             string

	Duplicates DuplicatePolicy
}

// Options are the deployment-level knobs of the transform.
type Options struct {
	PreambleRows    int
	TimestampLayout string
	Location        *time.Location
}

// DefaultOptions matches the layout of the meter operator's export.
func DefaultOptions() Options {
	return Options{
		PreambleRows:    DefaultPreambleRows,
		TimestampLayout: DefaultTimestampLayout,
		Location:        time.UTC,
	}
}

func (o Options) withDefaults() Options {
	if o.TimestampLayout == "" {
		o.TimestampLayout = DefaultTimestampLayout
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// Transform turns a raw sheet table into a ConsumptionMatrix. It never
// mutates t and returns no matrix when any step fails.
func Transform(t *model.Table, req Request, opts Options) (*model.ConsumptionMatrix, error) {
	opts = opts.withDefaults()

	readings, err := Normalize(t, req, opts)
	if err != nil {
		return nil, err
	}
	kept := Dedupe(readings, req.Duplicates)
	return Pivot(kept)
}

// Normalize runs preamble-strip, column lookup and cell parsing. Rows whose
// timestamp cell is blank are skipped.
func Normalize(t *model.Table, req Request, opts Options) ([]model.NormalizedReading, error) {
	opts = opts.withDefaults()

	n, err := StripPreamble(t, opts.PreambleRows)
	if err != nil {
		return nil, err
	}
	tsCol, err := n.Index(req.TimestampColumn)
	if err != nil {
		return nil, err
	}
	valCol, err := n.Index(req.ConsumptionColumn)
	if err != nil {
		return nil, err
	}

	out := make([]model.NormalizedReading, 0, len(n.Rows))
	for i, row := range n.Rows {
		sheetRow := n.FirstRow + i
		rawTS := cellAt(row, tsCol)
		if strings.TrimSpace(rawTS) == "" {
			continue
		}
		ts, err := parseTimestamp(opts.TimestampLayout, rawTS, opts.Location)
		if err != nil {
			return nil, &Failure{
				Kind:  KindParse,
				Op:    fmt.Sprintf("parse %s", req.TimestampColumn),
				Row:   sheetRow,
				Value: rawTS,
				Err:   fmt.Errorf("expected day.month.year hour:minute:second"),
			}
		}
		rawVal := cellAt(row, valCol)
		val, err := parseConsumption(rawVal)
		if err != nil {
			return nil, &Failure{
				Kind:  KindParse,
				Op:    fmt.Sprintf("parse %s", req.ConsumptionColumn),
				Row:   sheetRow,
				Value: rawVal,
				Err:   err,
			}
		}
		out = append(out, model.NormalizedReading{Timestamp: ts, Consumption: val, Row: sheetRow})
	}
	return out, nil
}

// Dedupe keeps one reading per (date, time-of-day) key. Order of the result
// follows first appearance of each key.
func Dedupe(readings []model.NormalizedReading, policy DuplicatePolicy) []model.NormalizedReading {
	pos := make(map[model.ReadingKey]int, len(readings))
	out := make([]model.NormalizedReading, 0, len(readings))
	for _, r := range readings {
		k := r.Key()
		if i, seen := pos[k]; seen {
			if policy == KeepLast {
				out[i] = r
			}
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}
	return out
}

// Pivot lays deduplicated readings out as a grid. Keys absent from readings
// become missing cells.
func Pivot(readings []model.NormalizedReading) (*model.ConsumptionMatrix, error) {
	if len(readings) == 0 {
		return nil, Fail(KindPivot, "pivot", fmt.Errorf("no readings found below the header row"))
	}

	timeIdx := map[model.TimeOfDay]int{}
	dateIdx := map[model.Date]int{}
	var times []model.TimeOfDay
	var dates []model.Date
	for _, r := range readings {
		k := r.Key()
		if _, ok := timeIdx[k.Time]; !ok {
			timeIdx[k.Time] = 0
			times = append(times, k.Time)
		}
		if _, ok := dateIdx[k.Date]; !ok {
			dateIdx[k.Date] = 0
			dates = append(dates, k.Date)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i, t := range times {
		timeIdx[t] = i
	}
	for j, d := range dates {
		dateIdx[d] = j
	}

	cells := make([][]model.Cell, len(times))
	for i := range cells {
		cells[i] = make([]model.Cell, len(dates))
	}
	for _, r := range readings {
		k := r.Key()
		cells[timeIdx[k.Time]][dateIdx[k.Date]] = r.Consumption
	}

	return &model.ConsumptionMatrix{Times: times, Dates: dates, Cells: cells}, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
