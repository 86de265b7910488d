package pivot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"consumption-heatmap/internal/model"
)

// DefaultTimestampLayout is day.month.year hour:minute:second, e.g.
// "01.03.2024 00:15:00". Single-digit day, month and hour are accepted.
const DefaultTimestampLayout = "2.1.2006 15:04:05"

func parseTimestamp(layout, raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layout, strings.TrimSpace(raw), loc)
}

// parseConsumption reads a kW value. Blank and NaN cells are missing
// readings; a decimal comma is accepted when no decimal point is present.
func parseConsumption(raw string) (model.Cell, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return model.Missing, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing, fmt.Errorf("not a number")
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return model.Missing, fmt.Errorf("not a finite number")
	}
	return model.Value(v), nil
}
