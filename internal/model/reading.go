package model

import (
	"fmt"
	"time"
)

// Date is a calendar day without a clock or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TimeOfDay is the clock component of a timestamp, in seconds since midnight.
type TimeOfDay int

// TimeOfDayOf returns the clock component of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// String formats the clock as HH:MM:SS.
func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ReadingKey identifies one cell of the heatmap.
type ReadingKey struct {
	Date Date
	Time TimeOfDay
}

// NormalizedReading is one data row after the preamble has been stripped and
// the timestamp parsed.
type NormalizedReading struct {
	Timestamp   time.Time
	Consumption Cell

	// Row is the 1-based sheet row the reading came from.
	Row int
}

// Key splits the timestamp into its date and time-of-day parts.
func (r NormalizedReading) Key() ReadingKey {
	return ReadingKey{Date: DateOf(r.Timestamp), Time: TimeOfDayOf(r.Timestamp)}
}
