package utils

import (
	"fmt"
	"time"
)

// ParseShortDate parses a YYYY-MM-DD date in loc.
func ParseShortDate(value string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(ShortDashDateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}

// TruncateToDay drops the clock component of t, keeping its location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateInRange reports whether the calendar date of t lies within [start, end].
// A zero start or end leaves that side open.
func DateInRange(t, start, end time.Time) bool {
	day := TruncateToDay(t)
	if !start.IsZero() && day.Before(TruncateToDay(start.In(t.Location()))) {
		return false
	}
	if !end.IsZero() && day.After(TruncateToDay(end.In(t.Location()))) {
		return false
	}
	return true
}

// WeekBounds returns the Monday and Sunday of the week containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := TruncateToDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}
