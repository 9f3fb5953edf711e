package utilization

import (
	"fmt"
	"time"
)

// WeekStart returns the Monday 00:00 UTC boundary of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday date closing the week containing t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// WeekKey returns the ISO-week bucket key for t, e.g. "2025-W31".
// Weeks are Monday-aligned, matching time.Time.ISOWeek.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey returns the calendar-month bucket key for t, e.g. "2025-07".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
