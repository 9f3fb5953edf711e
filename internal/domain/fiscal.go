package domain

import (
	"fmt"
	"time"
)

// The firm runs a July-start fiscal year: FY "25-26" covers
// 2025-07-01 through 2026-06-30.

// FiscalYearStart returns the calendar year in which the fiscal year
// containing t begins.
func FiscalYearStart(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}

// FiscalYearLabel formats the fiscal year containing t as "{yy}-{yy+1}",
// e.g. 2025-07-01 -> "25-26" and 2025-06-30 -> "24-25".
func FiscalYearLabel(t time.Time) string {
	start := FiscalYearStart(t)
	return fmt.Sprintf("%02d-%02d", start%100, (start+1)%100)
}

// FiscalMonthIndex maps a calendar month to the 1..12 fiscal month index
// (July = 1, June = 12).
func FiscalMonthIndex(m time.Month) int {
	idx := int(m) - int(time.June)
	if idx <= 0 {
		idx += 12
	}
	return idx
}

// FiscalMonthDate returns the first day of the calendar month for fiscal
// month index (1..12) within the fiscal year starting in startYear.
func FiscalMonthDate(startYear, fiscalMonth int) time.Time {
	month := time.Month(int(time.June) + fiscalMonth)
	year := startYear
	if month > time.December {
		month -= 12
		year++
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
