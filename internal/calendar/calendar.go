// Package calendar converts dates to Australian fiscal-year (July start) and
// calendar-year labels and rolls monthly tables up to annual ones.
package calendar

import (
	"fmt"
	"time"
)

// FiscalYearStartMonth is the first month of the legislated fiscal year.
const FiscalYearStartMonth = time.July

// YearType selects fiscal-year or calendar-year bucketing.
type YearType string

// Supported year types.
const (
	FY YearType = "FY"
	CY YearType = "CY"
)

// ParseYearType accepts "FY"/"CY" in any case.
func ParseYearType(s string) (YearType, error) {
	switch s {
	case "FY", "fy", "Fy":
		return FY, nil
	case "CY", "cy", "Cy":
		return CY, nil
	default:
		return "", fmt.Errorf("unknown year type %q (want FY or CY)", s)
	}
}

// FiscalYear returns the fiscal year a date belongs to: July onwards counts
// toward the next calendar year.
func FiscalYear(t time.Time) int {
	if t.Month() >= FiscalYearStartMonth {
		return t.Year() + 1
	}
	return t.Year()
}

// CalendarYear returns the calendar year of t.
func CalendarYear(t time.Time) int {
	return t.Year()
}

// Year returns the fiscal or calendar year of t.
func (yt YearType) Year(t time.Time) int {
	if yt == CY {
		return CalendarYear(t)
	}
	return FiscalYear(t)
}

// Label renders a year as "FY2025" or "CY2025".
func (yt YearType) Label(year int) string {
	return fmt.Sprintf("%s%d", yt, year)
}

// Range returns the first and last day of the given fiscal or calendar year.
func (yt YearType) Range(year int) (time.Time, time.Time) {
	if yt == CY {
		return CYRange(year)
	}
	return FYRange(year)
}

// FYLabel returns the fiscal year label of t, e.g. "FY2025".
func FYLabel(t time.Time) string {
	return FY.Label(FiscalYear(t))
}

// CYLabel returns the calendar year label of t, e.g. "CY2025".
func CYLabel(t time.Time) string {
	return CY.Label(CalendarYear(t))
}

// FYRange returns 1 July of fy-1 and 30 June of fy.
func FYRange(fy int) (time.Time, time.Time) {
	start := time.Date(fy-1, FiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(fy, time.June, 30, 0, 0, 0, 0, time.UTC)
	return start, end
}

// CYRange returns 1 January and 31 December of cy.
func CYRange(cy int) (time.Time, time.Time) {
	return time.Date(cy, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(cy, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// FYStart returns 1 July of fy-1.
func FYStart(fy int) time.Time {
	start, _ := FYRange(fy)
	return start
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween lists month starts from the month of start to the month of
// end, inclusive.
func MonthsBetween(start, end time.Time) []time.Time {
	first := MonthStart(start)
	last := MonthStart(end)
	if last.Before(first) {
		return nil
	}
	var out []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}

// InRange reports whether t lies in the closed interval [start, end].
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
