package utils

import (
	"fmt"
	"time"
)

// BusinessDaysPerYear is the day-count convention used to convert between
// business-day horizons and year fractions.
const BusinessDaysPerYear = 252

// DateLayout is the canonical date format for market files and API payloads.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC. Rejects anything else.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsBusinessDay reports whether the date falls on a weekday.
// The calendar is weekend-only; exchange holidays are treated as ordinary
// missing observations by the series loader.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextBusinessDay returns the first business day strictly after the given date.
func NextBusinessDay(from time.Time) time.Time {
	next := from.AddDate(0, 0, 1)
	for !IsBusinessDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// PrevBusinessDay returns the last business day strictly before the given date.
func PrevBusinessDay(from time.Time) time.Time {
	prev := from.AddDate(0, 0, -1)
	for !IsBusinessDay(prev) {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// AddBusinessDays advances a date by n business days (n may be negative).
func AddBusinessDays(from time.Time, n int) time.Time {
	t := from
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for i := 0; i < n; i++ {
		t = t.AddDate(0, 0, step)
		for !IsBusinessDay(t) {
			t = t.AddDate(0, 0, step)
		}
	}
	return t
}

// BusinessDaysBetween counts business days in [start, end), i.e. inclusive
// of start, exclusive of end. Returns 0 when start is not before end.
func BusinessDaysBetween(start, end time.Time) int {
	count := 0
	for current := start; current.Before(end); current = current.AddDate(0, 0, 1) {
		if IsBusinessDay(current) {
			count++
		}
	}
	return count
}

// CalendarGap returns the number of business days skipped between two
// consecutive observations. 0 means adjacent business days.
func CalendarGap(prev, next time.Time) int {
	gap := BusinessDaysBetween(prev, next) - 1
	if gap < 0 {
		return 0
	}
	return gap
}

// HorizonYears converts a business-day horizon to a year fraction under the
// 252-day convention.
func HorizonYears(days int) float64 {
	return float64(days) / BusinessDaysPerYear
}
