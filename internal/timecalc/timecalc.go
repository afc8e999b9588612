package timecalc

import (
	"fmt"
	"time"
)

const fullDateLayout = "2006-01-02"

// FullDate formats a day as a zero-padded "YYYY-MM-DD" key.
func FullDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseFullDate splits a "YYYY-MM-DD" key back into its parts. The date must
// exist in the calendar.
func ParseFullDate(s string) (year, month, day int, err error) {
	t, err := time.Parse(fullDateLayout, s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid full date %q: %w", s, err)
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}

// ValidDay reports whether (year, month, day) is a real calendar date.
func ValidDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= DaysInMonth(year, month)
}

// MonthWindow returns the previous, current and next month relative to t,
// in that order, rolling the year over at December/January.
func MonthWindow(t time.Time) [3]YearMonth {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	var out [3]YearMonth
	for i := range out {
		m := first.AddDate(0, i-1, 0)
		out[i] = YearMonth{Year: m.Year(), Month: int(m.Month())}
	}
	return out
}

// YearMonth identifies a month of a year.
type YearMonth struct {
	Year  int
	Month int
}

// Name returns the English month name, e.g. "January".
func (ym YearMonth) Name() string {
	return MonthName(ym.Month)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MonthName returns the English name of month 1-12, or "" if out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(year, month, day int) bool {
	wd := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
