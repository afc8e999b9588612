// Package calendar answers the questions a calendar view asks of the
// stored leave data.
package calendar

import (
	"strings"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/normalize"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

// Calendar is a read-only view over an aggregate store.
type Calendar struct {
	store model.AggregateStore
	names normalize.Directory
}

// New returns a view over store. names supplies friendly names for records
// stored without one.
func New(store model.AggregateStore, names normalize.Directory) *Calendar {
	return &Calendar{store: store, names: names}
}

// ScrapedAt returns when the data was collected.
func (c *Calendar) ScrapedAt() time.Time { return c.store.ScrapedAt }

// Months returns the months covered by the data.
func (c *Calendar) Months() []model.MonthRef { return c.store.Months }

// LeavesOn returns the leaves on the calendar day of t.
func (c *Calendar) LeavesOn(t time.Time) []model.LeaveRecord {
	y, m, d := t.Date()
	var out []model.LeaveRecord
	for _, l := range c.store.Leaves {
		if l.Day == d && l.Month == int(m) && l.Year == y {
			out = append(out, l)
		}
	}
	return out
}

// HolidayOn returns the holiday on the calendar day of t, if any.
func (c *Calendar) HolidayOn(t time.Time) (model.Holiday, bool) {
	y, m, d := t.Date()
	for _, h := range c.store.Holidays {
		if h.Day == d && h.Month == int(m) && h.Year == y {
			return h, true
		}
	}
	return model.Holiday{}, false
}

// Stats summarizes one month.
type Stats struct {
	TotalLeaves     int
	UniqueEmployees int
	WorkingDays     int
}

// Stats computes the summary of (year, month) from that month's records
// only. Working days exclude weekends and the month's holidays.
func (c *Calendar) Stats(year, month int) Stats {
	var s Stats
	employees := make(map[string]bool)
	for _, l := range c.store.Leaves {
		if l.Year != year || l.Month != month {
			continue
		}
		s.TotalLeaves++
		employees[l.Employee] = true
	}
	s.UniqueEmployees = len(employees)

	holidays := make(map[int]bool)
	for _, h := range c.store.Holidays {
		if h.Year == year && h.Month == month {
			holidays[h.Day] = true
		}
	}
	for d := 1; d <= timecalc.DaysInMonth(year, month); d++ {
		if !timecalc.IsWeekend(year, month, d) && !holidays[d] {
			s.WorkingDays++
		}
	}
	return s
}

// Day is one cell of a month grid.
type Day struct {
	Date       time.Time
	OtherMonth bool
	Today      bool
	Weekend    bool
	Holiday    *model.Holiday
	Leaves     []model.LeaveRecord
}

// MonthGrid returns the weeks covering (year, month), Sunday first, padded
// with days of the adjacent months.
func (c *Calendar) MonthGrid(year, month int, today time.Time) [][]Day {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	var weeks [][]Day
	var week []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := Day{
			Date:       d,
			OtherMonth: int(d.Month()) != month,
			Today:      timecalc.SameDay(d, today),
			Weekend:    timecalc.IsWeekend(d.Year(), int(d.Month()), d.Day()),
			Leaves:     c.LeavesOn(d),
		}
		if h, ok := c.HolidayOn(d); ok {
			day.Holiday = &h
		}
		week = append(week, day)
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}

// DisplayName returns the name to show for l.
func (c *Calendar) DisplayName(l model.LeaveRecord) string {
	if l.DisplayName != "" {
		return l.DisplayName
	}
	if short, ok := c.names[l.Employee]; ok && short != "" {
		return short
	}
	return FormatName(l.Employee)
}

// FormatName shortens names of three or more words to the first word and
// the initial of the second, e.g. "MOHD ELIYAZAR BIN ISMAIL" to "MOHD E.".
func FormatName(full string) string {
	parts := strings.Fields(full)
	if len(parts) <= 2 {
		return full
	}
	r := []rune(parts[1])
	return parts[0] + " " + string(r[0]) + "."
}
