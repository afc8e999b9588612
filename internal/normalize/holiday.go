package normalize

import (
	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

// CompanyHoliday is a statically configured holiday the portal does not show.
type CompanyHoliday struct {
	Day   int    `yaml:"day"`
	Month int    `yaml:"month"`
	Year  int    `yaml:"year"`
	Name  string `yaml:"name"`
}

// DefaultCompanyHolidays returns the built-in company holiday list.
func DefaultCompanyHolidays() []CompanyHoliday {
	return []CompanyHoliday{
		{Day: 16, Month: 2, Year: 2026, Name: "CNY Eve (Company Holiday)"},
		{Day: 19, Month: 2, Year: 2026, Name: "CNY (Company Holiday)"},
	}
}

// NewHoliday builds a Holiday with its derived date key.
func NewHoliday(year, month, day int, name string) model.Holiday {
	return model.Holiday{
		Day:      day,
		FullDate: timecalc.FullDate(year, month, day),
		Month:    month,
		Year:     year,
		Name:     name,
	}
}

// MergeHolidays appends the static holidays falling in (year, month) to
// scraped, skipping any whose (day, month, year) is already occupied.
func MergeHolidays(scraped []model.Holiday, static []CompanyHoliday, year, month int) []model.Holiday {
	type key struct{ day, month, year int }
	seen := make(map[key]bool, len(scraped)+len(static))
	out := make([]model.Holiday, 0, len(scraped)+len(static))
	for _, h := range scraped {
		k := key{h.Day, h.Month, h.Year}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}
	for _, ch := range static {
		if ch.Year != year || ch.Month != month || !timecalc.ValidDay(ch.Year, ch.Month, ch.Day) {
			continue
		}
		k := key{ch.Day, ch.Month, ch.Year}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, NewHoliday(ch.Year, ch.Month, ch.Day, ch.Name))
	}
	return out
}
