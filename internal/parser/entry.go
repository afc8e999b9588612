// Package parser extracts day numbers, holiday names and leave entries from
// the text of the portal's calendar cells and overflow views.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Tiliavir/leave-calendar/internal/model"
)

// Entry is one raw leave entry as shown by the portal.
type Entry struct {
	Employee string
	Code     string
	Period   *model.Period
}

const separator = " - "

var (
	dayPrefix     = regexp.MustCompile(`^\s*(\d{1,2})`)
	holidayLabel  = regexp.MustCompile(`(?s)^\s*\d{1,2}\s+(.+?)\s*$`)
	trailingAMPM  = regexp.MustCompile(`(?i)\s*\((AM|PM)\)\s*$`)
	leadingDashes = regexp.MustCompile(`^[\s\-]+`)
)

// DayNumber returns the day of month from the leading 1-2 digits of label.
func DayNumber(label string) (int, bool) {
	m := dayPrefix.FindStringSubmatch(clean(label))
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

// HolidayName returns the text following the leading day digits of a
// holiday label such as "1   New Year's Day(SG)".
func HolidayName(label string) (string, bool) {
	m := holidayLabel.FindStringSubmatch(clean(label))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseEntry parses "NAME - CODE" or "NAME - CODE (AM|PM)". The name is
// everything before the last " - ", so codes may contain spaces and digits.
func ParseEntry(text string) (Entry, bool) {
	s := clean(text)
	period, s := splitPeriod(s)
	i := strings.LastIndex(s, separator)
	if i < 0 {
		return Entry{}, false
	}
	return build(s[:i], s[i+len(separator):], period)
}

// FromSegments adapts a grid row rendered as separate name and code
// segments. The code segment usually carries a leading " - ".
func FromSegments(name, code string) (Entry, bool) {
	period, c := splitPeriod(clean(code))
	return build(clean(name), c, period)
}

// FromLines adapts the flat text of an overflow view, one entry per line.
// Blank lines are ignored; other unparseable lines are counted as skipped.
func FromLines(text string) (entries []Entry, skipped int) {
	for _, line := range strings.Split(text, "\n") {
		if clean(line) == "" {
			continue
		}
		e, ok := ParseEntry(line)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}

func build(name, code string, period *model.Period) (Entry, bool) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(leadingDashes.ReplaceAllString(code, ""))
	if name == "" || code == "" {
		return Entry{}, false
	}
	return Entry{Employee: name, Code: code, Period: period}, true
}

func splitPeriod(s string) (*model.Period, string) {
	loc := trailingAMPM.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil, s
	}
	p := model.Period(strings.ToUpper(s[loc[2]:loc[3]]))
	return &p, strings.TrimSpace(s[:loc[0]])
}

// clean collapses runs of whitespace, including non-breaking spaces and
// line breaks, into single spaces and trims the result.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
