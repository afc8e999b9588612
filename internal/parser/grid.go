package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Portal markup of the leave calendar grid.
const (
	GridSelector     = "#tblCalendar"
	cellSelector     = `td[valign="top"]`
	dateSelector     = "span.blacktextsmall, span.redtextsmall"
	holidaySelector  = "span.redtextsmall"
	rowSelector      = "table tr"
	nameSelector     = `td[width="70%"] span.Approvedtextsmall`
	codeSelector     = `td[width="25%"] span.Approvedtextsmall`
	approvedSelector = "span.Approvedtextsmall"
)

// ErrGridNotFound is returned when the markup has no calendar table.
var ErrGridNotFound = errors.New("calendar grid not found")

var (
	moreLink    = regexp.MustCompile(`(?i)^\+\s*(\d+)\s*more\b`)
	quotedToken = regexp.MustCompile(`\(\s*(['"])([^'"]+)['"]`)
)

// Cell is the parsed content of one day cell.
type Cell struct {
	Day      int
	Holiday  string
	Entries  []Entry
	Overflow *OverflowRef
	// Skipped counts rows that looked like entries but could not be parsed.
	Skipped int
}

// OverflowRef points at the "+N more" affordance of a truncated cell.
type OverflowRef struct {
	Day    int
	Token  string
	Hidden int
	// Attr is the anchor attribute the token was read from; Quote is the
	// quote character around it there, empty for data-token.
	Attr  string
	Quote string
}

// Selector returns a CSS selector matching the anchor the token was read
// from, or "" when there is no token.
func (r OverflowRef) Selector() string {
	if r.Token == "" || r.Attr == "" {
		return ""
	}
	if r.Quote == "" {
		return fmt.Sprintf("a[%s=%s]", r.Attr, cssString(r.Token))
	}
	return fmt.Sprintf("a[%s*=%s]", r.Attr, cssString(r.Quote+r.Token+r.Quote))
}

var cssEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func cssString(s string) string {
	return `"` + cssEscaper.Replace(s) + `"`
}

// ParseGrid parses the day cells of the calendar table in html. Cells
// without a day label are ignored; malformed rows are skipped and counted.
func ParseGrid(html string) ([]Cell, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar markup: %w", err)
	}
	table := doc.Find(GridSelector)
	if table.Length() == 0 {
		return nil, ErrGridNotFound
	}

	var cells []Cell
	table.Find(cellSelector).Each(func(_ int, s *goquery.Selection) {
		if c, ok := parseCell(s); ok {
			cells = append(cells, c)
		}
	})
	return cells, nil
}

func parseCell(s *goquery.Selection) (Cell, bool) {
	dateSpan := s.Find(dateSelector).First()
	if dateSpan.Length() == 0 {
		return Cell{}, false
	}
	day, ok := DayNumber(dateSpan.Text())
	if !ok {
		return Cell{}, false
	}

	c := Cell{Day: day}
	if h := s.Find(holidaySelector).First(); h.Length() > 0 {
		if name, ok := HolidayName(h.Text()); ok {
			c.Holiday = name
		}
	}

	s.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		name := row.Find(nameSelector).First()
		code := row.Find(codeSelector).First()
		if name.Length() > 0 && code.Length() > 0 {
			if e, ok := FromSegments(name.Text(), code.Text()); ok {
				c.Entries = append(c.Entries, e)
			} else {
				c.Skipped++
			}
			return
		}
		// Single combined segment: "NAME - CODE (AM)".
		spans := row.Find(approvedSelector)
		if spans.Length() == 0 || row.Find("table").Length() > 0 {
			return
		}
		if e, ok := ParseEntry(spans.Text()); ok {
			c.Entries = append(c.Entries, e)
		} else {
			c.Skipped++
		}
	})

	s.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		m := moreLink.FindStringSubmatch(clean(a.Text()))
		if m == nil {
			return true
		}
		hidden, _ := strconv.Atoi(m[1])
		ref := overflowRef(a)
		ref.Day, ref.Hidden = day, hidden
		c.Overflow = &ref
		return false
	})
	return c, true
}

// overflowRef extracts the first quoted argument of the affordance's
// javascript call, e.g. ShowMore('2026-01-05'), or its data-token.
func overflowRef(a *goquery.Selection) OverflowRef {
	for _, attr := range []string{"onclick", "href"} {
		v, ok := a.Attr(attr)
		if !ok {
			continue
		}
		if m := quotedToken.FindStringSubmatch(v); m != nil {
			return OverflowRef{Token: m[2], Attr: attr, Quote: m[1]}
		}
	}
	if v, ok := a.Attr("data-token"); ok && strings.TrimSpace(v) != "" {
		return OverflowRef{Token: v, Attr: "data-token"}
	}
	return OverflowRef{}
}
