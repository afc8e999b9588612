package portaltest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/parser"
	"github.com/Tiliavir/leave-calendar/internal/portal"
)

// Day describes one day cell of a rendered calendar grid.
type Day struct {
	Day     int
	Holiday string
	// Entries are "NAME - CODE" or "NAME - CODE (AM)" strings.
	Entries []string
	More    *More
}

// More renders a "+N more" affordance on a cell.
type More struct {
	Token  string
	Hidden int
	// DoubleQuoted renders the token as ShowMoreLeave(&quot;token&quot;).
	DoubleQuoted bool
}

// Grid renders the calendar table markup for days.
func Grid(days ...Day) string {
	var sb strings.Builder
	sb.WriteString(`<table id="tblCalendar"><tr>`)
	for _, d := range days {
		sb.WriteString(`<td valign="top">`)
		if d.Holiday != "" {
			fmt.Fprintf(&sb, `<span class="redtextsmall">%d&nbsp;&nbsp;%s</span>`, d.Day, d.Holiday)
		} else {
			fmt.Fprintf(&sb, `<span class="blacktextsmall">%d</span>`, d.Day)
		}
		if len(d.Entries) > 0 || d.More != nil {
			sb.WriteString("<table>")
			for _, e := range d.Entries {
				name, code := e, ""
				if i := strings.LastIndex(e, " - "); i >= 0 {
					name, code = e[:i], e[i+3:]
				}
				fmt.Fprintf(&sb, `<tr><td width="70%%"><span class="Approvedtextsmall">%s</span></td>`+
					`<td width="25%%"><span class="Approvedtextsmall"> - %s</span></td></tr>`, name, code)
			}
			if d.More != nil {
				arg := "'" + d.More.Token + "'"
				if d.More.DoubleQuoted {
					arg = "&quot;" + d.More.Token + "&quot;"
				}
				fmt.Fprintf(&sb, `<tr><td><a href="javascript:void(0)" onclick="ShowMoreLeave(%s); return false;">+%d more</a></td></tr>`,
					arg, d.More.Hidden)
			}
			sb.WriteString("</table>")
		}
		sb.WriteString("</td>")
	}
	sb.WriteString("</tr></table>")
	return sb.String()
}

// Portal simulates the HR portal's login page and leave calendar on a fake
// browser.
type Portal struct {
	*Browser
	Opts     portal.Options
	UserID   string
	Password string
	HomeURL  string
	// Calendars maps "YYYY-MM" to grid markup.
	Calendars map[string]string
	// Overflow maps a "+N more" token to the detail view text. An empty text
	// opens a detail view that never fills.
	Overflow map[string]string
	// NoDepartmentToggle removes the department checkbox from the page.
	NoDepartmentToggle bool
	// NoOverflowClose leaves the detail view without a close control.
	NoOverflowClose bool
	// Initial is the month shown when the calendar opens.
	Initial time.Time
}

// NewPortal returns a simulated portal accepting userID/password.
func NewPortal(opts portal.Options, userID, password string) *Portal {
	p := &Portal{
		Browser:   New(),
		Opts:      opts,
		UserID:    userID,
		Password:  password,
		HomeURL:   "https://portal.test/HR/Main/Home.aspx",
		Calendars: make(map[string]string),
		Overflow:  make(map[string]string),
		Initial:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	p.NavigateHook = p.navigate
	p.SelectHook = func(*Browser, string, string) { p.render() }
	return p
}

func (p *Portal) navigate(b *Browser, url string) {
	sel := p.Opts.Selectors
	b.Clear()
	b.ClickHooks = make(map[string]func(*Browser))
	switch url {
	case p.Opts.LoginURL:
		b.Set(sel.UserID[0].Selector, &Element{})
		b.Set(sel.Password[0].Selector, &Element{})
		b.Set(sel.LoginForm, &Element{})
		submit := sel.SignIn[0].Selector
		b.Set(submit, &Element{})
		b.ClickHooks[submit] = func(b *Browser) {
			if filled(b, sel.UserID, p.UserID) && filled(b, sel.Password, p.Password) {
				b.URL = p.HomeURL
				b.Clear()
			}
		}
	case p.Opts.CalendarURL:
		b.Set(sel.MonthSelect, &Element{Value: strconv.Itoa(int(p.Initial.Month())), Options: months()})
		b.Set(sel.YearSelect, &Element{Value: strconv.Itoa(p.Initial.Year())})
		if !p.NoDepartmentToggle {
			b.Set(sel.DepartmentToggle[0].Selector, &Element{Checkbox: true})
		}
		b.Set(sel.ShowButton[0].Selector, &Element{})
		p.render()
		for token, text := range p.Overflow {
			for _, link := range LinkSelectors(token) {
				b.ClickHooks[link] = func(b *Browser) {
					b.Set(sel.OverflowPanel, &Element{Text: text})
				}
			}
		}
		if !p.NoOverflowClose {
			b.Set(sel.OverflowClose[0].Selector, &Element{})
			b.ClickHooks[sel.OverflowClose[0].Selector] = func(b *Browser) {
				b.Remove(sel.OverflowPanel)
			}
		}
	}
}

// render swaps in the grid of the month the selects currently hold.
func (p *Portal) render() {
	sel := p.Opts.Selectors
	m, _ := strconv.Atoi(p.Elements[sel.MonthSelect].Value)
	y, _ := strconv.Atoi(p.Elements[sel.YearSelect].Value)
	key := fmt.Sprintf("%04d-%02d", y, m)
	html, ok := p.Calendars[key]
	if !ok {
		html = Grid()
	}
	p.Set(sel.Grid, &Element{HTML: html})
}

// LinkSelectors returns the selectors a "+N more" anchor for token rendered
// by Grid can be clicked by.
func LinkSelectors(token string) []string {
	return []string{
		parser.OverflowRef{Token: token, Attr: "onclick", Quote: "'"}.Selector(),
		parser.OverflowRef{Token: token, Attr: "onclick", Quote: `"`}.Selector(),
	}
}

func filled(b *Browser, strategies []portal.Strategy, want string) bool {
	for _, s := range strategies {
		if el, ok := b.Elements[s.Selector]; ok && el.Value == want {
			return true
		}
	}
	return false
}

// Options returns portal options pointing at the simulated portal with
// short timeouts and no settle delays.
func Options() portal.Options {
	return portal.Options{
		LoginURL:       "https://portal.test/HR/Main/Login.aspx",
		CalendarURL:    "https://portal.test/LEAVE/Leave/eLeave/ViewLeaveCalendar2.aspx",
		LoginIndicator: "login",
		Selectors:      portal.DefaultSelectors(),
		Timeouts: portal.Timeouts{
			Navigation: time.Second,
			LoginForm:  50 * time.Millisecond,
			Login:      50 * time.Millisecond,
			Calendar:   50 * time.Millisecond,
			Overflow:   50 * time.Millisecond,
			Poll:       5 * time.Millisecond,
		},
	}
}

func months() []string {
	out := make([]string, 12)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}
