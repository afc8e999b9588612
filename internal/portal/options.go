package portal

import (
	"time"

	"github.com/Tiliavir/leave-calendar/internal/parser"
)

// Selectors holds the fallback chains used to find portal controls.
type Selectors struct {
	LoginForm        string
	UserID           []Strategy
	Password         []Strategy
	SignIn           []Strategy
	Grid             string
	MonthSelect      string
	YearSelect       string
	DepartmentToggle []Strategy
	ShowButton       []Strategy
	OverflowPanel    string
	OverflowClose    []Strategy
}

// DefaultSelectors returns the selectors of the portal's current markup.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginForm: `input[type="text"], input[type="password"]`,
		UserID: []Strategy{
			{Name: "text input", Selector: `input[type="text"]`},
			{Name: "name contains UserID", Selector: `input[name*="UserID"]`},
			{Name: "id contains UserID", Selector: `input[id*="UserID"]`},
			{Name: "placeholder contains User", Selector: `input[placeholder*="User"]`},
		},
		Password: []Strategy{
			{Name: "password input", Selector: `input[type="password"]`},
		},
		SignIn: Strategies(
			`input[type="submit"]`,
			`button[type="submit"]`,
			`input[value*="SIGN"]`,
			`input[value*="Sign"]`,
			`.btn-login`,
		),
		Grid:        parser.GridSelector,
		MonthSelect: "#ddlMonth",
		YearSelect:  "#ddlYear",
		DepartmentToggle: Strategies(
			`input[type="checkbox"][id*="Department"]`,
			`input[type="checkbox"]:nth-of-type(3)`,
		),
		ShowButton: Strategies(
			`input[value="Show"]`,
			`input[value*="Show"]`,
			`.btn-show`,
		),
		OverflowPanel: "#divMoreLeave",
		OverflowClose: Strategies(
			`#divMoreLeave .close`,
			`#btnCloseMore`,
			`#divMoreLeave input[value="Close"]`,
		),
	}
}

// Timeouts bounds every wait the portal performs.
type Timeouts struct {
	Navigation time.Duration
	LoginForm  time.Duration
	Login      time.Duration
	Calendar   time.Duration
	Overflow   time.Duration
	// SelectSettle and FilterSettle are fixed delays after postback
	// actions; they tolerate slow re-rendering but guarantee nothing.
	SelectSettle time.Duration
	FilterSettle time.Duration
	Poll         time.Duration
}

// DefaultTimeouts returns the built-in wait bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigation:   60 * time.Second,
		LoginForm:    15 * time.Second,
		Login:        30 * time.Second,
		Calendar:     10 * time.Second,
		Overflow:     5 * time.Second,
		SelectSettle: time.Second,
		FilterSettle: 2 * time.Second,
		Poll:         200 * time.Millisecond,
	}
}

// Options configures a portal Session.
type Options struct {
	LoginURL    string
	CalendarURL string
	// LoginIndicator is a case-insensitive substring of the login page URL.
	LoginIndicator string
	Selectors      Selectors
	Timeouts       Timeouts
	// DebugDir, when set, receives a copy of every extracted calendar page.
	DebugDir string
}
