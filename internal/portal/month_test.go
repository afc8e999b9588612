package portal_test

import (
	"context"
	"testing"
	"time"

	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/normalize"
	"github.com/Tiliavir/leave-calendar/internal/portal"
	"github.com/Tiliavir/leave-calendar/internal/portal/portaltest"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

var january = portaltest.Grid(
	portaltest.Day{Day: 1, Holiday: "New Year's Day(SG)"},
	portaltest.Day{Day: 5, Entries: []string{"TAN WEN XIAN (ALLEN) - WFH 2 (AM)", "CHUA SIN HAI - SL"}},
	portaltest.Day{Day: 7,
		Entries: []string{"JOHN YANG JIA HAN - ANNU", "SARFARAZ ABDULLAH - NSL"},
		More:    &portaltest.More{Token: "20260107", Hidden: 3},
	},
	portaltest.Day{Day: 8, Entries: []string{"NOBODY"}},
)

const januarySeventh = `Leave Details
JOHN YANG JIA HAN - ANNU
SARFARAZ ABDULLAH - NSL
LIM YI HWEE (JOEY) - ANNU (PM)
CHUA SIN HAI - SL
LEE CHIN HAI (EDDY) - WFH`

func newExtractor(t *testing.T, p *portaltest.Portal) *portal.MonthExtractor {
	t.Helper()
	if err := portal.NewSession(p, p.Opts, nil).OpenCalendar(context.Background()); err != nil {
		t.Fatalf("OpenCalendar: %v", err)
	}
	norm := normalize.New(normalize.DefaultDirectory(), normalize.DefaultLeaveTypes())
	return portal.NewMonthExtractor(p, p.Opts, norm, normalize.DefaultCompanyHolidays(), nil)
}

func leavesOn(rec model.MonthRecord, day int) []model.LeaveRecord {
	var out []model.LeaveRecord
	for _, l := range rec.Leaves {
		if l.Day == day {
			out = append(out, l)
		}
	}
	return out
}

func TestExtractResolvesOverflow(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = january
	p.Overflow["20260107"] = januarySeventh
	x := newExtractor(t, p)

	rec, stats, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if rec.Month != 1 || rec.Year != 2026 || rec.MonthName != "January" {
		t.Errorf("month ref = %+v", rec.MonthRef)
	}
	if got := len(leavesOn(rec, 7)); got != 5 {
		t.Errorf("day 7 has %d leaves, want the 5 listed in the detail view", got)
	}
	if got := len(leavesOn(rec, 5)); got != 2 {
		t.Errorf("day 5 has %d leaves, want 2", got)
	}
	if len(rec.Leaves) != 7 {
		t.Errorf("got %d leaves, want 7", len(rec.Leaves))
	}
	if stats.OverflowResolved != 1 || stats.OverflowFailed != 0 {
		t.Errorf("overflow stats = %+v", stats)
	}
	// The "NOBODY" grid row and the "Leave Details" header of the detail view.
	if stats.SkippedRows != 2 {
		t.Errorf("skipped rows = %d, want 2", stats.SkippedRows)
	}

	allen := leavesOn(rec, 5)[0]
	if allen.Employee != "TAN WEN XIAN (ALLEN)" || allen.DisplayName != "Allen" ||
		allen.LeaveType != "WFH 2" || allen.LeaveTypeName != "Work From Home" ||
		allen.Period == nil || *allen.Period != model.PeriodAM || allen.FullDate != "2026-01-05" {
		t.Errorf("unexpected record %+v", allen)
	}

	if len(rec.Holidays) != 1 || rec.Holidays[0].Name != "New Year's Day(SG)" || rec.Holidays[0].FullDate != "2026-01-01" {
		t.Errorf("holidays = %+v", rec.Holidays)
	}

	if on, _ := p.Checked(context.Background(), p.Opts.Selectors.DepartmentToggle[0].Selector); !on {
		t.Error("department filter was not enabled")
	}
	if p.Called("Click "+p.Opts.Selectors.ShowButton[0].Selector) != 1 {
		t.Error("show button was not clicked")
	}
	if ok, _ := p.Exists(context.Background(), p.Opts.Selectors.OverflowPanel); ok {
		t.Error("detail view left open")
	}
}

func TestExtractKeepsVisibleEntriesWhenOverflowFails(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = january
	x := newExtractor(t, p)

	rec, stats, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := len(leavesOn(rec, 7)); got != 2 {
		t.Errorf("day 7 has %d leaves, want the 2 visible ones", got)
	}
	if stats.OverflowFailed != 1 || stats.OverflowResolved != 0 {
		t.Errorf("overflow stats = %+v", stats)
	}
}

func TestExtractWithoutFilterControls(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = january
	p.NoDepartmentToggle = true
	navigate := p.NavigateHook
	p.NavigateHook = func(b *portaltest.Browser, url string) {
		navigate(b, url)
		b.Remove(p.Opts.Selectors.ShowButton[0].Selector)
	}
	x := newExtractor(t, p)

	rec, _, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rec.Leaves) == 0 {
		t.Error("no leaves extracted without filter controls")
	}
}

func TestExtractMergesCompanyHolidays(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-02"] = portaltest.Grid(
		portaltest.Day{Day: 16, Holiday: "Chinese New Year Eve"},
		portaltest.Day{Day: 17, Holiday: "Chinese New Year"},
		portaltest.Day{Day: 19},
	)
	x := newExtractor(t, p)

	rec, _, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 2})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := map[int]string{
		16: "Chinese New Year Eve",
		17: "Chinese New Year",
		19: "CNY (Company Holiday)",
	}
	if len(rec.Holidays) != len(want) {
		t.Fatalf("got %d holidays, want %d: %+v", len(rec.Holidays), len(want), rec.Holidays)
	}
	for _, h := range rec.Holidays {
		if want[h.Day] != h.Name {
			t.Errorf("holiday on %d = %q, want %q", h.Day, h.Name, want[h.Day])
		}
	}
}

func TestExtractLabelsDisplayedMonth(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = january
	navigate := p.NavigateHook
	p.NavigateHook = func(b *portaltest.Browser, url string) {
		navigate(b, url)
		if el, ok := b.Elements[p.Opts.Selectors.MonthSelect]; ok {
			el.Options = []string{"1"}
		}
	}
	x := newExtractor(t, p)

	rec, _, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 3})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Month != 1 || rec.Year != 2026 {
		t.Errorf("record labelled %d/%d, want the displayed 1/2026", rec.Month, rec.Year)
	}
	for _, l := range rec.Leaves {
		if l.Month != 1 {
			t.Errorf("leave %+v not labelled with displayed month", l)
		}
	}
}

func TestExtractSurvivesMissingPeriodControls(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = january
	p.Overflow["20260107"] = januarySeventh
	navigate := p.NavigateHook
	p.NavigateHook = func(b *portaltest.Browser, url string) {
		navigate(b, url)
		b.Remove(p.Opts.Selectors.MonthSelect)
		b.Remove(p.Opts.Selectors.YearSelect)
	}
	x := newExtractor(t, p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec, _, err := x.Extract(ctx, timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("missing period controls used up the caller's deadline")
	}
	if rec.Month != 1 || rec.Year != 2026 {
		t.Errorf("record labelled %d/%d, want the requested 1/2026", rec.Month, rec.Year)
	}
	if len(rec.Leaves) != 7 {
		t.Errorf("got %d leaves, want 7", len(rec.Leaves))
	}
}

func TestExtractMissingOverflowLinkOnlyFailsThatDay(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = january
	x := newExtractor(t, p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec, stats, err := x.Extract(ctx, timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("unresolvable overflow link used up the caller's deadline")
	}
	if stats.OverflowFailed != 1 || len(rec.Leaves) != 4 {
		t.Errorf("stats = %+v, leaves = %d", stats, len(rec.Leaves))
	}
}

// twoOverflows has a resolvable day 7 and a day 9 whose detail view never
// shows its own entries.
var twoOverflows = portaltest.Grid(
	portaltest.Day{Day: 7,
		Entries: []string{"JOHN YANG JIA HAN - ANNU", "SARFARAZ ABDULLAH - NSL"},
		More:    &portaltest.More{Token: "20260107", Hidden: 3},
	},
	portaltest.Day{Day: 9,
		Entries: []string{"TAN WEN XIAN (ALLEN) - WFH"},
		More:    &portaltest.More{Token: "20260109", Hidden: 4},
	},
)

func TestExtractDoesNotReuseOpenDetailView(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = twoOverflows
	p.Overflow["20260107"] = januarySeventh
	p.NoOverflowClose = true
	x := newExtractor(t, p)

	rec, stats, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if stats.OverflowResolved != 1 || stats.OverflowFailed != 1 {
		t.Errorf("overflow stats = %+v", stats)
	}
	if got := len(leavesOn(rec, 7)); got != 5 {
		t.Errorf("day 7 has %d leaves, want 5", got)
	}
	day9 := leavesOn(rec, 9)
	if len(day9) != 1 || day9[0].Employee != "TAN WEN XIAN (ALLEN)" {
		t.Errorf("day 9 = %+v, want only its visible entry", day9)
	}
}

func TestExtractDetailViewNeverFills(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = twoOverflows
	p.Overflow["20260107"] = januarySeventh
	p.Overflow["20260109"] = ""
	x := newExtractor(t, p)

	rec, stats, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if stats.OverflowResolved != 1 || stats.OverflowFailed != 1 {
		t.Errorf("overflow stats = %+v", stats)
	}
	if got := len(leavesOn(rec, 9)); got != 1 {
		t.Errorf("day 9 has %d leaves, want its 1 visible entry", got)
	}
	if ok, _ := p.Exists(context.Background(), p.Opts.Selectors.OverflowPanel); ok {
		t.Error("empty detail view left open")
	}
}

func TestExtractResolvesDoubleQuotedOverflow(t *testing.T) {
	p := portaltest.NewPortal(portaltest.Options(), "alice", "s3cret")
	p.Calendars["2026-01"] = portaltest.Grid(portaltest.Day{Day: 7,
		Entries: []string{"JOHN YANG JIA HAN - ANNU"},
		More:    &portaltest.More{Token: "20260107", Hidden: 4, DoubleQuoted: true},
	})
	p.Overflow["20260107"] = januarySeventh
	x := newExtractor(t, p)

	rec, stats, err := x.Extract(context.Background(), timecalc.YearMonth{Year: 2026, Month: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if stats.OverflowResolved != 1 || len(leavesOn(rec, 7)) != 5 {
		t.Errorf("stats = %+v, day 7 leaves = %d", stats, len(leavesOn(rec, 7)))
	}
}
