package portal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/normalize"
	"github.com/Tiliavir/leave-calendar/internal/parser"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

// MonthStats counts what happened while extracting one month.
type MonthStats struct {
	Cells            int
	Entries          int
	Holidays         int
	SkippedRows      int
	OverflowResolved int
	OverflowFailed   int
}

// Add accumulates o into s.
func (s *MonthStats) Add(o MonthStats) {
	s.Cells += o.Cells
	s.Entries += o.Entries
	s.Holidays += o.Holidays
	s.SkippedRows += o.SkippedRows
	s.OverflowResolved += o.OverflowResolved
	s.OverflowFailed += o.OverflowFailed
}

// MonthExtractor turns the calendar view of one month into a MonthRecord.
type MonthExtractor struct {
	b        Browser
	opts     Options
	norm     *normalize.Normalizer
	holidays []normalize.CompanyHoliday
	resolver *OverflowResolver
	log      *slog.Logger
}

// NewMonthExtractor returns an extractor working on the calendar page
// currently open in b.
func NewMonthExtractor(b Browser, opts Options, norm *normalize.Normalizer, holidays []normalize.CompanyHoliday, log *slog.Logger) *MonthExtractor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &MonthExtractor{
		b:        b,
		opts:     opts,
		norm:     norm,
		holidays: holidays,
		resolver: NewOverflowResolver(b, opts, log),
		log:      log,
	}
}

// Extract selects ym in the calendar, widens the filter to the whole
// department and reads every day cell. Only a calendar grid that cannot be
// read at all is an error.
func (x *MonthExtractor) Extract(ctx context.Context, ym timecalc.YearMonth) (model.MonthRecord, MonthStats, error) {
	log := x.log.With("month", ym.String())
	var stats MonthStats

	shown := x.selectMonth(ctx, log, ym)
	x.applyFilter(ctx, log)

	readCtx, cancel := bounded(ctx, x.opts.Timeouts.Calendar)
	html, err := x.b.OuterHTML(readCtx, x.opts.Selectors.Grid)
	cancel()
	if err != nil {
		return model.MonthRecord{}, stats, fmt.Errorf("read calendar of %s: %w", shown, err)
	}
	x.saveDebug(log, shown, html)
	cells, err := parser.ParseGrid(html)
	if err != nil {
		return model.MonthRecord{}, stats, fmt.Errorf("parse calendar of %s: %w", shown, err)
	}

	for i := range cells {
		ref := cells[i].Overflow
		if ref == nil {
			continue
		}
		res, err := x.resolver.Resolve(ctx, *ref)
		if err != nil {
			stats.OverflowFailed++
			log.Warn("overflow not resolved, keeping visible entries",
				"day", ref.Day, "visible", len(cells[i].Entries), "hidden", ref.Hidden, "error", err)
			continue
		}
		stats.OverflowResolved++
		stats.SkippedRows += res.Skipped
		cells[i].Entries = res.Entries
	}

	rec := model.MonthRecord{
		MonthRef: model.MonthRef{Month: shown.Month, Year: shown.Year, MonthName: shown.Name()},
		Holidays: []model.Holiday{},
		Leaves:   []model.LeaveRecord{},
	}
	var scraped []model.Holiday
	for _, c := range cells {
		if !timecalc.ValidDay(shown.Year, shown.Month, c.Day) {
			log.Debug("ignoring cell outside month", "day", c.Day)
			continue
		}
		stats.Cells++
		stats.SkippedRows += c.Skipped
		if c.Holiday != "" {
			scraped = append(scraped, normalize.NewHoliday(shown.Year, shown.Month, c.Day, c.Holiday))
		}
		for _, e := range c.Entries {
			rec.Leaves = append(rec.Leaves, x.norm.Record(shown.Year, shown.Month, c.Day, e.Employee, e.Code, e.Period))
		}
	}
	rec.Holidays = normalize.MergeHolidays(scraped, x.holidays, shown.Year, shown.Month)
	stats.Entries = len(rec.Leaves)
	stats.Holidays = len(rec.Holidays)

	log.Info("month extracted", "leaves", stats.Entries, "holidays", stats.Holidays,
		"skipped", stats.SkippedRows, "overflowFailed", stats.OverflowFailed)
	return rec, stats, nil
}

// selectMonth sets the month and year controls and returns the month the
// page actually displays afterwards.
func (x *MonthExtractor) selectMonth(ctx context.Context, log *slog.Logger, ym timecalc.YearMonth) timecalc.YearMonth {
	sel := x.opts.Selectors
	t := x.opts.Timeouts

	steps := []struct{ selector, value string }{
		{sel.MonthSelect, strconv.Itoa(ym.Month)},
		{sel.YearSelect, strconv.Itoa(ym.Year)},
	}
	for _, s := range steps {
		selCtx, cancel := bounded(ctx, t.Calendar)
		err := x.b.Select(selCtx, s.selector, s.value)
		cancel()
		if err != nil {
			log.Warn("could not select calendar period", "control", s.selector, "value", s.value, "error", err)
			continue
		}
		if err := settle(ctx, t.SelectSettle); err != nil {
			return ym
		}
		if err := WaitUntil(ctx, t.Calendar, t.Poll, exists(x.b, sel.Grid)); err != nil {
			log.Warn("calendar did not re-render after selection", "error", err)
		}
	}

	shown, err := x.displayed(ctx)
	if err != nil {
		log.Warn("cannot read displayed period, assuming requested", "error", err)
		return ym
	}
	if shown != ym {
		log.Warn("calendar shows a different month than requested", "shown", shown.String())
	}
	return shown
}

func (x *MonthExtractor) displayed(ctx context.Context) (timecalc.YearMonth, error) {
	ctx, cancel := bounded(ctx, x.opts.Timeouts.Calendar)
	defer cancel()
	mv, err := x.b.Value(ctx, x.opts.Selectors.MonthSelect)
	if err != nil {
		return timecalc.YearMonth{}, err
	}
	yv, err := x.b.Value(ctx, x.opts.Selectors.YearSelect)
	if err != nil {
		return timecalc.YearMonth{}, err
	}
	m, err := strconv.Atoi(strings.TrimSpace(mv))
	if err != nil || m < 1 || m > 12 {
		return timecalc.YearMonth{}, fmt.Errorf("month control holds %q", mv)
	}
	y, err := strconv.Atoi(strings.TrimSpace(yv))
	if err != nil {
		return timecalc.YearMonth{}, fmt.Errorf("year control holds %q", yv)
	}
	return timecalc.YearMonth{Year: y, Month: m}, nil
}

// applyFilter makes sure the department-wide view is enabled and applied.
func (x *MonthExtractor) applyFilter(ctx context.Context, log *slog.Logger) {
	sel := x.opts.Selectors
	t := x.opts.Timeouts

	x.enableDepartment(ctx, log)

	stepCtx, cancel := bounded(ctx, t.Calendar)
	defer cancel()
	show, err := Locate(stepCtx, x.b, sel.ShowButton)
	if err != nil {
		log.Warn("show button not found", "error", err)
		return
	}
	if err := x.b.Click(stepCtx, show.Selector); err != nil {
		log.Warn("applying calendar filter", "error", err)
		return
	}
	if err := settle(ctx, t.FilterSettle); err != nil {
		return
	}
	if err := WaitUntil(ctx, t.Calendar, t.Poll, exists(x.b, sel.Grid)); err != nil {
		log.Warn("calendar did not re-render after filter", "error", err)
	}
}

// enableDepartment ticks the department-wide checkbox when it is off.
func (x *MonthExtractor) enableDepartment(ctx context.Context, log *slog.Logger) {
	ctx, cancel := bounded(ctx, x.opts.Timeouts.Calendar)
	defer cancel()
	sel := x.opts.Selectors
	if toggle, err := Locate(ctx, x.b, sel.DepartmentToggle); err != nil {
		log.Warn("department filter not found", "error", err)
	} else if on, err := x.b.Checked(ctx, toggle.Selector); err != nil {
		log.Warn("reading department filter", "error", err)
	} else if !on {
		if err := x.b.Click(ctx, toggle.Selector); err != nil {
			log.Warn("enabling department filter", "error", err)
		}
	}
}

func (x *MonthExtractor) saveDebug(log *slog.Logger, ym timecalc.YearMonth, html string) {
	if x.opts.DebugDir == "" {
		return
	}
	if err := os.MkdirAll(x.opts.DebugDir, 0o755); err != nil {
		log.Warn("creating debug directory", "error", err)
		return
	}
	path := filepath.Join(x.opts.DebugDir, "calendar-"+ym.String()+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		log.Warn("writing debug snapshot", "error", err)
	}
}
