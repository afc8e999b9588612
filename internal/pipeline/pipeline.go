// Package pipeline runs one end-to-end scrape: login, three months of
// calendar extraction, and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/leave-calendar/internal/config"
	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/portal"
	"github.com/Tiliavir/leave-calendar/internal/storage"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

var (
	ErrMissingCredentials = config.ErrMissingCredentials
	// ErrNoMonths is returned when every month of the window failed.
	ErrNoMonths = errors.New("no month could be extracted")
)

// Browser is a portal.Browser owning resources that must be released.
type Browser interface {
	portal.Browser
	Close() error
}

// LaunchFunc starts a fresh browser session.
type LaunchFunc func(ctx context.Context) (Browser, error)

// Result summarizes a completed run.
type Result struct {
	RunID     string
	ScrapedAt time.Time
	Months    []model.MonthRef
	Entries   int
	Holidays  int
	Stats     portal.MonthStats
}

// Pipeline scrapes the portal with the settings of one Config.
type Pipeline struct {
	cfg    *config.Config
	launch LaunchFunc
	log    *slog.Logger
	now    func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the clock that picks the month window and timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New returns a pipeline. A nil logger discards output.
func New(cfg *config.Config, launch LaunchFunc, log *slog.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Pipeline{cfg: cfg, launch: launch, log: log, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// PortalOptions derives the portal settings from cfg.
func PortalOptions(cfg *config.Config) portal.Options {
	t := cfg.Timeouts
	timeouts := portal.DefaultTimeouts()
	timeouts.Navigation = t.Navigation()
	timeouts.Login = t.Login()
	timeouts.Calendar = t.Calendar()
	timeouts.Overflow = t.Overflow()
	timeouts.SelectSettle = t.SelectSettle()
	timeouts.FilterSettle = t.FilterSettle()
	return portal.Options{
		LoginURL:       cfg.Portal.LoginURL(),
		CalendarURL:    cfg.Portal.CalendarURL(),
		LoginIndicator: cfg.Portal.LoginIndicator,
		Selectors:      portal.DefaultSelectors(),
		Timeouts:       timeouts,
		DebugDir:       cfg.Storage.DebugDir,
	}
}

// Run performs one scrape. Each month archive is written as soon as the
// month is extracted; the aggregate is written last. The browser is closed
// on every path.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := p.log.With("run", res.RunID)

	if err := p.cfg.Credentials.Validate(); err != nil {
		return res, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Run())
	defer cancel()

	b, err := p.launch(ctx)
	if err != nil {
		return res, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("closing browser", "error", err)
		}
	}()

	opts := PortalOptions(p.cfg)
	session := portal.NewSession(b, opts, log)
	log.Info("logging in", "url", opts.LoginURL)
	if err := session.Login(ctx, p.cfg.Credentials.UserID, p.cfg.Credentials.Password); err != nil {
		return res, err
	}
	if err := session.OpenCalendar(ctx); err != nil {
		return res, err
	}

	roster := p.cfg.Roster
	extractor := portal.NewMonthExtractor(b, opts, roster.Normalizer(), roster.Holidays, log)
	dataDir := p.cfg.Storage.DataDir

	var records []model.MonthRecord
	seen := make(map[timecalc.YearMonth]bool)
	for _, ym := range timecalc.MonthWindow(p.now()) {
		rec, stats, err := extractor.Extract(ctx, ym)
		if err != nil {
			if ctx.Err() != nil {
				return res, fmt.Errorf("extracting %s: %w", ym, ctx.Err())
			}
			log.Warn("month skipped", "month", ym.String(), "error", err)
			continue
		}
		shown := timecalc.YearMonth{Year: rec.Year, Month: rec.Month}
		if seen[shown] {
			log.Warn("month already extracted, skipping duplicate", "requested", ym.String(), "shown", shown.String())
			continue
		}
		seen[shown] = true

		archive := model.MonthArchive{ScrapedAt: p.now().UTC(), MonthRecord: rec}
		if err := storage.WriteMonth(dataDir, archive); err != nil {
			return res, err
		}
		records = append(records, rec)
		res.Stats.Add(stats)
	}
	if len(records) == 0 {
		return res, ErrNoMonths
	}

	store := Merge(records)
	store.ScrapedAt = p.now().UTC()
	if err := storage.WriteAggregate(dataDir, store); err != nil {
		return res, err
	}

	res.ScrapedAt = store.ScrapedAt
	res.Months = store.Months
	res.Entries = len(store.Leaves)
	res.Holidays = len(store.Holidays)
	log.Info("scrape complete", "months", len(res.Months), "leaves", res.Entries, "holidays", res.Holidays)
	return res, nil
}

// Merge combines month records into an aggregate with leaves and holidays
// sorted by date. Records on the same date keep their extraction order.
func Merge(records []model.MonthRecord) model.AggregateStore {
	store := model.AggregateStore{
		Months:   make([]model.MonthRef, 0, len(records)),
		Holidays: []model.Holiday{},
		Leaves:   []model.LeaveRecord{},
	}
	type key struct{ day, month, year int }
	seen := make(map[key]bool)
	for _, r := range records {
		store.Months = append(store.Months, r.MonthRef)
		for _, h := range r.Holidays {
			k := key{h.Day, h.Month, h.Year}
			if seen[k] {
				continue
			}
			seen[k] = true
			store.Holidays = append(store.Holidays, h)
		}
		store.Leaves = append(store.Leaves, r.Leaves...)
	}
	sort.SliceStable(store.Leaves, func(i, j int) bool {
		return store.Leaves[i].FullDate < store.Leaves[j].FullDate
	})
	sort.SliceStable(store.Holidays, func(i, j int) bool {
		return store.Holidays[i].FullDate < store.Holidays[j].FullDate
	})
	return store
}
