package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Tiliavir/leave-calendar/internal/parser"
)

var (
	// ErrNoOverflowToken means the affordance carried nothing to click by.
	ErrNoOverflowToken = errors.New("overflow affordance has no lookup token")
	// ErrOverflowEmpty means the detail view opened but listed no entries.
	ErrOverflowEmpty = errors.New("overflow detail view has no entries")
	// ErrDetailViewOpen means a detail view from an earlier day could not be
	// closed, so a new one cannot be told apart from it.
	ErrDetailViewOpen = errors.New("previous detail view still open")
)

// Resolution is the outcome of one overflow lookup.
type Resolution struct {
	Entries []parser.Entry
	// Skipped counts detail view lines that are not entries.
	Skipped int
}

// OverflowResolver reads the complete entry list of a truncated day cell
// from the portal's detail view.
type OverflowResolver struct {
	b    Browser
	opts Options
	log  *slog.Logger
}

// NewOverflowResolver returns a resolver that drives b.
func NewOverflowResolver(b Browser, opts Options, log *slog.Logger) *OverflowResolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &OverflowResolver{b: b, opts: opts, log: log}
}

// Resolve opens the detail view for ref and returns every entry it lists.
// The view must be closed beforehand; it is closed again before returning,
// whatever the outcome.
func (r *OverflowResolver) Resolve(ctx context.Context, ref parser.OverflowRef) (Resolution, error) {
	link := ref.Selector()
	if link == "" {
		return Resolution{}, ErrNoOverflowToken
	}
	t := r.opts.Timeouts
	panel := r.opts.Selectors.OverflowPanel

	if err := r.ensureClosed(ctx); err != nil {
		return Resolution{}, fmt.Errorf("day %d: %w", ref.Day, err)
	}

	clickCtx, cancel := bounded(ctx, t.Overflow)
	err := r.b.Click(clickCtx, link)
	cancel()
	if err != nil {
		return Resolution{}, fmt.Errorf("open detail view for day %d: %w", ref.Day, err)
	}
	defer func() {
		if err := r.close(ctx); err != nil {
			r.log.Warn("detail view not closed", "day", ref.Day, "error", err)
		}
	}()

	var text string
	err = WaitUntil(ctx, t.Overflow, t.Poll, func(ctx context.Context) (bool, error) {
		ok, err := r.b.Exists(ctx, panel)
		if err != nil || !ok {
			return false, err
		}
		text, err = r.b.Text(ctx, panel)
		if err != nil {
			return false, err
		}
		return strings.TrimSpace(text) != "", nil
	})
	if err != nil {
		return Resolution{}, fmt.Errorf("detail view for day %d: %w", ref.Day, err)
	}

	entries, skipped := parser.FromLines(text)
	if len(entries) == 0 {
		return Resolution{}, fmt.Errorf("day %d: %w", ref.Day, ErrOverflowEmpty)
	}
	r.log.Debug("overflow resolved", "day", ref.Day, "entries", len(entries), "skipped", skipped)
	return Resolution{Entries: entries, Skipped: skipped}, nil
}

// ensureClosed makes sure no detail view is showing before a new one is
// opened.
func (r *OverflowResolver) ensureClosed(ctx context.Context) error {
	if err := r.close(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrDetailViewOpen, err)
	}
	return nil
}

// close dismisses the detail view, if showing, and waits until it is gone.
func (r *OverflowResolver) close(ctx context.Context) error {
	t := r.opts.Timeouts
	open, err := r.b.Exists(ctx, r.opts.Selectors.OverflowPanel)
	if err != nil || !open {
		return err
	}
	btn, err := Locate(ctx, r.b, r.opts.Selectors.OverflowClose)
	if err != nil {
		return fmt.Errorf("close control: %w", err)
	}
	clickCtx, cancel := bounded(ctx, t.Overflow)
	err = r.b.Click(clickCtx, btn.Selector)
	cancel()
	if err != nil {
		return fmt.Errorf("click %s: %w", btn.Name, err)
	}
	return WaitUntil(ctx, t.Overflow, t.Poll, func(ctx context.Context) (bool, error) {
		ok, err := r.b.Exists(ctx, r.opts.Selectors.OverflowPanel)
		return err == nil && !ok, err
	})
}
