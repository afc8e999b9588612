// Package portal drives the HR portal's login and leave calendar surfaces
// through a Browser capability.
package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Browser is the page automation capability the portal needs. Every call
// is bounded by the deadline of ctx.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	Exists(ctx context.Context, selector string) (bool, error)
	Fill(ctx context.Context, selector, value string) error
	Select(ctx context.Context, selector, value string) error
	Value(ctx context.Context, selector string) (string, error)
	Checked(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	OuterHTML(ctx context.Context, selector string) (string, error)
	Text(ctx context.Context, selector string) (string, error)
}

var (
	// ErrNotFound is returned by Locate when no strategy matches.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout is returned by WaitUntil when the condition never holds.
	ErrTimeout = errors.New("timed out waiting for condition")
)

// Strategy is one way of identifying an element.
type Strategy struct {
	Name     string
	Selector string
}

// Strategies builds anonymous strategies from CSS selectors.
func Strategies(selectors ...string) []Strategy {
	out := make([]Strategy, len(selectors))
	for i, s := range selectors {
		out[i] = Strategy{Name: s, Selector: s}
	}
	return out
}

// Locate tries strategies in order and returns the first one that resolves
// to an element on the current page.
func Locate(ctx context.Context, b Browser, strategies []Strategy) (Strategy, error) {
	var errs []string
	for _, s := range strategies {
		ok, err := b.Exists(ctx, s.Selector)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name, err))
			continue
		}
		if ok {
			return s, nil
		}
	}
	if len(errs) > 0 {
		return Strategy{}, fmt.Errorf("%w (%s)", ErrNotFound, strings.Join(errs, "; "))
	}
	return Strategy{}, ErrNotFound
}

// WaitUntil polls cond every interval until it reports true or timeout
// elapses. The last condition error, if any, is included in the timeout
// error.
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return ErrTimeout
		case <-ticker.C:
		}
	}
}

// settle waits a fixed delay after an action that triggers a server
// postback with no observable completion signal.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bounded derives the context of a single element call, so that an element
// which never appears fails that step after d rather than when ctx ends.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// exists is a condition reporting whether selector is present.
func exists(b Browser, selector string) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return b.Exists(ctx, selector)
	}
}
