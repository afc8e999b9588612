package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrUserFieldNotFound     = errors.New("user ID field not found")
	ErrPasswordFieldNotFound = errors.New("password field not found")
	ErrSignInNotFound        = errors.New("sign-in control not found")
	ErrLoginFailed           = errors.New("login failed")
	ErrCalendarNotRendered   = errors.New("calendar grid not rendered")
)

// Session is an authenticated walk through the portal on one Browser.
type Session struct {
	b    Browser
	opts Options
	log  *slog.Logger
}

// NewSession returns a Session that drives b. A nil logger discards output.
func NewSession(b Browser, opts Options, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{b: b, opts: opts, log: log}
}

// Browser returns the underlying browser.
func (s *Session) Browser() Browser { return s.b }

// Login submits the credentials on the login page and waits until the
// browser has left it.
func (s *Session) Login(ctx context.Context, userID, password string) error {
	t := s.opts.Timeouts
	sel := s.opts.Selectors

	navCtx, cancel := context.WithTimeout(ctx, t.Navigation)
	err := s.b.Navigate(navCtx, s.opts.LoginURL)
	cancel()
	if err != nil {
		return fmt.Errorf("open login page: %w", err)
	}

	if err := WaitUntil(ctx, t.LoginForm, t.Poll, exists(s.b, sel.LoginForm)); err != nil {
		s.log.Warn("login form did not appear in time, continuing", "error", err)
	}

	user, err := Locate(ctx, s.b, sel.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserFieldNotFound, err)
	}
	pass, err := Locate(ctx, s.b, sel.Password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordFieldNotFound, err)
	}
	s.log.Debug("login fields located", "user", user.Name, "password", pass.Name)

	fillCtx, cancel := bounded(ctx, t.Login)
	defer cancel()
	if err := s.b.Fill(fillCtx, user.Selector, userID); err != nil {
		return fmt.Errorf("fill user ID: %w", err)
	}
	if err := s.b.Fill(fillCtx, pass.Selector, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}

	submit, err := Locate(ctx, s.b, sel.SignIn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignInNotFound, err)
	}
	clickCtx, cancelClick := bounded(ctx, t.Login)
	defer cancelClick()
	if err := s.b.Click(clickCtx, submit.Selector); err != nil {
		return fmt.Errorf("click %s: %w", submit.Name, err)
	}

	indicator := strings.ToLower(s.opts.LoginIndicator)
	var last string
	err = WaitUntil(ctx, t.Login, t.Poll, func(ctx context.Context) (bool, error) {
		loc, err := s.b.Location(ctx)
		if err != nil {
			return false, err
		}
		last = loc
		return !strings.Contains(strings.ToLower(loc), indicator), nil
	})
	if err != nil {
		return fmt.Errorf("%w: still at %q", ErrLoginFailed, last)
	}
	s.log.Info("logged in", "url", last)
	return nil
}

// OpenCalendar navigates to the leave calendar and waits for its grid.
func (s *Session) OpenCalendar(ctx context.Context) error {
	t := s.opts.Timeouts

	navCtx, cancel := context.WithTimeout(ctx, t.Navigation)
	err := s.b.Navigate(navCtx, s.opts.CalendarURL)
	cancel()
	if err != nil {
		return fmt.Errorf("open calendar page: %w", err)
	}
	if err := WaitUntil(ctx, t.Calendar, t.Poll, exists(s.b, s.opts.Selectors.Grid)); err != nil {
		return fmt.Errorf("%w: %v", ErrCalendarNotRendered, err)
	}
	return nil
}
