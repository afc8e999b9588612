// Package browser implements portal.Browser on a headless Chrome driven
// through the DevTools protocol.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// DefaultUserAgent mimics a desktop Chrome; the portal rejects headless
// user agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures the launched browser.
type Options struct {
	Headless bool
	// ExecPath overrides the Chrome binary; empty uses the system lookup.
	ExecPath  string
	UserAgent string
	Width     int
	Height    int
}

// Chrome is a single browser tab. Element actions fail at once when the
// selector matches nothing; waiting for elements is left to the caller.
type Chrome struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// Launch starts Chrome and opens a tab. The browser lives until Close is
// called or parent is cancelled.
func Launch(parent context.Context, o Options, log *slog.Logger) (*Chrome, error) {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Width == 0 || o.Height == 0 {
		o.Width, o.Height = 1920, 1080
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(o.UserAgent),
		chromedp.WindowSize(o.Width, o.Height),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	var ctxOpts []chromedp.ContextOption
	if log != nil {
		ctxOpts = append(ctxOpts, chromedp.WithErrorf(func(format string, args ...any) {
			log.Debug("devtools", "message", fmt.Sprintf(format, args...))
		}))
	}
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, ctxOpts...)
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	return &Chrome{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	err := chromedp.Cancel(c.ctx)
	c.cancelTab()
	c.cancelAlloc()
	return err
}

// run executes actions on the tab, bounded by the deadline and
// cancellation of ctx.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	if dl, ok := ctx.Deadline(); ok {
		var cancelDl context.CancelFunc
		runCtx, cancelDl = context.WithDeadline(runCtx, dl)
		defer cancelDl()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) Location(ctx context.Context) (string, error) {
	var url string
	err := c.run(ctx, chromedp.Location(&url))
	return url, err
}

func (c *Chrome) Exists(ctx context.Context, selector string) (bool, error) {
	var ok bool
	err := c.run(ctx, chromedp.Evaluate(existsScript(selector), &ok))
	return ok, err
}

func (c *Chrome) Fill(ctx context.Context, selector, value string) error {
	return c.run(ctx,
		chromedp.Clear(selector, chromedp.ByQuery, chromedp.AtLeast(0)),
		chromedp.SendKeys(selector, value, chromedp.ByQuery, chromedp.AtLeast(0)),
	)
}

func (c *Chrome) Select(ctx context.Context, selector, value string) error {
	var ok bool
	if err := c.run(ctx, chromedp.Evaluate(selectScript(selector, value), &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("option %q not available in %q", value, selector)
	}
	return nil
}

func (c *Chrome) Value(ctx context.Context, selector string) (string, error) {
	var v string
	err := c.run(ctx, chromedp.Value(selector, &v, chromedp.ByQuery, chromedp.AtLeast(0)))
	return v, err
}

func (c *Chrome) Checked(ctx context.Context, selector string) (bool, error) {
	var on bool
	err := c.run(ctx, chromedp.Evaluate(checkedScript(selector), &on))
	return on, err
}

func (c *Chrome) Click(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.AtLeast(0)))
}

func (c *Chrome) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := c.run(ctx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery, chromedp.AtLeast(0)))
	return html, err
}

func (c *Chrome) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := c.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.AtLeast(0)))
	return text, err
}

func existsScript(selector string) string {
	return fmt.Sprintf(`document.querySelector(%s) !== null`, quote(selector))
}

func checkedScript(selector string) string {
	return fmt.Sprintf(`!!(document.querySelector(%s) || {}).checked`, quote(selector))
}

// selectScript picks value in a <select> and fires its change event, which
// triggers the portal's postback.
func selectScript(selector, value string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el || !Array.from(el.options || []).some(o => o.value === %s)) return false;
	el.value = %[2]s;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})()`, quote(selector), quote(value))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
