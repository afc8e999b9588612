// Package portaltest provides an in-memory portal.Browser for tests.
package portaltest

import (
	"context"
	"fmt"
	"slices"
)

// Element is a fake DOM element addressed by its selector.
type Element struct {
	Value    string
	Checked  bool
	Checkbox bool
	Text     string
	HTML     string
	// Options restricts the values Select accepts; empty accepts any.
	Options []string
}

// Browser is a scripted portal.Browser. A selector exists when it has an
// entry in Elements. Like a real page query, Fill, Click, Value, Text and
// OuterHTML on a missing element block until ctx is done. It is not safe
// for concurrent use.
type Browser struct {
	URL      string
	Elements map[string]*Element

	NavigateHook func(b *Browser, url string)
	SelectHook   func(b *Browser, selector, value string)
	ClickHooks   map[string]func(b *Browser)

	// Calls records every method invocation as "Method selector".
	Calls  []string
	Closed int
}

// New returns an empty fake browser.
func New() *Browser {
	return &Browser{
		Elements:   make(map[string]*Element),
		ClickHooks: make(map[string]func(*Browser)),
	}
}

// Set adds or replaces an element.
func (b *Browser) Set(selector string, el *Element) { b.Elements[selector] = el }

// Remove deletes an element.
func (b *Browser) Remove(selector string) { delete(b.Elements, selector) }

// Clear removes every element.
func (b *Browser) Clear() { b.Elements = make(map[string]*Element) }

// Called reports how many times call ("Method selector") was made.
func (b *Browser) Called(call string) int {
	n := 0
	for _, c := range b.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *Browser) record(ctx context.Context, method, arg string) error {
	b.Calls = append(b.Calls, method+" "+arg)
	return ctx.Err()
}

func (b *Browser) element(selector string) (*Element, error) {
	el, ok := b.Elements[selector]
	if !ok {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return el, nil
}

// await returns the element for selector, or blocks until ctx is done when
// there is none.
func (b *Browser) await(ctx context.Context, selector string) (*Element, error) {
	if el, ok := b.Elements[selector]; ok {
		return el, nil
	}
	<-ctx.Done()
	return nil, fmt.Errorf("waiting for %q: %w", selector, ctx.Err())
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := b.record(ctx, "Navigate", url); err != nil {
		return err
	}
	b.URL = url
	if b.NavigateHook != nil {
		b.NavigateHook(b, url)
	}
	return nil
}

func (b *Browser) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.URL, nil
}

func (b *Browser) Exists(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := b.Elements[selector]
	return ok, nil
}

func (b *Browser) Fill(ctx context.Context, selector, value string) error {
	if err := b.record(ctx, "Fill", selector); err != nil {
		return err
	}
	el, err := b.await(ctx, selector)
	if err != nil {
		return err
	}
	el.Value = value
	return nil
}

func (b *Browser) Select(ctx context.Context, selector, value string) error {
	if err := b.record(ctx, "Select", selector); err != nil {
		return err
	}
	el, err := b.element(selector)
	if err != nil {
		return err
	}
	if len(el.Options) > 0 && !slices.Contains(el.Options, value) {
		return fmt.Errorf("option %q not available in %q", value, selector)
	}
	el.Value = value
	if b.SelectHook != nil {
		b.SelectHook(b, selector, value)
	}
	return nil
}

func (b *Browser) Value(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	el, err := b.await(ctx, selector)
	if err != nil {
		return "", err
	}
	return el.Value, nil
}

func (b *Browser) Checked(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	el, err := b.element(selector)
	if err != nil {
		return false, err
	}
	return el.Checked, nil
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	if err := b.record(ctx, "Click", selector); err != nil {
		return err
	}
	hook, hooked := b.ClickHooks[selector]
	el, ok := b.Elements[selector]
	if !ok && !hooked {
		_, err := b.await(ctx, selector)
		return err
	}
	if ok && el.Checkbox {
		el.Checked = !el.Checked
	}
	if hooked {
		hook(b)
	}
	return nil
}

func (b *Browser) OuterHTML(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	el, err := b.await(ctx, selector)
	if err != nil {
		return "", err
	}
	return el.HTML, nil
}

func (b *Browser) Text(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	el, err := b.await(ctx, selector)
	if err != nil {
		return "", err
	}
	return el.Text, nil
}

// Close records that the session was released.
func (b *Browser) Close() error {
	b.Closed++
	return nil
}
