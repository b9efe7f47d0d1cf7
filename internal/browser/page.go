package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-startup-automation/internal/dom"

	"github.com/playwright-community/playwright-go"
)

const navigationTimeout = 30 * time.Second

// Page adapts a playwright page to dom.Page.
type Page struct {
	page       playwright.Page
	screenshot *ScreenshotDebugger
}

var _ dom.Page = (*Page)(nil)

func NewPage(page playwright.Page, screenshots *ScreenshotDebugger) *Page {
	return &Page{page: page, screenshot: screenshots}
}

// Raw returns the underlying playwright page.
func (p *Page) Raw() playwright.Page { return p.page }

func (p *Page) URL() string { return p.page.URL() }

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(ms(navigationTimeout)),
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *Page) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return html, nil
}

func (p *Page) Evaluate(ctx context.Context, script string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.page.Evaluate(script)
}

func (p *Page) QueryAll(ctx context.Context, selector string, scope dom.Element) ([]dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := p.locator(selector, scope).All()
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]dom.Element, len(locators))
	for i, l := range locators {
		out[i] = &Element{loc: l}
	}
	return out, nil
}

// WaitFor waits until selector is attached. Timeouts are reported as dom.ErrNotFound.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration, scope dom.Element) (dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := p.locator(selector, scope).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("waiting for %q: %w", selector, dom.ErrNotFound)
		}
		return nil, fmt.Errorf("waiting for %q: %w", selector, err)
	}
	return &Element{loc: loc}, nil
}

// Humanize moves the mouse and pauses briefly so interactions look less scripted.
func (p *Page) Humanize(ctx context.Context) error {
	if err := MouseJiggle(ctx, p.page); err != nil {
		return err
	}
	return RandomDelay(ctx, 300, 900)
}

// Capture saves a full-page screenshot when a debugger is configured.
func (p *Page) Capture(name, message string) {
	if p.screenshot == nil {
		return
	}
	_ = p.screenshot.CaptureAndLog(p.page, name, message)
}

func (p *Page) locator(selector string, scope dom.Element) playwright.Locator {
	if el, ok := scope.(*Element); ok && el != nil {
		return el.loc.Locator(selector)
	}
	return p.page.Locator(selector)
}

func ms(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}

// Element adapts a playwright locator to dom.Element.
type Element struct {
	loc playwright.Locator
}

func (e *Element) IsVisible() (bool, error)  { return e.loc.IsVisible() }
func (e *Element) IsEnabled() (bool, error)  { return e.loc.IsEnabled() }
func (e *Element) IsEditable() (bool, error) { return e.loc.IsEditable() }
func (e *Element) Click() error              { return e.loc.Click() }
func (e *Element) Fill(value string) error   { return e.loc.Fill(value) }
func (e *Element) Press(key string) error    { return e.loc.Press(key) }
func (e *Element) ScrollIntoView() error     { return e.loc.ScrollIntoViewIfNeeded() }
func (e *Element) Text() (string, error)     { return e.loc.InnerText() }

func (e *Element) Attr(name string) (string, error) {
	return e.loc.GetAttribute(name)
}
