// Package domtest provides an in-memory dom.Page backed by goquery, for tests that
// need a page without launching a browser.
package domtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-startup-automation/internal/dom"

	"github.com/PuerkitoBio/goquery"
)

// Page serves HTML snapshots keyed by URL and records every interaction.
type Page struct {
	// Pages maps a URL to the HTML returned after Navigate.
	Pages map[string]string
	// Heights are returned by successive scroll-height measurements; the last value
	// repeats. When empty the length of the current HTML is used.
	Heights []float64
	// OnScroll runs after each scroll-to-bottom, e.g. to append lazily loaded rows.
	OnScroll func(p *Page)
	// OnClick and OnPress run after an element interaction, e.g. to swap in the
	// page a form submission leads to. target is the element's recorded key.
	OnClick func(p *Page, target string)
	OnPress func(p *Page, target, key string)
	// NavigateErr and ContentErr simulate upstream failures.
	NavigateErr map[string]error
	ContentErr  error

	Scrolls      int
	Measurements int
	Probes       []string
	Clicks       []string
	Presses      []string
	Fills        map[string]string
	Navigations  []string

	url string
	doc *goquery.Document
}

// New returns a page already showing markup.
func New(markup string) *Page {
	p := &Page{Pages: map[string]string{}, Fills: map[string]string{}}
	p.SetHTML(markup)
	return p
}

// SetHTML replaces the current document.
func (p *Page) SetHTML(markup string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		panic(fmt.Sprintf("domtest: parse html: %v", err))
	}
	p.doc = doc
}

// AppendHTML adds markup to the end of the element matched by selector.
func (p *Page) AppendHTML(selector, markup string) {
	p.doc.Find(selector).First().AppendHtml(markup)
}

func (p *Page) HTML() string {
	h, _ := goquery.OuterHtml(p.doc.Selection)
	return h
}

func (p *Page) URL() string { return p.url }

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Navigations = append(p.Navigations, url)
	if err, ok := p.NavigateErr[url]; ok {
		return err
	}
	markup, ok := p.Pages[url]
	if !ok {
		return fmt.Errorf("domtest: no page registered for %s", url)
	}
	p.url = url
	p.SetHTML(markup)
	return nil
}

func (p *Page) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.ContentErr != nil {
		return "", p.ContentErr
	}
	return p.HTML(), nil
}

func (p *Page) QueryAll(ctx context.Context, selector string, scope dom.Element) ([]dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []dom.Element
	p.find(selector, scope).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{page: p, sel: s, selector: selector})
	})
	return out, nil
}

// WaitFor never sleeps: the snapshot either has the element or it does not.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration, scope dom.Element) (dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.Probes = append(p.Probes, selector)
	s := p.find(selector, scope).First()
	if s.Length() == 0 {
		return nil, fmt.Errorf("waiting for %q: %w", selector, dom.ErrNotFound)
	}
	return &Element{page: p, sel: s, selector: selector}, nil
}

// Evaluate understands the two scripts the scroll loader sends.
func (p *Page) Evaluate(ctx context.Context, script string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(strings.TrimSpace(script), "window.scrollTo"):
		p.Scrolls++
		if p.OnScroll != nil {
			p.OnScroll(p)
		}
		return nil, nil
	case strings.Contains(script, "scrollHeight"):
		p.Measurements++
		if len(p.Heights) == 0 {
			return len(p.HTML()), nil
		}
		i := p.Measurements - 1
		if i >= len(p.Heights) {
			i = len(p.Heights) - 1
		}
		return p.Heights[i], nil
	}
	return nil, fmt.Errorf("domtest: unsupported script %q", script)
}

func (p *Page) find(selector string, scope dom.Element) *goquery.Selection {
	if el, ok := scope.(*Element); ok && el != nil {
		return el.sel.Find(selector)
	}
	return p.doc.Find(selector)
}
