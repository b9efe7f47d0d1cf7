// Package locator finds elements through ordered lists of fallback selectors.
package locator

import (
	"context"
	"strings"
	"time"

	"go-startup-automation/internal/dom"

	"github.com/kataras/golog"
)

// DefaultProbeTimeout bounds each candidate's existence check.
const DefaultProbeTimeout = 2 * time.Second

// Predicate is the set of checks an element must pass to be accepted.
type Predicate uint8

const (
	Visible Predicate = 1 << iota
	Editable
	Enabled
)

func (p Predicate) String() string {
	var parts []string
	if p&Visible != 0 {
		parts = append(parts, "visible")
	}
	if p&Editable != 0 {
		parts = append(parts, "editable")
	}
	if p&Enabled != 0 {
		parts = append(parts, "enabled")
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, "+")
}

// Candidate is one option in an ordered search. Earlier candidates win.
type Candidate struct {
	Purpose  string
	Selector string
	Require  Predicate
}

// Resolver runs read-only probes against a page; it never clicks or fills.
type Resolver struct {
	page    dom.Page
	timeout time.Duration
	log     *golog.Logger
}

func New(page dom.Page, timeout time.Duration, logger *golog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = golog.Default
	}
	return &Resolver{page: page, timeout: timeout, log: logger}
}

// Find returns the first candidate element that exists within scope and satisfies
// its predicate. A nil scope searches the whole document. Exhausting the list is
// an expected outcome and is reported as (nil, false).
func (r *Resolver) Find(ctx context.Context, candidates []Candidate, scope dom.Element) (dom.Element, bool) {
	for _, c := range candidates {
		if ctx.Err() != nil {
			return nil, false
		}

		el, err := r.page.WaitFor(ctx, c.Selector, r.timeout, scope)
		if err != nil || el == nil {
			r.log.Debugf("🔎 [%s] %s not found", c.Purpose, c.Selector)
			continue
		}

		ok, reason := Usable(el, c.Require)
		if !ok {
			r.log.Debugf("🔎 [%s] %s rejected: %s", c.Purpose, c.Selector, reason)
			continue
		}

		r.log.Debugf("✅ [%s] found with selector: %s", c.Purpose, c.Selector)
		return el, true
	}
	return nil, false
}

// Usable checks el against p. A failing probe counts as unusable.
func Usable(el dom.Element, p Predicate) (bool, string) {
	checks := []struct {
		flag  Predicate
		name  string
		probe func() (bool, error)
	}{
		{Visible, "not visible", el.IsVisible},
		{Enabled, "disabled", el.IsEnabled},
		{Editable, "not editable", el.IsEditable},
	}
	for _, check := range checks {
		if p&check.flag == 0 {
			continue
		}
		ok, err := check.probe()
		if err != nil {
			return false, err.Error()
		}
		if !ok {
			return false, check.name
		}
	}
	return true, ""
}

// Selectors builds candidates sharing a purpose and predicate, in the given order.
func Selectors(purpose string, require Predicate, selectors ...string) []Candidate {
	out := make([]Candidate, len(selectors))
	for i, s := range selectors {
		out[i] = Candidate{Purpose: purpose, Selector: s, Require: require}
	}
	return out
}
