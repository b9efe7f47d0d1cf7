// Package scroll expands lazily loaded feeds by scrolling until enough items exist.
package scroll

import (
	"context"
	"fmt"
	"time"

	"go-startup-automation/internal/dom"

	"github.com/kataras/golog"
)

const (
	DefaultSettle        = 1500 * time.Millisecond
	DefaultMaxIterations = 50

	heightScript         = "document.body.scrollHeight"
	scrollToBottomScript = "window.scrollTo(0, document.body.scrollHeight)"
)

// Reason explains why LoadUntil stopped.
type Reason string

const (
	ReachedTarget Reason = "target"
	Plateau       Reason = "plateau"
	IterationCap  Reason = "cap"
)

type Result struct {
	Scrolls int
	Items   int
	Reason  Reason
}

type Loader struct {
	page          dom.Page
	settle        time.Duration
	maxIterations int
	log           *golog.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

type Option func(*Loader)

// WithSettle sets the pause after each scroll.
func WithSettle(d time.Duration) Option {
	return func(l *Loader) { l.settle = d }
}

// WithMaxIterations caps the number of scrolls.
func WithMaxIterations(n int) Option {
	return func(l *Loader) { l.maxIterations = n }
}

func WithLogger(logger *golog.Logger) Option {
	return func(l *Loader) { l.log = logger }
}

func NewLoader(page dom.Page, opts ...Option) *Loader {
	l := &Loader{
		page:          page,
		settle:        DefaultSettle,
		maxIterations: DefaultMaxIterations,
		log:           golog.Default,
		sleep:         sleepCtx,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxIterations <= 0 {
		l.maxIterations = DefaultMaxIterations
	}
	if l.log == nil {
		l.log = golog.Default
	}
	return l
}

// LoadUntil scrolls to the bottom until itemSelector matches at least target
// elements, the page height stops growing, or the iteration cap is hit.
// Page-read failures are returned as errors.
func (l *Loader) LoadUntil(ctx context.Context, target int, itemSelector string) (Result, error) {
	var res Result

	lastHeight, err := l.height(ctx)
	if err != nil {
		return res, err
	}

	for {
		items, err := l.page.QueryAll(ctx, itemSelector, nil)
		if err != nil {
			return res, fmt.Errorf("count items %q: %w", itemSelector, err)
		}
		res.Items = len(items)

		if res.Items >= target {
			res.Reason = ReachedTarget
			break
		}
		if res.Scrolls >= l.maxIterations {
			res.Reason = IterationCap
			l.log.Warnf("⚠️ Scroll cap reached (%d) with %d/%d items", l.maxIterations, res.Items, target)
			break
		}

		if _, err := l.page.Evaluate(ctx, scrollToBottomScript); err != nil {
			return res, fmt.Errorf("scroll to bottom: %w", err)
		}
		res.Scrolls++

		if err := l.sleep(ctx, l.settle); err != nil {
			return res, err
		}

		newHeight, err := l.height(ctx)
		if err != nil {
			return res, err
		}
		if newHeight == lastHeight {
			// nothing new loaded: end of feed
			items, err := l.page.QueryAll(ctx, itemSelector, nil)
			if err != nil {
				return res, fmt.Errorf("count items %q: %w", itemSelector, err)
			}
			res.Items = len(items)
			res.Reason = Plateau
			if res.Items >= target {
				res.Reason = ReachedTarget
			}
			break
		}
		lastHeight = newHeight
	}

	l.log.Infof("📜 Scrolled %d times, %d items loaded (%s)", res.Scrolls, res.Items, res.Reason)
	return res, nil
}

func (l *Loader) height(ctx context.Context) (float64, error) {
	v, err := l.page.Evaluate(ctx, heightScript)
	if err != nil {
		return 0, fmt.Errorf("measure scroll height: %w", err)
	}
	h, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("measure scroll height: unexpected result %T", v)
	}
	return h, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
