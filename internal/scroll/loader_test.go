package scroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-startup-automation/internal/dom/domtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(n int) string {
	html := `<html><body><div id="feed">`
	for i := 0; i < n; i++ {
		html += `<div class="job-card">job</div>`
	}
	return html + `</div></body></html>`
}

func TestLoadUntil_TargetAlreadyMet(t *testing.T) {
	page := domtest.New(feed(3))
	l := NewLoader(page, WithSettle(0))

	res, err := l.LoadUntil(context.Background(), 3, ".job-card")

	require.NoError(t, err)
	assert.Equal(t, 0, res.Scrolls)
	assert.Equal(t, 0, page.Scrolls)
	assert.Equal(t, 3, res.Items)
	assert.Equal(t, ReachedTarget, res.Reason)
}

func TestLoadUntil_Plateau(t *testing.T) {
	page := domtest.New(feed(1))
	page.Heights = []float64{2400, 2400}
	l := NewLoader(page, WithSettle(0))

	res, err := l.LoadUntil(context.Background(), 10, ".job-card")

	require.NoError(t, err)
	assert.Equal(t, 1, res.Scrolls)
	assert.Equal(t, Plateau, res.Reason)
	assert.Equal(t, 1, res.Items)
}

func TestLoadUntil_LoadsLazyContent(t *testing.T) {
	page := domtest.New(feed(1))
	page.OnScroll = func(p *domtest.Page) {
		p.AppendHTML("#feed", `<div class="job-card">job</div>`)
	}
	l := NewLoader(page, WithSettle(0))

	res, err := l.LoadUntil(context.Background(), 3, ".job-card")

	require.NoError(t, err)
	assert.Equal(t, 2, res.Scrolls)
	assert.Equal(t, 3, res.Items)
	assert.Equal(t, ReachedTarget, res.Reason)
}

func TestLoadUntil_IterationCap(t *testing.T) {
	page := domtest.New(feed(0))
	heights := make([]float64, 100)
	for i := range heights {
		heights[i] = float64(1000 + i)
	}
	page.Heights = heights
	l := NewLoader(page, WithSettle(0), WithMaxIterations(5))

	res, err := l.LoadUntil(context.Background(), 10, ".job-card")

	require.NoError(t, err)
	assert.Equal(t, 5, res.Scrolls)
	assert.Equal(t, IterationCap, res.Reason)
}

type brokenPage struct {
	*domtest.Page
}

func (b brokenPage) Evaluate(ctx context.Context, script string) (any, error) {
	return nil, errors.New("target closed")
}

func TestLoadUntil_PropagatesPageErrors(t *testing.T) {
	l := NewLoader(brokenPage{domtest.New(feed(0))}, WithSettle(0))

	_, err := l.LoadUntil(context.Background(), 3, ".job-card")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "target closed")
}

func TestLoadUntil_CancelledDuringSettle(t *testing.T) {
	page := domtest.New(feed(0))
	page.Heights = []float64{1, 2, 3}
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoader(page)
	l.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := l.LoadUntil(ctx, 3, ".job-card")

	assert.ErrorIs(t, err, context.Canceled)
}
