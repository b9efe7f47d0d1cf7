package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

const jiggleMoves = 3

// RandomDelay waits between min and max milliseconds, or until ctx is done.
func RandomDelay(ctx context.Context, min, max int) error {
	t := time.NewTimer(jitter(min, max))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func jitter(min, max int) time.Duration {
	if min >= max {
		return time.Duration(min) * time.Millisecond
	}
	return time.Duration(rand.Intn(max-min+1)+min) * time.Millisecond
}

// MouseJiggle drifts the cursor across the viewport in a few steps. Pages
// without a fixed viewport are left alone.
func MouseJiggle(ctx context.Context, page playwright.Page) error {
	vp := page.ViewportSize()
	if vp == nil || vp.Width <= 0 || vp.Height <= 0 {
		return nil
	}
	for i := 0; i < jiggleMoves; i++ {
		x, y := rand.Intn(vp.Width), rand.Intn(vp.Height)
		if err := page.Mouse().Move(float64(x), float64(y), playwright.MouseMoveOptions{
			Steps: playwright.Int(5 + rand.Intn(10)),
		}); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100, 300); err != nil {
			return err
		}
	}
	return nil
}
