package browser

import (
	"context"
	"fmt"

	"github.com/kataras/golog"
	"github.com/playwright-community/playwright-go"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Options control how chromium is launched.
type Options struct {
	Headless  bool
	SlowMo    float64
	UserAgent string
}

// PlaywrightManager owns the playwright driver and one chromium instance.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	log     *golog.Logger
}

func NewPlaywright(ctx context.Context, opts Options, logger *golog.Logger) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = golog.Default
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(opts.SlowMo),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	logger.Infof("🌐 Chromium launched (headless=%t)", opts.Headless)
	return &PlaywrightManager{pw: pw, browser: b, opts: opts, log: logger}, nil
}

// Browser exposes the running chromium, e.g. for PDF rendering.
func (pm *PlaywrightManager) Browser() playwright.Browser {
	return pm.browser
}

// NewContext opens an isolated browsing context preloaded with cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(pm.opts.UserAgent),
		Viewport:  &playwright.Size{Width: 1366, Height: 768},
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
		pm.log.Infof("🍪 Added %d cookies to context", len(cookies))
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = fmt.Errorf("close browser: %w", err)
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop playwright: %w", err)
		}
	}
	return firstErr
}
