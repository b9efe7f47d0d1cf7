package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kataras/golog"
	"github.com/playwright-community/playwright-go"
)

// ScreenshotDebugger saves full-page screenshots for failed steps.
type ScreenshotDebugger struct {
	outputDir string
	log       *golog.Logger
}

func NewScreenshotDebugger(dir string, logger *golog.Logger) (*ScreenshotDebugger, error) {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	if logger == nil {
		logger = golog.Default
	}
	return &ScreenshotDebugger{outputDir: dir, log: logger}, nil
}

// Path returns where a screenshot called name taken at t is stored.
func (s *ScreenshotDebugger) Path(name string, t time.Time) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, t.Format("2006-01-02_15-04-05")))
}

func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	path := s.Path(name, time.Now())
	s.log.Infof("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warnf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	s.log.Infof("   Screenshot saved: %s", path)
	return nil
}
