package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go-startup-automation/internal/models"
	"go-startup-automation/internal/pdf"

	"github.com/kataras/golog"
	"github.com/playwright-community/playwright-go"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// saveReport writes report as automation-report-<start>.json under dir.
func saveReport(dir string, report *models.RunReport) (string, error) {
	if report == nil {
		return "", errors.New("no report")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("automation-report-%s.json", report.StartTime.Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// letterName builds a file name stem for a listing's letter.
func letterName(rec models.ListingRecord) string {
	stem := unsafeFileChars.ReplaceAllString(rec.ID, "-")
	stem = strings.Trim(stem, "-")
	if stem == "" {
		stem = "listing"
	}
	return "cover-letter-" + stem
}

func newPDFGenerator(templatePath string, b playwright.Browser) (*pdf.Generator, error) {
	gen, err := pdf.NewGenerator(templatePath)
	if err != nil {
		return nil, err
	}
	return gen.WithBrowser(b), nil
}

// letterWriter saves every drafted letter as markdown, and as PDF when pdf is set.
type letterWriter struct {
	dir       string
	applicant string
	pdf       *pdf.Generator
	log       *golog.Logger
}

func (w letterWriter) writeAll(report *models.RunReport) (written int) {
	if report == nil {
		return 0
	}
	for _, res := range report.Applications {
		if !res.Success || res.CoverLetter == "" {
			continue
		}
		if err := w.write(res); err != nil {
			w.log.Warnf("⚠️ Failed to save letter for %s: %v", res.Listing.URL, err)
			continue
		}
		written++
	}
	if written == 0 {
		w.log.Info("ℹ️ No letters to save.")
	}
	return written
}

func (w letterWriter) write(res models.ApplicationResult) error {
	dir := filepath.Join(w.dir, "letters")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	name := letterName(res.Listing)

	mdPath := filepath.Join(dir, name+".md")
	if err := os.WriteFile(mdPath, []byte(res.CoverLetter), 0644); err != nil {
		return err
	}
	w.log.Infof("✉️ Letter saved to %s", mdPath)

	if w.pdf == nil {
		return nil
	}
	data, err := w.pdf.Generate(pdf.Document{
		Applicant: w.applicant,
		Title:     res.Listing.Title,
		Company:   res.Listing.Company.Name,
		Markdown:  res.CoverLetter,
	})
	if err != nil {
		return err
	}
	return pdf.SaveToFile(data, filepath.Join(dir, name+".pdf"))
}
