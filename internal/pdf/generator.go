package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/playwright-community/playwright-go"
)

//go:embed templates/letter.html
var templatesFS embed.FS

// Document is a composed cover letter ready for rendering.
type Document struct {
	Applicant string
	Title     string
	Company   string
	// Markdown is the letter as produced by the composer.
	Markdown string
}

type page struct {
	Applicant string
	Title     string
	Company   string
	Body      template.HTML
}

// Generator converts cover letters into HTML and PDF files
type Generator struct {
	tmpl     *template.Template
	sanitize *bluemonday.Policy
	// browser is reused across letters when set; otherwise Generate launches its own.
	browser playwright.Browser
}

// NewGenerator parses templatePath, or the built-in layout when it is empty.
func NewGenerator(templatePath string) (*Generator, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if templatePath == "" {
		tmpl, err = template.ParseFS(templatesFS, "templates/letter.html")
	} else {
		tmpl, err = template.New(filepath.Base(templatePath)).ParseFiles(templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Generator{tmpl: tmpl, sanitize: bluemonday.UGCPolicy()}, nil
}

// WithBrowser makes Generate render through an already running browser.
func (g *Generator) WithBrowser(b playwright.Browser) *Generator {
	g.browser = b
	return g
}

// RenderHTML converts the letter markdown to sanitized HTML inside the layout.
func (g *Generator) RenderHTML(doc Document) ([]byte, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	ast := p.Parse([]byte(doc.Markdown))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	body := g.sanitize.SanitizeBytes(markdown.Render(ast, renderer))

	var buf bytes.Buffer
	err := g.tmpl.Execute(&buf, page{
		Applicant: doc.Applicant,
		Title:     doc.Title,
		Company:   doc.Company,
		Body:      template.HTML(body), // #nosec G203 -- sanitized above
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders the letter and prints it to an A4 PDF with playwright.
func (g *Generator) Generate(doc Document) ([]byte, error) {
	htmlContent, err := g.RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	browser := g.browser
	if browser == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		defer pw.Stop()

		browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("could not launch chromium browser: %w", err)
		}
		defer browser.Close()
	}

	pg, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer pg.Close()

	if err := pg.SetContent(string(htmlContent), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := pg.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("0"),
			Right:  playwright.String("0"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

// SaveToFile writes data to outputPath, creating parent directories.
func SaveToFile(data []byte, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	return os.WriteFile(outputPath, data, 0644)
}
