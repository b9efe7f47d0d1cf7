package listing

import (
	"context"
	"strings"

	"go-startup-automation/internal/dom"
	"go-startup-automation/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// MinDescriptionLength is the rendered length a block must exceed to count as
	// the job description.
	MinDescriptionLength = 100

	FallbackFoundUsing = "fallback:document.body"
)

var htmlPolicy = bluemonday.UGCPolicy()

// Detail snapshots a job detail page and extracts its description.
func (e *Extractor) Detail(ctx context.Context, page dom.Page) (models.ExtractionResult, error) {
	doc, err := snapshot(ctx, page)
	if err != nil {
		return models.ExtractionResult{}, err
	}
	res := ExtractDetail(doc)
	e.log.Debugf("📄 Description found using %s (%d chars)", res.FoundUsing, len(res.FullDescription))
	return res, nil
}

// ExtractDetail walks descriptionSelectors in order. The first selector with a
// match longer than MinDescriptionLength wins, and among its matches the one with
// the longest rendered text is used. Otherwise the whole body is returned.
func ExtractDetail(doc *goquery.Document) models.ExtractionResult {
	for _, sel := range descriptionSelectors {
		var (
			best     *goquery.Selection
			bestText string
		)
		doc.Find(sel).Each(func(_ int, m *goquery.Selection) {
			text := dom.InnerText(m)
			if len(text) > MinDescriptionLength && len(text) > len(bestText) {
				best, bestText = m, text
			}
		})
		if best != nil {
			return models.ExtractionResult{
				FullDescription: bestText,
				HTMLContent:     sanitizedHTML(best),
				FoundUsing:      describe(best),
			}
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	return models.ExtractionResult{
		FullDescription: dom.InnerText(body),
		HTMLContent:     sanitizedHTML(body),
		FoundUsing:      FallbackFoundUsing,
	}
}

func sanitizedHTML(s *goquery.Selection) string {
	raw, err := s.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(htmlPolicy.Sanitize(raw))
}

// describe renders an element as tag#id.class1.class2.
func describe(s *goquery.Selection) string {
	var b strings.Builder
	b.WriteString(goquery.NodeName(s))
	if id, ok := s.Attr("id"); ok && id != "" {
		b.WriteString("#" + id)
	}
	for _, class := range strings.Fields(s.AttrOr("class", "")) {
		b.WriteString("." + class)
	}
	return b.String()
}
