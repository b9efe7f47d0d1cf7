// Package listing turns snapshots of the job board into typed records.
package listing

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go-startup-automation/internal/dom"
	"go-startup-automation/internal/models"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/kataras/golog"
)

const GeneralApplicationTitle = "General Application"

var (
	jobIDRegex     = regexp.MustCompile(`/jobs?/(\d+)`)
	jobSlugIDRegex = regexp.MustCompile(`/jobs?/[^/]+-(\d+)`)
	batchRegex     = regexp.MustCompile(`\(?\b([WSFX]\d{2})\b\)?`)
)

type Extractor struct {
	base  *url.URL
	now   func() time.Time
	newID func() string
	log   *golog.Logger
}

func NewExtractor(baseURL string, logger *golog.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if logger == nil {
		logger = golog.Default
	}
	return &Extractor{
		base:  base,
		now:   time.Now,
		newID: randomID,
		log:   logger,
	}, nil
}

func randomID() string {
	return "job-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// Extract snapshots the current page and returns at most max valid records.
// Only a failure to read the page is returned as an error.
func (e *Extractor) Extract(ctx context.Context, page dom.Page, max int) ([]models.ListingRecord, error) {
	doc, err := snapshot(ctx, page)
	if err != nil {
		return nil, err
	}
	all := e.Parse(doc)
	records := Select(all, max)
	e.log.Infof("📦 Extracted %d records, kept %d valid (max %d)", len(all), len(records), max)
	return records, nil
}

func snapshot(ctx context.Context, page dom.Page) (*goquery.Document, error) {
	content, err := page.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse page content: %w", err)
	}
	return doc, nil
}

// Parse reads every employer container in doc. Missing fields get defaults;
// records are returned unfiltered.
func (e *Extractor) Parse(doc *goquery.Document) []models.ListingRecord {
	var records []models.ListingRecord
	extractedAt := e.now().UTC()

	containers := doc.Find(ContainerSelector)
	e.log.Debugf("🏢 Found %d company containers", containers.Length())

	containers.Each(func(_ int, c *goquery.Selection) {
		company := e.parseCompany(c)

		rows := c.Find(JobRowSelector)
		if rows.Length() == 0 {
			if rec, ok := e.generalApplication(c, company, extractedAt); ok {
				records = append(records, rec)
			}
			return
		}

		rows.Each(func(_ int, row *goquery.Selection) {
			records = append(records, e.parseRow(row, company, extractedAt))
		})
	})
	return records
}

func (e *Extractor) parseCompany(c *goquery.Selection) models.Company {
	company := models.Company{
		Name:        firstText(c, companyNameSelectors),
		Batch:       firstText(c, companyBatchSelectors),
		Description: firstText(c, companyDescriptionSelectors),
		Website:     e.absolute(firstAttr(c, companyWebsiteSelectors, "href")),
		Twitter:     firstAttr(c, companyTwitterSelectors, "href"),
		Details:     allTexts(c, companyDetailSelectors),
	}

	// "Acme Corp (W21)": the batch is often rendered inside the name
	if m := batchRegex.FindStringSubmatchIndex(company.Name); m != nil {
		if company.Batch == "" {
			company.Batch = company.Name[m[2]:m[3]]
		}
		company.Name = strings.TrimSpace(company.Name[:m[0]] + company.Name[m[1]:])
	}
	if company.Name == "" {
		company.Name = models.UnknownCompany
	}
	if company.Website == "" {
		company.Website = e.externalLink(c)
	}

	if img := first(c, companyLogoSelectors); img != nil {
		company.Logo = models.Logo{
			URL: e.absolute(img.AttrOr("src", "")),
			Alt: strings.TrimSpace(img.AttrOr("alt", "")),
		}
	}
	if company.Details == nil {
		company.Details = []string{}
	}
	return company
}

// externalLink picks the first absolute link that leaves the board and is not social.
func (e *Extractor) externalLink(c *goquery.Selection) string {
	var link string
	c.Find(`a[href^="http"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		host := strings.ToLower(u.Hostname())
		for _, skip := range []string{e.base.Hostname(), "ycombinator.com", "twitter.com", "x.com", "linkedin.com", "github.com"} {
			if skip != "" && (host == skip || strings.HasSuffix(host, "."+skip)) {
				return true
			}
		}
		link = href
		return false
	})
	return link
}

func (e *Extractor) parseRow(row *goquery.Selection, company models.Company, extractedAt time.Time) models.ListingRecord {
	link := e.absolute(firstAttr(row, jobLinkSelectors, "href"))

	rec := models.ListingRecord{
		ID:          e.rowID(row, link),
		Title:       firstText(row, jobTitleSelectors),
		Company:     company,
		URL:         link,
		ViewJobURL:  e.absolute(firstAttr(row, viewJobSelectors, "href")),
		Metadata:    []string{},
		ExtractedAt: extractedAt,
	}
	if rec.Title == "" {
		rec.Title = models.UntitledPosition
	}
	if rec.ViewJobURL == "" {
		rec.ViewJobURL = rec.URL
	}
	rec.HasApplyButton = visibleMatch(row, applySelectors) != nil

	for _, node := range allTexts(row, jobMetadataSelectors) {
		applyTokens(&rec, SplitTokens(node))
	}
	return rec
}

// rowID prefers the numeric id in the job URL, then markup attributes, then a random token.
func (e *Extractor) rowID(row *goquery.Selection, link string) string {
	if m := jobIDRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if m := jobSlugIDRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if id := strings.TrimSpace(row.AttrOr("data-job-id", "")); id != "" {
		return id
	}
	if id := strings.TrimSpace(row.AttrOr("id", "")); id != "" {
		return id
	}
	if id := strings.TrimSpace(row.Closest("[data-job-id]").AttrOr("data-job-id", "")); id != "" {
		return id
	}
	return e.newID()
}

// generalApplication synthesizes one record for an employer that lists no roles
// but still shows an apply affordance.
func (e *Extractor) generalApplication(c *goquery.Selection, company models.Company, extractedAt time.Time) (models.ListingRecord, bool) {
	apply := visibleMatch(c, applySelectors)
	if apply == nil {
		return models.ListingRecord{}, false
	}

	link := e.absolute(apply.AttrOr("href", ""))
	if link == "" {
		link = e.absolute(firstAttr(c, companyPageSelectors, "href"))
	}

	location := ""
	for _, d := range company.Details {
		if strings.Contains(d, ",") {
			location = d
			break
		}
	}

	return models.ListingRecord{
		ID:             GeneralID(company.Name),
		Title:          GeneralApplicationTitle,
		Company:        company,
		Location:       location,
		JobType:        "fulltime",
		URL:            link,
		ViewJobURL:     link,
		HasApplyButton: true,
		Metadata:       []string{},
		ExtractedAt:    extractedAt,
	}, true
}

// GeneralID is the id of a synthesized general-application record.
func GeneralID(companyName string) string {
	return "general-" + strings.Join(strings.Fields(strings.ToLower(companyName)), "-")
}

// Select drops invalid records and duplicate URLs, keeping at most max.
// A non-positive max keeps everything.
func Select(records []models.ListingRecord, max int) []models.ListingRecord {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]models.ListingRecord, 0, len(records))
	for _, r := range records {
		if !r.Valid() || seen.Contains(r.URL) {
			continue
		}
		seen.Add(r.URL)
		out = append(out, r)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

func (e *Extractor) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return e.base.ResolveReference(ref).String()
}

func first(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if m := s.Find(sel).First(); m.Length() > 0 {
			return m
		}
	}
	return nil
}

func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		var text string
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			text = strings.Join(strings.Fields(m.Text()), " ")
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(s *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		var val string
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			val = strings.TrimSpace(m.AttrOr(attr, ""))
			return val == ""
		})
		if val != "" {
			return val
		}
	}
	return ""
}

// allTexts returns the non-empty texts of every match of the first selector that
// yields any.
func allTexts(s *goquery.Selection, selectors []string) []string {
	for _, sel := range selectors {
		var texts []string
		s.Find(sel).Each(func(_ int, m *goquery.Selection) {
			if t := strings.Join(strings.Fields(m.Text()), " "); t != "" {
				texts = append(texts, t)
			}
		})
		if len(texts) > 0 {
			return texts
		}
	}
	return nil
}

func visibleMatch(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		var hit *goquery.Selection
		s.Find(sel).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			if dom.Hidden(m) {
				return true
			}
			hit = m
			return false
		})
		if hit != nil {
			return hit
		}
	}
	return nil
}
