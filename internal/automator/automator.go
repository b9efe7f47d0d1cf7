// Package automator drives one browsing session through login, filtering,
// listing extraction and per-listing cover letter preparation.
package automator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-startup-automation/internal/analyzer"
	"go-startup-automation/internal/dom"
	"go-startup-automation/internal/filter"
	"go-startup-automation/internal/letter"
	"go-startup-automation/internal/listing"
	"go-startup-automation/internal/locator"
	"go-startup-automation/internal/models"
	"go-startup-automation/internal/scroll"

	"github.com/kataras/golog"
	"golang.org/x/time/rate"
)

// Store persists listings and prepared applications.
type Store interface {
	SaveListing(ctx context.Context, rec models.ListingRecord) error
	SaveApplication(ctx context.Context, app *models.Application) (*models.Application, error)
}

// Notifier reports each processed listing somewhere a human will see it.
type Notifier interface {
	NotifyApplication(ctx context.Context, res models.ApplicationResult) error
}

// SeenCache remembers listing URLs across runs.
type SeenCache interface {
	IsSeen(url string) bool
	Add(urls ...string) error
}

// humanizer and capturer are optional page capabilities of the browser adapter.
type humanizer interface {
	Humanize(ctx context.Context) error
}

type capturer interface {
	Capture(name, message string)
}

type Options struct {
	ListURL  string
	LoginURL string
	BaseURL  string

	Filter filter.JobFilter
	// MatchListings ranks extracted records with Filter before processing.
	MatchListings   bool
	MaxApplications int

	ProbeTimeout     time.Duration
	ScrollSettle     time.Duration
	MaxScrolls       int
	DetailsPerMinute int
	SkipSeen         bool
}

type Automator struct {
	page      dom.Page
	opts      Options
	resolver  *locator.Resolver
	extractor *listing.Extractor
	composer  *letter.Composer
	limiter   *rate.Limiter
	session   Session

	store    Store
	notifier Notifier
	seen     SeenCache

	log *golog.Logger
	now func() time.Time
}

type Option func(*Automator)

func WithStore(s Store) Option { return func(a *Automator) { a.store = s } }

func WithNotifier(n Notifier) Option { return func(a *Automator) { a.notifier = n } }

func WithSeenCache(c SeenCache) Option { return func(a *Automator) { a.seen = c } }

// WithSession starts from an existing session, e.g. one restored from cookies.
func WithSession(s Session) Option { return func(a *Automator) { a.session = s } }

func New(page dom.Page, opts Options, composer *letter.Composer, logger *golog.Logger, options ...Option) (*Automator, error) {
	if logger == nil {
		logger = golog.Default
	}
	if opts.BaseURL == "" {
		return nil, errors.New("automator: base url is required")
	}
	if opts.ListURL == "" {
		opts.ListURL = opts.BaseURL + "/companies"
	}
	if opts.MaxApplications <= 0 {
		opts.MaxApplications = 5
	}

	extractor, err := listing.NewExtractor(opts.BaseURL, logger)
	if err != nil {
		return nil, err
	}
	if composer == nil {
		composer = letter.NewComposer(letter.Profile{}, logger)
	}

	limit := rate.Inf
	if opts.DetailsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.DetailsPerMinute))
	}

	a := &Automator{
		page:      page,
		opts:      opts,
		resolver:  locator.New(page, opts.ProbeTimeout, logger),
		extractor: extractor,
		composer:  composer,
		limiter:   rate.NewLimiter(limit, 1),
		log:       logger,
		now:       time.Now,
	}
	for _, o := range options {
		o(a)
	}
	return a, nil
}

// ApplyFilters clicks through the board's filter bar. Controls that cannot be
// found are skipped; the listing pass works without them.
func (a *Automator) ApplyFilters(ctx context.Context) (applied int) {
	a.log.Info("🎛️ Applying filters...")
	for _, step := range filter.Steps(a.opts.Filter) {
		el, ok := a.resolver.Find(ctx, step.Candidates, nil)
		if !ok {
			a.log.Warnf("⚠️ Filter control %q not found, skipping", step.Name)
			continue
		}
		if err := el.Click(); err != nil {
			a.log.Warnf("⚠️ Failed to click filter %q: %v", step.Name, err)
			continue
		}
		applied++
	}
	a.log.Infof("🎛️ Applied %d filter clicks", applied)
	return applied
}

// BrowseListings loads the board until enough rows exist and returns the records
// to process, at most max of them. Previously seen listings are skipped when a
// cache is configured.
func (a *Automator) BrowseListings(ctx context.Context, max int) ([]models.ListingRecord, error) {
	if a.page.URL() != a.opts.ListURL {
		a.log.Infof("📋 Navigating to %s", a.opts.ListURL)
		if err := a.page.Navigate(ctx, a.opts.ListURL); err != nil {
			return nil, fmt.Errorf("open listings: %w", err)
		}
	}

	loaderOpts := []scroll.Option{
		scroll.WithMaxIterations(a.opts.MaxScrolls),
		scroll.WithLogger(a.log),
	}
	if a.opts.ScrollSettle > 0 {
		loaderOpts = append(loaderOpts, scroll.WithSettle(a.opts.ScrollSettle))
	}
	loader := scroll.NewLoader(a.page, loaderOpts...)
	// load extra rows so filtering and seen-skipping still leave max behind
	if _, err := loader.LoadUntil(ctx, max*2, listing.JobRowSelector); err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	records, err := a.extractor.Extract(ctx, a.page, 0)
	if err != nil {
		return nil, err
	}
	if a.opts.MatchListings {
		f := a.opts.Filter
		f.MaxApplications = 0
		records = filter.Apply(records, f)
		a.log.Infof("🎯 %d listings match the filter", len(records))
	}

	out := make([]models.ListingRecord, 0, max)
	for _, r := range records {
		if a.opts.SkipSeen && a.seen != nil && a.seen.IsSeen(r.URL) {
			a.log.Debugf("⏭️ Already processed %s", r.URL)
			continue
		}
		out = append(out, r)
		if len(out) == max {
			break
		}
	}
	a.log.Infof("🔍 Selected %d of %d listings", len(out), len(records))
	return out, nil
}

// ProcessListing visits rec's detail page and prepares its cover letter. Failures
// are recorded in the result rather than returned.
func (a *Automator) ProcessListing(ctx context.Context, rec models.ListingRecord) models.ApplicationResult {
	res := models.ApplicationResult{Listing: rec, Status: models.StatusFailed}
	a.log.Infof("📝 Processing %s @ %s", rec.Title, rec.Company.Name)

	if err := a.limiter.Wait(ctx); err != nil {
		res.Error = err.Error()
		return res
	}

	detail, err := a.visitDetail(ctx, rec)
	res.ScrapedAt = a.now().UTC()
	if err != nil {
		a.log.Errorf("❌ Failed to process %s: %v", rec.URL, err)
		a.capture("job_"+rec.ID, "Failed to read job page")
		res.Error = err.Error()
		a.record(ctx, res)
		return res
	}
	res.Detail = detail

	_, res.ApplyButton = a.resolver.Find(ctx, applyButtonCandidates, nil)
	if !res.ApplyButton {
		a.log.Warn("⚠️ Could not find an apply button. The job may be filled or closed.")
	}

	classified := analyzer.Classify(detail.FullDescription)
	res.CoverLetter = a.composer.Compose(rec, classified)
	res.Status = models.StatusDraft
	res.Success = true

	a.record(ctx, res)
	return res
}

func (a *Automator) visitDetail(ctx context.Context, rec models.ListingRecord) (models.ExtractionResult, error) {
	if err := a.page.Navigate(ctx, rec.URL); err != nil {
		return models.ExtractionResult{}, err
	}
	if h, ok := a.page.(humanizer); ok {
		if err := h.Humanize(ctx); err != nil {
			a.log.Debugf("humanize: %v", err)
		}
	}
	return a.extractor.Detail(ctx, a.page)
}

// record hands the result to the optional store, notifier and seen cache. Their
// failures are logged only.
func (a *Automator) record(ctx context.Context, res models.ApplicationResult) {
	if a.store != nil {
		if err := a.store.SaveListing(ctx, res.Listing); err != nil {
			a.log.Warnf("⚠️ %v", err)
		} else {
			app := &models.Application{
				ListingID:   res.Listing.ID,
				Status:      res.Status,
				CoverLetter: res.CoverLetter,
			}
			if res.Error != "" {
				app.Notes = &res.Error
			}
			if _, err := a.store.SaveApplication(ctx, app); err != nil {
				a.log.Warnf("⚠️ %v", err)
			}
		}
	}
	if a.notifier != nil {
		if err := a.notifier.NotifyApplication(ctx, res); err != nil {
			a.log.Warnf("⚠️ Failed to send notification: %v", err)
		}
	}
	if a.seen != nil && res.Success {
		if err := a.seen.Add(res.Listing.URL); err != nil {
			a.log.Warnf("⚠️ Failed to update seen cache: %v", err)
		}
	}
}

// Credentials are optional; without them the run relies on a restored session.
type Credentials struct {
	Email    string
	Password string
}

// Run executes the whole workflow. The report is always returned; err is set
// when the run could not complete.
func (a *Automator) Run(ctx context.Context, creds Credentials) (report *models.RunReport, err error) {
	report = &models.RunReport{
		StartTime:    a.now().UTC(),
		Applications: []models.ApplicationResult{},
	}
	defer func() {
		report.EndTime = a.now().UTC()
		if err != nil {
			report.Status = models.RunFailed
			report.Error = err.Error()
			a.log.Errorf("❌ Automation failed: %v", err)
			return
		}
		report.Status = models.RunCompleted
	}()

	if creds.Email != "" {
		ok, err := a.Login(ctx, creds.Email, creds.Password)
		if err != nil {
			return report, err
		}
		if !ok {
			return report, ErrLoginFailed
		}
	}

	if a.session.LoggedIn {
		if err := a.page.Navigate(ctx, a.opts.ListURL); err != nil {
			return report, fmt.Errorf("open listings: %w", err)
		}
		a.ApplyFilters(ctx)
	}

	records, err := a.BrowseListings(ctx, a.opts.MaxApplications)
	if err != nil {
		return report, err
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := a.ProcessListing(ctx, rec)
		report.Applications = append(report.Applications, res)
		if res.Success {
			report.SuccessCount++
		} else {
			report.ErrorCount++
		}
	}

	a.log.Infof("🏁 Processed %d listings: %d ok, %d failed", len(report.Applications), report.SuccessCount, report.ErrorCount)
	return report, nil
}

func (a *Automator) capture(name, message string) {
	if c, ok := a.page.(capturer); ok {
		c.Capture(name, message)
		return
	}
	a.log.Warnf("⚠️ %s", message)
}
