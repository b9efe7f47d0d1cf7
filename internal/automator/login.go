package automator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-startup-automation/internal/dom"
	"go-startup-automation/internal/locator"
)

const (
	loginVerifyTimeout  = 15 * time.Second
	sessionProbeTimeout = time.Second
)

var (
	ErrLoginFormNotFound     = errors.New("login form not found")
	ErrPasswordFieldNotFound = errors.New("password field not found")
	ErrSubmitNotFound        = errors.New("login submit button not found")
	ErrLoginFailed           = errors.New("login failed")
)

// Session is the authentication state of the automator's page.
type Session struct {
	LoggedIn bool
	Email    string
}

// Login signs in through the YC account form. It returns false with a nil error
// when the form was submitted but no logged-in marker appeared.
func (a *Automator) Login(ctx context.Context, email, password string) (bool, error) {
	if a.session.LoggedIn {
		return true, nil
	}
	a.log.Info("🔐 Starting login process...")

	if err := a.page.Navigate(ctx, a.opts.LoginURL); err != nil {
		return false, fmt.Errorf("open login page: %w", err)
	}
	if !strings.Contains(a.page.URL(), "account.ycombinator.com") {
		a.log.Warnf("⚠️ Unexpected URL after navigation: %s", a.page.URL())
	}

	// a restored session may be redirected straight past the form
	if a.alreadyLoggedIn(ctx) {
		a.session = Session{LoggedIn: true, Email: email}
		a.log.Info("✅ Session already active, skipping login form")
		return true, nil
	}

	emailField, form := a.findInput(ctx, emailCandidates, nil)
	if emailField == nil {
		a.capture("login_form_not_found", "Could not find email input field on the login page")
		return false, ErrLoginFormNotFound
	}
	if err := fill(emailField, email); err != nil {
		a.capture("email_fill_error", "Failed to fill email")
		return false, fmt.Errorf("fill email: %w", err)
	}

	passwordField, _ := a.findInput(ctx, passwordCandidates, form)
	if passwordField == nil {
		a.capture("password_field_not_found", "Could not find password field")
		return false, ErrPasswordFieldNotFound
	}
	if err := fill(passwordField, password); err != nil {
		a.capture("password_fill_error", "Failed to fill password")
		return false, fmt.Errorf("fill password: %w", err)
	}

	if submit, ok := a.resolver.Find(ctx, submitCandidates, nil); ok {
		if err := submit.Click(); err != nil {
			return false, fmt.Errorf("submit login form: %w", err)
		}
	} else {
		a.log.Warn("⚠️ Login submit button not found, pressing Enter")
		if err := passwordField.Press("Enter"); err != nil {
			a.capture("login_submit_not_found", "Could not submit login form")
			return false, fmt.Errorf("%w: %v", ErrSubmitNotFound, err)
		}
	}

	verifier := locator.New(a.page, loginVerifyTimeout, a.log)
	if _, ok := verifier.Find(ctx, loggedInCandidates, nil); !ok {
		if msg := a.loginError(ctx); msg != "" {
			a.log.Errorf("❌ Login error: %s", msg)
		}
		a.capture("login_verification_failed", "Login verification failed")
		return false, ctx.Err()
	}

	a.session = Session{LoggedIn: true, Email: email}
	a.log.Info("✅ Login successful")
	return true, nil
}

// Session returns the current authentication state.
func (a *Automator) Session() Session {
	return a.session
}

// findInput resolves candidates on the whole page first. If that fails, it
// retries inside each visible login form, where hidden-but-editable inputs are
// accepted. The form used, if any, is returned so later fields can be scoped to it.
func (a *Automator) findInput(ctx context.Context, candidates []locator.Candidate, form dom.Element) (dom.Element, dom.Element) {
	if el, ok := a.resolver.Find(ctx, candidates, nil); ok {
		return el, form
	}

	scoped := make([]locator.Candidate, len(candidates))
	for i, c := range candidates {
		c.Require = locator.Editable
		scoped[i] = c
	}

	if form != nil {
		if el, ok := a.resolver.Find(ctx, scoped, form); ok {
			return el, form
		}
		return nil, form
	}
	for _, fc := range formCandidates {
		f, ok := a.resolver.Find(ctx, []locator.Candidate{fc}, nil)
		if !ok {
			continue
		}
		a.log.Debugf("🔎 Found form with selector: %s", fc.Selector)
		if el, ok := a.resolver.Find(ctx, scoped, f); ok {
			return el, f
		}
	}
	return nil, nil
}

// alreadyLoggedIn runs one short pass over the logged-in markers.
func (a *Automator) alreadyLoggedIn(ctx context.Context) bool {
	_, ok := locator.New(a.page, sessionProbeTimeout, a.log).Find(ctx, activeSessionCandidates, nil)
	return ok
}

func (a *Automator) loginError(ctx context.Context) string {
	els, err := a.page.QueryAll(ctx, loginErrorSelector, nil)
	if err != nil || len(els) == 0 {
		return ""
	}
	text, err := els[0].Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func fill(el dom.Element, value string) error {
	if err := el.Click(); err != nil {
		return err
	}
	return el.Fill(value)
}
