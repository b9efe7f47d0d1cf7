package automator

import "go-startup-automation/internal/locator"

const (
	editableInput = locator.Visible | locator.Editable
	clickable     = locator.Visible | locator.Enabled
)

var (
	emailCandidates = locator.Selectors("email-input", editableInput,
		`input#ycid-input`,
		`input[name="username"]`,
		`input[type="email"]`,
		`input[autocomplete="username"]`,
		`input[autocomplete="email"]`,
		`input[type="text"]`,
		`input.MuiInput-input`,
	)

	passwordCandidates = locator.Selectors("password-input", editableInput,
		`input[type="password"]`,
		`input[autocomplete="current-password"]`,
		`input[name="password"]`,
		`input#password`,
	)

	formCandidates = locator.Selectors("login-form", locator.Visible,
		`form#sign-in-card`,
		`form[action*="login"]`,
		`form[action*="signin"]`,
		`form`,
	)

	submitCandidates = locator.Selectors("login-submit", clickable,
		`button[type="submit"]`,
		`button:has-text("Log in")`,
		`button:has-text("Sign in")`,
		`input[type="submit"]`,
	)

	// loggedInCandidates only need to exist; any of them means the session is live.
	loggedInCandidates = locator.Selectors("logged-in-marker", 0,
		`a[href*="/dashboard"]`,
		`[data-testid="user-avatar"]`,
		`img[alt*="Profile"]`,
		`.user-avatar`,
		`a[href*="/jobs"]`,
	)

	// activeSessionCandidates are checked before the form is filled. Generic job
	// links are left out since the account pages link to job listings too.
	activeSessionCandidates = locator.Selectors("active-session", 0,
		`a[href*="/dashboard"]`,
		`[data-testid="user-avatar"]`,
		`img[alt*="Profile"]`,
		`.user-avatar`,
	)

	loginErrorSelector = `.error-message, .alert-error, [role="alert"], .text-red-500, .text-red-600`

	// applyButtonCandidates are probed on a detail page but never clicked.
	applyButtonCandidates = locator.Selectors("apply-button", locator.Visible,
		`button:has-text("Apply Now")`,
		`a:has-text("Apply Now")`,
		`a.apply-button`,
		`a[href*="/application"]`,
		`button:has-text("Apply for this job")`,
		`button:has-text("Apply for this position")`,
		`button:has-text("Submit application")`,
		`button:has-text("Quick apply")`,
		`button:has-text("Apply")`,
		`a:has-text("Apply")`,
	)
)
