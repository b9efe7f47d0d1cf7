package letter

import (
	"strings"
	"testing"
	"text/template"

	"go-startup-automation/internal/analyzer"
	"go-startup-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(title, company string) models.ListingRecord {
	return models.ListingRecord{
		ID:      "12345",
		Title:   title,
		Company: models.Company{Name: company},
		URL:     "https://www.workatastartup.com/jobs/12345",
	}
}

func TestCompose_EndToEnd(t *testing.T) {
	c := NewComposer(Profile{Name: "Sam Rivera"}, nil)
	classified := analyzer.Classify("Requirements: 3 years experience.\nResponsibilities: you will own onboarding.")

	letter := c.Compose(record("Backend Engineer", "Acme"), classified)

	assert.Contains(t, letter, "- Requirements: 3 years experience.\n")
	assert.Contains(t, letter, "- I can own onboarding.\n")
	assert.Contains(t, letter, "### Why Acme")
	assert.Contains(t, letter, "Backend Engineer position at Acme")
	assert.True(t, strings.HasPrefix(letter, "Dear Hiring Manager,"))
	assert.True(t, strings.HasSuffix(letter, "Best regards,\\\nSam Rivera"))
	for _, placeholder := range []string{"{", "}", "[", "]"} {
		assert.NotContains(t, letter, placeholder)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	c := NewComposer(Profile{}, nil)
	classified := analyzer.Classified{
		Requirements:     []string{"Go experience"},
		Responsibilities: []string{"You will build APIs"},
	}

	first := c.Compose(record("Backend Engineer", "Acme"), classified)
	second := c.Compose(record("Backend Engineer", "Acme"), classified)

	assert.Equal(t, first, second)
}

func TestCompose_DefaultBullets(t *testing.T) {
	c := NewComposer(Profile{}, nil)

	letter := c.Compose(record("Backend Engineer", "Acme"), analyzer.Classified{})

	assert.Contains(t, letter, "- "+defaultRequirement+"\n")
	assert.Contains(t, letter, "- My experience with "+DefaultProfile.Experience)
	assert.True(t, strings.HasSuffix(letter, DefaultProfile.Name))
}

func TestCompose_FallbackOnMalformedRecord(t *testing.T) {
	c := NewComposer(Profile{Name: "Sam Rivera"}, nil)
	classified := analyzer.Classified{Requirements: []string{"Go experience"}}

	missingTitle := c.Compose(record("", "Acme"), classified)
	missingCompany := c.Compose(record("Backend Engineer", ""), classified)

	assert.Equal(t, c.Fallback("", "Acme"), missingTitle)
	assert.Contains(t, missingTitle, "the position at Acme")
	assert.NotContains(t, missingTitle, "Why I'm a Great Fit")
	assert.Contains(t, missingCompany, "the Backend Engineer at your company")
}

func TestCompose_UnknownCompanyGetsFullLetter(t *testing.T) {
	c := NewComposer(Profile{Name: "Sam Rivera"}, nil)
	rec := record("Backend Engineer", models.UnknownCompany)
	require.True(t, rec.Valid())

	letter := c.Compose(rec, analyzer.Classify("Requirements: 3 years experience.\nYou will own onboarding."))

	assert.NotEqual(t, c.Fallback("Backend Engineer", models.UnknownCompany), letter)
	assert.Contains(t, letter, "Backend Engineer position at your company")
	assert.Contains(t, letter, "### Why I'm a Great Fit")
	assert.Contains(t, letter, "- Requirements: 3 years experience.\n")
	assert.Contains(t, letter, "- I can own onboarding.\n")
	assert.NotContains(t, letter, models.UnknownCompany)
}

func TestCompose_FallbackOnTemplateFailure(t *testing.T) {
	c := NewComposer(Profile{}, nil)
	c.tmpl = template.Must(template.New("broken").Parse(`{{.Missing.Field}}`))

	letter := c.Compose(record("Backend Engineer", "Acme"), analyzer.Classified{})

	require.NotEmpty(t, letter)
	assert.Equal(t, c.Fallback("Backend Engineer", "Acme"), letter)
}

func TestCompose_FuncPanicFallsBack(t *testing.T) {
	c := NewComposer(Profile{}, nil)
	c.tmpl = template.Must(template.New("panics").Funcs(template.FuncMap{
		"boom": func() string { panic("boom") },
	}).Parse(`{{boom}}`))

	var letter string
	assert.NotPanics(t, func() {
		letter = c.Compose(record("Backend Engineer", "Acme"), analyzer.Classified{})
	})
	assert.Equal(t, c.Fallback("Backend Engineer", "Acme"), letter)
}

func TestFirstPerson(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"You will own onboarding", "I can own onboarding"},
		{"Responsibilities: you will own onboarding.", "I can own onboarding."},
		{"The candidate will Lead design reviews", "I can lead design reviews"},
		{"They will mentor interns", "I can mentor interns"},
		{"- Ship features weekly", "Ship features weekly"},
		{"Responsibilities:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstPerson(tt.in))
		})
	}
}
