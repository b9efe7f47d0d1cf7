package filter

import (
	"testing"

	"go-startup-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(title string, metadata ...string) models.ListingRecord {
	return models.ListingRecord{
		Title:    title,
		URL:      "https://www.workatastartup.com/jobs/" + title,
		Metadata: metadata,
	}
}

func TestScore(t *testing.T) {
	f := Default()
	tests := []struct {
		name     string
		rec      models.ListingRecord
		expected int
	}{
		{
			name:     "Perfect match",
			rec:      listing("Junior Software Engineer", "Remote", "Go, Docker"),
			expected: 9,
		},
		{
			name: "Senior penalty",
			rec: models.ListingRecord{
				Title:      "Senior Software Engineer",
				Experience: "5+ years",
				Metadata:   []string{"Remote"},
			},
			expected: 0,
		},
		{
			name:     "Sponsorship bonus capped at ten",
			rec:      models.ListingRecord{Title: "New Grad Backend Engineer", Visa: "Will sponsor", Location: "Remote"},
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.rec, f))
		})
	}
}

func TestMatches(t *testing.T) {
	f := Default()

	assert.True(t, Matches(listing("Software Engineer", "Remote"), f))
	assert.True(t, Matches(listing("Développeur Backend Engineer", "remote ok"), f))
	assert.False(t, Matches(listing("Software Engineer", "San Francisco, CA, US"), f), "remote required")
	assert.False(t, Matches(listing("Product Designer", "Remote"), f), "role not wanted")
	assert.False(t, Matches(listing("Staff Engineer", "Remote"), f), "too senior")

	threeYears := listing("Software Engineer", "Remote")
	threeYears.Experience = "3+ years"
	assert.False(t, Matches(threeYears, f))

	f.RemoteOnly = false
	f.Roles = nil
	assert.True(t, Matches(listing("Product Designer", "Berlin, DE"), f))
}

func TestApply(t *testing.T) {
	f := Default()
	f.MaxApplications = 2
	records := []models.ListingRecord{
		listing("Software Engineer", "Remote"),
		listing("Product Designer", "Remote"),
		listing("Junior Software Engineer", "Remote", "Go"),
		listing("Founding Engineer", "Remote"),
	}

	out := Apply(records, f)

	require.Len(t, out, 2)
	assert.Equal(t, "Junior Software Engineer", out[0].Title)
	assert.Equal(t, "Software Engineer", out[1].Title)
}

func TestSteps(t *testing.T) {
	steps := Steps(JobFilter{ExperienceLevel: "0-1", Roles: []string{"Engineer"}, RemoteOnly: true})

	require.Len(t, steps, 5)
	assert.Equal(t, "experience-menu", steps[0].Name)
	assert.Equal(t, `button[data-value="0-1"]`, steps[1].Candidates[0].Selector)
	assert.Equal(t, "role-Engineer", steps[3].Name)
	assert.Equal(t, "remote", steps[4].Name)

	assert.Empty(t, Steps(JobFilter{}))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "developpeur senior", normalizeText("Développeur SENIOR"))
}
