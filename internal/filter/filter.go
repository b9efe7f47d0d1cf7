// Package filter narrows the job board to the roles worth applying for, both on
// the page (filter buttons) and over extracted records (matching and scoring).
package filter

import (
	"fmt"

	"go-startup-automation/internal/locator"
)

// JobFilter holds the search criteria for one run.
type JobFilter struct {
	ExperienceLevel string   `yaml:"experience_level" json:"experience_level"`
	Roles           []string `yaml:"roles" json:"roles"`
	RemoteOnly      bool     `yaml:"remote_only" json:"remote_only"`
	MaxApplications int      `yaml:"max_applications" json:"max_applications"`
}

// Default matches the entry-level engineering search.
func Default() JobFilter {
	return JobFilter{
		ExperienceLevel: "0-1",
		Roles:           []string{"Software Engineer", "Developer", "Engineer"},
		RemoteOnly:      true,
		MaxApplications: 10,
	}
}

// Step is one click on the board's filter bar.
type Step struct {
	Name       string
	Candidates []locator.Candidate
}

const clickable = locator.Visible | locator.Enabled

// Steps lists the clicks that put f into effect, in order. Each step is resolved
// independently; a step that cannot be found is skipped by the caller.
func Steps(f JobFilter) []Step {
	var steps []Step
	if f.ExperienceLevel != "" {
		steps = append(steps,
			Step{Name: "experience-menu", Candidates: locator.Selectors("experience-menu", clickable,
				`button[data-filter="experience"]`,
				`button:has-text("Experience Level")`,
				`button:has-text("Experience")`,
			)},
			Step{Name: "experience-" + f.ExperienceLevel, Candidates: locator.Selectors("experience-option", clickable,
				fmt.Sprintf(`button[data-value=%q]`, f.ExperienceLevel),
				fmt.Sprintf(`button:has-text(%q)`, f.ExperienceLevel),
			)},
		)
	}
	for _, role := range f.Roles {
		steps = append(steps,
			Step{Name: "role-menu", Candidates: locator.Selectors("role-menu", clickable,
				`button[data-filter="role"]`,
				`button:has-text("Role")`,
			)},
			Step{Name: "role-" + role, Candidates: locator.Selectors("role-option", clickable,
				fmt.Sprintf(`button[data-value=%q]`, role),
				fmt.Sprintf(`button:has-text(%q)`, role),
			)},
		)
	}
	if f.RemoteOnly {
		steps = append(steps, Step{Name: "remote", Candidates: locator.Selectors("remote-toggle", clickable,
			`button[data-filter="remote"]`,
			`button:has-text("Remote")`,
			`label:has-text("Remote") input[type="checkbox"]`,
		)})
	}
	return steps
}
