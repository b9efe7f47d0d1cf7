package filter

import (
	"sort"
	"strings"

	"go-startup-automation/internal/models"
)

// Matches reports whether r fits f: a wanted role in the title, remote when
// required, and no senior or 3+ years signal.
func Matches(r models.ListingRecord, f JobFilter) bool {
	title := normalizeText(r.Title)

	if len(f.Roles) > 0 && !containsRole(title, f.Roles) {
		return false
	}
	if f.RemoteOnly && !isRemote(r) {
		return false
	}
	if seniorRegex.MatchString(title) {
		return false
	}
	if experienceRegex.MatchString(r.Experience) {
		return false
	}
	return true
}

// Score ranks a record from 0 to 10.
func Score(r models.ListingRecord, f JobFilter) int {
	score := 0
	text := normalizeText(r.Title + " " + strings.Join(r.Metadata, " ") + " " + r.Company.Description)

	//role match (+3)
	if containsRole(normalizeText(r.Title), f.Roles) {
		score += 3
	}

	//level match (+3)
	if juniorRegex.MatchString(text) {
		score += 3
	}

	//remote (+2)
	if isRemote(r) {
		score += 2
	}

	//tech stack bonus
	if techStackRegex.MatchString(text) {
		score += 1
	}

	//visa sponsorship bonus
	if strings.Contains(normalizeText(r.Visa), "sponsor") {
		score += 1
	}

	//penalty: senior or exp >= 3 years => -5
	if seniorRegex.MatchString(r.Title) || experienceRegex.MatchString(r.Experience) {
		score -= 5
	}

	if score > 10 {
		return 10
	}
	if score < 0 {
		return 0
	}
	return score
}

// Apply keeps the records that match f, best score first, capped at
// f.MaxApplications when positive. Ties keep extraction order.
func Apply(records []models.ListingRecord, f JobFilter) []models.ListingRecord {
	type scored struct {
		rec   models.ListingRecord
		score int
	}
	var kept []scored
	for _, r := range records {
		if Matches(r, f) {
			kept = append(kept, scored{r, Score(r, f)})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]models.ListingRecord, 0, len(kept))
	for _, k := range kept {
		if f.MaxApplications > 0 && len(out) == f.MaxApplications {
			break
		}
		out = append(out, k.rec)
	}
	return out
}

func containsRole(title string, roles []string) bool {
	for _, role := range roles {
		if role = normalizeText(strings.TrimSpace(role)); role != "" && strings.Contains(title, role) {
			return true
		}
	}
	return false
}

func isRemote(r models.ListingRecord) bool {
	if strings.Contains(normalizeText(r.Location), "remote") {
		return true
	}
	for _, m := range r.Metadata {
		if strings.Contains(normalizeText(m), "remote") {
			return true
		}
	}
	for _, d := range r.Company.Details {
		if strings.Contains(normalizeText(d), "remote") {
			return true
		}
	}
	return false
}
