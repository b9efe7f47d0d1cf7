package models

import (
	"strings"
	"time"
)

// UntitledPosition is the title placeholder the board renders for rows without a name.
const UntitledPosition = "Untitled Position"

// UnknownCompany is used when no employer name could be located.
const UnknownCompany = "Unknown Company"

type Logo struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Company struct {
	Name        string   `json:"name"`
	Batch       string   `json:"batch"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	Twitter     string   `json:"twitter"`
	Logo        Logo     `json:"logo"`
	Details     []string `json:"details"`
}

// ListingRecord is one job (or general application) extracted from the board.
type ListingRecord struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        Company   `json:"company"`
	Location       string    `json:"location"`
	Salary         string    `json:"salary"`
	Equity         string    `json:"equity"`
	Experience     string    `json:"experience"`
	JobType        string    `json:"jobType"`
	Visa           string    `json:"visa"`
	URL            string    `json:"url"`
	ViewJobURL     string    `json:"viewJobUrl"`
	HasApplyButton bool      `json:"hasApplyButton"`
	Metadata       []string  `json:"metadata"`
	ExtractedAt    time.Time `json:"extractedAt"`
}

// Valid reports whether the record carries a usable title and URL.
func (r ListingRecord) Valid() bool {
	title := strings.TrimSpace(r.Title)
	return title != "" && title != UntitledPosition && strings.TrimSpace(r.URL) != ""
}

// ExtractionResult holds the main content block of a job detail page.
type ExtractionResult struct {
	FullDescription string `json:"full_description"`
	HTMLContent     string `json:"html_content"`
	FoundUsing      string `json:"found_using"`
}
