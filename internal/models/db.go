package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusDraft        ApplicationStatus = "draft"
	StatusSubmitted    ApplicationStatus = "submitted"
	StatusRejected     ApplicationStatus = "rejected"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffered      ApplicationStatus = "offered"
	StatusFailed       ApplicationStatus = "failed"
)

// Application tracks the letter prepared for one listing.
type Application struct {
	ID          string            `json:"id"`
	ListingID   string            `json:"listing_id"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"cover_letter"`
	Notes       *string           `json:"notes,omitempty"`
	AppliedAt   *time.Time        `json:"applied_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ApplicationResult is what one detail-page pass produces for a listing.
type ApplicationResult struct {
	Listing     ListingRecord     `json:"listing"`
	Detail      ExtractionResult  `json:"detail"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	ApplyButton bool              `json:"apply_button_found"`
	Status      ApplicationStatus `json:"status"`
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	ScrapedAt   time.Time         `json:"scraped_at"`
}

// RunStatus is the outcome of a whole automation run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunReport summarizes one automation run.
type RunReport struct {
	StartTime    time.Time           `json:"start_time"`
	EndTime      time.Time           `json:"end_time"`
	Applications []ApplicationResult `json:"applications"`
	SuccessCount int                 `json:"success_count"`
	ErrorCount   int                 `json:"error_count"`
	Status       RunStatus           `json:"status"`
	Error        string              `json:"error,omitempty"`
}
