package models

import "testing"

func TestListingRecord_Valid(t *testing.T) {
	tests := []struct {
		name   string
		record ListingRecord
		want   bool
	}{
		{"complete", ListingRecord{Title: "Backend Engineer", URL: "https://www.workatastartup.com/jobs/1"}, true},
		{"missing title", ListingRecord{URL: "https://www.workatastartup.com/jobs/1"}, false},
		{"whitespace title", ListingRecord{Title: "   ", URL: "https://www.workatastartup.com/jobs/1"}, false},
		{"sentinel title", ListingRecord{Title: UntitledPosition, URL: "https://www.workatastartup.com/jobs/1"}, false},
		{"missing url", ListingRecord{Title: "Backend Engineer"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Valid(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
