package listing

import (
	"regexp"
	"strings"

	"go-startup-automation/internal/models"
)

// Field is the record field a metadata token fills.
type Field string

const (
	FieldNone       Field = ""
	FieldSalary     Field = "salary"
	FieldEquity     Field = "equity"
	FieldExperience Field = "experience"
	FieldLocation   Field = "location"
	FieldJobType    Field = "jobType"
	FieldVisa       Field = "visa"
)

var (
	salaryRegex       = regexp.MustCompile(`[$€£¥₹]|\d\s*[kK]\b`)
	compensationRegex = regexp.MustCompile(`[$€£¥₹%]`)
	wordRegex         = regexp.MustCompile(`[A-Za-z]+`)
	separatorReplacer = strings.NewReplacer("•", "\n", "·", "\n", "|", "\n")
)

var countryCodes = map[string]bool{
	"US": true, "USA": true, "CA": true, "UK": true, "GB": true, "IE": true,
	"IN": true, "DE": true, "FR": true, "NL": true, "ES": true, "IT": true,
	"PT": true, "CH": true, "AT": true, "BE": true, "SE": true, "NO": true,
	"DK": true, "FI": true, "PL": true, "CZ": true, "RO": true, "UA": true,
	"SG": true, "AU": true, "NZ": true, "JP": true, "KR": true, "CN": true,
	"HK": true, "TW": true, "IL": true, "AE": true, "TR": true, "MX": true,
	"BR": true, "AR": true, "CO": true, "CL": true, "PE": true, "NG": true,
	"KE": true, "ZA": true, "EG": true, "PK": true, "PH": true, "VN": true,
	"ID": true, "MY": true, "TH": true,
}

// SplitTokens breaks the text of one metadata node into tokens. Bullets and pipes
// always separate tokens; commas separate only compensation parts, so
// "$120K, 1.5% equity" becomes two tokens while "San Francisco, CA, US" stays one.
func SplitTokens(raw string) []string {
	var out []string
	for _, part := range strings.Split(separatorReplacer.Replace(raw), "\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !compensationRegex.MatchString(part) {
			out = append(out, part)
			continue
		}
		for _, piece := range strings.Split(part, ",") {
			if piece = strings.TrimSpace(piece); piece != "" {
				out = append(out, piece)
			}
		}
	}
	return out
}

// ClassifyToken assigns a token to exactly one field. Rules are checked in a fixed
// order and the first match wins.
func ClassifyToken(token string) Field {
	lower := strings.ToLower(strings.TrimSpace(token))
	switch {
	case lower == "":
		return FieldNone
	case salaryRegex.MatchString(token):
		return FieldSalary
	case strings.Contains(lower, "%"):
		return FieldEquity
	case strings.Contains(lower, "years") || strings.Contains(lower, "grads"):
		return FieldExperience
	case strings.Contains(lower, ",") && hasCountryCode(token):
		return FieldLocation
	case lower == "fulltime" || lower == "parttime":
		return FieldJobType
	case strings.Contains(lower, "visa") || strings.Contains(lower, "citizen") || strings.Contains(lower, "sponsor"):
		return FieldVisa
	}
	return FieldNone
}

func hasCountryCode(token string) bool {
	for _, w := range wordRegex.FindAllString(token, -1) {
		if w == strings.ToUpper(w) && countryCodes[w] {
			return true
		}
	}
	return false
}

// applyTokens fills the typed fields of r from tokens and keeps every token in
// Metadata, matched or not.
func applyTokens(r *models.ListingRecord, tokens []string) {
	for _, tok := range tokens {
		r.Metadata = append(r.Metadata, tok)
		var dst *string
		switch ClassifyToken(tok) {
		case FieldSalary:
			dst = &r.Salary
		case FieldEquity:
			dst = &r.Equity
		case FieldExperience:
			dst = &r.Experience
		case FieldLocation:
			dst = &r.Location
		case FieldJobType:
			dst = &r.JobType
		case FieldVisa:
			dst = &r.Visa
		}
		if dst != nil && *dst == "" {
			*dst = tok
		}
	}
}
