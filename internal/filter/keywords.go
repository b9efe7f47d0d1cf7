package filter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	seniorRegex     = regexp.MustCompile(`(?i)\b(senior|sr\.?|lead|manager|principal|staff|architect|head of|director)\b`)
	juniorRegex     = regexp.MustCompile(`(?i)\b(new grads?|fresher|intern|junior|entry[\s-]?level|graduate|0\s*-\s*[12]\s*years?|1\+\s*years?)\b`)
	techStackRegex  = regexp.MustCompile(`(?i)\b(go|golang|docker|kubernetes|aws|gcp|microservices|rest\s*api|grpc|backend|back-end|postgres)\b`)
	experienceRegex = regexp.MustCompile(`(?i)\b([3-9]|\d{2,})\s*(\+|plus)?\s*(years?|yoe)\b`)
)

// normalizeText strips diacritics and lower-cases, so "Développeur" matches "developpeur".
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}
