// Package analyzer sorts the lines of a job description into requirements and
// responsibilities using keyword matching.
package analyzer

import (
	"strings"
)

// MaxPerBucket is the number of lines kept per category.
const MaxPerBucket = 5

type Category int

const (
	Unclassified Category = iota
	Requirement
	Responsibility
)

func (c Category) String() string {
	switch c {
	case Requirement:
		return "requirement"
	case Responsibility:
		return "responsibility"
	}
	return "unclassified"
}

var (
	requirementKeywords = []string{
		"requirement", "qualification", "skill", "experience",
		"proficiency", "knowledge of", "familiar with",
	}
	responsibilityKeywords = []string{
		"responsibilit", "dutie", "you will", "role will", "key function",
	}
)

// Line is one non-blank description line with its category.
type Line struct {
	Text     string
	Category Category
}

type Classified struct {
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
}

// ClassifyLine checks requirement keywords before responsibility keywords, so a
// line carrying both is a requirement.
func ClassifyLine(line string) Category {
	lower := strings.ToLower(line)
	if containsAny(lower, requirementKeywords) {
		return Requirement
	}
	if containsAny(lower, responsibilityKeywords) {
		return Responsibility
	}
	return Unclassified
}

// Lines splits text on line breaks and classifies each trimmed, non-blank line.
func Lines(text string) []Line {
	var out []Line
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		out = append(out, Line{Text: line, Category: ClassifyLine(line)})
	}
	return out
}

// Classify keeps the first MaxPerBucket lines of each category in document order.
func Classify(description string) Classified {
	c := Classified{Requirements: []string{}, Responsibilities: []string{}}
	for _, l := range Lines(description) {
		switch l.Category {
		case Requirement:
			if len(c.Requirements) < MaxPerBucket {
				c.Requirements = append(c.Requirements, l.Text)
			}
		case Responsibility:
			if len(c.Responsibilities) < MaxPerBucket {
				c.Responsibilities = append(c.Responsibilities, l.Text)
			}
		}
	}
	return c
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
