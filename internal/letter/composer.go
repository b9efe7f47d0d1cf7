// Package letter composes cover letters from an extracted listing and its
// classified description.
package letter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"go-startup-automation/internal/analyzer"
	"go-startup-automation/internal/models"

	"github.com/kataras/golog"
)

// Profile is the applicant the letter speaks for.
type Profile struct {
	Name       string `yaml:"name" json:"name"`
	Field      string `yaml:"field" json:"field"`
	Skills     string `yaml:"skills" json:"skills"`
	Experience string `yaml:"experience" json:"experience"`
}

// DefaultProfile fills any Profile field left empty.
var DefaultProfile = Profile{
	Name:       "Alex Morgan",
	Field:      "software engineering",
	Skills:     "Go, web development, and problem-solving",
	Experience: "building scalable applications",
}

const (
	defaultRequirement    = "Strong problem-solving skills and a passion for technology"
	defaultResponsibility = "My experience with %s aligns well with the challenges your team is tackling."
)

const letterTemplate = `Dear Hiring Manager,

I'm excited to apply for the {{.Title}} position at {{.Company}}. With my background in {{.Profile.Field}} and hands-on work with {{.Profile.Skills}}, I'm confident in my ability to contribute effectively to your team.

### Why I'm a Great Fit

I noticed that you're looking for someone with:
{{range .Requirements}}- {{.}}
{{end}}
### How I Can Add Value

{{range .Contributions}}- {{.}}
{{end}}
### Why {{.Company}}

I'm particularly drawn to the innovative work {{.Company}} is doing. I'm excited about the opportunity to contribute to your team and help drive meaningful results.

I'd welcome the opportunity to discuss how my background and skills align with your needs. Thank you for your time and consideration.

Best regards,\
{{.Profile.Name}}`

var (
	tmpl = template.Must(template.New("letter").Option("missingkey=error").Parse(letterTemplate))

	pronounReplacer = strings.NewReplacer(
		"you will", "I can",
		"the candidate will", "I can",
		"they will", "I can",
	)
	sectionLabel = regexp.MustCompile(`(?i)^(key\s+)?(responsibilities|responsibility|duties|requirements|qualifications|what you'll do|the role)\s*:\s*`)
)

type letterData struct {
	Title         string
	Company       string
	Profile       Profile
	Requirements  []string
	Contributions []string
}

type Composer struct {
	profile Profile
	tmpl    *template.Template
	log     *golog.Logger
}

func NewComposer(profile Profile, logger *golog.Logger) *Composer {
	if logger == nil {
		logger = golog.Default
	}
	return &Composer{profile: withDefaults(profile), tmpl: tmpl, log: logger}
}

func withDefaults(p Profile) Profile {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultProfile.Name
	}
	if strings.TrimSpace(p.Field) == "" {
		p.Field = DefaultProfile.Field
	}
	if strings.TrimSpace(p.Skills) == "" {
		p.Skills = DefaultProfile.Skills
	}
	if strings.TrimSpace(p.Experience) == "" {
		p.Experience = DefaultProfile.Experience
	}
	return p
}

// Compose always returns a non-empty letter. A record without a title or company
// name, or any template failure, yields Fallback. The extractor's UnknownCompany
// placeholder is written as "your company".
func (c *Composer) Compose(record models.ListingRecord, classified analyzer.Classified) (letter string) {
	title := strings.TrimSpace(record.Title)
	company := strings.TrimSpace(record.Company.Name)

	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("❌ Letter template panicked: %v", r)
			letter = c.Fallback(title, company)
		}
	}()

	if title == "" || company == "" {
		c.log.Warnf("⚠️ Incomplete listing %q, using fallback letter", record.ID)
		return c.Fallback(title, company)
	}

	data := letterData{
		Title:         title,
		Company:       displayCompany(company),
		Profile:       c.profile,
		Requirements:  classified.Requirements,
		Contributions: make([]string, 0, len(classified.Responsibilities)),
	}
	for _, r := range classified.Responsibilities {
		if t := FirstPerson(r); t != "" {
			data.Contributions = append(data.Contributions, t)
		}
	}
	if len(data.Requirements) == 0 {
		data.Requirements = []string{defaultRequirement}
	}
	if len(data.Contributions) == 0 {
		data.Contributions = []string{fmt.Sprintf(defaultResponsibility, c.profile.Experience)}
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		c.log.Errorf("❌ Failed to render letter: %v", err)
		return c.Fallback(title, company)
	}
	return buf.String()
}

// Fallback is the short letter used when composition is not possible. It only
// mentions the title and company when they are known.
func (c *Composer) Fallback(title, company string) string {
	if title == "" {
		title = "position"
	}
	company = displayCompany(company)
	return "Dear Hiring Manager,\n\n" +
		"I'm excited to apply for the " + title + " at " + company + ".\n\n" +
		"I believe my skills and experience make me a strong candidate for this role.\n\n" +
		"Looking forward to the opportunity to discuss how I can contribute to your team.\n\n" +
		"Best regards,\\\n" + c.profile.Name
}

func displayCompany(name string) string {
	if name == "" || name == models.UnknownCompany {
		return "your company"
	}
	return name
}

// FirstPerson rewrites a responsibility line as something the applicant can do:
// a leading section label is dropped, the line is lower-cased, "you will",
// "the candidate will" and "they will" become "I can", and the first letter is
// capitalized.
func FirstPerson(line string) string {
	line = strings.TrimSpace(sectionLabel.ReplaceAllString(strings.TrimSpace(line), ""))
	line = strings.TrimLeft(line, "-•*· ")
	if line == "" {
		return ""
	}
	line = pronounReplacer.Replace(strings.ToLower(line))
	r, size := utf8.DecodeRuneInString(line)
	return string(unicode.ToUpper(r)) + line[size:]
}
