package artifact

import (
	"regexp"
	"strings"
)

// Principle is one constitution principle. Level reflects the strongest
// obligation keyword present in the body (MUST over SHOULD over MAY),
// defaulting to SHOULD.
type Principle struct {
	Number    string `json:"number"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	Rationale string `json:"rationale"`
	Level     string `json:"level"`
}

// ConstitutionVersion is the version/ratified/amended triple from the
// document footer.
type ConstitutionVersion struct {
	Version     string `json:"version"`
	Ratified    string `json:"ratified"`
	LastAmended string `json:"lastAmended"`
}

// Constitution is the parsed project constitution.
type Constitution struct {
	Principles []Principle          `json:"principles"`
	Version    *ConstitutionVersion `json:"version"`
	Exists     bool                 `json:"exists"`
}

var (
	tddTermsPattern  = regexp.MustCompile(`\btdd\b|test-first|red-green-refactor|write tests before|tests must be written before`)
	mandatoryPattern = regexp.MustCompile(`\bmust\b|\brequired\b|non-negotiable`)

	principlePattern = regexp.MustCompile(`^### ([IVXLC]+)\.\s+(.+?)(?:\s+\(.*\))?\s*$`)
	rationalePattern = regexp.MustCompile(`\*\*Rationale\*\*:\s*(.+)`)
	versionPattern   = regexp.MustCompile(`\*\*Version\*\*:\s*(\S+)\s*\|\s*\*\*Ratified\*\*:\s*(\S+)\s*\|\s*\*\*Last Amended\*\*:\s*(\S+)`)

	mustPattern   = regexp.MustCompile(`\bMUST\b`)
	shouldPattern = regexp.MustCompile(`\bSHOULD\b`)
	mayPattern    = regexp.MustCompile(`\bMAY\b`)
)

// ConstitutionRequiresTDD reports whether the constitution both mentions a
// TDD practice and frames it as mandatory. Both halves are required: a
// constitution that merely discusses TDD without obligation language does
// not force the testify phase.
func ConstitutionRequiresTDD(content string) bool {
	lower := strings.ToLower(content)
	return tddTermsPattern.MatchString(lower) && mandatoryPattern.MatchString(lower)
}

// ParseConstitution extracts principles and the version triple. A principle
// heading uses a roman numeral; its body accumulates until the next `### `
// principle or a `## ` section boundary, which terminates principle parsing
// for that block.
func ParseConstitution(content string) Constitution {
	result := Constitution{Principles: []Principle{}, Exists: true}
	if content == "" {
		return result
	}

	var current *Principle
	var body []string
	finalize := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		current.Text = text
		if rm := rationalePattern.FindStringSubmatch(text); rm != nil {
			current.Rationale = strings.TrimSpace(rm[1])
		}
		switch {
		case mustPattern.MatchString(text):
			current.Level = "MUST"
		case shouldPattern.MatchString(text):
			current.Level = "SHOULD"
		case mayPattern.MatchString(text):
			current.Level = "MAY"
		}
		result.Principles = append(result.Principles, *current)
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if m := principlePattern.FindStringSubmatch(line); m != nil {
			finalize()
			current = &Principle{
				Number: m[1],
				Name:   strings.TrimSpace(m[2]),
				Level:  "SHOULD",
			}
			body = body[:0]
			continue
		}
		if current != nil {
			if strings.HasPrefix(line, "## ") {
				finalize()
				continue
			}
			body = append(body, line)
		}
	}
	finalize()

	if vm := versionPattern.FindStringSubmatch(content); vm != nil {
		result.Version = &ConstitutionVersion{
			Version:     vm[1],
			Ratified:    vm[2],
			LastAmended: vm[3],
		}
	}
	return result
}
