package artifact

import (
	"regexp"
	"strings"
)

// Decision is one numbered entry from a research document's Decisions
// section.
type Decision struct {
	Title     string `json:"title"`
	Decision  string `json:"decision"`
	Rationale string `json:"rationale"`
}

var (
	decisionHeadingPattern  = regexp.MustCompile(`^### \d+\.\s+(.+)`)
	decisionLinePattern     = regexp.MustCompile(`\*\*Decision\*\*:\s*(.+)`)
	decisionRationaleRegexp = regexp.MustCompile(`\*\*Rationale\*\*:\s*(.+)`)
)

// ParseDecisions extracts numbered decision blocks from the Decisions
// section. Each block runs from its `### N. Title` heading to the next such
// heading or the end of the section.
func ParseDecisions(content string) []Decision {
	section, ok := SectionBody(content, "Decisions")
	if !ok {
		return nil
	}

	var decisions []Decision
	var current *Decision
	for _, line := range strings.Split(section, "\n") {
		if m := decisionHeadingPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				decisions = append(decisions, *current)
			}
			current = &Decision{Title: strings.TrimSpace(m[1])}
			continue
		}
		if current == nil {
			continue
		}
		if m := decisionLinePattern.FindStringSubmatch(line); m != nil {
			current.Decision = strings.TrimSpace(m[1])
		} else if m := decisionRationaleRegexp.FindStringSubmatch(line); m != nil {
			current.Rationale = strings.TrimSpace(m[1])
		}
	}
	if current != nil {
		decisions = append(decisions, *current)
	}
	return decisions
}
