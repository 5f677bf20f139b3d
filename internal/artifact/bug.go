package artifact

import (
	"regexp"
	"strings"
)

// Bug is one entry of a bug log. Severity and status are normalized to the
// known lowercase vocabularies; anything unrecognized falls back to medium /
// reported rather than failing the parse.
type Bug struct {
	ID              string  `json:"id"`
	Reported        *string `json:"reported"`
	Severity        string  `json:"severity"`
	Status          string  `json:"status"`
	GithubIssue     *string `json:"githubIssue"`
	Description     *string `json:"description"`
	DescriptionHTML string  `json:"descriptionHtml,omitempty"`
	RootCause       *string `json:"rootCause"`
	FixReference    *string `json:"fixReference"`
}

var (
	bugHeadingPattern = regexp.MustCompile(`(?m)^## (BUG-\d+)\s*$`)
	templateFieldRe   = regexp.MustCompile(`^_\(`)

	bugSeverities = map[string]bool{"critical": true, "high": true, "medium": true, "low": true}
	bugStatuses   = map[string]bool{"reported": true, "fixed": true}
)

// ParseBugs extracts bug entries from a bug log. Each bug spans from its
// `## BUG-nnn` heading to the next one; fields are **Name**: value lines
// inside the span. A value that still looks like template placeholder text
// (starts with `_(`) counts as absent.
func ParseBugs(content string) []Bug {
	headings := bugHeadingPattern.FindAllStringSubmatchIndex(content, -1)
	if len(headings) == 0 {
		return nil
	}

	bugs := make([]Bug, 0, len(headings))
	for i, h := range headings {
		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		section := content[h[0]:end]

		bug := Bug{
			ID:           content[h[2]:h[3]],
			Reported:     bugField(section, "Reported"),
			Severity:     "medium",
			Status:       "reported",
			GithubIssue:  bugField(section, "GitHub Issue"),
			Description:  bugField(section, "Description"),
			RootCause:    bugField(section, "Root Cause"),
			FixReference: bugField(section, "Fix Reference"),
		}
		if sev := bugField(section, "Severity"); sev != nil && bugSeverities[*sev] {
			bug.Severity = *sev
		}
		if st := bugField(section, "Status"); st != nil && bugStatuses[*st] {
			bug.Status = *st
		}
		bugs = append(bugs, bug)
	}
	return bugs
}

// bugField extracts a **Name**: value line from a bug section.
func bugField(section, name string) *string {
	re := regexp.MustCompile(`(?m)\*\*` + regexp.QuoteMeta(name) + `\*\*:\s*(.+)`)
	m := re.FindStringSubmatch(section)
	if m == nil {
		return nil
	}
	value := strings.TrimSpace(m[1])
	if value == "" || templateFieldRe.MatchString(value) {
		return nil
	}
	return &value
}
