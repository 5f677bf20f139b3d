package artifact

import (
	"fmt"
	"regexp"
	"strings"
)

// Requirement is a functional requirement (FR-nnn) or success criterion
// (SC-nnn) bullet. The two share a shape and are treated as one semantic
// class for coverage and traceability.
type Requirement struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Clarification is one question/answer pair from a dated clarification
// session, with trailing bracketed reference tags stripped from the answer.
type Clarification struct {
	Session  string   `json:"session"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Refs     []string `json:"refs"`
}

var (
	frPattern = regexp.MustCompile(`- \*\*FR-(\d+)\*\*:\s*(.*)`)
	scPattern = regexp.MustCompile(`- \*\*SC-(\d+)\*\*:\s*(.*)`)

	clarificationsHeading = regexp.MustCompile(`(?m)^## Clarifications`)
	sessionPattern        = regexp.MustCompile(`^### Session (\d{4}-\d{2}-\d{2})`)
	qaPattern             = regexp.MustCompile(`^- Q:\s*(.*?)\s*->\s*A:\s*(.*)`)
	answerRefsPattern     = regexp.MustCompile(`\[((?:(?:FR|US|SC)-\w+(?:,\s*)?)+)\]\s*$`)
	refSplitPattern       = regexp.MustCompile(`,\s*`)
)

// ParseRequirements extracts FR bullets from anywhere in the document.
func ParseRequirements(content string) []Requirement {
	return parseIDBullets(content, frPattern, "FR")
}

// ParseSuccessCriteria extracts SC bullets from anywhere in the document.
func ParseSuccessCriteria(content string) []Requirement {
	return parseIDBullets(content, scPattern, "SC")
}

func parseIDBullets(content string, pattern *regexp.Regexp, prefix string) []Requirement {
	matches := pattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	reqs := make([]Requirement, 0, len(matches))
	for _, m := range matches {
		reqs = append(reqs, Requirement{
			ID:   fmt.Sprintf("%s-%s", prefix, m[1]),
			Text: strings.TrimSpace(m[2]),
		})
	}
	return reqs
}

// HasClarifications reports whether the document contains a Clarifications
// section heading.
func HasClarifications(content string) bool {
	return clarificationsHeading.MatchString(content)
}

// ParseClarifications extracts Q&A pairs from the Clarifications section.
// Pairs only count inside a dated session; a trailing bracketed id group on
// the answer is split into Refs and removed from the answer text.
func ParseClarifications(content string) []Clarification {
	if !HasClarifications(content) {
		return nil
	}

	var clarifications []Clarification
	currentSession := ""
	inSection := false

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## Clarifications") {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(line, "## ") {
			break
		}
		if !inSection {
			continue
		}

		if m := sessionPattern.FindStringSubmatch(line); m != nil {
			currentSession = m[1]
			continue
		}

		m := qaPattern.FindStringSubmatch(line)
		if m == nil || currentSession == "" {
			continue
		}

		answer := strings.TrimSpace(m[2])
		refs := []string{}
		if rm := answerRefsPattern.FindStringSubmatch(answer); rm != nil {
			for _, ref := range refSplitPattern.Split(rm[1], -1) {
				if ref = strings.TrimSpace(ref); ref != "" {
					refs = append(refs, ref)
				}
			}
			answer = strings.TrimSpace(answer[:strings.LastIndex(answer, "[")])
		}

		clarifications = append(clarifications, Clarification{
			Session:  currentSession,
			Question: strings.TrimSpace(m[1]),
			Answer:   answer,
			Refs:     refs,
		})
	}
	return clarifications
}
