package artifact

import (
	"regexp"
	"strings"
)

// TestSpec is one identified test scenario, from either Gherkin feature
// files or the legacy markdown test-spec format.
type TestSpec struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Priority     string   `json:"priority"`
	Traceability []string `json:"traceability"`
}

var (
	gherkinScenarioPattern = regexp.MustCompile(`^\s*Scenario(?: Outline)?:\s*(.+)`)
	gherkinTagLinePattern  = regexp.MustCompile(`^\s*@\S`)
	gherkinTagPattern      = regexp.MustCompile(`@(\S+)`)
	tsTagPattern           = regexp.MustCompile(`^TS-\d+$`)
	priorityTagPattern     = regexp.MustCompile(`^P\d+$`)
	traceTagPattern        = regexp.MustCompile(`^(?:FR|SC)-\d+$`)

	legacySpecPattern      = regexp.MustCompile(`(?m)^### (TS-\d+):\s*(.+)`)
	legacyTypePattern      = regexp.MustCompile(`\*\*Type\*\*:\s*(\S+)`)
	legacyPriorityPattern  = regexp.MustCompile(`\*\*Priority\*\*:\s*(\S+)`)
	legacyTracePattern     = regexp.MustCompile(`\*\*Traceability\*\*:\s*(.+)`)
	legacyTraceIDExtractor = regexp.MustCompile(`(?:FR|SC)-\d+`)
)

// specTypes are the recognized scenario type tags. Anything else falls back
// to validation.
var specTypes = map[string]bool{
	"acceptance": true,
	"contract":   true,
	"validation": true,
}

// ParseGherkinSpecs extracts tagged scenarios from Gherkin feature text. Tag
// lines above a Scenario accumulate; a scenario only counts when a TS-nnn
// tag is pending. Any other non-empty, non-tag line discards accumulated
// tags, so tags never leak across steps or comments onto a later scenario.
func ParseGherkinSpecs(content string) []TestSpec {
	var specs []TestSpec
	var pendingTags []string

	for _, line := range strings.Split(content, "\n") {
		if gherkinTagLinePattern.MatchString(line) {
			for _, m := range gherkinTagPattern.FindAllStringSubmatch(line, -1) {
				pendingTags = append(pendingTags, m[1])
			}
			continue
		}

		if m := gherkinScenarioPattern.FindStringSubmatch(line); m != nil {
			spec := specFromTags(pendingTags, strings.TrimSpace(m[1]))
			if spec != nil {
				specs = append(specs, *spec)
			}
			pendingTags = nil
			continue
		}

		if strings.TrimSpace(line) != "" {
			pendingTags = nil
		}
	}
	return specs
}

// specFromTags builds a TestSpec from accumulated scenario tags, or nil when
// no TS id tag is present.
func specFromTags(tags []string, name string) *TestSpec {
	spec := TestSpec{
		Name:         name,
		Type:         "validation",
		Priority:     "P3",
		Traceability: []string{},
	}
	for _, tag := range tags {
		switch {
		case tsTagPattern.MatchString(tag):
			spec.ID = tag
		case specTypes[tag]:
			spec.Type = tag
		case priorityTagPattern.MatchString(tag):
			spec.Priority = tag
		case traceTagPattern.MatchString(tag):
			spec.Traceability = append(spec.Traceability, tag)
		}
	}
	if spec.ID == "" {
		return nil
	}
	return &spec
}

// ParseLegacySpecs extracts test specs from the markdown heading format:
// `### TS-nnn: Name` followed by **Type**, **Priority** and **Traceability**
// field lines within the heading's span.
func ParseLegacySpecs(content string) []TestSpec {
	headings := legacySpecPattern.FindAllStringSubmatchIndex(content, -1)
	if len(headings) == 0 {
		return nil
	}

	specs := make([]TestSpec, 0, len(headings))
	for i, h := range headings {
		end := len(content)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		span := content[h[0]:end]

		spec := TestSpec{
			ID:           content[h[2]:h[3]],
			Name:         strings.TrimSpace(content[h[4]:h[5]]),
			Type:         "validation",
			Priority:     "P3",
			Traceability: []string{},
		}
		if m := legacyTypePattern.FindStringSubmatch(span); m != nil && specTypes[m[1]] {
			spec.Type = m[1]
		}
		if m := legacyPriorityPattern.FindStringSubmatch(span); m != nil && priorityTagPattern.MatchString(m[1]) {
			spec.Priority = m[1]
		}
		if m := legacyTracePattern.FindStringSubmatch(span); m != nil {
			spec.Traceability = append(spec.Traceability, legacyTraceIDExtractor.FindAllString(m[1], -1)...)
		}
		specs = append(specs, spec)
	}
	return specs
}
