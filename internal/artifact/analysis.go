package artifact

import (
	"regexp"
	"strings"
)

// Finding is one row of the analysis Findings table. A severity cell written
// as ~~HIGH~~ RESOLVED marks the finding resolved while keeping its original
// severity.
type Finding struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Resolved       bool   `json:"resolved"`
	Location       string `json:"location"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

// CoverageEntry is one row of the Coverage Summary table. The table comes in
// three widths and the width of the first row decides the interpretation for
// the whole table: simple (requirement, task?, notes), detailed (adds task
// and test id columns plus status), and with-plan (adds plan columns).
// HasPlan is nil when the table has no plan columns.
type CoverageEntry struct {
	ID       string   `json:"id"`
	HasTask  bool     `json:"hasTask"`
	TaskIDs  []string `json:"taskIds"`
	HasTest  bool     `json:"hasTest"`
	TestIDs  []string `json:"testIds"`
	HasPlan  *bool    `json:"hasPlan,omitempty"`
	PlanRefs []string `json:"planRefs,omitempty"`
	Status   *string  `json:"status"`
	Notes    string   `json:"notes"`
}

// Metrics is the key figures block of an analysis report. TestCoverage stays
// nil when the report has no test-coverage row, in which case the percentage
// defaults to 100 so a missing row never drags the health score down.
type Metrics struct {
	TotalRequirements      int     `json:"totalRequirements"`
	TotalTasks             int     `json:"totalTasks"`
	TotalTestSpecs         int     `json:"totalTestSpecs"`
	RequirementCoverage    string  `json:"requirementCoverage"`
	RequirementCoveragePct int     `json:"requirementCoveragePct"`
	TestCoverage           *string `json:"testCoverage"`
	TestCoveragePct        int     `json:"testCoveragePct"`
	CriticalIssues         int     `json:"criticalIssues"`
	HighIssues             int     `json:"highIssues"`
	MediumIssues           int     `json:"mediumIssues"`
	LowIssues              int     `json:"lowIssues"`
}

// AlignmentEntry is one row of the Constitution Alignment table.
type AlignmentEntry struct {
	Principle string `json:"principle"`
	Status    string `json:"status"`
	Evidence  string `json:"evidence"`
}

// PhaseViolation is one row of the Phase Separation Violations table.
type PhaseViolation struct {
	Artifact string  `json:"artifact"`
	Status   string  `json:"status"`
	Severity *string `json:"severity"`
}

var (
	resolvedSeverityPattern = regexp.MustCompile(`~~(\w+)~~\s*RESOLVED`)
	yesPattern              = regexp.MustCompile(`(?i)^yes$`)
	noneDetectedPattern     = regexp.MustCompile(`(?i)none detected`)
	metricsBulletPattern    = regexp.MustCompile(`(?m)^-\s+(.+?):\s+(.+)$`)
	pctPattern              = regexp.MustCompile(`(\d+)%`)
	fracPctPattern          = regexp.MustCompile(`\((\d+)%\)`)
	leadingIntPattern       = regexp.MustCompile(`^\s*(\d+)`)
)

// ParseFindings extracts the Findings table. Rows with fewer than six cells
// are dropped.
func ParseFindings(content string) []Finding {
	section, ok := SectionBody(content, "Findings")
	if !ok {
		return nil
	}
	var findings []Finding
	for _, cells := range MarkdownTableRows(section) {
		if len(cells) < 6 {
			continue
		}
		severity := cells[2]
		resolved := false
		if m := resolvedSeverityPattern.FindStringSubmatch(severity); m != nil {
			severity = m[1]
			resolved = true
		}
		findings = append(findings, Finding{
			ID:             cells[0],
			Category:       cells[1],
			Severity:       severity,
			Resolved:       resolved,
			Location:       cells[3],
			Summary:        cells[4],
			Recommendation: cells[5],
		})
	}
	return findings
}

// ParseCoverage extracts the Coverage Summary table.
func ParseCoverage(content string) []CoverageEntry {
	section, ok := SectionBody(content, "Coverage Summary")
	if !ok {
		return nil
	}
	rows := MarkdownTableRows(section)
	if len(rows) == 0 {
		return nil
	}
	hasPlanCols := len(rows[0]) >= 8
	isDetailed := len(rows[0]) >= 6

	entries := make([]CoverageEntry, 0, len(rows))
	for _, cells := range rows {
		entry := CoverageEntry{
			ID:      cellAt(cells, 0),
			HasTask: yesPattern.MatchString(cellAt(cells, 1)),
			TaskIDs: []string{},
			TestIDs: []string{},
		}
		if isDetailed {
			entry.TaskIDs = splitIDList(cellAt(cells, 2))
			entry.HasTest = yesPattern.MatchString(cellAt(cells, 3))
			entry.TestIDs = splitIDList(cellAt(cells, 4))
			if hasPlanCols {
				hasPlan := yesPattern.MatchString(cellAt(cells, 5))
				entry.HasPlan = &hasPlan
				entry.PlanRefs = splitIDList(cellAt(cells, 6))
				entry.Status = statusCell(cellAt(cells, 7))
			} else {
				entry.Status = statusCell(cellAt(cells, 5))
			}
		} else {
			entry.Notes = cellAt(cells, 2)
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseMetrics extracts the Metrics section, from either a table or a
// bulleted list. Key lookup is substring-based and honors the order keys
// appeared in the document, so "total test specs" does not get shadowed by
// "total tasks" or vice versa.
func ParseMetrics(content string) Metrics {
	defaults := Metrics{TestCoveragePct: 100}
	section, ok := SectionBody(content, "Metrics")
	if !ok {
		return defaults
	}

	type kv struct{ key, value string }
	var pairs []kv
	if rows := MarkdownTableRows(section); len(rows) > 0 {
		for _, cells := range rows {
			if len(cells) >= 2 {
				pairs = append(pairs, kv{strings.ToLower(cells[0]), cells[1]})
			}
		}
	} else {
		for _, m := range metricsBulletPattern.FindAllStringSubmatch(section, -1) {
			pairs = append(pairs, kv{strings.ToLower(strings.TrimSpace(m[1])), strings.TrimSpace(m[2])})
		}
	}

	findValue := func(keys ...string) string {
		for _, key := range keys {
			for _, p := range pairs {
				if strings.Contains(p.key, key) {
					return p.value
				}
			}
		}
		return ""
	}

	m := defaults
	m.TotalRequirements = leadingInt(findValue("total requirements"))
	m.TotalTasks = leadingInt(findValue("total tasks"))
	m.TotalTestSpecs = leadingInt(findValue("total test spec"))

	reqCov := findValue("requirement coverage")
	m.RequirementCoverage = reqCov
	m.RequirementCoveragePct = extractPct(reqCov)

	if testCov := findValue("test coverage"); testCov != "" {
		m.TestCoverage = &testCov
		m.TestCoveragePct = extractPct(testCov)
	}

	m.CriticalIssues = leadingInt(findValue("critical"))
	m.HighIssues = leadingInt(findValue("high"))
	m.MediumIssues = leadingInt(findValue("medium"))
	m.LowIssues = leadingInt(findValue("low"))
	return m
}

// ParseConstitutionAlignment extracts the Constitution Alignment table. A
// "none detected" marker before the first pipe short-circuits to empty.
func ParseConstitutionAlignment(content string) []AlignmentEntry {
	section, ok := SectionBody(content, "Constitution Alignment")
	if !ok || noneDetectedBeforeTable(section) {
		return nil
	}
	var entries []AlignmentEntry
	for _, cells := range MarkdownTableRows(section) {
		if len(cells) < 3 {
			continue
		}
		entries = append(entries, AlignmentEntry{
			Principle: cells[0],
			Status:    cells[1],
			Evidence:  cells[2],
		})
	}
	return entries
}

// ParsePhaseSeparation extracts the Phase Separation Violations table, with
// the same "none detected" escape as the alignment table.
func ParsePhaseSeparation(content string) []PhaseViolation {
	section, ok := SectionBody(content, "Phase Separation Violations")
	if !ok || noneDetectedBeforeTable(section) {
		return nil
	}
	var violations []PhaseViolation
	for _, cells := range MarkdownTableRows(section) {
		if len(cells) < 2 {
			continue
		}
		violations = append(violations, PhaseViolation{
			Artifact: cells[0],
			Status:   cells[1],
			Severity: statusCell(cellAt(cells, 2)),
		})
	}
	return violations
}

func noneDetectedBeforeTable(section string) bool {
	noneLoc := noneDetectedPattern.FindStringIndex(section)
	if noneLoc == nil {
		return false
	}
	tableIdx := strings.Index(section, "|")
	return tableIdx < 0 || noneLoc[0] < tableIdx
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// statusCell returns the cell as a string pointer, nil for empty or dash
// placeholder cells.
func statusCell(cell string) *string {
	if emptyCell(cell) {
		return nil
	}
	return &cell
}

// leadingInt parses the leading digits of a value, 0 when there are none.
func leadingInt(s string) int {
	m := leadingIntPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n := 0
	for _, c := range m[1] {
		n = n*10 + int(c-'0')
	}
	return n
}

// extractPct pulls a percentage out of a cell like "92%" or "11/12 (92%)".
func extractPct(raw string) int {
	if raw == "" {
		return 0
	}
	if m := pctPattern.FindStringSubmatch(raw); m != nil {
		return leadingInt(m[1])
	}
	if m := fracPctPattern.FindStringSubmatch(raw); m != nil {
		return leadingInt(m[1])
	}
	return 0
}
