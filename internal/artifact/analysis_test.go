package artifact

import "testing"

const analysisReport = `# Cross-Artifact Analysis

## Findings

| ID | Category | Severity | Location | Summary | Recommendation |
|----|----------|----------|----------|---------|----------------|
| F1 | Coverage | HIGH | spec.md | FR-003 has no task | Add a task |
| F2 | Ambiguity | ~~CRITICAL~~ RESOLVED | plan.md | Vague constraint | Clarified in session |
| F3 | Narrow | LOW |

## Coverage Summary

| Req | Has Task? | Task IDs | Has Test? | Test IDs | Status |
|-----|-----------|----------|-----------|----------|--------|
| FR-001 | Yes | T001, T002 | Yes | TS-001 | Covered |
| FR-002 | No | — | No | — | — |

## Metrics

- Total Requirements: 12
- Total Tasks: 18
- Total Test Specs: 6
- Requirement Coverage: 11/12 (92%)
- Critical Issues: 0
- High Issues: 1

## Constitution Alignment

| Principle | Status | Evidence |
|-----------|--------|----------|
| I. Test-First | Pass | Tests precede tasks |

## Phase Separation Violations

None detected.

| Artifact | Status | Severity |
|----------|--------|----------|
| stale | row | HIGH |
`

func TestParseFindings(t *testing.T) {
	findings := ParseFindings(analysisReport)

	if len(findings) != 2 {
		t.Fatalf("len(findings) = %d, want 2 (short row dropped)", len(findings))
	}
	if findings[0].Severity != "HIGH" || findings[0].Resolved {
		t.Errorf("findings[0] = %+v", findings[0])
	}
	if findings[1].Severity != "CRITICAL" || !findings[1].Resolved {
		t.Errorf("findings[1] = %+v, want resolved CRITICAL", findings[1])
	}
}

func TestParseCoverage_Detailed(t *testing.T) {
	entries := ParseCoverage(analysisReport)

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	first := entries[0]
	if !first.HasTask || !first.HasTest {
		t.Errorf("first = %+v, want task and test", first)
	}
	if len(first.TaskIDs) != 2 || first.TaskIDs[1] != "T002" {
		t.Errorf("first.TaskIDs = %v", first.TaskIDs)
	}
	if first.Status == nil || *first.Status != "Covered" {
		t.Errorf("first.Status = %v", first.Status)
	}
	if first.HasPlan != nil {
		t.Errorf("first.HasPlan = %v, want nil for six-column table", *first.HasPlan)
	}

	second := entries[1]
	if second.HasTask || len(second.TaskIDs) != 0 {
		t.Errorf("second = %+v, want dash cells empty", second)
	}
	if second.Status != nil {
		t.Errorf("second.Status = %q, want nil for dash cell", *second.Status)
	}
}

func TestParseCoverage_WithPlanColumns(t *testing.T) {
	content := `## Coverage Summary

| Req | Has Task? | Task IDs | Has Test? | Test IDs | Has Plan? | Plan Refs | Status |
|-----|-----------|----------|-----------|----------|-----------|-----------|--------|
| FR-001 | Yes | T001 | No | — | Yes | plan.md | Partial |
`
	entries := ParseCoverage(content)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.HasPlan == nil || !*e.HasPlan {
		t.Errorf("HasPlan = %v, want true", e.HasPlan)
	}
	if len(e.PlanRefs) != 1 || e.PlanRefs[0] != "plan.md" {
		t.Errorf("PlanRefs = %v", e.PlanRefs)
	}
	if e.Status == nil || *e.Status != "Partial" {
		t.Errorf("Status = %v", e.Status)
	}
}

func TestParseCoverage_Simple(t *testing.T) {
	content := `## Coverage Summary

| Req | Has Task? | Notes |
|-----|-----------|-------|
| FR-001 | Yes | fine |
`
	entries := ParseCoverage(content)
	if len(entries) != 1 || entries[0].Notes != "fine" {
		t.Fatalf("entries = %+v, want one with notes", entries)
	}
	if entries[0].Status != nil {
		t.Errorf("Status = %v, want nil in simple variant", entries[0].Status)
	}
}

func TestParseMetrics_Bullets(t *testing.T) {
	m := ParseMetrics(analysisReport)

	if m.TotalRequirements != 12 || m.TotalTasks != 18 || m.TotalTestSpecs != 6 {
		t.Errorf("totals = %d/%d/%d, want 12/18/6", m.TotalRequirements, m.TotalTasks, m.TotalTestSpecs)
	}
	if m.RequirementCoveragePct != 92 {
		t.Errorf("RequirementCoveragePct = %d, want 92", m.RequirementCoveragePct)
	}
	if m.CriticalIssues != 0 || m.HighIssues != 1 {
		t.Errorf("issues = %d/%d, want 0/1", m.CriticalIssues, m.HighIssues)
	}
}

// A missing test-coverage row defaults the percentage to 100 so it never
// drags the health score down.
func TestParseMetrics_TestCoverageDefault(t *testing.T) {
	m := ParseMetrics(analysisReport)
	if m.TestCoverage != nil {
		t.Errorf("TestCoverage = %q, want nil", *m.TestCoverage)
	}
	if m.TestCoveragePct != 100 {
		t.Errorf("TestCoveragePct = %d, want 100", m.TestCoveragePct)
	}
}

func TestParseMetrics_TableForm(t *testing.T) {
	content := `## Metrics

| Metric | Value |
|--------|-------|
| Total Requirements | 4 |
| Test Coverage | 75% |
`
	m := ParseMetrics(content)
	if m.TotalRequirements != 4 {
		t.Errorf("TotalRequirements = %d, want 4", m.TotalRequirements)
	}
	if m.TestCoverage == nil || m.TestCoveragePct != 75 {
		t.Errorf("TestCoverage = %v (%d), want 75%%", m.TestCoverage, m.TestCoveragePct)
	}
}

// Substring lookup honors document order, so "Total Test Specs" is not
// shadowed by "Total Tasks".
func TestParseMetrics_OrderedLookup(t *testing.T) {
	content := `## Metrics

- Total Test Specs: 7
- Total Tasks: 20
`
	m := ParseMetrics(content)
	if m.TotalTestSpecs != 7 || m.TotalTasks != 20 {
		t.Errorf("specs/tasks = %d/%d, want 7/20", m.TotalTestSpecs, m.TotalTasks)
	}
}

func TestParseConstitutionAlignment(t *testing.T) {
	entries := ParseConstitutionAlignment(analysisReport)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Principle != "I. Test-First" || entries[0].Status != "Pass" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestParseConstitutionAlignment_NoneDetected(t *testing.T) {
	content := `## Constitution Alignment

None detected.

| Principle | Status | Evidence |
|-----------|--------|----------|
| stale | row | here |
`
	if entries := ParseConstitutionAlignment(content); entries != nil {
		t.Errorf("entries = %v, want nil when none-detected precedes the table", entries)
	}
}

// The none-detected escape applies to the phase separation table too.
func TestParsePhaseSeparation_NoneDetected(t *testing.T) {
	if v := ParsePhaseSeparation(analysisReport); v != nil {
		t.Errorf("violations = %v, want nil", v)
	}
}

func TestParsePhaseSeparation_Rows(t *testing.T) {
	content := `## Phase Separation Violations

| Artifact | Status | Severity |
|----------|--------|----------|
| spec.md | implementation detail leaked | HIGH |
| plan.md | ok | — |
`
	violations := ParsePhaseSeparation(content)
	if len(violations) != 2 {
		t.Fatalf("len(violations) = %d, want 2", len(violations))
	}
	if violations[0].Severity == nil || *violations[0].Severity != "HIGH" {
		t.Errorf("violations[0].Severity = %v", violations[0].Severity)
	}
	if violations[1].Severity != nil {
		t.Errorf("violations[1].Severity = %q, want nil for dash", *violations[1].Severity)
	}
}
