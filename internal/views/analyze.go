package views

import (
	"regexp"
	"strings"

	"github.com/hpungsan/specdash/internal/artifact"
)

// severityPenalties is what each unresolved phase-separation violation
// subtracts from a perfect phase score.
var severityPenalties = map[string]int{
	"CRITICAL": 25,
	"HIGH":     15,
	"MEDIUM":   5,
	"LOW":      2,
}

var partialPattern = regexp.MustCompile(`(?i)partial`)

// HealthFactor is one input to the composite health score.
type HealthFactor struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// HealthScore is the composite score with its red/yellow/green zone.
type HealthScore struct {
	Score   int                     `json:"score"`
	Zone    string                  `json:"zone"`
	Factors map[string]HealthFactor `json:"factors"`
	Trend   *string                 `json:"trend"`
}

// HeatmapCell marks one requirement/artifact intersection.
type HeatmapCell struct {
	Status string   `json:"status"`
	Refs   []string `json:"refs"`
}

// HeatmapRow is one requirement's coverage across tasks, tests, and plan.
type HeatmapRow struct {
	ID    string                 `json:"id"`
	Text  string                 `json:"text"`
	Cells map[string]HeatmapCell `json:"cells"`
}

// Heatmap is the coverage matrix.
type Heatmap struct {
	Columns []string     `json:"columns"`
	Rows    []HeatmapRow `json:"rows"`
}

// Issue is one finding with lowercased severity.
type Issue struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Location       string `json:"location"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
	Resolved       bool   `json:"resolved"`
}

// AnalyzeMetrics is the metrics subset surfaced on the analyze tab.
type AnalyzeMetrics struct {
	TotalRequirements   int    `json:"totalRequirements"`
	TotalTasks          int    `json:"totalTasks"`
	TotalTestSpecs      int    `json:"totalTestSpecs"`
	RequirementCoverage string `json:"requirementCoverage"`
	CriticalIssues      int    `json:"criticalIssues"`
	HighIssues          int    `json:"highIssues"`
	MediumIssues        int    `json:"mediumIssues"`
	LowIssues           int    `json:"lowIssues"`
}

// Analyze is the analysis tab state.
type Analyze struct {
	HealthScore           *HealthScore              `json:"healthScore"`
	Heatmap               Heatmap                   `json:"heatmap"`
	Issues                []Issue                   `json:"issues"`
	Metrics               *AnalyzeMetrics           `json:"metrics"`
	ConstitutionAlignment []artifact.AlignmentEntry `json:"constitutionAlignment"`
	Exists                bool                      `json:"exists"`
}

// PhaseSeparationScore starts at 100 and subtracts a per-severity penalty
// for each violation that carries a severity, floored at zero.
func PhaseSeparationScore(violations []artifact.PhaseViolation) int {
	score := 100
	for _, v := range violations {
		if v.Severity != nil {
			score -= severityPenalties[*v.Severity]
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// ConstitutionCompliance is the rounded share of ALIGNED entries, 100 when
// the alignment table is absent.
func ConstitutionCompliance(entries []artifact.AlignmentEntry) int {
	if len(entries) == 0 {
		return 100
	}
	aligned := 0
	for _, e := range entries {
		if e.Status == "ALIGNED" {
			aligned++
		}
	}
	return artifact.RoundPct(aligned, len(entries))
}

// ComputeHealthScore averages the four factors and assigns the zone:
// at most 40 is red, at most 70 yellow, above that green.
func ComputeHealthScore(reqCoverage, constitution, phaseSep, testCoverage int) HealthScore {
	score := artifact.RoundPct(reqCoverage+constitution+phaseSep+testCoverage, 400)
	zone := "green"
	switch {
	case score <= 40:
		zone = "red"
	case score <= 70:
		zone = "yellow"
	}
	return HealthScore{
		Score: score,
		Zone:  zone,
		Factors: map[string]HealthFactor{
			"requirementsCoverage":   {Value: reqCoverage, Label: "Requirements Coverage"},
			"constitutionCompliance": {Value: constitution, Label: "Constitution Compliance"},
			"phaseSeparation":        {Value: phaseSep, Label: "Phase Separation"},
			"testCoverage":           {Value: testCoverage, Label: "Test Coverage"},
		},
	}
}

// mapCellStatus turns a coverage column into a heatmap cell. An explicit
// partial status wins; otherwise presence with refs is covered and anything
// else is missing.
func mapCellStatus(hasArtifact bool, ids []string, status string) HeatmapCell {
	if status != "" && partialPattern.MatchString(status) {
		refs := ids
		if refs == nil {
			refs = []string{}
		}
		return HeatmapCell{Status: "partial", Refs: refs}
	}
	if hasArtifact && len(ids) > 0 {
		return HeatmapCell{Status: "covered", Refs: ids}
	}
	return HeatmapCell{Status: "missing", Refs: []string{}}
}

// BuildHeatmapRows joins the requirement list against coverage entries.
// Requirements with no coverage row read as missing across the board with
// plan not applicable.
func BuildHeatmapRows(requirements []artifact.Requirement, entries []artifact.CoverageEntry) []HeatmapRow {
	if len(requirements) == 0 {
		return []HeatmapRow{}
	}
	byID := make(map[string]artifact.CoverageEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	rows := make([]HeatmapRow, 0, len(requirements))
	for _, req := range requirements {
		cov, ok := byID[req.ID]
		if !ok {
			rows = append(rows, HeatmapRow{
				ID:   req.ID,
				Text: req.Text,
				Cells: map[string]HeatmapCell{
					"tasks": {Status: "missing", Refs: []string{}},
					"tests": {Status: "missing", Refs: []string{}},
					"plan":  {Status: "na", Refs: []string{}},
				},
			})
			continue
		}

		// A row marked Partial with no task still reads partial in the
		// tasks cell even though the artifact flag alone would say missing.
		taskStatus := ""
		if cov.Status != nil && *cov.Status == "Partial" && !cov.HasTask {
			taskStatus = "Partial"
		}
		planCell := HeatmapCell{Status: "na", Refs: []string{}}
		if cov.HasPlan != nil {
			planCell = mapCellStatus(*cov.HasPlan, cov.PlanRefs, "")
		}
		rows = append(rows, HeatmapRow{
			ID:   req.ID,
			Text: req.Text,
			Cells: map[string]HeatmapCell{
				"tasks": mapCellStatus(cov.HasTask, cov.TaskIDs, taskStatus),
				"tests": mapCellStatus(cov.HasTest, cov.TestIDs, ""),
				"plan":  planCell,
			},
		})
	}
	return rows
}

// ComputeAnalyze builds the analysis rollup from the analysis report and
// the spec's requirements.
func ComputeAnalyze(analysisContent string, analysisExists bool, specContent string) Analyze {
	if !analysisExists {
		return Analyze{
			Heatmap:               Heatmap{Columns: []string{}, Rows: []HeatmapRow{}},
			Issues:                []Issue{},
			ConstitutionAlignment: []artifact.AlignmentEntry{},
		}
	}

	findings := artifact.ParseFindings(analysisContent)
	coverage := artifact.ParseCoverage(analysisContent)
	metrics := artifact.ParseMetrics(analysisContent)
	alignment := artifact.ParseConstitutionAlignment(analysisContent)
	violations := artifact.ParsePhaseSeparation(analysisContent)

	requirements := append(
		artifact.ParseRequirements(specContent),
		artifact.ParseSuccessCriteria(specContent)...,
	)

	health := ComputeHealthScore(
		metrics.RequirementCoveragePct,
		ConstitutionCompliance(alignment),
		PhaseSeparationScore(violations),
		metrics.TestCoveragePct,
	)

	issues := make([]Issue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, Issue{
			ID:             f.ID,
			Category:       f.Category,
			Severity:       strings.ToLower(f.Severity),
			Location:       f.Location,
			Summary:        f.Summary,
			Recommendation: f.Recommendation,
			Resolved:       f.Resolved,
		})
	}

	if alignment == nil {
		alignment = []artifact.AlignmentEntry{}
	}
	return Analyze{
		HealthScore: &health,
		Heatmap: Heatmap{
			Columns: []string{"tasks", "tests", "plan"},
			Rows:    BuildHeatmapRows(requirements, coverage),
		},
		Issues: issues,
		Metrics: &AnalyzeMetrics{
			TotalRequirements:   metrics.TotalRequirements,
			TotalTasks:          metrics.TotalTasks,
			TotalTestSpecs:      metrics.TotalTestSpecs,
			RequirementCoverage: metrics.RequirementCoverage,
			CriticalIssues:      metrics.CriticalIssues,
			HighIssues:          metrics.HighIssues,
			MediumIssues:        metrics.MediumIssues,
			LowIssues:           metrics.LowIssues,
		},
		ConstitutionAlignment: alignment,
		Exists:                true,
	}
}
