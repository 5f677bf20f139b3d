package views

import (
	"fmt"

	"github.com/hpungsan/specdash/internal/artifact"
)

// Phase is one stage of the feature workflow.
type Phase struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Progress *string `json:"progress"`
	Optional bool    `json:"optional"`
}

// Pipeline is the ordered phase list for a feature.
type Pipeline struct {
	Phases []Phase `json:"phases"`
}

// PipelineInput carries the artifact presence flags and parsed values the
// phase rules consume.
type PipelineInput struct {
	ConstitutionExists bool
	PremiseExists      bool
	SpecExists         bool
	PlanExists         bool
	TestSpecsExist     bool
	TasksExist         bool
	AnalysisExists     bool
	TDDRequired        bool
	Tasks              []artifact.Task
	Checklist          artifact.ChecklistTotals
}

// ComputePipeline derives the eight-phase pipeline. Most phases are binary
// on artifact presence; checklist and implement carry fractional progress,
// and testify reads as skipped once a plan exists without TDD being
// mandated.
func ComputePipeline(in PipelineInput) Pipeline {
	checked := checkedCount(in.Tasks)
	total := len(in.Tasks)

	constitutionName := "Constitution"
	if in.PremiseExists {
		constitutionName = "Premise &\nConstitution"
	}

	checklistStatus := "not_started"
	var checklistProgress *string
	if in.Checklist.Total > 0 {
		checklistStatus = "in_progress"
		if in.Checklist.Checked == in.Checklist.Total {
			checklistStatus = "complete"
		}
		p := fmt.Sprintf("%d%%", artifact.RoundPct(in.Checklist.Checked, in.Checklist.Total))
		checklistProgress = &p
	}

	testifyStatus := "not_started"
	if in.TestSpecsExist {
		testifyStatus = "complete"
	} else if !in.TDDRequired && in.PlanExists {
		testifyStatus = "skipped"
	}

	implementStatus := "not_started"
	var implementProgress *string
	if total > 0 && checked > 0 {
		implementStatus = "in_progress"
		if checked == total {
			implementStatus = "complete"
		}
		p := fmt.Sprintf("%d%%", artifact.RoundPct(checked, total))
		implementProgress = &p
	}

	return Pipeline{Phases: []Phase{
		{ID: "constitution", Name: constitutionName, Status: presence(in.ConstitutionExists)},
		{ID: "spec", Name: "Spec", Status: presence(in.SpecExists)},
		{ID: "plan", Name: "Plan", Status: presence(in.PlanExists)},
		{ID: "checklist", Name: "Checklist", Status: checklistStatus, Progress: checklistProgress},
		{ID: "testify", Name: "Testify", Status: testifyStatus, Optional: !in.TDDRequired},
		{ID: "tasks", Name: "Tasks", Status: presence(in.TasksExist)},
		{ID: "analyze", Name: "Analyze", Status: presence(in.AnalysisExists)},
		{ID: "implement", Name: "Implement", Status: implementStatus, Progress: implementProgress},
	}}
}

func presence(exists bool) string {
	if exists {
		return "complete"
	}
	return "not_started"
}
