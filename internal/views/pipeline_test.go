package views

import (
	"testing"

	"github.com/hpungsan/specdash/internal/artifact"
)

func TestComputePipeline_EightPhases(t *testing.T) {
	p := ComputePipeline(PipelineInput{})

	want := []string{"constitution", "spec", "plan", "checklist", "testify", "tasks", "analyze", "implement"}
	if len(p.Phases) != len(want) {
		t.Fatalf("len(Phases) = %d, want %d", len(p.Phases), len(want))
	}
	for i, id := range want {
		if p.Phases[i].ID != id {
			t.Errorf("Phases[%d].ID = %q, want %q", i, p.Phases[i].ID, id)
		}
		if p.Phases[i].Status != "not_started" {
			t.Errorf("Phases[%d].Status = %q, want not_started", i, p.Phases[i].Status)
		}
	}
}

func TestComputePipeline_PremiseRenamesConstitution(t *testing.T) {
	p := ComputePipeline(PipelineInput{PremiseExists: true, ConstitutionExists: true})
	if p.Phases[0].Name != "Premise &\nConstitution" {
		t.Errorf("Name = %q", p.Phases[0].Name)
	}
	if p.Phases[0].Status != "complete" {
		t.Errorf("Status = %q, want complete", p.Phases[0].Status)
	}

	p = ComputePipeline(PipelineInput{ConstitutionExists: true})
	if p.Phases[0].Name != "Constitution" {
		t.Errorf("Name = %q, want Constitution", p.Phases[0].Name)
	}
}

// Testify reads skipped once a plan exists without TDD being mandated, but
// actual test specs always win.
func TestComputePipeline_TestifyStatus(t *testing.T) {
	cases := []struct {
		name string
		in   PipelineInput
		want string
	}{
		{"no plan yet", PipelineInput{}, "not_started"},
		{"plan without tdd", PipelineInput{PlanExists: true}, "skipped"},
		{"plan with tdd required", PipelineInput{PlanExists: true, TDDRequired: true}, "not_started"},
		{"specs exist", PipelineInput{PlanExists: true, TestSpecsExist: true}, "complete"},
	}
	for _, c := range cases {
		p := ComputePipeline(c.in)
		if got := p.Phases[4].Status; got != c.want {
			t.Errorf("%s: testify = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestComputePipeline_TestifyOptionalFlag(t *testing.T) {
	if p := ComputePipeline(PipelineInput{TDDRequired: true}); p.Phases[4].Optional {
		t.Error("Optional = true with TDD required")
	}
	if p := ComputePipeline(PipelineInput{}); !p.Phases[4].Optional {
		t.Error("Optional = false without TDD")
	}
}

func TestComputePipeline_Progress(t *testing.T) {
	in := PipelineInput{
		Tasks: []artifact.Task{
			{ID: "T001", Checked: true},
			{ID: "T002", Checked: false},
			{ID: "T003", Checked: false},
		},
		Checklist: artifact.ChecklistTotals{Total: 4, Checked: 4, Percentage: 100},
	}
	p := ComputePipeline(in)

	checklist := p.Phases[3]
	if checklist.Status != "complete" {
		t.Errorf("checklist.Status = %q, want complete", checklist.Status)
	}
	if checklist.Progress == nil || *checklist.Progress != "100%" {
		t.Errorf("checklist.Progress = %v, want 100%%", checklist.Progress)
	}

	implement := p.Phases[7]
	if implement.Status != "in_progress" {
		t.Errorf("implement.Status = %q, want in_progress", implement.Status)
	}
	if implement.Progress == nil || *implement.Progress != "33%" {
		t.Errorf("implement.Progress = %v, want 33%%", implement.Progress)
	}
}

// Tasks present but none checked leaves implement not started, no progress.
func TestComputePipeline_ImplementNotStarted(t *testing.T) {
	p := ComputePipeline(PipelineInput{Tasks: []artifact.Task{{ID: "T001"}}})
	implement := p.Phases[7]
	if implement.Status != "not_started" || implement.Progress != nil {
		t.Errorf("implement = %+v", implement)
	}
}
