package views

import (
	"testing"

	"github.com/hpungsan/specdash/internal/integrity"
)

const testifySpec = `## Requirements

- **FR-001**: Regenerate on change

## Success Criteria

- **SC-001**: One regeneration per burst
`

const testifyGherkin = `Feature: Watch mode

  @TS-001 @acceptance @FR-001
  Scenario: Regenerates on save
    **Given**: a running watcher
    **When**: spec.md is saved
    **Then**: the dashboard regenerates
`

const testifyTasks = `- [x] T001 Implement the watcher (TS-001)
- [ ] T002 Polish logging
`

func TestComputeTestify(t *testing.T) {
	v := ComputeTestify(TestifyInput{
		SpecContent:     testifySpec,
		TestSpecContent: testifyGherkin,
		Gherkin:         true,
		TestSpecsExist:  true,
		TasksContent:    testifyTasks,
		StoredHash:      integrity.AssertionHash(testifyGherkin),
	})

	if !v.Exists {
		t.Fatal("Exists = false")
	}
	if len(v.Requirements) != 2 {
		t.Errorf("len(Requirements) = %d, want FR plus SC", len(v.Requirements))
	}
	if len(v.TestSpecs) != 1 || v.TestSpecs[0].ID != "TS-001" {
		t.Fatalf("TestSpecs = %+v", v.TestSpecs)
	}

	if len(v.Edges) != 2 {
		t.Fatalf("Edges = %+v, want req->test and test->task", v.Edges)
	}
	if v.Edges[0].From != "FR-001" || v.Edges[0].To != "TS-001" {
		t.Errorf("Edges[0] = %+v", v.Edges[0])
	}
	if v.Edges[1].From != "TS-001" || v.Edges[1].To != "T001" {
		t.Errorf("Edges[1] = %+v", v.Edges[1])
	}

	if len(v.Gaps.UntestedRequirements) != 1 || v.Gaps.UntestedRequirements[0] != "SC-001" {
		t.Errorf("Gaps = %+v", v.Gaps)
	}
	if v.Pyramid.Acceptance.Count != 1 {
		t.Errorf("Pyramid = %+v", v.Pyramid)
	}

	if v.Integrity.Status != integrity.StatusValid {
		t.Errorf("Integrity = %+v, want valid", v.Integrity)
	}

	if len(v.Tasks) != 2 || v.Tasks[0].TestSpecRefs[0] != "TS-001" {
		t.Errorf("Tasks = %+v", v.Tasks)
	}
	if v.Tasks[1].TestSpecRefs == nil {
		t.Error("Tasks[1].TestSpecRefs is nil, want empty slice")
	}
}

func TestComputeTestify_TamperedHash(t *testing.T) {
	v := ComputeTestify(TestifyInput{
		SpecContent:     testifySpec,
		TestSpecContent: testifyGherkin,
		Gherkin:         true,
		TestSpecsExist:  true,
		StoredHash:      "deadbeef",
	})
	if v.Integrity.Status != integrity.StatusTampered {
		t.Errorf("Integrity = %+v, want tampered", v.Integrity)
	}
}

func TestComputeTestify_NoSpecs(t *testing.T) {
	v := ComputeTestify(TestifyInput{SpecContent: testifySpec})

	if v.Exists {
		t.Error("Exists = true, want false")
	}
	if len(v.TestSpecs) != 0 || v.TestSpecs == nil {
		t.Errorf("TestSpecs = %+v, want empty slice", v.TestSpecs)
	}
	if v.Integrity.Status != integrity.StatusMissing {
		t.Errorf("Integrity = %+v, want missing", v.Integrity)
	}
	if len(v.Gaps.UntestedRequirements) != 2 {
		t.Errorf("Gaps = %+v, want both requirements untested", v.Gaps)
	}
}

func TestComputeTestify_LegacyFormat(t *testing.T) {
	legacy := "### TS-010: Legacy scenario\n\n**Type**: contract\n**Traceability**: FR-001\n"
	v := ComputeTestify(TestifyInput{
		SpecContent:     testifySpec,
		TestSpecContent: legacy,
		TestSpecsExist:  true,
	})
	if len(v.TestSpecs) != 1 || v.TestSpecs[0].Type != "contract" {
		t.Fatalf("TestSpecs = %+v", v.TestSpecs)
	}
	if v.Pyramid.Contract.Count != 1 {
		t.Errorf("Pyramid = %+v", v.Pyramid)
	}
}
