package views

import (
	"github.com/hpungsan/specdash/internal/artifact"
	"github.com/hpungsan/specdash/internal/integrity"
	"github.com/hpungsan/specdash/internal/xref"
)

// TestifyTask is the reduced task shape shown on the testify tab.
type TestifyTask struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	TestSpecRefs []string `json:"testSpecRefs"`
}

// Testify is the traceability tab state.
type Testify struct {
	Requirements []artifact.Requirement `json:"requirements"`
	TestSpecs    []artifact.TestSpec    `json:"testSpecs"`
	Tasks        []TestifyTask          `json:"tasks"`
	Edges        []xref.Edge            `json:"edges"`
	Gaps         xref.Gaps              `json:"gaps"`
	Pyramid      xref.Pyramid           `json:"pyramid"`
	Integrity    integrity.Check        `json:"integrity"`
	Exists       bool                   `json:"exists"`
}

// TestifyInput carries the artifacts the testify rollup consumes.
type TestifyInput struct {
	SpecContent     string
	TestSpecContent string
	Gherkin         bool
	TestSpecsExist  bool
	TasksContent    string
	StoredHash      string
}

// ComputeTestify builds the traceability state: requirements joined with
// success criteria, test specs from either source format, the edge graph,
// gaps, pyramid, and the assertion integrity check. Integrity only runs
// when test specs exist.
func ComputeTestify(in TestifyInput) Testify {
	requirements := append(
		artifact.ParseRequirements(in.SpecContent),
		artifact.ParseSuccessCriteria(in.SpecContent)...,
	)
	if requirements == nil {
		requirements = []artifact.Requirement{}
	}

	specs := []artifact.TestSpec{}
	if in.TestSpecsExist {
		if in.Gherkin {
			specs = append(specs, artifact.ParseGherkinSpecs(in.TestSpecContent)...)
		} else {
			specs = append(specs, artifact.ParseLegacySpecs(in.TestSpecContent)...)
		}
	}

	rawTasks := artifact.ParseTasks(in.TasksContent)
	taskTestRefs := artifact.ParseTaskTestRefs(rawTasks)
	tasks := make([]TestifyTask, 0, len(rawTasks))
	for _, t := range rawTasks {
		refs := taskTestRefs[t.ID]
		if refs == nil {
			refs = []string{}
		}
		tasks = append(tasks, TestifyTask{ID: t.ID, Description: t.Description, TestSpecRefs: refs})
	}

	edges := xref.BuildEdges(requirements, specs, rawTasks, taskTestRefs)

	check := integrity.Compare("", "")
	if in.TestSpecsExist {
		check = integrity.Compare(integrity.AssertionHash(in.TestSpecContent), in.StoredHash)
	}

	return Testify{
		Requirements: requirements,
		TestSpecs:    specs,
		Tasks:        tasks,
		Edges:        edges,
		Gaps:         xref.FindGaps(requirements, specs, edges),
		Pyramid:      xref.BuildPyramid(specs),
		Integrity:    check,
		Exists:       in.TestSpecsExist,
	}
}
