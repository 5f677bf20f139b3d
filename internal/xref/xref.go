// Package xref builds the traceability graph between requirements, test
// specs, and tasks. Edges only exist between entities that are actually
// present on both ends; a dangling reference is silently dropped and shows
// up as a gap instead.
package xref

import "github.com/hpungsan/specdash/internal/artifact"

// Edge types.
const (
	EdgeRequirementToTest = "requirement-to-test"
	EdgeTestToTask        = "test-to-task"
)

// Edge is one traceability link.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Gaps lists entities with no outgoing traceability.
type Gaps struct {
	UntestedRequirements []string `json:"untestedRequirements"`
	UnimplementedTests   []string `json:"unimplementedTests"`
}

// PyramidTier is one level of the test pyramid.
type PyramidTier struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// Pyramid groups test specs by type.
type Pyramid struct {
	Acceptance PyramidTier `json:"acceptance"`
	Contract   PyramidTier `json:"contract"`
	Validation PyramidTier `json:"validation"`
}

// BuildEdges links requirements to the test specs that trace them, and test
// specs to the tasks that mention them. Order follows the test-spec list for
// requirement edges and the task list for task edges.
func BuildEdges(requirements []artifact.Requirement, specs []artifact.TestSpec, tasks []artifact.Task, taskTestRefs map[string][]string) []Edge {
	reqIDs := make(map[string]bool, len(requirements))
	for _, r := range requirements {
		reqIDs[r.ID] = true
	}
	specIDs := make(map[string]bool, len(specs))
	for _, s := range specs {
		specIDs[s.ID] = true
	}

	edges := []Edge{}
	for _, s := range specs {
		for _, reqID := range s.Traceability {
			if reqIDs[reqID] {
				edges = append(edges, Edge{From: reqID, To: s.ID, Type: EdgeRequirementToTest})
			}
		}
	}
	for _, t := range tasks {
		for _, tsID := range taskTestRefs[t.ID] {
			if specIDs[tsID] {
				edges = append(edges, Edge{From: tsID, To: t.ID, Type: EdgeTestToTask})
			}
		}
	}
	return edges
}

// FindGaps returns the requirement ids with no requirement-to-test edge and
// the test-spec ids with no test-to-task edge, in artifact order.
func FindGaps(requirements []artifact.Requirement, specs []artifact.TestSpec, edges []Edge) Gaps {
	reqCovered := make(map[string]bool)
	specCovered := make(map[string]bool)
	for _, e := range edges {
		switch e.Type {
		case EdgeRequirementToTest:
			reqCovered[e.From] = true
		case EdgeTestToTask:
			specCovered[e.From] = true
		}
	}

	gaps := Gaps{UntestedRequirements: []string{}, UnimplementedTests: []string{}}
	for _, r := range requirements {
		if !reqCovered[r.ID] {
			gaps.UntestedRequirements = append(gaps.UntestedRequirements, r.ID)
		}
	}
	for _, s := range specs {
		if !specCovered[s.ID] {
			gaps.UnimplementedTests = append(gaps.UnimplementedTests, s.ID)
		}
	}
	return gaps
}

// BuildPyramid groups test-spec ids by type. Unknown types are not counted
// anywhere; the parser already defaults them to validation.
func BuildPyramid(specs []artifact.TestSpec) Pyramid {
	groups := map[string][]string{
		"acceptance": {},
		"contract":   {},
		"validation": {},
	}
	for _, s := range specs {
		if _, ok := groups[s.Type]; ok {
			groups[s.Type] = append(groups[s.Type], s.ID)
		}
	}
	tier := func(kind string) PyramidTier {
		return PyramidTier{Count: len(groups[kind]), IDs: groups[kind]}
	}
	return Pyramid{
		Acceptance: tier("acceptance"),
		Contract:   tier("contract"),
		Validation: tier("validation"),
	}
}
