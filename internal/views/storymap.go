package views

import "github.com/hpungsan/specdash/internal/artifact"

// StoryMapStory is a user story annotated with the feature's clarification
// count.
type StoryMapStory struct {
	artifact.Story
	ClarificationCount int `json:"clarificationCount"`
}

// StoryMap is the story-map tab state.
type StoryMap struct {
	Stories         []StoryMapStory          `json:"stories"`
	Requirements    []artifact.Requirement   `json:"requirements"`
	SuccessCriteria []artifact.Requirement   `json:"successCriteria"`
	Clarifications  []artifact.Clarification `json:"clarifications"`
	Edges           []artifact.StoryEdge     `json:"edges"`
}

// ComputeStoryMap builds the story map from the specification artifact.
// An absent spec yields the empty shape, never nil collections.
func ComputeStoryMap(specContent string) StoryMap {
	sm := StoryMap{
		Stories:         []StoryMapStory{},
		Requirements:    []artifact.Requirement{},
		SuccessCriteria: []artifact.Requirement{},
		Clarifications:  []artifact.Clarification{},
		Edges:           []artifact.StoryEdge{},
	}
	if specContent == "" {
		return sm
	}

	clarifications := artifact.ParseClarifications(specContent)
	for _, story := range artifact.ParseStories(specContent) {
		sm.Stories = append(sm.Stories, StoryMapStory{
			Story:              story,
			ClarificationCount: len(clarifications),
		})
	}
	sm.Requirements = append(sm.Requirements, artifact.ParseRequirements(specContent)...)
	sm.SuccessCriteria = append(sm.SuccessCriteria, artifact.ParseSuccessCriteria(specContent)...)
	sm.Clarifications = append(sm.Clarifications, clarifications...)
	sm.Edges = append(sm.Edges, artifact.ParseStoryRequirementRefs(specContent)...)
	return sm
}
