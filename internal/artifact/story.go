package artifact

import (
	"fmt"
	"regexp"
	"strings"
)

// Story is a user story recovered from a specification artifact.
type Story struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Priority      string `json:"priority"`
	ScenarioCount int    `json:"scenarioCount"`
	Body          string `json:"body"`
	BodyHTML      string `json:"bodyHtml,omitempty"`
}

// StoryEdge links a user story to a functional requirement it references.
type StoryEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// storyPattern matches a user-story heading and captures the sequential
// number, the title, and the priority.
var storyPattern = regexp.MustCompile(`### User Story (\d+) - (.+?) \(Priority: (P\d+)\)`)

// storySpanPattern is the lighter heading match used when only story spans
// are needed (no title/priority capture).
var storySpanPattern = regexp.MustCompile(`### User Story (\d+) - .+? \(Priority: P\d+\)`)

// givenLinePattern counts numbered Given clauses inside a story span.
var givenLinePattern = regexp.MustCompile(`(?m)^\d+\.\s+\*\*Given\*\*`)

// frIDPattern matches functional requirement ids anywhere in text.
var frIDPattern = regexp.MustCompile(`FR-\d+`)

// ParseStories extracts user stories from a specification. A story's span
// runs from its heading to the next story heading or end of document; the
// body is that span minus the heading line, truncated at an embedded "---"
// divider when one is present.
func ParseStories(content string) []Story {
	matches := storyPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	stories := make([]Story, 0, len(matches))
	for i, m := range matches {
		start := m[0]
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		section := content[start:end]

		body := ""
		if nl := strings.Index(section, "\n"); nl >= 0 {
			body = section[nl+1:]
		}
		if sep := strings.Index(body, "\n---"); sep >= 0 {
			body = body[:sep]
		}
		body = strings.TrimSpace(body)

		stories = append(stories, Story{
			ID:            fmt.Sprintf("US%s", content[m[2]:m[3]]),
			Title:         strings.TrimSpace(content[m[4]:m[5]]),
			Priority:      content[m[6]:m[7]],
			ScenarioCount: len(givenLinePattern.FindAllString(section, -1)),
			Body:          body,
		})
	}
	return stories
}

// ParseStoryRequirementRefs scans each story span for FR ids and emits one
// edge per distinct id per story, in first-occurrence order.
func ParseStoryRequirementRefs(content string) []StoryEdge {
	matches := storySpanPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	var edges []StoryEdge
	for i, m := range matches {
		start := m[0]
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		section := content[start:end]
		storyID := fmt.Sprintf("US%s", content[m[2]:m[3]])

		seen := make(map[string]bool)
		for _, frID := range frIDPattern.FindAllString(section, -1) {
			if seen[frID] {
				continue
			}
			seen[frID] = true
			edges = append(edges, StoryEdge{From: storyID, To: frID})
		}
	}
	return edges
}
