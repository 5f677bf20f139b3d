package artifact

import (
	"regexp"
	"strings"
)

// Task is a checkbox line from a task list. A task carries at most one of
// StoryTag or BugTag; IsBugFix derives from the id prefix alone, independent
// of whether a bug tag was recovered.
type Task struct {
	ID          string  `json:"id"`
	StoryTag    *string `json:"storyTag"`
	BugTag      *string `json:"bugTag"`
	Description string  `json:"description"`
	Checked     bool    `json:"checked"`
	IsBugFix    bool    `json:"isBugFix"`
}

// taskPattern matches a checkbox task line: checked state, task id with an
// optional -B bug-fix infix, an optional [P] parallel marker, an optional
// story or bug tag, then the free-text description.
var taskPattern = regexp.MustCompile(`- \[([ x])\] (T(?:-B)?\d+)\s+(?:\[P\]\s*)?(?:\[(US\d+|BUG-\d+)\]\s*)?(.*)`)

// bugTagPattern classifies a recovered tag as a bug tag.
var bugTagPattern = regexp.MustCompile(`^BUG-\d+$`)

// tsRefPattern matches test-spec ids inside task descriptions, in any
// phrasing.
var tsRefPattern = regexp.MustCompile(`TS-\d+`)

// ParseTasks extracts tasks from a task-list artifact.
func ParseTasks(content string) []Task {
	matches := taskPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	tasks := make([]Task, 0, len(matches))
	for _, m := range matches {
		id := m[2]
		tag := m[3]

		task := Task{
			ID:          id,
			Description: strings.TrimSpace(m[4]),
			Checked:     m[1] == "x",
			IsBugFix:    strings.HasPrefix(id, "T-B"),
		}
		if tag != "" {
			if bugTagPattern.MatchString(tag) {
				task.BugTag = &tag
			} else {
				task.StoryTag = &tag
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// ParseTaskTestRefs maps each task id to the distinct test-spec ids its
// description mentions, in first-occurrence order. Every task gets an entry,
// possibly empty.
func ParseTaskTestRefs(tasks []Task) map[string][]string {
	refs := make(map[string][]string, len(tasks))
	for _, task := range tasks {
		var ids []string
		seen := make(map[string]bool)
		for _, id := range tsRefPattern.FindAllString(task.Description, -1) {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		refs[task.ID] = ids
	}
	return refs
}
