// Package views computes the per-feature view states that make up a
// dashboard snapshot: kanban board, pipeline, story map, plan view,
// checklist gate, testify traceability, analysis rollup, and bug triage.
// Each builder is pure over artifact text and parsed values; file access
// and external processes are injected by the assembler.
package views

import (
	"fmt"

	"github.com/hpungsan/specdash/internal/artifact"
	"github.com/hpungsan/specdash/internal/integrity"
)

// Card is one kanban card: a user story, the synthetic unassigned-tasks
// card, or a bug-fix card.
type Card struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Priority  string          `json:"priority"`
	Tasks     []artifact.Task `json:"tasks"`
	Progress  string          `json:"progress"`
	Column    string          `json:"column"`
	IsBugCard bool            `json:"isBugCard,omitempty"`
}

// Board is the kanban state plus the assertion integrity badge.
type Board struct {
	Todo       []Card          `json:"todo"`
	InProgress []Card          `json:"in_progress"`
	Done       []Card          `json:"done"`
	Integrity  integrity.Check `json:"integrity"`
}

// boardColumn classifies a card by its task progress. No tasks or nothing
// checked is todo; everything checked is done.
func boardColumn(checked, total int) string {
	switch {
	case total == 0 || checked == 0:
		return "todo"
	case checked == total:
		return "done"
	default:
		return "in_progress"
	}
}

// ComputeBoard builds the kanban board. Story cards come first in story
// order, then the unassigned card when untagged tasks exist, then one card
// per bug tag in first-seen task order.
func ComputeBoard(stories []artifact.Story, tasks []artifact.Task) Board {
	board := Board{Todo: []Card{}, InProgress: []Card{}, Done: []Card{}}

	tasksByStory := make(map[string][]artifact.Task)
	tasksByBug := make(map[string][]artifact.Task)
	var bugOrder []string
	var untagged []artifact.Task
	for _, t := range tasks {
		switch {
		case t.StoryTag != nil:
			tasksByStory[*t.StoryTag] = append(tasksByStory[*t.StoryTag], t)
		case t.BugTag != nil:
			if _, seen := tasksByBug[*t.BugTag]; !seen {
				bugOrder = append(bugOrder, *t.BugTag)
			}
			tasksByBug[*t.BugTag] = append(tasksByBug[*t.BugTag], t)
		default:
			untagged = append(untagged, t)
		}
	}

	place := func(card Card) {
		switch card.Column {
		case "todo":
			board.Todo = append(board.Todo, card)
		case "done":
			board.Done = append(board.Done, card)
		default:
			board.InProgress = append(board.InProgress, card)
		}
	}

	for _, story := range stories {
		storyTasks := tasksByStory[story.ID]
		checked := checkedCount(storyTasks)
		place(Card{
			ID:       story.ID,
			Title:    story.Title,
			Priority: story.Priority,
			Tasks:    nonNil(storyTasks),
			Progress: fmt.Sprintf("%d/%d", checked, len(storyTasks)),
			Column:   boardColumn(checked, len(storyTasks)),
		})
	}

	if len(untagged) > 0 {
		checked := checkedCount(untagged)
		place(Card{
			ID:       "Unassigned",
			Title:    "Unassigned Tasks",
			Priority: "P3",
			Tasks:    untagged,
			Progress: fmt.Sprintf("%d/%d", checked, len(untagged)),
			Column:   boardColumn(checked, len(untagged)),
		})
	}

	for _, bugID := range bugOrder {
		bugTasks := tasksByBug[bugID]
		checked := checkedCount(bugTasks)
		place(Card{
			ID:        bugID,
			Title:     "Bug Fix: " + bugID,
			Priority:  "P2",
			Tasks:     bugTasks,
			Progress:  fmt.Sprintf("%d/%d", checked, len(bugTasks)),
			Column:    boardColumn(checked, len(bugTasks)),
			IsBugCard: true,
		})
	}
	return board
}

func checkedCount(tasks []artifact.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Checked {
			n++
		}
	}
	return n
}

func nonNil(tasks []artifact.Task) []artifact.Task {
	if tasks == nil {
		return []artifact.Task{}
	}
	return tasks
}
