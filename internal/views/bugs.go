package views

import (
	"regexp"
	"sort"

	"github.com/hpungsan/specdash/internal/artifact"
)

// severityRank orders bug severities for triage, most urgent first.
var severityRank = map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}

var issueNumberPattern = regexp.MustCompile(`#(\d+)`)
var sshIssuePattern = regexp.MustCompile(`^git@([^:]+):(.+?)(?:\.git)?$`)
var gitSuffixPattern = regexp.MustCompile(`\.git$`)

// FixTask is one bug-fix task shown under a bug.
type FixTask struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Checked     bool   `json:"checked"`
}

// FixTasks summarizes a bug's fix tasks.
type FixTasks struct {
	Total   int       `json:"total"`
	Checked int       `json:"checked"`
	Tasks   []FixTask `json:"tasks"`
}

// BugView is a parsed bug enriched with its fix tasks and a resolved issue
// URL when the repo is known.
type BugView struct {
	artifact.Bug
	FixTasks FixTasks `json:"fixTasks"`
	IssueURL *string  `json:"issueUrl"`
}

// OrphanedTask is a bug-fix task whose tag matches no logged bug.
type OrphanedTask struct {
	ID          string `json:"id"`
	BugTag      string `json:"bugTag"`
	Description string `json:"description"`
	Checked     bool   `json:"checked"`
}

// BugSummary is the triage rollup over open bugs.
type BugSummary struct {
	Total               int            `json:"total"`
	Open                int            `json:"open"`
	Fixed               int            `json:"fixed"`
	HighestOpenSeverity *string        `json:"highestOpenSeverity"`
	BySeverity          map[string]int `json:"bySeverity"`
}

// Bugs is the bug tab state.
type Bugs struct {
	Exists        bool           `json:"exists"`
	Bugs          []BugView      `json:"bugs"`
	OrphanedTasks []OrphanedTask `json:"orphanedTasks"`
	Summary       BugSummary     `json:"summary"`
	RepoURL       *string        `json:"repoUrl"`
}

// ResolveIssueURL turns a "#123" style issue reference into a full issue
// URL against the repo. SSH remotes are rewritten to https.
func ResolveIssueURL(issueRef, repoURL string) string {
	if issueRef == "" || repoURL == "" {
		return ""
	}
	m := issueNumberPattern.FindStringSubmatch(issueRef)
	if m == nil {
		return ""
	}
	base := repoURL
	if sm := sshIssuePattern.FindStringSubmatch(base); sm != nil {
		base = "https://" + sm[1] + "/" + sm[2]
	}
	base = gitSuffixPattern.ReplaceAllString(base, "")
	return base + "/issues/" + m[1]
}

// ComputeBugs builds the bug view: parsed bugs sorted by severity then id,
// joined with their fix tasks, plus orphaned fix tasks and the summary.
func ComputeBugs(bugsContent string, bugsExist bool, tasksContent, repoURL string) Bugs {
	result := Bugs{
		Bugs:          []BugView{},
		OrphanedTasks: []OrphanedTask{},
		Summary: BugSummary{
			BySeverity: map[string]int{"critical": 0, "high": 0, "medium": 0, "low": 0},
		},
	}
	if !bugsExist {
		return result
	}
	result.Exists = true
	if repoURL != "" {
		result.RepoURL = &repoURL
	}

	bugs := artifact.ParseBugs(bugsContent)
	tasks := artifact.ParseTasks(tasksContent)

	tasksByBug := make(map[string][]artifact.Task)
	var bugFixTasks []artifact.Task
	for _, t := range tasks {
		if t.IsBugFix && t.BugTag != nil {
			bugFixTasks = append(bugFixTasks, t)
			tasksByBug[*t.BugTag] = append(tasksByBug[*t.BugTag], t)
		}
	}

	bugIDs := make(map[string]bool, len(bugs))
	for _, b := range bugs {
		bugIDs[b.ID] = true
	}

	for _, b := range bugs {
		fixTasks := FixTasks{Tasks: []FixTask{}}
		for _, t := range tasksByBug[b.ID] {
			fixTasks.Total++
			if t.Checked {
				fixTasks.Checked++
			}
			fixTasks.Tasks = append(fixTasks.Tasks, FixTask{ID: t.ID, Description: t.Description, Checked: t.Checked})
		}
		view := BugView{Bug: b, FixTasks: fixTasks}
		if b.GithubIssue != nil {
			if url := ResolveIssueURL(*b.GithubIssue, repoURL); url != "" {
				view.IssueURL = &url
			}
		}
		result.Bugs = append(result.Bugs, view)
	}

	sort.SliceStable(result.Bugs, func(i, j int) bool {
		ri, rj := severityRank[result.Bugs[i].Severity], severityRank[result.Bugs[j].Severity]
		if ri != rj {
			return ri < rj
		}
		return result.Bugs[i].ID < result.Bugs[j].ID
	})

	for _, t := range bugFixTasks {
		if !bugIDs[*t.BugTag] {
			result.OrphanedTasks = append(result.OrphanedTasks, OrphanedTask{
				ID:          t.ID,
				BugTag:      *t.BugTag,
				Description: t.Description,
				Checked:     t.Checked,
			})
		}
	}

	result.Summary.Total = len(result.Bugs)
	for _, b := range result.Bugs {
		if b.Status == "fixed" {
			result.Summary.Fixed++
			continue
		}
		result.Summary.Open++
		if _, ok := result.Summary.BySeverity[b.Severity]; ok {
			result.Summary.BySeverity[b.Severity]++
		}
	}
	for _, sev := range []string{"critical", "high", "medium", "low"} {
		if result.Summary.BySeverity[sev] > 0 {
			s := sev
			result.Summary.HighestOpenSeverity = &s
			break
		}
	}
	return result
}
