package views

import "github.com/hpungsan/specdash/internal/artifact"

// ChecklistFileView is one checklist file with its completion percentage
// and traffic-light color.
type ChecklistFileView struct {
	artifact.ChecklistFile
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// Gate is the implementation gate derived from checklist completion.
type Gate struct {
	Status string `json:"status"`
	Level  string `json:"level"`
	Label  string `json:"label"`
}

// ChecklistView is the checklist tab state.
type ChecklistView struct {
	Files []ChecklistFileView `json:"files"`
	Gate  Gate                `json:"gate"`
}

// percentageColor bands completion: a third or less is red, two thirds or
// less is yellow, above that green.
func percentageColor(pct int) string {
	switch {
	case pct <= 33:
		return "red"
	case pct <= 66:
		return "yellow"
	default:
		return "green"
	}
}

// ComputeChecklistView decorates each checklist file with its percentage
// and color, then derives the gate: blocked red with no files or any file
// at zero, open green when every file is complete, blocked yellow
// otherwise.
func ComputeChecklistView(files []artifact.ChecklistFile) ChecklistView {
	view := ChecklistView{Files: []ChecklistFileView{}}
	for _, f := range files {
		pct := artifact.RoundPct(f.Checked, f.Total)
		view.Files = append(view.Files, ChecklistFileView{
			ChecklistFile: f,
			Percentage:    pct,
			Color:         percentageColor(pct),
		})
	}

	view.Gate = Gate{Status: "blocked", Level: "red", Label: "GATE: BLOCKED"}
	if len(view.Files) == 0 {
		return view
	}
	allComplete := true
	for _, f := range view.Files {
		if f.Percentage == 0 {
			return view
		}
		if f.Percentage != 100 {
			allComplete = false
		}
	}
	if allComplete {
		view.Gate = Gate{Status: "open", Level: "green", Label: "GATE: OPEN"}
	} else {
		view.Gate = Gate{Status: "blocked", Level: "yellow", Label: "GATE: BLOCKED"}
	}
	return view
}
