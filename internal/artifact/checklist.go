package artifact

import (
	"math"
	"regexp"
	"strings"
)

// ChecklistTotals is the coarse checkbox aggregation across a checklist
// directory, used by the pipeline phase and the implementation gate.
type ChecklistTotals struct {
	Total      int `json:"total"`
	Checked    int `json:"checked"`
	Percentage int `json:"percentage"`
}

// ChecklistFile is the detailed per-file aggregation.
type ChecklistFile struct {
	Name     string          `json:"name"`
	Filename string          `json:"filename"`
	Total    int             `json:"total"`
	Checked  int             `json:"checked"`
	Items    []ChecklistItem `json:"items"`
}

// ChecklistItem is a single checkbox line. Category is the nearest preceding
// level-2/3 heading; Tags are trailing bracketed tokens peeled right to left.
type ChecklistItem struct {
	Text     string   `json:"text"`
	Checked  bool     `json:"checked"`
	ChkID    *string  `json:"chkId"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
}

// NamedFile pairs a checklist filename with its raw content.
type NamedFile struct {
	Name    string
	Content string
}

var (
	checkedLinePattern   = regexp.MustCompile(`(?i)- \[x\]`)
	uncheckedLinePattern = regexp.MustCompile(`- \[ \]`)
	checklistHeading     = regexp.MustCompile(`^#{2,3}\s+(.+)`)
	checkboxItemPattern  = regexp.MustCompile(`(?i)^- \[([ x])\]\s+(.*)`)
	chkIDPattern         = regexp.MustCompile(`^(CHK-\d{3})\s+`)
	trailingTagPattern   = regexp.MustCompile(`\[([^\]]+)\]\s*$`)
)

// AggregateChecklists counts checked and unchecked boxes across checklist
// files. A directory whose only file is requirements.md contributes nothing:
// the spec-quality checklist alone does not count toward the implementation
// gate. Percentage is the rounded checked ratio, 0 when there are no boxes.
func AggregateChecklists(files []NamedFile) ChecklistTotals {
	var totals ChecklistTotals
	if !hasDomainChecklists(files) {
		return totals
	}

	for _, f := range files {
		for _, line := range strings.Split(f.Content, "\n") {
			if checkedLinePattern.MatchString(line) {
				totals.Total++
				totals.Checked++
			} else if uncheckedLinePattern.MatchString(line) {
				totals.Total++
			}
		}
	}
	if totals.Total > 0 {
		totals.Percentage = RoundPct(totals.Checked, totals.Total)
	}
	return totals
}

// ParseChecklistFiles re-parses every checklist file in detail, including a
// lone requirements.md that the coarse aggregation excludes.
func ParseChecklistFiles(files []NamedFile) []ChecklistFile {
	if len(files) == 0 {
		return nil
	}

	result := make([]ChecklistFile, 0, len(files))
	for _, f := range files {
		file := ChecklistFile{
			Name:     checklistDisplayName(f.Name),
			Filename: f.Name,
			Items:    []ChecklistItem{},
		}

		var currentCategory *string
		for _, line := range strings.Split(f.Content, "\n") {
			if hm := checklistHeading.FindStringSubmatch(line); hm != nil {
				cat := strings.TrimSpace(hm[1])
				currentCategory = &cat
				continue
			}
			cm := checkboxItemPattern.FindStringSubmatch(line)
			if cm == nil {
				continue
			}

			checked := strings.EqualFold(cm[1], "x")
			text := strings.TrimSpace(cm[2])
			file.Total++
			if checked {
				file.Checked++
			}

			var chkID *string
			if im := chkIDPattern.FindStringSubmatch(text); im != nil {
				id := im[1]
				chkID = &id
				text = text[len(im[0]):]
			}

			tags := []string{}
			for {
				tm := trailingTagPattern.FindStringSubmatchIndex(text)
				if tm == nil {
					break
				}
				tags = append([]string{text[tm[2]:tm[3]]}, tags...)
				text = strings.TrimSpace(text[:tm[0]])
			}

			file.Items = append(file.Items, ChecklistItem{
				Text:     text,
				Checked:  checked,
				ChkID:    chkID,
				Category: currentCategory,
				Tags:     tags,
			})
		}
		result = append(result, file)
	}
	return result
}

// hasDomainChecklists reports whether any file other than requirements.md is
// present.
func hasDomainChecklists(files []NamedFile) bool {
	for _, f := range files {
		if f.Name != "requirements.md" {
			return true
		}
	}
	return false
}

// checklistDisplayName turns "api-design.md" into "Api Design".
func checklistDisplayName(filename string) string {
	base := strings.TrimSuffix(filename, ".md")
	words := strings.Split(base, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// RoundPct computes round(checked/total*100) with half-away-from-zero
// rounding, matching the rounding rule the boundary tests assert on.
func RoundPct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
