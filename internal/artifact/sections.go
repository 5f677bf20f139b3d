// Package artifact contains the text extractors that recover structured
// entities from planning artifacts (specs, task lists, checklists, analysis
// reports, bug logs, plans). Every extractor is a pure function over raw
// artifact text: it returns empty/default values for absent or malformed
// input and never panics. The grammars here are intentional parsing
// contracts, not incidental implementation detail. Artifacts are edited by
// hand and by LLMs, so each pattern tolerates surrounding noise but matches
// its own shape exactly.
package artifact

import (
	"regexp"
	"strings"
)

// nextSectionMarker bounds a section body at the following level-2 heading.
var nextSectionMarker = "\n## "

// SectionBody returns the trimmed body of the `## <heading>` section,
// bounded by the next level-2 heading or end of document. The second return
// is false when the section heading is not present at all, for callers that
// must distinguish "no section" from "empty section".
func SectionBody(content, heading string) (string, bool) {
	re := regexp.MustCompile(`(?m)^## ` + regexp.QuoteMeta(heading) + `\s*$`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return "", false
	}
	start := loc[1]
	end := strings.Index(content[start:], nextSectionMarker)
	if end < 0 {
		return strings.TrimSpace(content[start:]), true
	}
	return strings.TrimSpace(content[start : start+end]), true
}

// fencePattern matches the opening of a fenced code block: three backticks,
// an optional single-word info string, then a newline.
var fencePattern = regexp.MustCompile("```" + `\w*` + "\n")

// FirstFencedBlock returns the contents of the first fenced code block in
// text. The closing fence must be three backticks; an unterminated fence
// yields no block.
func FirstFencedBlock(text string) (string, bool) {
	open := fencePattern.FindStringIndex(text)
	if open == nil {
		return "", false
	}
	rest := text[open[1]:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// MarkdownTableRows parses the data rows of a markdown table: every line
// beginning with a pipe, minus the header row and the separator row. Each
// row is the trimmed cell values between the outer pipes. Rows with no
// non-empty cell are dropped.
func MarkdownTableRows(text string) [][]string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	var rows [][]string
	for _, line := range lines[2:] {
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}
		cells := parts[1 : len(parts)-1]
		row := make([]string, len(cells))
		nonEmpty := false
		for i, c := range cells {
			row[i] = strings.TrimSpace(c)
			if row[i] != "" {
				nonEmpty = true
			}
		}
		if nonEmpty {
			rows = append(rows, row)
		}
	}
	return rows
}

// emptyCell reports whether a table cell holds an explicit "nothing" marker
// (em dash, en dash, or hyphen) rather than content.
func emptyCell(cell string) bool {
	return cell == "" || cell == "—" || cell == "-" || cell == "–"
}

// splitIDList splits a comma-separated cell into trimmed ids, treating dash
// placeholders as empty.
func splitIDList(cell string) []string {
	ids := []string{}
	if emptyCell(cell) {
		return ids
	}
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !emptyCell(part) {
			ids = append(ids, part)
		}
	}
	return ids
}
