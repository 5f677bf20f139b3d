package artifact

import (
	"math"
	"regexp"
	"strings"
)

// TechContextEntry is one **Label**: value line from the Technical Context
// section of a plan.
type TechContextEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FileEntry is one node of a parsed file-structure tree.
type FileEntry struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"` // "file" or "directory"
	Comment *string `json:"comment"`
	Depth   int     `json:"depth"`
	Exists  bool    `json:"exists"`
}

// FileStructure is the tree recovered from the plan's file-structure fence.
type FileStructure struct {
	RootName string      `json:"rootName"`
	Entries  []FileEntry `json:"entries"`
}

var (
	techContextPattern = regexp.MustCompile(`\*\*(.+?)\*\*:\s*(.+)`)

	fileStructureHeading = regexp.MustCompile(`(?m)^##[^#].*(?:File Structure|Project Structure|Source Code)`)

	bareDirPattern    = regexp.MustCompile(`^([a-zA-Z0-9._-]+/)\s*(?:#\s*(.*))?$`)
	branchPrefixRe    = regexp.MustCompile(`^([\s│]*)[├└]`)
	treeEntryPattern  = regexp.MustCompile(`[├└]──\s*([^#\n]+?)(?:\s+#\s*(.*))?$`)
	techContextBounds = "Technical Context"
)

// conventionalDirs are top-level folder names that indicate the first bare
// directory line is a child of the project, not the project root itself.
var conventionalDirs = map[string]bool{
	"src": true, "lib": true, "test": true, "tests": true, "bin": true,
	"cmd": true, "pkg": true, "app": true, "api": true, "docs": true,
	"public": true, "config": true, "scripts": true, "build": true,
	"dist": true, "out": true, "vendor": true, "internal": true,
}

// ParseTechContext extracts **Label**: value pairs from the Technical
// Context section.
func ParseTechContext(content string) []TechContextEntry {
	section, ok := SectionBody(content, techContextBounds)
	if !ok {
		return nil
	}
	matches := techContextPattern.FindAllStringSubmatch(section, -1)
	if len(matches) == 0 {
		return nil
	}
	entries := make([]TechContextEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, TechContextEntry{
			Label: strings.TrimSpace(m[1]),
			Value: strings.TrimSpace(m[2]),
		})
	}
	return entries
}

// ParseFileStructure parses the first fenced code block under a File
// Structure / Project Structure / Source Code heading as an indented tree.
// Two notations are handled: bare `name/` directory lines and box-drawing
// tree lines whose depth is the multiple of four spaces in the prefix.
// Entries are retroactively marked as directories when a deeper entry
// follows them.
func ParseFileStructure(content string) *FileStructure {
	loc := fileStructureHeading.FindStringIndex(content)
	if loc == nil {
		return nil
	}
	treeText, ok := FirstFencedBlock(content[loc[0]:])
	if !ok {
		return nil
	}

	var lines []string
	for _, l := range strings.Split(treeText, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	rootName := ""
	startIdx := 0
	first := strings.TrimSpace(lines[0])
	if strings.HasSuffix(first, "/") && !strings.ContainsAny(first, "├└") {
		dirName := strings.TrimSuffix(first, "/")
		if !conventionalDirs[dirName] {
			rootName = dirName
			startIdx = 1
		}
	}

	var entries []FileEntry
	bareDirDepthOffset := 0
	for i := startIdx; i < len(lines); i++ {
		line := lines[i]

		if bm := bareDirPattern.FindStringSubmatch(line); bm != nil && !strings.ContainsAny(line, "├└│") {
			entries = append(entries, FileEntry{
				Name:    strings.TrimSuffix(bm[1], "/"),
				Type:    "directory",
				Comment: optionalComment(bm[2]),
				Depth:   0,
			})
			bareDirDepthOffset = 1
			continue
		}

		depth := 0
		if pm := branchPrefixRe.FindStringSubmatch(line); pm != nil {
			prefix := strings.ReplaceAll(pm[1], "│", " ")
			depth = int(math.Round(float64(len([]rune(prefix)))/4)) + bareDirDepthOffset
		}

		em := treeEntryPattern.FindStringSubmatch(line)
		if em == nil {
			continue
		}
		name := strings.TrimSpace(em[1])
		entryType := "file"
		if strings.HasSuffix(name, "/") {
			name = strings.TrimSuffix(name, "/")
			entryType = "directory"
		}
		entries = append(entries, FileEntry{
			Name:    name,
			Type:    entryType,
			Comment: optionalComment(em[2]),
			Depth:   depth,
		})
	}

	// An entry followed by a deeper entry turned out to have children.
	for i := 0; i+1 < len(entries); i++ {
		if entries[i+1].Depth > entries[i].Depth {
			entries[i].Type = "directory"
		}
	}

	return &FileStructure{RootName: rootName, Entries: entries}
}

// EntryPath resolves the slash-joined path of the entry at index idx by
// walking back through shallower directory entries, prefixing the root name
// when the entry's chain reaches depth zero without a depth-zero directory
// parent.
func EntryPath(fs *FileStructure, idx int) string {
	target := fs.Entries[idx]
	parts := []string{target.Name}
	currentDepth := target.Depth
	for i := idx - 1; i >= 0; i-- {
		e := fs.Entries[i]
		if e.Depth < currentDepth && e.Type == "directory" {
			parts = append([]string{e.Name}, parts...)
			currentDepth = e.Depth
			if currentDepth == 0 {
				break
			}
		}
	}
	if currentDepth == 0 && fs.RootName != "" && parts[0] != fs.RootName {
		hasDepth0DirParent := false
		for i := idx - 1; i >= 0; i-- {
			if fs.Entries[i].Depth == 0 && fs.Entries[i].Type == "directory" {
				hasDepth0DirParent = true
				break
			}
		}
		if !hasDepth0DirParent {
			parts = append([]string{fs.RootName}, parts...)
		}
	}
	return strings.Join(parts, "/")
}

func optionalComment(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
