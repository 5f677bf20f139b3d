// Package source is the filesystem boundary of the dashboard. Everything
// above it works on strings and parsed values; everything that touches the
// project directory, runs git, or stats paths lives here so the view layer
// stays testable with plain fixtures.
package source

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hpungsan/specdash/internal/artifact"
)

// FS reads planning artifacts from a project directory laid out as
// specs/<feature-id>/ plus project-level files at the root.
type FS struct {
	ProjectPath string
}

// NewFS returns a source rooted at projectPath.
func NewFS(projectPath string) *FS {
	return &FS{ProjectPath: projectPath}
}

// FeatureIDs lists the directories under specs/ that contain a spec.md, in
// lexical order.
func (s *FS) FeatureIDs() []string {
	specsDir := filepath.Join(s.ProjectPath, "specs")
	entries, err := os.ReadDir(specsDir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(specsDir, e.Name(), "spec.md")); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids
}

// FeatureFile reads a file from a feature directory. Missing files read as
// empty, matching the tolerance rule for absent artifacts.
func (s *FS) FeatureFile(featureID string, parts ...string) string {
	p := filepath.Join(append([]string{s.ProjectPath, "specs", featureID}, parts...)...)
	data, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// FeatureFileExists reports whether a feature artifact is present.
func (s *FS) FeatureFileExists(featureID string, parts ...string) bool {
	p := filepath.Join(append([]string{s.ProjectPath, "specs", featureID}, parts...)...)
	_, err := os.Stat(p)
	return err == nil
}

// ProjectFile reads a file relative to the project root, empty when absent.
func (s *FS) ProjectFile(name string) string {
	data, err := os.ReadFile(filepath.Join(s.ProjectPath, name))
	if err != nil {
		return ""
	}
	return string(data)
}

// ProjectFileExists reports whether a project-root file is present.
func (s *FS) ProjectFileExists(name string) bool {
	_, err := os.Stat(filepath.Join(s.ProjectPath, name))
	return err == nil
}

// PathExists reports whether a path relative to the project root exists.
// Used to mark file-structure entries against the real tree.
func (s *FS) PathExists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.ProjectPath, rel))
	return err == nil
}

// ChecklistFiles reads every .md file in the feature's checklists directory,
// in lexical filename order.
func (s *FS) ChecklistFiles(featureID string) []artifact.NamedFile {
	dir := filepath.Join(s.ProjectPath, "specs", featureID, "checklists")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	files := make([]artifact.NamedFile, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		files = append(files, artifact.NamedFile{Name: name, Content: string(data)})
	}
	return files
}

// TestSpecSource returns the feature's test-spec text and whether any test
// specs exist. Gherkin feature files under tests/features/ take precedence,
// concatenated in filename order; the legacy tests/test-specs.md is the
// fallback.
func (s *FS) TestSpecSource(featureID string) (content string, gherkin bool, exists bool) {
	featuresDir := filepath.Join(s.ProjectPath, "specs", featureID, "tests", "features")
	if entries, err := os.ReadDir(featuresDir); err == nil {
		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".feature") {
				names = append(names, e.Name())
			}
		}
		if len(names) > 0 {
			sort.Strings(names)
			var parts []string
			for _, name := range names {
				if data, err := os.ReadFile(filepath.Join(featuresDir, name)); err == nil {
					parts = append(parts, string(data))
				}
			}
			return strings.Join(parts, "\n"), true, true
		}
	}

	legacy := filepath.Join(s.ProjectPath, "specs", featureID, "tests", "test-specs.md")
	if data, err := os.ReadFile(legacy); err == nil {
		return string(data), false, true
	}
	return "", false, false
}

// StoredAssertionHash reads testify.assertion_hash from the feature's
// context.json. Malformed or absent context reads as empty.
func (s *FS) StoredAssertionHash(featureID string) string {
	data, err := os.ReadFile(filepath.Join(s.ProjectPath, "specs", featureID, "context.json"))
	if err != nil {
		return ""
	}
	var ctx struct {
		Testify struct {
			AssertionHash string `json:"assertion_hash"`
		} `json:"testify"`
	}
	if err := json.Unmarshal(data, &ctx); err != nil {
		return ""
	}
	return ctx.Testify.AssertionHash
}

// DependencyManifest reads the project's tessl.json, nil when absent.
func (s *FS) DependencyManifest() []byte {
	data, err := os.ReadFile(filepath.Join(s.ProjectPath, "tessl.json"))
	if err != nil {
		return nil
	}
	return data
}

var sshRemotePattern = regexp.MustCompile(`^git@([^:]+):(.+)$`)

// RepoURL resolves the project's origin remote to a browsable https URL.
// SSH remotes are rewritten; a trailing .git is dropped. Empty when the
// project is not a git checkout or has no origin.
func (s *FS) RepoURL() string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = s.ProjectPath
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	url := strings.TrimSuffix(strings.TrimSpace(string(out)), ".git")
	if m := sshRemotePattern.FindStringSubmatch(url); m != nil {
		url = "https://" + m[1] + "/" + m[2]
	}
	return url
}
