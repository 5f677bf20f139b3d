package source

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file with parent directories under root.
func writeFile(t *testing.T, root string, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFeatureIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/002-second/spec.md", "# Second")
	writeFile(t, root, "specs/001-first/spec.md", "# First")
	writeFile(t, root, "specs/003-no-spec/notes.md", "not a feature")
	writeFile(t, root, "specs/stray.md", "not a dir")

	s := NewFS(root)
	ids := s.FeatureIDs()

	if len(ids) != 2 || ids[0] != "001-first" || ids[1] != "002-second" {
		t.Errorf("ids = %v, want sorted features with spec.md", ids)
	}
}

func TestFeatureIDs_NoSpecsDir(t *testing.T) {
	if ids := NewFS(t.TempDir()).FeatureIDs(); ids != nil {
		t.Errorf("ids = %v, want nil", ids)
	}
}

func TestFeatureFile_MissingReadsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/001-demo/spec.md", "# Demo")

	s := NewFS(root)
	if got := s.FeatureFile("001-demo", "spec.md"); got != "# Demo" {
		t.Errorf("FeatureFile = %q", got)
	}
	if got := s.FeatureFile("001-demo", "plan.md"); got != "" {
		t.Errorf("missing file = %q, want empty", got)
	}
	if s.FeatureFileExists("001-demo", "plan.md") {
		t.Error("FeatureFileExists = true for missing file")
	}
}

func TestChecklistFiles_SortedMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/001-demo/spec.md", "# Demo")
	writeFile(t, root, "specs/001-demo/checklists/security.md", "- [ ] item")
	writeFile(t, root, "specs/001-demo/checklists/api.md", "- [x] item")
	writeFile(t, root, "specs/001-demo/checklists/notes.txt", "skip me")

	files := NewFS(root).ChecklistFiles("001-demo")

	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Name != "api.md" || files[1].Name != "security.md" {
		t.Errorf("order = %q, %q", files[0].Name, files[1].Name)
	}
	if files[0].Content != "- [x] item" {
		t.Errorf("content = %q", files[0].Content)
	}
}

// Gherkin feature files win over the legacy markdown file.
func TestTestSpecSource_GherkinPreferred(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/001-demo/spec.md", "# Demo")
	writeFile(t, root, "specs/001-demo/tests/features/b.feature", "Feature: B")
	writeFile(t, root, "specs/001-demo/tests/features/a.feature", "Feature: A")
	writeFile(t, root, "specs/001-demo/tests/test-specs.md", "### TS-001: Legacy")

	content, gherkin, exists := NewFS(root).TestSpecSource("001-demo")

	if !exists || !gherkin {
		t.Fatalf("gherkin/exists = %v/%v, want true/true", gherkin, exists)
	}
	if content != "Feature: A\nFeature: B" {
		t.Errorf("content = %q, want concatenated in filename order", content)
	}
}

func TestTestSpecSource_LegacyFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/001-demo/spec.md", "# Demo")
	writeFile(t, root, "specs/001-demo/tests/test-specs.md", "### TS-001: Legacy")

	content, gherkin, exists := NewFS(root).TestSpecSource("001-demo")
	if !exists || gherkin {
		t.Fatalf("gherkin/exists = %v/%v, want false/true", gherkin, exists)
	}
	if content != "### TS-001: Legacy" {
		t.Errorf("content = %q", content)
	}
}

func TestTestSpecSource_Absent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/001-demo/spec.md", "# Demo")

	if _, _, exists := NewFS(root).TestSpecSource("001-demo"); exists {
		t.Error("exists = true, want false")
	}
}

func TestStoredAssertionHash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "specs/001-demo/context.json", `{"testify": {"assertion_hash": "abc123"}}`)
	writeFile(t, root, "specs/002-bad/context.json", "{not json")

	s := NewFS(root)
	if got := s.StoredAssertionHash("001-demo"); got != "abc123" {
		t.Errorf("hash = %q, want abc123", got)
	}
	if got := s.StoredAssertionHash("002-bad"); got != "" {
		t.Errorf("malformed hash = %q, want empty", got)
	}
	if got := s.StoredAssertionHash("003-missing"); got != "" {
		t.Errorf("missing hash = %q, want empty", got)
	}
}

func TestDependencyManifest(t *testing.T) {
	root := t.TempDir()
	if got := NewFS(root).DependencyManifest(); got != nil {
		t.Errorf("manifest = %q, want nil when absent", got)
	}
	writeFile(t, root, "tessl.json", `{"dependencies": {}}`)
	if got := NewFS(root).DependencyManifest(); string(got) != `{"dependencies": {}}` {
		t.Errorf("manifest = %q", got)
	}
}

func TestRepoURL_NotAGitCheckout(t *testing.T) {
	if url := NewFS(t.TempDir()).RepoURL(); url != "" {
		t.Errorf("url = %q, want empty", url)
	}
}
