package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OutputPath != filepath.Join(".specify", "dashboard.html") {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.WatchDebounceMs != 300 {
		t.Errorf("WatchDebounceMs = %d, want 300", cfg.WatchDebounceMs)
	}
	if cfg.Classifier.Model != "gpt-4o-mini" || cfg.Classifier.TimeoutMs != 5000 {
		t.Errorf("Classifier = %+v", cfg.Classifier)
	}
	if cfg.Eval.Command != "tessl" || cfg.Eval.ListTimeoutMs != 10000 || cfg.Eval.ViewTimeoutMs != 15000 {
		t.Errorf("Eval = %+v", cfg.Eval)
	}
}

func TestLoad_OverlayFile(t *testing.T) {
	dir := t.TempDir()
	content := `output_path: out/dash.html
watch_debounce_ms: 50
classifier:
  disabled: true
eval:
  command: tessl-dev
disabled_tools:
  - dashboard_refresh
`
	if err := os.WriteFile(filepath.Join(dir, ".specdash.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OutputPath != "out/dash.html" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.WatchDebounceMs != 50 {
		t.Errorf("WatchDebounceMs = %d, want 50", cfg.WatchDebounceMs)
	}
	if !cfg.Classifier.Disabled {
		t.Error("Classifier.Disabled = false, want true")
	}
	// Unset overlay scalars keep defaults.
	if cfg.Classifier.Model != "gpt-4o-mini" {
		t.Errorf("Classifier.Model = %q, want default", cfg.Classifier.Model)
	}
	if cfg.Eval.Command != "tessl-dev" {
		t.Errorf("Eval.Command = %q", cfg.Eval.Command)
	}
	if cfg.Eval.ListTimeoutMs != 10000 {
		t.Errorf("Eval.ListTimeoutMs = %d, want default", cfg.Eval.ListTimeoutMs)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "dashboard_refresh" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".specdash.yaml"), []byte("{invalid: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load succeeded on malformed yaml, want error")
	}
}

func TestMerge_SlicesDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"a", "b"}}
	overlay := &Config{DisabledTools: []string{" b ", "c", ""}}
	merged := Merge(base, overlay)

	want := []string{"a", "b", "c"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i := range want {
		if merged.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], want[i])
		}
	}
}

func TestMerge_DisabledIsSticky(t *testing.T) {
	merged := Merge(&Config{Eval: EvalConfig{Disabled: true}}, &Config{})
	if !merged.Eval.Disabled {
		t.Error("Eval.Disabled = false, want base value carried")
	}
}
