package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// OutputPath is where the rendered dashboard snapshot is written,
	// relative to the project root.
	OutputPath string `yaml:"output_path"`

	// WatchDebounceMs is the quiet period after a filesystem event before
	// the dashboard regenerates in watch mode.
	WatchDebounceMs int `yaml:"watch_debounce_ms"`

	// Classifier configures the diagram node classifier.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Eval configures the dependency eval fetcher.
	Eval EvalConfig `yaml:"eval"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `yaml:"disabled_tools,omitempty"`
}

// ClassifierConfig configures the LLM node classifier.
type ClassifierConfig struct {
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Disabled  bool   `yaml:"disabled,omitempty"`
}

// EvalConfig configures the eval CLI integration.
type EvalConfig struct {
	Command       string `yaml:"command"`
	ListTimeoutMs int    `yaml:"list_timeout_ms"`
	ViewTimeoutMs int    `yaml:"view_timeout_ms"`
	Disabled      bool   `yaml:"disabled,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputPath:      filepath.Join(".specify", "dashboard.html"),
		WatchDebounceMs: 300,
		Classifier: ClassifierConfig{
			Model:     "gpt-4o-mini",
			TimeoutMs: 5000,
		},
		Eval: EvalConfig{
			Command:       "tessl",
			ListTimeoutMs: 10000,
			ViewTimeoutMs: 15000,
		},
	}
}

// Load loads configuration from projectDir/.specdash.yaml.
// Returns default config if the file doesn't exist.
func Load(projectDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(projectDir, ".specdash.yaml"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.OutputPath = overlay.OutputPath
	if result.OutputPath == "" {
		result.OutputPath = base.OutputPath
	}

	result.WatchDebounceMs = overlay.WatchDebounceMs
	if result.WatchDebounceMs == 0 {
		result.WatchDebounceMs = base.WatchDebounceMs
	}

	result.Classifier.Model = overlay.Classifier.Model
	if result.Classifier.Model == "" {
		result.Classifier.Model = base.Classifier.Model
	}
	result.Classifier.TimeoutMs = overlay.Classifier.TimeoutMs
	if result.Classifier.TimeoutMs == 0 {
		result.Classifier.TimeoutMs = base.Classifier.TimeoutMs
	}
	result.Classifier.Disabled = base.Classifier.Disabled || overlay.Classifier.Disabled

	result.Eval.Command = overlay.Eval.Command
	if result.Eval.Command == "" {
		result.Eval.Command = base.Eval.Command
	}
	result.Eval.ListTimeoutMs = overlay.Eval.ListTimeoutMs
	if result.Eval.ListTimeoutMs == 0 {
		result.Eval.ListTimeoutMs = base.Eval.ListTimeoutMs
	}
	result.Eval.ViewTimeoutMs = overlay.Eval.ViewTimeoutMs
	if result.Eval.ViewTimeoutMs == 0 {
		result.Eval.ViewTimeoutMs = base.Eval.ViewTimeoutMs
	}
	result.Eval.Disabled = base.Eval.Disabled || overlay.Eval.Disabled

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
