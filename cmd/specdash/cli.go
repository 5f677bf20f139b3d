package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/specdash/internal/classify"
	"github.com/hpungsan/specdash/internal/config"
	"github.com/hpungsan/specdash/internal/dashboard"
	"github.com/hpungsan/specdash/internal/errors"
	"github.com/hpungsan/specdash/internal/evalfetch"
	"github.com/hpungsan/specdash/internal/source"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "specdash",
		Usage:   "Planning artifact dashboard generator",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(),
			watchCmd(),
			featuresCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// projectFlag is shared by every command.
func projectFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Value:   ".",
		Usage:   "Project root directory",
	}
}

// generateCmd creates the generate command.
func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate the dashboard snapshot once",
		Flags: []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			env, err := prepare(c.String("project"))
			if err != nil {
				return err
			}
			return dashboard.Generate(context.Background(), env.asm, env.outputPath)
		},
	}
}

// watchCmd creates the watch command.
func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Generate, then regenerate on artifact changes",
		Flags: []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			env, err := prepare(c.String("project"))
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := dashboard.Generate(ctx, env.asm, env.outputPath); err != nil {
				return err
			}
			w := &dashboard.Watcher{
				Assembler:      env.asm,
				OutputPath:     env.outputPath,
				Debounce:       time.Duration(env.cfg.WatchDebounceMs) * time.Millisecond,
				Caches:         env.caches,
				ResetEvalCache: env.resetEvalCache,
			}
			return w.Run(ctx)
		},
	}
}

// featuresCmd creates the features command.
func featuresCmd() *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "List features with story counts and task progress",
		Flags: []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			env, err := prepare(c.String("project"))
			if err != nil {
				return err
			}
			snap, err := env.asm.Assemble(context.Background())
			if err != nil {
				return err
			}
			for _, f := range snap.Features {
				fmt.Printf("%-40s %3d stories  %s\n", f.ID, f.Stories, f.Progress)
			}
			return nil
		},
	}
}

// runtimeEnv bundles the wired collaborators for one project.
type runtimeEnv struct {
	cfg            *config.Config
	asm            *dashboard.Assembler
	outputPath     string
	caches         []dashboard.Invalidator
	resetEvalCache func()
}

// prepare validates the project and wires the assembler: source, config,
// classifier, and eval fetcher. Validation mirrors the exit-code contract:
// missing project, missing constitution, unwritable output.
func prepare(projectPath string) (*runtimeEnv, error) {
	resolved, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, errors.NewProjectNotFound(projectPath)
	}
	if info, err := os.Stat(resolved); err != nil || !info.IsDir() {
		return nil, errors.NewProjectNotFound(resolved)
	}
	if _, err := os.Stat(filepath.Join(resolved, "CONSTITUTION.md")); err != nil {
		return nil, errors.NewConstitutionMissing(resolved)
	}

	cfg, err := config.Load(resolved)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	outputPath := filepath.Join(resolved, cfg.OutputPath)
	if err := probeWritable(filepath.Dir(outputPath)); err != nil {
		return nil, errors.NewOutputNotWritable(outputPath, err)
	}

	env := &runtimeEnv{cfg: cfg, outputPath: outputPath}
	asm := &dashboard.Assembler{
		ProjectPath: resolved,
		Source:      source.NewFS(resolved),
		Markdown:    dashboard.RenderMarkdown,
	}

	if !cfg.Classifier.Disabled {
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			classifier := classify.New(
				openai.NewClient(apiKey),
				cfg.Classifier.Model,
				time.Duration(cfg.Classifier.TimeoutMs)*time.Millisecond,
			)
			asm.Classifier = classifier
			env.caches = append(env.caches, classifier)
		}
	}
	if !cfg.Eval.Disabled {
		fetcher := evalfetch.New(
			cfg.Eval.Command,
			time.Duration(cfg.Eval.ListTimeoutMs)*time.Millisecond,
			time.Duration(cfg.Eval.ViewTimeoutMs)*time.Millisecond,
		)
		asm.Evals = fetcher
		env.resetEvalCache = fetcher.Invalidate
	}

	env.asm = asm
	return env, nil
}

// probeWritable creates the output directory and verifies a file can be
// written there.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, fmt.Sprintf(".write-test-%d", os.Getpid()))
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
