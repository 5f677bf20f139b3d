// Package dashboard assembles per-feature view states into one snapshot,
// renders it into the embedded HTML template, and writes it atomically into
// the project. It owns the generate loop for both one-shot and watch mode.
package dashboard

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/specdash/internal/artifact"
	"github.com/hpungsan/specdash/internal/errors"
	"github.com/hpungsan/specdash/internal/views"
)

// Source is the project read surface the assembler consumes. Implemented by
// source.FS; faked in tests.
type Source interface {
	FeatureIDs() []string
	FeatureFile(featureID string, parts ...string) string
	FeatureFileExists(featureID string, parts ...string) bool
	ProjectFile(name string) string
	ProjectFileExists(name string) bool
	PathExists(rel string) bool
	ChecklistFiles(featureID string) []artifact.NamedFile
	TestSpecSource(featureID string) (content string, gherkin bool, exists bool)
	StoredAssertionHash(featureID string) string
	DependencyManifest() []byte
	RepoURL() string
}

// FeatureSummary is the sidebar entry for one feature.
type FeatureSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Stories  int    `json:"stories"`
	Progress string `json:"progress"`
}

// FeatureState bundles every view for one feature.
type FeatureState struct {
	Board     views.Board         `json:"board"`
	Pipeline  views.Pipeline      `json:"pipeline"`
	StoryMap  views.StoryMap      `json:"storyMap"`
	PlanView  views.PlanView      `json:"planView"`
	Checklist views.ChecklistView `json:"checklist"`
	Testify   views.Testify       `json:"testify"`
	Analyze   views.Analyze       `json:"analyze"`
	Bugs      views.Bugs          `json:"bugs"`
}

// Premise is the project premise document, when present.
type Premise struct {
	Content *string `json:"content"`
	Exists  bool    `json:"exists"`
}

// Meta describes one generation run.
type Meta struct {
	ProjectPath  string `json:"projectPath"`
	GeneratedAt  string `json:"generatedAt"`
	GenerationID string `json:"generationId"`
}

// Snapshot is the complete dashboard state for a project.
type Snapshot struct {
	Meta         Meta                    `json:"meta"`
	Features     []FeatureSummary        `json:"features"`
	Constitution artifact.Constitution   `json:"constitution"`
	Premise      Premise                 `json:"premise"`
	FeatureData  map[string]FeatureState `json:"featureData"`
}

// Assembler builds snapshots from a project source.
type Assembler struct {
	ProjectPath string
	Source      Source
	Classifier  views.NodeClassifier
	Evals       views.EvalFetcher
	Markdown    func(string) string

	// Now is split out so tests get stable timestamps.
	Now func() time.Time
}

// Assemble builds the full snapshot. A panic while assembling one feature
// becomes a coded assembly error naming the feature, so one malformed
// artifact set fails loudly instead of producing a half-empty dashboard.
func (a *Assembler) Assemble(ctx context.Context) (*Snapshot, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	snap := &Snapshot{
		Meta: Meta{
			ProjectPath:  a.ProjectPath,
			GeneratedAt:  now().UTC().Format(time.RFC3339),
			GenerationID: ulid.Make().String(),
		},
		Features:    a.featureSummaries(),
		FeatureData: make(map[string]FeatureState),
	}

	constitution := artifact.ParseConstitution(a.Source.ProjectFile("CONSTITUTION.md"))
	constitution.Exists = a.Source.ProjectFileExists("CONSTITUTION.md")
	snap.Constitution = constitution

	if a.Source.ProjectFileExists("PREMISE.md") {
		content := a.Source.ProjectFile("PREMISE.md")
		snap.Premise = Premise{Content: &content, Exists: true}
	}

	for _, feature := range snap.Features {
		state, err := a.assembleFeature(ctx, feature.ID)
		if err != nil {
			return nil, err
		}
		snap.FeatureData[feature.ID] = state
	}
	return snap, nil
}

func (a *Assembler) assembleFeature(ctx context.Context, featureID string) (state FeatureState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewAssemblyFailed(featureID, r)
		}
	}()

	specContent := a.Source.FeatureFile(featureID, "spec.md")
	planContent := a.Source.FeatureFile(featureID, "plan.md")
	tasksContent := a.Source.FeatureFile(featureID, "tasks.md")
	analysisContent := a.Source.FeatureFile(featureID, "analysis.md")
	bugsContent := a.Source.FeatureFile(featureID, "bugs.md")
	testSpecContent, gherkin, testSpecsExist := a.Source.TestSpecSource(featureID)
	checklistFiles := a.Source.ChecklistFiles(featureID)
	storedHash := a.Source.StoredAssertionHash(featureID)

	stories := artifact.ParseStories(specContent)
	a.renderStoryBodies(stories)
	tasks := artifact.ParseTasks(tasksContent)

	testify := views.ComputeTestify(views.TestifyInput{
		SpecContent:     specContent,
		TestSpecContent: testSpecContent,
		Gherkin:         gherkin,
		TestSpecsExist:  testSpecsExist,
		TasksContent:    tasksContent,
		StoredHash:      storedHash,
	})

	board := views.ComputeBoard(stories, tasks)
	board.Integrity = testify.Integrity

	constitutionContent := a.Source.ProjectFile("CONSTITUTION.md")
	pipeline := views.ComputePipeline(views.PipelineInput{
		ConstitutionExists: a.Source.ProjectFileExists("CONSTITUTION.md"),
		PremiseExists:      a.Source.ProjectFileExists("PREMISE.md"),
		SpecExists:         a.Source.FeatureFileExists(featureID, "spec.md"),
		PlanExists:         a.Source.FeatureFileExists(featureID, "plan.md"),
		TestSpecsExist:     testSpecsExist,
		TasksExist:         a.Source.FeatureFileExists(featureID, "tasks.md"),
		AnalysisExists:     a.Source.FeatureFileExists(featureID, "analysis.md"),
		TDDRequired:        artifact.ConstitutionRequiresTDD(constitutionContent),
		Tasks:              tasks,
		Checklist:          artifact.AggregateChecklists(checklistFiles),
	})

	storyMap := views.ComputeStoryMap(specContent)
	a.renderStoryMapBodies(&storyMap)

	planView := views.ComputePlanView(ctx, views.PlanViewInput{
		FeatureID:       featureID,
		PlanContent:     planContent,
		PlanExists:      a.Source.FeatureFileExists(featureID, "plan.md"),
		ResearchContent: a.Source.FeatureFile(featureID, "research.md"),
		ManifestJSON:    a.Source.DependencyManifest(),
		PathExists:      a.Source.PathExists,
		Classifier:      a.Classifier,
		Evals:           a.Evals,
	})

	checklist := views.ComputeChecklistView(artifact.ParseChecklistFiles(checklistFiles))

	analyze := views.ComputeAnalyze(analysisContent, a.Source.FeatureFileExists(featureID, "analysis.md"), specContent)

	bugs := views.ComputeBugs(bugsContent, a.Source.FeatureFileExists(featureID, "bugs.md"), tasksContent, a.Source.RepoURL())
	a.renderBugDescriptions(&bugs)

	return FeatureState{
		Board:     board,
		Pipeline:  pipeline,
		StoryMap:  storyMap,
		PlanView:  planView,
		Checklist: checklist,
		Testify:   testify,
		Analyze:   analyze,
		Bugs:      bugs,
	}, nil
}

// featureSummaries lists features newest-first. Directory names like
// 014-watch-mode render as "Watch Mode".
func (a *Assembler) featureSummaries() []FeatureSummary {
	ids := a.Source.FeatureIDs()
	summaries := make([]FeatureSummary, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		specContent := a.Source.FeatureFile(id, "spec.md")
		tasks := artifact.ParseTasks(a.Source.FeatureFile(id, "tasks.md"))
		checked := 0
		for _, t := range tasks {
			if t.Checked {
				checked++
			}
		}
		summaries = append(summaries, FeatureSummary{
			ID:       id,
			Name:     featureDisplayName(id),
			Stories:  len(artifact.ParseStories(specContent)),
			Progress: fmt.Sprintf("%d/%d", checked, len(tasks)),
		})
	}
	return summaries
}

var numericPrefixPattern = regexp.MustCompile(`^\d+-`)

func featureDisplayName(id string) string {
	name := numericPrefixPattern.ReplaceAllString(id, "")
	words := strings.Split(name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (a *Assembler) renderStoryBodies(stories []artifact.Story) {
	if a.Markdown == nil {
		return
	}
	for i := range stories {
		if stories[i].Body != "" {
			stories[i].BodyHTML = a.Markdown(stories[i].Body)
		}
	}
}

func (a *Assembler) renderStoryMapBodies(sm *views.StoryMap) {
	if a.Markdown == nil {
		return
	}
	for i := range sm.Stories {
		if sm.Stories[i].Body != "" {
			sm.Stories[i].BodyHTML = a.Markdown(sm.Stories[i].Body)
		}
	}
}

func (a *Assembler) renderBugDescriptions(b *views.Bugs) {
	if a.Markdown == nil {
		return
	}
	for i := range b.Bugs {
		if b.Bugs[i].Description != nil {
			b.Bugs[i].DescriptionHTML = a.Markdown(*b.Bugs[i].Description)
		}
	}
}
