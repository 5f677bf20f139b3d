package views

import (
	"context"

	"github.com/hpungsan/specdash/internal/artifact"
	"github.com/hpungsan/specdash/internal/diagram"
	"github.com/hpungsan/specdash/internal/evalfetch"
)

// NodeClassifier assigns a type to each diagram node label.
type NodeClassifier interface {
	Classify(ctx context.Context, featureID string, labels []string) map[string]string
}

// EvalFetcher resolves a dependency tile's eval summary, nil when none.
type EvalFetcher interface {
	Fetch(ctx context.Context, tileName string) *evalfetch.Summary
}

// PlanView is the plan tab state.
type PlanView struct {
	TechContext       []artifact.TechContextEntry `json:"techContext"`
	ResearchDecisions []artifact.Decision         `json:"researchDecisions"`
	FileStructure     *artifact.FileStructure     `json:"fileStructure"`
	Diagram           *diagram.Diagram            `json:"diagram"`
	TesslTiles        []artifact.DependencyTile   `json:"tesslTiles"`
	Exists            bool                        `json:"exists"`
}

// PlanViewInput carries the artifacts and injected collaborators.
type PlanViewInput struct {
	FeatureID       string
	PlanContent     string
	PlanExists      bool
	ResearchContent string
	ManifestJSON    []byte
	PathExists      func(rel string) bool
	Classifier      NodeClassifier
	Evals           EvalFetcher
}

// ComputePlanView builds the plan view: tech context, research decisions,
// the file-structure tree marked against the real filesystem, the typed
// architecture diagram, and dependency tiles with eval data.
func ComputePlanView(ctx context.Context, in PlanViewInput) PlanView {
	view := PlanView{
		TechContext:       []artifact.TechContextEntry{},
		ResearchDecisions: []artifact.Decision{},
		TesslTiles:        []artifact.DependencyTile{},
	}
	if !in.PlanExists {
		return view
	}
	view.Exists = true

	view.TechContext = append(view.TechContext, artifact.ParseTechContext(in.PlanContent)...)
	if in.ResearchContent != "" {
		view.ResearchDecisions = append(view.ResearchDecisions, artifact.ParseDecisions(in.ResearchContent)...)
	}

	if fs := artifact.ParseFileStructure(in.PlanContent); fs != nil {
		if in.PathExists != nil {
			for i := range fs.Entries {
				fs.Entries[i].Exists = in.PathExists(artifact.EntryPath(fs, i))
			}
		}
		view.FileStructure = fs
	}

	if d := diagram.Parse(in.PlanContent); d != nil {
		if len(d.Nodes) > 0 && in.Classifier != nil {
			labels := make([]string, len(d.Nodes))
			for i, n := range d.Nodes {
				labels[i] = n.Label
			}
			types := in.Classifier.Classify(ctx, in.FeatureID, labels)
			for i := range d.Nodes {
				if t, ok := types[d.Nodes[i].Label]; ok && t != "" {
					d.Nodes[i].Type = t
				}
			}
		}
		view.Diagram = d
	}

	tiles := artifact.ParseDependencyManifest(in.ManifestJSON)
	if in.Evals != nil {
		for i := range tiles {
			if summary := in.Evals.Fetch(ctx, tiles[i].Name); summary != nil {
				tiles[i].Eval = summary
			}
		}
	}
	view.TesslTiles = tiles
	return view
}
