package artifact

import "testing"

const researchDoc = `# Research

## Decisions

### 1. File watching library

**Decision**: Use fsnotify
**Rationale**: Cross-platform, mature, no polling

### 2. Output format

**Decision**: Single self-contained HTML file

## Alternatives Considered
`

func TestParseDecisions(t *testing.T) {
	decisions := ParseDecisions(researchDoc)

	if len(decisions) != 2 {
		t.Fatalf("len(decisions) = %d, want 2", len(decisions))
	}
	if decisions[0].Title != "File watching library" {
		t.Errorf("Title = %q", decisions[0].Title)
	}
	if decisions[0].Decision != "Use fsnotify" {
		t.Errorf("Decision = %q", decisions[0].Decision)
	}
	if decisions[0].Rationale != "Cross-platform, mature, no polling" {
		t.Errorf("Rationale = %q", decisions[0].Rationale)
	}
	if decisions[1].Rationale != "" {
		t.Errorf("decisions[1].Rationale = %q, want empty", decisions[1].Rationale)
	}
}

func TestParseDecisions_NoSection(t *testing.T) {
	if d := ParseDecisions("# Research\n\n### 1. Stray heading\n"); d != nil {
		t.Errorf("decisions = %v, want nil", d)
	}
}
