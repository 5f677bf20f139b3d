package diagram

import "testing"

const fence = "```"

// wrap embeds diagram text in an Architecture Overview fenced block.
func wrap(body string) string {
	return "# Plan\n\n## Architecture Overview\n\n" + fence + "\n" + body + fence + "\n"
}

func TestParse_TwoBoxesWithLabeledEdge(t *testing.T) {
	d := Parse(wrap(`┌─────────┐
│ Client  │
└────┬────┘
     │ HTTP
┌────┴────┐
│ Server  │
└─────────┘
`))
	if d == nil {
		t.Fatal("Parse = nil")
	}
	if len(d.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2: %+v", len(d.Nodes), d.Nodes)
	}
	if d.Nodes[0].Label != "Client" || d.Nodes[1].Label != "Server" {
		t.Errorf("labels = %q, %q", d.Nodes[0].Label, d.Nodes[1].Label)
	}
	if d.Nodes[0].Type != "default" {
		t.Errorf("Type = %q, want default", d.Nodes[0].Type)
	}

	if len(d.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1: %+v", len(d.Edges), d.Edges)
	}
	e := d.Edges[0]
	if e.From != "node-0" || e.To != "node-1" {
		t.Errorf("edge = %q -> %q", e.From, e.To)
	}
	if e.Label == nil || *e.Label != "HTTP" {
		t.Errorf("edge.Label = %v, want HTTP", e.Label)
	}
}

func TestParse_MinimalBox(t *testing.T) {
	d := Parse(wrap(`┌─┐
│X│
└─┘
`))
	if d == nil || len(d.Nodes) != 1 {
		t.Fatalf("d = %+v, want one node", d)
	}
	n := d.Nodes[0]
	if n.Label != "X" || n.Content != "X" {
		t.Errorf("node = %+v", n)
	}
	if n.Width != 2 || n.Height != 2 {
		t.Errorf("geometry = %dx%d, want 2x2", n.Width, n.Height)
	}
}

// A frame strictly containing another box is decoration and is dropped; the
// surviving node keeps the id it was assigned at detection time.
func TestParse_ContainerFrameDropped(t *testing.T) {
	d := Parse(wrap(`┌───────────────┐
│   ┌───────┐   │
│   │ Inner │   │
│   └───────┘   │
└───────────────┘
`))
	if d == nil {
		t.Fatal("Parse = nil")
	}
	if len(d.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1: %+v", len(d.Nodes), d.Nodes)
	}
	if d.Nodes[0].Label != "Inner" {
		t.Errorf("Label = %q, want Inner", d.Nodes[0].Label)
	}
	if d.Nodes[0].ID != "node-1" {
		t.Errorf("ID = %q, want node-1 (assigned at detection)", d.Nodes[0].ID)
	}
}

// Two connector runs between the same pair produce one edge.
func TestParse_EdgeDedup(t *testing.T) {
	d := Parse(wrap(`┌───────┐
│ Top   │
└─┬───┬─┘
  │   │
┌─┴───┴─┐
│ Bot   │
└───────┘
`))
	if d == nil || len(d.Nodes) != 2 {
		t.Fatalf("d = %+v, want two nodes", d)
	}
	if len(d.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1: %+v", len(d.Edges), d.Edges)
	}
	if d.Edges[0].Label != nil {
		t.Errorf("Label = %q, want nil", *d.Edges[0].Label)
	}
}

func TestParse_NoHeading(t *testing.T) {
	if d := Parse("# Plan\n\n" + fence + "\n┌─┐\n└─┘\n" + fence + "\n"); d != nil {
		t.Errorf("d = %+v, want nil", d)
	}
}

func TestParse_HeadingWithoutFence(t *testing.T) {
	if d := Parse("## Architecture Overview\n\nprose only\n"); d != nil {
		t.Errorf("d = %+v, want nil", d)
	}
}

func TestParse_EmptyDiagram(t *testing.T) {
	d := Parse(wrap("no boxes here\n"))
	if d == nil {
		t.Fatal("Parse = nil, want empty diagram")
	}
	if d.Nodes == nil || len(d.Nodes) != 0 {
		t.Errorf("Nodes = %v, want empty slice", d.Nodes)
	}
	if d.Edges == nil || len(d.Edges) != 0 {
		t.Errorf("Edges = %v, want empty slice", d.Edges)
	}
	if d.Raw != "no boxes here\n" {
		t.Errorf("Raw = %q", d.Raw)
	}
}
