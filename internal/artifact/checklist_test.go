package artifact

import "testing"

const apiChecklist = `# API Design Checklist

## Endpoints

- [x] CHK-001 Verify route naming [US1] [plan]
- [ ] CHK-002 Document error envelopes
- [X] Uppercase checkbox still counts

### Pagination

- [ ] Cursor params agreed
`

const requirementsChecklist = `# Requirements Quality

- [x] Every FR is testable
- [ ] No ambiguous terms
`

func TestAggregateChecklists_CountsAndPercentage(t *testing.T) {
	totals := AggregateChecklists([]NamedFile{
		{Name: "api-design.md", Content: apiChecklist},
		{Name: "requirements.md", Content: requirementsChecklist},
	})

	if totals.Total != 6 {
		t.Errorf("Total = %d, want 6", totals.Total)
	}
	if totals.Checked != 3 {
		t.Errorf("Checked = %d, want 3", totals.Checked)
	}
	if totals.Percentage != 50 {
		t.Errorf("Percentage = %d, want 50", totals.Percentage)
	}
}

func TestAggregateChecklists_LoneRequirementsExcluded(t *testing.T) {
	totals := AggregateChecklists([]NamedFile{
		{Name: "requirements.md", Content: requirementsChecklist},
	})

	if totals.Total != 0 || totals.Checked != 0 || totals.Percentage != 0 {
		t.Errorf("totals = %+v, want all zero for lone requirements.md", totals)
	}
}

func TestParseChecklistFiles_Detail(t *testing.T) {
	files := ParseChecklistFiles([]NamedFile{
		{Name: "api-design.md", Content: apiChecklist},
	})

	if len(files) != 1 {
		t.Fatalf("len(files) = %d, want 1", len(files))
	}
	f := files[0]
	if f.Name != "Api Design" {
		t.Errorf("Name = %q, want %q", f.Name, "Api Design")
	}
	if f.Total != 4 || f.Checked != 2 {
		t.Errorf("Total/Checked = %d/%d, want 4/2", f.Total, f.Checked)
	}

	item := f.Items[0]
	if item.ChkID == nil || *item.ChkID != "CHK-001" {
		t.Errorf("ChkID = %v, want CHK-001", item.ChkID)
	}
	if item.Text != "Verify route naming" {
		t.Errorf("Text = %q, want tags peeled", item.Text)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "US1" || item.Tags[1] != "plan" {
		t.Errorf("Tags = %v, want [US1 plan]", item.Tags)
	}
	if item.Category == nil || *item.Category != "Endpoints" {
		t.Errorf("Category = %v, want Endpoints", item.Category)
	}

	last := f.Items[3]
	if last.Category == nil || *last.Category != "Pagination" {
		t.Errorf("last.Category = %v, want Pagination", last.Category)
	}
}

// ParseChecklistFiles includes a lone requirements.md even though the coarse
// aggregation excludes it.
func TestParseChecklistFiles_LoneRequirementsIncluded(t *testing.T) {
	files := ParseChecklistFiles([]NamedFile{
		{Name: "requirements.md", Content: requirementsChecklist},
	})

	if len(files) != 1 || files[0].Total != 2 {
		t.Fatalf("files = %+v, want one file with 2 items", files)
	}
	if files[0].Name != "Requirements" {
		t.Errorf("Name = %q, want Requirements", files[0].Name)
	}
}

func TestRoundPct_HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{3, 3, 100},
	}
	for _, c := range cases {
		if got := RoundPct(c.part, c.total); got != c.want {
			t.Errorf("RoundPct(%d, %d) = %d, want %d", c.part, c.total, got, c.want)
		}
	}
}
