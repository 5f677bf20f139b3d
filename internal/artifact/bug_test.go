package artifact

import "testing"

const bugLog = `# Bug Log

## BUG-001

**Reported**: 2026-07-01
**Severity**: critical
**Status**: fixed
**GitHub Issue**: #42
**Description**: Watcher loops forever on its own output file
**Root Cause**: Output path was not excluded from the watch set
**Fix Reference**: T-B001

## BUG-002

**Reported**: _(date)_
**Severity**: URGENT
**Status**: open
**Description**: Debounce timer never fires
`

func TestParseBugs(t *testing.T) {
	bugs := ParseBugs(bugLog)

	if len(bugs) != 2 {
		t.Fatalf("len(bugs) = %d, want 2", len(bugs))
	}

	first := bugs[0]
	if first.ID != "BUG-001" || first.Severity != "critical" || first.Status != "fixed" {
		t.Errorf("first = %+v", first)
	}
	if first.GithubIssue == nil || *first.GithubIssue != "#42" {
		t.Errorf("first.GithubIssue = %v", first.GithubIssue)
	}
	if first.FixReference == nil || *first.FixReference != "T-B001" {
		t.Errorf("first.FixReference = %v", first.FixReference)
	}
}

// Unrecognized severity/status values fall back to medium/reported, and a
// field still holding template placeholder text counts as absent.
func TestParseBugs_Defaults(t *testing.T) {
	bugs := ParseBugs(bugLog)

	second := bugs[1]
	if second.Severity != "medium" {
		t.Errorf("Severity = %q, want medium for unknown value", second.Severity)
	}
	if second.Status != "reported" {
		t.Errorf("Status = %q, want reported for unknown value", second.Status)
	}
	if second.Reported != nil {
		t.Errorf("Reported = %q, want nil for template placeholder", *second.Reported)
	}
	if second.RootCause != nil || second.FixReference != nil {
		t.Errorf("missing fields should be nil: %+v", second)
	}
}

func TestParseBugs_Empty(t *testing.T) {
	if bugs := ParseBugs("# Bug Log\n\nNo entries yet.\n"); bugs != nil {
		t.Errorf("bugs = %v, want nil", bugs)
	}
}
