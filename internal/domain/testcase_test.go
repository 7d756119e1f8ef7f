package domain

import (
	"testing"
)

func TestCaseSnapshotRoundTrip(t *testing.T) {
	assignee := int64(7)
	tc := &TestCase{
		Title:          "Login",
		Description:    "checks the login form",
		Status:         CaseStatusPending,
		Priority:       PriorityHigh,
		Type:           "functional",
		AssigneeID:     &assignee,
		ExpectedResult: "user lands on dashboard",
		Version:        3,
	}
	steps := []TestStep{
		{StepNumber: 1, Description: "open page"},
		{StepNumber: 2, Description: "submit creds", ExpectedResult: "redirect"},
	}

	raw, err := NewCaseSnapshot(tc, steps)
	if err != nil {
		t.Fatalf("NewCaseSnapshot: %v", err)
	}
	snap, err := DecodeCaseSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}

	if snap.Title != tc.Title || snap.Status != tc.Status || snap.Priority != tc.Priority {
		t.Fatalf("snapshot fields mismatch: %+v", snap)
	}
	if snap.AssigneeID == nil || *snap.AssigneeID != assignee {
		t.Fatalf("snapshot assignee mismatch: %v", snap.AssigneeID)
	}
	if len(snap.Steps) != 2 {
		t.Fatalf("snapshot steps: want=2 got=%d", len(snap.Steps))
	}
	if snap.Steps[1].StepNumber != 2 || snap.Steps[1].ExpectedResult != "redirect" {
		t.Fatalf("snapshot step 2 mismatch: %+v", snap.Steps[1])
	}
}

func TestCaseSnapshotWithoutSteps(t *testing.T) {
	raw, err := NewCaseSnapshot(&TestCase{Title: "t", Status: CaseStatusPending, Priority: PriorityMedium}, nil)
	if err != nil {
		t.Fatalf("NewCaseSnapshot: %v", err)
	}
	snap, err := DecodeCaseSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}
	if snap.Steps != nil {
		t.Fatalf("expected no steps in snapshot, got %d", len(snap.Steps))
	}
}

func TestPatchHasFieldChanges(t *testing.T) {
	title := "x"
	cases := []struct {
		name  string
		patch TestCasePatch
		want  bool
	}{
		{"empty", TestCasePatch{}, false},
		{"steps only", TestCasePatch{Steps: []NewStep{{Description: "a"}}}, false},
		{"title", TestCasePatch{Title: &title}, true},
		{"assignee", TestCasePatch{AssigneeID: new(int64)}, true},
	}
	for _, c := range cases {
		if got := c.patch.HasFieldChanges(); got != c.want {
			t.Fatalf("%s: want=%v got=%v", c.name, c.want, got)
		}
	}
}

func TestStatusValidators(t *testing.T) {
	cases := []struct {
		fn    func(string) bool
		ok    string
		notOk string
	}{
		{ValidCaseStatus, CaseStatusBlocked, "unknown"},
		{ValidPriority, PriorityCritical, ""},
		{ValidRunStatus, RunStatusInProgress, "done"},
		{ValidResultStatus, ResultStatusSkipped, "Passed"},
		{ValidBugStatus, BugStatusResolved, "fixed"},
		{ValidRole, RoleViewer, "root"},
	}
	for i, c := range cases {
		if !c.fn(c.ok) {
			t.Fatalf("case %d: %q should be valid", i, c.ok)
		}
		if c.fn(c.notOk) {
			t.Fatalf("case %d: %q should be invalid", i, c.notOk)
		}
	}
}
