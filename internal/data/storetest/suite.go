// Package storetest exercises the primitive store contract against a
// backend adapter. Both adapters run the same suite so the layers above
// can treat them interchangeably.
package storetest

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/domain"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) data.Store

// Run drives the full contract suite against stores built by factory.
func Run(t *testing.T, factory Factory) {
	t.Run("Ping", func(t *testing.T) { testPing(t, factory(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, factory(t)) })
	t.Run("TestCases", func(t *testing.T) { testTestCases(t, factory(t)) })
	t.Run("Steps", func(t *testing.T) { testSteps(t, factory(t)) })
	t.Run("Versions", func(t *testing.T) { testVersions(t, factory(t)) })
	t.Run("Folders", func(t *testing.T) { testFolders(t, factory(t)) })
	t.Run("Assignments", func(t *testing.T) { testAssignments(t, factory(t)) })
	t.Run("Runs", func(t *testing.T) { testRuns(t, factory(t)) })
	t.Run("RunResults", func(t *testing.T) { testRunResults(t, factory(t)) })
	t.Run("Bugs", func(t *testing.T) { testBugs(t, factory(t)) })
	t.Run("Whiteboards", func(t *testing.T) { testWhiteboards(t, factory(t)) })
	t.Run("Activity", func(t *testing.T) { testActivity(t, factory(t)) })
}

func seedCase(t *testing.T, s data.Store, title, status string) *domain.TestCase {
	t.Helper()
	tc := &domain.TestCase{
		Title:    title,
		Status:   status,
		Priority: domain.PriorityMedium,
		Version:  1,
	}
	if err := s.CreateTestCase(context.Background(), tc); err != nil {
		t.Fatalf("CreateTestCase: %v", err)
	}
	if tc.ID == 0 {
		t.Fatalf("CreateTestCase left id unset")
	}
	return tc
}

func seedFolder(t *testing.T, s data.Store, name string) *domain.Folder {
	t.Helper()
	f := &domain.Folder{Name: name}
	if err := s.CreateFolder(context.Background(), f); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	return f
}

func seedRun(t *testing.T, s data.Store, name string) *domain.TestRun {
	t.Helper()
	r := &domain.TestRun{Name: name, Status: domain.RunStatusPending, StartedAt: time.Now().UTC()}
	if err := s.CreateTestRun(context.Background(), r); err != nil {
		t.Fatalf("CreateTestRun: %v", err)
	}
	return r
}

func testPing(t *testing.T, s data.Store) {
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func testUsers(t *testing.T, s data.Store) {
	ctx := context.Background()

	u1 := &domain.User{Username: "mallory", Email: "mallory@example.com", PasswordHash: "h1", Role: domain.RoleTester}
	if err := s.CreateUser(ctx, u1); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u1.ID == 0 {
		t.Fatalf("CreateUser left id unset")
	}
	if u1.CreatedAt.IsZero() {
		t.Fatalf("CreateUser left created_at unset")
	}

	got, err := s.GetUser(ctx, u1.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil || got.Username != "mallory" {
		t.Fatalf("GetUser = %+v, want mallory", got)
	}

	missing, err := s.GetUser(ctx, u1.ID+1000)
	if err != nil {
		t.Fatalf("GetUser missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetUser missing = %+v, want nil", missing)
	}

	byName, err := s.GetUserByUsername(ctx, "mallory")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName == nil || byName.ID != u1.ID {
		t.Fatalf("GetUserByUsername = %+v, want id %d", byName, u1.ID)
	}
	if nobody, err := s.GetUserByUsername(ctx, "nobody"); err != nil || nobody != nil {
		t.Fatalf("GetUserByUsername nobody = %+v, %v, want nil, nil", nobody, err)
	}

	dupName := &domain.User{Username: "mallory", Email: "other@example.com", PasswordHash: "h", Role: domain.RoleTester}
	if err := s.CreateUser(ctx, dupName); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("CreateUser duplicate username = %v, want conflict", err)
	}
	dupMail := &domain.User{Username: "other", Email: "mallory@example.com", PasswordHash: "h", Role: domain.RoleTester}
	if err := s.CreateUser(ctx, dupMail); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("CreateUser duplicate email = %v, want conflict", err)
	}

	u2 := &domain.User{Username: "trent", Email: "trent@example.com", PasswordHash: "h2", Role: domain.RoleAdmin}
	if err := s.CreateUser(ctx, u2); err != nil {
		t.Fatalf("CreateUser second: %v", err)
	}
	if u2.ID <= u1.ID {
		t.Fatalf("ids not increasing: first %d, second %d", u1.ID, u2.ID)
	}

	all, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(all) != 2 || all[0].ID != u1.ID || all[1].ID != u2.ID {
		t.Fatalf("ListUsers = %+v, want [%d %d]", all, u1.ID, u2.ID)
	}

	u2.Role = domain.RoleViewer
	if err := s.UpdateUser(ctx, u2); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err = s.GetUser(ctx, u2.ID)
	if err != nil || got == nil {
		t.Fatalf("GetUser after update: %+v, %v", got, err)
	}
	if got.Role != domain.RoleViewer {
		t.Fatalf("role after update = %q, want viewer", got.Role)
	}

	ghost := &domain.User{ID: u2.ID + 1000, Username: "ghost", Email: "ghost@example.com", PasswordHash: "h", Role: domain.RoleViewer}
	if err := s.UpdateUser(ctx, ghost); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateUser missing = %v, want not_found", err)
	}

	ok, err := s.DeleteUser(ctx, u2.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteUser = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteUser(ctx, u2.ID)
	if err != nil || ok {
		t.Fatalf("DeleteUser repeat = %v, %v, want false, nil", ok, err)
	}
}

func testTestCases(t *testing.T, s data.Store) {
	ctx := context.Background()

	tc1 := seedCase(t, s, "login works", domain.CaseStatusPending)
	tc2 := seedCase(t, s, "logout works", domain.CaseStatusPassed)
	if tc2.ID <= tc1.ID {
		t.Fatalf("ids not increasing: %d then %d", tc1.ID, tc2.ID)
	}

	if missing, err := s.GetTestCase(ctx, tc2.ID+1000); err != nil || missing != nil {
		t.Fatalf("GetTestCase missing = %+v, %v, want nil, nil", missing, err)
	}

	all, err := s.ListTestCases(ctx, domain.TestCaseFilter{})
	if err != nil {
		t.Fatalf("ListTestCases: %v", err)
	}
	if len(all) != 2 || all[0].ID != tc1.ID {
		t.Fatalf("ListTestCases = %+v, want ascending pair", all)
	}

	passed := domain.CaseStatusPassed
	byStatus, err := s.ListTestCases(ctx, domain.TestCaseFilter{Status: &passed})
	if err != nil {
		t.Fatalf("ListTestCases status: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != tc2.ID {
		t.Fatalf("ListTestCases status = %+v, want only %d", byStatus, tc2.ID)
	}

	f := seedFolder(t, s, "smoke")
	if err := s.CreateAssignment(ctx, &domain.TestCaseFolder{TestCaseID: tc2.ID, FolderID: f.ID}); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	inFolder, err := s.ListTestCases(ctx, domain.TestCaseFilter{FolderID: &f.ID})
	if err != nil {
		t.Fatalf("ListTestCases folder: %v", err)
	}
	if len(inFolder) != 1 || inFolder[0].ID != tc2.ID {
		t.Fatalf("ListTestCases folder = %+v, want only %d", inFolder, tc2.ID)
	}
	pending := domain.CaseStatusPending
	none, err := s.ListTestCases(ctx, domain.TestCaseFilter{Status: &pending, FolderID: &f.ID})
	if err != nil {
		t.Fatalf("ListTestCases combined: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("ListTestCases combined = %+v, want empty", none)
	}

	tc1.Title = "login works on retry"
	tc1.Version = 2
	if err := s.UpdateTestCase(ctx, tc1); err != nil {
		t.Fatalf("UpdateTestCase: %v", err)
	}
	got, err := s.GetTestCase(ctx, tc1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTestCase after update: %+v, %v", got, err)
	}
	if got.Title != "login works on retry" || got.Version != 2 {
		t.Fatalf("after update = %+v, want title+version changed", got)
	}

	ghost := &domain.TestCase{ID: tc2.ID + 1000, Title: "x", Status: domain.CaseStatusPending, Priority: domain.PriorityLow, Version: 1}
	if err := s.UpdateTestCase(ctx, ghost); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateTestCase missing = %v, want not_found", err)
	}

	counts, err := s.CountTestCasesByStatus(ctx)
	if err != nil {
		t.Fatalf("CountTestCasesByStatus: %v", err)
	}
	if counts[domain.CaseStatusPending] != 1 || counts[domain.CaseStatusPassed] != 1 {
		t.Fatalf("CountTestCasesByStatus = %v", counts)
	}

	ok, err := s.DeleteTestCase(ctx, tc1.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteTestCase = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteTestCase(ctx, tc1.ID)
	if err != nil || ok {
		t.Fatalf("DeleteTestCase repeat = %v, %v, want false, nil", ok, err)
	}
}

func testSteps(t *testing.T, s data.Store) {
	ctx := context.Background()
	tc := seedCase(t, s, "stepped", domain.CaseStatusPending)

	steps := []domain.TestStep{
		{TestCaseID: tc.ID, StepNumber: 2, Description: "second"},
		{TestCaseID: tc.ID, StepNumber: 1, Description: "first"},
		{TestCaseID: tc.ID, StepNumber: 3, Description: "third"},
	}
	if err := s.CreateSteps(ctx, steps); err != nil {
		t.Fatalf("CreateSteps: %v", err)
	}
	for i, st := range steps {
		if st.ID == 0 {
			t.Fatalf("step %d left id unset", i)
		}
	}

	if err := s.CreateSteps(ctx, nil); err != nil {
		t.Fatalf("CreateSteps empty: %v", err)
	}

	got, err := s.ListSteps(ctx, tc.ID)
	if err != nil {
		t.Fatalf("ListSteps: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListSteps = %d rows, want 3", len(got))
	}
	for i, st := range got {
		if st.StepNumber != i+1 {
			t.Fatalf("ListSteps order = %+v, want by step_number", got)
		}
	}

	other, err := s.ListSteps(ctx, tc.ID+1000)
	if err != nil {
		t.Fatalf("ListSteps other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("ListSteps other = %+v, want empty", other)
	}

	if err := s.DeleteStepsForCase(ctx, tc.ID); err != nil {
		t.Fatalf("DeleteStepsForCase: %v", err)
	}
	got, err = s.ListSteps(ctx, tc.ID)
	if err != nil || len(got) != 0 {
		t.Fatalf("ListSteps after delete = %+v, %v, want empty", got, err)
	}
}

func testVersions(t *testing.T, s data.Store) {
	ctx := context.Background()
	tc := seedCase(t, s, "versioned", domain.CaseStatusPending)

	snap, err := domain.NewCaseSnapshot(tc, nil)
	if err != nil {
		t.Fatalf("NewCaseSnapshot: %v", err)
	}

	v3 := &domain.TestVersion{TestCaseID: tc.ID, Version: 3, Snapshot: snap, Comment: "third"}
	if err := s.CreateVersion(ctx, v3); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	v2 := &domain.TestVersion{TestCaseID: tc.ID, Version: 2, Snapshot: snap, Comment: "second"}
	if err := s.CreateVersion(ctx, v2); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	got, err := s.ListVersions(ctx, tc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(got) != 2 || got[0].Version != 2 || got[1].Version != 3 {
		t.Fatalf("ListVersions = %+v, want ascending [2 3]", got)
	}

	decoded, err := domain.DecodeCaseSnapshot(got[0].Snapshot)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}
	if decoded.Title != "versioned" {
		t.Fatalf("snapshot title = %q, want versioned", decoded.Title)
	}

	if err := s.DeleteVersionsForCase(ctx, tc.ID); err != nil {
		t.Fatalf("DeleteVersionsForCase: %v", err)
	}
	got, err = s.ListVersions(ctx, tc.ID)
	if err != nil || len(got) != 0 {
		t.Fatalf("ListVersions after delete = %+v, %v, want empty", got, err)
	}
}

func testFolders(t *testing.T, s data.Store) {
	ctx := context.Background()

	f1 := seedFolder(t, s, "regression")
	f2 := seedFolder(t, s, "smoke")
	if f2.ID <= f1.ID {
		t.Fatalf("ids not increasing: %d then %d", f1.ID, f2.ID)
	}

	if missing, err := s.GetFolder(ctx, f2.ID+1000); err != nil || missing != nil {
		t.Fatalf("GetFolder missing = %+v, %v, want nil, nil", missing, err)
	}

	all, err := s.ListFolders(ctx)
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(all) != 2 || all[0].ID != f1.ID {
		t.Fatalf("ListFolders = %+v, want ascending pair", all)
	}

	n, err := s.CountFolders(ctx)
	if err != nil || n != 2 {
		t.Fatalf("CountFolders = %d, %v, want 2", n, err)
	}

	f1.Description = "slow suite"
	if err := s.UpdateFolder(ctx, f1); err != nil {
		t.Fatalf("UpdateFolder: %v", err)
	}
	got, err := s.GetFolder(ctx, f1.ID)
	if err != nil || got == nil || got.Description != "slow suite" {
		t.Fatalf("GetFolder after update = %+v, %v", got, err)
	}

	ghost := &domain.Folder{ID: f2.ID + 1000, Name: "ghost"}
	if err := s.UpdateFolder(ctx, ghost); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateFolder missing = %v, want not_found", err)
	}

	ok, err := s.DeleteFolder(ctx, f2.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteFolder = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteFolder(ctx, f2.ID)
	if err != nil || ok {
		t.Fatalf("DeleteFolder repeat = %v, %v, want false, nil", ok, err)
	}
}

func testAssignments(t *testing.T, s data.Store) {
	ctx := context.Background()
	tc := seedCase(t, s, "grouped", domain.CaseStatusPending)
	f1 := seedFolder(t, s, "alpha")
	f2 := seedFolder(t, s, "beta")

	if err := s.CreateAssignment(ctx, &domain.TestCaseFolder{TestCaseID: tc.ID, FolderID: f1.ID}); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	dup := &domain.TestCaseFolder{TestCaseID: tc.ID, FolderID: f1.ID}
	if err := s.CreateAssignment(ctx, dup); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("CreateAssignment duplicate = %v, want conflict", err)
	}
	if err := s.CreateAssignment(ctx, &domain.TestCaseFolder{TestCaseID: tc.ID, FolderID: f2.ID}); err != nil {
		t.Fatalf("CreateAssignment second folder: %v", err)
	}

	got, err := s.GetAssignment(ctx, tc.ID, f1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetAssignment = %+v, %v, want row", got, err)
	}
	if missing, err := s.GetAssignment(ctx, tc.ID+1000, f1.ID); err != nil || missing != nil {
		t.Fatalf("GetAssignment missing = %+v, %v, want nil, nil", missing, err)
	}

	forCase, err := s.ListAssignmentsForCase(ctx, tc.ID)
	if err != nil || len(forCase) != 2 {
		t.Fatalf("ListAssignmentsForCase = %+v, %v, want 2 rows", forCase, err)
	}
	forFolder, err := s.ListAssignmentsForFolder(ctx, f1.ID)
	if err != nil || len(forFolder) != 1 {
		t.Fatalf("ListAssignmentsForFolder = %+v, %v, want 1 row", forFolder, err)
	}

	ok, err := s.DeleteAssignment(ctx, tc.ID, f1.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteAssignment = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteAssignment(ctx, tc.ID, f1.ID)
	if err != nil || ok {
		t.Fatalf("DeleteAssignment repeat = %v, %v, want false, nil", ok, err)
	}

	if err := s.DeleteAssignmentsForCase(ctx, tc.ID); err != nil {
		t.Fatalf("DeleteAssignmentsForCase: %v", err)
	}
	forCase, err = s.ListAssignmentsForCase(ctx, tc.ID)
	if err != nil || len(forCase) != 0 {
		t.Fatalf("assignments after case delete = %+v, %v, want empty", forCase, err)
	}

	if err := s.CreateAssignment(ctx, &domain.TestCaseFolder{TestCaseID: tc.ID, FolderID: f2.ID}); err != nil {
		t.Fatalf("CreateAssignment after clear: %v", err)
	}
	if err := s.DeleteAssignmentsForFolder(ctx, f2.ID); err != nil {
		t.Fatalf("DeleteAssignmentsForFolder: %v", err)
	}
	forFolder, err = s.ListAssignmentsForFolder(ctx, f2.ID)
	if err != nil || len(forFolder) != 0 {
		t.Fatalf("assignments after folder delete = %+v, %v, want empty", forFolder, err)
	}
}

func testRuns(t *testing.T, s data.Store) {
	ctx := context.Background()

	r1 := seedRun(t, s, "nightly")
	r2 := seedRun(t, s, "release")
	if r2.ID <= r1.ID {
		t.Fatalf("ids not increasing: %d then %d", r1.ID, r2.ID)
	}

	if missing, err := s.GetTestRun(ctx, r2.ID+1000); err != nil || missing != nil {
		t.Fatalf("GetTestRun missing = %+v, %v, want nil, nil", missing, err)
	}

	all, err := s.ListTestRuns(ctx)
	if err != nil {
		t.Fatalf("ListTestRuns: %v", err)
	}
	if len(all) != 2 || all[0].ID != r2.ID || all[1].ID != r1.ID {
		t.Fatalf("ListTestRuns = %+v, want newest first", all)
	}

	done := time.Now().UTC().Truncate(time.Second)
	dur := int64(90)
	r1.Status = domain.RunStatusCompleted
	r1.CompletedAt = &done
	r1.DurationSeconds = &dur
	if err := s.UpdateTestRun(ctx, r1); err != nil {
		t.Fatalf("UpdateTestRun: %v", err)
	}
	got, err := s.GetTestRun(ctx, r1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTestRun after update: %+v, %v", got, err)
	}
	if got.Status != domain.RunStatusCompleted || got.CompletedAt == nil || got.DurationSeconds == nil || *got.DurationSeconds != 90 {
		t.Fatalf("run after update = %+v", got)
	}

	ghost := &domain.TestRun{ID: r2.ID + 1000, Name: "ghost", Status: domain.RunStatusPending, StartedAt: time.Now().UTC()}
	if err := s.UpdateTestRun(ctx, ghost); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateTestRun missing = %v, want not_found", err)
	}

	counts, err := s.CountTestRunsByStatus(ctx)
	if err != nil {
		t.Fatalf("CountTestRunsByStatus: %v", err)
	}
	if counts[domain.RunStatusCompleted] != 1 || counts[domain.RunStatusPending] != 1 {
		t.Fatalf("CountTestRunsByStatus = %v", counts)
	}

	ok, err := s.DeleteTestRun(ctx, r2.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteTestRun = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteTestRun(ctx, r2.ID)
	if err != nil || ok {
		t.Fatalf("DeleteTestRun repeat = %v, %v, want false, nil", ok, err)
	}
}

func testRunResults(t *testing.T, s data.Store) {
	ctx := context.Background()
	run1 := seedRun(t, s, "first")
	run2 := seedRun(t, s, "second")
	tcA := seedCase(t, s, "alpha", domain.CaseStatusPending)
	tcB := seedCase(t, s, "beta", domain.CaseStatusPending)

	now := time.Now().UTC()
	rows := []*domain.TestRunResult{
		{RunID: run1.ID, TestCaseID: tcA.ID, Status: domain.ResultStatusPassed, ExecutedAt: now},
		{RunID: run1.ID, TestCaseID: tcB.ID, Status: domain.ResultStatusFailed, ExecutedAt: now},
		{RunID: run2.ID, TestCaseID: tcA.ID, Status: domain.ResultStatusSkipped, ExecutedAt: now},
	}
	for i, r := range rows {
		if err := s.CreateRunResult(ctx, r); err != nil {
			t.Fatalf("CreateRunResult %d: %v", i, err)
		}
		if r.ID == 0 {
			t.Fatalf("CreateRunResult %d left id unset", i)
		}
	}

	byRun, err := s.ListRunResults(ctx, domain.RunResultFilter{RunID: &run1.ID})
	if err != nil {
		t.Fatalf("ListRunResults run: %v", err)
	}
	if len(byRun) != 2 || byRun[0].ID != rows[0].ID || byRun[1].ID != rows[1].ID {
		t.Fatalf("ListRunResults run = %+v, want both run1 rows ascending", byRun)
	}

	byCase, err := s.ListRunResults(ctx, domain.RunResultFilter{TestCaseID: &tcA.ID})
	if err != nil {
		t.Fatalf("ListRunResults case: %v", err)
	}
	if len(byCase) != 2 {
		t.Fatalf("ListRunResults case = %+v, want 2 rows", byCase)
	}

	both, err := s.ListRunResults(ctx, domain.RunResultFilter{RunID: &run2.ID, TestCaseID: &tcA.ID})
	if err != nil {
		t.Fatalf("ListRunResults combined: %v", err)
	}
	if len(both) != 1 || both[0].Status != domain.ResultStatusSkipped {
		t.Fatalf("ListRunResults combined = %+v, want one skipped row", both)
	}

	if err := s.DeleteResultsForRun(ctx, run1.ID); err != nil {
		t.Fatalf("DeleteResultsForRun: %v", err)
	}
	left, err := s.ListRunResults(ctx, domain.RunResultFilter{})
	if err != nil {
		t.Fatalf("ListRunResults after delete: %v", err)
	}
	if len(left) != 1 || left[0].RunID != run2.ID {
		t.Fatalf("results after delete = %+v, want run2 row only", left)
	}
}

func testBugs(t *testing.T, s data.Store) {
	ctx := context.Background()
	tc := seedCase(t, s, "buggy", domain.CaseStatusFailed)

	b1 := &domain.Bug{Title: "crash on save", Status: domain.BugStatusOpen, Severity: domain.PriorityHigh, TestCaseID: &tc.ID}
	if err := s.CreateBug(ctx, b1); err != nil {
		t.Fatalf("CreateBug: %v", err)
	}
	b2 := &domain.Bug{Title: "typo in banner", Status: domain.BugStatusResolved, Severity: domain.PriorityLow}
	if err := s.CreateBug(ctx, b2); err != nil {
		t.Fatalf("CreateBug second: %v", err)
	}

	if missing, err := s.GetBug(ctx, b2.ID+1000); err != nil || missing != nil {
		t.Fatalf("GetBug missing = %+v, %v, want nil, nil", missing, err)
	}

	all, err := s.ListBugs(ctx, domain.BugFilter{})
	if err != nil {
		t.Fatalf("ListBugs: %v", err)
	}
	if len(all) != 2 || all[0].ID != b2.ID {
		t.Fatalf("ListBugs = %+v, want newest first", all)
	}

	open := domain.BugStatusOpen
	byStatus, err := s.ListBugs(ctx, domain.BugFilter{Status: &open})
	if err != nil || len(byStatus) != 1 || byStatus[0].ID != b1.ID {
		t.Fatalf("ListBugs status = %+v, %v, want only open bug", byStatus, err)
	}

	byCase, err := s.ListBugs(ctx, domain.BugFilter{TestCaseID: &tc.ID})
	if err != nil || len(byCase) != 1 || byCase[0].ID != b1.ID {
		t.Fatalf("ListBugs case = %+v, %v, want only linked bug", byCase, err)
	}

	b1.Status = domain.BugStatusInProgress
	if err := s.UpdateBug(ctx, b1); err != nil {
		t.Fatalf("UpdateBug: %v", err)
	}
	got, err := s.GetBug(ctx, b1.ID)
	if err != nil || got == nil || got.Status != domain.BugStatusInProgress {
		t.Fatalf("GetBug after update = %+v, %v", got, err)
	}

	ghost := &domain.Bug{ID: b2.ID + 1000, Title: "ghost", Status: domain.BugStatusOpen, Severity: domain.PriorityLow}
	if err := s.UpdateBug(ctx, ghost); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateBug missing = %v, want not_found", err)
	}

	counts, err := s.CountBugsByStatus(ctx)
	if err != nil {
		t.Fatalf("CountBugsByStatus: %v", err)
	}
	if counts[domain.BugStatusInProgress] != 1 || counts[domain.BugStatusResolved] != 1 {
		t.Fatalf("CountBugsByStatus = %v", counts)
	}

	ok, err := s.DeleteBug(ctx, b2.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteBug = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteBug(ctx, b2.ID)
	if err != nil || ok {
		t.Fatalf("DeleteBug repeat = %v, %v, want false, nil", ok, err)
	}
}

func testWhiteboards(t *testing.T, s data.Store) {
	ctx := context.Background()

	w := &domain.Whiteboard{Name: "sprint notes", Content: datatypes.JSON(`{"shapes":[]}`)}
	if err := s.CreateWhiteboard(ctx, w); err != nil {
		t.Fatalf("CreateWhiteboard: %v", err)
	}
	if w.ID == 0 {
		t.Fatalf("CreateWhiteboard left id unset")
	}

	if missing, err := s.GetWhiteboard(ctx, w.ID+1000); err != nil || missing != nil {
		t.Fatalf("GetWhiteboard missing = %+v, %v, want nil, nil", missing, err)
	}

	all, err := s.ListWhiteboards(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListWhiteboards = %+v, %v, want 1 row", all, err)
	}

	w.Content = datatypes.JSON(`{"shapes":[{"kind":"box"}]}`)
	if err := s.UpdateWhiteboard(ctx, w); err != nil {
		t.Fatalf("UpdateWhiteboard: %v", err)
	}
	got, err := s.GetWhiteboard(ctx, w.ID)
	if err != nil || got == nil {
		t.Fatalf("GetWhiteboard after update: %+v, %v", got, err)
	}
	if string(got.Content) != `{"shapes":[{"kind":"box"}]}` {
		t.Fatalf("content after update = %s", got.Content)
	}

	ghost := &domain.Whiteboard{ID: w.ID + 1000, Name: "ghost"}
	if err := s.UpdateWhiteboard(ctx, ghost); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateWhiteboard missing = %v, want not_found", err)
	}

	ok, err := s.DeleteWhiteboard(ctx, w.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteWhiteboard = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteWhiteboard(ctx, w.ID)
	if err != nil || ok {
		t.Fatalf("DeleteWhiteboard repeat = %v, %v, want false, nil", ok, err)
	}
}

func testActivity(t *testing.T, s data.Store) {
	ctx := context.Background()

	for i, action := range []string{"create", "update", "delete"} {
		row := &domain.ActivityLog{Action: action, EntityType: "test_case", EntityID: int64(i + 1)}
		if err := s.CreateActivity(ctx, row); err != nil {
			t.Fatalf("CreateActivity %q: %v", action, err)
		}
	}

	got, err := s.ListActivity(ctx, 10)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(got) != 3 || got[0].Action != "delete" || got[2].Action != "create" {
		t.Fatalf("ListActivity = %+v, want newest first", got)
	}

	capped, err := s.ListActivity(ctx, 2)
	if err != nil {
		t.Fatalf("ListActivity capped: %v", err)
	}
	if len(capped) != 2 || capped[0].Action != "delete" {
		t.Fatalf("ListActivity capped = %+v, want 2 newest", capped)
	}
}
