package repository

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/data/memory"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

func newTestRepo(t *testing.T) (Repository, *memory.Store) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() {
		log.Sync()
	})
	st := memory.NewStore(log)
	return New(st, log), st
}

func mustCreateCase(t *testing.T, r Repository, title string, stepDescriptions ...string) *domain.TestCaseWithSteps {
	t.Helper()
	in := domain.NewTestCase{Title: title}
	for _, d := range stepDescriptions {
		in.Steps = append(in.Steps, domain.NewStep{Description: d})
	}
	tc, err := r.CreateTestCaseWithSteps(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateTestCaseWithSteps: %v", err)
	}
	return tc
}

func mustCreateRun(t *testing.T, r Repository, name string) *domain.TestRun {
	t.Helper()
	run, err := r.CreateTestRun(context.Background(), domain.NewTestRun{Name: name})
	if err != nil {
		t.Fatalf("CreateTestRun: %v", err)
	}
	return run
}

func mustCreateFolder(t *testing.T, r Repository, name string) *domain.Folder {
	t.Helper()
	f, err := r.CreateFolder(context.Background(), domain.NewFolder{Name: name})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	return f
}

func strp(s string) *string { return &s }

func TestCreateTestCaseDefaultsAndNumbering(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "checkout flow", "add to cart", "pay")
	if tc.Version != 1 {
		t.Fatalf("new case version = %d, want 1", tc.Version)
	}
	if tc.Status != domain.CaseStatusPending || tc.Priority != domain.PriorityMedium {
		t.Fatalf("defaults = %s/%s, want pending/medium", tc.Status, tc.Priority)
	}
	if len(tc.Steps) != 2 || tc.Steps[0].StepNumber != 1 || tc.Steps[1].StepNumber != 2 {
		t.Fatalf("steps = %+v, want numbered 1,2", tc.Steps)
	}

	versions, err := r.ListVersions(ctx, tc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 0 {
		t.Fatalf("fresh case has %d snapshots, want 0", len(versions))
	}
}

func TestCreateTestCaseValidation(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   domain.NewTestCase
	}{
		{"missing title", domain.NewTestCase{}},
		{"blank title", domain.NewTestCase{Title: "   "}},
		{"unknown status", domain.NewTestCase{Title: "x", Status: "on-fire"}},
		{"unknown priority", domain.NewTestCase{Title: "x", Priority: "asap"}},
		{"blank step", domain.NewTestCase{Title: "x", Steps: []domain.NewStep{{Description: " "}}}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.CreateTestCaseWithSteps(ctx, tt.in); !domain.IsCode(err, domain.CodeValidation) {
				t.Fatalf("CreateTestCaseWithSteps = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateBumpsVersionOncePerUpdate(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "versioned case")
	titles := []string{"second", "third", "fourth"}
	for _, title := range titles {
		if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Title: strp(title)}); err != nil {
			t.Fatalf("UpdateTestCaseWithSteps(%q): %v", title, err)
		}
	}

	got, err := r.GetTestCase(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetTestCase: %v", err)
	}
	if got.Version != 4 {
		t.Fatalf("version after 3 updates = %d, want 4", got.Version)
	}

	versions, err := r.ListVersions(ctx, tc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("snapshot count = %d, want 3", len(versions))
	}
	for i, v := range versions {
		if v.Version != i+2 {
			t.Fatalf("snapshot versions = %+v, want 2,3,4", versions)
		}
	}
}

func TestUpdateWithSameStepsKeepsOrder(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "stable steps")
	steps := []domain.NewStep{{Description: "alpha"}, {Description: "beta"}}

	for i := 0; i < 2; i++ {
		if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Steps: steps}); err != nil {
			t.Fatalf("UpdateTestCaseWithSteps round %d: %v", i+1, err)
		}
	}

	got, err := r.GetTestCaseWithSteps(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetTestCaseWithSteps: %v", err)
	}
	if got.Version != 3 {
		t.Fatalf("version = %d, want 3", got.Version)
	}
	if len(got.Steps) != 2 {
		t.Fatalf("steps = %+v, want 2 rows", got.Steps)
	}
	for i, want := range []string{"alpha", "beta"} {
		if got.Steps[i].StepNumber != i+1 || got.Steps[i].Description != want {
			t.Fatalf("step %d = %+v, want %q at position %d", i, got.Steps[i], want, i+1)
		}
	}
}

func TestUpdateLeavesStepsWhenPatchOmitsThem(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "field-only update", "only step")
	updated, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Description: strp("now documented")})
	if err != nil {
		t.Fatalf("UpdateTestCaseWithSteps: %v", err)
	}
	if updated.Version != 2 || updated.Description != "now documented" {
		t.Fatalf("updated = %+v, want version 2 with new description", updated.TestCase)
	}
	if len(updated.Steps) != 1 || updated.Steps[0].Description != "only step" {
		t.Fatalf("steps after field-only update = %+v, want untouched", updated.Steps)
	}

	versions, err := r.ListVersions(ctx, tc.ID)
	if err != nil || len(versions) != 1 {
		t.Fatalf("ListVersions = %+v, %v, want one snapshot", versions, err)
	}
	snap, err := domain.DecodeCaseSnapshot(versions[0].Snapshot)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}
	if len(snap.Steps) != 0 {
		t.Fatalf("field-only snapshot captured steps: %+v", snap.Steps)
	}
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "untouchable")
	if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{}); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("empty patch = %v, want validation error", err)
	}
	got, err := r.GetTestCase(ctx, tc.ID)
	if err != nil || got.Version != 1 {
		t.Fatalf("case after rejected patch = %+v, %v, want version 1", got, err)
	}
}

func TestUpdateMissingCase(t *testing.T) {
	r, _ := newTestRepo(t)
	if _, err := r.UpdateTestCaseWithSteps(context.Background(), 4242, domain.TestCasePatch{Title: strp("x")}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateTestCaseWithSteps missing = %v, want not_found", err)
	}
}

// The scenario every reviewer walks through first: a Login case born with
// two steps, then trimmed to one.
func TestLoginScenario(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "Login", "open page", "submit creds")
	if tc.Version != 1 || len(tc.Steps) != 2 {
		t.Fatalf("created = version %d with %d steps, want 1 with 2", tc.Version, len(tc.Steps))
	}
	if tc.Steps[0].StepNumber != 1 || tc.Steps[1].StepNumber != 2 {
		t.Fatalf("step numbering = %+v, want 1,2", tc.Steps)
	}

	updated, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{
		Steps: []domain.NewStep{{Description: "open page"}},
	})
	if err != nil {
		t.Fatalf("UpdateTestCaseWithSteps: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("version after update = %d, want 2", updated.Version)
	}
	if len(updated.Steps) != 1 || updated.Steps[0].StepNumber != 1 {
		t.Fatalf("steps after update = %+v, want one step numbered 1", updated.Steps)
	}

	versions, err := r.ListVersions(ctx, tc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 1 || versions[0].Version != 2 {
		t.Fatalf("history = %+v, want one snapshot at version 2", versions)
	}
	snap, err := domain.DecodeCaseSnapshot(versions[0].Snapshot)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}
	if snap.Title != "Login" || len(snap.Steps) != 2 {
		t.Fatalf("snapshot = %+v, want pre-update state with 2 steps", snap)
	}
	if snap.Steps[0].Description != "open page" || snap.Steps[1].Description != "submit creds" {
		t.Fatalf("snapshot steps = %+v", snap.Steps)
	}
}

func TestCreateVersionSnapshotCheckpoint(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "checkpointed", "a step")
	ver, err := r.CreateVersionSnapshot(ctx, tc.ID, nil, "before the rewrite")
	if err != nil {
		t.Fatalf("CreateVersionSnapshot: %v", err)
	}
	if ver.Version != 2 || ver.Comment != "before the rewrite" {
		t.Fatalf("checkpoint = %+v, want version 2 with comment", ver)
	}

	got, err := r.GetTestCase(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetTestCase: %v", err)
	}
	if got.Version != 2 || got.Title != "checkpointed" {
		t.Fatalf("case after checkpoint = %+v, want version 2, fields unchanged", got)
	}

	snap, err := domain.DecodeCaseSnapshot(ver.Snapshot)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}
	if snap.Title != "checkpointed" || len(snap.Steps) != 1 {
		t.Fatalf("checkpoint snapshot = %+v, want current state with steps", snap)
	}

	if _, err := r.CreateVersionSnapshot(ctx, 4242, nil, ""); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("CreateVersionSnapshot missing = %v, want not_found", err)
	}
}

func TestRevertRestoresSnapshotFields(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "first title", "kept step")
	if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Title: strp("second title")}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Title: strp("third title")}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	reverted, err := r.RevertToVersion(ctx, tc.ID, 2, nil)
	if err != nil {
		t.Fatalf("RevertToVersion: %v", err)
	}
	if reverted.Version != 4 {
		t.Fatalf("version after revert = %d, want 4", reverted.Version)
	}
	if reverted.Title != "first title" {
		t.Fatalf("title after revert = %q, want the state captured at snapshot 2", reverted.Title)
	}
	if len(reverted.Steps) != 1 || reverted.Steps[0].Description != "kept step" {
		t.Fatalf("steps after revert = %+v, want untouched", reverted.Steps)
	}

	versions, err := r.ListVersions(ctx, tc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 3 || versions[2].Version != 4 {
		t.Fatalf("history after revert = %+v, want snapshots 2,3,4", versions)
	}
	preRevert, err := domain.DecodeCaseSnapshot(versions[2].Snapshot)
	if err != nil {
		t.Fatalf("DecodeCaseSnapshot: %v", err)
	}
	if preRevert.Title != "third title" {
		t.Fatalf("revert's own snapshot = %+v, want the pre-revert state", preRevert)
	}
}

func TestRevertUnknownVersion(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "history-less")
	// Version 1 is the creation state with no snapshot row.
	if _, err := r.RevertToVersion(ctx, tc.ID, 1, nil); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("RevertToVersion(1) = %v, want not_found", err)
	}
	if _, err := r.RevertToVersion(ctx, tc.ID, 99, nil); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("RevertToVersion(99) = %v, want not_found", err)
	}
	if _, err := r.RevertToVersion(ctx, 4242, 2, nil); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("RevertToVersion on missing case = %v, want not_found", err)
	}
}

func TestAssignToFolderIdempotent(t *testing.T) {
	r, st := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "grouped")
	f := mustCreateFolder(t, r, "smoke")

	first, err := r.AssignToFolder(ctx, tc.ID, f.ID)
	if err != nil {
		t.Fatalf("AssignToFolder: %v", err)
	}
	second, err := r.AssignToFolder(ctx, tc.ID, f.ID)
	if err != nil {
		t.Fatalf("AssignToFolder repeat: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeat assignment returned a different row: %d then %d", first.ID, second.ID)
	}

	rows, err := st.ListAssignmentsForCase(ctx, tc.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("assignment rows = %+v, %v, want exactly one", rows, err)
	}

	folders, err := r.ListFoldersForCase(ctx, tc.ID)
	if err != nil || len(folders) != 1 || folders[0].ID != f.ID {
		t.Fatalf("ListFoldersForCase = %+v, %v, want the one folder", folders, err)
	}
}

func TestAssignToFolderMissingRefs(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "real case")
	f := mustCreateFolder(t, r, "real folder")

	if _, err := r.AssignToFolder(ctx, 4242, f.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("missing case = %v, want not_found", err)
	}
	if _, err := r.AssignToFolder(ctx, tc.ID, 4242); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("missing folder = %v, want not_found", err)
	}
}

func TestRemoveFromFolder(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "transient member")
	f := mustCreateFolder(t, r, "short stay")

	removed, err := r.RemoveFromFolder(ctx, tc.ID, f.ID)
	if err != nil || removed {
		t.Fatalf("RemoveFromFolder unassigned = %v, %v, want false, nil", removed, err)
	}

	if _, err := r.AssignToFolder(ctx, tc.ID, f.ID); err != nil {
		t.Fatalf("AssignToFolder: %v", err)
	}
	removed, err = r.RemoveFromFolder(ctx, tc.ID, f.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveFromFolder = %v, %v, want true, nil", removed, err)
	}
	removed, err = r.RemoveFromFolder(ctx, tc.ID, f.ID)
	if err != nil || removed {
		t.Fatalf("RemoveFromFolder repeat = %v, %v, want false, nil", removed, err)
	}
}

func TestRecordRunResultPropagatesStatus(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	run := mustCreateRun(t, r, "nightly")
	tc := mustCreateCase(t, r, "observed case")
	executed := time.Now().UTC().Truncate(time.Second)

	res, err := r.RecordRunResult(ctx, domain.NewRunResult{
		RunID:      run.ID,
		TestCaseID: tc.ID,
		Status:     domain.ResultStatusFailed,
		Notes:      "timeout at step 2",
		ExecutedAt: executed,
	})
	if err != nil {
		t.Fatalf("RecordRunResult: %v", err)
	}
	if res.ID == 0 || !res.ExecutedAt.Equal(executed) {
		t.Fatalf("result = %+v", res)
	}

	got, err := r.GetTestCase(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetTestCase: %v", err)
	}
	if got.Status != domain.ResultStatusFailed {
		t.Fatalf("case status = %q, want failed", got.Status)
	}
	if got.LastRun == nil || !got.LastRun.Equal(executed) {
		t.Fatalf("last_run = %v, want %v", got.LastRun, executed)
	}
	if got.Version != tc.Version {
		t.Fatalf("version changed by result recording: %d -> %d", tc.Version, got.Version)
	}

	rows, err := r.ListRunResults(ctx, domain.RunResultFilter{RunID: &run.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListRunResults = %+v, %v, want one row", rows, err)
	}
}

func TestRecordRunResultValidation(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	run := mustCreateRun(t, r, "checked")
	tc := mustCreateCase(t, r, "checked case")

	if _, err := r.RecordRunResult(ctx, domain.NewRunResult{RunID: run.ID, TestCaseID: tc.ID, Status: "exploded"}); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("bad status = %v, want validation error", err)
	}
	if _, err := r.RecordRunResult(ctx, domain.NewRunResult{RunID: 4242, TestCaseID: tc.ID, Status: domain.ResultStatusPassed}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("missing run = %v, want not_found", err)
	}
	if _, err := r.RecordRunResult(ctx, domain.NewRunResult{RunID: run.ID, TestCaseID: 4242, Status: domain.ResultStatusPassed}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("missing case = %v, want not_found", err)
	}
}

// flakyStore injects a failure into the live-row write so the documented
// partial-failure windows can be observed.
type flakyStore struct {
	data.Store
	failCaseUpdate bool
}

func (f *flakyStore) UpdateTestCase(ctx context.Context, tc *domain.TestCase) error {
	if f.failCaseUpdate {
		return domain.NewError(domain.CodeUnavailable, "flaky.UpdateTestCase", "injected failure", nil)
	}
	return f.Store.UpdateTestCase(ctx, tc)
}

func TestRecordRunResultPartialFailure(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	base := memory.NewStore(log)
	flaky := &flakyStore{Store: base}
	r := New(flaky, log)
	ctx := context.Background()

	run := mustCreateRun(t, r, "doomed")
	tc := mustCreateCase(t, r, "stale case")

	flaky.failCaseUpdate = true
	_, err = r.RecordRunResult(ctx, domain.NewRunResult{RunID: run.ID, TestCaseID: tc.ID, Status: domain.ResultStatusFailed})
	if !domain.IsCode(err, domain.CodeUnavailable) {
		t.Fatalf("RecordRunResult = %v, want the propagation failure surfaced", err)
	}

	// The result row is still there; the case status is stale.
	rows, lerr := base.ListRunResults(ctx, domain.RunResultFilter{RunID: &run.ID})
	if lerr != nil || len(rows) != 1 {
		t.Fatalf("results after failure = %+v, %v, want the persisted row", rows, lerr)
	}
	got, gerr := base.GetTestCase(ctx, tc.ID)
	if gerr != nil || got == nil {
		t.Fatalf("GetTestCase: %+v, %v", got, gerr)
	}
	if got.Status != domain.CaseStatusPending || got.LastRun != nil {
		t.Fatalf("case mutated despite failed propagation: %+v", got)
	}
}

func TestOrphanSnapshotIgnoredAndRetryWins(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	base := memory.NewStore(log)
	flaky := &flakyStore{Store: base}
	r := New(flaky, log)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "interrupted")

	flaky.failCaseUpdate = true
	if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Title: strp("never landed")}); !domain.IsCode(err, domain.CodeUnavailable) {
		t.Fatalf("interrupted update = %v, want unavailable", err)
	}

	// Live row untouched, recognized history empty, but the orphan row
	// exists underneath.
	got, err := r.GetTestCase(ctx, tc.ID)
	if err != nil || got.Version != 1 || got.Title != "interrupted" {
		t.Fatalf("case after interrupted update = %+v, %v, want unchanged", got, err)
	}
	recognized, err := r.ListVersions(ctx, tc.ID)
	if err != nil || len(recognized) != 0 {
		t.Fatalf("recognized history = %+v, %v, want empty", recognized, err)
	}
	raw, err := base.ListVersions(ctx, tc.ID)
	if err != nil || len(raw) != 1 || raw[0].Version != 2 {
		t.Fatalf("raw rows = %+v, %v, want the orphan at version 2", raw, err)
	}

	// A retry succeeds and its snapshot shadows the orphan.
	flaky.failCaseUpdate = false
	updated, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Title: strp("landed")})
	if err != nil {
		t.Fatalf("retry update: %v", err)
	}
	if updated.Version != 2 || updated.Title != "landed" {
		t.Fatalf("retry result = %+v, want version 2", updated.TestCase)
	}
	recognized, err = r.ListVersions(ctx, tc.ID)
	if err != nil || len(recognized) != 1 || recognized[0].Version != 2 {
		t.Fatalf("recognized history after retry = %+v, %v, want one entry at version 2", recognized, err)
	}
	if recognized[0].ID == raw[0].ID {
		t.Fatalf("recognized entry is the orphan row, want the retry's row")
	}
}

func TestDeleteTestCaseCascades(t *testing.T) {
	r, st := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "doomed case", "one", "two", "three")
	f1 := mustCreateFolder(t, r, "left")
	f2 := mustCreateFolder(t, r, "right")
	for _, f := range []*domain.Folder{f1, f2} {
		if _, err := r.AssignToFolder(ctx, tc.ID, f.ID); err != nil {
			t.Fatalf("AssignToFolder: %v", err)
		}
	}
	if _, err := r.UpdateTestCaseWithSteps(ctx, tc.ID, domain.TestCasePatch{Title: strp("renamed")}); err != nil {
		t.Fatalf("UpdateTestCaseWithSteps: %v", err)
	}

	if err := r.DeleteTestCase(ctx, tc.ID); err != nil {
		t.Fatalf("DeleteTestCase: %v", err)
	}

	if _, err := r.GetTestCase(ctx, tc.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("GetTestCase after delete = %v, want not_found", err)
	}
	steps, err := st.ListSteps(ctx, tc.ID)
	if err != nil || len(steps) != 0 {
		t.Fatalf("steps after delete = %+v, %v, want none", steps, err)
	}
	assignments, err := st.ListAssignmentsForCase(ctx, tc.ID)
	if err != nil || len(assignments) != 0 {
		t.Fatalf("assignments after delete = %+v, %v, want none", assignments, err)
	}
	versions, err := st.ListVersions(ctx, tc.ID)
	if err != nil || len(versions) != 0 {
		t.Fatalf("versions after delete = %+v, %v, want none", versions, err)
	}

	if err := r.DeleteTestCase(ctx, tc.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("DeleteTestCase repeat = %v, want not_found", err)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	r, st := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "survivor")
	f := mustCreateFolder(t, r, "doomed folder")
	if _, err := r.AssignToFolder(ctx, tc.ID, f.ID); err != nil {
		t.Fatalf("AssignToFolder: %v", err)
	}

	if err := r.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	if _, err := r.GetFolder(ctx, f.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("GetFolder after delete = %v, want not_found", err)
	}
	rows, err := st.ListAssignmentsForFolder(ctx, f.ID)
	if err != nil || len(rows) != 0 {
		t.Fatalf("assignments after folder delete = %+v, %v, want none", rows, err)
	}
	if _, err := r.GetTestCase(ctx, tc.ID); err != nil {
		t.Fatalf("case should survive folder deletion: %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	run := mustCreateRun(t, r, "release check")
	if run.Status != domain.RunStatusPending {
		t.Fatalf("new run status = %q, want pending", run.Status)
	}

	started, err := r.StartTestRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("StartTestRun: %v", err)
	}
	if started.Status != domain.RunStatusInProgress {
		t.Fatalf("started status = %q, want in_progress", started.Status)
	}
	if _, err := r.StartTestRun(ctx, run.ID); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("StartTestRun repeat = %v, want conflict", err)
	}

	completed, err := r.CompleteTestRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("CompleteTestRun: %v", err)
	}
	if completed.Status != domain.RunStatusCompleted || completed.CompletedAt == nil || completed.DurationSeconds == nil {
		t.Fatalf("completed run = %+v", completed)
	}
	if *completed.DurationSeconds < 0 {
		t.Fatalf("duration = %d, want >= 0", *completed.DurationSeconds)
	}

	// Not idempotent: completing again recomputes from the original start.
	again, err := r.CompleteTestRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("CompleteTestRun repeat: %v", err)
	}
	if *again.DurationSeconds < *completed.DurationSeconds {
		t.Fatalf("second completion shrank the duration: %d -> %d", *completed.DurationSeconds, *again.DurationSeconds)
	}

	other := mustCreateRun(t, r, "abandoned")
	aborted, err := r.AbortTestRun(ctx, other.ID)
	if err != nil {
		t.Fatalf("AbortTestRun: %v", err)
	}
	if aborted.Status != domain.RunStatusAborted || aborted.CompletedAt == nil || aborted.DurationSeconds == nil {
		t.Fatalf("aborted run = %+v", aborted)
	}

	if _, err := r.StartTestRun(ctx, 4242); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("StartTestRun missing = %v, want not_found", err)
	}
	if _, err := r.CompleteTestRun(ctx, 4242); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("CompleteTestRun missing = %v, want not_found", err)
	}
}

func TestCompleteTestRunWholeSeconds(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	run, err := r.CreateTestRun(ctx, domain.NewTestRun{
		Name:      "old run",
		StartedAt: time.Now().UTC().Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateTestRun: %v", err)
	}
	completed, err := r.CompleteTestRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("CompleteTestRun: %v", err)
	}
	if d := *completed.DurationSeconds; d < 7200 || d > 7205 {
		t.Fatalf("duration = %d, want about 7200 whole seconds", d)
	}
}

func TestDeleteTestRunCascades(t *testing.T) {
	r, st := newTestRepo(t)
	ctx := context.Background()

	run := mustCreateRun(t, r, "short-lived")
	tc := mustCreateCase(t, r, "measured")
	if _, err := r.RecordRunResult(ctx, domain.NewRunResult{RunID: run.ID, TestCaseID: tc.ID, Status: domain.ResultStatusPassed}); err != nil {
		t.Fatalf("RecordRunResult: %v", err)
	}

	if err := r.DeleteTestRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteTestRun: %v", err)
	}
	rows, err := st.ListRunResults(ctx, domain.RunResultFilter{RunID: &run.ID})
	if err != nil || len(rows) != 0 {
		t.Fatalf("results after run delete = %+v, %v, want none", rows, err)
	}
	if _, err := r.GetTestRun(ctx, run.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("GetTestRun after delete = %v, want not_found", err)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, domain.NewUser{Username: "rivka", Email: "rivka@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != domain.RoleTester {
		t.Fatalf("default role = %q, want tester", u.Role)
	}
	if u.PasswordHash == "hunter2" || u.PasswordHash == "" {
		t.Fatalf("password stored raw or empty")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	if _, err := r.CreateUser(ctx, domain.NewUser{Username: "rivka", Email: "other@example.com", Password: "x"}); !domain.IsCode(err, domain.CodeConflict) {
		t.Fatalf("duplicate username = %v, want conflict", err)
	}
	if _, err := r.CreateUser(ctx, domain.NewUser{Username: "someone", Email: "x", Password: ""}); !domain.IsCode(err, domain.CodeValidation) {
		t.Fatalf("missing password = %v, want validation error", err)
	}
}

func TestWhiteboardContentIsOpaque(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	w, err := r.CreateWhiteboard(ctx, domain.NewWhiteboard{Name: "retro board"})
	if err != nil {
		t.Fatalf("CreateWhiteboard: %v", err)
	}

	payload := []byte(`{"strokes":[[0,0],[10,4]],"color":"#aa0000"}`)
	updated, err := r.UpdateWhiteboard(ctx, w.ID, domain.WhiteboardPatch{Content: payload})
	if err != nil {
		t.Fatalf("UpdateWhiteboard: %v", err)
	}
	if string(updated.Content) != string(payload) {
		t.Fatalf("content = %s, want stored verbatim", updated.Content)
	}

	if _, err := r.UpdateWhiteboard(ctx, 4242, domain.WhiteboardPatch{Content: payload}); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("UpdateWhiteboard missing = %v, want not_found", err)
	}
}

func TestBugLifecycle(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tc := mustCreateCase(t, r, "crashy feature")
	b, err := r.CreateBug(ctx, domain.NewBug{Title: "crash on save", TestCaseID: &tc.ID})
	if err != nil {
		t.Fatalf("CreateBug: %v", err)
	}
	if b.Status != domain.BugStatusOpen || b.Severity != domain.PriorityMedium {
		t.Fatalf("bug defaults = %s/%s, want open/medium", b.Status, b.Severity)
	}

	updated, err := r.UpdateBug(ctx, b.ID, domain.BugPatch{Status: strp(domain.BugStatusResolved)})
	if err != nil || updated.Status != domain.BugStatusResolved {
		t.Fatalf("UpdateBug = %+v, %v", updated, err)
	}

	resolved := domain.BugStatusResolved
	bugs, err := r.ListBugs(ctx, domain.BugFilter{Status: &resolved, TestCaseID: &tc.ID})
	if err != nil || len(bugs) != 1 || bugs[0].ID != b.ID {
		t.Fatalf("ListBugs = %+v, %v, want the resolved bug", bugs, err)
	}

	if err := r.DeleteBug(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBug: %v", err)
	}
	if _, err := r.GetBug(ctx, b.ID); !domain.IsCode(err, domain.CodeNotFound) {
		t.Fatalf("GetBug after delete = %v, want not_found", err)
	}
}
