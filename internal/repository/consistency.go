package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

// AssignToFolder is idempotent: assigning an already-assigned case
// returns the existing association. Losing the race on the unique
// (test_case_id, folder_id) index maps the duplicate-key conflict back
// to a fetch of the winner's row.
func (r *repo) AssignToFolder(ctx context.Context, testCaseID, folderID int64) (*domain.TestCaseFolder, error) {
	const op = "repository.AssignToFolder"

	tc, err := r.store.GetTestCase(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, notFoundErr(op, "test case", testCaseID)
	}
	f, err := r.store.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, notFoundErr(op, "folder", folderID)
	}

	existing, err := r.store.GetAssignment(ctx, testCaseID, folderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	a := &domain.TestCaseFolder{TestCaseID: testCaseID, FolderID: folderID}
	err = r.store.CreateAssignment(ctx, a)
	if err == nil {
		return a, nil
	}
	if !domain.IsCode(err, domain.CodeConflict) {
		return nil, err
	}
	winner, ferr := r.store.GetAssignment(ctx, testCaseID, folderID)
	if ferr != nil {
		return nil, ferr
	}
	if winner == nil {
		return nil, err
	}
	return winner, nil
}

// RemoveFromFolder reports whether an association was removed; an absent
// pair is false with no error.
func (r *repo) RemoveFromFolder(ctx context.Context, testCaseID, folderID int64) (bool, error) {
	return r.store.DeleteAssignment(ctx, testCaseID, folderID)
}

func (r *repo) ListFoldersForCase(ctx context.Context, testCaseID int64) ([]domain.Folder, error) {
	const op = "repository.ListFoldersForCase"
	tc, err := r.store.GetTestCase(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, notFoundErr(op, "test case", testCaseID)
	}
	assignments, err := r.store.ListAssignmentsForCase(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	folders := make([]domain.Folder, 0, len(assignments))
	for _, a := range assignments {
		f, err := r.store.GetFolder(ctx, a.FolderID)
		if err != nil {
			return nil, err
		}
		if f != nil {
			folders = append(folders, *f)
		}
	}
	return folders, nil
}

// RecordRunResult inserts the result row, then overwrites the test
// case's status and last_run with the result's status and execution
// time. The two writes are not atomic: when the propagation write fails
// the result row is already persisted and the case status is stale; the
// error is surfaced and the partial state logged, never rolled back.
func (r *repo) RecordRunResult(ctx context.Context, n domain.NewRunResult) (*domain.TestRunResult, error) {
	const op = "repository.RecordRunResult"
	if err := checkNewResult(op, &n); err != nil {
		return nil, err
	}

	run, err := r.store.GetTestRun(ctx, n.RunID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, notFoundErr(op, "test run", n.RunID)
	}
	tc, err := r.store.GetTestCase(ctx, n.TestCaseID)
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, notFoundErr(op, "test case", n.TestCaseID)
	}

	executed := n.ExecutedAt
	if executed.IsZero() {
		executed = time.Now().UTC()
	}
	res := &domain.TestRunResult{
		RunID:      n.RunID,
		TestCaseID: n.TestCaseID,
		Status:     n.Status,
		Notes:      n.Notes,
		ExecutedBy: n.ExecutedBy,
		ExecutedAt: executed,
	}
	if err := r.store.CreateRunResult(ctx, res); err != nil {
		return nil, err
	}

	tc.Status = n.Status
	tc.LastRun = &executed
	if err := r.store.UpdateTestCase(ctx, tc); err != nil {
		r.log.Error("result recorded but status propagation failed",
			"run_id", n.RunID, "test_case_id", n.TestCaseID, "result_id", res.ID, "error", err)
		return nil, err
	}
	return res, nil
}

// DeleteTestCase removes the case's steps, folder associations, and
// version history before the row itself. A failure partway aborts with
// the error; whatever was already deleted stays deleted.
func (r *repo) DeleteTestCase(ctx context.Context, id int64) error {
	const op = "repository.DeleteTestCase"
	tc, err := r.store.GetTestCase(ctx, id)
	if err != nil {
		return err
	}
	if tc == nil {
		return notFoundErr(op, "test case", id)
	}
	if err := r.store.DeleteStepsForCase(ctx, id); err != nil {
		return err
	}
	if err := r.store.DeleteAssignmentsForCase(ctx, id); err != nil {
		return err
	}
	if err := r.store.DeleteVersionsForCase(ctx, id); err != nil {
		return err
	}
	ok, err := r.store.DeleteTestCase(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundErr(op, "test case", id)
	}
	return nil
}

func (r *repo) DeleteFolder(ctx context.Context, id int64) error {
	const op = "repository.DeleteFolder"
	f, err := r.store.GetFolder(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return notFoundErr(op, "folder", id)
	}
	if err := r.store.DeleteAssignmentsForFolder(ctx, id); err != nil {
		return err
	}
	ok, err := r.store.DeleteFolder(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundErr(op, "folder", id)
	}
	return nil
}

func (r *repo) DeleteTestRun(ctx context.Context, id int64) error {
	const op = "repository.DeleteTestRun"
	run, err := r.store.GetTestRun(ctx, id)
	if err != nil {
		return err
	}
	if run == nil {
		return notFoundErr(op, "test run", id)
	}
	if err := r.store.DeleteResultsForRun(ctx, id); err != nil {
		return err
	}
	ok, err := r.store.DeleteTestRun(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundErr(op, "test run", id)
	}
	return nil
}

// StartTestRun moves a pending run to in_progress and restamps
// started_at; any other current status is a conflict.
func (r *repo) StartTestRun(ctx context.Context, id int64) (*domain.TestRun, error) {
	const op = "repository.StartTestRun"
	run, err := r.store.GetTestRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, notFoundErr(op, "test run", id)
	}
	if run.Status != domain.RunStatusPending {
		return nil, domain.NewError(domain.CodeConflict, op,
			fmt.Sprintf("test run %d is %s, not pending", id, run.Status), nil)
	}
	run.Status = domain.RunStatusInProgress
	run.StartedAt = time.Now().UTC()
	if err := r.store.UpdateTestRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteTestRun stamps completed_at and computes the duration from
// started_at in whole seconds. Not idempotent: completing twice
// recomputes a larger duration from the original start.
func (r *repo) CompleteTestRun(ctx context.Context, id int64) (*domain.TestRun, error) {
	return r.finishTestRun(ctx, "repository.CompleteTestRun", id, domain.RunStatusCompleted)
}

// AbortTestRun marks the run aborted with the same completion stamping
// as CompleteTestRun.
func (r *repo) AbortTestRun(ctx context.Context, id int64) (*domain.TestRun, error) {
	return r.finishTestRun(ctx, "repository.AbortTestRun", id, domain.RunStatusAborted)
}

func (r *repo) finishTestRun(ctx context.Context, op string, id int64, status string) (*domain.TestRun, error) {
	run, err := r.store.GetTestRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, notFoundErr(op, "test run", id)
	}
	now := time.Now().UTC()
	duration := int64(now.Sub(run.StartedAt) / time.Second)
	run.Status = status
	run.CompletedAt = &now
	run.DurationSeconds = &duration
	if err := r.store.UpdateTestRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}
