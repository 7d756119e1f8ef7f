package repository

import (
	"context"
	"fmt"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

// The version rules in this file keep the invariant that a test case at
// version N has exactly N-1 snapshot rows with versions 2..N. Snapshots
// record the state *before* a change and carry the version number the
// change produced. Writes are not transactional: a snapshot whose
// live-row write never landed is an orphan, recognized by its version
// being higher than the live version and filtered out of every read.

func (r *repo) CreateTestCaseWithSteps(ctx context.Context, n domain.NewTestCase) (*domain.TestCaseWithSteps, error) {
	const op = "repository.CreateTestCaseWithSteps"
	if err := checkNewCase(op, &n); err != nil {
		return nil, err
	}
	tc := &domain.TestCase{
		Title:          n.Title,
		Description:    n.Description,
		Status:         n.Status,
		Priority:       n.Priority,
		Type:           n.Type,
		AssigneeID:     n.AssigneeID,
		CreatedBy:      n.CreatedBy,
		ExpectedResult: n.ExpectedResult,
		Version:        1,
	}
	if err := r.store.CreateTestCase(ctx, tc); err != nil {
		return nil, err
	}
	steps := buildSteps(tc.ID, n.Steps)
	if err := r.store.CreateSteps(ctx, steps); err != nil {
		return nil, err
	}
	return &domain.TestCaseWithSteps{TestCase: *tc, Steps: steps}, nil
}

func (r *repo) GetTestCaseWithSteps(ctx context.Context, id int64) (*domain.TestCaseWithSteps, error) {
	const op = "repository.GetTestCaseWithSteps"
	tc, err := r.store.GetTestCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, notFoundErr(op, "test case", id)
	}
	steps, err := r.store.ListSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.TestCaseWithSteps{TestCase: *tc, Steps: steps}, nil
}

// UpdateTestCaseWithSteps applies a content patch through the
// snapshot-then-apply path: load current state, write the pre-update
// snapshot tagged with the new version number, then write the live row
// and, when the patch carries a step slice, replace the step set whole.
// A failure after the snapshot write leaves an orphan snapshot and the
// case unchanged; a failure after the live write can leave the old steps
// in place, which the returned error surfaces.
func (r *repo) UpdateTestCaseWithSteps(ctx context.Context, id int64, patch domain.TestCasePatch) (*domain.TestCaseWithSteps, error) {
	const op = "repository.UpdateTestCaseWithSteps"
	if err := checkCasePatch(op, &patch); err != nil {
		return nil, err
	}

	current, err := r.store.GetTestCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFoundErr(op, "test case", id)
	}

	var priorSteps []domain.TestStep
	if patch.Steps != nil {
		priorSteps, err = r.store.ListSteps(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	newVersion := current.Version + 1
	if err := r.writeSnapshot(ctx, op, current, priorSteps, newVersion, patch.ActorID, patch.Comment); err != nil {
		return nil, err
	}

	applyCasePatch(current, patch)
	current.Version = newVersion
	if err := r.store.UpdateTestCase(ctx, current); err != nil {
		return nil, err
	}

	var steps []domain.TestStep
	if patch.Steps != nil {
		if err := r.store.DeleteStepsForCase(ctx, id); err != nil {
			return nil, err
		}
		steps = buildSteps(id, patch.Steps)
		if err := r.store.CreateSteps(ctx, steps); err != nil {
			return nil, err
		}
	} else {
		steps, err = r.store.ListSteps(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	return &domain.TestCaseWithSteps{TestCase: *current, Steps: steps}, nil
}

// ListVersions returns the case's recognized history, oldest first.
// Snapshot rows above the live version are orphans from interrupted
// updates and are omitted; when a retry after an interrupted update left
// two rows with the same version key, the newer row wins.
func (r *repo) ListVersions(ctx context.Context, testCaseID int64) ([]domain.TestVersion, error) {
	const op = "repository.ListVersions"
	current, err := r.store.GetTestCase(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFoundErr(op, "test case", testCaseID)
	}
	rows, err := r.store.ListVersions(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TestVersion, 0, len(rows))
	for _, v := range rows {
		if v.Version > current.Version {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Version == v.Version {
			out[n-1] = v
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// CreateVersionSnapshot checkpoints the current state without changing
// any field: it records a snapshot of the case and its steps at
// version+1 and bumps the live version to match.
func (r *repo) CreateVersionSnapshot(ctx context.Context, testCaseID int64, actorID *int64, comment string) (*domain.TestVersion, error) {
	const op = "repository.CreateVersionSnapshot"
	current, err := r.store.GetTestCase(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFoundErr(op, "test case", testCaseID)
	}
	steps, err := r.store.ListSteps(ctx, testCaseID)
	if err != nil {
		return nil, err
	}

	newVersion := current.Version + 1
	ver, err := r.buildVersion(op, current, steps, newVersion, actorID, comment)
	if err != nil {
		return nil, err
	}
	if err := r.store.CreateVersion(ctx, ver); err != nil {
		return nil, err
	}

	current.Version = newVersion
	if err := r.store.UpdateTestCase(ctx, current); err != nil {
		return nil, err
	}
	return ver, nil
}

// RevertToVersion restores the field values stored in the snapshot whose
// version number matches exactly. Reverting is itself a content change
// and goes through the same snapshot-then-apply path, so it bumps the
// version rather than rewinding it. Steps are not restored.
func (r *repo) RevertToVersion(ctx context.Context, testCaseID int64, version int, actorID *int64) (*domain.TestCaseWithSteps, error) {
	const op = "repository.RevertToVersion"
	current, err := r.store.GetTestCase(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFoundErr(op, "test case", testCaseID)
	}

	rows, err := r.store.ListVersions(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	var target *domain.TestVersion
	for i := range rows {
		if rows[i].Version > current.Version || rows[i].Version != version {
			continue
		}
		target = &rows[i]
	}
	if target == nil {
		return nil, domain.NewError(domain.CodeNotFound, op,
			fmt.Sprintf("version %d not found for test case %d", version, testCaseID), nil)
	}
	snap, err := domain.DecodeCaseSnapshot(target.Snapshot)
	if err != nil {
		return nil, domain.Wrap(domain.CodeInternal, op, err)
	}

	newVersion := current.Version + 1
	comment := fmt.Sprintf("revert to version %d", version)
	if err := r.writeSnapshot(ctx, op, current, nil, newVersion, actorID, comment); err != nil {
		return nil, err
	}

	current.Title = snap.Title
	current.Description = snap.Description
	current.Status = snap.Status
	current.Priority = snap.Priority
	current.Type = snap.Type
	current.AssigneeID = snap.AssigneeID
	current.ExpectedResult = snap.ExpectedResult
	current.Version = newVersion
	if err := r.store.UpdateTestCase(ctx, current); err != nil {
		return nil, err
	}

	steps, err := r.store.ListSteps(ctx, testCaseID)
	if err != nil {
		return nil, err
	}
	return &domain.TestCaseWithSteps{TestCase: *current, Steps: steps}, nil
}

func (r *repo) buildVersion(op string, tc *domain.TestCase, steps []domain.TestStep, version int, actorID *int64, comment string) (*domain.TestVersion, error) {
	snap, err := domain.NewCaseSnapshot(tc, steps)
	if err != nil {
		return nil, domain.Wrap(domain.CodeInternal, op, err)
	}
	return &domain.TestVersion{
		TestCaseID: tc.ID,
		Version:    version,
		Snapshot:   snap,
		CreatedBy:  actorID,
		Comment:    comment,
	}, nil
}

func (r *repo) writeSnapshot(ctx context.Context, op string, tc *domain.TestCase, steps []domain.TestStep, version int, actorID *int64, comment string) error {
	ver, err := r.buildVersion(op, tc, steps, version, actorID, comment)
	if err != nil {
		return err
	}
	return r.store.CreateVersion(ctx, ver)
}

func buildSteps(testCaseID int64, in []domain.NewStep) []domain.TestStep {
	steps := make([]domain.TestStep, 0, len(in))
	for i, s := range in {
		steps = append(steps, domain.TestStep{
			TestCaseID:     testCaseID,
			StepNumber:     i + 1,
			Description:    s.Description,
			ExpectedResult: s.ExpectedResult,
		})
	}
	return steps
}

func applyCasePatch(tc *domain.TestCase, p domain.TestCasePatch) {
	if p.Title != nil {
		tc.Title = *p.Title
	}
	if p.Description != nil {
		tc.Description = *p.Description
	}
	if p.Status != nil {
		tc.Status = *p.Status
	}
	if p.Priority != nil {
		tc.Priority = *p.Priority
	}
	if p.Type != nil {
		tc.Type = *p.Type
	}
	if p.AssigneeID != nil {
		tc.AssigneeID = p.AssigneeID
	}
	if p.ExpectedResult != nil {
		tc.ExpectedResult = *p.ExpectedResult
	}
}
