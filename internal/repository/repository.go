// Package repository implements the full capability surface of the
// service over any data.Store. There is exactly one implementation; the
// backends differ only below the primitive contract, so every rule in
// this package behaves identically against the relational and the
// in-memory adapter.
package repository

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

// Repository is everything handlers and services may ask of the core.
// Get operations return the entity or a typed not_found, never a
// partially populated struct; create operations return the stored entity
// with server-assigned id and timestamps.
type Repository interface {
	// users
	CreateUser(ctx context.Context, n domain.NewUser) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// test cases, steps, and version history
	CreateTestCaseWithSteps(ctx context.Context, n domain.NewTestCase) (*domain.TestCaseWithSteps, error)
	GetTestCase(ctx context.Context, id int64) (*domain.TestCase, error)
	GetTestCaseWithSteps(ctx context.Context, id int64) (*domain.TestCaseWithSteps, error)
	ListTestCases(ctx context.Context, f domain.TestCaseFilter) ([]domain.TestCase, error)
	UpdateTestCaseWithSteps(ctx context.Context, id int64, patch domain.TestCasePatch) (*domain.TestCaseWithSteps, error)
	DeleteTestCase(ctx context.Context, id int64) error
	ListVersions(ctx context.Context, testCaseID int64) ([]domain.TestVersion, error)
	CreateVersionSnapshot(ctx context.Context, testCaseID int64, actorID *int64, comment string) (*domain.TestVersion, error)
	RevertToVersion(ctx context.Context, testCaseID int64, version int, actorID *int64) (*domain.TestCaseWithSteps, error)

	// folders and membership
	CreateFolder(ctx context.Context, n domain.NewFolder) (*domain.Folder, error)
	GetFolder(ctx context.Context, id int64) (*domain.Folder, error)
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	UpdateFolder(ctx context.Context, id int64, patch domain.FolderPatch) (*domain.Folder, error)
	DeleteFolder(ctx context.Context, id int64) error
	AssignToFolder(ctx context.Context, testCaseID, folderID int64) (*domain.TestCaseFolder, error)
	RemoveFromFolder(ctx context.Context, testCaseID, folderID int64) (bool, error)
	ListFoldersForCase(ctx context.Context, testCaseID int64) ([]domain.Folder, error)

	// runs and results
	CreateTestRun(ctx context.Context, n domain.NewTestRun) (*domain.TestRun, error)
	GetTestRun(ctx context.Context, id int64) (*domain.TestRun, error)
	ListTestRuns(ctx context.Context) ([]domain.TestRun, error)
	StartTestRun(ctx context.Context, id int64) (*domain.TestRun, error)
	CompleteTestRun(ctx context.Context, id int64) (*domain.TestRun, error)
	AbortTestRun(ctx context.Context, id int64) (*domain.TestRun, error)
	DeleteTestRun(ctx context.Context, id int64) error
	RecordRunResult(ctx context.Context, n domain.NewRunResult) (*domain.TestRunResult, error)
	ListRunResults(ctx context.Context, f domain.RunResultFilter) ([]domain.TestRunResult, error)

	// bugs
	CreateBug(ctx context.Context, n domain.NewBug) (*domain.Bug, error)
	GetBug(ctx context.Context, id int64) (*domain.Bug, error)
	ListBugs(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error)
	UpdateBug(ctx context.Context, id int64, patch domain.BugPatch) (*domain.Bug, error)
	DeleteBug(ctx context.Context, id int64) error

	// whiteboards
	CreateWhiteboard(ctx context.Context, n domain.NewWhiteboard) (*domain.Whiteboard, error)
	GetWhiteboard(ctx context.Context, id int64) (*domain.Whiteboard, error)
	ListWhiteboards(ctx context.Context) ([]domain.Whiteboard, error)
	UpdateWhiteboard(ctx context.Context, id int64, patch domain.WhiteboardPatch) (*domain.Whiteboard, error)
	DeleteWhiteboard(ctx context.Context, id int64) error
}

type repo struct {
	store data.Store
	log   *logger.Logger
}

func New(store data.Store, baseLog *logger.Logger) Repository {
	return &repo{store: store, log: baseLog.With("repo", "Repository")}
}

func (r *repo) CreateUser(ctx context.Context, n domain.NewUser) (*domain.User, error) {
	const op = "repository.CreateUser"
	if err := checkNewUser(op, &n); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(n.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Wrap(domain.CodeInternal, op, err)
	}
	u := &domain.User{
		Username:     n.Username,
		Email:        n.Email,
		PasswordHash: string(hash),
		Role:         n.Role,
	}
	if err := r.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const op = "repository.GetUser"
	u, err := r.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFoundErr(op, "user", id)
	}
	return u, nil
}

func (r *repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	return r.store.ListUsers(ctx)
}

func (r *repo) GetTestCase(ctx context.Context, id int64) (*domain.TestCase, error) {
	const op = "repository.GetTestCase"
	tc, err := r.store.GetTestCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, notFoundErr(op, "test case", id)
	}
	return tc, nil
}

func (r *repo) ListTestCases(ctx context.Context, f domain.TestCaseFilter) ([]domain.TestCase, error) {
	return r.store.ListTestCases(ctx, f)
}

func (r *repo) CreateFolder(ctx context.Context, n domain.NewFolder) (*domain.Folder, error) {
	const op = "repository.CreateFolder"
	if err := checkNewFolder(op, &n); err != nil {
		return nil, err
	}
	f := &domain.Folder{Name: n.Name, Description: n.Description, CreatedBy: n.CreatedBy}
	if err := r.store.CreateFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repo) GetFolder(ctx context.Context, id int64) (*domain.Folder, error) {
	const op = "repository.GetFolder"
	f, err := r.store.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, notFoundErr(op, "folder", id)
	}
	return f, nil
}

func (r *repo) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	return r.store.ListFolders(ctx)
}

func (r *repo) UpdateFolder(ctx context.Context, id int64, patch domain.FolderPatch) (*domain.Folder, error) {
	const op = "repository.UpdateFolder"
	if err := checkFolderPatch(op, &patch); err != nil {
		return nil, err
	}
	f, err := r.store.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, notFoundErr(op, "folder", id)
	}
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if err := r.store.UpdateFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repo) CreateTestRun(ctx context.Context, n domain.NewTestRun) (*domain.TestRun, error) {
	const op = "repository.CreateTestRun"
	if err := checkNewRun(op, &n); err != nil {
		return nil, err
	}
	started := n.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}
	run := &domain.TestRun{
		Name:      n.Name,
		Status:    domain.RunStatusPending,
		StartedAt: started,
		CreatedBy: n.CreatedBy,
	}
	if err := r.store.CreateTestRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *repo) GetTestRun(ctx context.Context, id int64) (*domain.TestRun, error) {
	const op = "repository.GetTestRun"
	run, err := r.store.GetTestRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, notFoundErr(op, "test run", id)
	}
	return run, nil
}

func (r *repo) ListTestRuns(ctx context.Context) ([]domain.TestRun, error) {
	return r.store.ListTestRuns(ctx)
}

func (r *repo) ListRunResults(ctx context.Context, f domain.RunResultFilter) ([]domain.TestRunResult, error) {
	return r.store.ListRunResults(ctx, f)
}

func (r *repo) CreateBug(ctx context.Context, n domain.NewBug) (*domain.Bug, error) {
	const op = "repository.CreateBug"
	if err := checkNewBug(op, &n); err != nil {
		return nil, err
	}
	b := &domain.Bug{
		Title:       n.Title,
		Description: n.Description,
		Status:      n.Status,
		Severity:    n.Severity,
		TestCaseID:  n.TestCaseID,
		RunResultID: n.RunResultID,
		ReportedBy:  n.ReportedBy,
		AssignedTo:  n.AssignedTo,
	}
	if err := r.store.CreateBug(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) GetBug(ctx context.Context, id int64) (*domain.Bug, error) {
	const op = "repository.GetBug"
	b, err := r.store.GetBug(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFoundErr(op, "bug", id)
	}
	return b, nil
}

func (r *repo) ListBugs(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error) {
	return r.store.ListBugs(ctx, f)
}

func (r *repo) UpdateBug(ctx context.Context, id int64, patch domain.BugPatch) (*domain.Bug, error) {
	const op = "repository.UpdateBug"
	if err := checkBugPatch(op, &patch); err != nil {
		return nil, err
	}
	b, err := r.store.GetBug(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFoundErr(op, "bug", id)
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.Severity != nil {
		b.Severity = *patch.Severity
	}
	if patch.AssignedTo != nil {
		b.AssignedTo = patch.AssignedTo
	}
	if err := r.store.UpdateBug(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) DeleteBug(ctx context.Context, id int64) error {
	const op = "repository.DeleteBug"
	ok, err := r.store.DeleteBug(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundErr(op, "bug", id)
	}
	return nil
}

func (r *repo) CreateWhiteboard(ctx context.Context, n domain.NewWhiteboard) (*domain.Whiteboard, error) {
	const op = "repository.CreateWhiteboard"
	if err := checkNewWhiteboard(op, &n); err != nil {
		return nil, err
	}
	w := &domain.Whiteboard{Name: n.Name, Content: n.Content, CreatedBy: n.CreatedBy}
	if err := r.store.CreateWhiteboard(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repo) GetWhiteboard(ctx context.Context, id int64) (*domain.Whiteboard, error) {
	const op = "repository.GetWhiteboard"
	w, err := r.store.GetWhiteboard(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, notFoundErr(op, "whiteboard", id)
	}
	return w, nil
}

func (r *repo) ListWhiteboards(ctx context.Context) ([]domain.Whiteboard, error) {
	return r.store.ListWhiteboards(ctx)
}

// UpdateWhiteboard persists the opaque content payload on behalf of the
// collaboration channel; the payload is never interpreted here.
func (r *repo) UpdateWhiteboard(ctx context.Context, id int64, patch domain.WhiteboardPatch) (*domain.Whiteboard, error) {
	const op = "repository.UpdateWhiteboard"
	if err := checkWhiteboardPatch(op, &patch); err != nil {
		return nil, err
	}
	w, err := r.store.GetWhiteboard(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, notFoundErr(op, "whiteboard", id)
	}
	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.Content != nil {
		w.Content = patch.Content
	}
	if err := r.store.UpdateWhiteboard(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repo) DeleteWhiteboard(ctx context.Context, id int64) error {
	const op = "repository.DeleteWhiteboard"
	ok, err := r.store.DeleteWhiteboard(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundErr(op, "whiteboard", id)
	}
	return nil
}
