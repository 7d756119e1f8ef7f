// Package data defines the primitive storage contract both backend
// adapters implement. Every method is a single backend round trip; there
// are no client-side transactions, so composite operations layered on top
// own their partial-failure windows explicitly.
package data

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

// Store is the full primitive surface. Get methods return (nil, nil) for a
// missing row; the repository layer turns that into a typed not-found.
// Delete methods report whether a row was removed.
type Store interface {
	Ping(ctx context.Context) error

	UserStore
	TestCaseStore
	TestStepStore
	TestVersionStore
	FolderStore
	TestRunStore
	BugStore
	WhiteboardStore
	ActivityStore
}

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type TestCaseStore interface {
	CreateTestCase(ctx context.Context, tc *domain.TestCase) error
	GetTestCase(ctx context.Context, id int64) (*domain.TestCase, error)
	ListTestCases(ctx context.Context, f domain.TestCaseFilter) ([]domain.TestCase, error)
	UpdateTestCase(ctx context.Context, tc *domain.TestCase) error
	DeleteTestCase(ctx context.Context, id int64) (bool, error)
	CountTestCasesByStatus(ctx context.Context) (map[string]int64, error)
}

type TestStepStore interface {
	// CreateSteps bulk-inserts and fills assigned ids.
	CreateSteps(ctx context.Context, steps []domain.TestStep) error
	// ListSteps returns the case's steps ordered by step_number.
	ListSteps(ctx context.Context, testCaseID int64) ([]domain.TestStep, error)
	DeleteStepsForCase(ctx context.Context, testCaseID int64) error
}

type TestVersionStore interface {
	CreateVersion(ctx context.Context, v *domain.TestVersion) error
	// ListVersions returns all snapshot rows for the case ordered by
	// version then id, orphans and duplicate version keys included;
	// callers decide recognition.
	ListVersions(ctx context.Context, testCaseID int64) ([]domain.TestVersion, error)
	DeleteVersionsForCase(ctx context.Context, testCaseID int64) error
}

type FolderStore interface {
	CreateFolder(ctx context.Context, f *domain.Folder) error
	GetFolder(ctx context.Context, id int64) (*domain.Folder, error)
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	UpdateFolder(ctx context.Context, f *domain.Folder) error
	DeleteFolder(ctx context.Context, id int64) (bool, error)
	CountFolders(ctx context.Context) (int64, error)

	// CreateAssignment fails with a conflict on a duplicate pair.
	CreateAssignment(ctx context.Context, a *domain.TestCaseFolder) error
	GetAssignment(ctx context.Context, testCaseID, folderID int64) (*domain.TestCaseFolder, error)
	ListAssignmentsForCase(ctx context.Context, testCaseID int64) ([]domain.TestCaseFolder, error)
	ListAssignmentsForFolder(ctx context.Context, folderID int64) ([]domain.TestCaseFolder, error)
	DeleteAssignment(ctx context.Context, testCaseID, folderID int64) (bool, error)
	DeleteAssignmentsForCase(ctx context.Context, testCaseID int64) error
	DeleteAssignmentsForFolder(ctx context.Context, folderID int64) error
}

type TestRunStore interface {
	CreateTestRun(ctx context.Context, r *domain.TestRun) error
	GetTestRun(ctx context.Context, id int64) (*domain.TestRun, error)
	// ListTestRuns returns runs newest first.
	ListTestRuns(ctx context.Context) ([]domain.TestRun, error)
	UpdateTestRun(ctx context.Context, r *domain.TestRun) error
	DeleteTestRun(ctx context.Context, id int64) (bool, error)
	CountTestRunsByStatus(ctx context.Context) (map[string]int64, error)

	CreateRunResult(ctx context.Context, res *domain.TestRunResult) error
	ListRunResults(ctx context.Context, f domain.RunResultFilter) ([]domain.TestRunResult, error)
	DeleteResultsForRun(ctx context.Context, runID int64) error
}

type BugStore interface {
	CreateBug(ctx context.Context, b *domain.Bug) error
	GetBug(ctx context.Context, id int64) (*domain.Bug, error)
	// ListBugs returns matching bugs newest first.
	ListBugs(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error)
	UpdateBug(ctx context.Context, b *domain.Bug) error
	DeleteBug(ctx context.Context, id int64) (bool, error)
	CountBugsByStatus(ctx context.Context) (map[string]int64, error)
}

type WhiteboardStore interface {
	CreateWhiteboard(ctx context.Context, w *domain.Whiteboard) error
	GetWhiteboard(ctx context.Context, id int64) (*domain.Whiteboard, error)
	ListWhiteboards(ctx context.Context) ([]domain.Whiteboard, error)
	UpdateWhiteboard(ctx context.Context, w *domain.Whiteboard) error
	DeleteWhiteboard(ctx context.Context, id int64) (bool, error)
}

type ActivityStore interface {
	CreateActivity(ctx context.Context, a *domain.ActivityLog) error
	// ListActivity returns the most recent rows, newest first.
	ListActivity(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}
