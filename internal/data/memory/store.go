// Package memory is the in-process Store used for tests and bootstrapping.
// It reproduces the relational adapter's observable behavior: nil-on-missing
// gets, conflict on duplicates, per-entity auto-increment ids that are never
// reused. Reads return copies so callers cannot mutate stored state.
package memory

import (
	"context"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

type Store struct {
	mu  sync.Mutex
	log *logger.Logger

	users       map[int64]domain.User
	cases       map[int64]domain.TestCase
	steps       map[int64]domain.TestStep
	versions    map[int64]domain.TestVersion
	folders     map[int64]domain.Folder
	assignments map[int64]domain.TestCaseFolder
	runs        map[int64]domain.TestRun
	results     map[int64]domain.TestRunResult
	bugs        map[int64]domain.Bug
	whiteboards map[int64]domain.Whiteboard
	activity    map[int64]domain.ActivityLog

	nextUserID       int64
	nextCaseID       int64
	nextStepID       int64
	nextVersionID    int64
	nextFolderID     int64
	nextAssignmentID int64
	nextRunID        int64
	nextResultID     int64
	nextBugID        int64
	nextWhiteboardID int64
	nextActivityID   int64
}

func NewStore(baseLog *logger.Logger) *Store {
	return &Store{
		log:         baseLog.With("store", "memory"),
		users:       make(map[int64]domain.User),
		cases:       make(map[int64]domain.TestCase),
		steps:       make(map[int64]domain.TestStep),
		versions:    make(map[int64]domain.TestVersion),
		folders:     make(map[int64]domain.Folder),
		assignments: make(map[int64]domain.TestCaseFolder),
		runs:        make(map[int64]domain.TestRun),
		results:     make(map[int64]domain.TestRunResult),
		bugs:        make(map[int64]domain.Bug),
		whiteboards: make(map[int64]domain.Whiteboard),
		activity:    make(map[int64]domain.ActivityLog),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func now() time.Time { return time.Now().UTC() }

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneJSON(j datatypes.JSON) datatypes.JSON {
	if j == nil {
		return nil
	}
	out := make(datatypes.JSON, len(j))
	copy(out, j)
	return out
}
