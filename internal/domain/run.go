package domain

import "time"

const (
	RunStatusPending    = "pending"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
	RunStatusAborted    = "aborted"
)

const (
	ResultStatusPassed  = "passed"
	ResultStatusFailed  = "failed"
	ResultStatusBlocked = "blocked"
	ResultStatusSkipped = "skipped"
)

func ValidRunStatus(s string) bool {
	switch s {
	case RunStatusPending, RunStatusInProgress, RunStatusCompleted, RunStatusAborted:
		return true
	}
	return false
}

func ValidResultStatus(s string) bool {
	switch s {
	case ResultStatusPassed, ResultStatusFailed, ResultStatusBlocked, ResultStatusSkipped:
		return true
	}
	return false
}

// TestRun is a named execution batch. DurationSeconds is computed at
// completion in whole seconds and never user-supplied.
type TestRun struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string     `gorm:"column:name;not null" json:"name"`
	Status          string     `gorm:"column:status;not null;index" json:"status"`
	StartedAt       time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	DurationSeconds *int64     `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	CreatedBy       *int64     `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TestRun) TableName() string { return "test_run" }

// TestRunResult is one outcome per (run, test case). Recording one is the
// only operation that mutates the parent case's status and last_run.
type TestRunResult struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID      int64     `gorm:"column:run_id;not null;index" json:"run_id"`
	TestCaseID int64     `gorm:"column:test_case_id;not null;index" json:"test_case_id"`
	Status     string    `gorm:"column:status;not null" json:"status"`
	Notes      string    `gorm:"column:notes" json:"notes,omitempty"`
	ExecutedBy *int64    `gorm:"column:executed_by" json:"executed_by,omitempty"`
	ExecutedAt time.Time `gorm:"column:executed_at;not null" json:"executed_at"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TestRunResult) TableName() string { return "test_run_result" }

// NewTestRun is the creation input; the run starts pending at StartedAt
// (now when zero).
type NewTestRun struct {
	Name      string
	StartedAt time.Time
	CreatedBy *int64
}

// NewRunResult is the recording input; ExecutedAt defaults to now when zero.
type NewRunResult struct {
	RunID      int64
	TestCaseID int64
	Status     string
	Notes      string
	ExecutedBy *int64
	ExecutedAt time.Time
}

// RunResultFilter narrows ListRunResults; nil fields mean no constraint.
type RunResultFilter struct {
	RunID      *int64
	TestCaseID *int64
}
