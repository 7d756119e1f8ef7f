package domain

import "time"

const (
	BugStatusOpen       = "open"
	BugStatusInProgress = "in_progress"
	BugStatusResolved   = "resolved"
	BugStatusClosed     = "closed"
)

func ValidBugStatus(s string) bool {
	switch s {
	case BugStatusOpen, BugStatusInProgress, BugStatusResolved, BugStatusClosed:
		return true
	}
	return false
}

// Bug tracks a defect, optionally linked to the test case and/or run
// result that exposed it. Severity reuses the priority scale.
type Bug struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Status      string    `gorm:"column:status;not null;index" json:"status"`
	Severity    string    `gorm:"column:severity;not null;index" json:"severity"`
	TestCaseID  *int64    `gorm:"column:test_case_id;index" json:"test_case_id,omitempty"`
	RunResultID *int64    `gorm:"column:run_result_id" json:"run_result_id,omitempty"`
	ReportedBy  *int64    `gorm:"column:reported_by" json:"reported_by,omitempty"`
	AssignedTo  *int64    `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Bug) TableName() string { return "bug" }

// NewBug is the creation input; omitted status defaults to open, omitted
// severity to medium.
type NewBug struct {
	Title       string
	Description string
	Status      string
	Severity    string
	TestCaseID  *int64
	RunResultID *int64
	ReportedBy  *int64
	AssignedTo  *int64
}

// BugPatch carries a partial bug update; nil fields stay untouched.
type BugPatch struct {
	Title       *string
	Description *string
	Status      *string
	Severity    *string
	AssignedTo  *int64
}

// BugFilter narrows ListBugs; nil fields mean no constraint.
type BugFilter struct {
	Status     *string
	TestCaseID *int64
}
