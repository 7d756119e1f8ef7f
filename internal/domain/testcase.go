package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	CaseStatusPassed  = "passed"
	CaseStatusFailed  = "failed"
	CaseStatusPending = "pending"
	CaseStatusBlocked = "blocked"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

func ValidCaseStatus(s string) bool {
	switch s {
	case CaseStatusPassed, CaseStatusFailed, CaseStatusPending, CaseStatusBlocked:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// TestCase is the unit of test documentation being versioned. Version starts
// at 1 and increments by exactly 1 on every successful content update; Status
// and LastRun are overwritten only by run-result recording.
type TestCase struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Description    string     `gorm:"column:description" json:"description,omitempty"`
	Status         string     `gorm:"column:status;not null;index" json:"status"`
	Priority       string     `gorm:"column:priority;not null;index" json:"priority"`
	Type           string     `gorm:"column:type" json:"type,omitempty"`
	AssigneeID     *int64     `gorm:"column:assignee_id;index" json:"assignee_id,omitempty"`
	CreatedBy      *int64     `gorm:"column:created_by;index" json:"created_by,omitempty"`
	ExpectedResult string     `gorm:"column:expected_result" json:"expected_result,omitempty"`
	Version        int        `gorm:"column:version;not null;default:1" json:"version"`
	LastRun        *time.Time `gorm:"column:last_run" json:"last_run,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (TestCase) TableName() string { return "test_case" }

// TestStep belongs to exactly one TestCase; StepNumber is 1-based and unique
// within the parent. The step set is replaced whole on every content update.
type TestStep struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TestCaseID     int64  `gorm:"column:test_case_id;not null;index" json:"test_case_id"`
	StepNumber     int    `gorm:"column:step_number;not null" json:"step_number"`
	Description    string `gorm:"column:description;not null" json:"description"`
	ExpectedResult string `gorm:"column:expected_result" json:"expected_result,omitempty"`
}

func (TestStep) TableName() string { return "test_step" }

// TestVersion is an immutable snapshot of a TestCase recorded at a version
// transition. Entries exist for versions >= 2; version 1 is the creation
// state, reconstructable only from the live row.
type TestVersion struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TestCaseID int64          `gorm:"column:test_case_id;not null;index" json:"test_case_id"`
	Version    int            `gorm:"column:version;not null;index" json:"version"`
	Snapshot   datatypes.JSON `gorm:"column:snapshot" json:"snapshot"`
	CreatedBy  *int64         `gorm:"column:created_by" json:"created_by,omitempty"`
	Comment    string         `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TestVersion) TableName() string { return "test_version" }

// TestCaseWithSteps bundles a case with its ordered steps for the composite
// read/write operations.
type TestCaseWithSteps struct {
	TestCase
	Steps []TestStep `json:"steps"`
}

// NewTestCase is the creation input. Steps are numbered 1..n in the order
// given; omitted status/priority default to pending/medium.
type NewTestCase struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	Type           string
	AssigneeID     *int64
	CreatedBy      *int64
	ExpectedResult string
	Steps          []NewStep
}

type NewStep struct {
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result,omitempty"`
}

// TestCasePatch carries a partial content update. Nil fields are left
// untouched. Steps == nil leaves the step set alone; any non-nil slice
// (including empty) replaces it whole.
type TestCasePatch struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	Type           *string
	AssigneeID     *int64
	ExpectedResult *string
	Steps          []NewStep
	ActorID        *int64
	Comment        string
}

// HasFieldChanges reports whether the patch touches any live-row field
// (steps alone still count as a content change for versioning).
func (p TestCasePatch) HasFieldChanges() bool {
	return p.Title != nil || p.Description != nil || p.Status != nil ||
		p.Priority != nil || p.Type != nil || p.AssigneeID != nil ||
		p.ExpectedResult != nil
}

// TestCaseFilter narrows ListTestCases; nil fields mean no constraint.
type TestCaseFilter struct {
	Status   *string
	FolderID *int64
}

// CaseSnapshot is the decoded form of a TestVersion snapshot blob.
type CaseSnapshot struct {
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Status         string         `json:"status"`
	Priority       string         `json:"priority"`
	Type           string         `json:"type,omitempty"`
	AssigneeID     *int64         `json:"assignee_id,omitempty"`
	ExpectedResult string         `json:"expected_result,omitempty"`
	Steps          []StepSnapshot `json:"steps,omitempty"`
}

type StepSnapshot struct {
	StepNumber     int    `json:"step_number"`
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result,omitempty"`
}

// NewCaseSnapshot encodes the pre-update state of a case (and, when the step
// set is being replaced, its prior steps) for storage in a TestVersion row.
func NewCaseSnapshot(tc *TestCase, steps []TestStep) (datatypes.JSON, error) {
	snap := CaseSnapshot{
		Title:          tc.Title,
		Description:    tc.Description,
		Status:         tc.Status,
		Priority:       tc.Priority,
		Type:           tc.Type,
		AssigneeID:     tc.AssigneeID,
		ExpectedResult: tc.ExpectedResult,
	}
	for _, s := range steps {
		snap.Steps = append(snap.Steps, StepSnapshot{
			StepNumber:     s.StepNumber,
			Description:    s.Description,
			ExpectedResult: s.ExpectedResult,
		})
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeCaseSnapshot parses a stored snapshot blob.
func DecodeCaseSnapshot(raw datatypes.JSON) (*CaseSnapshot, error) {
	var snap CaseSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
