package domain

import "time"

// Folder is a named grouping of test cases with its own lifecycle.
type Folder struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedBy   *int64    `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Folder) TableName() string { return "folder" }

// TestCaseFolder associates a case with a folder. The (test_case_id,
// folder_id) pair is unique; assigning an already-assigned case is a no-op.
type TestCaseFolder struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TestCaseID int64     `gorm:"column:test_case_id;not null;uniqueIndex:idx_case_folder" json:"test_case_id"`
	FolderID   int64     `gorm:"column:folder_id;not null;uniqueIndex:idx_case_folder" json:"folder_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TestCaseFolder) TableName() string { return "test_case_folder" }

// NewFolder is the creation input.
type NewFolder struct {
	Name        string
	Description string
	CreatedBy   *int64
}

// FolderPatch carries a partial folder update; nil fields stay untouched.
type FolderPatch struct {
	Name        *string
	Description *string
}
