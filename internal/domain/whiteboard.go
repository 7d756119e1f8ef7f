package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Whiteboard persists an opaque content payload on behalf of the realtime
// collaboration channel. The payload is never interpreted here.
type Whiteboard struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Content   datatypes.JSON `gorm:"column:content" json:"content,omitempty"`
	CreatedBy *int64         `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Whiteboard) TableName() string { return "whiteboard" }

// NewWhiteboard is the creation input; Content may be nil for an empty
// board.
type NewWhiteboard struct {
	Name      string
	Content   datatypes.JSON
	CreatedBy *int64
}

// WhiteboardPatch carries a partial update; nil fields stay untouched.
type WhiteboardPatch struct {
	Name    *string
	Content datatypes.JSON
}
