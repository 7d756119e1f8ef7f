package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an append-only audit record; rows are never updated or
// deleted.
type ActivityLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *int64         `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Action     string         `gorm:"column:action;not null;index" json:"action"`
	EntityType string         `gorm:"column:entity_type;not null;index" json:"entity_type"`
	EntityID   int64          `gorm:"column:entity_id;not null" json:"entity_id"`
	Details    datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
