// Package audit appends immutable activity rows describing who changed
// what. Recording is strictly best-effort: a failed append never aborts
// the business operation that triggered it.
package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

// Action names stored in activity rows.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionRevert       = "revert"
	ActionSnapshot     = "snapshot"
	ActionAssign       = "assign"
	ActionUnassign     = "unassign"
	ActionRecordResult = "record_result"
	ActionStart        = "start"
	ActionComplete     = "complete"
	ActionAbort        = "abort"
)

// Entity type names stored in activity rows.
const (
	EntityUser       = "user"
	EntityTestCase   = "test_case"
	EntityFolder     = "folder"
	EntityTestRun    = "test_run"
	EntityBug        = "bug"
	EntityWhiteboard = "whiteboard"
)

type Recorder interface {
	// Record appends one activity row. Details may be nil or any
	// JSON-marshalable value; errors are logged and swallowed.
	Record(ctx context.Context, actor *int64, action, entityType string, entityID int64, details any)

	// Recent returns up to limit rows, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}

type recorder struct {
	store data.Store
	log   *logger.Logger
}

func New(store data.Store, baseLog *logger.Logger) Recorder {
	return &recorder{
		store: store,
		log:   baseLog.With("service", "AuditRecorder"),
	}
}

func (r *recorder) Record(ctx context.Context, actor *int64, action, entityType string, entityID int64, details any) {
	var blob datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			r.log.Error("activity details not marshalable", "action", action, "entity_type", entityType, "error", err)
		} else {
			blob = datatypes.JSON(raw)
		}
	}
	row := &domain.ActivityLog{
		UserID:     actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    blob,
	}
	if err := r.store.CreateActivity(ctx, row); err != nil {
		r.log.Error("activity append failed", "action", action, "entity_type", entityType, "entity_id", entityID, "error", err)
	}
}

func (r *recorder) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	return r.store.ListActivity(ctx, limit)
}
