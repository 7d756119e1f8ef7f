package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/casekeep/casekeep-backend/internal/data/memory"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

func newTestRecorder(t *testing.T) (Recorder, *memory.Store) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() {
		log.Sync()
	})
	st := memory.NewStore(log)
	return New(st, log), st
}

func TestRecordAppendsRow(t *testing.T) {
	r, st := newTestRecorder(t)
	ctx := context.Background()

	actor := int64(7)
	r.Record(ctx, &actor, ActionUpdate, EntityTestCase, 12, map[string]any{"version": 3})

	rows, err := st.ListActivity(ctx, 10)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("activity rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Action != ActionUpdate || row.EntityType != EntityTestCase || row.EntityID != 12 {
		t.Fatalf("row = %+v", row)
	}
	if row.UserID == nil || *row.UserID != 7 {
		t.Fatalf("user_id = %v, want 7", row.UserID)
	}
	var details map[string]any
	if err := json.Unmarshal(row.Details, &details); err != nil {
		t.Fatalf("details not JSON: %v", err)
	}
	if details["version"] != float64(3) {
		t.Fatalf("details = %v", details)
	}
}

func TestRecordNilActorAndDetails(t *testing.T) {
	r, st := newTestRecorder(t)
	ctx := context.Background()

	r.Record(ctx, nil, ActionDelete, EntityFolder, 3, nil)

	rows, err := st.ListActivity(ctx, 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListActivity = %+v, %v, want one row", rows, err)
	}
	if rows[0].UserID != nil {
		t.Fatalf("user_id = %v, want nil", rows[0].UserID)
	}
	if len(rows[0].Details) != 0 {
		t.Fatalf("details = %s, want empty", rows[0].Details)
	}
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	r, _ := newTestRecorder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Must not panic or surface the error; recording is best-effort.
	r.Record(ctx, nil, ActionCreate, EntityBug, 1, nil)
}

func TestRecentNewestFirst(t *testing.T) {
	r, _ := newTestRecorder(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		r.Record(ctx, nil, ActionCreate, EntityTestRun, i, nil)
	}

	rows, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 2 || rows[0].EntityID != 3 || rows[1].EntityID != 2 {
		t.Fatalf("Recent = %+v, want the two newest rows first", rows)
	}

	// Unmarshalable details are dropped, not fatal.
	r.Record(ctx, nil, ActionCreate, EntityTestRun, 4, make(chan int))
	rows, err = r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent after bad details: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want the row appended without details", len(rows))
	}
	if len(rows[0].Details) != 0 {
		t.Fatalf("details = %s, want dropped", rows[0].Details)
	}
}
