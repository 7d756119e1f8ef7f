package services

import (
	"context"
	"testing"

	"github.com/casekeep/casekeep-backend/internal/data/memory"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

func newTestDashboard(t *testing.T) (DashboardService, *memory.Store) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() {
		log.Sync()
	})
	st := memory.NewStore(log)
	return NewDashboardService(st, log), st
}

func TestOverviewAggregates(t *testing.T) {
	svc, st := newTestDashboard(t)
	ctx := context.Background()

	for _, status := range []string{domain.CaseStatusPassed, domain.CaseStatusPassed, domain.CaseStatusFailed} {
		tc := &domain.TestCase{Title: "case", Status: status, Priority: domain.PriorityMedium, Version: 1}
		if err := st.CreateTestCase(ctx, tc); err != nil {
			t.Fatalf("CreateTestCase: %v", err)
		}
	}
	run := &domain.TestRun{Name: "run", Status: domain.RunStatusPending}
	if err := st.CreateTestRun(ctx, run); err != nil {
		t.Fatalf("CreateTestRun: %v", err)
	}
	bug := &domain.Bug{Title: "bug", Status: domain.BugStatusOpen, Severity: domain.PriorityHigh}
	if err := st.CreateBug(ctx, bug); err != nil {
		t.Fatalf("CreateBug: %v", err)
	}
	folder := &domain.Folder{Name: "grouped"}
	if err := st.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	for i := 0; i < 2; i++ {
		row := &domain.ActivityLog{Action: "create", EntityType: "test_case", EntityID: int64(i + 1)}
		if err := st.CreateActivity(ctx, row); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}

	got, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got.TestCasesByStatus[domain.CaseStatusPassed] != 2 || got.TestCasesByStatus[domain.CaseStatusFailed] != 1 {
		t.Fatalf("cases by status = %v", got.TestCasesByStatus)
	}
	if got.TestRunsByStatus[domain.RunStatusPending] != 1 {
		t.Fatalf("runs by status = %v", got.TestRunsByStatus)
	}
	if got.BugsByStatus[domain.BugStatusOpen] != 1 {
		t.Fatalf("bugs by status = %v", got.BugsByStatus)
	}
	if got.FolderCount != 1 {
		t.Fatalf("folder count = %d, want 1", got.FolderCount)
	}
	if len(got.RecentActivity) != 2 || got.RecentActivity[0].EntityID != 2 {
		t.Fatalf("recent activity = %+v, want 2 rows newest first", got.RecentActivity)
	}
}

func TestOverviewEmptyStore(t *testing.T) {
	svc, _ := newTestDashboard(t)

	got, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got.TestCasesByStatus == nil || got.TestRunsByStatus == nil || got.BugsByStatus == nil {
		t.Fatalf("empty overview has nil maps: %+v", got)
	}
	if got.FolderCount != 0 || len(got.RecentActivity) != 0 {
		t.Fatalf("empty overview = %+v", got)
	}
}

func TestOverviewPropagatesFailure(t *testing.T) {
	svc, _ := newTestDashboard(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Overview(ctx); !domain.IsCode(err, domain.CodeUnavailable) {
		t.Fatalf("Overview on canceled context = %v, want unavailable", err)
	}
}
