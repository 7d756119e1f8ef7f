// Package services holds read-side aggregations that sit on top of the
// store but do not belong to the repository's consistency surface.
package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

const recentActivityLimit = 20

// DashboardOverview is the one-call summary behind GET /api/dashboard.
type DashboardOverview struct {
	TestCasesByStatus map[string]int64     `json:"test_cases_by_status"`
	TestRunsByStatus  map[string]int64     `json:"test_runs_by_status"`
	BugsByStatus      map[string]int64     `json:"bugs_by_status"`
	FolderCount       int64                `json:"folder_count"`
	RecentActivity    []domain.ActivityLog `json:"recent_activity"`
}

type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
}

type dashboardService struct {
	store data.Store
	log   *logger.Logger
}

func NewDashboardService(store data.Store, baseLog *logger.Logger) DashboardService {
	return &dashboardService{
		store: store,
		log:   baseLog.With("service", "DashboardService"),
	}
}

// Overview fans the five reads out concurrently; each goroutine owns
// exactly one field of the result.
func (s *dashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	var out DashboardOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.store.CountTestCasesByStatus(gctx)
		if err != nil {
			return err
		}
		out.TestCasesByStatus = m
		return nil
	})
	g.Go(func() error {
		m, err := s.store.CountTestRunsByStatus(gctx)
		if err != nil {
			return err
		}
		out.TestRunsByStatus = m
		return nil
	})
	g.Go(func() error {
		m, err := s.store.CountBugsByStatus(gctx)
		if err != nil {
			return err
		}
		out.BugsByStatus = m
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountFolders(gctx)
		if err != nil {
			return err
		}
		out.FolderCount = n
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.ListActivity(gctx, recentActivityLimit)
		if err != nil {
			return err
		}
		out.RecentActivity = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("dashboard aggregation failed", "error", err)
		return nil, err
	}
	if out.TestCasesByStatus == nil {
		out.TestCasesByStatus = map[string]int64{}
	}
	if out.TestRunsByStatus == nil {
		out.TestRunsByStatus = map[string]int64{}
	}
	if out.BugsByStatus == nil {
		out.BugsByStatus = map[string]int64{}
	}
	return &out, nil
}
