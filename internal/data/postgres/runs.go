package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateTestRun(ctx context.Context, r *domain.TestRun) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return MapError("postgres.CreateTestRun", err)
	}
	return nil
}

func (s *Store) GetTestRun(ctx context.Context, id int64) (*domain.TestRun, error) {
	var rows []domain.TestRun
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetTestRun", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListTestRuns(ctx context.Context) ([]domain.TestRun, error) {
	var out []domain.TestRun
	if err := s.db.WithContext(ctx).
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListTestRuns", err)
	}
	return out, nil
}

func (s *Store) UpdateTestRun(ctx context.Context, r *domain.TestRun) error {
	res := s.db.WithContext(ctx).Save(r)
	if res.Error != nil {
		return MapError("postgres.UpdateTestRun", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "postgres.UpdateTestRun", "test run not found", nil)
	}
	return nil
}

func (s *Store) DeleteTestRun(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.TestRun{}, id)
	if res.Error != nil {
		return false, MapError("postgres.DeleteTestRun", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) CountTestRunsByStatus(ctx context.Context) (map[string]int64, error) {
	return s.countByStatus(ctx, "postgres.CountTestRunsByStatus", &domain.TestRun{})
}

func (s *Store) CreateRunResult(ctx context.Context, r *domain.TestRunResult) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return MapError("postgres.CreateRunResult", err)
	}
	return nil
}

func (s *Store) ListRunResults(ctx context.Context, filter domain.RunResultFilter) ([]domain.TestRunResult, error) {
	q := s.db.WithContext(ctx).Model(&domain.TestRunResult{})
	if filter.RunID != nil {
		q = q.Where("run_id = ?", *filter.RunID)
	}
	if filter.TestCaseID != nil {
		q = q.Where("test_case_id = ?", *filter.TestCaseID)
	}
	var out []domain.TestRunResult
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListRunResults", err)
	}
	return out, nil
}

func (s *Store) DeleteResultsForRun(ctx context.Context, runID int64) error {
	if err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&domain.TestRunResult{}).Error; err != nil {
		return MapError("postgres.DeleteResultsForRun", err)
	}
	return nil
}
