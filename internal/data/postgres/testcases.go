package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateTestCase(ctx context.Context, tc *domain.TestCase) error {
	if err := s.db.WithContext(ctx).Create(tc).Error; err != nil {
		return MapError("postgres.CreateTestCase", err)
	}
	return nil
}

func (s *Store) GetTestCase(ctx context.Context, id int64) (*domain.TestCase, error) {
	var rows []domain.TestCase
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetTestCase", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListTestCases(ctx context.Context, f domain.TestCaseFilter) ([]domain.TestCase, error) {
	q := s.db.WithContext(ctx).Model(&domain.TestCase{})
	if f.Status != nil {
		q = q.Where("test_case.status = ?", *f.Status)
	}
	if f.FolderID != nil {
		q = q.Joins("JOIN test_case_folder ON test_case_folder.test_case_id = test_case.id").
			Where("test_case_folder.folder_id = ?", *f.FolderID)
	}
	var out []domain.TestCase
	if err := q.Order("test_case.id").Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListTestCases", err)
	}
	return out, nil
}

func (s *Store) UpdateTestCase(ctx context.Context, tc *domain.TestCase) error {
	res := s.db.WithContext(ctx).Save(tc)
	if res.Error != nil {
		return MapError("postgres.UpdateTestCase", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "postgres.UpdateTestCase", "test case not found", nil)
	}
	return nil
}

func (s *Store) DeleteTestCase(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.TestCase{}, id)
	if res.Error != nil {
		return false, MapError("postgres.DeleteTestCase", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) CountTestCasesByStatus(ctx context.Context) (map[string]int64, error) {
	return s.countByStatus(ctx, "postgres.CountTestCasesByStatus", &domain.TestCase{})
}

// countByStatus runs a grouped count over any model with a status column.
func (s *Store) countByStatus(ctx context.Context, op string, model interface{}) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).
		Model(model).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, MapError(op, err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

func (s *Store) CreateSteps(ctx context.Context, steps []domain.TestStep) error {
	if len(steps) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&steps).Error; err != nil {
		return MapError("postgres.CreateSteps", err)
	}
	return nil
}

func (s *Store) ListSteps(ctx context.Context, testCaseID int64) ([]domain.TestStep, error) {
	var out []domain.TestStep
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Order("step_number").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListSteps", err)
	}
	return out, nil
}

func (s *Store) DeleteStepsForCase(ctx context.Context, testCaseID int64) error {
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Delete(&domain.TestStep{}).Error; err != nil {
		return MapError("postgres.DeleteStepsForCase", err)
	}
	return nil
}

func (s *Store) CreateVersion(ctx context.Context, v *domain.TestVersion) error {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return MapError("postgres.CreateVersion", err)
	}
	return nil
}

func (s *Store) ListVersions(ctx context.Context, testCaseID int64) ([]domain.TestVersion, error) {
	var out []domain.TestVersion
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Order("version, id").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListVersions", err)
	}
	return out, nil
}

func (s *Store) DeleteVersionsForCase(ctx context.Context, testCaseID int64) error {
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Delete(&domain.TestVersion{}).Error; err != nil {
		return MapError("postgres.DeleteVersionsForCase", err)
	}
	return nil
}
