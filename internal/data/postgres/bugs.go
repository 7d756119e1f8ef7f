package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateBug(ctx context.Context, b *domain.Bug) error {
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return MapError("postgres.CreateBug", err)
	}
	return nil
}

func (s *Store) GetBug(ctx context.Context, id int64) (*domain.Bug, error) {
	var rows []domain.Bug
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetBug", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListBugs(ctx context.Context, filter domain.BugFilter) ([]domain.Bug, error) {
	q := s.db.WithContext(ctx).Model(&domain.Bug{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.TestCaseID != nil {
		q = q.Where("test_case_id = ?", *filter.TestCaseID)
	}
	var out []domain.Bug
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListBugs", err)
	}
	return out, nil
}

func (s *Store) UpdateBug(ctx context.Context, b *domain.Bug) error {
	res := s.db.WithContext(ctx).Save(b)
	if res.Error != nil {
		return MapError("postgres.UpdateBug", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "postgres.UpdateBug", "bug not found", nil)
	}
	return nil
}

func (s *Store) DeleteBug(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.Bug{}, id)
	if res.Error != nil {
		return false, MapError("postgres.DeleteBug", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) CountBugsByStatus(ctx context.Context) (map[string]int64, error) {
	return s.countByStatus(ctx, "postgres.CountBugsByStatus", &domain.Bug{})
}
