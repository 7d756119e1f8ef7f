package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateActivity(ctx context.Context, a *domain.ActivityLog) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return MapError("postgres.CreateActivity", err)
	}
	return nil
}

func (s *Store) ListActivity(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	if err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListActivity", err)
	}
	return out, nil
}
