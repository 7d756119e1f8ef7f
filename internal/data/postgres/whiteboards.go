package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateWhiteboard(ctx context.Context, w *domain.Whiteboard) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return MapError("postgres.CreateWhiteboard", err)
	}
	return nil
}

func (s *Store) GetWhiteboard(ctx context.Context, id int64) (*domain.Whiteboard, error) {
	var rows []domain.Whiteboard
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetWhiteboard", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListWhiteboards(ctx context.Context) ([]domain.Whiteboard, error) {
	var out []domain.Whiteboard
	if err := s.db.WithContext(ctx).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListWhiteboards", err)
	}
	return out, nil
}

func (s *Store) UpdateWhiteboard(ctx context.Context, w *domain.Whiteboard) error {
	res := s.db.WithContext(ctx).Save(w)
	if res.Error != nil {
		return MapError("postgres.UpdateWhiteboard", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "postgres.UpdateWhiteboard", "whiteboard not found", nil)
	}
	return nil
}

func (s *Store) DeleteWhiteboard(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.Whiteboard{}, id)
	if res.Error != nil {
		return false, MapError("postgres.DeleteWhiteboard", res.Error)
	}
	return res.RowsAffected > 0, nil
}
