package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return MapError("postgres.CreateUser", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var rows []domain.User
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetUser", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var rows []domain.User
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetUserByUsername", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := s.db.WithContext(ctx).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListUsers", err)
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	res := s.db.WithContext(ctx).Save(u)
	if res.Error != nil {
		return MapError("postgres.UpdateUser", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "postgres.UpdateUser", "user not found", nil)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return false, MapError("postgres.DeleteUser", res.Error)
	}
	return res.RowsAffected > 0, nil
}
