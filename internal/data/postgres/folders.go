package postgres

import (
	"context"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func (s *Store) CreateFolder(ctx context.Context, f *domain.Folder) error {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return MapError("postgres.CreateFolder", err)
	}
	return nil
}

func (s *Store) GetFolder(ctx context.Context, id int64) (*domain.Folder, error) {
	var rows []domain.Folder
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetFolder", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	var out []domain.Folder
	if err := s.db.WithContext(ctx).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListFolders", err)
	}
	return out, nil
}

func (s *Store) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	res := s.db.WithContext(ctx).Save(f)
	if res.Error != nil {
		return MapError("postgres.UpdateFolder", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.CodeNotFound, "postgres.UpdateFolder", "folder not found", nil)
	}
	return nil
}

func (s *Store) DeleteFolder(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.Folder{}, id)
	if res.Error != nil {
		return false, MapError("postgres.DeleteFolder", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) CountFolders(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).
		Model(&domain.Folder{}).
		Count(&n).Error; err != nil {
		return 0, MapError("postgres.CountFolders", err)
	}
	return n, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a *domain.TestCaseFolder) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return MapError("postgres.CreateAssignment", err)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, testCaseID, folderID int64) (*domain.TestCaseFolder, error) {
	var rows []domain.TestCaseFolder
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ? AND folder_id = ?", testCaseID, folderID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, MapError("postgres.GetAssignment", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) ListAssignmentsForCase(ctx context.Context, testCaseID int64) ([]domain.TestCaseFolder, error) {
	var out []domain.TestCaseFolder
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListAssignmentsForCase", err)
	}
	return out, nil
}

func (s *Store) ListAssignmentsForFolder(ctx context.Context, folderID int64) ([]domain.TestCaseFolder, error) {
	var out []domain.TestCaseFolder
	if err := s.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, MapError("postgres.ListAssignmentsForFolder", err)
	}
	return out, nil
}

func (s *Store) DeleteAssignment(ctx context.Context, testCaseID, folderID int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("test_case_id = ? AND folder_id = ?", testCaseID, folderID).
		Delete(&domain.TestCaseFolder{})
	if res.Error != nil {
		return false, MapError("postgres.DeleteAssignment", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteAssignmentsForCase(ctx context.Context, testCaseID int64) error {
	if err := s.db.WithContext(ctx).
		Where("test_case_id = ?", testCaseID).
		Delete(&domain.TestCaseFolder{}).Error; err != nil {
		return MapError("postgres.DeleteAssignmentsForCase", err)
	}
	return nil
}

func (s *Store) DeleteAssignmentsForFolder(ctx context.Context, folderID int64) error {
	if err := s.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Delete(&domain.TestCaseFolder{}).Error; err != nil {
		return MapError("postgres.DeleteAssignmentsForFolder", err)
	}
	return nil
}
