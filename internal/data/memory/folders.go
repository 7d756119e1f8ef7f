package memory

import (
	"context"
	"sort"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func cloneFolder(f domain.Folder) domain.Folder {
	out := f
	out.CreatedBy = cloneInt64(f.CreatedBy)
	return out
}

func (s *Store) CreateFolder(ctx context.Context, f *domain.Folder) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateFolder", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextFolderID++
	f.ID = s.nextFolderID
	f.CreatedAt = now()
	f.UpdatedAt = f.CreatedAt
	s.folders[f.ID] = cloneFolder(*f)
	return nil
}

func (s *Store) GetFolder(ctx context.Context, id int64) (*domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.GetFolder", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, nil
	}
	out := cloneFolder(f)
	return &out, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListFolders", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		out = append(out, cloneFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.UpdateFolder", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.folders[f.ID]
	if !ok {
		return domain.NewError(domain.CodeNotFound, "memory.UpdateFolder", "folder not found", nil)
	}
	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = now()
	s.folders[f.ID] = cloneFolder(*f)
	return nil
}

func (s *Store) DeleteFolder(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.Wrap(domain.CodeUnavailable, "memory.DeleteFolder", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return false, nil
	}
	delete(s.folders, id)
	return true, nil
}

func (s *Store) CountFolders(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.Wrap(domain.CodeUnavailable, "memory.CountFolders", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.folders)), nil
}

func (s *Store) CreateAssignment(ctx context.Context, a *domain.TestCaseFolder) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateAssignment", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.TestCaseID == a.TestCaseID && existing.FolderID == a.FolderID {
			return domain.NewError(domain.CodeConflict, "memory.CreateAssignment", "assignment already exists", nil)
		}
	}

	s.nextAssignmentID++
	a.ID = s.nextAssignmentID
	a.CreatedAt = now()
	s.assignments[a.ID] = *a
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, testCaseID, folderID int64) (*domain.TestCaseFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.GetAssignment", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assignments {
		if a.TestCaseID == testCaseID && a.FolderID == folderID {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) ListAssignmentsForCase(ctx context.Context, testCaseID int64) ([]domain.TestCaseFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListAssignmentsForCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TestCaseFolder
	for _, a := range s.assignments {
		if a.TestCaseID == testCaseID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListAssignmentsForFolder(ctx context.Context, folderID int64) ([]domain.TestCaseFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListAssignmentsForFolder", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TestCaseFolder
	for _, a := range s.assignments {
		if a.FolderID == folderID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteAssignment(ctx context.Context, testCaseID, folderID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.Wrap(domain.CodeUnavailable, "memory.DeleteAssignment", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.assignments {
		if a.TestCaseID == testCaseID && a.FolderID == folderID {
			delete(s.assignments, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteAssignmentsForCase(ctx context.Context, testCaseID int64) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.DeleteAssignmentsForCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.assignments {
		if a.TestCaseID == testCaseID {
			delete(s.assignments, id)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsForFolder(ctx context.Context, folderID int64) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.DeleteAssignmentsForFolder", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.assignments {
		if a.FolderID == folderID {
			delete(s.assignments, id)
		}
	}
	return nil
}
