package memory

import (
	"context"
	"sort"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func cloneBug(b domain.Bug) domain.Bug {
	out := b
	out.TestCaseID = cloneInt64(b.TestCaseID)
	out.RunResultID = cloneInt64(b.RunResultID)
	out.ReportedBy = cloneInt64(b.ReportedBy)
	out.AssignedTo = cloneInt64(b.AssignedTo)
	return out
}

func (s *Store) CreateBug(ctx context.Context, b *domain.Bug) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateBug", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBugID++
	b.ID = s.nextBugID
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	s.bugs[b.ID] = cloneBug(*b)
	return nil
}

func (s *Store) GetBug(ctx context.Context, id int64) (*domain.Bug, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.GetBug", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bugs[id]
	if !ok {
		return nil, nil
	}
	out := cloneBug(b)
	return &out, nil
}

func (s *Store) ListBugs(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListBugs", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Bug
	for _, b := range s.bugs {
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.TestCaseID != nil && (b.TestCaseID == nil || *b.TestCaseID != *f.TestCaseID) {
			continue
		}
		out = append(out, cloneBug(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) UpdateBug(ctx context.Context, b *domain.Bug) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.UpdateBug", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bugs[b.ID]
	if !ok {
		return domain.NewError(domain.CodeNotFound, "memory.UpdateBug", "bug not found", nil)
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = now()
	s.bugs[b.ID] = cloneBug(*b)
	return nil
}

func (s *Store) DeleteBug(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.Wrap(domain.CodeUnavailable, "memory.DeleteBug", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bugs[id]; !ok {
		return false, nil
	}
	delete(s.bugs, id)
	return true, nil
}

func (s *Store) CountBugsByStatus(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.CountBugsByStatus", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64)
	for _, b := range s.bugs {
		out[b.Status]++
	}
	return out, nil
}
