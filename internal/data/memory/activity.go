package memory

import (
	"context"
	"sort"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func cloneActivity(a domain.ActivityLog) domain.ActivityLog {
	out := a
	out.UserID = cloneInt64(a.UserID)
	out.Details = cloneJSON(a.Details)
	return out
}

func (s *Store) CreateActivity(ctx context.Context, a *domain.ActivityLog) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateActivity", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextActivityID++
	a.ID = s.nextActivityID
	a.CreatedAt = now()
	s.activity[a.ID] = cloneActivity(*a)
	return nil
}

func (s *Store) ListActivity(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListActivity", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ActivityLog, 0, len(s.activity))
	for _, a := range s.activity {
		out = append(out, cloneActivity(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
