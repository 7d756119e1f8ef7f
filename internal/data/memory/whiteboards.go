package memory

import (
	"context"
	"sort"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func cloneWhiteboard(w domain.Whiteboard) domain.Whiteboard {
	out := w
	out.Content = cloneJSON(w.Content)
	out.CreatedBy = cloneInt64(w.CreatedBy)
	return out
}

func (s *Store) CreateWhiteboard(ctx context.Context, w *domain.Whiteboard) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateWhiteboard", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextWhiteboardID++
	w.ID = s.nextWhiteboardID
	w.CreatedAt = now()
	w.UpdatedAt = w.CreatedAt
	s.whiteboards[w.ID] = cloneWhiteboard(*w)
	return nil
}

func (s *Store) GetWhiteboard(ctx context.Context, id int64) (*domain.Whiteboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.GetWhiteboard", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.whiteboards[id]
	if !ok {
		return nil, nil
	}
	out := cloneWhiteboard(w)
	return &out, nil
}

func (s *Store) ListWhiteboards(ctx context.Context) ([]domain.Whiteboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListWhiteboards", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Whiteboard, 0, len(s.whiteboards))
	for _, w := range s.whiteboards {
		out = append(out, cloneWhiteboard(w))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateWhiteboard(ctx context.Context, w *domain.Whiteboard) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.UpdateWhiteboard", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.whiteboards[w.ID]
	if !ok {
		return domain.NewError(domain.CodeNotFound, "memory.UpdateWhiteboard", "whiteboard not found", nil)
	}
	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = now()
	s.whiteboards[w.ID] = cloneWhiteboard(*w)
	return nil
}

func (s *Store) DeleteWhiteboard(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.Wrap(domain.CodeUnavailable, "memory.DeleteWhiteboard", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.whiteboards[id]; !ok {
		return false, nil
	}
	delete(s.whiteboards, id)
	return true, nil
}
