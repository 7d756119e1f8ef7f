package memory

import (
	"context"
	"sort"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func cloneRun(r domain.TestRun) domain.TestRun {
	out := r
	out.CompletedAt = cloneTime(r.CompletedAt)
	out.DurationSeconds = cloneInt64(r.DurationSeconds)
	out.CreatedBy = cloneInt64(r.CreatedBy)
	return out
}

func cloneResult(res domain.TestRunResult) domain.TestRunResult {
	out := res
	out.ExecutedBy = cloneInt64(res.ExecutedBy)
	return out
}

func (s *Store) CreateTestRun(ctx context.Context, r *domain.TestRun) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateTestRun", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRunID++
	r.ID = s.nextRunID
	r.CreatedAt = now()
	s.runs[r.ID] = cloneRun(*r)
	return nil
}

func (s *Store) GetTestRun(ctx context.Context, id int64) (*domain.TestRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.GetTestRun", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	out := cloneRun(r)
	return &out, nil
}

func (s *Store) ListTestRuns(ctx context.Context) ([]domain.TestRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListTestRuns", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TestRun, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, cloneRun(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) UpdateTestRun(ctx context.Context, r *domain.TestRun) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.UpdateTestRun", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.runs[r.ID]
	if !ok {
		return domain.NewError(domain.CodeNotFound, "memory.UpdateTestRun", "test run not found", nil)
	}
	r.CreatedAt = existing.CreatedAt
	s.runs[r.ID] = cloneRun(*r)
	return nil
}

func (s *Store) DeleteTestRun(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.Wrap(domain.CodeUnavailable, "memory.DeleteTestRun", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return false, nil
	}
	delete(s.runs, id)
	return true, nil
}

func (s *Store) CountTestRunsByStatus(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.CountTestRunsByStatus", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64)
	for _, r := range s.runs {
		out[r.Status]++
	}
	return out, nil
}

func (s *Store) CreateRunResult(ctx context.Context, res *domain.TestRunResult) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateRunResult", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextResultID++
	res.ID = s.nextResultID
	res.CreatedAt = now()
	s.results[res.ID] = cloneResult(*res)
	return nil
}

func (s *Store) ListRunResults(ctx context.Context, f domain.RunResultFilter) ([]domain.TestRunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListRunResults", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TestRunResult
	for _, res := range s.results {
		if f.RunID != nil && res.RunID != *f.RunID {
			continue
		}
		if f.TestCaseID != nil && res.TestCaseID != *f.TestCaseID {
			continue
		}
		out = append(out, cloneResult(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteResultsForRun(ctx context.Context, runID int64) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.DeleteResultsForRun", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, res := range s.results {
		if res.RunID == runID {
			delete(s.results, id)
		}
	}
	return nil
}
