package memory

import (
	"context"
	"sort"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func cloneCase(tc domain.TestCase) domain.TestCase {
	out := tc
	out.AssigneeID = cloneInt64(tc.AssigneeID)
	out.CreatedBy = cloneInt64(tc.CreatedBy)
	out.LastRun = cloneTime(tc.LastRun)
	return out
}

func cloneVersion(v domain.TestVersion) domain.TestVersion {
	out := v
	out.Snapshot = cloneJSON(v.Snapshot)
	out.CreatedBy = cloneInt64(v.CreatedBy)
	return out
}

func (s *Store) CreateTestCase(ctx context.Context, tc *domain.TestCase) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateTestCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCaseID++
	tc.ID = s.nextCaseID
	tc.CreatedAt = now()
	tc.UpdatedAt = tc.CreatedAt
	s.cases[tc.ID] = cloneCase(*tc)
	return nil
}

func (s *Store) GetTestCase(ctx context.Context, id int64) (*domain.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.GetTestCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tc, ok := s.cases[id]
	if !ok {
		return nil, nil
	}
	out := cloneCase(tc)
	return &out, nil
}

func (s *Store) ListTestCases(ctx context.Context, f domain.TestCaseFilter) ([]domain.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListTestCases", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var inFolder map[int64]bool
	if f.FolderID != nil {
		inFolder = make(map[int64]bool)
		for _, a := range s.assignments {
			if a.FolderID == *f.FolderID {
				inFolder[a.TestCaseID] = true
			}
		}
	}

	out := make([]domain.TestCase, 0, len(s.cases))
	for _, tc := range s.cases {
		if f.Status != nil && tc.Status != *f.Status {
			continue
		}
		if inFolder != nil && !inFolder[tc.ID] {
			continue
		}
		out = append(out, cloneCase(tc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateTestCase(ctx context.Context, tc *domain.TestCase) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.UpdateTestCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.cases[tc.ID]
	if !ok {
		return domain.NewError(domain.CodeNotFound, "memory.UpdateTestCase", "test case not found", nil)
	}
	tc.CreatedAt = existing.CreatedAt
	tc.UpdatedAt = now()
	s.cases[tc.ID] = cloneCase(*tc)
	return nil
}

func (s *Store) DeleteTestCase(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.Wrap(domain.CodeUnavailable, "memory.DeleteTestCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[id]; !ok {
		return false, nil
	}
	delete(s.cases, id)
	return true, nil
}

func (s *Store) CountTestCasesByStatus(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.CountTestCasesByStatus", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64)
	for _, tc := range s.cases {
		out[tc.Status]++
	}
	return out, nil
}

func (s *Store) CreateSteps(ctx context.Context, steps []domain.TestStep) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateSteps", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range steps {
		s.nextStepID++
		steps[i].ID = s.nextStepID
		s.steps[steps[i].ID] = steps[i]
	}
	return nil
}

func (s *Store) ListSteps(ctx context.Context, testCaseID int64) ([]domain.TestStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListSteps", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TestStep
	for _, st := range s.steps {
		if st.TestCaseID == testCaseID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepNumber < out[j].StepNumber })
	return out, nil
}

func (s *Store) DeleteStepsForCase(ctx context.Context, testCaseID int64) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.DeleteStepsForCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, st := range s.steps {
		if st.TestCaseID == testCaseID {
			delete(s.steps, id)
		}
	}
	return nil
}

func (s *Store) CreateVersion(ctx context.Context, v *domain.TestVersion) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.CreateVersion", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextVersionID++
	v.ID = s.nextVersionID
	v.CreatedAt = now()
	s.versions[v.ID] = cloneVersion(*v)
	return nil
}

func (s *Store) ListVersions(ctx context.Context, testCaseID int64) ([]domain.TestVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeUnavailable, "memory.ListVersions", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TestVersion
	for _, v := range s.versions {
		if v.TestCaseID == testCaseID {
			out = append(out, cloneVersion(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version < out[j].Version
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteVersionsForCase(ctx context.Context, testCaseID int64) error {
	if err := ctx.Err(); err != nil {
		return domain.Wrap(domain.CodeUnavailable, "memory.DeleteVersionsForCase", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range s.versions {
		if v.TestCaseID == testCaseID {
			delete(s.versions, id)
		}
	}
	return nil
}
