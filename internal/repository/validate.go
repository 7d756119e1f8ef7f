package repository

import (
	"fmt"
	"strings"

	"github.com/casekeep/casekeep-backend/internal/domain"
)

func validationErr(op, format string, args ...interface{}) error {
	return domain.NewError(domain.CodeValidation, op, fmt.Sprintf(format, args...), nil)
}

func notFoundErr(op, what string, id int64) error {
	return domain.NewError(domain.CodeNotFound, op, fmt.Sprintf("%s %d not found", what, id), nil)
}

// The check helpers run before any adapter call. They fill documented
// defaults in place and reject structural violations; they never touch
// the backend.

func checkNewUser(op string, n *domain.NewUser) error {
	if strings.TrimSpace(n.Username) == "" {
		return validationErr(op, "username is required")
	}
	if strings.TrimSpace(n.Email) == "" {
		return validationErr(op, "email is required")
	}
	if n.Password == "" {
		return validationErr(op, "password is required")
	}
	if n.Role == "" {
		n.Role = domain.RoleTester
	}
	if !domain.ValidRole(n.Role) {
		return validationErr(op, "unknown role %q", n.Role)
	}
	return nil
}

func checkNewCase(op string, n *domain.NewTestCase) error {
	if strings.TrimSpace(n.Title) == "" {
		return validationErr(op, "title is required")
	}
	if n.Status == "" {
		n.Status = domain.CaseStatusPending
	}
	if !domain.ValidCaseStatus(n.Status) {
		return validationErr(op, "unknown status %q", n.Status)
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(n.Priority) {
		return validationErr(op, "unknown priority %q", n.Priority)
	}
	if n.AssigneeID != nil && *n.AssigneeID <= 0 {
		return validationErr(op, "assignee_id must be positive")
	}
	if n.CreatedBy != nil && *n.CreatedBy <= 0 {
		return validationErr(op, "created_by must be positive")
	}
	return checkSteps(op, n.Steps)
}

func checkSteps(op string, steps []domain.NewStep) error {
	for i, s := range steps {
		if strings.TrimSpace(s.Description) == "" {
			return validationErr(op, "step %d: description is required", i+1)
		}
	}
	return nil
}

func checkCasePatch(op string, p *domain.TestCasePatch) error {
	if !p.HasFieldChanges() && p.Steps == nil {
		return validationErr(op, "update changes nothing")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return validationErr(op, "title cannot be empty")
	}
	if p.Status != nil && !domain.ValidCaseStatus(*p.Status) {
		return validationErr(op, "unknown status %q", *p.Status)
	}
	if p.Priority != nil && !domain.ValidPriority(*p.Priority) {
		return validationErr(op, "unknown priority %q", *p.Priority)
	}
	if p.AssigneeID != nil && *p.AssigneeID <= 0 {
		return validationErr(op, "assignee_id must be positive")
	}
	if p.Steps != nil {
		return checkSteps(op, p.Steps)
	}
	return nil
}

func checkNewFolder(op string, n *domain.NewFolder) error {
	if strings.TrimSpace(n.Name) == "" {
		return validationErr(op, "name is required")
	}
	return nil
}

func checkFolderPatch(op string, p *domain.FolderPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return validationErr(op, "name cannot be empty")
	}
	return nil
}

func checkNewRun(op string, n *domain.NewTestRun) error {
	if strings.TrimSpace(n.Name) == "" {
		return validationErr(op, "name is required")
	}
	return nil
}

func checkNewResult(op string, n *domain.NewRunResult) error {
	if n.RunID <= 0 {
		return validationErr(op, "run_id must be positive")
	}
	if n.TestCaseID <= 0 {
		return validationErr(op, "test_case_id must be positive")
	}
	if !domain.ValidResultStatus(n.Status) {
		return validationErr(op, "unknown result status %q", n.Status)
	}
	return nil
}

func checkNewBug(op string, n *domain.NewBug) error {
	if strings.TrimSpace(n.Title) == "" {
		return validationErr(op, "title is required")
	}
	if n.Status == "" {
		n.Status = domain.BugStatusOpen
	}
	if !domain.ValidBugStatus(n.Status) {
		return validationErr(op, "unknown status %q", n.Status)
	}
	if n.Severity == "" {
		n.Severity = domain.PriorityMedium
	}
	if !domain.ValidPriority(n.Severity) {
		return validationErr(op, "unknown severity %q", n.Severity)
	}
	return nil
}

func checkBugPatch(op string, p *domain.BugPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return validationErr(op, "title cannot be empty")
	}
	if p.Status != nil && !domain.ValidBugStatus(*p.Status) {
		return validationErr(op, "unknown status %q", *p.Status)
	}
	if p.Severity != nil && !domain.ValidPriority(*p.Severity) {
		return validationErr(op, "unknown severity %q", *p.Severity)
	}
	return nil
}

func checkNewWhiteboard(op string, n *domain.NewWhiteboard) error {
	if strings.TrimSpace(n.Name) == "" {
		return validationErr(op, "name is required")
	}
	return nil
}

func checkWhiteboardPatch(op string, p *domain.WhiteboardPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return validationErr(op, "name cannot be empty")
	}
	return nil
}
