package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/repository"
)

type TestCaseHandler struct {
	log      *logger.Logger
	repo     repository.Repository
	recorder audit.Recorder
}

func NewTestCaseHandler(log *logger.Logger, repo repository.Repository, recorder audit.Recorder) *TestCaseHandler {
	return &TestCaseHandler{
		log:      log.With("handler", "TestCaseHandler"),
		repo:     repo,
		recorder: recorder,
	}
}

// GET /api/test-cases?status=&folder_id=
func (h *TestCaseHandler) ListTestCases(c *gin.Context) {
	filter := domain.TestCaseFilter{
		Status:   queryString(c, "status"),
		FolderID: queryInt64(c, "folder_id"),
	}
	cases, err := h.repo.ListTestCases(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("ListTestCases failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test_cases": cases})
}

// GET /api/test-cases/:id
func (h *TestCaseHandler) GetTestCase(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	tc, err := h.repo.GetTestCaseWithSteps(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test_case": tc})
}

// POST /api/test-cases
// body: { "title": "...", "description": "...", "status": "...", "priority": "...",
//         "type": "...", "assignee_id": 1, "expected_result": "...",
//         "steps": [{ "description": "...", "expected_result": "..." }] }
func (h *TestCaseHandler) CreateTestCase(c *gin.Context) {
	var req struct {
		Title          string           `json:"title"`
		Description    string           `json:"description"`
		Status         string           `json:"status"`
		Priority       string           `json:"priority"`
		Type           string           `json:"type"`
		AssigneeID     *int64           `json:"assignee_id"`
		ExpectedResult string           `json:"expected_result"`
		Steps          []domain.NewStep `json:"steps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	tc, err := h.repo.CreateTestCaseWithSteps(c.Request.Context(), domain.NewTestCase{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Type:           req.Type,
		AssigneeID:     req.AssigneeID,
		CreatedBy:      actor,
		ExpectedResult: req.ExpectedResult,
		Steps:          req.Steps,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionCreate, audit.EntityTestCase, tc.ID, gin.H{
		"title":   tc.Title,
		"version": tc.Version,
	})
	response.RespondCreated(c, gin.H{"test_case": tc})
}

// PUT /api/test-cases/:id
// body: partial fields; "steps" present (even empty) replaces the step
// set, absent leaves it alone. "comment" labels the version snapshot.
func (h *TestCaseHandler) UpdateTestCase(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	var req struct {
		Title          *string          `json:"title"`
		Description    *string          `json:"description"`
		Status         *string          `json:"status"`
		Priority       *string          `json:"priority"`
		Type           *string          `json:"type"`
		AssigneeID     *int64           `json:"assignee_id"`
		ExpectedResult *string          `json:"expected_result"`
		Steps          []domain.NewStep `json:"steps"`
		Comment        string           `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	tc, err := h.repo.UpdateTestCaseWithSteps(c.Request.Context(), id, domain.TestCasePatch{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Type:           req.Type,
		AssigneeID:     req.AssigneeID,
		ExpectedResult: req.ExpectedResult,
		Steps:          req.Steps,
		ActorID:        actor,
		Comment:        req.Comment,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionUpdate, audit.EntityTestCase, tc.ID, gin.H{
		"version": tc.Version,
	})
	response.RespondOK(c, gin.H{"test_case": tc})
}

// DELETE /api/test-cases/:id
func (h *TestCaseHandler) DeleteTestCase(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	if err := h.repo.DeleteTestCase(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionDelete, audit.EntityTestCase, id, nil)
	response.RespondOK(c, gin.H{"deleted": true})
}

// GET /api/test-cases/:id/versions
func (h *TestCaseHandler) ListVersions(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	versions, err := h.repo.ListVersions(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"versions": versions})
}

// POST /api/test-cases/:id/snapshot
// body: { "comment": "..." }
func (h *TestCaseHandler) CreateSnapshot(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	var req struct {
		Comment string `json:"comment"`
	}
	// An empty body is fine; the snapshot just goes uncommented.
	_ = c.ShouldBindJSON(&req)

	actor := actorID(c)
	v, err := h.repo.CreateVersionSnapshot(c.Request.Context(), id, actor, req.Comment)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionSnapshot, audit.EntityTestCase, id, gin.H{
		"version": v.Version,
		"comment": req.Comment,
	})
	response.RespondCreated(c, gin.H{"version": v})
}

// POST /api/test-cases/:id/revert
// body: { "version": 3 }
func (h *TestCaseHandler) RevertToVersion(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	var req struct {
		Version int `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	tc, err := h.repo.RevertToVersion(c.Request.Context(), id, req.Version, actor)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionRevert, audit.EntityTestCase, id, gin.H{
		"reverted_to": req.Version,
		"version":     tc.Version,
	})
	response.RespondOK(c, gin.H{"test_case": tc})
}

// GET /api/test-cases/:id/folders
func (h *TestCaseHandler) ListFolders(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	folders, err := h.repo.ListFoldersForCase(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"folders": folders})
}

// POST /api/test-cases/:id/folders
// body: { "folder_id": 5 }
func (h *TestCaseHandler) AssignToFolder(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	var req struct {
		FolderID int64 `json:"folder_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	assignment, err := h.repo.AssignToFolder(c.Request.Context(), id, req.FolderID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionAssign, audit.EntityTestCase, id, gin.H{
		"folder_id": req.FolderID,
	})
	response.RespondCreated(c, gin.H{"assignment": assignment})
}

// DELETE /api/test-cases/:id/folders/:folderId
func (h *TestCaseHandler) RemoveFromFolder(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_case_id", err)
		return
	}
	folderID, err := idParam(c, "folderId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_folder_id", err)
		return
	}

	removed, err := h.repo.RemoveFromFolder(c.Request.Context(), id, folderID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if removed {
		h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionUnassign, audit.EntityTestCase, id, gin.H{
			"folder_id": folderID,
		})
	}
	response.RespondOK(c, gin.H{"removed": removed})
}
