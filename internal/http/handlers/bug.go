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

type BugHandler struct {
	log      *logger.Logger
	repo     repository.Repository
	recorder audit.Recorder
}

func NewBugHandler(log *logger.Logger, repo repository.Repository, recorder audit.Recorder) *BugHandler {
	return &BugHandler{
		log:      log.With("handler", "BugHandler"),
		repo:     repo,
		recorder: recorder,
	}
}

// GET /api/bugs?status=&test_case_id=
func (h *BugHandler) ListBugs(c *gin.Context) {
	filter := domain.BugFilter{
		Status:     queryString(c, "status"),
		TestCaseID: queryInt64(c, "test_case_id"),
	}
	bugs, err := h.repo.ListBugs(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("ListBugs failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bugs": bugs})
}

// GET /api/bugs/:id
func (h *BugHandler) GetBug(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_bug_id", err)
		return
	}
	b, err := h.repo.GetBug(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bug": b})
}

// POST /api/bugs
// body: { "title": "...", "description": "...", "status": "open", "severity": "high",
//         "test_case_id": 1, "run_result_id": 2, "assigned_to": 3 }
func (h *BugHandler) CreateBug(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Severity    string `json:"severity"`
		TestCaseID  *int64 `json:"test_case_id"`
		RunResultID *int64 `json:"run_result_id"`
		AssignedTo  *int64 `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	b, err := h.repo.CreateBug(c.Request.Context(), domain.NewBug{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Severity:    req.Severity,
		TestCaseID:  req.TestCaseID,
		RunResultID: req.RunResultID,
		ReportedBy:  actor,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionCreate, audit.EntityBug, b.ID, gin.H{
		"title":    b.Title,
		"severity": b.Severity,
	})
	response.RespondCreated(c, gin.H{"bug": b})
}

// PUT /api/bugs/:id
// body: partial fields, all optional
func (h *BugHandler) UpdateBug(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_bug_id", err)
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Severity    *string `json:"severity"`
		AssignedTo  *int64  `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	b, err := h.repo.UpdateBug(c.Request.Context(), id, domain.BugPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Severity:    req.Severity,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionUpdate, audit.EntityBug, b.ID, gin.H{
		"status": b.Status,
	})
	response.RespondOK(c, gin.H{"bug": b})
}

// DELETE /api/bugs/:id
func (h *BugHandler) DeleteBug(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_bug_id", err)
		return
	}
	if err := h.repo.DeleteBug(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionDelete, audit.EntityBug, id, nil)
	response.RespondOK(c, gin.H{"deleted": true})
}
