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

type FolderHandler struct {
	log      *logger.Logger
	repo     repository.Repository
	recorder audit.Recorder
}

func NewFolderHandler(log *logger.Logger, repo repository.Repository, recorder audit.Recorder) *FolderHandler {
	return &FolderHandler{
		log:      log.With("handler", "FolderHandler"),
		repo:     repo,
		recorder: recorder,
	}
}

// GET /api/folders
func (h *FolderHandler) ListFolders(c *gin.Context) {
	folders, err := h.repo.ListFolders(c.Request.Context())
	if err != nil {
		h.log.Error("ListFolders failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"folders": folders})
}

// GET /api/folders/:id
func (h *FolderHandler) GetFolder(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_folder_id", err)
		return
	}
	f, err := h.repo.GetFolder(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"folder": f})
}

// POST /api/folders
// body: { "name": "...", "description": "..." }
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	f, err := h.repo.CreateFolder(c.Request.Context(), domain.NewFolder{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionCreate, audit.EntityFolder, f.ID, gin.H{
		"name": f.Name,
	})
	response.RespondCreated(c, gin.H{"folder": f})
}

// PUT /api/folders/:id
// body: { "name": "...", "description": "..." } (both optional)
func (h *FolderHandler) UpdateFolder(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_folder_id", err)
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	f, err := h.repo.UpdateFolder(c.Request.Context(), id, domain.FolderPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionUpdate, audit.EntityFolder, f.ID, gin.H{
		"name": f.Name,
	})
	response.RespondOK(c, gin.H{"folder": f})
}

// DELETE /api/folders/:id
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_folder_id", err)
		return
	}
	if err := h.repo.DeleteFolder(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionDelete, audit.EntityFolder, id, nil)
	response.RespondOK(c, gin.H{"deleted": true})
}
