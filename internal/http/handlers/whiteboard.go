package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
	"github.com/casekeep/casekeep-backend/internal/repository"
)

type WhiteboardHandler struct {
	log      *logger.Logger
	repo     repository.Repository
	recorder audit.Recorder
	pub      realtime.Publisher
}

func NewWhiteboardHandler(log *logger.Logger, repo repository.Repository, recorder audit.Recorder, pub realtime.Publisher) *WhiteboardHandler {
	return &WhiteboardHandler{
		log:      log.With("handler", "WhiteboardHandler"),
		repo:     repo,
		recorder: recorder,
		pub:      pub,
	}
}

// GET /api/whiteboards
func (h *WhiteboardHandler) ListWhiteboards(c *gin.Context) {
	boards, err := h.repo.ListWhiteboards(c.Request.Context())
	if err != nil {
		h.log.Error("ListWhiteboards failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"whiteboards": boards})
}

// GET /api/whiteboards/:id
func (h *WhiteboardHandler) GetWhiteboard(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_whiteboard_id", err)
		return
	}
	w, err := h.repo.GetWhiteboard(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"whiteboard": w})
}

// POST /api/whiteboards
// body: { "name": "...", "content": {...} } (content optional, opaque)
func (h *WhiteboardHandler) CreateWhiteboard(c *gin.Context) {
	var req struct {
		Name    string          `json:"name"`
		Content json.RawMessage `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	w, err := h.repo.CreateWhiteboard(c.Request.Context(), domain.NewWhiteboard{
		Name:      req.Name,
		Content:   datatypes.JSON(req.Content),
		CreatedBy: actor,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionCreate, audit.EntityWhiteboard, w.ID, gin.H{
		"name": w.Name,
	})
	response.RespondCreated(c, gin.H{"whiteboard": w})
}

// PUT /api/whiteboards/:id
// body: { "name": "...", "content": {...} } (both optional; content
// replaces the stored payload verbatim)
func (h *WhiteboardHandler) UpdateWhiteboard(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_whiteboard_id", err)
		return
	}
	var req struct {
		Name    *string         `json:"name"`
		Content json.RawMessage `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	w, err := h.repo.UpdateWhiteboard(c.Request.Context(), id, domain.WhiteboardPatch{
		Name:    req.Name,
		Content: datatypes.JSON(req.Content),
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionUpdate, audit.EntityWhiteboard, w.ID, gin.H{
		"name": w.Name,
	})
	if h.pub != nil {
		h.pub.Publish(c.Request.Context(), realtime.SSEMessage{
			Channel: realtime.WhiteboardChannel(w.ID),
			Event:   realtime.SSEEventWhiteboardUpdated,
			Data:    gin.H{"whiteboard": w},
		})
	}
	response.RespondOK(c, gin.H{"whiteboard": w})
}

// DELETE /api/whiteboards/:id
func (h *WhiteboardHandler) DeleteWhiteboard(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_whiteboard_id", err)
		return
	}
	if err := h.repo.DeleteWhiteboard(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionDelete, audit.EntityWhiteboard, id, nil)
	response.RespondOK(c, gin.H{"deleted": true})
}
