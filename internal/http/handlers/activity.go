package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

const defaultActivityLimit = 50

type ActivityHandler struct {
	log      *logger.Logger
	recorder audit.Recorder
}

func NewActivityHandler(log *logger.Logger, recorder audit.Recorder) *ActivityHandler {
	return &ActivityHandler{
		log:      log.With("handler", "ActivityHandler"),
		recorder: recorder,
	}
}

// GET /api/activity?limit=
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	rows, err := h.recorder.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("ListActivity failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activity": rows})
}
