package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

type HealthHandler struct {
	log   *logger.Logger
	store data.Store
}

func NewHealthHandler(log *logger.Logger, store data.Store) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), store: store}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Error("health check failed", "error", err)
		response.RespondError(c, http.StatusServiceUnavailable, "unavailable", err)
		return
	}
	c.String(http.StatusOK, "ok")
}
