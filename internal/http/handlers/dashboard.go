package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/services"
)

type DashboardHandler struct {
	log       *logger.Logger
	dashboard services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:       log.With("handler", "DashboardHandler"),
		dashboard: dashboard,
	}
}

// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		h.log.Error("GetDashboard failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dashboard": overview})
}
