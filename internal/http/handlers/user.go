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

type UserHandler struct {
	log      *logger.Logger
	repo     repository.Repository
	recorder audit.Recorder
}

func NewUserHandler(log *logger.Logger, repo repository.Repository, recorder audit.Recorder) *UserHandler {
	return &UserHandler{
		log:      log.With("handler", "UserHandler"),
		repo:     repo,
		recorder: recorder,
	}
}

// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("ListUsers failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	u, err := h.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// POST /api/users
// body: { "username": "...", "email": "...", "password": "...", "role": "tester" }
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	u, err := h.repo.CreateUser(c.Request.Context(), domain.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionCreate, audit.EntityUser, u.ID, gin.H{
		"username": u.Username,
		"role":     u.Role,
	})
	response.RespondCreated(c, gin.H{"user": u})
}
