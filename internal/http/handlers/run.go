package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/http/response"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
	"github.com/casekeep/casekeep-backend/internal/repository"
)

type TestRunHandler struct {
	log      *logger.Logger
	repo     repository.Repository
	recorder audit.Recorder
	pub      realtime.Publisher
}

func NewTestRunHandler(log *logger.Logger, repo repository.Repository, recorder audit.Recorder, pub realtime.Publisher) *TestRunHandler {
	return &TestRunHandler{
		log:      log.With("handler", "TestRunHandler"),
		repo:     repo,
		recorder: recorder,
		pub:      pub,
	}
}

// GET /api/test-runs
func (h *TestRunHandler) ListTestRuns(c *gin.Context) {
	runs, err := h.repo.ListTestRuns(c.Request.Context())
	if err != nil {
		h.log.Error("ListTestRuns failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test_runs": runs})
}

// GET /api/test-runs/:id
func (h *TestRunHandler) GetTestRun(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	run, err := h.repo.GetTestRun(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test_run": run})
}

// POST /api/test-runs
// body: { "name": "...", "started_at": "2024-01-01T00:00:00Z" } (started_at optional)
func (h *TestRunHandler) CreateTestRun(c *gin.Context) {
	var req struct {
		Name      string    `json:"name"`
		StartedAt time.Time `json:"started_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	run, err := h.repo.CreateTestRun(c.Request.Context(), domain.NewTestRun{
		Name:      req.Name,
		StartedAt: req.StartedAt,
		CreatedBy: actor,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionCreate, audit.EntityTestRun, run.ID, gin.H{
		"name": run.Name,
	})
	response.RespondCreated(c, gin.H{"test_run": run})
}

// POST /api/test-runs/:id/start
func (h *TestRunHandler) StartTestRun(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	run, err := h.repo.StartTestRun(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionStart, audit.EntityTestRun, run.ID, nil)
	response.RespondOK(c, gin.H{"test_run": run})
}

// POST /api/test-runs/:id/complete
func (h *TestRunHandler) CompleteTestRun(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	run, err := h.repo.CompleteTestRun(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionComplete, audit.EntityTestRun, run.ID, gin.H{
		"duration_seconds": run.DurationSeconds,
	})
	h.publish(c, realtime.ChannelRuns, realtime.SSEEventRunCompleted, gin.H{"test_run": run})
	response.RespondOK(c, gin.H{"test_run": run})
}

// POST /api/test-runs/:id/abort
func (h *TestRunHandler) AbortTestRun(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	run, err := h.repo.AbortTestRun(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionAbort, audit.EntityTestRun, run.ID, nil)
	response.RespondOK(c, gin.H{"test_run": run})
}

// DELETE /api/test-runs/:id
func (h *TestRunHandler) DeleteTestRun(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	if err := h.repo.DeleteTestRun(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actorID(c), audit.ActionDelete, audit.EntityTestRun, id, nil)
	response.RespondOK(c, gin.H{"deleted": true})
}

// POST /api/test-runs/:id/results
// body: { "test_case_id": 1, "status": "passed", "notes": "..." }
func (h *TestRunHandler) RecordRunResult(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	var req struct {
		TestCaseID int64  `json:"test_case_id"`
		Status     string `json:"status"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	actor := actorID(c)
	result, err := h.repo.RecordRunResult(c.Request.Context(), domain.NewRunResult{
		RunID:      id,
		TestCaseID: req.TestCaseID,
		Status:     req.Status,
		Notes:      req.Notes,
		ExecutedBy: actor,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), actor, audit.ActionRecordResult, audit.EntityTestRun, id, gin.H{
		"test_case_id": result.TestCaseID,
		"status":       result.Status,
	})
	h.publish(c, realtime.ChannelRuns, realtime.SSEEventRunResultRecorded, gin.H{"result": result})
	response.RespondCreated(c, gin.H{"result": result})
}

// GET /api/test-runs/:id/results
func (h *TestRunHandler) ListRunResults(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_test_run_id", err)
		return
	}
	results, err := h.repo.ListRunResults(c.Request.Context(), domain.RunResultFilter{RunID: &id})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

// GET /api/results?test_case_id=&run_id=
func (h *TestRunHandler) ListResults(c *gin.Context) {
	filter := domain.RunResultFilter{
		RunID:      queryInt64(c, "run_id"),
		TestCaseID: queryInt64(c, "test_case_id"),
	}
	results, err := h.repo.ListRunResults(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

func (h *TestRunHandler) publish(c *gin.Context, channel string, event realtime.SSEEvent, data any) {
	if h.pub == nil {
		return
	}
	h.pub.Publish(c.Request.Context(), realtime.SSEMessage{
		Channel: channel,
		Event:   event,
		Data:    data,
	})
}
