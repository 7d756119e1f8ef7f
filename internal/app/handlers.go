package app

import (
	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/http"
	httpH "github.com/casekeep/casekeep-backend/internal/http/handlers"
	"github.com/casekeep/casekeep-backend/internal/observability"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
	"github.com/casekeep/casekeep-backend/internal/repository"
	"github.com/casekeep/casekeep-backend/internal/services"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	User       *httpH.UserHandler
	TestCase   *httpH.TestCaseHandler
	Folder     *httpH.FolderHandler
	TestRun    *httpH.TestRunHandler
	Bug        *httpH.BugHandler
	Whiteboard *httpH.WhiteboardHandler
	Activity   *httpH.ActivityHandler
	Dashboard  *httpH.DashboardHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(
	log *logger.Logger,
	store data.Store,
	repo repository.Repository,
	hub *realtime.SSEHub,
	pub realtime.Publisher,
	metrics *observability.Metrics,
) Handlers {
	log.Info("Wiring handlers...")
	recorder := audit.New(store, log)
	dashboard := services.NewDashboardService(store, log)
	return Handlers{
		Health:     httpH.NewHealthHandler(log, store),
		User:       httpH.NewUserHandler(log, repo, recorder),
		TestCase:   httpH.NewTestCaseHandler(log, repo, recorder),
		Folder:     httpH.NewFolderHandler(log, repo, recorder),
		TestRun:    httpH.NewTestRunHandler(log, repo, recorder, pub),
		Bug:        httpH.NewBugHandler(log, repo, recorder),
		Whiteboard: httpH.NewWhiteboardHandler(log, repo, recorder, pub),
		Activity:   httpH.NewActivityHandler(log, recorder),
		Dashboard:  httpH.NewDashboardHandler(log, dashboard),
		Realtime:   httpH.NewRealtimeHandler(log, hub, metrics),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlerset Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,

		HealthHandler:     handlerset.Health,
		UserHandler:       handlerset.User,
		TestCaseHandler:   handlerset.TestCase,
		FolderHandler:     handlerset.Folder,
		TestRunHandler:    handlerset.TestRun,
		BugHandler:        handlerset.Bug,
		WhiteboardHandler: handlerset.Whiteboard,
		ActivityHandler:   handlerset.Activity,
		DashboardHandler:  handlerset.Dashboard,
		RealtimeHandler:   handlerset.Realtime,
	})
}
