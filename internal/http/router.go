package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/casekeep/casekeep-backend/internal/http/handlers"
	httpMW "github.com/casekeep/casekeep-backend/internal/http/middleware"
	"github.com/casekeep/casekeep-backend/internal/observability"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler     *httpH.HealthHandler
	UserHandler       *httpH.UserHandler
	TestCaseHandler   *httpH.TestCaseHandler
	FolderHandler     *httpH.FolderHandler
	TestRunHandler    *httpH.TestRunHandler
	BugHandler        *httpH.BugHandler
	WhiteboardHandler *httpH.WhiteboardHandler
	ActivityHandler   *httpH.ActivityHandler
	DashboardHandler  *httpH.DashboardHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	service := cfg.ServiceName
	if service == "" {
		service = "casekeep"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	// otelgin opens the server span; AttachTraceContext reads it back out.
	r.Use(otelgin.Middleware(service))
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Users
		if cfg.UserHandler != nil {
			api.GET("/users", cfg.UserHandler.ListUsers)
			api.GET("/users/:id", cfg.UserHandler.GetUser)
			api.POST("/users", cfg.UserHandler.CreateUser)
		}

		// Test cases, versions, folder membership
		if cfg.TestCaseHandler != nil {
			api.GET("/test-cases", cfg.TestCaseHandler.ListTestCases)
			api.POST("/test-cases", cfg.TestCaseHandler.CreateTestCase)
			api.GET("/test-cases/:id", cfg.TestCaseHandler.GetTestCase)
			api.PUT("/test-cases/:id", cfg.TestCaseHandler.UpdateTestCase)
			api.DELETE("/test-cases/:id", cfg.TestCaseHandler.DeleteTestCase)
			api.GET("/test-cases/:id/versions", cfg.TestCaseHandler.ListVersions)
			api.POST("/test-cases/:id/snapshot", cfg.TestCaseHandler.CreateSnapshot)
			api.POST("/test-cases/:id/revert", cfg.TestCaseHandler.RevertToVersion)
			api.GET("/test-cases/:id/folders", cfg.TestCaseHandler.ListFolders)
			api.POST("/test-cases/:id/folders", cfg.TestCaseHandler.AssignToFolder)
			api.DELETE("/test-cases/:id/folders/:folderId", cfg.TestCaseHandler.RemoveFromFolder)
		}

		// Folders
		if cfg.FolderHandler != nil {
			api.GET("/folders", cfg.FolderHandler.ListFolders)
			api.POST("/folders", cfg.FolderHandler.CreateFolder)
			api.GET("/folders/:id", cfg.FolderHandler.GetFolder)
			api.PUT("/folders/:id", cfg.FolderHandler.UpdateFolder)
			api.DELETE("/folders/:id", cfg.FolderHandler.DeleteFolder)
		}

		// Runs and results
		if cfg.TestRunHandler != nil {
			api.GET("/test-runs", cfg.TestRunHandler.ListTestRuns)
			api.POST("/test-runs", cfg.TestRunHandler.CreateTestRun)
			api.GET("/test-runs/:id", cfg.TestRunHandler.GetTestRun)
			api.DELETE("/test-runs/:id", cfg.TestRunHandler.DeleteTestRun)
			api.POST("/test-runs/:id/start", cfg.TestRunHandler.StartTestRun)
			api.POST("/test-runs/:id/complete", cfg.TestRunHandler.CompleteTestRun)
			api.POST("/test-runs/:id/abort", cfg.TestRunHandler.AbortTestRun)
			api.POST("/test-runs/:id/results", cfg.TestRunHandler.RecordRunResult)
			api.GET("/test-runs/:id/results", cfg.TestRunHandler.ListRunResults)
			api.GET("/results", cfg.TestRunHandler.ListResults)
		}

		// Bugs
		if cfg.BugHandler != nil {
			api.GET("/bugs", cfg.BugHandler.ListBugs)
			api.POST("/bugs", cfg.BugHandler.CreateBug)
			api.GET("/bugs/:id", cfg.BugHandler.GetBug)
			api.PUT("/bugs/:id", cfg.BugHandler.UpdateBug)
			api.DELETE("/bugs/:id", cfg.BugHandler.DeleteBug)
		}

		// Whiteboards
		if cfg.WhiteboardHandler != nil {
			api.GET("/whiteboards", cfg.WhiteboardHandler.ListWhiteboards)
			api.POST("/whiteboards", cfg.WhiteboardHandler.CreateWhiteboard)
			api.GET("/whiteboards/:id", cfg.WhiteboardHandler.GetWhiteboard)
			api.PUT("/whiteboards/:id", cfg.WhiteboardHandler.UpdateWhiteboard)
			api.DELETE("/whiteboards/:id", cfg.WhiteboardHandler.DeleteWhiteboard)
		}

		// Activity feed
		if cfg.ActivityHandler != nil {
			api.GET("/activity", cfg.ActivityHandler.ListActivity)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			api.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/events/stream", cfg.RealtimeHandler.SSEStream)
			api.POST("/events/subscribe", cfg.RealtimeHandler.SSESubscribe)
			api.POST("/events/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}
	}

	return r
}
