package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/data/memory"
	"github.com/casekeep/casekeep-backend/internal/data/postgres"
	"github.com/casekeep/casekeep-backend/internal/db"
	"github.com/casekeep/casekeep-backend/internal/observability"
	"github.com/casekeep/casekeep-backend/internal/platform/envutil"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
	"github.com/casekeep/casekeep-backend/internal/realtime/bus"
	"github.com/casekeep/casekeep-backend/internal/repository"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Store  data.Store
	Repo   repository.Repository
	Router *gin.Engine
	SSEHub *realtime.SSEHub

	db       *db.Service
	bus      bus.Bus
	metrics  *observability.Metrics
	otelStop func(context.Context) error
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{Log: log, Cfg: cfg, cancel: cancel}

	a.otelStop = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "casekeep",
		Environment: cfg.Environment,
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})
	a.metrics = observability.Init(log)

	var store data.Store
	switch cfg.DBDriver {
	case "memory":
		store = memory.NewStore(log)
	default:
		svc, err := db.New(cfg.DBDriver, cfg.DatabaseDSN(), log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init database: %w", err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		a.db = svc
		store = postgres.NewStore(svc.DB(), log)
	}
	a.Store = store
	a.Repo = repository.New(store, log)

	hub := realtime.NewSSEHub(log)
	a.SSEHub = hub

	var pub realtime.Publisher = realtime.NewLocalPublisher(hub)
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, cfg.RedisAddr, "events")
		if err != nil {
			log.Warn("redis bus unavailable; events stay process-local", "error", err)
		} else if err := b.StartForwarder(ctx, hub.Broadcast); err != nil {
			log.Warn("bus forwarder failed to start; events stay process-local", "error", err)
			b.Close()
		} else {
			a.bus = b
			pub = bus.NewPublisher(log, b)
		}
	}

	handlerset := wireHandlers(log, store, a.Repo, hub, pub, a.metrics)
	a.Router = wireRouter(log, cfg, a.metrics, handlerset)

	if a.metrics != nil {
		a.metrics.StartServer(ctx, log, cfg.MetricsAddr)
		a.metrics.StartEntityCollector(ctx, log, store)
		if a.db != nil {
			a.metrics.StartDBCollector(ctx, log, a.db.DB())
		}
		if cfg.RedisAddr != "" {
			a.metrics.StartRedisCollector(ctx, log, cfg.RedisAddr)
		}
	}

	return a, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.bus != nil {
		a.bus.Close()
		a.bus = nil
	}
	if a.otelStop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelStop(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
		a.otelStop = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
