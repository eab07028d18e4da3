package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	temporalsdkclient "go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/db"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/observability"
	"github.com/annomania/annomania-api/internal/temporalx"
	"github.com/annomania/annomania-api/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	Temporal temporalsdkclient.Client
	worker   *temporalworker.Runner

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	closeOnce    sync.Once
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init temporal: %w", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, reposet, tc)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var worker *temporalworker.Runner
	if tc != nil {
		worker, err = temporalworker.NewRunner(log, tc, serviceset.Consensus.Rebuild)
		if err != nil {
			log.Sync()
			return nil, err
		}
	}

	handlerset := wireHandlers(log, serviceset)
	mw := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, mw)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Temporal:     tc,
		worker:       worker,
		otelShutdown: otelShutdown,
	}, nil
}

// Start brings up the background side of the process: the Temporal worker,
// when one is configured.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.worker != nil {
		return a.worker.Start(ctx)
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
			a.cancel = nil
		}
		if a.Temporal != nil {
			a.Temporal.Close()
		}
		if a.otelShutdown != nil {
			_ = a.otelShutdown(context.Background())
		}
		if a.Log != nil {
			a.Log.Sync()
		}
	})
}
