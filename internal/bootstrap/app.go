package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cv-analyzer/internal/analyses"
	"cv-analyzer/internal/analyzer"
	"cv-analyzer/internal/retention"
	"cv-analyzer/internal/services/health"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/server"
	"cv-analyzer/internal/shared/server/middleware"
	"cv-analyzer/internal/shared/storage/db"
	"cv-analyzer/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Redis           *redis.Client
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	Health          *health.Service
	Sweeper         *retention.Sweeper
}

// Build connects the configured store and wires services, handlers and routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg, Health: health.NewService()}

	repo, err := app.buildRepo(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.AnalysesRepo = repo

	var publisher analyses.Publisher
	if cfg.EventsChannel != "" {
		if app.Redis == nil {
			client, err := db.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				app.Close()
				return nil, fmt.Errorf("events: %w", err)
			}
			app.setRedis(client)
		}
		publisher = &analyses.RedisPublisher{Client: app.Redis, Channel: cfg.EventsChannel}
	}

	app.AnalysesService = &analyses.Service{
		Repo:      repo,
		Analyzer:  analyzer.New(analyzer.WithKeywordLimit(cfg.KeywordLimit)),
		Publisher: publisher,
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService, cfg.MaxUploadBytes)
	if cfg.Store != config.StoreRedis {
		app.Sweeper = retention.New(app.AnalysesService, cfg.Retention(), cfg.RetentionSchedule)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		Health:          app.Health,
		Limiter:         middleware.NewRateLimiter(nil),
	})
	return app, nil
}

func (a *App) buildRepo(ctx context.Context) (analyses.Repo, error) {
	switch a.Config.Store {
	case config.StorePostgres:
		if strings.TrimSpace(a.Config.DatabaseURL) == "" {
			return nil, fmt.Errorf("STORE=postgres requires DATABASE_URL")
		}
		sqlDB, err := db.Connect(ctx, a.Config.DatabaseURL, db.Options{
			MaxOpenConns: a.Config.DBMaxOpenConns,
			PingTimeout:  a.Config.DBPingTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.DB = sqlDB
		a.Health.Register("postgres", sqlDB.PingContext)
		return &analyses.PGRepo{DB: sqlDB}, nil
	case config.StoreRedis:
		client, err := db.NewRedisClient(ctx, a.Config.RedisURL)
		if err != nil {
			return nil, err
		}
		a.setRedis(client)
		return analyses.NewRedisRepo(client, a.Config.Retention()), nil
	default:
		telemetry.Info("bootstrap.store", map[string]any{"store": config.StoreMemory})
		return analyses.NewMemoryRepo(), nil
	}
}

func (a *App) setRedis(client *redis.Client) {
	a.Redis = client
	a.Health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
}

// Close releases store connections.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
