package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stageflow_backend/internal/analytics"
	"stageflow_backend/internal/deals"
	"stageflow_backend/internal/events"
	apphttp "stageflow_backend/internal/http"
	"stageflow_backend/internal/http/router"
	"stageflow_backend/internal/pipeline"
	pipedomain "stageflow_backend/internal/pipeline/domain"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/internal/recovery"
	"stageflow_backend/internal/recovery/cache"
	"stageflow_backend/internal/scheduler"
	"stageflow_backend/internal/scoring"
	"stageflow_backend/migrations"
	"stageflow_backend/platform/config"
	"stageflow_backend/platform/db"
	"stageflow_backend/platform/logger"
	"stageflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reg, err := registry.New(cfg)
	if err != nil {
		log.Error("failed to load pipeline templates", "error", err)
		panic("failed to load pipeline templates: " + err.Error())
	}
	log.Info("pipeline templates loaded", "templates", len(reg.Templates()))

	engine := scoring.NewEngine(pipedomain.NewStageConfig())

	recalcClient, closeRecalc := initRecalcScheduler(cfg, log)
	if closeRecalc != nil {
		defer closeRecalc()
	}

	templateCache := initTemplateCache(cfg, log)
	if templateCache != nil {
		defer func() { _ = templateCache.Close() }()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	dealsModule := deals.NewModule(pool, reg, eventBus, val, log)
	pipelineModule := pipeline.NewModule(reg)
	recoveryModule := recovery.NewModule(dealsModule.Repository(), reg, templateCache, recalcClient, eventBus, val, log)
	analyticsModule := analytics.NewModule(dealsModule.Repository(), recoveryModule.Service(), engine, cfg.WorkerPoolSize, log)
	defer analyticsModule.Close()

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			dealsModule,
			pipelineModule,
			recoveryModule,
			analyticsModule,
		},
	}

	engineHTTP := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engineHTTP.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRecalcScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.RecalcScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background confidence recalculation disabled")
		return nil, nil
	}

	recalcClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize recalc scheduler client", "error", err)
		return nil, nil
	}

	return recalcClient, func() {
		_ = recalcClient.Close()
	}
}

func initTemplateCache(cfg config.CacheConfig, log *logger.Logger) *cache.TemplateCache {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; template cache disabled")
		return nil
	}

	templateCache, err := cache.New(cfg)
	if err != nil {
		log.Error("failed to initialize template cache", "error", err)
		return nil
	}
	return templateCache
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
