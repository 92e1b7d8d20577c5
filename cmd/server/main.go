package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/internal/config"
	httpinfra "github.com/alignhq/api/internal/infra/http"
	"github.com/alignhq/api/internal/infra/http/handler"
	"github.com/alignhq/api/internal/infra/http/middleware"
	"github.com/alignhq/api/internal/infra/jobs"
	"github.com/alignhq/api/internal/infra/postgres"
	"github.com/alignhq/api/internal/infra/redis"
	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/jwt"
	"github.com/alignhq/api/pkg/logger"
	"github.com/alignhq/api/pkg/validator"
)

const apiMountPrefix = "/api/v1"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer closeWithLog(db, "database", log)
	log.Info("database connected")

	redisClient, err := redis.New(&cfg.Redis, log)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		return 1
	}
	defer closeWithLog(redisClient, "redis", log)

	jwtManager, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	if err != nil {
		log.Error("failed to initialize token manager", "error", err)
		return 1
	}

	// Repositories.
	tenantRepo := postgres.NewTenantRepository(db)
	areaRepo := postgres.NewAreaRepository(db)
	userRepo := postgres.NewUserRepository(db)
	initiativeRepo := postgres.NewInitiativeRepository(db)
	referenceRepo := postgres.NewReferenceRepository(db)

	profileCache := redis.NewProfileCache(redisClient, referenceRepo, cfg.Auth.ProfileCacheTTL)

	// Services.
	authzService := app.NewAuthorizationService(nil, log)
	refValidator := reference.NewValidator(referenceRepo)
	initiativeService := app.NewInitiativeService(initiativeRepo, refValidator, authzService, log)
	auditService := app.NewAuditService(tenantRepo, areaRepo, userRepo, initiativeRepo, authzService, log)

	jobClient, err := jobs.NewClient(jobs.ClientConfig{
		RedisAddr:     cfg.Redis.Addr(),
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Error("failed to initialize job client", "error", err)
		return 1
	}
	defer closeWithLog(jobClient, "job client", log)

	// HTTP server.
	v := validator.New()
	server := httpinfra.NewServer(cfg, log)
	httpinfra.RegisterRoutes(server.Router(), httpinfra.RouterDeps{
		Auth:        middleware.Auth(jwtManager, profileCache, apiMountPrefix, log),
		RouteGuard:  middleware.RouteGuard(authzService, log),
		Initiatives: handler.NewInitiativeHandler(initiativeService, v),
		Authz:       handler.NewAuthzHandler(authzService, v),
		Audit:       handler.NewAuditHandler(auditService, jobClient),
		Health: handler.NewHealthHandler(cfg.App.Name, map[string]handler.Pinger{
			"database": db,
			"redis":    redisClient,
		}),
	})

	// Background worker with the audit schedule.
	var worker *jobs.Worker
	if cfg.Audit.Enabled {
		worker, err = jobs.NewWorker(jobs.WorkerConfig{
			RedisAddr:     cfg.Redis.Addr(),
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
			Concurrency:   cfg.Audit.Concurrency,
			AuditInterval: cfg.Audit.Interval,
		}, auditService, log)
		if err != nil {
			log.Error("failed to initialize worker", "error", err)
			return 1
		}
		if err := worker.Start(); err != nil {
			log.Error("failed to start worker", "error", err)
			return 1
		}
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if worker != nil {
		worker.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return 1
	}

	log.Info("application stopped")
	return 0
}

type closer interface {
	Close() error
}

func closeWithLog(c closer, name string, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
