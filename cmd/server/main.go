// Command canela-server starts the Canela habit-tracking API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canela-app/canela/internal/config"
	"github.com/canela-app/canela/internal/migrate"
	"github.com/canela-app/canela/internal/repository/postgres"
	httpserver "github.com/canela-app/canela/internal/server/http"
	"github.com/canela-app/canela/internal/service"
	"github.com/canela-app/canela/internal/taskgen"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTPAddress()),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	taskRepo := postgres.NewDailyTaskRepo(db)
	libraryRepo := postgres.NewLibraryRepo(db)
	costumeRepo := postgres.NewCostumeRepo(db)

	// Services
	taskSvc := service.NewTaskService(userRepo, taskRepo, libraryRepo, logger)
	storeSvc := service.NewStoreService(userRepo, costumeRepo, logger)
	profileSvc := service.NewProfileService(userRepo)

	var gen httpserver.TaskGenerator
	if cfg.OpenRouterKey != "" {
		gen = taskgen.New(cfg.OpenRouterKey)
	}

	handlers := httpserver.NewHandlers(taskSvc, storeSvc, profileSvc, gen, logger)
	srv := httpserver.New(cfg, handlers, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddress()))
		errCh <- srv.Start()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
