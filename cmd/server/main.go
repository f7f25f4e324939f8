package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/database"
	"github.com/luxilearn/luxilearn-backend/internal/exercise"
	"github.com/luxilearn/luxilearn-backend/internal/handler"
	"github.com/luxilearn/luxilearn-backend/internal/logger"
	"github.com/luxilearn/luxilearn-backend/internal/progress"
	"github.com/luxilearn/luxilearn-backend/internal/repository"
	"github.com/luxilearn/luxilearn-backend/internal/router"
	"github.com/luxilearn/luxilearn-backend/internal/service"
	"github.com/luxilearn/luxilearn-backend/internal/validator"
	"github.com/luxilearn/luxilearn-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LuxiLearn Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Progress Stores ────────────────────────────────────
	progressStore := progress.NewRedisStore(rdb, cfg.LessonSessionTTL)

	// ─── Initialize Exercise Validators ────────────────────────────────
	registry := exercise.NewRegistry(log)
	exercise.RegisterBuiltins(registry)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	catalogService := service.NewCatalogService(courseRepo, lessonRepo, rdb, log)
	courseService := service.NewCourseService(courseRepo, lessonRepo, catalogService, log)
	progressionService := service.NewProgressionService(
		catalogService, progressStore, progressStore, registry, rdb, log)
	dashboardService := service.NewDashboardService(dashboardRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, adminRepo),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Learn:       handler.NewLearnHandler(progressionService),
		CourseAdmin: handler.NewCourseAdminHandler(courseService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Activity:    handler.NewActivityHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	syncWorker := worker.NewProgressSyncWorker(pool, rdb, log)
	go syncWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published courses into Redis BEFORE accepting traffic.
	// This avoids race conditions from lazy loading under thundering herd.
	if err := catalogService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
