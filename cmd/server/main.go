package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/config"
	"github.com/terraquiz/terraquiz/internal/database"
	"github.com/terraquiz/terraquiz/internal/generator"
	"github.com/terraquiz/terraquiz/internal/handler"
	"github.com/terraquiz/terraquiz/internal/imagery"
	"github.com/terraquiz/terraquiz/internal/logger"
	"github.com/terraquiz/terraquiz/internal/repository"
	"github.com/terraquiz/terraquiz/internal/router"
	"github.com/terraquiz/terraquiz/internal/service"
	"github.com/terraquiz/terraquiz/internal/session"
	"github.com/terraquiz/terraquiz/internal/validator"
	"github.com/terraquiz/terraquiz/internal/worker"
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
		Msg("Starting TerraQuiz Server")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	} else {
		log.Warn().Msg("REDIS_URL not set — using in-memory sessions, archive and monitor disabled")
	}

	// ─── Connect to PostgreSQL (optional, archive only) ────────────────
	var historyRepo *repository.HistoryRepository
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		historyRepo = repository.NewHistoryRepository(pool)
	} else {
		log.Warn().Msg("DATABASE_URL not set — answer archive disabled")
	}

	// ─── Session Store ─────────────────────────────────────────────────
	var store session.Store
	if rdb != nil {
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
	} else {
		store = session.NewMemoryStore()
	}
	tokenManager := session.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)

	// ─── Question Generator & Imagery ──────────────────────────────────
	var gen generator.Generator
	if cfg.GeminiAPIKey != "" {
		gen = generator.NewGemini(cfg.GeminiAPIKey, log)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set — serving the fallback question bank only")
		gen = generator.NewFallback()
	}

	var images imagery.ImageFinder
	if cfg.FoursquareAPIKey != "" {
		images = imagery.NewFoursquare(cfg.FoursquareAPIKey, log)
	} else {
		log.Warn().Msg("FOURSQUARE_API_KEY not set — questions ship without images")
		images = imagery.Disabled{}
	}

	// ─── Services & Handlers ───────────────────────────────────────────
	quizService := service.NewQuizService(store, gen, images, rdb, historyRepo, log)

	handlers := &router.Handlers{
		Quiz:    handler.NewQuizHandler(quizService, log),
		Monitor: handler.NewMonitorHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if rdb != nil && historyRepo != nil {
		archiveWorker := worker.NewArchiveWorker(historyRepo, rdb, log)
		go archiveWorker.Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(tokenManager, handlers, cfg)

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

	// 2. Stop the archive worker and wait for its queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
