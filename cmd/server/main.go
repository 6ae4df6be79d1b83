package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/canvasshq/canvass-backend/internal/cache"
	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/database"
	"github.com/canvasshq/canvass-backend/internal/handler"
	"github.com/canvasshq/canvass-backend/internal/logger"
	"github.com/canvasshq/canvass-backend/internal/repository"
	"github.com/canvasshq/canvass-backend/internal/router"
	"github.com/canvasshq/canvass-backend/internal/service"
	"github.com/canvasshq/canvass-backend/internal/validator"
	"github.com/canvasshq/canvass-backend/internal/worker"
	ws "github.com/canvasshq/canvass-backend/internal/websocket"
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
		Msg("Starting Canvass Backend")

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
	submissionRepo := repository.NewSubmissionRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)
	sessionStore := repository.NewSessionStore(rdb, cfg.SessionTTL)
	answerQueue := repository.NewAnswerQueue(rdb)
	eventPublisher := repository.NewEventPublisher(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	sessionService := service.NewSessionService(submissionRepo, sessionStore, answerQueue, eventPublisher, log)
	analyticsService := service.NewAnalyticsService(submissionRepo, cache.New(cfg.DashboardCacheTTL), log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Survey:    handler.NewSurveyHandler(sessionService),
		Auth:      handler.NewAuthHandler(authService, operatorRepo),
		Dashboard: handler.NewDashboardHandler(analyticsService),
		WS:        handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	autosaveWorker := worker.NewAutosaveWorker(submissionRepo, rdb, log)
	go autosaveWorker.Start(workerCtx)

	// Drop cached aggregates whenever a submission completes, on any
	// instance.
	go watchCompletions(workerCtx, rdb, analyticsService, log)

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

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// watchCompletions invalidates the analytics cache when a completed
// submission event arrives on the dashboard channel.
func watchCompletions(ctx context.Context, rdb *redis.Client, analytics *service.AnalyticsService, log zerolog.Logger) {
	pubsub := rdb.Subscribe(ctx, config.CacheKey.DashboardEventsChannel())
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ws.DashboardEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("Malformed dashboard event")
				continue
			}
			if event.Event == ws.EventSubmissionCompleted || event.Event == ws.EventSubmissionStarted {
				analytics.Invalidate()
			}
		}
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
