package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/database"
	"github.com/aptivohq/aptivo-backend/internal/handler"
	"github.com/aptivohq/aptivo-backend/internal/logger"
	"github.com/aptivohq/aptivo-backend/internal/repository"
	"github.com/aptivohq/aptivo-backend/internal/router"
	"github.com/aptivohq/aptivo-backend/internal/service"
	"github.com/aptivohq/aptivo-backend/internal/validator"
	"github.com/aptivohq/aptivo-backend/internal/worker"
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
		Msg("Starting Aptivo Backend")

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
	attemptRepo := repository.NewAttemptRepository(pool)
	sessionRepo := repository.NewAttemptSessionRepository(pool)
	itemRepo := repository.NewAttemptItemRepository(pool)
	answerRepo := repository.NewAttemptAnswerRepository(pool)
	timerRepo := repository.NewAttemptTimerRepository(pool)
	telemetryRepo := repository.NewTelemetryRepository(pool)
	scoreRepo := repository.NewScoreRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)
	versionRepo := repository.NewExamVersionRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, sessionRepo)
	auditService := service.NewAuditService(rdb)
	examService := service.NewExamService(pool, rdb, versionRepo, auditService)
	ticketService := service.NewTicketService(pool, ticketRepo, candidateRepo, versionRepo, authService, auditService)
	attemptService := service.NewAttemptService(
		pool, attemptRepo, sessionRepo, itemRepo, answerRepo, timerRepo,
		scoreRepo, ticketRepo, examService, authService, auditService,
	)
	takeoverService := service.NewTakeoverService(pool, rdb, attemptRepo, sessionRepo, attemptService, authService, auditService)
	answerService := service.NewAnswerService(pool, rdb, attemptRepo, itemRepo, answerRepo)
	timerService := service.NewTimerService(pool, rdb, attemptRepo, timerRepo)
	telemetryService := service.NewTelemetryService(pool, rdb, attemptRepo, itemRepo, telemetryRepo)
	staffService := service.NewStaffService(pool, staffRepo, authService)
	dashboardService := service.NewDashboardService(pool, dashboardRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(staffService),
		Attempt:   handler.NewAttemptHandler(attemptService, answerService, timerService, telemetryService),
		Proctor:   handler.NewProctorHandler(attemptService, takeoverService, telemetryService),
		Exam:      handler.NewExamHandler(examService),
		Ticket:    handler.NewTicketHandler(ticketService),
		StaffUser: handler.NewStaffUserHandler(staffService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		WS:        handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	metricWorker := worker.NewMetricWorker(pool, rdb, telemetryRepo, log)
	auditWorker := worker.NewAuditWorker(pool, rdb, auditRepo, log)

	go metricWorker.Start(workerCtx)
	go auditWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published exam definitions into Redis BEFORE accepting
	// traffic, so a room full of candidates starting at once never
	// stampedes the authoring tables.
	if err := examService.PrewarmAllCaches(ctx); err != nil {
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

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
