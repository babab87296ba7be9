package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/config"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/handler"
	"github.com/stemsi/survey-analytics/internal/ingest"
	"github.com/stemsi/survey-analytics/internal/logger"
	"github.com/stemsi/survey-analytics/internal/middleware"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
	"github.com/stemsi/survey-analytics/internal/router"
	"github.com/stemsi/survey-analytics/internal/service"
	"github.com/stemsi/survey-analytics/internal/validator"
)

// Login attempts allowed per client IP per minute.
const loginAttemptsPerMinute = 30

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("auth_required", cfg.AuthRequired).
		Msg("Starting Survey Analytics API")

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

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	tx := database.NewTxRunner(pool, log)
	studentRepo := repository.NewStudentRepository(pool)
	departmentRepo := repository.NewLookupRepository(pool, model.KindDepartment)
	hobbyRepo := repository.NewLookupRepository(pool, model.KindHobby)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, adminRepo, rdb)
	studentService := service.NewStudentService(tx, studentRepo, departmentRepo, hobbyRepo, log)
	departmentService := service.NewLookupService(departmentRepo)
	hobbyService := service.NewLookupService(hobbyRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Students:    handler.NewStudentHandler(studentService),
		Departments: handler.NewLookupHandler(departmentService),
		Hobbies:     handler.NewLookupHandler(hobbyService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		System:      handler.NewSystemHandler(pool, ingest.NewReportStore(rdb), cfg.AuthRequired, cfg.GinMode, log),
	}

	loginLimiter := middleware.NewRateLimiter(ctx, loginAttemptsPerMinute, time.Minute)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, loginLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
