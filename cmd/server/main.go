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
	"github.com/skillforge/skillforge-backend/internal/config"
	"github.com/skillforge/skillforge-backend/internal/database"
	"github.com/skillforge/skillforge-backend/internal/handler"
	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/provider"
	"github.com/skillforge/skillforge-backend/internal/quality"
	"github.com/skillforge/skillforge-backend/internal/repository"
	"github.com/skillforge/skillforge-backend/internal/router"
	"github.com/skillforge/skillforge-backend/internal/service"
	"github.com/skillforge/skillforge-backend/internal/staticbank"
	"github.com/skillforge/skillforge-backend/internal/validator"
	"github.com/skillforge/skillforge-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Bool("ai_enabled", cfg.AIEnabled).
		Msg("Starting SkillForge Backend")

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

	// ─── Build the AI Provider Pool ────────────────────────────────────
	// Zero configured providers is a deployment mistake when AI is
	// enabled: fail fast instead of degrading silently.
	var orchestrator *provider.Orchestrator
	if cfg.AIEnabled {
		registry, err := provider.NewRegistry(cfg.ProviderPriority, cfg.ProviderTimeout, log)
		if err != nil {
			if errors.Is(err, provider.ErrNoProviders) {
				log.Fatal().Msg("AI is enabled but no provider has an API key; set a key or AI_ENABLED=false")
			}
			log.Fatal().Err(err).Msg("Failed to build provider registry")
		}
		orchestrator = provider.NewOrchestrator(registry, log)
		log.Info().Strs("providers", orchestrator.Providers()).Msg("AI provider pool ready")
	}

	// ─── Load the Static Question Bank ─────────────────────────────────
	bank, err := staticbank.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load static question bank")
	}
	log.Info().Strs("skills", bank.Skills()).Msg("Static question bank loaded")

	// ─── Initialize Repositories / Services / Handlers ────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	contentValidator := quality.NewValidator()

	var generator service.Generator
	if orchestrator != nil {
		generator = orchestrator
	}
	generationService := service.NewGenerationService(generator, contentValidator, questionRepo, bank, rdb, log)
	bankService := service.NewQuestionBankService(questionRepo, contentValidator, rdb, log)
	scorecardService := service.NewScorecardService()

	handlers := &router.Handlers{
		Question:  handler.NewQuestionHandler(generationService, bankService, cfg.AIEnabled, log),
		Analysis:  handler.NewAnalysisHandler(generationService, log),
		Scorecard: handler.NewScorecardHandler(scorecardService),
		Admin:     handler.NewAdminHandler(bankService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	persistWorker := worker.NewPersistWorker(questionRepo, rdb, log)
	usageWorker := worker.NewUsageWorker(pool, rdb, log)

	go persistWorker.Start(workerCtx)
	go usageWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

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
