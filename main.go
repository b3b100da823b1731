package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/almarjan-digital/resort-concierge/app/db"
	appLogger "github.com/almarjan-digital/resort-concierge/app/logger"
	appMiddleware "github.com/almarjan-digital/resort-concierge/app/middleware"
	"github.com/almarjan-digital/resort-concierge/app/observability/metrics"
	"github.com/almarjan-digital/resort-concierge/app/tracer"
	"github.com/almarjan-digital/resort-concierge/config"
	"github.com/almarjan-digital/resort-concierge/internal/api/concierge"
	"github.com/almarjan-digital/resort-concierge/internal/api/generative_ai"
	"github.com/almarjan-digital/resort-concierge/internal/api/knowledge"
	"github.com/almarjan-digital/resort-concierge/internal/api/policy"
	"github.com/almarjan-digital/resort-concierge/internal/api/venue"
	api "github.com/almarjan-digital/resort-concierge/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, cfg.Repositories.Postgres.MAXCONWAITINGTIME, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	venueRepo := venue.NewPostgresVenueRepository(pool, logger)

	// The catalog is loaded once at startup; an empty catalog is fatal.
	catalog, err := venue.LoadCatalog(ctx, venueRepo)
	if err != nil {
		logger.Error("Failed to load venue catalog", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Venue catalog loaded", slog.Int("venues", catalog.Len()))

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Concierge.Model)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		os.Exit(1)
	}

	embeddingService, err := generativeAI.NewEmbeddingService(ctx, cfg.Concierge.EmbeddingModel, logger)
	if err != nil {
		logger.Error("Failed to create embedding service", slog.Any("error", err))
		os.Exit(1)
	}

	semanticIndex := knowledge.NewPGVectorIndex(pool, embeddingService, logger)
	knowledgeService := knowledge.NewServiceImpl(catalog, semanticIndex, cfg.Concierge.Retrieval, logger)
	policyValidator := policy.NewValidator(logger)
	textGenerator := concierge.NewGeminiTextGenerator(aiClient, cfg.Concierge)
	conciergeService := concierge.NewServiceImpl(
		knowledgeService, policyValidator, textGenerator, catalog,
		cfg.Concierge, metrics.Get(), logger,
	)

	venueHandler := venue.NewVenueHandler(venue.NewServiceImpl(catalog, logger), logger)
	conciergeHandler := concierge.NewHandler(conciergeService, knowledgeService, policyValidator, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		ConciergeHandler:       conciergeHandler,
		VenueHandler:           venueHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate,
	}
	mainRouter := api.SetupRouter(routerConfig)

	// Generation and SSE responses are slow, so the request timeout is a
	// config knob rather than a constant.
	requestTimeout := cfg.Server.Timeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "Root endpoint hit")
		w.Write([]byte("Welcome to the Resort Concierge API"))
	})

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: requestTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
