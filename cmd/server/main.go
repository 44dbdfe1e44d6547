package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lukajvnic/Avocado/internal/cache"
	"github.com/lukajvnic/Avocado/internal/config"
	"github.com/lukajvnic/Avocado/internal/db"
	"github.com/lukajvnic/Avocado/internal/handler"
	"github.com/lukajvnic/Avocado/internal/llm"
	"github.com/lukajvnic/Avocado/internal/middleware"
	"github.com/lukajvnic/Avocado/internal/repository"
	"github.com/lukajvnic/Avocado/internal/router"
	"github.com/lukajvnic/Avocado/internal/service"
	"github.com/lukajvnic/Avocado/internal/supadata"
	"github.com/lukajvnic/Avocado/pkg/tiktokurl"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "avocado")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres is optional: without it, checks still run but history is
	// not persisted.
	var pool *pgxpool.Pool
	var checkRepo *repository.CheckRepo
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		checkRepo = repository.NewCheckRepo(pool)
	} else {
		log.Info().Msg("no database configured, check history disabled")
	}

	results := service.NewResultCache(cfg.RedisURL, cfg.ResultCacheTTL, log)
	defer results.Close()

	fingerprints := cache.New(cfg.CacheMaxSize, cfg.CacheTTL)

	supadataClient, err := supadata.NewClient(supadata.Config{
		BaseURL:        cfg.SupadataBaseURL,
		MetadataPath:   cfg.SupadataMetadataEndpoint,
		TranscriptPath: cfg.SupadataTranscriptEndpoint,
		APIKey:         cfg.SupadataAPIKey,
		Timeout:        cfg.RequestTimeout,
		Retry: supadata.RetryPolicy{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
			Multiplier:   cfg.RetryBackoff,
		},
	}, fingerprints, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Supadata client")
	}

	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.GeminiBaseURL,
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.GeminiTemp,
		MaxTokens:   cfg.GeminiMaxTokens,
		Timeout:     cfg.RequestTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create LLM client")
	}

	scraper := service.NewScrapeService(tiktokurl.NewResolver(cfg.RequestTimeout), supadataClient, log)
	checker := service.NewFactCheckService(llmClient, log)

	handler.InitMetrics(pool)

	app := fiber.New(fiber.Config{
		AppName:      "Avocado API",
		ServerHeader: "Avocado",
	})

	router.Setup(app, &router.Handlers{
		Check:   handler.NewCheckHandler(scraper, checker, results, checkRepo, cfg.CheckTimeout, log),
		History: handler.NewHistoryHandler(checkRepo, log),
		Stats:   handler.NewStatsHandler(checkRepo, log),
		Health:  handler.NewHealthHandler(pool, results.Client()),
	}, cfg.CORSOrigins)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	stop()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server shut down gracefully")
}
