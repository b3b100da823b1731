// Command generate_embeddings backfills the embedding column for venues that
// do not have one yet. Run it after seeding new venues; the semantic index
// only sees venues with embeddings.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	database "github.com/almarjan-digital/resort-concierge/app/db"
	"github.com/almarjan-digital/resort-concierge/config"
	"github.com/almarjan-digital/resort-concierge/internal/api/generative_ai"
	"github.com/almarjan-digital/resort-concierge/internal/api/venue"
)

const (
	batchSize      = 20
	maxConcurrency = 4
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))

	ctx := context.Background()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	embeddingService, err := generativeAI.NewEmbeddingService(ctx, cfg.Concierge.EmbeddingModel, logger)
	if err != nil {
		logger.Error("Failed to create embedding service", slog.Any("error", err))
		os.Exit(1)
	}

	repo := venue.NewPostgresVenueRepository(pool, logger)

	var processed int
	for {
		batch, err := repo.GetVenuesWithoutEmbeddings(ctx, batchSize)
		if err != nil {
			logger.Error("Failed to fetch venues without embeddings", slog.Any("error", err))
			os.Exit(1)
		}
		if len(batch) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrency)
		for _, v := range batch {
			g.Go(func() error {
				embedding, err := embeddingService.GenerateVenueEmbedding(
					gctx, v.Name, v.Category, v.Description, v.Tags, v.DietaryOptions,
				)
				if err != nil {
					return err
				}
				if err := repo.UpdateVenueEmbedding(gctx, v.ID, embedding); err != nil {
					return err
				}
				logger.Info("Embedded venue", slog.String("venue_id", v.ID), slog.String("name", v.Name))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			logger.Error("Embedding batch failed", slog.Any("error", err))
			os.Exit(1)
		}
		processed += len(batch)
	}

	logger.Info("Embedding backfill complete", slog.Int("venues_processed", processed))
}
