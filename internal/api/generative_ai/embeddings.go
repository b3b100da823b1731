package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// EmbeddingService generates text embeddings for venue documents and guest
// queries. Query embeddings are memoized briefly: identical queries inside the
// cache window hit the same vector without a network round trip. Venue safety
// is never cached here or anywhere else; only the query-to-vector mapping is.
type EmbeddingService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
	cache  *cache.Cache
}

func NewEmbeddingService(ctx context.Context, model string, logger *slog.Logger) (*EmbeddingService, error) {
	ctx, span := otel.Tracer("EmbeddingService").Start(ctx, "NewEmbeddingService")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	span.SetStatus(codes.Ok, "Embedding service created successfully")
	return &EmbeddingService{
		client: client,
		model:  model,
		logger: logger,
		cache:  cache.New(15*time.Minute, 30*time.Minute),
	}, nil
}

// GenerateQueryEmbedding embeds a guest search query.
func (s *EmbeddingService) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if cached, found := s.cache.Get(query); found {
		return cached.([]float32), nil
	}

	embedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache.Set(query, embedding, cache.DefaultExpiration)
	return embedding, nil
}

// GenerateVenueEmbedding embeds the rich text representation of a venue, the
// same rendering the semantic index was built from.
func (s *EmbeddingService) GenerateVenueEmbedding(ctx context.Context, name, category, description string, tags, dietaryOptions []string) ([]float32, error) {
	content := fmt.Sprintf(
		"Venue: %s\nCategory: %s\nDescription: %s\nAmbiance: %s\nDietary Options: %s",
		name, category, description, strings.Join(tags, ", "), strings.Join(dietaryOptions, ", "),
	)
	return s.embed(ctx, content)
}

func (s *EmbeddingService) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := otel.Tracer("EmbeddingService").Start(ctx, "embed", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
		attribute.String("model", s.model),
	))
	defer span.End()

	result, err := s.client.Models.EmbedContent(ctx, s.model, genai.Text(text), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to embed content")
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		err := fmt.Errorf("embedding response contained no values")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty embedding response")
		return nil, err
	}

	values := result.Embeddings[0].Values
	span.SetAttributes(attribute.Int("embedding.dimensions", len(values)))
	span.SetStatus(codes.Ok, "Content embedded successfully")
	return values, nil
}
