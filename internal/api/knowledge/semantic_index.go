package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/almarjan-digital/resort-concierge/internal/api/venue"
	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// SemanticIndex is the external similarity-search capability the retrieval
// orchestrator consumes. Implementations may return ids that no longer exist
// in the loaded catalog; the orchestrator discards those.
type SemanticIndex interface {
	SimilaritySearch(ctx context.Context, query string, topN int) ([]types.ScoredDocument, error)
}

// QueryEmbedder turns a query string into an embedding vector.
type QueryEmbedder interface {
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)
}

var _ SemanticIndex = (*PGVectorIndex)(nil)

// PGVectorIndex runs cosine similarity search over the embedding column of
// the venues table.
type PGVectorIndex struct {
	logger   *slog.Logger
	pgpool   venue.DBPool
	embedder QueryEmbedder
}

func NewPGVectorIndex(pgpool venue.DBPool, embedder QueryEmbedder, logger *slog.Logger) *PGVectorIndex {
	return &PGVectorIndex{
		logger:   logger,
		pgpool:   pgpool,
		embedder: embedder,
	}
}

// SimilaritySearch embeds the query and returns the topN nearest venue ids by
// cosine similarity, best first. Venues without embeddings are invisible to
// the index until the backfill script processes them.
func (idx *PGVectorIndex) SimilaritySearch(ctx context.Context, query string, topN int) ([]types.ScoredDocument, error) {
	ctx, span := otel.Tracer("SemanticIndex").Start(ctx, "SimilaritySearch", trace.WithAttributes(
		attribute.Int("top_n", topN),
	))
	defer span.End()

	queryEmbedding, err := idx.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to embed query")
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	sql := `
        SELECT id, 1 - (embedding <=> $1) AS similarity_score
        FROM venues
        WHERE embedding IS NOT NULL
        ORDER BY embedding <=> $1
        LIMIT $2
    `
	rows, err := idx.pgpool.Query(ctx, sql, pgvector.NewVector(queryEmbedding), topN)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Similarity query failed")
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	defer rows.Close()

	var docs []types.ScoredDocument
	for rows.Next() {
		var doc types.ScoredDocument
		if err := rows.Scan(&doc.VenueID, &doc.Score); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to scan similarity row")
			return nil, fmt.Errorf("failed to scan similarity row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("similarity rows iteration failed: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(docs)))
	span.SetStatus(codes.Ok, "Similarity search completed")
	return docs, nil
}
