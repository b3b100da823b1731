package venue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// DBPool is the subset of pgxpool.Pool the repository needs. Both
// *pgxpool.Pool and pgxmock pools satisfy it.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*PostgresVenueRepository)(nil)

// Repository is the read accessor over venue storage plus the embedding
// maintenance operations used by the backfill script.
type Repository interface {
	GetAllVenues(ctx context.Context) ([]types.Venue, error)
	GetVenuesWithoutEmbeddings(ctx context.Context, limit int) ([]types.Venue, error)
	UpdateVenueEmbedding(ctx context.Context, venueID string, embedding []float32) error
}

type PostgresVenueRepository struct {
	logger *slog.Logger
	pgpool DBPool
}

func NewPostgresVenueRepository(pgpool DBPool, logger *slog.Logger) *PostgresVenueRepository {
	return &PostgresVenueRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

const venueColumns = `
        id, name, category, description, tags, dietary_options,
        allergen_warnings, opening_hours, average_duration_minutes,
        price_tier, vip_perks, constraints
`

// GetAllVenues returns the full catalog in stable id order. A failure here is
// fatal at startup: the service must not come up with an empty catalog.
func (r *PostgresVenueRepository) GetAllVenues(ctx context.Context) ([]types.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY id`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	venues, err := scanVenues(rows)
	if err != nil {
		return nil, err
	}
	r.logger.DebugContext(ctx, "Loaded venues from storage", slog.Int("count", len(venues)))
	return venues, nil
}

// GetVenuesWithoutEmbeddings returns a batch of venues whose embedding column
// is still NULL, for the backfill script.
func (r *PostgresVenueRepository) GetVenuesWithoutEmbeddings(ctx context.Context, limit int) ([]types.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE embedding IS NULL ORDER BY id LIMIT $1`

	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues without embeddings: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

// UpdateVenueEmbedding stores the embedding vector for a venue.
func (r *PostgresVenueRepository) UpdateVenueEmbedding(ctx context.Context, venueID string, embedding []float32) error {
	query := `
        UPDATE venues
        SET embedding = $1, embedding_generated_at = NOW()
        WHERE id = $2
    `
	tag, err := r.pgpool.Exec(ctx, query, pgvector.NewVector(embedding), venueID)
	if err != nil {
		return fmt.Errorf("failed to update venue embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("venue %s not found", venueID)
	}
	return nil
}

func scanVenues(rows pgx.Rows) ([]types.Venue, error) {
	var venues []types.Venue
	for rows.Next() {
		var v types.Venue
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Category, &v.Description, &v.Tags, &v.DietaryOptions,
			&v.AllergenWarnings, &v.OpeningHours, &v.AverageDurationMinutes,
			&v.PriceTier, &v.VIPPerks, &v.Constraints,
		); err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("venue rows iteration failed: %w", err)
	}
	return venues, nil
}
