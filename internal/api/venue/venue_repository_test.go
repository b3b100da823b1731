package venue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*PostgresVenueRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresVenueRepository(mockPool, logger), mockPool
}

func venueRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "category", "description", "tags", "dietary_options",
		"allergen_warnings", "opening_hours", "average_duration_minutes",
		"price_tier", "vip_perks", "constraints",
	})
}

func TestGetAllVenues(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := newMockRepository(t)

		rows := venueRows().
			AddRow("dining_01", "Prime & Ember Steakhouse", "Fine Dining", "Dry-aged steaks.",
				[]string{"upscale"}, []string{"gluten-free"}, []string{},
				"6:00 PM - 11:30 PM", 120, "$$$$", "Private table", "Dress code").
			AddRow("spa_01", "Serenity Spa", "Spa", "Thermal suites.",
				[]string{"relaxing"}, []string{}, []string{},
				"9:00 AM - 9:00 PM", 120, "$$$", "", "")

		mockPool.ExpectQuery("SELECT(.+)FROM venues ORDER BY id").WillReturnRows(rows)

		venues, err := repo.GetAllVenues(ctx)

		require.NoError(t, err)
		require.Len(t, venues, 2)
		assert.Equal(t, "dining_01", venues[0].ID)
		assert.Equal(t, "Fine Dining", venues[0].Category)
		assert.Equal(t, []string{"upscale"}, venues[0].Tags)
		assert.Equal(t, "spa_01", venues[1].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := newMockRepository(t)
		mockPool.ExpectQuery("SELECT(.+)FROM venues ORDER BY id").
			WillReturnError(errors.New("connection refused"))

		venues, err := repo.GetAllVenues(ctx)

		assert.Error(t, err)
		assert.Nil(t, venues)
	})
}

func TestGetVenuesWithoutEmbeddings(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	rows := venueRows().
		AddRow("dining_04", "Bella Notte", "Casual Dining", "Wood-fired pizza.",
			[]string{"lively"}, []string{"vegetarian"}, []string{},
			"12:00 PM - 11:00 PM", 90, "$$", "", "")

	mockPool.ExpectQuery("SELECT(.+)FROM venues WHERE embedding IS NULL").
		WithArgs(10).
		WillReturnRows(rows)

	venues, err := repo.GetVenuesWithoutEmbeddings(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "dining_04", venues[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateVenueEmbedding(t *testing.T) {
	ctx := context.Background()
	embedding := []float32{0.1, 0.2, 0.3}

	t.Run("success", func(t *testing.T) {
		repo, mockPool := newMockRepository(t)
		mockPool.ExpectExec("UPDATE venues").
			WithArgs(pgxmock.AnyArg(), "dining_01").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateVenueEmbedding(ctx, "dining_01", embedding)

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing venue", func(t *testing.T) {
		repo, mockPool := newMockRepository(t)
		mockPool.ExpectExec("UPDATE venues").
			WithArgs(pgxmock.AnyArg(), "dining_99").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateVenueEmbedding(ctx, "dining_99", embedding)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
