package venue

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes read access over the loaded catalog.
type Service interface {
	GetVenues(ctx context.Context) []types.Venue
	GetVenueByID(ctx context.Context, id string) (*types.Venue, error)
	GetVenuesByCategory(ctx context.Context, category string) []types.Venue
	GetCategories(ctx context.Context) []string
}

type ServiceImpl struct {
	logger  *slog.Logger
	catalog *Catalog
}

func NewServiceImpl(catalog *Catalog, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		catalog: catalog,
	}
}

func (s *ServiceImpl) GetVenues(ctx context.Context) []types.Venue {
	_, span := otel.Tracer("VenueService").Start(ctx, "GetVenues")
	defer span.End()

	venues := s.catalog.All()
	span.SetAttributes(attribute.Int("venues.count", len(venues)))
	return venues
}

func (s *ServiceImpl) GetVenueByID(ctx context.Context, id string) (*types.Venue, error) {
	_, span := otel.Tracer("VenueService").Start(ctx, "GetVenueByID", trace.WithAttributes(
		attribute.String("venue.id", id),
	))
	defer span.End()

	v, ok := s.catalog.ByID(id)
	if !ok {
		err := fmt.Errorf("venue %s not found", id)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Venue not found")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Venue found")
	return &v, nil
}

func (s *ServiceImpl) GetVenuesByCategory(ctx context.Context, category string) []types.Venue {
	_, span := otel.Tracer("VenueService").Start(ctx, "GetVenuesByCategory", trace.WithAttributes(
		attribute.String("venue.category", category),
	))
	defer span.End()

	venues := s.catalog.ByCategory(category)
	span.SetAttributes(attribute.Int("venues.count", len(venues)))
	return venues
}

func (s *ServiceImpl) GetCategories(ctx context.Context) []string {
	_, span := otel.Tracer("VenueService").Start(ctx, "GetCategories")
	defer span.End()

	return s.catalog.Categories()
}
