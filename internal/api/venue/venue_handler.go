package venue

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/almarjan-digital/resort-concierge/internal/api"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewVenueHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetVenues handles GET /venues - returns the full catalog.
func (h *Handler) GetVenues(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenueHandler").Start(r.Context(), "GetVenues")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetVenues"))

	venues := h.service.GetVenues(ctx)

	api.WriteJSONResponse(w, r, http.StatusOK, venues)
	l.InfoContext(ctx, "Successfully returned venues", slog.Int("count", len(venues)))
	span.SetStatus(codes.Ok, "Venues returned successfully")
}

// GetVenueByID handles GET /venues/{venueID}.
func (h *Handler) GetVenueByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenueHandler").Start(r.Context(), "GetVenueByID")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetVenueByID"))

	venueID := chi.URLParam(r, "venueID")
	if venueID == "" {
		span.SetStatus(codes.Error, "Missing venue ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "venue ID is required")
		return
	}

	v, err := h.service.GetVenueByID(ctx, venueID)
	if err != nil {
		l.WarnContext(ctx, "Venue not found", slog.String("venueID", venueID))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Venue not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "venue not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, v)
	span.SetStatus(codes.Ok, "Venue returned successfully")
}

// GetVenuesByCategory handles GET /venues/category/{category}.
func (h *Handler) GetVenuesByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenueHandler").Start(r.Context(), "GetVenuesByCategory")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetVenuesByCategory"))

	category := chi.URLParam(r, "category")
	if category == "" {
		span.SetStatus(codes.Error, "Missing category")
		api.ErrorResponse(w, r, http.StatusBadRequest, "category is required")
		return
	}

	venues := h.service.GetVenuesByCategory(ctx, category)
	api.WriteJSONResponse(w, r, http.StatusOK, venues)
	l.InfoContext(ctx, "Successfully returned venues by category",
		slog.String("category", category), slog.Int("count", len(venues)))
	span.SetStatus(codes.Ok, "Venues returned successfully")
}

// GetCategories handles GET /venues/categories.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenueHandler").Start(r.Context(), "GetCategories")
	defer span.End()

	categories := h.service.GetCategories(ctx)
	api.WriteJSONResponse(w, r, http.StatusOK, categories)
	span.SetStatus(codes.Ok, "Categories returned successfully")
}
