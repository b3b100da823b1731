package concierge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/almarjan-digital/resort-concierge/internal/api"
	"github.com/almarjan-digital/resort-concierge/internal/api/knowledge"
	"github.com/almarjan-digital/resort-concierge/internal/api/policy"
	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// Handler exposes the concierge engine over HTTP.
type Handler struct {
	conciergeService Service
	knowledgeService knowledge.Service
	validator        policy.Validator
	logger           *slog.Logger
}

func NewHandler(conciergeService Service, knowledgeService knowledge.Service, validator policy.Validator, logger *slog.Logger) *Handler {
	return &Handler{
		conciergeService: conciergeService,
		knowledgeService: knowledgeService,
		validator:        validator,
		logger:           logger,
	}
}

// ItineraryRequest is the body of POST /itinerary and its streaming variant.
type ItineraryRequest struct {
	Query        string             `json:"query"`
	GuestProfile types.GuestProfile `json:"guest_profile"`
}

// RecommendationsRequest is the body of POST /recommendations.
type RecommendationsRequest struct {
	Query          string             `json:"query"`
	GuestProfile   types.GuestProfile `json:"guest_profile"`
	K              int                `json:"k,omitempty"`
	CategoryFilter string             `json:"category_filter,omitempty"`
}

// ValidateRequest is the body of POST /policy/validate.
type ValidateRequest struct {
	ItineraryText string             `json:"itinerary_text"`
	GuestProfile  types.GuestProfile `json:"guest_profile"`
}

// CreateItinerary handles POST /itinerary.
func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ConciergeHandler").Start(r.Context(), "CreateItinerary", trace.WithAttributes(
		attribute.String("handler.method", r.Method),
	))
	defer span.End()

	var req ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.conciergeService.CreateItinerary(ctx, req.Query, req.GuestProfile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary creation failed")
		h.logger.ErrorContext(ctx, "Failed to create itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create itinerary")
		return
	}

	span.SetStatus(codes.Ok, "Itinerary created")
	api.WriteJSONResponse(w, r, http.StatusOK, reply)
}

// CreateItineraryStream handles POST /itinerary/stream as server-sent events.
func (h *Handler) CreateItineraryStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ConciergeHandler").Start(r.Context(), "CreateItineraryStream")
	defer span.End()

	var req ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		span.SetStatus(codes.Error, "Streaming unsupported")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	eventCh := make(chan types.StreamEvent, 16)
	done := make(chan error, 1)
	go func() {
		defer close(eventCh)
		done <- h.conciergeService.CreateItineraryStream(ctx, req.Query, req.GuestProfile, eventCh)
	}()

	for event := range eventCh {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.ErrorContext(ctx, "Failed to marshal stream event", slog.Any("error", err))
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
		flusher.Flush()
	}

	if err := <-done; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stream finished with error")
		h.logger.ErrorContext(ctx, "Itinerary stream failed", slog.Any("error", err))
		return
	}
	span.SetStatus(codes.Ok, "Stream completed")
}

// GetRecommendations handles POST /recommendations: raw guest-aware retrieval
// without the conversational layer.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ConciergeHandler").Start(r.Context(), "GetRecommendations")
	defer span.End()

	var req RecommendationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	venues, err := h.knowledgeService.Search(ctx, req.Query, req.GuestProfile, req.K, req.CategoryFilter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Retrieval failed")
		h.logger.ErrorContext(ctx, "Failed to retrieve recommendations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve recommendations")
		return
	}

	span.SetAttributes(attribute.Int("results.count", len(venues)))
	span.SetStatus(codes.Ok, "Recommendations retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"venues": venues,
		"count":  len(venues),
	})
}

// ValidateItinerary handles POST /policy/validate so staff tooling can check
// externally drafted itineraries against the same compliance gate.
func (h *Handler) ValidateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ConciergeHandler").Start(r.Context(), "ValidateItinerary")
	defer span.End()

	var req ValidateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	verdict := h.validator.Validate(ctx, req.ItineraryText, req.GuestProfile)
	span.SetAttributes(attribute.Bool("verdict.valid", verdict.Valid))
	span.SetStatus(codes.Ok, "Validation completed")
	api.WriteJSONResponse(w, r, http.StatusOK, verdict)
}
