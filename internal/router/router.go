package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/almarjan-digital/resort-concierge/internal/api/concierge"
	"github.com/almarjan-digital/resort-concierge/internal/api/venue"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	ConciergeHandler       *concierge.Handler
	VenueHandler           *venue.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public catalog routes.
		r.Group(func(r chi.Router) {
			r.Get("/venues", cfg.VenueHandler.GetVenues)
			r.Get("/venues/categories", cfg.VenueHandler.GetCategories)
			r.Get("/venues/category/{category}", cfg.VenueHandler.GetVenuesByCategory)
			r.Get("/venues/{venueID}", cfg.VenueHandler.GetVenueByID)
		})

		// Concierge routes require a staff or integration token: guest
		// profiles flow through these bodies.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/concierge/itinerary", cfg.ConciergeHandler.CreateItinerary)
			r.Post("/concierge/itinerary/stream", cfg.ConciergeHandler.CreateItineraryStream)
			r.Post("/concierge/recommendations", cfg.ConciergeHandler.GetRecommendations)
			r.Post("/concierge/policy/validate", cfg.ConciergeHandler.ValidateItinerary)
		})
	})

	return r
}
