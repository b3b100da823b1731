package types

// Venue categories are a fixed enumerable set matching the catalog data.
const (
	CategoryFineDining   = "Fine Dining"
	CategoryCasualDining = "Casual Dining"
	CategoryNightlife    = "Nightlife"
	CategoryShows        = "Shows"
	CategorySpa          = "Spa"
)

// Venue is a single catalog record. The catalog is read-only after load, so
// venues are shared freely across requests without copying or locking.
type Venue struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Category               string   `json:"category"`
	Description            string   `json:"description"`
	Tags                   []string `json:"tags"`
	DietaryOptions         []string `json:"dietary_options"`
	AllergenWarnings       []string `json:"allergen_warnings"`
	OpeningHours           string   `json:"opening_hours"`
	AverageDurationMinutes int      `json:"average_duration_minutes"`
	PriceTier              string   `json:"price_tier"`
	VIPPerks               string   `json:"vip_perks"`
	Constraints            string   `json:"constraints"`
}

// SafetyAnnotatedVenue overlays a per-request safety verdict and relevance
// score on a catalog venue. The overlay is recomputed on every request: the
// verdict depends on the (venue, guest) pair and must never be cached.
type SafetyAnnotatedVenue struct {
	Venue
	IsSafe         bool    `json:"is_safe"`
	SafetyNote     string  `json:"safety_note,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ScoredDocument is what the semantic index returns: a venue id plus a
// similarity score. Ids may be stale relative to the loaded catalog and are
// resolved (or discarded) by the retrieval orchestrator.
type ScoredDocument struct {
	VenueID string  `json:"venue_id"`
	Score   float64 `json:"score"`
}
