package types

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryEvent is one scheduled stop in a generated evening plan.
type ItineraryEvent struct {
	Time            string `json:"time"`
	VenueName       string `json:"venue_name"`
	VenueType       string `json:"venue_type"`
	DurationMinutes int    `json:"duration_minutes"`
	Reason          string `json:"reason"`
	VIPPerk         string `json:"vip_perk,omitempty"`
}

// Itinerary is the structured portion of the generation-service output.
type Itinerary struct {
	Events []ItineraryEvent `json:"events"`
}

// ItineraryResponse is the JSON contract the generation service is asked to
// honor. GuestMessage is the only field the guest ever sees; the structured
// events exist for downstream system integration.
type ItineraryResponse struct {
	Itinerary      Itinerary `json:"itinerary"`
	GuestMessage   string    `json:"guest_message"`
	LogisticsNotes string    `json:"logistics_notes,omitempty"`
}

// ConciergeReply is what the caller-facing entry point returns.
type ConciergeReply struct {
	InteractionID uuid.UUID              `json:"interaction_id"`
	Message       string                 `json:"message"`
	Venues        []SafetyAnnotatedVenue `json:"venues,omitempty"`
	Verdict       *PolicyVerdict         `json:"verdict,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Stream event types emitted by the streaming itinerary path.
const (
	EventTypeStart    = "start"
	EventTypeChunk    = "chunk"
	EventTypeComplete = "complete"
	EventTypeError    = "error"
)

// StreamEvent is one server-sent event in a streamed response.
type StreamEvent struct {
	Type      string    `json:"type"`
	Data      string    `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}
