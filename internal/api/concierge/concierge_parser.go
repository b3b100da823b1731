package concierge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// ErrMalformedItinerary marks a generation response that could not be parsed
// into the itinerary contract. Callers treat it as recoverable and fall back
// to a clarification message instead of failing the request.
var ErrMalformedItinerary = errors.New("malformed itinerary response")

// cleanJSONResponse removes markdown code fences that generation models love
// to wrap JSON in, plus any prose before the first brace.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	// Some responses still lead with prose; cut to the outermost JSON object.
	if start := strings.Index(cleaned, "{"); start > 0 {
		cleaned = cleaned[start:]
	}
	if end := strings.LastIndex(cleaned, "}"); end >= 0 && end < len(cleaned)-1 {
		cleaned = cleaned[:end+1]
	}
	return cleaned
}

// parseItineraryResponse extracts the structured itinerary from a raw
// generation response. A response without a guest_message is malformed even
// if it is valid JSON; the guest-facing message is the one mandatory field.
func parseItineraryResponse(raw string) (*types.ItineraryResponse, error) {
	cleaned := cleanJSONResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedItinerary)
	}

	var parsed types.ItineraryResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedItinerary, err)
	}
	if strings.TrimSpace(parsed.GuestMessage) == "" {
		return nil, fmt.Errorf("%w: missing guest_message", ErrMalformedItinerary)
	}
	return &parsed, nil
}
