// Package concierge is the conversational layer: it assembles guest-aware
// prompts, calls the text-generation service, validates the result against
// resort policy and shapes the final reply.
package concierge

import (
	"fmt"
	"strings"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

const itineraryPromptTemplate = `You are the Head Concierge at %s, an ultra-luxury resort.
You are sophisticated, warm and discreet. You address the guest by name and
honor their loyalty tier without being obsequious.

GUEST PROFILE:
%s

AVAILABLE VENUES (respect the safety markers absolutely):
%s

GUEST REQUEST: %s

STRICT RULES:
1. NEVER recommend a venue marked "UNSAFE - DO NOT RECOMMEND". If the guest asked
   for something only unsafe venues satisfy, acknowledge the request and redirect
   to a safe alternative, briefly explaining why (e.g. a dietary concern).
2. Only recommend venues from the list above. Do not invent venues.
3. Schedule events in a realistic order with travel time between them.
4. Respond with ONLY a JSON object, no surrounding prose, in exactly this shape:
{
  "itinerary": {
    "events": [
      {"time": "7:00 PM", "venue_name": "...", "venue_type": "...", "duration_minutes": 90, "reason": "...", "vip_perk": "..."}
    ]
  },
  "guest_message": "A warm personal message to the guest describing the plan.",
  "logistics_notes": "Brief practical notes (reservations, dress codes, timing)."
}`

// buildItineraryPrompt renders the full generation prompt for a guest request
// and its retrieved, safety-annotated venue context.
func buildItineraryPrompt(resortName, query string, guest types.GuestProfile, venues []types.SafetyAnnotatedVenue) string {
	return fmt.Sprintf(itineraryPromptTemplate,
		resortName,
		formatGuestProfile(guest),
		formatVenueContext(venues),
		query,
	)
}

func formatGuestProfile(guest types.GuestProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Name: %s\n", guest.DisplayName())
	fmt.Fprintf(&b, "- Loyalty Tier: %s\n", guest.Tier())
	fmt.Fprintf(&b, "- Age: %d\n", guest.EffectiveAge())
	if restrictions := strings.TrimSpace(guest.DietaryRestrictions); restrictions != "" {
		fmt.Fprintf(&b, "- Dietary Restrictions: %s\n", restrictions)
	}
	if notes := strings.TrimSpace(guest.MedicalNotes); notes != "" {
		fmt.Fprintf(&b, "- Medical Notes: %s\n", notes)
	}
	if prefs := strings.TrimSpace(guest.Preferences); prefs != "" {
		fmt.Fprintf(&b, "- Preferences: %s\n", prefs)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatVenueContext renders each venue with an explicit safety marker. The
// markers are the contract with the generation prompt: an unsafe venue is
// presented, not hidden, so the model can explain redirects.
func formatVenueContext(venues []types.SafetyAnnotatedVenue) string {
	if len(venues) == 0 {
		return "(no venues matched this request)"
	}

	var b strings.Builder
	for _, v := range venues {
		marker := "✅ SAFE"
		if !v.IsSafe {
			marker = "⚠️ UNSAFE - DO NOT RECOMMEND"
		}
		fmt.Fprintf(&b, "[%s] %s (id: %s, category: %s)\n", marker, v.Name, v.ID, v.Category)
		fmt.Fprintf(&b, "  %s\n", v.Description)
		if v.SafetyNote != "" {
			fmt.Fprintf(&b, "  Safety note: %s\n", v.SafetyNote)
		}
		if len(v.DietaryOptions) > 0 {
			fmt.Fprintf(&b, "  Dietary options: %s\n", strings.Join(v.DietaryOptions, ", "))
		}
		if v.OpeningHours != "" {
			fmt.Fprintf(&b, "  Hours: %s\n", v.OpeningHours)
		}
		if v.VIPPerks != "" {
			fmt.Fprintf(&b, "  VIP perks: %s\n", v.VIPPerks)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
