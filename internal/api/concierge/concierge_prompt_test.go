package concierge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

func annotatedVenues() []types.SafetyAnnotatedVenue {
	return []types.SafetyAnnotatedVenue{
		{
			Venue: types.Venue{
				ID: "dining_03", Name: "Verdura", Category: types.CategoryFineDining,
				Description:    "Plant-forward tasting menus.",
				DietaryOptions: []string{"vegetarian", "vegan"},
				OpeningHours:   "6:00 PM - 11:00 PM",
			},
			IsSafe:         true,
			RelevanceScore: 0.9,
		},
		{
			Venue: types.Venue{
				ID: "dining_01", Name: "Prime & Ember Steakhouse", Category: types.CategoryFineDining,
				Description: "Dry-aged steakhouse.",
			},
			IsSafe:         false,
			SafetyNote:     "Limited vegetarian options available",
			RelevanceScore: 0.95,
		},
	}
}

func TestBuildItineraryPrompt(t *testing.T) {
	guest := types.GuestProfile{
		Name:                "Aisha",
		LoyaltyTier:         types.TierBlack,
		DietaryRestrictions: "vegetarian",
		Age:                 34,
		Preferences:         "quiet settings",
	}

	prompt := buildItineraryPrompt("Wynn Al Marjan Island", "a romantic dinner", guest, annotatedVenues())

	t.Run("carries resort and guest identity", func(t *testing.T) {
		assert.Contains(t, prompt, "Wynn Al Marjan Island")
		assert.Contains(t, prompt, "Name: Aisha")
		assert.Contains(t, prompt, "Loyalty Tier: Black")
		assert.Contains(t, prompt, "Dietary Restrictions: vegetarian")
		assert.Contains(t, prompt, "Preferences: quiet settings")
	})

	t.Run("carries the guest request", func(t *testing.T) {
		assert.Contains(t, prompt, "GUEST REQUEST: a romantic dinner")
	})

	t.Run("marks safe and unsafe venues explicitly", func(t *testing.T) {
		assert.Contains(t, prompt, "✅ SAFE] Verdura")
		assert.Contains(t, prompt, "⚠️ UNSAFE - DO NOT RECOMMEND] Prime & Ember Steakhouse")
		assert.Contains(t, prompt, "Safety note: Limited vegetarian options available")
	})

	t.Run("demands pure JSON output", func(t *testing.T) {
		assert.Contains(t, prompt, "ONLY a JSON object")
		assert.Contains(t, prompt, `"guest_message"`)
	})
}

func TestBuildItineraryPrompt_OmitsEmptyProfileFields(t *testing.T) {
	guest := types.GuestProfile{Name: "Ben"}

	prompt := buildItineraryPrompt("Wynn Al Marjan Island", "dinner", guest, nil)

	assert.NotContains(t, prompt, "Medical Notes:")
	assert.NotContains(t, prompt, "Dietary Restrictions:")
	assert.Contains(t, prompt, "(no venues matched this request)")
	// Defaults still render.
	assert.Contains(t, prompt, "Loyalty Tier: Platinum")
	assert.Contains(t, prompt, "Age: 25")
}

func TestFormatVenueContext_SafeFirstOrderPreserved(t *testing.T) {
	context := formatVenueContext(annotatedVenues())

	safeIdx := strings.Index(context, "Verdura")
	unsafeIdx := strings.Index(context, "Prime & Ember")
	assert.Less(t, safeIdx, unsafeIdx, "rendering must preserve the given order")
}
