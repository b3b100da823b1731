package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

func nuttyVenue() types.Venue {
	return types.Venue{
		ID:               "dining_05",
		Name:             "Spice Route",
		Category:         types.CategoryCasualDining,
		AllergenWarnings: []string{"peanuts", "tree nuts"},
		DietaryOptions:   []string{"vegetarian", "vegan"},
	}
}

func steakhouse() types.Venue {
	return types.Venue{
		ID:       "dining_01",
		Name:     "Prime & Ember Steakhouse",
		Category: types.CategoryFineDining,
		Tags:     []string{"upscale", "classic"},
	}
}

func TestEvaluate_NoRestrictions(t *testing.T) {
	tests := []struct {
		name         string
		restrictions string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"literal none", "none"},
		{"literal None capitalized", "None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Evaluate(nuttyVenue(), tt.restrictions)
			assert.True(t, verdict.IsSafe)
			assert.Empty(t, verdict.Note)
		})
	}
}

func TestEvaluate_NutAllergy(t *testing.T) {
	t.Run("blocks venue with nut warnings", func(t *testing.T) {
		verdict := Evaluate(nuttyVenue(), "nut allergy")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "Contains nuts - ALLERGY RISK", verdict.Note)
	})

	t.Run("bare nut token also blocks", func(t *testing.T) {
		verdict := Evaluate(nuttyVenue(), "nut")
		assert.False(t, verdict.IsSafe)
	})

	t.Run("hard block wins over satisfied preferences", func(t *testing.T) {
		// The venue serves vegetarian food; the nut warning must still block.
		verdict := Evaluate(nuttyVenue(), "vegetarian, nut allergy")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "Contains nuts - ALLERGY RISK", verdict.Note)
	})

	t.Run("does not block venues without nut warnings", func(t *testing.T) {
		verdict := Evaluate(steakhouse(), "nut allergy")
		assert.True(t, verdict.IsSafe)
	})
}

func TestEvaluate_ShellfishAllergy(t *testing.T) {
	seafood := types.Venue{
		ID:               "dining_02",
		Name:             "La Perla del Mare",
		Category:         types.CategoryFineDining,
		Tags:             []string{"romantic", "seafood"},
		AllergenWarnings: []string{"shellfish", "crustaceans"},
	}

	verdict := Evaluate(seafood, "shellfish allergy")
	assert.False(t, verdict.IsSafe)
	assert.Equal(t, "Contains shellfish - ALLERGY RISK", verdict.Note)
}

func TestEvaluate_VegetarianHeuristic(t *testing.T) {
	t.Run("flags fine dining steakhouse without vegetarian menu", func(t *testing.T) {
		verdict := Evaluate(steakhouse(), "vegetarian")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "Limited vegetarian options available", verdict.Note)
	})

	t.Run("flags fine dining seafood without vegetarian menu", func(t *testing.T) {
		seafood := types.Venue{
			ID:       "dining_02",
			Name:     "La Perla del Mare",
			Category: types.CategoryFineDining,
			Tags:     []string{"seafood"},
		}
		verdict := Evaluate(seafood, "vegetarian")
		assert.False(t, verdict.IsSafe)
	})

	t.Run("venue with vegetarian menu passes", func(t *testing.T) {
		v := steakhouse()
		v.DietaryOptions = []string{"vegetarian"}
		verdict := Evaluate(v, "vegetarian")
		assert.True(t, verdict.IsSafe)
	})

	t.Run("casual dining is not flagged", func(t *testing.T) {
		v := steakhouse()
		v.Category = types.CategoryCasualDining
		verdict := Evaluate(v, "vegetarian")
		assert.True(t, verdict.IsSafe)
	})
}

func TestEvaluate_VeganHeuristic(t *testing.T) {
	t.Run("flags venue without vegan options", func(t *testing.T) {
		verdict := Evaluate(steakhouse(), "vegan")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "No dedicated vegan options", verdict.Note)
	})

	t.Run("venue with vegan options passes", func(t *testing.T) {
		v := steakhouse()
		v.DietaryOptions = []string{"vegan"}
		verdict := Evaluate(v, "vegan")
		assert.True(t, verdict.IsSafe)
	})
}

func TestEvaluate_GlutenFreeHeuristic(t *testing.T) {
	pizzeria := types.Venue{
		ID:          "dining_04",
		Name:        "Bella Notte Pizza",
		Category:    types.CategoryCasualDining,
		Description: "Wood-fired pizza and handmade pasta.",
	}

	t.Run("flags pizza venue without gluten options", func(t *testing.T) {
		verdict := Evaluate(pizzeria, "gluten-free")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "Limited gluten-free options", verdict.Note)
	})

	t.Run("space variant of the token matches", func(t *testing.T) {
		verdict := Evaluate(pizzeria, "gluten free")
		assert.False(t, verdict.IsSafe)
	})

	t.Run("gluten-free menu passes", func(t *testing.T) {
		v := pizzeria
		v.DietaryOptions = []string{"gluten-free"}
		verdict := Evaluate(v, "gluten-free")
		assert.True(t, verdict.IsSafe)
	})
}

func TestEvaluate_HalalHeuristic(t *testing.T) {
	t.Run("flags pork-serving venue without halal certification", func(t *testing.T) {
		v := steakhouse()
		v.AllergenWarnings = []string{"pork products"}
		verdict := Evaluate(v, "halal")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "Not certified Halal", verdict.Note)
	})

	t.Run("certified venue passes", func(t *testing.T) {
		v := steakhouse()
		v.AllergenWarnings = []string{"pork products"}
		v.DietaryOptions = []string{"halal"}
		verdict := Evaluate(v, "halal")
		assert.True(t, verdict.IsSafe)
	})

	t.Run("no pork signal passes", func(t *testing.T) {
		verdict := Evaluate(steakhouse(), "halal")
		assert.True(t, verdict.IsSafe)
	})
}

func TestEvaluate_RestrictionParsing(t *testing.T) {
	t.Run("comma separated with irregular spacing", func(t *testing.T) {
		verdict := Evaluate(nuttyVenue(), "  Vegetarian ,NUT ALLERGY , ")
		assert.False(t, verdict.IsSafe)
		assert.Equal(t, "Contains nuts - ALLERGY RISK", verdict.Note)
	})

	t.Run("unknown restriction tokens are ignored", func(t *testing.T) {
		verdict := Evaluate(nuttyVenue(), "keto, paleo")
		assert.True(t, verdict.IsSafe)
	})
}

func TestEvaluate_Deterministic(t *testing.T) {
	first := Evaluate(steakhouse(), "vegetarian")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(steakhouse(), "vegetarian"))
	}
}
