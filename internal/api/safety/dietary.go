// Package safety evaluates venues against guest dietary restrictions.
//
// Rules come in two tiers and the asymmetry is deliberate: allergen rules are
// safety-critical hard blocks (a false negative is a health risk), while
// preference rules are loose heuristics (a false positive is merely
// inconvenient). The two live in separate tables so the allergen rules can be
// hardened and tested independently of the heuristics.
package safety

import (
	"strings"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// Verdict is the outcome of a dietary evaluation.
type Verdict struct {
	IsSafe bool
	Note   string
}

// allergenRule is a hard block: if any restriction token matches and any of
// the venue's allergen warnings contains one of the needles, the venue is
// unsafe regardless of anything else.
type allergenRule struct {
	tokens  []string
	needles []string
	note    string
}

// hardAllergenRules never get overridden by preference logic. First match wins.
var hardAllergenRules = []allergenRule{
	{
		tokens:  []string{"nut allergy", "nut"},
		needles: []string{"nut", "peanut"},
		note:    "Contains nuts - ALLERGY RISK",
	},
	{
		tokens:  []string{"shellfish allergy", "shellfish"},
		needles: []string{"shellfish"},
		note:    "Contains shellfish - ALLERGY RISK",
	},
}

// preferenceRule is a heuristic check applied only when no hard rule fired.
// The applies func inspects the venue and decides whether the preference is
// poorly served there.
type preferenceRule struct {
	tokens  []string
	applies func(v types.Venue, dietaryOptions []string) (bool, string)
}

var softPreferenceRules = []preferenceRule{
	{
		tokens: []string{"vegetarian"},
		applies: func(v types.Venue, options []string) (bool, string) {
			if contains(options, "vegetarian") || v.Category != types.CategoryFineDining {
				return false, ""
			}
			name := strings.ToLower(v.Name)
			tags := strings.ToLower(strings.Join(v.Tags, " "))
			if strings.Contains(name, "steakhouse") || strings.Contains(tags, "seafood") {
				return true, "Limited vegetarian options available"
			}
			return false, ""
		},
	},
	{
		tokens: []string{"vegan"},
		applies: func(v types.Venue, options []string) (bool, string) {
			if !contains(options, "vegan") {
				return true, "No dedicated vegan options"
			}
			return false, ""
		},
	},
	{
		tokens: []string{"gluten-free", "gluten free"},
		applies: func(v types.Venue, options []string) (bool, string) {
			for _, o := range options {
				if strings.Contains(o, "gluten") {
					return false, ""
				}
			}
			name := strings.ToLower(v.Name)
			desc := strings.ToLower(v.Description)
			if strings.Contains(name, "pizza") || strings.Contains(desc, "pasta") {
				return true, "Limited gluten-free options"
			}
			return false, ""
		},
	},
	{
		tokens: []string{"halal"},
		applies: func(v types.Venue, options []string) (bool, string) {
			if contains(options, "halal") {
				return false, ""
			}
			for _, w := range v.AllergenWarnings {
				if strings.Contains(strings.ToLower(w), "pork") {
					return true, "Not certified Halal"
				}
			}
			return false, ""
		},
	},
}

// Evaluate checks a venue against a guest's comma-separated dietary
// restriction string. Pure and deterministic: no I/O, never panics, and any
// indeterminate state resolves conservatively toward unsafe.
func Evaluate(venue types.Venue, dietaryRestrictions string) Verdict {
	if strings.TrimSpace(dietaryRestrictions) == "" ||
		strings.EqualFold(strings.TrimSpace(dietaryRestrictions), "none") {
		return Verdict{IsSafe: true}
	}

	restrictions := parseRestrictions(dietaryRestrictions)

	warnings := lowered(venue.AllergenWarnings)
	options := lowered(venue.DietaryOptions)

	// Hard allergen blocks first; first match wins.
	for _, rule := range hardAllergenRules {
		if !anyTokenPresent(restrictions, rule.tokens) {
			continue
		}
		for _, warning := range warnings {
			for _, needle := range rule.needles {
				if strings.Contains(warning, needle) {
					return Verdict{IsSafe: false, Note: rule.note}
				}
			}
		}
	}

	// Preference heuristics only after no allergen rule fired.
	for _, rule := range softPreferenceRules {
		if !anyTokenPresent(restrictions, rule.tokens) {
			continue
		}
		if blocked, note := rule.applies(venue, options); blocked {
			return Verdict{IsSafe: false, Note: note}
		}
	}

	return Verdict{IsSafe: true}
}

// parseRestrictions splits a free-text restriction string into a normalized
// token set: comma-separated, trimmed, lower-cased.
func parseRestrictions(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens[token] = true
		}
	}
	return tokens
}

func anyTokenPresent(restrictions map[string]bool, tokens []string) bool {
	for _, t := range tokens {
		if restrictions[t] {
			return true
		}
	}
	return false
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
