// Package intent extracts coarse category and vibe signals from free-text
// guest queries. This is intentionally cheap substring matching against
// static tables, not language understanding: paraphrases and synonyms outside
// the tables are missed, and the downstream LLM is what actually interprets
// the request.
package intent

import (
	"strings"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// categoryKeywords maps venue categories to the query keywords that imply
// them. Order matters only for output stability.
var categoryKeywords = []struct {
	categories []string
	keywords   []string
}{
	{
		categories: []string{types.CategoryFineDining, types.CategoryCasualDining},
		keywords:   []string{"dinner", "dine", "eat", "restaurant", "food"},
	},
	{
		categories: []string{types.CategoryNightlife},
		keywords:   []string{"club", "dance", "party", "nightlife", "drinks", "bar"},
	},
	{
		categories: []string{types.CategoryShows},
		keywords:   []string{"show", "entertainment", "theater", "performance"},
	},
	{
		categories: []string{types.CategorySpa},
		keywords:   []string{"spa", "massage", "relax", "wellness"},
	},
}

var vibeKeywords = []struct {
	vibe     string
	keywords []string
}{
	{vibe: "romantic", keywords: []string{"romantic", "intimate", "quiet", "date"}},
	{vibe: "energetic", keywords: []string{"energetic", "lively", "fun", "exciting", "wild"}},
	{vibe: "sophisticated", keywords: []string{"sophisticated", "elegant", "upscale", "fancy"}},
}

// Extract returns the categories and vibes whose keywords appear in the
// query. Case-insensitive, pure, no external calls.
func Extract(query string) types.Intent {
	q := strings.ToLower(query)

	result := types.Intent{}
	for _, entry := range categoryKeywords {
		if anyKeyword(q, entry.keywords) {
			result.Categories = append(result.Categories, entry.categories...)
		}
	}
	for _, entry := range vibeKeywords {
		if anyKeyword(q, entry.keywords) {
			result.Vibes = append(result.Vibes, entry.vibe)
		}
	}
	return result
}

func anyKeyword(query string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}
