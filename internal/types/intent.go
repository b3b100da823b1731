package types

// Intent is the coarse category/vibe signal extracted from a free-text query
// by keyword matching. It is a cheap pre-filter for retrieval, not language
// understanding; the LLM downstream does the real interpretation.
type Intent struct {
	Categories []string `json:"categories"`
	Vibes      []string `json:"vibes"`
}

// HasCategories reports whether any category keyword matched.
func (i Intent) HasCategories() bool {
	return len(i.Categories) > 0
}
