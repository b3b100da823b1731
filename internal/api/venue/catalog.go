package venue

import (
	"context"
	"fmt"
	"sort"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// Catalog is the in-process snapshot of the venue table, loaded once at
// startup. It is immutable after construction, so concurrent readers need no
// locking. Venue ids are unique for the catalog's lifetime.
type Catalog struct {
	venues []types.Venue
	byID   map[string]types.Venue
}

// LoadCatalog reads the full venue set from storage and builds the snapshot.
// An empty or unreadable catalog is a configuration error: callers must treat
// it as fatal at initialization rather than serving with no data.
func LoadCatalog(ctx context.Context, repo Repository) (*Catalog, error) {
	venues, err := repo.GetAllVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load venue catalog: %w", err)
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("venue catalog is empty; refusing to start without data")
	}
	return NewCatalog(venues)
}

// NewCatalog builds a snapshot from an explicit venue list, validating id
// uniqueness at the ingestion boundary.
func NewCatalog(venues []types.Venue) (*Catalog, error) {
	byID := make(map[string]types.Venue, len(venues))
	for _, v := range venues {
		if v.ID == "" {
			return nil, fmt.Errorf("venue %q has an empty id", v.Name)
		}
		if _, exists := byID[v.ID]; exists {
			return nil, fmt.Errorf("duplicate venue id %q in catalog", v.ID)
		}
		byID[v.ID] = v
	}
	snapshot := make([]types.Venue, len(venues))
	copy(snapshot, venues)
	return &Catalog{venues: snapshot, byID: byID}, nil
}

// All returns every venue in load order.
func (c *Catalog) All() []types.Venue {
	out := make([]types.Venue, len(c.venues))
	copy(out, c.venues)
	return out
}

// ByID resolves a venue id, reporting whether it exists in the snapshot.
func (c *Catalog) ByID(id string) (types.Venue, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// ByCategory returns all venues whose category matches exactly
// (case-sensitive), in load order.
func (c *Catalog) ByCategory(category string) []types.Venue {
	var out []types.Venue
	for _, v := range c.venues {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out
}

// Categories returns the distinct categories present, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range c.venues {
		if !seen[v.Category] {
			seen[v.Category] = true
			out = append(out, v.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Len reports the number of venues in the snapshot.
func (c *Catalog) Len() int {
	return len(c.venues)
}
