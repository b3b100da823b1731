// Package knowledge is the retrieval orchestrator: it joins the semantic
// index, the venue catalog, intent extraction and the dietary evaluator into
// a single guest-aware search over resort venues.
package knowledge

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/almarjan-digital/resort-concierge/config"
	"github.com/almarjan-digital/resort-concierge/internal/api/intent"
	"github.com/almarjan-digital/resort-concierge/internal/api/safety"
	"github.com/almarjan-digital/resort-concierge/internal/api/venue"
	"github.com/almarjan-digital/resort-concierge/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the guest-aware retrieval contract consumed by the concierge.
type Service interface {
	Search(ctx context.Context, query string, guest types.GuestProfile, k int, categoryFilter string) ([]types.SafetyAnnotatedVenue, error)
}

// ServiceImpl orchestrates retrieval. It holds no per-request state: the
// catalog is an immutable snapshot, the index is the only blocking
// dependency, and safety overlays are recomputed for every call because they
// depend on the (venue, guest) pair.
type ServiceImpl struct {
	logger  *slog.Logger
	catalog *venue.Catalog
	index   SemanticIndex
	cfg     config.RetrievalConfig
}

func NewServiceImpl(catalog *venue.Catalog, index SemanticIndex, cfg config.RetrievalConfig, logger *slog.Logger) *ServiceImpl {
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 5
	}
	if cfg.CandidateMultiplier <= 0 {
		cfg.CandidateMultiplier = 2
	}
	return &ServiceImpl{
		logger:  logger,
		catalog: catalog,
		index:   index,
		cfg:     cfg,
	}
}

// Search returns up to k venues relevant to the query, each annotated with a
// per-guest safety verdict. Safe venues always rank ahead of unsafe ones;
// within a safety class, higher relevance wins. Unsafe venues are flagged
// rather than dropped so the conversational layer can explain a redirect
// instead of silently omitting options.
//
// A non-positive k is corrected to the configured default and logged. An
// empty result after filtering is a valid empty slice, not an error; only an
// index failure errors out.
func (s *ServiceImpl) Search(ctx context.Context, query string, guest types.GuestProfile, k int, categoryFilter string) ([]types.SafetyAnnotatedVenue, error) {
	ctx, span := otel.Tracer("KnowledgeBase").Start(ctx, "Search", trace.WithAttributes(
		attribute.Int("k", k),
		attribute.String("category_filter", categoryFilter),
	))
	defer span.End()

	if k <= 0 {
		s.logger.WarnContext(ctx, "Non-positive k corrected to default",
			slog.Int("requested_k", k),
			slog.Int("default_k", s.cfg.DefaultK))
		k = s.cfg.DefaultK
	}

	// Empty-query handling belongs to the caller; invoked directly, the
	// orchestrator just produces an empty result.
	if strings.TrimSpace(query) == "" {
		span.SetStatus(codes.Ok, "Empty query")
		return []types.SafetyAnnotatedVenue{}, nil
	}

	// Decide the per-query post-filters. An explicit category filter takes a
	// single restricted query; otherwise detected intent fans out one query
	// per category, and no detected category means one general query.
	var postFilters []string
	switch {
	case categoryFilter != "":
		postFilters = []string{categoryFilter}
	default:
		detected := intent.Extract(query)
		if detected.HasCategories() {
			postFilters = detected.Categories
		} else {
			postFilters = []string{""}
		}
	}

	topN := k * s.cfg.CandidateMultiplier
	var annotated []types.SafetyAnnotatedVenue
	for _, filter := range postFilters {
		docs, err := s.index.SimilaritySearch(ctx, query, topN)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Semantic index failure")
			return nil, err
		}
		annotated = append(annotated, s.resolveAndAnnotate(ctx, docs, filter, guest)...)
	}

	results := dedupeByID(annotated)

	// Stable two-key sort: safety strictly dominates relevance. A highly
	// relevant unsafe venue must never outrank a less relevant safe one.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].IsSafe != results[j].IsSafe {
			return results[i].IsSafe
		}
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if len(results) > k {
		results = results[:k]
	}

	span.SetAttributes(attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "Search completed")
	return results, nil
}

// resolveAndAnnotate maps index documents back to catalog venues, applies the
// category post-filter and joins the dietary safety verdict. Documents whose
// id is not in the catalog are index staleness, not an error: log and discard.
func (s *ServiceImpl) resolveAndAnnotate(ctx context.Context, docs []types.ScoredDocument, categoryFilter string, guest types.GuestProfile) []types.SafetyAnnotatedVenue {
	var out []types.SafetyAnnotatedVenue
	for _, doc := range docs {
		v, ok := s.catalog.ByID(doc.VenueID)
		if !ok {
			s.logger.WarnContext(ctx, "Discarding dangling venue id from semantic index",
				slog.String("venue_id", doc.VenueID))
			continue
		}
		if categoryFilter != "" && v.Category != categoryFilter {
			continue
		}

		verdict := safety.Evaluate(v, guest.DietaryRestrictions)
		out = append(out, types.SafetyAnnotatedVenue{
			Venue:          v,
			IsSafe:         verdict.IsSafe,
			SafetyNote:     verdict.Note,
			RelevanceScore: doc.Score,
		})
	}
	return out
}

// dedupeByID keeps the first occurrence of each venue id, preserving order
// across the possibly multiple category queries.
func dedupeByID(venues []types.SafetyAnnotatedVenue) []types.SafetyAnnotatedVenue {
	seen := make(map[string]bool, len(venues))
	out := make([]types.SafetyAnnotatedVenue, 0, len(venues))
	for _, v := range venues {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		out = append(out, v)
	}
	return out
}
