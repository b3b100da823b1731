package concierge

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/almarjan-digital/resort-concierge/app/observability/metrics"
	"github.com/almarjan-digital/resort-concierge/config"
	"github.com/almarjan-digital/resort-concierge/internal/api/generative_ai"
	"github.com/almarjan-digital/resort-concierge/internal/api/intent"
	"github.com/almarjan-digital/resort-concierge/internal/api/knowledge"
	"github.com/almarjan-digital/resort-concierge/internal/api/policy"
	"github.com/almarjan-digital/resort-concierge/internal/api/safety"
	"github.com/almarjan-digital/resort-concierge/internal/api/venue"
	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// TextGenerator is the single generation capability the concierge depends on.
// Production wires the Gemini-backed implementation; tests substitute a
// scripted one.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string) (iter.Seq2[string, error], error)
}

var _ TextGenerator = (*GeminiTextGenerator)(nil)

// GeminiTextGenerator adapts the shared AI client to the concierge's
// generation contract, pinning the model parameters from configuration.
type GeminiTextGenerator struct {
	client *generativeAI.AIClient
	cfg    config.ConciergeConfig
}

func NewGeminiTextGenerator(client *generativeAI.AIClient, cfg config.ConciergeConfig) *GeminiTextGenerator {
	return &GeminiTextGenerator{client: client, cfg: cfg}
}

func (g *GeminiTextGenerator) generationConfig() *genai.GenerateContentConfig {
	temperature := g.cfg.Temperature
	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  g.cfg.MaxOutputTokens,
		ResponseMIMEType: "application/json",
	}
}

func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.GenerateContent(ctx, prompt, g.generationConfig())
}

func (g *GeminiTextGenerator) GenerateStream(ctx context.Context, prompt string) (iter.Seq2[string, error], error) {
	stream, err := g.client.GenerateContentStream(ctx, prompt, g.generationConfig())
	if err != nil {
		return nil, err
	}
	return func(yield func(string, error) bool) {
		for resp, err := range stream {
			if err != nil {
				yield("", err)
				return
			}
			chunk := resp.Text()
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}, nil
}

var _ Service = (*ServiceImpl)(nil)

// Service is the caller-facing concierge contract.
type Service interface {
	CreateItinerary(ctx context.Context, query string, guest types.GuestProfile) (*types.ConciergeReply, error)
	CreateItineraryStream(ctx context.Context, query string, guest types.GuestProfile, eventCh chan<- types.StreamEvent) error
	QuickRecommendation(ctx context.Context, category string, guest types.GuestProfile) (*types.ConciergeReply, error)
}

// ServiceImpl coordinates retrieval, generation and policy validation for a
// single guest interaction. Every entry point is stateless between calls.
type ServiceImpl struct {
	logger    *slog.Logger
	kb        knowledge.Service
	validator policy.Validator
	generator TextGenerator
	catalog   *venue.Catalog
	cfg       config.ConciergeConfig
	metrics   *metrics.AppMetrics
}

func NewServiceImpl(
	kb knowledge.Service,
	validator policy.Validator,
	generator TextGenerator,
	catalog *venue.Catalog,
	cfg config.ConciergeConfig,
	appMetrics *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		kb:        kb,
		validator: validator,
		generator: generator,
		catalog:   catalog,
		cfg:       cfg,
		metrics:   appMetrics,
	}
}

// greetings are short openers answered without retrieval or generation.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "good morning": true,
	"good afternoon": true, "good evening": true, "thanks": true,
	"thank you": true,
}

// isGreeting treats known openers and anything under 10 characters as small
// talk. A query that short carries no retrievable request.
func isGreeting(trimmed string) bool {
	if len(trimmed) < 10 {
		return true
	}
	return greetings[strings.ToLower(strings.TrimRight(trimmed, "!. "))]
}

// CreateItinerary is the main conversational entry point. Trivial requests are
// answered by templates; everything else goes through retrieval, generation
// and the policy gate. A policy rejection replaces the generated text wholesale
// with an apology carrying the verdict; the rejected text never reaches the
// guest.
func (s *ServiceImpl) CreateItinerary(ctx context.Context, query string, guest types.GuestProfile) (*types.ConciergeReply, error) {
	ctx, span := otel.Tracer("ConciergeService").Start(ctx, "CreateItinerary", trace.WithAttributes(
		attribute.String("guest.tier", guest.Tier()),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		span.SetStatus(codes.Ok, "Empty query answered with clarification")
		return s.templateReply(fmt.Sprintf(
			"Of course, %s. Could you tell me a little more about what you have in mind for this evening?",
			guest.DisplayName()), nil, nil), nil
	}

	if isGreeting(trimmed) {
		s.metrics.FastPathResponsesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("path", "greeting")))
		span.SetStatus(codes.Ok, "Greeting fast path")
		return s.templateReply(fmt.Sprintf(
			"Welcome to %s, %s. It is a pleasure to have you with us. How may I make your evening exceptional?",
			s.cfg.ResortName, guest.DisplayName()), nil, nil), nil
	}

	// A short single-category request skips full generation and takes the
	// quick-recommendation path.
	if detected := intent.Extract(trimmed); len(detected.Categories) == 1 && len(strings.Fields(trimmed)) <= 5 {
		s.metrics.FastPathResponsesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("path", "single_category")))
		span.SetStatus(codes.Ok, "Single-category fast path")
		return s.QuickRecommendation(ctx, detected.Categories[0], guest)
	}

	venues, err := s.retrieveContext(ctx, trimmed, guest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Retrieval failed")
		s.countItinerary(ctx, "retrieval_error")
		return nil, fmt.Errorf("failed to retrieve venue context: %w", err)
	}
	if len(venues) == 0 {
		span.SetStatus(codes.Ok, "No venues matched")
		s.countItinerary(ctx, "no_matches")
		return s.templateReply(fmt.Sprintf(
			"My apologies, %s - I could not find venues matching that request. Might I suggest telling me the kind of cuisine, entertainment or relaxation you are in the mood for?",
			guest.DisplayName()), nil, nil), nil
	}

	prompt := buildItineraryPrompt(s.cfg.ResortName, trimmed, guest, venues)

	genStart := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	s.metrics.GenerationDurationSeconds.Record(ctx, time.Since(genStart).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		s.countItinerary(ctx, "generation_error")
		return nil, fmt.Errorf("failed to generate itinerary: %w", err)
	}

	verdict := s.validator.Validate(ctx, raw, guest)
	if !verdict.Valid {
		s.metrics.PolicyViolationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("violation_type", string(verdict.ViolationType)),
		))
		s.logger.WarnContext(ctx, "Generated itinerary rejected by policy",
			slog.String("violation_type", string(verdict.ViolationType)),
			slog.String("guest", guest.DisplayName()))
		span.SetAttributes(attribute.String("violation", string(verdict.ViolationType)))
		span.SetStatus(codes.Ok, "Policy rejection")
		s.countItinerary(ctx, "policy_rejected")
		return s.templateReply(s.rejectionMessage(verdict, guest), venues, &verdict), nil
	}

	parsed, err := parseItineraryResponse(raw)
	if err != nil {
		if errors.Is(err, ErrMalformedItinerary) {
			s.metrics.MalformedGenerationsTotal.Add(ctx, 1)
			s.logger.ErrorContext(ctx, "Malformed generation response, falling back",
				slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Ok, "Malformed generation, fallback served")
			s.countItinerary(ctx, "malformed_fallback")
			return s.templateReply(fmt.Sprintf(
				"My apologies, %s - I had trouble composing that plan. Could you rephrase your request, perhaps with the occasion or cuisine in mind?",
				guest.DisplayName()), venues, &verdict), nil
		}
		return nil, err
	}

	s.recordUnsafeVenues(ctx, venues)
	message := parsed.GuestMessage
	if notes := strings.TrimSpace(parsed.LogisticsNotes); notes != "" {
		message = message + "\n\n" + notes
	}

	span.SetAttributes(attribute.Int("itinerary.events", len(parsed.Itinerary.Events)))
	span.SetStatus(codes.Ok, "Itinerary created")
	s.countItinerary(ctx, "success")
	return s.templateReply(message, venues, &verdict), nil
}

// CreateItineraryStream streams generation chunks to eventCh and closes with a
// complete or error event. The policy gate cannot retract text that already
// streamed, so a post-stream violation is logged and surfaced as a corrective
// complete event rather than silently dropped.
func (s *ServiceImpl) CreateItineraryStream(ctx context.Context, query string, guest types.GuestProfile, eventCh chan<- types.StreamEvent) error {
	ctx, span := otel.Tracer("ConciergeService").Start(ctx, "CreateItineraryStream")
	defer span.End()

	sendEvent := func(eventType, data, errMsg string) {
		select {
		case eventCh <- types.StreamEvent{
			Type:      eventType,
			Data:      data,
			Error:     errMsg,
			EventID:   uuid.New().String(),
			Timestamp: time.Now(),
		}:
		case <-ctx.Done():
		}
	}

	sendEvent(types.EventTypeStart, "", "")

	trimmed := strings.TrimSpace(query)
	if trimmed == "" || isGreeting(trimmed) {
		reply, err := s.CreateItinerary(ctx, query, guest)
		if err != nil {
			sendEvent(types.EventTypeError, "", err.Error())
			return err
		}
		sendEvent(types.EventTypeChunk, reply.Message, "")
		sendEvent(types.EventTypeComplete, reply.Message, "")
		return nil
	}

	venues, err := s.retrieveContext(ctx, trimmed, guest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Retrieval failed")
		sendEvent(types.EventTypeError, "", "failed to retrieve venue context")
		return fmt.Errorf("failed to retrieve venue context: %w", err)
	}

	prompt := buildItineraryPrompt(s.cfg.ResortName, trimmed, guest, venues)
	stream, err := s.generator.GenerateStream(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stream start failed")
		sendEvent(types.EventTypeError, "", "failed to start generation stream")
		return fmt.Errorf("failed to start generation stream: %w", err)
	}

	var full strings.Builder
	for chunk, err := range stream {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Stream failed mid-flight")
			sendEvent(types.EventTypeError, "", "generation stream failed")
			return fmt.Errorf("generation stream failed: %w", err)
		}
		full.WriteString(chunk)
		sendEvent(types.EventTypeChunk, chunk, "")
	}

	// Validation after the fact: streamed text is already with the client.
	verdict := s.validator.Validate(ctx, full.String(), guest)
	if !verdict.Valid {
		s.metrics.PolicyViolationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("violation_type", string(verdict.ViolationType)),
		))
		s.logger.WarnContext(ctx, "Streamed itinerary violated policy after delivery",
			slog.String("violation_type", string(verdict.ViolationType)))
		sendEvent(types.EventTypeComplete, s.rejectionMessage(verdict, guest), "")
		span.SetStatus(codes.Ok, "Stream completed with policy correction")
		return nil
	}

	sendEvent(types.EventTypeComplete, full.String(), "")
	span.SetStatus(codes.Ok, "Stream completed")
	return nil
}

// QuickRecommendation answers a single-category request from retrieval alone,
// with no generation call. If the best match is unsafe for the guest it falls
// back to the first safe venue in the category, or to a human referral when
// nothing in the category is safe.
func (s *ServiceImpl) QuickRecommendation(ctx context.Context, category string, guest types.GuestProfile) (*types.ConciergeReply, error) {
	ctx, span := otel.Tracer("ConciergeService").Start(ctx, "QuickRecommendation", trace.WithAttributes(
		attribute.String("category", category),
	))
	defer span.End()

	results, err := s.kb.Search(ctx, "best "+strings.ToLower(category)+" experience", guest, s.cfg.Retrieval.PerCategoryK, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Retrieval failed")
		return nil, fmt.Errorf("failed to retrieve %s recommendations: %w", category, err)
	}

	for _, r := range results {
		if r.IsSafe {
			span.SetStatus(codes.Ok, "Recommendation served")
			return s.templateReply(s.recommendationMessage(r.Venue, guest), results, nil), nil
		}
	}

	// Retrieval surfaced nothing safe; scan the whole category before
	// giving up.
	for _, v := range s.catalog.ByCategory(category) {
		if verdict := safety.Evaluate(v, guest.DietaryRestrictions); verdict.IsSafe {
			span.SetStatus(codes.Ok, "Recommendation served from catalog fallback")
			return s.templateReply(s.recommendationMessage(v, guest), results, nil), nil
		}
	}

	span.SetStatus(codes.Ok, "No safe venue in category")
	return s.templateReply(fmt.Sprintf(
		"%s, given your dietary needs I would rather have our culinary team prepare something personally for you than point you at a venue that may not suit. May I connect you with them?",
		guest.DisplayName()), results, nil), nil
}

func (s *ServiceImpl) retrieveContext(ctx context.Context, query string, guest types.GuestProfile) ([]types.SafetyAnnotatedVenue, error) {
	start := time.Now()
	venues, err := s.kb.Search(ctx, query, guest, s.cfg.Retrieval.MaxContextVenues, "")
	s.metrics.RetrievalDurationSeconds.Record(ctx, time.Since(start).Seconds())
	return venues, err
}

func (s *ServiceImpl) recommendationMessage(v types.Venue, guest types.GuestProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, for %s I would suggest %s. %s", guest.DisplayName(), strings.ToLower(v.Category), v.Name, v.Description)
	if v.OpeningHours != "" {
		fmt.Fprintf(&b, " They are open %s.", v.OpeningHours)
	}
	if guest.Tier() == types.TierBlack && v.VIPPerks != "" {
		fmt.Fprintf(&b, " As a Black tier member: %s.", v.VIPPerks)
	}
	return b.String()
}

// rejectionMessage converts a policy verdict into guest-appropriate language.
// The verdict's own message is operational wording for staff and logs.
func (s *ServiceImpl) rejectionMessage(verdict types.PolicyVerdict, guest types.GuestProfile) string {
	switch verdict.ViolationType {
	case types.ViolationAgeRestriction:
		return fmt.Sprintf("My sincere apologies, %s - some of the venues that would suit that request have age requirements I must respect. Allow me to suggest our award-winning dining and entertainment options instead; just tell me what you are in the mood for.", guest.DisplayName())
	case types.ViolationResponsibleGaming:
		return fmt.Sprintf("%s, I am unable to include gaming venues in your plans. There is a wealth of exceptional dining, entertainment and wellness here - shall I compose an evening around those?", guest.DisplayName())
	case types.ViolationTimeConstraint:
		return fmt.Sprintf("%s, our venues close at 2:00 AM, so I could not schedule everything as requested. May I plan an earlier evening that ends on a high note instead?", guest.DisplayName())
	default:
		return fmt.Sprintf("My apologies, %s - I could not finalize that plan as requested. Could we adjust it together?", guest.DisplayName())
	}
}

func (s *ServiceImpl) templateReply(message string, venues []types.SafetyAnnotatedVenue, verdict *types.PolicyVerdict) *types.ConciergeReply {
	return &types.ConciergeReply{
		InteractionID: uuid.New(),
		Message:       message,
		Venues:        venues,
		Verdict:       verdict,
		CreatedAt:     time.Now(),
	}
}

func (s *ServiceImpl) countItinerary(ctx context.Context, outcome string) {
	s.metrics.ItineraryRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *ServiceImpl) recordUnsafeVenues(ctx context.Context, venues []types.SafetyAnnotatedVenue) {
	var unsafeCount int64
	for _, v := range venues {
		if !v.IsSafe {
			unsafeCount++
		}
	}
	if unsafeCount > 0 {
		s.metrics.UnsafeVenuesReturnedTotal.Add(ctx, unsafeCount)
	}
}
