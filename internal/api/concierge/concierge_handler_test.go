package concierge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// MockConciergeService is a mock implementation of Service
type MockConciergeService struct {
	mock.Mock
}

func (m *MockConciergeService) CreateItinerary(ctx context.Context, query string, guest types.GuestProfile) (*types.ConciergeReply, error) {
	args := m.Called(ctx, query, guest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ConciergeReply), args.Error(1)
}

func (m *MockConciergeService) CreateItineraryStream(ctx context.Context, query string, guest types.GuestProfile, eventCh chan<- types.StreamEvent) error {
	args := m.Called(ctx, query, guest, eventCh)
	return args.Error(0)
}

func (m *MockConciergeService) QuickRecommendation(ctx context.Context, category string, guest types.GuestProfile) (*types.ConciergeReply, error) {
	args := m.Called(ctx, category, guest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ConciergeReply), args.Error(1)
}

func newTestHandler(service Service, kb *MockKnowledgeService, validator *MockPolicyValidator) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(service, kb, validator, logger)
}

func TestHandler_CreateItinerary(t *testing.T) {
	t.Run("returns the reply as JSON", func(t *testing.T) {
		service := new(MockConciergeService)
		handler := newTestHandler(service, new(MockKnowledgeService), new(MockPolicyValidator))

		reply := &types.ConciergeReply{
			InteractionID: uuid.New(),
			Message:       "A lovely evening awaits.",
			CreatedAt:     time.Now(),
		}
		service.On("CreateItinerary", mock.Anything, "a romantic dinner", mock.Anything).
			Return(reply, nil)

		body, _ := json.Marshal(ItineraryRequest{
			Query:        "a romantic dinner",
			GuestProfile: types.GuestProfile{Name: "Aisha"},
		})
		req := httptest.NewRequest(http.MethodPost, "/concierge/itinerary", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CreateItinerary(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got types.ConciergeReply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "A lovely evening awaits.", got.Message)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler := newTestHandler(new(MockConciergeService), new(MockKnowledgeService), new(MockPolicyValidator))

		req := httptest.NewRequest(http.MethodPost, "/concierge/itinerary", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		handler.CreateItinerary(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetRecommendations(t *testing.T) {
	kb := new(MockKnowledgeService)
	handler := newTestHandler(new(MockConciergeService), kb, new(MockPolicyValidator))

	kb.On("Search", mock.Anything, "romantic dinner", mock.Anything, 3, "Fine Dining").
		Return([]types.SafetyAnnotatedVenue{
			{Venue: types.Venue{ID: "dining_03", Name: "Verdura"}, IsSafe: true},
		}, nil)

	body, _ := json.Marshal(RecommendationsRequest{
		Query:          "romantic dinner",
		GuestProfile:   types.GuestProfile{Name: "Aisha"},
		K:              3,
		CategoryFilter: "Fine Dining",
	})
	req := httptest.NewRequest(http.MethodPost, "/concierge/recommendations", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.GetRecommendations(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Venues []types.SafetyAnnotatedVenue `json:"venues"`
		Count  int                          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "Verdura", got.Venues[0].Name)
}

func TestHandler_ValidateItinerary(t *testing.T) {
	validator := new(MockPolicyValidator)
	handler := newTestHandler(new(MockConciergeService), new(MockKnowledgeService), validator)

	validator.On("Validate", mock.Anything, "a night at the casino", mock.Anything).
		Return(types.PolicyVerdict{
			Valid:         false,
			Message:       "COMPLIANCE ALERT: Responsible Gaming Protocol activated.",
			ViolationType: types.ViolationResponsibleGaming,
		})

	body, _ := json.Marshal(ValidateRequest{
		ItineraryText: "a night at the casino",
		GuestProfile:  types.GuestProfile{Name: "Omar", SelfExcludedGaming: true},
	})
	req := httptest.NewRequest(http.MethodPost, "/concierge/policy/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ValidateItinerary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var verdict types.PolicyVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.False(t, verdict.Valid)
	assert.Equal(t, types.ViolationResponsibleGaming, verdict.ViolationType)
}

func TestHandler_CreateItineraryStream(t *testing.T) {
	service := new(MockConciergeService)
	handler := newTestHandler(service, new(MockKnowledgeService), new(MockPolicyValidator))

	service.On("CreateItineraryStream", mock.Anything, "plan my evening celebration", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ch := args.Get(3).(chan<- types.StreamEvent)
			ch <- types.StreamEvent{Type: types.EventTypeStart, EventID: uuid.New().String(), Timestamp: time.Now()}
			ch <- types.StreamEvent{Type: types.EventTypeComplete, Data: "done", EventID: uuid.New().String(), Timestamp: time.Now()}
		}).
		Return(nil)

	body, _ := json.Marshal(ItineraryRequest{
		Query:        "plan my evening celebration",
		GuestProfile: types.GuestProfile{Name: "Aisha"},
	})
	req := httptest.NewRequest(http.MethodPost, "/concierge/itinerary/stream", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateItineraryStream(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	streamed := rec.Body.String()
	assert.Contains(t, streamed, "event: start")
	assert.Contains(t, streamed, "event: complete")
	assert.Contains(t, streamed, `"data":"done"`)
}
