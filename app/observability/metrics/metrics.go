package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ItineraryRequestsTotal     metric.Int64Counter
	ItineraryDurationSeconds   metric.Float64Histogram
	PolicyViolationsTotal      metric.Int64Counter
	UnsafeVenuesReturnedTotal  metric.Int64Counter
	RetrievalDurationSeconds   metric.Float64Histogram
	GenerationDurationSeconds  metric.Float64Histogram
	FastPathResponsesTotal     metric.Int64Counter
	MalformedGenerationsTotal  metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ResortConcierge")
		var err error
		m := &AppMetrics{}

		m.ItineraryRequestsTotal, err = meter.Int64Counter(
			"itinerary_requests_total",
			metric.WithDescription("Total number of itinerary requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_requests_total: %v", err)
		}

		m.ItineraryDurationSeconds, err = meter.Float64Histogram(
			"itinerary_duration_seconds",
			metric.WithDescription("End-to-end duration of itinerary creation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_duration_seconds: %v", err)
		}

		m.PolicyViolationsTotal, err = meter.Int64Counter(
			"policy_violations_total",
			metric.WithDescription("Total number of generated itineraries rejected by the policy validator"),
			metric.WithUnit("{violation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create policy_violations_total: %v", err)
		}

		m.UnsafeVenuesReturnedTotal, err = meter.Int64Counter(
			"unsafe_venues_returned_total",
			metric.WithDescription("Total number of venues returned with an unsafe dietary flag"),
			metric.WithUnit("{venue}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create unsafe_venues_returned_total: %v", err)
		}

		m.RetrievalDurationSeconds, err = meter.Float64Histogram(
			"retrieval_duration_seconds",
			metric.WithDescription("Duration of guest-aware venue retrieval in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create retrieval_duration_seconds: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"generation_duration_seconds",
			metric.WithDescription("Duration of text-generation calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_duration_seconds: %v", err)
		}

		m.FastPathResponsesTotal, err = meter.Int64Counter(
			"fast_path_responses_total",
			metric.WithDescription("Responses served by greeting/simple-request fast paths without retrieval"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create fast_path_responses_total: %v", err)
		}

		m.MalformedGenerationsTotal, err = meter.Int64Counter(
			"malformed_generations_total",
			metric.WithDescription("Generation-service responses that failed JSON extraction"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create malformed_generations_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics instance. InitAppMetrics must have been
// called first (main does this during startup).
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
