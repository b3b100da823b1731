// Package policy is the last-line compliance gate over generated itinerary
// text. It is a keyword-substring safety net, not a semantic guarantee: it
// catches literal mentions ("casino") but not paraphrases ("VIP lounge with
// slot machines"). That gap is an acknowledged limitation of the design, kept
// on purpose rather than patched with out-of-scope NLP.
package policy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/almarjan-digital/resort-concierge/internal/types"
)

// MinimumVenueAge is the age floor for nightlife and gaming venues.
const MinimumVenueAge = 21

// ageRestrictedKeywords are venue words that imply a 21+ requirement.
var ageRestrictedKeywords = []string{"nightclub", "casino", "bar lounge", "club"}

// afterHoursPatterns are literal time mentions at or past the resort's
// 2:00 AM close.
var afterHoursPatterns = []string{"3:00 am", "3am"}

var _ Validator = (*ValidatorImpl)(nil)

// Validator defines the compliance contract over generated itinerary text.
type Validator interface {
	Validate(ctx context.Context, itineraryText string, guest types.GuestProfile) types.PolicyVerdict
}

// ValidatorImpl applies the ordered policy checks. It is stateless; the
// logger is only used for advisory flags surfaced to human review.
type ValidatorImpl struct {
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) *ValidatorImpl {
	return &ValidatorImpl{logger: logger}
}

// Validate runs the compliance checks in fixed order; the first hard
// violation wins. A rejection is an expected outcome: the caller must replace
// the generated text entirely, never surface it alongside the verdict.
func (v *ValidatorImpl) Validate(ctx context.Context, itineraryText string, guest types.GuestProfile) types.PolicyVerdict {
	_, span := otel.Tracer("PolicyValidator").Start(ctx, "Validate")
	defer span.End()

	text := strings.ToLower(itineraryText)
	age := guest.EffectiveAge()

	// Check 1: age-restricted venues.
	if age < MinimumVenueAge {
		for _, keyword := range ageRestrictedKeywords {
			if strings.Contains(text, keyword) {
				span.SetAttributes(attribute.String("violation", string(types.ViolationAgeRestriction)))
				return types.PolicyVerdict{
					Valid:         false,
					Message:       fmt.Sprintf("POLICY VIOLATION: Guest is under %d. Cannot recommend %s venues. Please adjust request.", MinimumVenueAge, strings.Title(keyword)),
					ViolationType: types.ViolationAgeRestriction,
				}
			}
		}
	}

	// Check 2: responsible gaming self-exclusion.
	if guest.SelfExcludedGaming && strings.Contains(text, "casino") {
		span.SetAttributes(attribute.String("violation", string(types.ViolationResponsibleGaming)))
		return types.PolicyVerdict{
			Valid:         false,
			Message:       "COMPLIANCE ALERT: Responsible Gaming Protocol activated. Casino recommendations blocked.",
			ViolationType: types.ViolationResponsibleGaming,
		}
	}

	// Check 3: operating hours. The resort closes at 2:00 AM.
	for _, pattern := range afterHoursPatterns {
		if strings.Contains(text, pattern) {
			span.SetAttributes(attribute.String("violation", string(types.ViolationTimeConstraint)))
			return types.PolicyVerdict{
				Valid:         false,
				Message:       "OPERATIONAL ALERT: Requested time exceeds resort operating hours (close at 2:00 AM).",
				ViolationType: types.ViolationTimeConstraint,
			}
		}
	}

	verdict := types.PolicyVerdict{
		Valid:   true,
		Message: "Itinerary passes all policy checks",
	}

	// Check 4: medical advisory tier. Flag for concierge review, never block.
	if strings.Contains(strings.ToLower(guest.MedicalNotes), "heart condition") && strings.Contains(text, "spa") {
		advisory := "Guest has heart condition; spa thermal treatments may need consultation"
		verdict.Advisories = append(verdict.Advisories, advisory)
		v.logger.WarnContext(ctx, "Medical advisory raised",
			slog.String("guest", guest.DisplayName()),
			slog.String("advisory", advisory))
	}

	return verdict
}
