package types

// ViolationType enumerates the hard policy rejection categories.
type ViolationType string

const (
	ViolationNone              ViolationType = ""
	ViolationAgeRestriction    ViolationType = "AGE_RESTRICTION"
	ViolationResponsibleGaming ViolationType = "RESPONSIBLE_GAMING"
	ViolationTimeConstraint    ViolationType = "TIME_CONSTRAINT"
)

// PolicyVerdict is the result of validating generated itinerary text against
// a guest profile. A rejection is an expected outcome, not an error: the
// caller replaces the generated text entirely, never appends to it.
//
// Advisories are the softer tier of the same taxonomy: conditions flagged for
// human review that do not block the response.
type PolicyVerdict struct {
	Valid         bool          `json:"valid"`
	Message       string        `json:"message"`
	ViolationType ViolationType `json:"violation_type,omitempty"`
	Advisories    []string      `json:"advisories,omitempty"`
}
