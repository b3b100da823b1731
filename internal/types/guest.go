package types

// Loyalty tiers, highest first.
const (
	TierBlack    = "Black"
	TierPlatinum = "Platinum"
	TierGold     = "Gold"
	TierSilver   = "Silver"
)

// DefaultGuestAge is assumed when a profile omits the age field.
const DefaultGuestAge = 25

// GuestProfile arrives on the wire with every request and is discarded after
// the response is produced. The engine never persists it.
type GuestProfile struct {
	Name                string `json:"name"`
	LoyaltyTier         string `json:"loyalty_tier"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	Age                 int    `json:"age,omitempty"`
	MedicalNotes        string `json:"medical_notes,omitempty"`
	SelfExcludedGaming  bool   `json:"self_excluded_gaming,omitempty"`
	Preferences         string `json:"preferences,omitempty"`
}

// EffectiveAge resolves the absent-age default at the ingestion boundary so
// downstream checks never deal with a zero value.
func (g GuestProfile) EffectiveAge() int {
	if g.Age <= 0 {
		return DefaultGuestAge
	}
	return g.Age
}

// DisplayName returns a safe name for templated responses.
func (g GuestProfile) DisplayName() string {
	if g.Name == "" {
		return "Guest"
	}
	return g.Name
}

// Tier returns the loyalty tier, defaulting to Platinum like the original
// guest cards did.
func (g GuestProfile) Tier() string {
	if g.LoyaltyTier == "" {
		return TierPlatinum
	}
	return g.LoyaltyTier
}
