package curriculum

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier represents a difficulty tier. Tiers are strictly ordered.
type Tier int

const (
	TierEasy     Tier = iota // Small operands, hints available, generous timer
	TierNormal               // Baseline difficulty
	TierAdvanced             // Larger operands, no hints
	TierExpert               // Largest operands, shortest timer
)

// AllTiers returns the tiers from easiest to hardest.
func AllTiers() []Tier {
	return []Tier{TierEasy, TierNormal, TierAdvanced, TierExpert}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierExpert
}

// Clamp forces t into the valid range.
func (t Tier) Clamp() Tier {
	switch {
	case t < TierEasy:
		return TierEasy
	case t > TierExpert:
		return TierExpert
	default:
		return t
	}
}

// Next returns the next harder tier, saturating at TierExpert.
func (t Tier) Next() Tier {
	return (t + 1).Clamp()
}

// Prev returns the next easier tier, saturating at TierEasy.
func (t Tier) Prev() Tier {
	return (t - 1).Clamp()
}

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierNormal:
		return "normal"
	case TierAdvanced:
		return "advanced"
	case TierExpert:
		return "expert"
	default:
		return "unknown"
	}
}

// ParseTier resolves a tier name. "medium" and "hard" are accepted as
// aliases for normal and advanced.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner":
		return TierEasy, true
	case "normal", "medium":
		return TierNormal, true
	case "advanced", "hard":
		return TierAdvanced, true
	case "expert":
		return TierExpert, true
	}
	return TierEasy, false
}

// TierConfig holds the per-tier presentation settings.
type TierConfig struct {
	Tier              Tier
	BaseTimeLimitSecs int
	HintsAllowed      bool
}

// DefaultTierConfigs returns the default configuration for each tier,
// indexed by Tier.
func DefaultTierConfigs() [4]TierConfig {
	return [4]TierConfig{
		{Tier: TierEasy, BaseTimeLimitSecs: 60, HintsAllowed: true},
		{Tier: TierNormal, BaseTimeLimitSecs: 45, HintsAllowed: true},
		{Tier: TierAdvanced, BaseTimeLimitSecs: 30, HintsAllowed: false},
		{Tier: TierExpert, BaseTimeLimitSecs: 20, HintsAllowed: false},
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name or its ordinal.
func (t *Tier) UnmarshalText(b []byte) error {
	s := string(b)
	if v, ok := ParseTier(s); ok {
		*t = v
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && Tier(n).Valid() {
		*t = Tier(n)
		return nil
	}
	return fmt.Errorf("unknown tier %q", s)
}
