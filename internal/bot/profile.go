// Package bot implements the autonomous decision policy for Farkle players:
// risk profiles, the deterministic threshold policy, and the optional remote
// enrichment layer that can dress a decision up with personality.
package bot

import "strings"

// Tier is one of the five canonical banking postures.
type Tier int

const (
	VeryCautious Tier = iota
	Cautious
	Balanced
	Aggressive
	VeryAggressive
)

func (t Tier) String() string {
	switch t {
	case VeryCautious:
		return "very-cautious"
	case Cautious:
		return "cautious"
	case Balanced:
		return "balanced"
	case Aggressive:
		return "aggressive"
	case VeryAggressive:
		return "very-aggressive"
	}
	return "unknown"
}

// RiskProfile is the continuous form every policy consumes. Discrete
// difficulty tiers convert into this; nothing downstream branches on a tier
// name directly.
type RiskProfile struct {
	// RiskTolerance ranges 1..10; higher keeps rolling longer.
	RiskTolerance int
	// TrashTalk ranges 1..10; higher chatters more. Flavor only, never
	// affects play.
	TrashTalk int
}

// Profile returns the continuous parameters for a canonical tier.
func (t Tier) Profile() RiskProfile {
	switch t {
	case VeryCautious:
		return RiskProfile{RiskTolerance: 2, TrashTalk: 2}
	case Cautious:
		return RiskProfile{RiskTolerance: 4, TrashTalk: 3}
	case Balanced:
		return RiskProfile{RiskTolerance: 6, TrashTalk: 5}
	case Aggressive:
		return RiskProfile{RiskTolerance: 8, TrashTalk: 7}
	case VeryAggressive:
		return RiskProfile{RiskTolerance: 10, TrashTalk: 9}
	}
	return RiskProfile{RiskTolerance: 6, TrashTalk: 5}
}

// Tier maps the continuous tolerance back onto the nearest canonical tier.
func (p RiskProfile) Tier() Tier {
	switch {
	case p.RiskTolerance <= 2:
		return VeryCautious
	case p.RiskTolerance <= 4:
		return Cautious
	case p.RiskTolerance <= 6:
		return Balanced
	case p.RiskTolerance <= 8:
		return Aggressive
	default:
		return VeryAggressive
	}
}

// ProfileForDifficulty resolves the player-facing difficulty names. Unknown
// names fall back to a balanced profile.
func ProfileForDifficulty(name string) RiskProfile {
	switch strings.ToLower(name) {
	case "easy":
		return Cautious.Profile()
	case "medium":
		return Balanced.Profile()
	case "hard":
		return VeryAggressive.Profile()
	}
	return Balanced.Profile()
}

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize clamps both parameters into 1..10.
func (p RiskProfile) Normalize() RiskProfile {
	return RiskProfile{
		RiskTolerance: clampRange(p.RiskTolerance, 1, 10),
		TrashTalk:     clampRange(p.TrashTalk, 1, 10),
	}
}
