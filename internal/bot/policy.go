package bot

import (
	"fmt"

	"github.com/mschmoyer/farkledice-sub000/internal/dice"
	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// DecisionContext is everything a policy may consider for one roll.
type DecisionContext struct {
	// Roll holds the face values just rolled.
	Roll []int
	// Combos are the scoring combinations enumerated from Roll, sorted by
	// descending points.
	Combos []score.Combination
	// TurnScore is the unbanked score accumulated before this roll's keep.
	TurnScore int
	// TotalScore is the acting player's banked total.
	TotalScore int
	// OpponentBest is the highest banked total among the other players.
	OpponentBest int
	// TargetScore is the winning total in target-score mode, 0 otherwise.
	TargetScore int
	// MinBank is the break-in minimum for this turn, 0 when none applies.
	MinBank int
}

// Decision is a resolved keep-and-continue choice.
type Decision struct {
	Combo     score.Combination
	Bank      bool
	Rationale string
	// Chat is an optional flavor line, only ever set by an enricher.
	Chat string
}

// ThresholdPolicy is the deterministic roll/bank policy. It runs entirely
// locally and never blocks.
type ThresholdPolicy struct {
	Profile RiskProfile
}

// NewThresholdPolicy builds a policy for the given profile, clamped into
// range.
func NewThresholdPolicy(profile RiskProfile) ThresholdPolicy {
	return ThresholdPolicy{Profile: profile.Normalize()}
}

// Decide selects a combination to keep and whether to bank. The second
// return is false when the roll has no scoring combinations, i.e. a bust;
// no selection is made in that case.
func (p ThresholdPolicy) Decide(dc DecisionContext) (Decision, bool) {
	if len(dc.Combos) == 0 {
		return Decision{}, false
	}

	// First consider banking with the highest-scoring keep. When the policy
	// banks, preserving dice has no value, so the maximum is always right.
	best := dc.Combos[0]
	bestLeft := diceLeftAfter(dc.Roll, best)
	bestScore := dc.TurnScore + best.Points
	// Hot dice (every die consumed) forces another roll, so banking is only
	// on the table while some dice stay free.
	if len(best.Dice) < len(dc.Roll) && p.shouldBank(bestScore, bestLeft, dc) {
		return Decision{
			Combo:     best,
			Bank:      true,
			Rationale: fmt.Sprintf("keeping %s for %d and banking %d", best.Description, best.Points, bestScore),
		}, true
	}

	// Rolling again: weigh each combination's points against the value of
	// the dice it leaves free. A lower-scoring keep that frees more dice can
	// win here; that is the point of enumerating alternatives at all.
	selected := best
	selectedValue := p.rollValue(dc, best)
	for _, c := range dc.Combos[1:] {
		if v := p.rollValue(dc, c); v > selectedValue {
			selected = c
			selectedValue = v
		}
	}

	left := diceLeftAfter(dc.Roll, selected)
	return Decision{
		Combo: selected,
		Bank:  false,
		Rationale: fmt.Sprintf("keeping %s for %d, rolling %d dice at %d unbanked",
			selected.Description, selected.Points, left, dc.TurnScore+selected.Points),
	}, true
}

// rollValue estimates the worth of keeping a combination and rolling the
// remainder: points in hand plus risk-weighted expected gain from the free
// dice.
func (p ThresholdPolicy) rollValue(dc DecisionContext, c score.Combination) float64 {
	left := diceLeftAfter(dc.Roll, c)
	appetite := float64(p.Profile.RiskTolerance) * 0.15
	gain := float64(score.ExpectedPoints(left)) * (1 - score.BustProbability(left))
	return float64(c.Points) + appetite*gain
}

// shouldBank applies the canonical tier thresholds plus the win check.
func (p ThresholdPolicy) shouldBank(turnScore, diceLeft int, dc DecisionContext) bool {
	if dc.MinBank > 0 && turnScore < dc.MinBank {
		// Banking below the break-in would zero the round; keep rolling.
		return false
	}
	if dc.TargetScore > 0 && dc.TotalScore+turnScore >= dc.TargetScore {
		return true
	}

	switch p.Profile.Tier() {
	case VeryCautious:
		return turnScore >= 300
	case Cautious:
		return turnScore >= 500 || diceLeft < 3
	case Balanced:
		return turnScore >= 750 || diceLeft <= 2
	case Aggressive:
		return turnScore >= 1000 ||
			(dc.TargetScore > 0 && dc.TotalScore+turnScore >= dc.TargetScore-500)
	default: // VeryAggressive
		return turnScore >= 1500 || diceLeft == 1
	}
}

// diceLeftAfter reports how many dice stay free after keeping a combination.
// Consuming every die is hot dice: the player regains all six.
func diceLeftAfter(roll []int, c score.Combination) int {
	left := len(roll) - len(c.Dice)
	if left == 0 {
		return dice.NumDice
	}
	return left
}
