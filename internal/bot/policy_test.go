package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

func decide(t *testing.T, tier Tier, dc DecisionContext) Decision {
	t.Helper()
	dc.Combos = score.Enumerate(dc.Roll)
	d, ok := NewThresholdPolicy(tier.Profile()).Decide(dc)
	require.True(t, ok)
	return d
}

func TestDecideBustMakesNoSelection(t *testing.T) {
	policy := NewThresholdPolicy(Balanced.Profile())
	_, ok := policy.Decide(DecisionContext{Roll: []int{2, 2, 3, 4, 6, 6}})
	assert.False(t, ok)
}

func TestDecideTierBankThresholds(t *testing.T) {
	// A roll worth 150 at most, with plenty of dice left either way.
	roll := []int{1, 5, 2, 3, 4, 4}

	tests := []struct {
		name      string
		tier      Tier
		turnScore int
		wantBank  bool
	}{
		{"very cautious banks small", VeryCautious, 200, true},
		{"very cautious rolls below 300", VeryCautious, 100, false},
		{"cautious banks at 500", Cautious, 400, true},
		{"cautious rolls at 200", Cautious, 200, false},
		{"balanced banks at 750", Balanced, 650, true},
		{"balanced rolls at 400", Balanced, 400, false},
		{"aggressive banks at 1000", Aggressive, 900, true},
		{"aggressive rolls at 700", Aggressive, 700, false},
		{"very aggressive banks at 1500", VeryAggressive, 1400, true},
		{"very aggressive rolls at 1200", VeryAggressive, 1200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(t, tt.tier, DecisionContext{Roll: roll, TurnScore: tt.turnScore})
			assert.Equal(t, tt.wantBank, d.Bank)
		})
	}
}

func TestDecideFewDiceLeftBanks(t *testing.T) {
	// Keeping the single 1 from a two-die roll leaves one die; cautious and
	// balanced tiers stop there.
	dc := DecisionContext{Roll: []int{1, 3}, TurnScore: 200}
	assert.True(t, decide(t, Cautious, dc).Bank)
	assert.True(t, decide(t, Balanced, dc).Bank)

	// Very aggressive keeps going unless exactly one die would remain.
	d := decide(t, VeryAggressive, dc)
	assert.True(t, d.Bank) // one die left after the keep
}

func TestDecideBanksOnWin(t *testing.T) {
	dc := DecisionContext{
		Roll:        []int{1, 2, 3, 4, 4, 6},
		TurnScore:   400,
		TotalScore:  9550,
		TargetScore: 10000,
	}
	d := decide(t, VeryAggressive, dc)
	assert.True(t, d.Bank, "crossing the target banks regardless of tier")
}

func TestDecideRespectsBreakIn(t *testing.T) {
	dc := DecisionContext{
		Roll:        []int{1, 2, 3, 4, 4, 6},
		TurnScore:   150,
		TargetScore: 10000,
		MinBank:     500,
	}
	d := decide(t, VeryCautious, dc)
	assert.False(t, d.Bank, "banking below the break-in would zero the round")
}

func TestDecidePrefersDicePreservation(t *testing.T) {
	// From [1 5 3 3 2 6] an aggressive bot keeps just the 1 (100 points,
	// five dice live) over the 1 and 5 together (150 points, four dice).
	dc := DecisionContext{Roll: []int{1, 5, 3, 3, 2, 6}}
	d := decide(t, VeryAggressive, dc)
	assert.False(t, d.Bank)
	assert.Equal(t, []int{1}, d.Combo.Dice)

	// A cautious bot takes the points.
	d = decide(t, VeryCautious, dc)
	if !d.Bank {
		assert.GreaterOrEqual(t, d.Combo.Points, 150)
	}
}

func TestDecideHotDiceNeverBanks(t *testing.T) {
	// Two triplets consume all six dice: the keep is forced to continue.
	dc := DecisionContext{Roll: []int{2, 2, 2, 5, 5, 5}, TurnScore: 2000}
	d := decide(t, VeryCautious, dc)
	assert.False(t, d.Bank)
	assert.Equal(t, 2500, d.Combo.Points)
}

func TestDecideDeterministic(t *testing.T) {
	dc := DecisionContext{Roll: []int{1, 1, 5, 3, 3, 3}, TurnScore: 250}
	first := decide(t, Balanced, dc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, decide(t, Balanced, dc))
	}
}

func TestTierProfileRoundTrip(t *testing.T) {
	for _, tier := range []Tier{VeryCautious, Cautious, Balanced, Aggressive, VeryAggressive} {
		assert.Equal(t, tier, tier.Profile().Tier(), tier.String())
	}
}

func TestProfileForDifficulty(t *testing.T) {
	assert.Equal(t, Cautious.Profile(), ProfileForDifficulty("easy"))
	assert.Equal(t, Balanced.Profile(), ProfileForDifficulty("MEDIUM"))
	assert.Equal(t, VeryAggressive.Profile(), ProfileForDifficulty("hard"))
	assert.Equal(t, Balanced.Profile(), ProfileForDifficulty("nonsense"))
}
