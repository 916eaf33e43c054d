package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschmoyer/farkledice-sub000/internal/dice"
)

func TestEvaluateBasicScoring(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"empty set", nil, 0},
		{"single 1", []int{1}, 100},
		{"two 1s", []int{1, 1}, 200},
		{"three 1s", []int{1, 1, 1}, 1000},
		{"four 1s", []int{1, 1, 1, 1}, 2000},
		{"five 1s", []int{1, 1, 1, 1, 1}, 3000},
		{"six 1s", []int{1, 1, 1, 1, 1, 1}, 4000},
		{"single 5", []int{5}, 50},
		{"two 5s", []int{5, 5}, 100},
		{"three 5s", []int{5, 5, 5}, 500},
		{"four 5s", []int{5, 5, 5, 5}, 1000},
		{"three 2s", []int{2, 2, 2}, 200},
		{"three 3s", []int{3, 3, 3}, 300},
		{"three 4s", []int{4, 4, 4}, 400},
		{"three 6s", []int{6, 6, 6}, 600},
		{"four 6s", []int{6, 6, 6, 6}, 1200},
		{"five 4s", []int{4, 4, 4, 4, 4}, 1200},
		{"triple with spares", []int{1, 1, 1, 5}, 1050},
		{"lone pair scores nothing", []int{3, 3}, 0},
		{"no scoring dice", []int{2, 2, 3, 4, 6, 6}, 0},
		{"mixed ones and fives", []int{1, 5, 2, 3}, 150},
		{"zeros ignored", []int{1, 0, 0, 5, 0, 0}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := dice.FromValues(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Score(set))
		})
	}
}

func TestEvaluateSpecialCombos(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"straight beats loose ones and fives", []int{1, 2, 3, 4, 5, 6}, 1000},
		{"straight shuffled", []int{6, 3, 1, 5, 2, 4}, 1000},
		{"three pairs with no triple", []int{2, 2, 3, 3, 4, 4}, 750},
		{"three pairs of ones fives sixes", []int{1, 1, 5, 5, 6, 6}, 750},
		{"two triplets", []int{2, 2, 2, 5, 5, 5}, 2500},
		{"two triplets high faces", []int{4, 4, 4, 6, 6, 6}, 2500},
		{"six of a kind floors at two triplets", []int{2, 2, 2, 2, 2, 2}, 2500},
		{"six 1s beat the two-triplet floor", []int{1, 1, 1, 1, 1, 1}, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := dice.FromValues(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Score(set))
		})
	}
}

func TestEvaluatePairDisambiguation(t *testing.T) {
	// A pair plus four of a kind must classify as three pairs when the
	// bonus would otherwise be missed, but never lower an already higher
	// score.
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"pair then four of a kind, low faces", []int{3, 3, 4, 4, 4, 4}, 800},
		{"four of a kind then pair", []int{2, 2, 2, 2, 6, 6}, 750},
		{"pair of 3s with four 2s", []int{2, 2, 2, 2, 3, 3}, 750},
		{"four 5s keep their own value", []int{3, 3, 5, 5, 5, 5}, 1000},
		{"four 1s dwarf the pair bonus", []int{1, 1, 1, 1, 6, 6}, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := dice.FromValues(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Score(set))
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	set, err := dice.FromValues([]int{1, 1, 5, 3, 3, 3})
	require.NoError(t, err)

	first := Evaluate(set)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(set))
	}
}

func TestEvaluateFlags(t *testing.T) {
	straight, _ := dice.FromValues([]int{1, 2, 3, 4, 5, 6})
	assert.True(t, Evaluate(straight).Straight)

	sixKind, _ := dice.FromValues([]int{4, 4, 4, 4, 4, 4})
	res := Evaluate(sixKind)
	assert.Equal(t, 4, res.SixOfAKindFace)

	pairs, _ := dice.FromValues([]int{2, 2, 3, 3, 6, 6})
	assert.True(t, Evaluate(pairs).ThreePairs)

	plain, _ := dice.FromValues([]int{1, 5, 2, 3})
	res = Evaluate(plain)
	assert.False(t, res.Straight)
	assert.False(t, res.ThreePairs)
	assert.False(t, res.TwoTriplets)
	assert.Zero(t, res.SixOfAKindFace)
}
