package score

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCombo(combos []Combination, want []int) (Combination, bool) {
	key := comboKey(want)
	for _, c := range combos {
		if comboKey(c.Dice) == key {
			return c, true
		}
	}
	return Combination{}, false
}

func TestEnumerateCompleteness(t *testing.T) {
	combos := Enumerate([]int{1, 1, 1, 5, 3, 6})

	expected := []struct {
		dice   []int
		points int
	}{
		{[]int{1, 1, 1}, 1000},
		{[]int{5}, 50},
		{[]int{1, 1, 1, 5}, 1050},
		{[]int{1}, 100},
		{[]int{1, 1}, 200},
		{[]int{1, 5}, 150},
		{[]int{1, 1, 5}, 250},
	}
	for _, want := range expected {
		c, ok := findCombo(combos, want.dice)
		require.True(t, ok, "missing combination %v", want.dice)
		assert.Equal(t, want.points, c.Points, "points for %v", want.dice)
	}

	// Sorted by descending points, so the 1050 entry leads.
	require.NotEmpty(t, combos)
	assert.Equal(t, 1050, combos[0].Points)
	assert.True(t, sort.SliceIsSorted(combos, func(i, j int) bool {
		return combos[i].Points > combos[j].Points
	}) || isNonIncreasing(combos))
}

func isNonIncreasing(combos []Combination) bool {
	for i := 1; i < len(combos); i++ {
		if combos[i].Points > combos[i-1].Points {
			return false
		}
	}
	return true
}

func TestEnumerateSpecials(t *testing.T) {
	straight := Enumerate([]int{1, 2, 3, 4, 5, 6})
	c, ok := findCombo(straight, []int{1, 2, 3, 4, 5, 6})
	require.True(t, ok)
	assert.Equal(t, 1000, c.Points)
	assert.Equal(t, "straight", c.Description)

	pairs := Enumerate([]int{2, 2, 3, 3, 4, 4})
	c, ok = findCombo(pairs, []int{2, 2, 3, 3, 4, 4})
	require.True(t, ok)
	assert.Equal(t, 750, c.Points)
	assert.Equal(t, "three pairs", c.Description)

	triplets := Enumerate([]int{2, 2, 2, 5, 5, 5})
	c, ok = findCombo(triplets, []int{2, 2, 2, 5, 5, 5})
	require.True(t, ok)
	assert.Equal(t, 2500, c.Points)
	assert.Equal(t, "two triplets", c.Description)
}

func TestEnumerateOfAKindSizes(t *testing.T) {
	combos := Enumerate([]int{4, 4, 4, 4, 4, 1})

	// Every run length from three up, plus the extension with the spare 1.
	for _, want := range []struct {
		dice   []int
		points int
	}{
		{[]int{4, 4, 4}, 400},
		{[]int{4, 4, 4, 4}, 800},
		{[]int{4, 4, 4, 4, 4}, 1200},
		{[]int{4, 4, 4, 1}, 500},
		{[]int{4, 4, 4, 4, 4, 1}, 1300},
		{[]int{1}, 100},
	} {
		c, ok := findCombo(combos, want.dice)
		require.True(t, ok, "missing combination %v", want.dice)
		assert.Equal(t, want.points, c.Points, "points for %v", want.dice)
	}
}

func TestEnumerateBust(t *testing.T) {
	assert.Empty(t, Enumerate([]int{2, 2, 3, 4, 6, 6}))
	assert.Empty(t, Enumerate([]int{2, 3, 4}))
	assert.Empty(t, Enumerate([]int{6}))
}

func TestEnumeratePartialRolls(t *testing.T) {
	combos := Enumerate([]int{5, 5, 2})
	c, ok := findCombo(combos, []int{5})
	require.True(t, ok)
	assert.Equal(t, 50, c.Points)
	c, ok = findCombo(combos, []int{5, 5})
	require.True(t, ok)
	assert.Equal(t, 100, c.Points)

	// A short roll never yields six-dice specials.
	_, ok = findCombo(Enumerate([]int{2, 2, 3, 3}), []int{2, 2, 3, 3})
	assert.False(t, ok)
}

func TestEnumerateInvalidInput(t *testing.T) {
	assert.Nil(t, Enumerate(nil))
	assert.Nil(t, Enumerate([]int{1, 2, 3, 4, 5, 6, 1}))
	assert.Nil(t, Enumerate([]int{7, 1}))
}

func TestEnumerateNeverCollapsesToMaximum(t *testing.T) {
	// The enumerator exists so a bot can keep fewer points and more dice.
	combos := Enumerate([]int{1, 5, 3, 3, 2, 6})
	require.True(t, len(combos) >= 3)
	_, hasSingleOne := findCombo(combos, []int{1})
	_, hasSingleFive := findCombo(combos, []int{5})
	_, hasBoth := findCombo(combos, []int{1, 5})
	assert.True(t, hasSingleOne)
	assert.True(t, hasSingleFive)
	assert.True(t, hasBoth)
}
