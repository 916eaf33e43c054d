package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBustProbabilityTable(t *testing.T) {
	assert.InDelta(t, 0.6667, BustProbability(1), 1e-9)
	assert.InDelta(t, 0.0231, BustProbability(6), 1e-9)

	// Strictly decreasing as more dice are rolled.
	for n := 2; n <= 6; n++ {
		assert.Less(t, BustProbability(n), BustProbability(n-1), "n=%d", n)
	}

	assert.Zero(t, BustProbability(0))
	assert.Zero(t, BustProbability(7))
	assert.Zero(t, BustProbability(-1))
}

func TestExpectedPointsTable(t *testing.T) {
	want := []int{83, 100, 150, 200, 250, 350}
	for n := 1; n <= 6; n++ {
		assert.Equal(t, want[n-1], ExpectedPoints(n))
	}
	assert.Zero(t, ExpectedPoints(0))
	assert.Zero(t, ExpectedPoints(7))
}
