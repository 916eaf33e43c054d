package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValues(t *testing.T) {
	s, err := FromValues([]int{1, 5, 3})
	require.NoError(t, err)
	assert.Equal(t, Set{1, 5, 3, 0, 0, 0}, s)
	assert.Equal(t, 3, s.ActiveCount())
	assert.Equal(t, []int{1, 5, 3}, s.Active())
}

func TestFromValuesRejectsBadInput(t *testing.T) {
	_, err := FromValues([]int{1, 2, 3, 4, 5, 6, 1})
	assert.Error(t, err)

	_, err = FromValues([]int{7})
	assert.Error(t, err)

	_, err = FromValues([]int{-1})
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	s, err := FromValues([]int{5, 5, 2, 5})
	require.NoError(t, err)

	counts := s.Counts()
	assert.Equal(t, 2, counts[0], "empty slots")
	assert.Equal(t, 3, counts[5])
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 0, counts[1])
}

func TestAddFillsEmptySlots(t *testing.T) {
	s, err := FromValues([]int{4, 4})
	require.NoError(t, err)

	require.NoError(t, s.Add([]int{1, 6}))
	assert.Equal(t, Set{4, 4, 1, 6, 0, 0}, s)
	assert.Equal(t, 4, s.ActiveCount())
}

func TestAddRejectsOverflowWithoutMutating(t *testing.T) {
	s, err := FromValues([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	before := s
	assert.Error(t, s.Add([]int{6, 6}))
	assert.Equal(t, before, s, "failed add must leave the set unchanged")
}

func TestString(t *testing.T) {
	s, err := FromValues([]int{3, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, "[3 1]", s.String())

	var empty Set
	assert.Equal(t, "[]", empty.String())
}

func TestRollerIsDeterministicForSeed(t *testing.T) {
	a := NewRoller(99).Roll(6)
	b := NewRoller(99).Roll(6)
	assert.Equal(t, a, b)

	for _, v := range a {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestRollerClampsCount(t *testing.T) {
	r := NewRoller(1)
	assert.Nil(t, r.Roll(0))
	assert.Len(t, r.Roll(10), NumDice)
}

func TestRollerCoversAllFaces(t *testing.T) {
	r := NewRoller(7)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		for _, v := range r.Roll(6) {
			seen[v] = true
		}
	}
	for face := 1; face <= Faces; face++ {
		assert.True(t, seen[face], "face %d never rolled", face)
	}
}
