package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

func TestNewMessageEnvelope(t *testing.T) {
	msg, err := NewMessage(MessageTypeRollResult, RollResultData{
		GameID: "g1",
		Dice:   []int{1, 5, 2, 3, 4, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeRollResult, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var data RollResultData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "g1", data.GameID)
	assert.Equal(t, []int{1, 5, 2, 3, 4, 6}, data.Dice)
}

func TestCombosToWire(t *testing.T) {
	combos := []score.Combination{
		{Dice: []int{1, 1, 1}, Points: 1000, Description: "three 1s"},
		{Dice: []int{5}, Points: 50, Description: "single 5"},
	}
	wire := combosToWire(combos)
	require.Len(t, wire, 2)
	assert.Equal(t, 1000, wire[0].Points)
	assert.Equal(t, "single 5", wire[1].Description)
}

func TestSnapshotToWire(t *testing.T) {
	snap := game.Snapshot{
		ID:       "g1",
		Mode:     game.ModeFixedRounds,
		Round:    3,
		MaxRound: 10,
		Overtime: false,
		ActingID: "p2",
		Turn:     game.TurnState{PlayerID: "p2", Carried: 300, LastRoll: []int{2, 2, 4}},
		Players: []game.PlayerSnapshot{
			{ID: "p1", Name: "Alice", TotalScore: 1200, Round: 3},
			{ID: "p2", Name: "Rocky", Bot: true, TotalScore: 900, Round: 3},
		},
	}

	state := snapshotToWire(snap)
	assert.Equal(t, "g1", state.GameID)
	assert.Equal(t, "fixed_rounds", state.Mode)
	assert.Equal(t, "p2", state.ActingID)
	assert.Equal(t, 300, state.TurnScore)
	assert.Equal(t, []int{2, 2, 4}, state.LastRoll)
	require.Len(t, state.Players, 2)
	assert.True(t, state.Players[1].Bot)
	assert.Equal(t, 1200, state.Players[0].TotalScore)
}

func TestEventToWire(t *testing.T) {
	tests := []struct {
		name  string
		event game.GameEvent
		check func(t *testing.T, data GameEventData)
	}{
		{
			name:  "roll",
			event: game.NewRollEvent("p1", []int{1, 5, 2, 3, 4, 6}, 1),
			check: func(t *testing.T, data GameEventData) {
				assert.Equal(t, "roll", data.Kind)
				assert.Equal(t, "p1", data.PlayerID)
				assert.Equal(t, []int{1, 5, 2, 3, 4, 6}, data.Dice)
			},
		},
		{
			name:  "bank",
			event: game.NewBankEvent("p1", 2, 750, 1750),
			check: func(t *testing.T, data GameEventData) {
				assert.Equal(t, "bank", data.Kind)
				assert.Equal(t, 2, data.Round)
				assert.Equal(t, 750, data.Points)
				assert.Equal(t, 1750, data.Total)
			},
		},
		{
			name:  "bust",
			event: game.NewBustEvent("p2", 2, []int{2, 3, 4}, 600),
			check: func(t *testing.T, data GameEventData) {
				assert.Equal(t, "bust", data.Kind)
				assert.Equal(t, 600, data.Points)
				assert.Equal(t, []int{2, 3, 4}, data.Dice)
			},
		},
		{
			name:  "achievement",
			event: game.NewAchievementEvent("p1", game.AchievementSixOfAKind, 4, 8000),
			check: func(t *testing.T, data GameEventData) {
				assert.Equal(t, "achievement", data.Kind)
				assert.Equal(t, "six_of_a_kind", data.Detail)
				assert.Equal(t, 8000, data.Points)
			},
		},
		{
			name:  "completed",
			event: game.NewCompletedEvent("p1", "Alice", map[string]int{"p1": 10150}),
			check: func(t *testing.T, data GameEventData) {
				assert.Equal(t, "completed", data.Kind)
				assert.Equal(t, "p1", data.PlayerID)
				assert.Equal(t, "Alice", data.Detail)
			},
		},
		{
			name:  "chat",
			event: game.NewChatEvent("p2", "read 'em and weep"),
			check: func(t *testing.T, data GameEventData) {
				assert.Equal(t, "chat", data.Kind)
				assert.Equal(t, "read 'em and weep", data.Detail)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := eventToWire("g1", tt.event)
			assert.Equal(t, "g1", data.GameID)
			tt.check(t, data)
		})
	}
}
