package game

import (
	"github.com/mschmoyer/farkledice-sub000/internal/dice"
	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// Phase is where the acting player is inside the roll → keep → decide loop.
type Phase string

const (
	// PhaseRolling means the player owes a roll: turn start or after hot dice.
	PhaseRolling Phase = "rolling"
	// PhaseChoosing means a roll is on the table and keepers must be saved.
	PhaseChoosing Phase = "choosing"
	// PhaseDeciding means keepers are saved and the player may roll again or
	// bank.
	PhaseDeciding Phase = "deciding"
)

// TurnState is one player's progress through the current round. It is
// created fresh at turn start and reset on bank or bust.
type TurnState struct {
	PlayerID string
	// Kept holds the dice set aside as keepers this hand.
	Kept dice.Set
	// Carried is the score locked in by completed hot-dice hands this turn.
	Carried int
	// DiceRemaining is how many dice are free to roll, always 1..6.
	DiceRemaining int
	// Hand counts hot-dice cycles, starting at 1.
	Hand int
	// LastRoll is the most recent raw roll, which saved dice are validated
	// against.
	LastRoll []int
	Phase    Phase
}

func newTurn(playerID string) TurnState {
	return TurnState{
		PlayerID:      playerID,
		DiceRemaining: dice.NumDice,
		Hand:          1,
		Phase:         PhaseRolling,
	}
}

// Score is the unbanked turn score: carried hot-dice hands plus the current
// hand's keepers scored as one declaration.
func (t TurnState) Score() int {
	return t.Carried + score.Score(t.Kept)
}

// containsRoll reports whether values is a sub-multiset of the last roll.
// Anything else is corrupted or replayed client state.
func (t TurnState) containsRoll(values []int) bool {
	if len(values) == 0 || len(values) > len(t.LastRoll) {
		return false
	}
	var counts [dice.Faces + 1]int
	for _, v := range t.LastRoll {
		counts[v]++
	}
	for _, v := range values {
		if v < 1 || v > dice.Faces {
			return false
		}
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}
