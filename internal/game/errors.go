package game

import (
	"errors"
	"fmt"
)

// Validation errors are rejected synchronously with no state mutated; the
// caller may retry after resyncing its view of the game.
var (
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrOutOfPhase    = errors.New("action not valid in current turn phase")
	ErrDiceMismatch  = errors.New("saved dice do not match the last roll")
	ErrNoScoringDice = errors.New("saved dice contain no scoring combination")
	ErrGameCompleted = errors.New("game already completed")
	ErrUnknownPlayer = errors.New("unknown player")
)

var validationErrs = []error{
	ErrNotYourTurn,
	ErrOutOfPhase,
	ErrDiceMismatch,
	ErrNoScoringDice,
	ErrGameCompleted,
	ErrUnknownPlayer,
}

// IsValidation reports whether err is a rejected-input error: nothing was
// mutated and the same action may succeed after the client resyncs.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// CollabError wraps a persistence collaborator failure. The attempted state
// transition did not happen; the caller should retry the whole action.
type CollabError struct {
	Op  string
	Err error
}

func (e *CollabError) Error() string {
	return fmt.Sprintf("game: %s failed: %v", e.Op, e.Err)
}

func (e *CollabError) Unwrap() error { return e.Err }

// IsRetryable reports whether err leaves the game in its prior valid state
// so the same action can simply be submitted again.
func IsRetryable(err error) bool {
	var ce *CollabError
	return errors.As(err, &ce) || IsValidation(err)
}
