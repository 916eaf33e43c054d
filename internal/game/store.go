package game

import "context"

// RoundRecord is the immutable result of one completed round for one
// player. Written exactly once per (player, round); zero is a bust.
type RoundRecord struct {
	GameID   string
	PlayerID string
	Round    int
	Score    int
}

// TurnRecord is a persisted snapshot of the acting player's in-progress
// turn, enough to resume a game after a restart.
type TurnRecord struct {
	GameID        string
	PlayerID      string
	Kept          []int
	TurnScore     int
	DiceRemaining int
	Hand          int
}

// GameRecord mirrors the fields of a game that outlive a process.
type GameRecord struct {
	GameID    string
	Mode      Mode
	Round     int
	MaxRound  int
	Overtime  bool
	WinnerID  string
	Completed bool
}

// Store is the persistence collaborator. AppendRound is called before the
// in-memory transition it records; a failure aborts the transition and the
// caller sees a retryable error.
type Store interface {
	AppendRound(ctx context.Context, rec RoundRecord) error
	SaveTurn(ctx context.Context, rec TurnRecord) error
	SaveGame(ctx context.Context, rec GameRecord) error
}

// NullStore discards everything. Used for casual games that need no
// persistence, and as the default when no store is configured.
type NullStore struct{}

func (NullStore) AppendRound(context.Context, RoundRecord) error { return nil }
func (NullStore) SaveTurn(context.Context, TurnRecord) error     { return nil }
func (NullStore) SaveGame(context.Context, GameRecord) error     { return nil }
