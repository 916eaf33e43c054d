// Package store provides the persistence implementations behind the game
// engine's Store interface: an in-memory store for tests and casual play,
// and a SQLite store for durable match history.
package store

import (
	"context"
	"sync"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
)

// Memory keeps everything in process. It exists for tests, simulations, and
// games nobody needs to survive a restart.
type Memory struct {
	mu     sync.Mutex
	rounds map[string][]game.RoundRecord
	turns  map[string]game.TurnRecord
	games  map[string]game.GameRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		rounds: make(map[string][]game.RoundRecord),
		turns:  make(map[string]game.TurnRecord),
		games:  make(map[string]game.GameRecord),
	}
}

func (m *Memory) AppendRound(_ context.Context, rec game.RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[rec.GameID] = append(m.rounds[rec.GameID], rec)
	return nil
}

func (m *Memory) SaveTurn(_ context.Context, rec game.TurnRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[rec.GameID+"/"+rec.PlayerID] = rec
	return nil
}

func (m *Memory) SaveGame(_ context.Context, rec game.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[rec.GameID] = rec
	return nil
}

// Rounds returns the recorded rounds for a game in append order.
func (m *Memory) Rounds(gameID string) []game.RoundRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]game.RoundRecord(nil), m.rounds[gameID]...)
}

// Game returns the last saved game record.
func (m *Memory) Game(gameID string) (game.GameRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.games[gameID]
	return rec, ok
}
