package server

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// recordingBroadcaster captures broadcast traffic for assertions.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []*Message
}

func (r *recordingBroadcaster) BroadcastToGame(gameID string, msg *Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingBroadcaster) count(mt MessageType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m.Type == mt {
			n++
		}
	}
	return n
}

func newTestManager(t *testing.T) (*GameManager, *recordingBroadcaster) {
	t.Helper()
	m := NewGameManager(testLogger(), game.NullStore{}, time.Millisecond)
	b := &recordingBroadcaster{}
	m.SetBroadcaster(b)
	return m, b
}

func TestManagerCreateJoinStart(t *testing.T) {
	m, b := newTestManager(t)

	mg, err := m.CreateGame("alice", CreateGameData{
		Mode: "target",
		Bots: []BotSeatData{{Name: "rocky", Difficulty: "medium"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, mg.ID)
	assert.False(t, mg.started())

	_, err = m.JoinGame(mg.ID, "bob")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob", "rocky"}, mg.playerNames())

	// Duplicate join and unknown game are rejected.
	_, err = m.JoinGame(mg.ID, "bob")
	require.Error(t, err)
	_, err = m.JoinGame("missing", "carol")
	require.Error(t, err)

	// Only the host can start a hosted lobby.
	err = m.StartGame(mg.ID, "bob")
	require.Error(t, err)
	require.NoError(t, m.StartGame(mg.ID, "alice"))
	assert.True(t, mg.started())

	// Starting twice or joining after start fails.
	require.Error(t, m.StartGame(mg.ID, "alice"))
	_, err = m.JoinGame(mg.ID, "carol")
	require.Error(t, err)

	// Start broadcast includes a state frame and the opening turn event.
	assert.GreaterOrEqual(t, b.count(MessageTypeGameState), 1)
	assert.GreaterOrEqual(t, b.count(MessageTypeGameEvent), 1)
}

func TestManagerRejectsInvalidCreate(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.CreateGame("alice", CreateGameData{Mode: "marathon"})
	require.Error(t, err)

	bots := make([]BotSeatData, MaxSeats)
	_, err = m.CreateGame("alice", CreateGameData{Bots: bots})
	require.Error(t, err)
}

func TestManagerActionsRouteToGame(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	mg, err := m.CreateGame("alice", CreateGameData{})
	require.NoError(t, err)

	// Actions before start fail with a plain error.
	_, err = m.Roll(ctx, mg.ID, "alice")
	require.Error(t, err)
	assert.False(t, game.IsRetryable(err))

	_, err = m.JoinGame(mg.ID, "bob")
	require.NoError(t, err)
	require.NoError(t, m.StartGame(mg.ID, "alice"))

	// Humans seat in join order, so alice acts first.
	_, err = m.Roll(ctx, mg.ID, "bob")
	require.ErrorIs(t, err, game.ErrNotYourTurn)
	assert.True(t, game.IsRetryable(err))

	res, err := m.Roll(ctx, mg.ID, "alice")
	require.NoError(t, err)
	assert.Len(t, res.Dice, 6)

	state, err := m.State(mg.ID)
	require.NoError(t, err)
	assert.Len(t, state.Players, 2)
	assert.False(t, state.Completed)
}

func TestManagerProvisionFromConfig(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.ProvisionFromConfig(DefaultServerConfig()))
	assert.Equal(t, "main", m.DefaultGameID())

	games := m.ListGames()
	require.Len(t, games, 1)
	assert.Equal(t, "main", games[0].ID)
	assert.False(t, games[0].Started)

	// Provisioned lobbies have no host; the first human in can start.
	_, err := m.JoinGame("main", "alice")
	require.NoError(t, err)
	require.NoError(t, m.StartGame("main", "alice"))

	games = m.ListGames()
	require.Len(t, games, 1)
	assert.True(t, games[0].Started)
}

func TestManagerProvisionRejectsUnknownBot(t *testing.T) {
	m, _ := newTestManager(t)

	cfg := DefaultServerConfig()
	cfg.Games[0].Bots = []string{"ghost"}
	require.Error(t, m.ProvisionFromConfig(cfg))
}

func TestManagerNeedsTwoSeats(t *testing.T) {
	m, _ := newTestManager(t)

	mg, err := m.CreateGame("alice", CreateGameData{})
	require.NoError(t, err)
	require.Error(t, m.StartGame(mg.ID, "alice"))
}
