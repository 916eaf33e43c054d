package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschmoyer/farkledice-sub000/internal/bot"
)

func newBotGame(t *testing.T, cfg Config, tiers ...bot.Tier) *Game {
	t.Helper()
	logger := testLogger()
	players := make([]*Player, 0, len(tiers))
	names := []string{"Rocky", "Apollo", "Clubber", "Ivan"}
	for i, tier := range tiers {
		b := bot.New(names[i], tier.Profile(), logger)
		players = append(players, NewBotPlayer(names[i], b))
	}
	g, err := NewGame("bot-game", cfg, players, nil, nil, logger)
	require.NoError(t, err)
	g.Start()
	return g
}

func TestEngineRunsTargetGameToCompletion(t *testing.T) {
	g := newBotGame(t, Config{Mode: ModeTarget, TargetScore: 2000, Seed: 42}, bot.Balanced, bot.Aggressive)
	e := NewEngine(g, testLogger(), nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, e.Run(ctx))

	assert.True(t, g.Completed())
	winner := g.Winner()
	require.NotEmpty(t, winner)
	p, ok := g.Player(winner)
	require.True(t, ok)
	assert.GreaterOrEqual(t, p.TotalScore, 2000)
}

func TestEngineRunsFixedGameToCompletion(t *testing.T) {
	g := newBotGame(t, Config{Mode: ModeFixedRounds, BaseRounds: 2, OvertimeRounds: 3, Seed: 7},
		bot.VeryCautious, bot.Balanced, bot.VeryAggressive)
	e := NewEngine(g, testLogger(), nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, e.Run(ctx))

	assert.True(t, g.Completed())
	require.NotEmpty(t, g.Winner())
	snap := g.Snapshot()
	best := 0
	for _, ps := range snap.Players {
		p, ok := g.Player(ps.ID)
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(p.RoundScores), 2, "every seat played the base rounds")
		if ps.TotalScore > best {
			best = ps.TotalScore
		}
	}
	winner, _ := g.Player(g.Winner())
	assert.Equal(t, best, winner.TotalScore)
}

func TestEngineDeterministicForSeed(t *testing.T) {
	run := func() (string, int) {
		g := newBotGame(t, Config{Mode: ModeTarget, TargetScore: 2000, Seed: 99}, bot.Cautious, bot.Aggressive)
		e := NewEngine(g, testLogger(), nil, 0)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, e.Run(ctx))
		winner, _ := g.Player(g.Winner())
		return winner.ID, winner.TotalScore
	}

	id1, total1 := run()
	id2, total2 := run()
	assert.Equal(t, id1, id2)
	assert.Equal(t, total1, total2)
}

func TestEngineStopsAtHumanSeat(t *testing.T) {
	logger := testLogger()
	human := NewPlayer("h1", "Dana")
	b := bot.New("Rocky", bot.Balanced.Profile(), logger)
	g, err := NewGame("mixed", Config{Mode: ModeTarget, Seed: 3}, []*Player{human, NewBotPlayer("b1", b)}, nil, nil, logger)
	require.NoError(t, err)
	g.Start()

	e := NewEngine(g, logger, nil, 0)
	require.NoError(t, e.Run(context.Background()), "a human on the clock returns without acting")
	assert.Equal(t, "h1", g.Snapshot().ActingID)

	err = e.PlayBotTurn(context.Background(), "h1")
	assert.Error(t, err)
}

func TestEngineRetriesTransientStoreFailures(t *testing.T) {
	logger := testLogger()
	players := []*Player{
		NewBotPlayer("Rocky", bot.New("Rocky", bot.Balanced.Profile(), logger)),
		NewBotPlayer("Apollo", bot.New("Apollo", bot.Aggressive.Profile(), logger)),
	}
	store := &flakyStore{failAppends: 2}
	g, err := NewGame("flaky", Config{Mode: ModeTarget, TargetScore: 2000, Seed: 42}, players, store, nil, logger)
	require.NoError(t, err)
	g.Start()

	e := NewEngine(g, logger, nil, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, e.Run(ctx), "transient write failures are resubmitted, not fatal")

	assert.True(t, g.Completed())
	assert.Zero(t, store.failAppends, "the failing writes were retried")
}

func TestEngineGivesUpAfterPersistentStoreFailure(t *testing.T) {
	logger := testLogger()
	players := []*Player{
		NewBotPlayer("Rocky", bot.New("Rocky", bot.Balanced.Profile(), logger)),
		NewBotPlayer("Apollo", bot.New("Apollo", bot.Aggressive.Profile(), logger)),
	}
	store := &flakyStore{failAppends: 1 << 20}
	g, err := NewGame("down", Config{Mode: ModeTarget, TargetScore: 2000, Seed: 42}, players, store, nil, logger)
	require.NoError(t, err)
	g.Start()

	e := NewEngine(g, logger, nil, 0)
	err = e.Run(context.Background())
	require.Error(t, err)
	var ce *CollabError
	assert.ErrorAs(t, err, &ce)
	assert.False(t, g.Completed())
}

func TestEnginePacingHonorsContext(t *testing.T) {
	g := newBotGame(t, Config{Mode: ModeTarget, TargetScore: 2000, Seed: 5}, bot.Balanced, bot.Balanced)
	e := NewEngine(g, testLogger(), nil, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, g.Completed())
}
