package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mschmoyer/farkledice-sub000/cmd/farkledice/shared"
	"github.com/mschmoyer/farkledice-sub000/internal/bot"
	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/store"
	"github.com/mschmoyer/farkledice-sub000/internal/tui"
)

// PlayCmd runs a local interactive game against bots
type PlayCmd struct {
	Name       string `default:"You" help:"Your player name"`
	Mode       string `default:"target" enum:"target,fixed_rounds" help:"Game mode"`
	Target     int    `default:"10000" help:"Target score (target mode)"`
	Rounds     int    `default:"10" help:"Base rounds (fixed_rounds mode)"`
	Bots       int    `short:"b" default:"2" help:"Number of bot opponents (1-5)"`
	Difficulty string `default:"medium" enum:"easy,medium,hard" help:"Bot difficulty"`
	Seed       *int64 `help:"Deterministic RNG seed (optional)"`
	PaceMs     int    `default:"750" help:"Bot action pacing in milliseconds"`
	LogFile    string `default:"farkledice-play.log" help:"Debug log file (TUI owns the terminal)"`
	Debug      bool   `help:"Enable debug logging"`
}

var botNames = []string{"Rocky", "Apollo", "Clubber", "Ivan", "Tommy"}

func (c *PlayCmd) Run() error {
	if c.Bots < 1 || c.Bots > 5 {
		return fmt.Errorf("bots must be 1-5, got %d", c.Bots)
	}

	level := "info"
	if c.Debug {
		level = "debug"
	}
	logger, closer, err := shared.SetupFileLogger(c.LogFile, level)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg := game.DefaultConfig(game.Mode(c.Mode))
	cfg.TargetScore = c.Target
	cfg.BaseRounds = c.Rounds
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	} else {
		cfg.Seed = time.Now().UnixNano()
	}

	profile := bot.ProfileForDifficulty(c.Difficulty)
	players := make([]*game.Player, 0, c.Bots+1)
	players = append(players, game.NewPlayer("you", c.Name))
	for i := 0; i < c.Bots; i++ {
		name := botNames[i]
		players = append(players, game.NewBotPlayer(name, bot.New(name, profile, logger)))
	}

	g, err := game.NewGame("local", cfg, players, store.NewMemory(), nil, logger)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	pace := time.Duration(c.PaceMs) * time.Millisecond
	engine := game.NewEngine(g, logger, nil, pace)

	model := tui.NewTUIModel(logger)
	bridge := tui.NewBridge(model, g, engine, "you", logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		defer model.SendQuitSignal()
		if err := bridge.Run(ctx); err != nil {
			logger.Error("Game loop failed", "error", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
