package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mschmoyer/farkledice-sub000/cmd/farkledice/shared"
	"github.com/mschmoyer/farkledice-sub000/internal/bot"
	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/simulator"
)

// SimulateCmd runs bot-vs-bot batch simulations
type SimulateCmd struct {
	Games    int    `short:"n" default:"1000" help:"Number of games to simulate"`
	Profiles string `default:"cautious,balanced,aggressive" help:"Comma-separated risk profiles (very-cautious, cautious, balanced, aggressive, very-aggressive)"`
	Mode     string `default:"target" enum:"target,fixed_rounds" help:"Game mode"`
	Target   int    `default:"10000" help:"Target score (target mode)"`
	Rounds   int    `default:"10" help:"Base rounds (fixed_rounds mode)"`
	Seed     int64  `default:"1" help:"Base RNG seed; game i uses seed+i"`
	Workers  int    `short:"w" default:"8" help:"Concurrent games"`
	Debug    bool   `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	level := "warn"
	if c.Debug {
		level = "debug"
	}
	logger := shared.SetupLogger(level)

	tiers, err := parseTiers(c.Profiles)
	if err != nil {
		return err
	}

	sim := simulator.New(simulator.Config{
		Games:       c.Games,
		Tiers:       tiers,
		Mode:        game.Mode(c.Mode),
		TargetScore: c.Target,
		Rounds:      c.Rounds,
		Seed:        c.Seed,
		Workers:     c.Workers,
		Logger:      logger,
	})

	ctx := shared.SetupSignalHandler()

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	sim.PrintSummary(stats)
	fmt.Printf("\nCompleted %d games in %s\n", stats.Games, time.Since(start).Round(time.Millisecond))
	return nil
}

func parseTiers(spec string) ([]bot.Tier, error) {
	byName := map[string]bot.Tier{
		"very-cautious":   bot.VeryCautious,
		"cautious":        bot.Cautious,
		"balanced":        bot.Balanced,
		"aggressive":      bot.Aggressive,
		"very-aggressive": bot.VeryAggressive,
	}

	parts := strings.Split(spec, ",")
	tiers := make([]bot.Tier, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(strings.ToLower(part))
		tier, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", name)
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) < 2 {
		return nil, fmt.Errorf("need at least two profiles, got %d", len(tiers))
	}
	return tiers, nil
}
