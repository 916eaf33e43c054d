// Package simulator plays bot-vs-bot Farkle in bulk to compare risk
// profiles. Games are independent and run concurrently; each is seeded so
// any single result can be replayed.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mschmoyer/farkledice-sub000/internal/bot"
	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Tiers       []bot.Tier
	Mode        game.Mode
	TargetScore int
	Rounds      int
	Seed        int64
	Workers     int
	Timeout     time.Duration
	Logger      *log.Logger
}

// Simulator runs Farkle game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if len(config.Tiers) == 0 {
		config.Tiers = []bot.Tier{bot.Cautious, bot.Balanced, bot.Aggressive}
	}
	return &Simulator{config: config}
}

// Run executes the batch and returns aggregate statistics.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	stats := statistics.New(len(s.config.Tiers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Games; i++ {
		i := i
		g.Go(func() error {
			result, err := s.playGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, result.Seed, err)
			}
			mu.Lock()
			stats.Add(result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playGame simulates one full game. Seat order rotates with the game index
// so no profile always acts first.
func (s *Simulator) playGame(ctx context.Context, index int) (statistics.GameResult, error) {
	gameSeed := s.config.Seed + int64(index)
	result := statistics.GameResult{Seed: gameSeed, Winner: -1}

	n := len(s.config.Tiers)
	players := make([]*game.Player, 0, n)
	profileByID := make(map[string]int, n)
	for seat := 0; seat < n; seat++ {
		profile := (seat + index) % n
		tier := s.config.Tiers[profile]
		id := fmt.Sprintf("%s-%d", tier, profile)
		players = append(players, game.NewBotPlayer(id, bot.New(id, tier.Profile(), s.config.Logger)))
		profileByID[id] = profile
	}

	cfg := game.DefaultConfig(s.config.Mode)
	cfg.Seed = gameSeed
	cfg.EmitAchievements = false
	if s.config.TargetScore > 0 {
		cfg.TargetScore = s.config.TargetScore
	}
	if s.config.Rounds > 0 {
		cfg.BaseRounds = s.config.Rounds
	}

	g, err := game.NewGame(fmt.Sprintf("sim-%d", index), cfg, players, game.NullStore{}, nil, s.config.Logger)
	if err != nil {
		return result, err
	}
	g.Start()

	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	engine := game.NewEngine(g, s.config.Logger, nil, 0)
	if err := engine.Run(runCtx); err != nil {
		return result, fmt.Errorf("hang detected: %w", err)
	}
	if !g.Completed() {
		return result, fmt.Errorf("game did not complete")
	}

	snap := g.Snapshot()
	result.Overtime = snap.Overtime
	if snap.Mode == game.ModeFixedRounds {
		result.Rounds = snap.MaxRound
	} else {
		result.Rounds = snap.Round
	}
	result.Scores = make([]int, n)
	for _, p := range snap.Players {
		result.Scores[profileByID[p.ID]] = p.TotalScore
	}
	if winner, ok := profileByID[snap.WinnerID]; ok {
		result.Winner = winner
	}
	return result, nil
}

// PrintSummary prints a comprehensive summary of simulation results
func (s *Simulator) PrintSummary(stats *statistics.Statistics) {
	fmt.Printf("\n=== SIMULATION RESULTS ===\n")
	fmt.Printf("Games played: %d\n", stats.Games)
	fmt.Printf("Mean length: %.1f rounds\n", stats.MeanRounds())
	if stats.Overtimes > 0 {
		fmt.Printf("Overtime games: %d (%.1f%%)\n", stats.Overtimes,
			float64(stats.Overtimes)/float64(stats.Games)*100)
	}

	fmt.Printf("\n=== PROFILE RESULTS ===\n")
	for i, tier := range s.config.Tiers {
		p := stats.Profiles[i]
		fmt.Printf("%-16s %d wins (%.1f%%), %.0f avg score\n",
			tier, p.Wins, p.WinRate()*100, p.MeanScore())
	}

	fmt.Printf("\n=== WINNING SCORES ===\n")
	low, high := stats.ConfidenceInterval95()
	fmt.Printf("Mean: %.0f  Median: %.0f  Std Dev: %.0f\n", stats.Mean(), stats.Median(), stats.StdDev())
	fmt.Printf("95%% CI: [%.0f, %.0f]\n", low, high)
	fmt.Printf("Percentiles: P5=%.0f, P25=%.0f, P75=%.0f, P95=%.0f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
}
