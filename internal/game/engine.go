package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/mschmoyer/farkledice-sub000/internal/bot"
	"github.com/mschmoyer/farkledice-sub000/internal/randutil"
)

// Engine walks bot seats through the same Roll/SaveDice/Bank primitives a
// human uses, one step at a time. A pacing delay makes spectated games
// watchable; zero pace runs flat out for simulations. The clock is
// injectable so tests advance time instantly.
type Engine struct {
	game   *Game
	clock  quartz.Clock
	pace   time.Duration
	rng    *rand.Rand
	logger *log.Logger
}

// NewEngine builds a driver for the given game. A nil clock uses real time.
func NewEngine(g *Game, logger *log.Logger, clock quartz.Clock, pace time.Duration) *Engine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Engine{
		game:   g,
		clock:  clock,
		pace:   pace,
		rng:    randutil.New(g.Config().Seed + 1),
		logger: logger.WithPrefix("engine").With("game", g.ID()),
	}
}

// Run drives consecutive bot turns until the game completes or a human seat
// comes up. All-bot games run to completion.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap := e.game.Snapshot()
		if snap.Completed {
			return nil
		}
		p, ok := e.game.Player(snap.ActingID)
		if !ok {
			return fmt.Errorf("engine: acting player %q not found", snap.ActingID)
		}
		if !p.IsBot() {
			return nil
		}
		if err := e.PlayBotTurn(ctx, p.ID); err != nil {
			return err
		}
	}
}

// PlayBotTurn plays one full turn for a bot seat: roll, decide, save
// keepers, and bank or roll again until the turn resolves.
func (e *Engine) PlayBotTurn(ctx context.Context, playerID string) error {
	p, ok := e.game.Player(playerID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
	}
	if !p.IsBot() {
		return fmt.Errorf("engine: player %q is not a bot", playerID)
	}

	for {
		if err := e.pause(ctx); err != nil {
			return err
		}
		var roll RollResult
		if err := e.submit(ctx, func() error {
			var err error
			roll, err = e.game.Roll(ctx, playerID)
			return err
		}); err != nil {
			return err
		}
		if roll.Busted {
			return nil
		}

		decision, ok := p.Bot.Decide(ctx, e.decisionContext(p, roll))
		if !ok {
			// Enumerate found combinations, so the policy cannot refuse.
			return fmt.Errorf("engine: bot %q made no decision for roll %v", p.Name, roll.Dice)
		}

		var saved SaveResult
		if err := e.submit(ctx, func() error {
			var err error
			saved, err = e.game.SaveDice(ctx, playerID, decision.Combo.Dice)
			return err
		}); err != nil {
			return err
		}
		e.logger.Debug("Bot kept dice",
			"bot", p.Name, "dice", decision.Combo.Dice, "turnScore", saved.TurnScore,
			"bank", decision.Bank, "rationale", decision.Rationale)

		if line := e.tableTalk(p, decision, saved); line != "" {
			e.game.Bus().Publish(NewChatEvent(playerID, line))
		}

		if saved.HotDice {
			continue
		}
		if decision.Bank {
			return e.submit(ctx, func() error {
				_, err := e.game.Bank(ctx, playerID)
				return err
			})
		}
	}
}

// storeRetries bounds how many times a turn action is resubmitted after a
// persistence failure before the turn is abandoned.
const storeRetries = 3

// submit runs one turn action, resubmitting it after a CollabError. The game
// rejects a failed write before mutating anything, so the resubmission is
// the same action against the same state. Without this, one flaky write
// would stall an all-bot game forever.
func (e *Engine) submit(ctx context.Context, op func() error) error {
	for attempt := 1; ; attempt++ {
		err := op()
		var ce *CollabError
		if err == nil || !errors.As(err, &ce) || attempt == storeRetries {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		e.logger.Warn("Retrying after store failure", "attempt", attempt, "error", err)
	}
}

func (e *Engine) decisionContext(p *Player, roll RollResult) bot.DecisionContext {
	snap := e.game.Snapshot()
	var total, oppBest int
	for _, ps := range snap.Players {
		if ps.ID == p.ID {
			total = ps.TotalScore
			continue
		}
		if ps.TotalScore > oppBest {
			oppBest = ps.TotalScore
		}
	}

	cfg := e.game.Config()
	dc := bot.DecisionContext{
		Roll:         roll.Dice,
		Combos:       roll.Combos,
		TurnScore:    roll.TurnScore,
		TotalScore:   total,
		OpponentBest: oppBest,
	}
	if cfg.Mode == ModeTarget {
		dc.TargetScore = cfg.TargetScore
		if total == 0 {
			dc.MinBank = cfg.BreakIn
		}
	}
	return dc
}

// tableTalk picks a chat line for noteworthy moments. An enriched decision
// brings its own line; otherwise the trash-talk dial decides whether a
// canned taunt fires on hot dice or a bank.
func (e *Engine) tableTalk(p *Player, decision bot.Decision, saved SaveResult) string {
	if decision.Chat != "" {
		return decision.Chat
	}
	if (saved.HotDice || decision.Bank) && p.Bot.ShouldTaunt(e.rng) {
		return p.Bot.TauntLine(e.rng)
	}
	return ""
}

func (e *Engine) pause(ctx context.Context) error {
	if e.pace <= 0 {
		return nil
	}
	fired := make(chan struct{})
	timer := e.clock.AfterFunc(e.pace, func() { close(fired) })
	defer timer.Stop()
	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
