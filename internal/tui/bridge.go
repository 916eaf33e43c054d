package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// Bridge connects the TUI to a local game: it turns engine events into log
// lines, keeps the sidebar in sync, and dispatches typed commands as game
// actions. Bot opponents run through the engine between human turns.
type Bridge struct {
	model   *TUIModel
	game    *game.Game
	engine  *game.Engine
	humanID string
	logger  *log.Logger
}

// NewBridge wires the model to the game's event bus. Call before the game
// starts so the opening turn announcement is captured.
func NewBridge(model *TUIModel, g *game.Game, engine *game.Engine, humanID string, logger *log.Logger) *Bridge {
	b := &Bridge{
		model:   model,
		game:    g,
		engine:  engine,
		humanID: humanID,
		logger:  logger.WithPrefix("bridge"),
	}
	g.Bus().Subscribe(game.EventFunc(b.onEvent))
	return b
}

// Run starts the game and drives it until completion or quit.
func (b *Bridge) Run(ctx context.Context) error {
	b.game.Start()

	for {
		b.refreshSidebar()

		if b.game.Completed() {
			b.model.SetHumanTurn(false)
			b.logStandings()
			// Leave the final log on screen until the player quits.
			action, _, cont, _ := b.model.WaitForAction()
			if !cont || action == "quit" {
				return nil
			}
			return nil
		}

		snap := b.game.Snapshot()
		if snap.ActingID != b.humanID {
			b.model.SetHumanTurn(false)
			if err := b.engine.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			continue
		}

		b.syncTurn(snap)
		action, args, cont, err := b.model.WaitForAction()
		if err != nil {
			return err
		}
		if !cont || action == "quit" {
			return nil
		}
		b.dispatch(ctx, action, args)
	}
}

// syncTurn pushes the human's current turn state into the action pane.
func (b *Bridge) syncTurn(snap game.Snapshot) {
	var combos []score.Combination
	var lastRoll []int
	if snap.Turn.Phase == game.PhaseChoosing {
		lastRoll = snap.Turn.LastRoll
		combos = score.Enumerate(lastRoll)
	}
	canBank := snap.Turn.Phase == game.PhaseDeciding
	b.model.SetHumanTurn(true)
	b.model.SetTurnState(lastRoll, combos, snap.Turn.Score(), snap.Turn.DiceRemaining, canBank)
}

// dispatch executes one typed command against the game.
func (b *Bridge) dispatch(ctx context.Context, action string, args []string) {
	switch action {
	case "", "roll", "r":
		if _, err := b.game.Roll(ctx, b.humanID); err != nil {
			b.logError(err)
		}

	case "keep", "k", "save":
		values, err := parseDice(args)
		if err != nil {
			b.model.AddLogEntry(ErrorStyle.Render("✗ " + err.Error()))
			return
		}
		if _, err := b.game.SaveDice(ctx, b.humanID, values); err != nil {
			b.logError(err)
		}

	case "bank":
		if _, err := b.game.Bank(ctx, b.humanID); err != nil {
			b.logError(err)
		}

	case "odds":
		snap := b.game.Snapshot()
		n := snap.Turn.DiceRemaining
		b.model.AddLogEntry(InfoStyle.Render(fmt.Sprintf(
			"Rolling %d dice: %.0f%% bust, %d expected points",
			n, score.BustProbability(n)*100, score.ExpectedPoints(n))))

	default:
		b.model.AddLogEntry(ErrorStyle.Render(
			"✗ Unknown command: " + action + " (try roll, keep, bank, odds, quit)"))
	}
}

func (b *Bridge) logError(err error) {
	line := "✗ " + err.Error()
	if game.IsRetryable(err) {
		line += " (nothing changed, try again)"
	}
	b.model.AddLogEntry(ErrorStyle.Render(line))
}

// refreshSidebar rebuilds the score panel from a fresh snapshot.
func (b *Bridge) refreshSidebar() {
	snap := b.game.Snapshot()

	var roundStr string
	if snap.Mode == game.ModeFixedRounds {
		roundStr = fmt.Sprintf("Round %d of %d", snap.Round, snap.MaxRound)
		if snap.Overtime {
			roundStr += " (overtime)"
		}
	} else {
		roundStr = fmt.Sprintf("Round %d", snap.Round)
	}

	players := make([]PlayerInfo, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, PlayerInfo{
			Name:   p.Name,
			Score:  p.TotalScore,
			Bot:    p.Bot,
			Acting: p.ID == snap.ActingID && !snap.Completed,
		})
	}
	b.model.SetGameInfo(snap.ID, roundStr, players)
}

// logStandings prints the final scoreboard.
func (b *Bridge) logStandings() {
	snap := b.game.Snapshot()

	sorted := make([]game.PlayerSnapshot, len(snap.Players))
	copy(sorted, snap.Players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})

	b.model.AddLogEntry("")
	b.model.AddLogEntry(HeaderStyle.Render(" Final standings "))
	for i, p := range sorted {
		line := fmt.Sprintf("%d. %s — %d", i+1, p.Name, p.TotalScore)
		if p.ID == snap.WinnerID {
			line = SuccessStyle.Render(line + "  ★")
		}
		b.model.AddLogEntry(line)
	}
	b.model.AddLogEntry(InfoStyle.Render("Press Enter or type quit to exit"))
}

// onEvent formats engine events into log lines.
func (b *Bridge) onEvent(e game.GameEvent) {
	switch ev := e.(type) {
	case game.TurnStartEvent:
		b.model.AddLogEntry("")
		b.model.AddLogEntry(TurnInfoStyle.Render(
			fmt.Sprintf("— %s's turn (round %d) —", b.nameOf(ev.PlayerID), ev.Round)))

	case game.RollEvent:
		b.model.AddLogEntry(fmt.Sprintf("%s rolls %s", b.nameOf(ev.PlayerID), FormatDice(ev.Dice)))

	case game.KeepEvent:
		b.model.AddLogEntry(fmt.Sprintf("%s keeps %s for %d (turn total %d)",
			b.nameOf(ev.PlayerID), FormatDice(ev.Dice), ev.Points, ev.TurnScore))

	case game.HotDiceEvent:
		b.model.AddLogEntry(WarningStyle.Render(fmt.Sprintf(
			"🔥 Hot dice! %s rolls all six again (turn total %d)",
			b.nameOf(ev.PlayerID), ev.TurnScore)))

	case game.BankEvent:
		line := fmt.Sprintf("%s banks %d (total %d)", b.nameOf(ev.PlayerID), ev.RoundScore, ev.TotalScore)
		if ev.RoundScore == 0 {
			line = fmt.Sprintf("%s banks short of the break-in — round scored 0", b.nameOf(ev.PlayerID))
		}
		b.model.AddLogEntry(SuccessStyle.Render(line))

	case game.BustEvent:
		line := fmt.Sprintf("💥 %s busts", b.nameOf(ev.PlayerID))
		if ev.Forfeited > 0 {
			line += fmt.Sprintf(", forfeiting %d", ev.Forfeited)
		}
		b.model.AddLogEntry(ErrorStyle.Render(line))

	case game.AchievementEvent:
		b.model.AddLogEntry(WarningStyle.Render(
			fmt.Sprintf("⭐ %s: %s", b.nameOf(ev.PlayerID), describeAchievement(ev))))

	case game.OvertimeEvent:
		names := make([]string, len(ev.PlayerIDs))
		for i, id := range ev.PlayerIDs {
			names[i] = b.nameOf(id)
		}
		b.model.AddLogEntry(WarningStyle.Render(fmt.Sprintf(
			"Tie at the top! Overtime round %d: %s", ev.Round, strings.Join(names, ", "))))

	case game.CompletedEvent:
		b.model.AddLogEntry(HeaderStyle.Render(
			fmt.Sprintf(" 🏆 %s wins! ", ev.WinnerName)))

	case game.ChatEvent:
		b.model.AddLogEntry(InfoStyle.Render(
			fmt.Sprintf("%s: %q", b.nameOf(ev.PlayerID), ev.Line)))
	}
}

func (b *Bridge) nameOf(id string) string {
	if p, ok := b.game.Player(id); ok {
		return p.Name
	}
	return id
}

func describeAchievement(ev game.AchievementEvent) string {
	switch ev.Kind {
	case game.AchievementSixOfAKind:
		return fmt.Sprintf("six %ds!", ev.Face)
	case game.AchievementStraight:
		return "a full straight!"
	case game.AchievementThreePairs:
		return "three pairs!"
	case game.AchievementTwoTriplets:
		return "two triplets!"
	case game.AchievementBigRound:
		return fmt.Sprintf("a %d point round!", ev.Points)
	}
	return string(ev.Kind)
}

func parseDice(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("keep needs dice values, e.g. keep 1 1 5")
	}
	values := make([]int, 0, len(args))
	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 || v > 6 {
			return nil, fmt.Errorf("invalid die value %q", arg)
		}
		values = append(values, v)
	}
	return values, nil
}
