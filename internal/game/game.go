// Package game owns the authoritative Farkle turn and round state machine:
// roll, save keepers, decide, bank or bust, and the mode-dependent round
// bookkeeping including overtime escalation. Every mutating operation names
// the acting player explicitly and is serialized by a per-game mutex;
// concurrent actions on different games are fully independent.
package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mschmoyer/farkledice-sub000/internal/dice"
	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// Mode selects how rounds are counted and how the game ends.
type Mode string

const (
	// ModeTarget plays a single shared round counter until a player banks
	// past the target score.
	ModeTarget Mode = "target"
	// ModeFixedRounds plays per-player round counters to a fixed count,
	// with sudden-death overtime rounds on a tie at the top.
	ModeFixedRounds Mode = "fixed_rounds"
)

// ScoreAdjuster post-processes a banked round score before it is recorded.
// The default is identity; house rules hook in here.
type ScoreAdjuster func(playerID string, roundScore int) int

// Config carries the rule knobs for one game. Zero numeric fields take the
// standard values; EmitAchievements is explicit because silent simulation
// runs want it off.
type Config struct {
	Mode           Mode
	TargetScore    int
	BaseRounds     int
	OvertimeRounds int
	// BreakIn is the minimum first bank in target-score mode. Until a
	// player is on the board, banking less records a zero round.
	BreakIn           int
	BigRoundThreshold int
	EmitAchievements  bool
	Adjust            ScoreAdjuster
	Seed              int64
	// Rolls overrides the dice source; nil uses a roller seeded from Seed.
	Rolls RollSource
}

// RollSource produces raw rolls of n dice. *dice.Roller is the production
// implementation; tests script exact sequences.
type RollSource interface {
	Roll(n int) []int
}

// DefaultConfig returns the standard rules for the given mode.
func DefaultConfig(mode Mode) Config {
	return Config{Mode: mode, EmitAchievements: true}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeTarget
	}
	if c.TargetScore == 0 {
		c.TargetScore = 10000
	}
	if c.BaseRounds == 0 {
		c.BaseRounds = 10
	}
	if c.OvertimeRounds == 0 {
		c.OvertimeRounds = 3
	}
	if c.BreakIn == 0 {
		c.BreakIn = 500
	}
	if c.BigRoundThreshold == 0 {
		c.BigRoundThreshold = 1000
	}
	return c
}

// Game is one multiplayer match. All mutating operations lock the game;
// reads take the same lock but copy out, so display readers never hold it.
type Game struct {
	mu      sync.Mutex
	id      string
	cfg     Config
	players []*Player
	byID    map[string]*Player
	roller  RollSource
	store   Store
	bus     EventBus
	logger  *log.Logger

	started     bool
	turnIdx     int
	turn        TurnState
	sharedRound int
	maxRound    int
	overtime    bool
	winnerID    string
	completed   bool
}

// NewGame assembles a match. A nil store persists nothing and a nil bus
// swallows events.
func NewGame(id string, cfg Config, players []*Player, store Store, bus EventBus, logger *log.Logger) (*Game, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("game: at least one player required")
	}
	byID := make(map[string]*Player, len(players))
	for _, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("game: player %q has no id", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("game: duplicate player id %q", p.ID)
		}
		p.Round = 1
		byID[p.ID] = p
	}
	if store == nil {
		store = NullStore{}
	}
	if bus == nil {
		bus = NewEventBus()
	}
	cfg = cfg.withDefaults()
	roller := cfg.Rolls
	if roller == nil {
		roller = dice.NewRoller(cfg.Seed)
	}
	return &Game{
		id:          id,
		cfg:         cfg,
		players:     players,
		byID:        byID,
		roller:      roller,
		store:       store,
		bus:         bus,
		logger:      logger.WithPrefix("game").With("game", id),
		turn:        newTurn(players[0].ID),
		sharedRound: 1,
		maxRound:    cfg.BaseRounds,
	}, nil
}

// ID returns the game's identifier.
func (g *Game) ID() string { return g.id }

// Config returns the rule configuration in effect.
func (g *Game) Config() Config { return g.cfg }

// Bus returns the event bus so callers can subscribe before Start.
func (g *Game) Bus() EventBus { return g.bus }

// Start announces the first turn. Call it after subscribers are attached;
// calling twice is a no-op.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started || g.completed {
		return
	}
	g.started = true
	p := g.players[g.turnIdx]
	g.bus.Publish(NewTurnStartEvent(p.ID, g.currentRound(p)))
}

// RollResult is what one roll produced.
type RollResult struct {
	Dice   []int
	Combos []score.Combination
	Busted bool
	// TurnScore is the unbanked score standing after the roll resolved;
	// zero when busted.
	TurnScore int
}

// Roll throws the acting player's free dice. A roll with no scoring
// combination is a bust: the round is recorded as zero, the unbanked turn
// score is forfeited, and the turn passes on.
func (g *Game) Roll(ctx context.Context, playerID string) (RollResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkTurn(playerID); err != nil {
		return RollResult{}, err
	}
	if g.turn.Phase != PhaseRolling && g.turn.Phase != PhaseDeciding {
		return RollResult{}, fmt.Errorf("%w: cannot roll while %s", ErrOutOfPhase, g.turn.Phase)
	}

	player := g.byID[playerID]
	rolled := g.roller.Roll(g.turn.DiceRemaining)
	combos := score.Enumerate(rolled)

	if len(combos) == 0 {
		round := g.currentRound(player)
		if err := g.store.AppendRound(ctx, RoundRecord{GameID: g.id, PlayerID: playerID, Round: round, Score: 0}); err != nil {
			return RollResult{}, &CollabError{Op: "append round", Err: err}
		}
		forfeited := g.turn.Score()
		player.RoundScores = append(player.RoundScores, 0)
		g.bus.Publish(NewRollEvent(playerID, rolled, g.turn.Hand))
		g.bus.Publish(NewBustEvent(playerID, round, rolled, forfeited))
		g.logger.Debug("Bust", "player", playerID, "round", round, "forfeited", forfeited)
		g.advanceAfterTurn(ctx, player)
		return RollResult{Dice: rolled, Busted: true}, nil
	}

	g.turn.LastRoll = rolled
	g.turn.Phase = PhaseChoosing
	g.bus.Publish(NewRollEvent(playerID, rolled, g.turn.Hand))
	return RollResult{Dice: rolled, Combos: combos, TurnScore: g.turn.Score()}, nil
}

// SaveResult is what saving keepers produced.
type SaveResult struct {
	// Points is the saved declaration's own score, in isolation.
	Points int
	// TurnScore is the unbanked turn score with the keepers counted.
	TurnScore int
	// HotDice reports that all six dice now score: the hand restarts and
	// the player must roll again, banking is not on offer.
	HotDice       bool
	DiceRemaining int
}

// SaveDice sets dice from the last roll aside as keepers. The values must
// be a sub-multiset of the last roll and must score on their own; anything
// else is rejected without mutation.
func (g *Game) SaveDice(ctx context.Context, playerID string, values []int) (SaveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkTurn(playerID); err != nil {
		return SaveResult{}, err
	}
	if g.turn.Phase != PhaseChoosing {
		return SaveResult{}, fmt.Errorf("%w: cannot save dice while %s", ErrOutOfPhase, g.turn.Phase)
	}
	if !g.turn.containsRoll(values) {
		return SaveResult{}, fmt.Errorf("%w: saved %v against roll %v", ErrDiceMismatch, values, g.turn.LastRoll)
	}

	declared, err := dice.FromValues(values)
	if err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", ErrDiceMismatch, err)
	}
	res := score.Evaluate(declared)
	if res.Points == 0 {
		return SaveResult{}, fmt.Errorf("%w: %v", ErrNoScoringDice, values)
	}

	turn := g.turn
	if err := turn.Kept.Add(values); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", ErrDiceMismatch, err)
	}
	turn.DiceRemaining -= len(values)
	hot := turn.DiceRemaining == 0
	if hot {
		turn.Carried += score.Score(turn.Kept)
		turn.Kept = dice.Set{}
		turn.DiceRemaining = dice.NumDice
		turn.Hand++
		turn.Phase = PhaseRolling
	} else {
		turn.Phase = PhaseDeciding
	}

	if err := g.store.SaveTurn(ctx, TurnRecord{
		GameID:        g.id,
		PlayerID:      playerID,
		Kept:          turn.Kept.Active(),
		TurnScore:     turn.Score(),
		DiceRemaining: turn.DiceRemaining,
		Hand:          turn.Hand,
	}); err != nil {
		return SaveResult{}, &CollabError{Op: "save turn", Err: err}
	}
	g.turn = turn

	g.bus.Publish(NewKeepEvent(playerID, values, res.Points, turn.Score()))
	g.announcePatterns(playerID, res)
	if hot {
		g.bus.Publish(NewHotDiceEvent(playerID, turn.Hand, turn.Score()))
		g.logger.Debug("Hot dice", "player", playerID, "hand", turn.Hand, "turnScore", turn.Score())
	}
	return SaveResult{
		Points:        res.Points,
		TurnScore:     turn.Score(),
		HotDice:       hot,
		DiceRemaining: turn.DiceRemaining,
	}, nil
}

// BankOutcome is what banking produced.
type BankOutcome struct {
	Round      int
	RoundScore int
	TotalScore int
	// Won reports that the bank ended the game in target-score mode.
	Won bool
}

// Bank ends the turn voluntarily, converting the unbanked turn score into a
// round record. In target-score mode a player who is not yet on the board
// must bank at least the break-in minimum or the round records zero.
func (g *Game) Bank(ctx context.Context, playerID string) (BankOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkTurn(playerID); err != nil {
		return BankOutcome{}, err
	}
	if g.turn.Phase != PhaseDeciding {
		return BankOutcome{}, fmt.Errorf("%w: cannot bank while %s", ErrOutOfPhase, g.turn.Phase)
	}

	player := g.byID[playerID]
	turnScore := g.turn.Score()
	roundScore := turnScore
	if g.cfg.Mode == ModeTarget && player.TotalScore == 0 && turnScore < g.cfg.BreakIn {
		roundScore = 0
	}
	if g.cfg.Adjust != nil {
		roundScore = g.cfg.Adjust(playerID, roundScore)
	}

	round := g.currentRound(player)
	if err := g.store.AppendRound(ctx, RoundRecord{GameID: g.id, PlayerID: playerID, Round: round, Score: roundScore}); err != nil {
		return BankOutcome{}, &CollabError{Op: "append round", Err: err}
	}
	player.RoundScores = append(player.RoundScores, roundScore)
	player.TotalScore += roundScore

	g.bus.Publish(NewBankEvent(playerID, round, roundScore, player.TotalScore))
	if g.cfg.EmitAchievements && roundScore >= g.cfg.BigRoundThreshold {
		g.bus.Publish(NewAchievementEvent(playerID, AchievementBigRound, 0, roundScore))
	}
	g.logger.Debug("Banked", "player", playerID, "round", round, "score", roundScore, "total", player.TotalScore)

	out := BankOutcome{Round: round, RoundScore: roundScore, TotalScore: player.TotalScore}
	if g.cfg.Mode == ModeTarget && player.TotalScore >= g.cfg.TargetScore {
		out.Won = true
		g.complete(ctx, player)
		return out, nil
	}
	g.advanceAfterTurn(ctx, player)
	return out, nil
}

// Snapshot is a stale-tolerant copy of the game for display.
type Snapshot struct {
	ID        string
	Mode      Mode
	Round     int
	MaxRound  int
	Overtime  bool
	Completed bool
	WinnerID  string
	ActingID  string
	Turn      TurnState
	Players   []PlayerSnapshot
}

// PlayerSnapshot is one seat's public state.
type PlayerSnapshot struct {
	ID         string
	Name       string
	Bot        bool
	TotalScore int
	Round      int
	BestRound  int
}

// Snapshot copies out the current state for display. Safe to call
// concurrently with mutations; the copy may be immediately stale.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	acting := g.players[g.turnIdx]
	snap := Snapshot{
		ID:        g.id,
		Mode:      g.cfg.Mode,
		Round:     g.currentRound(acting),
		MaxRound:  g.maxRound,
		Overtime:  g.overtime,
		Completed: g.completed,
		WinnerID:  g.winnerID,
		ActingID:  g.turn.PlayerID,
		Turn:      g.turn,
	}
	snap.Turn.LastRoll = append([]int(nil), g.turn.LastRoll...)
	for _, p := range g.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Bot:        p.IsBot(),
			TotalScore: p.TotalScore,
			Round:      p.Round,
			BestRound:  p.BestRound(),
		})
	}
	return snap
}

// Completed reports whether the game has reached its terminal state.
func (g *Game) Completed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.completed
}

// Winner returns the winning player id, empty until completion.
func (g *Game) Winner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winnerID
}

// Player looks up a seat by id.
func (g *Game) Player(id string) (*Player, bool) {
	p, ok := g.byID[id]
	return p, ok
}

func (g *Game) checkTurn(playerID string) error {
	if g.completed {
		return ErrGameCompleted
	}
	if _, ok := g.byID[playerID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
	}
	if g.turn.PlayerID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) currentRound(p *Player) int {
	if g.cfg.Mode == ModeFixedRounds {
		return p.Round
	}
	return g.sharedRound
}

func (g *Game) announcePatterns(playerID string, res score.Result) {
	if !g.cfg.EmitAchievements {
		return
	}
	if res.SixOfAKindFace != 0 {
		g.bus.Publish(NewAchievementEvent(playerID, AchievementSixOfAKind, res.SixOfAKindFace, 0))
	}
	if res.Straight {
		g.bus.Publish(NewAchievementEvent(playerID, AchievementStraight, 0, 0))
	}
	if res.ThreePairs {
		g.bus.Publish(NewAchievementEvent(playerID, AchievementThreePairs, 0, 0))
	}
	if res.TwoTriplets {
		g.bus.Publish(NewAchievementEvent(playerID, AchievementTwoTriplets, 0, 0))
	}
}

// advanceAfterTurn moves play to the next seat, or in fixed-round mode runs
// the completion check when everyone has finished the current max round.
func (g *Game) advanceAfterTurn(ctx context.Context, played *Player) {
	if g.cfg.Mode == ModeTarget {
		g.turnIdx = (g.turnIdx + 1) % len(g.players)
		if g.turnIdx == 0 {
			g.sharedRound++
		}
		g.startTurn(g.players[g.turnIdx])
		g.persistGame(ctx)
		return
	}

	played.Round++
	if next := g.nextFixedPlayer(); next != nil {
		g.startTurn(next)
		g.persistGame(ctx)
		return
	}
	g.evaluateFixedCompletion(ctx)
}

// nextFixedPlayer finds the next seat still owed a round, preserving seat
// order, or nil when everyone has finished the current max round.
func (g *Game) nextFixedPlayer() *Player {
	for i := 1; i <= len(g.players); i++ {
		p := g.players[(g.turnIdx+i)%len(g.players)]
		if p.Round <= g.maxRound {
			g.turnIdx = (g.turnIdx + i) % len(g.players)
			return p
		}
	}
	return nil
}

// evaluateFixedCompletion runs only when every player's round counter has
// passed the current max round, so a retried no-op can never reach it twice
// for the same round: after an escalation the tied leaders are back inside
// the new max round.
func (g *Game) evaluateFixedCompletion(ctx context.Context) {
	top := 0
	for _, p := range g.players {
		if p.TotalScore > top {
			top = p.TotalScore
		}
	}
	var leaders []*Player
	for _, p := range g.players {
		if p.TotalScore == top {
			leaders = append(leaders, p)
		}
	}

	ceiling := g.cfg.BaseRounds + g.cfg.OvertimeRounds
	if len(leaders) > 1 && g.maxRound < ceiling {
		g.maxRound++
		g.overtime = true
		tied := make(map[string]bool, len(leaders))
		ids := make([]string, 0, len(leaders))
		for _, l := range leaders {
			tied[l.ID] = true
			ids = append(ids, l.ID)
		}
		// Sudden death belongs to the tied leaders only. Everyone else is
		// moved past the extra round so nextFixedPlayer skips them.
		for _, p := range g.players {
			if tied[p.ID] {
				p.Round = g.maxRound
			} else {
				p.Round = g.maxRound + 1
			}
		}
		g.bus.Publish(NewOvertimeEvent(g.maxRound, ids))
		g.logger.Info("Overtime", "round", g.maxRound, "players", ids)
		for i, p := range g.players {
			if p == leaders[0] {
				g.turnIdx = i
				break
			}
		}
		g.startTurn(leaders[0])
		g.persistGame(ctx)
		return
	}

	winner := leaders[0]
	if len(leaders) > 1 {
		winner = g.breakTie(leaders)
	}
	g.complete(ctx, winner)
}

// breakTie compares tied leaders by their single highest recorded round,
// then the next highest, and so on. A dead-even history falls to the
// earliest seat, which is logged for the operator since recorded scores
// could not determine a winner.
func (g *Game) breakTie(leaders []*Player) *Player {
	best := leaders[0]
	bestScores := best.sortedRoundScores()
	unresolved := false
	for _, p := range leaders[1:] {
		scores := p.sortedRoundScores()
		switch compareDesc(scores, bestScores) {
		case 1:
			best, bestScores, unresolved = p, scores, false
		case 0:
			unresolved = true
		}
	}
	if unresolved {
		g.logger.Warn("Tie unresolved by round history, awarding earliest seat",
			"player", best.ID, "total", best.TotalScore)
	}
	return best
}

func compareDesc(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func (g *Game) startTurn(p *Player) {
	g.turn = newTurn(p.ID)
	g.bus.Publish(NewTurnStartEvent(p.ID, g.currentRound(p)))
}

func (g *Game) complete(ctx context.Context, winner *Player) {
	g.completed = true
	g.winnerID = winner.ID
	totals := make(map[string]int, len(g.players))
	for _, p := range g.players {
		totals[p.ID] = p.TotalScore
	}
	g.bus.Publish(NewCompletedEvent(winner.ID, winner.Name, totals))
	g.logger.Info("Game completed", "winner", winner.Name, "total", winner.TotalScore)
	g.persistGame(ctx)
}

// persistGame records the game-level fields. A failure here does not undo
// an already-recorded round; it is logged for the operator and the
// in-memory state stands.
func (g *Game) persistGame(ctx context.Context) {
	rec := GameRecord{
		GameID:    g.id,
		Mode:      g.cfg.Mode,
		Round:     g.sharedRound,
		MaxRound:  g.maxRound,
		Overtime:  g.overtime,
		WinnerID:  g.winnerID,
		Completed: g.completed,
	}
	if err := g.store.SaveGame(ctx, rec); err != nil {
		g.logger.Warn("Failed to persist game record", "error", err)
	}
}
