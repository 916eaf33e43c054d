package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mschmoyer/farkledice-sub000/internal/bot"
	"github.com/mschmoyer/farkledice-sub000/internal/game"
)

// MaxSeats caps the table size.
const MaxSeats = 6

// Broadcaster pushes a message to every connection watching a game.
type Broadcaster interface {
	BroadcastToGame(gameID string, msg *Message)
}

// ManagedGame is one lobby and, once started, its running game and bot
// driver.
type ManagedGame struct {
	ID   string
	Host string

	mu     sync.Mutex
	humans []string
	bots   []*bot.Bot
	cfg    game.Config
	game   *game.Game
	engine *game.Engine

	// botMu ensures a single bot drive loop per game.
	botMu sync.Mutex
}

func (mg *ManagedGame) started() bool {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return mg.game != nil
}

func (mg *ManagedGame) playerNames() []string {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	names := append([]string(nil), mg.humans...)
	for _, b := range mg.bots {
		names = append(names, b.Name())
	}
	return names
}

// GameManager tracks lobbies and running games. The first provisioned game
// becomes the default join target.
type GameManager struct {
	logger      *log.Logger
	store       game.Store
	pace        time.Duration
	broadcaster Broadcaster

	mu            sync.RWMutex
	games         map[string]*ManagedGame
	defaultGameID string
}

// NewGameManager constructs an empty game manager.
func NewGameManager(logger *log.Logger, store game.Store, pace time.Duration) *GameManager {
	if store == nil {
		store = game.NullStore{}
	}
	return &GameManager{
		logger: logger.WithPrefix("manager"),
		store:  store,
		pace:   pace,
		games:  make(map[string]*ManagedGame),
	}
}

// SetBroadcaster wires the server's fan-out. Must be called before any game
// starts.
func (m *GameManager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// ProvisionFromConfig creates the lobbies declared in the server config.
// They have no host, so the first human in can start them.
func (m *GameManager) ProvisionFromConfig(cfg *ServerConfig) error {
	for _, gc := range cfg.Games {
		bots := make([]*bot.Bot, 0, len(gc.Bots))
		for _, name := range gc.Bots {
			bc := cfg.GetBotByName(name)
			if bc == nil {
				return fmt.Errorf("game %s: unknown bot %s", gc.Name, name)
			}
			bots = append(bots, m.buildBot(bc.Name, bc.Difficulty, bc.RiskTolerance, bc.TrashTalk, bc.EnrichURL))
		}
		mg := &ManagedGame{
			ID:   gc.Name,
			bots: bots,
			cfg: game.Config{
				Mode:             game.Mode(gc.Mode),
				TargetScore:      gc.TargetScore,
				BaseRounds:       gc.Rounds,
				OvertimeRounds:   gc.OvertimeRounds,
				BreakIn:          gc.BreakIn,
				EmitAchievements: true,
				Seed:             time.Now().UnixNano(),
			},
		}
		m.mu.Lock()
		m.games[mg.ID] = mg
		if m.defaultGameID == "" {
			m.defaultGameID = mg.ID
		}
		m.mu.Unlock()
		m.logger.Info("Provisioned game", "game", mg.ID, "mode", gc.Mode, "bots", len(bots))
	}
	return nil
}

// CreateGame opens a new lobby hosted by the given player.
func (m *GameManager) CreateGame(hostID string, data CreateGameData) (*ManagedGame, error) {
	mode := game.ModeTarget
	if data.Mode != "" {
		switch game.Mode(data.Mode) {
		case game.ModeTarget, game.ModeFixedRounds:
			mode = game.Mode(data.Mode)
		default:
			return nil, fmt.Errorf("invalid mode %q", data.Mode)
		}
	}
	if len(data.Bots)+1 > MaxSeats {
		return nil, fmt.Errorf("too many seats: %d max", MaxSeats)
	}

	bots := make([]*bot.Bot, 0, len(data.Bots))
	for i, seat := range data.Bots {
		name := seat.Name
		if name == "" {
			name = fmt.Sprintf("bot-%d", i+1)
		}
		bots = append(bots, m.buildBot(name, seat.Difficulty, 0, 0, seat.EnrichURL))
	}

	mg := &ManagedGame{
		ID:     uuid.New().String(),
		Host:   hostID,
		humans: []string{hostID},
		bots:   bots,
		cfg: game.Config{
			Mode:             mode,
			TargetScore:      data.TargetScore,
			BaseRounds:       data.Rounds,
			OvertimeRounds:   data.OvertimeRounds,
			EmitAchievements: true,
			Seed:             time.Now().UnixNano(),
		},
	}

	m.mu.Lock()
	m.games[mg.ID] = mg
	m.mu.Unlock()
	m.logger.Info("Game created", "game", mg.ID, "host", hostID, "mode", mode, "bots", len(bots))
	return mg, nil
}

// JoinGame seats a human in a lobby that has not started yet.
func (m *GameManager) JoinGame(gameID, playerID string) (*ManagedGame, error) {
	mg, err := m.gameFor(gameID)
	if err != nil {
		return nil, err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if mg.game != nil {
		return nil, fmt.Errorf("game %s already started", gameID)
	}
	for _, id := range mg.humans {
		if id == playerID {
			return nil, fmt.Errorf("already seated")
		}
	}
	if len(mg.humans)+len(mg.bots) >= MaxSeats {
		return nil, fmt.Errorf("game %s is full", gameID)
	}
	mg.humans = append(mg.humans, playerID)
	return mg, nil
}

// StartGame builds the engine and begins play. Only the host may start a
// hosted lobby; provisioned lobbies can be started by any seated player.
func (m *GameManager) StartGame(gameID, playerID string) error {
	mg, err := m.gameFor(gameID)
	if err != nil {
		return err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()
	if mg.game != nil {
		return fmt.Errorf("game %s already started", gameID)
	}
	if mg.Host != "" && mg.Host != playerID {
		return fmt.Errorf("only the host can start the game")
	}
	seated := false
	for _, id := range mg.humans {
		if id == playerID {
			seated = true
			break
		}
	}
	if !seated {
		return fmt.Errorf("player %s is not seated", playerID)
	}
	if len(mg.humans)+len(mg.bots) < 2 {
		return fmt.Errorf("need at least two seats to start")
	}

	players := make([]*game.Player, 0, len(mg.humans)+len(mg.bots))
	for _, id := range mg.humans {
		players = append(players, game.NewPlayer(id, id))
	}
	for _, b := range mg.bots {
		players = append(players, game.NewBotPlayer(b.Name(), b))
	}

	bus := game.NewEventBus()
	id := mg.ID
	bus.Subscribe(game.EventFunc(func(e game.GameEvent) {
		if m.broadcaster == nil {
			return
		}
		msg, err := NewMessage(MessageTypeGameEvent, eventToWire(id, e))
		if err != nil {
			return
		}
		m.broadcaster.BroadcastToGame(id, msg)
	}))

	g, err := game.NewGame(mg.ID, mg.cfg, players, m.store, bus, m.logger)
	if err != nil {
		return err
	}
	mg.game = g
	mg.engine = game.NewEngine(g, m.logger, nil, m.pace)
	g.Start()

	m.logger.Info("Game started", "game", mg.ID, "players", len(players))
	m.broadcastState(mg)
	m.driveBots(mg)
	return nil
}

// ListGames returns a snapshot of available games.
func (m *GameManager) ListGames() []GameSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]GameSummary, 0, len(m.games))
	for _, mg := range m.games {
		s := GameSummary{
			ID:      mg.ID,
			Players: len(mg.playerNames()),
		}
		mg.mu.Lock()
		s.Mode = string(mg.cfg.Mode)
		if s.Mode == "" {
			s.Mode = string(game.ModeTarget)
		}
		started := mg.game != nil
		if started {
			s.Completed = mg.game.Completed()
		}
		mg.mu.Unlock()
		s.Started = started
		summaries = append(summaries, s)
	}
	return summaries
}

// DefaultGameID returns the first provisioned game, if any.
func (m *GameManager) DefaultGameID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultGameID
}

// Roll performs a human roll action.
func (m *GameManager) Roll(ctx context.Context, gameID, playerID string) (RollResultData, error) {
	mg, g, err := m.runningGame(gameID)
	if err != nil {
		return RollResultData{}, err
	}
	res, err := g.Roll(ctx, playerID)
	if err != nil {
		return RollResultData{}, err
	}
	m.broadcastState(mg)
	if res.Busted {
		m.driveBots(mg)
	}
	return RollResultData{
		GameID:    gameID,
		Dice:      res.Dice,
		Busted:    res.Busted,
		TurnScore: res.TurnScore,
		Combos:    combosToWire(res.Combos),
	}, nil
}

// Keep performs a human save-keepers action.
func (m *GameManager) Keep(ctx context.Context, gameID, playerID string, dice []int) (KeepResultData, error) {
	mg, g, err := m.runningGame(gameID)
	if err != nil {
		return KeepResultData{}, err
	}
	res, err := g.SaveDice(ctx, playerID, dice)
	if err != nil {
		return KeepResultData{}, err
	}
	m.broadcastState(mg)
	return KeepResultData{
		GameID:        gameID,
		Points:        res.Points,
		TurnScore:     res.TurnScore,
		HotDice:       res.HotDice,
		DiceRemaining: res.DiceRemaining,
	}, nil
}

// Bank performs a human bank action.
func (m *GameManager) Bank(ctx context.Context, gameID, playerID string) (BankResultData, error) {
	mg, g, err := m.runningGame(gameID)
	if err != nil {
		return BankResultData{}, err
	}
	out, err := g.Bank(ctx, playerID)
	if err != nil {
		return BankResultData{}, err
	}
	m.broadcastState(mg)
	m.driveBots(mg)
	return BankResultData{
		GameID:     gameID,
		Round:      out.Round,
		RoundScore: out.RoundScore,
		TotalScore: out.TotalScore,
		Won:        out.Won,
	}, nil
}

// State returns the current game state for a watcher.
func (m *GameManager) State(gameID string) (GameStateData, error) {
	_, g, err := m.runningGame(gameID)
	if err != nil {
		return GameStateData{}, err
	}
	return snapshotToWire(g.Snapshot()), nil
}

func (m *GameManager) gameFor(gameID string) (*ManagedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mg, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return mg, nil
}

func (m *GameManager) runningGame(gameID string) (*ManagedGame, *game.Game, error) {
	mg, err := m.gameFor(gameID)
	if err != nil {
		return nil, nil, err
	}
	mg.mu.Lock()
	g := mg.game
	mg.mu.Unlock()
	if g == nil {
		return nil, nil, fmt.Errorf("game %s not started", gameID)
	}
	return mg, g, nil
}

func (m *GameManager) buildBot(name, difficulty string, riskTolerance, trashTalk int, enrichURL string) *bot.Bot {
	var profile bot.RiskProfile
	if riskTolerance > 0 {
		profile = bot.RiskProfile{RiskTolerance: riskTolerance, TrashTalk: trashTalk}.Normalize()
	} else {
		profile = bot.ProfileForDifficulty(difficulty)
	}
	var opts []bot.Option
	if enrichURL != "" {
		opts = append(opts, bot.WithEnricher(bot.NewRemoteEnricher(enrichURL, nil)))
	}
	return bot.New(name, profile, m.logger, opts...)
}

// driveBots runs bot turns in the background until a human is on the clock
// or the game completes. At most one drive loop per game.
func (m *GameManager) driveBots(mg *ManagedGame) {
	go func() {
		if !mg.botMu.TryLock() {
			return
		}
		defer mg.botMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := mg.engine.Run(ctx); err != nil {
			m.logger.Error("Bot drive failed", "game", mg.ID, "error", err)
		}
		m.broadcastState(mg)
	}()
}

func (m *GameManager) broadcastState(mg *ManagedGame) {
	if m.broadcaster == nil {
		return
	}
	msg, err := NewMessage(MessageTypeGameState, snapshotToWire(mg.game.Snapshot()))
	if err != nil {
		m.logger.Error("Failed to encode game state", "error", err)
		return
	}
	m.broadcaster.BroadcastToGame(mg.ID, msg)
}
