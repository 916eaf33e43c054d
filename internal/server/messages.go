package server

import (
	"encoding/json"
	"time"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// MessageType identifies a WebSocket message.
type MessageType string

func (mt MessageType) String() string { return string(mt) }

// Client → server message types
const (
	MessageTypeAuth       MessageType = "auth"
	MessageTypeCreateGame MessageType = "create_game"
	MessageTypeJoinGame   MessageType = "join_game"
	MessageTypeStartGame  MessageType = "start_game"
	MessageTypeListGames  MessageType = "list_games"
	MessageTypeRoll       MessageType = "roll"
	MessageTypeKeep       MessageType = "keep"
	MessageTypeBank       MessageType = "bank"
)

// Server → client message types
const (
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeGameCreated  MessageType = "game_created"
	MessageTypeGameJoined   MessageType = "game_joined"
	MessageTypeGameStarted  MessageType = "game_started"
	MessageTypeGameList     MessageType = "game_list"
	MessageTypeRollResult   MessageType = "roll_result"
	MessageTypeKeepResult   MessageType = "keep_result"
	MessageTypeBankResult   MessageType = "bank_result"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeGameEvent    MessageType = "game_event"
	MessageTypeError        MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type BotSeatData struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty,omitempty"`
	EnrichURL  string `json:"enrichUrl,omitempty"`
}

type CreateGameData struct {
	Mode           string        `json:"mode,omitempty"`
	TargetScore    int           `json:"targetScore,omitempty"`
	Rounds         int           `json:"rounds,omitempty"`
	OvertimeRounds int           `json:"overtimeRounds,omitempty"`
	Bots           []BotSeatData `json:"bots,omitempty"`
}

type JoinGameData struct {
	GameID string `json:"gameId"`
}

type StartGameData struct {
	GameID string `json:"gameId"`
}

type RollData struct {
	GameID string `json:"gameId"`
}

type KeepData struct {
	GameID string `json:"gameId"`
	Dice   []int  `json:"dice"`
}

type BankData struct {
	GameID string `json:"gameId"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

type GameCreatedData struct {
	GameID string `json:"gameId"`
}

type GameJoinedData struct {
	GameID  string   `json:"gameId"`
	Players []string `json:"players"`
}

type GameSummary struct {
	ID        string `json:"id"`
	Mode      string `json:"mode"`
	Players   int    `json:"players"`
	Started   bool   `json:"started"`
	Completed bool   `json:"completed"`
}

type GameListData struct {
	Games []GameSummary `json:"games"`
}

type CombinationData struct {
	Dice        []int  `json:"dice"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

type RollResultData struct {
	GameID    string            `json:"gameId"`
	Dice      []int             `json:"dice"`
	Busted    bool              `json:"busted"`
	TurnScore int               `json:"turnScore"`
	Combos    []CombinationData `json:"combos,omitempty"`
}

type KeepResultData struct {
	GameID        string `json:"gameId"`
	Points        int    `json:"points"`
	TurnScore     int    `json:"turnScore"`
	HotDice       bool   `json:"hotDice"`
	DiceRemaining int    `json:"diceRemaining"`
}

type BankResultData struct {
	GameID     string `json:"gameId"`
	Round      int    `json:"round"`
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
	Won        bool   `json:"won"`
}

type PlayerStateData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bot        bool   `json:"bot"`
	TotalScore int    `json:"totalScore"`
	Round      int    `json:"round"`
}

type GameStateData struct {
	GameID    string            `json:"gameId"`
	Mode      string            `json:"mode"`
	Round     int               `json:"round"`
	MaxRound  int               `json:"maxRound"`
	Overtime  bool              `json:"overtime"`
	Completed bool              `json:"completed"`
	WinnerID  string            `json:"winnerId,omitempty"`
	ActingID  string            `json:"actingId"`
	TurnScore int               `json:"turnScore"`
	LastRoll  []int             `json:"lastRoll,omitempty"`
	Players   []PlayerStateData `json:"players"`
}

// GameEventData is the wire form of an engine event. Fields are sparse;
// which ones are set depends on the event kind.
type GameEventData struct {
	GameID   string `json:"gameId"`
	Kind     string `json:"kind"`
	PlayerID string `json:"playerId,omitempty"`
	Dice     []int  `json:"dice,omitempty"`
	Points   int    `json:"points,omitempty"`
	Round    int    `json:"round,omitempty"`
	Total    int    `json:"total,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func combosToWire(combos []score.Combination) []CombinationData {
	out := make([]CombinationData, 0, len(combos))
	for _, c := range combos {
		out = append(out, CombinationData{Dice: c.Dice, Points: c.Points, Description: c.Description})
	}
	return out
}

func snapshotToWire(snap game.Snapshot) GameStateData {
	state := GameStateData{
		GameID:    snap.ID,
		Mode:      string(snap.Mode),
		Round:     snap.Round,
		MaxRound:  snap.MaxRound,
		Overtime:  snap.Overtime,
		Completed: snap.Completed,
		WinnerID:  snap.WinnerID,
		ActingID:  snap.ActingID,
		TurnScore: snap.Turn.Score(),
		LastRoll:  snap.Turn.LastRoll,
	}
	for _, p := range snap.Players {
		state.Players = append(state.Players, PlayerStateData{
			ID:         p.ID,
			Name:       p.Name,
			Bot:        p.Bot,
			TotalScore: p.TotalScore,
			Round:      p.Round,
		})
	}
	return state
}

// eventToWire flattens a typed engine event for broadcast.
func eventToWire(gameID string, e game.GameEvent) GameEventData {
	data := GameEventData{GameID: gameID, Kind: e.EventType().String()}
	switch ev := e.(type) {
	case game.TurnStartEvent:
		data.PlayerID = ev.PlayerID
		data.Round = ev.Round
	case game.RollEvent:
		data.PlayerID = ev.PlayerID
		data.Dice = ev.Dice
	case game.KeepEvent:
		data.PlayerID = ev.PlayerID
		data.Dice = ev.Dice
		data.Points = ev.Points
		data.Total = ev.TurnScore
	case game.HotDiceEvent:
		data.PlayerID = ev.PlayerID
		data.Total = ev.TurnScore
	case game.BankEvent:
		data.PlayerID = ev.PlayerID
		data.Round = ev.Round
		data.Points = ev.RoundScore
		data.Total = ev.TotalScore
	case game.BustEvent:
		data.PlayerID = ev.PlayerID
		data.Round = ev.Round
		data.Dice = ev.Dice
		data.Points = ev.Forfeited
	case game.AchievementEvent:
		data.PlayerID = ev.PlayerID
		data.Detail = string(ev.Kind)
		data.Points = ev.Points
	case game.OvertimeEvent:
		data.Round = ev.Round
	case game.CompletedEvent:
		data.PlayerID = ev.WinnerID
		data.Detail = ev.WinnerName
	case game.ChatEvent:
		data.PlayerID = ev.PlayerID
		data.Detail = ev.Line
	}
	return data
}
