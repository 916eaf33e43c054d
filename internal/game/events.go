package game

import (
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeTurnStart   EventType = "turn_start"
	EventTypeRoll        EventType = "roll"
	EventTypeKeep        EventType = "keep"
	EventTypeHotDice     EventType = "hot_dice"
	EventTypeBank        EventType = "bank"
	EventTypeBust        EventType = "bust"
	EventTypeAchievement EventType = "achievement"
	EventTypeOvertime    EventType = "overtime"
	EventTypeCompleted   EventType = "completed"
	EventTypeChat        EventType = "chat"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// TurnStartEvent is published when a player's turn begins
type TurnStartEvent struct {
	PlayerID  string
	Round     int
	timestamp time.Time
}

// NewTurnStartEvent creates a new turn start event
func NewTurnStartEvent(playerID string, round int) TurnStartEvent {
	return TurnStartEvent{PlayerID: playerID, Round: round, timestamp: time.Now()}
}

func (e TurnStartEvent) EventType() EventType { return EventTypeTurnStart }
func (e TurnStartEvent) Timestamp() time.Time { return e.timestamp }

// RollEvent is published after every roll, bust or not
type RollEvent struct {
	PlayerID  string
	Dice      []int
	Hand      int
	timestamp time.Time
}

// NewRollEvent creates a new roll event
func NewRollEvent(playerID string, dice []int, hand int) RollEvent {
	values := make([]int, len(dice))
	copy(values, dice)
	return RollEvent{PlayerID: playerID, Dice: values, Hand: hand, timestamp: time.Now()}
}

func (e RollEvent) EventType() EventType { return EventTypeRoll }
func (e RollEvent) Timestamp() time.Time { return e.timestamp }

// KeepEvent is published when a player sets dice aside as keepers
type KeepEvent struct {
	PlayerID  string
	Dice      []int
	Points    int
	TurnScore int
	timestamp time.Time
}

// NewKeepEvent creates a new keep event
func NewKeepEvent(playerID string, dice []int, points, turnScore int) KeepEvent {
	values := make([]int, len(dice))
	copy(values, dice)
	return KeepEvent{PlayerID: playerID, Dice: values, Points: points, TurnScore: turnScore, timestamp: time.Now()}
}

func (e KeepEvent) EventType() EventType { return EventTypeKeep }
func (e KeepEvent) Timestamp() time.Time { return e.timestamp }

// HotDiceEvent is published when all six dice score and the hand restarts
type HotDiceEvent struct {
	PlayerID  string
	Hand      int
	TurnScore int
	timestamp time.Time
}

// NewHotDiceEvent creates a new hot dice event
func NewHotDiceEvent(playerID string, hand, turnScore int) HotDiceEvent {
	return HotDiceEvent{PlayerID: playerID, Hand: hand, TurnScore: turnScore, timestamp: time.Now()}
}

func (e HotDiceEvent) EventType() EventType { return EventTypeHotDice }
func (e HotDiceEvent) Timestamp() time.Time { return e.timestamp }

// BankEvent is published when a turn score is banked
type BankEvent struct {
	PlayerID   string
	Round      int
	RoundScore int
	TotalScore int
	timestamp  time.Time
}

// NewBankEvent creates a new bank event
func NewBankEvent(playerID string, round, roundScore, totalScore int) BankEvent {
	return BankEvent{PlayerID: playerID, Round: round, RoundScore: roundScore, TotalScore: totalScore, timestamp: time.Now()}
}

func (e BankEvent) EventType() EventType { return EventTypeBank }
func (e BankEvent) Timestamp() time.Time { return e.timestamp }

// BustEvent is published when a roll scores nothing and the turn ends
type BustEvent struct {
	PlayerID  string
	Round     int
	Dice      []int
	Forfeited int
	timestamp time.Time
}

// NewBustEvent creates a new bust event
func NewBustEvent(playerID string, round int, dice []int, forfeited int) BustEvent {
	values := make([]int, len(dice))
	copy(values, dice)
	return BustEvent{PlayerID: playerID, Round: round, Dice: values, Forfeited: forfeited, timestamp: time.Now()}
}

func (e BustEvent) EventType() EventType { return EventTypeBust }
func (e BustEvent) Timestamp() time.Time { return e.timestamp }

// AchievementKind names the noteworthy scoring patterns worth announcing
type AchievementKind string

const (
	AchievementSixOfAKind  AchievementKind = "six_of_a_kind"
	AchievementStraight    AchievementKind = "straight"
	AchievementThreePairs  AchievementKind = "three_pairs"
	AchievementTwoTriplets AchievementKind = "two_triplets"
	AchievementBigRound    AchievementKind = "big_round"
)

// AchievementEvent is published fire-and-forget when a scoring pattern or
// round total crosses an announce-worthy line. Purely informational.
type AchievementEvent struct {
	PlayerID string
	Kind     AchievementKind
	// Face is set for six-of-a-kind, Points for big rounds, 0 otherwise.
	Face      int
	Points    int
	timestamp time.Time
}

// NewAchievementEvent creates a new achievement event
func NewAchievementEvent(playerID string, kind AchievementKind, face, points int) AchievementEvent {
	return AchievementEvent{PlayerID: playerID, Kind: kind, Face: face, Points: points, timestamp: time.Now()}
}

func (e AchievementEvent) EventType() EventType { return EventTypeAchievement }
func (e AchievementEvent) Timestamp() time.Time { return e.timestamp }

// OvertimeEvent is published when a tie forces a sudden-death round
type OvertimeEvent struct {
	Round     int
	PlayerIDs []string
	timestamp time.Time
}

// NewOvertimeEvent creates a new overtime event
func NewOvertimeEvent(round int, playerIDs []string) OvertimeEvent {
	ids := make([]string, len(playerIDs))
	copy(ids, playerIDs)
	return OvertimeEvent{Round: round, PlayerIDs: ids, timestamp: time.Now()}
}

func (e OvertimeEvent) EventType() EventType { return EventTypeOvertime }
func (e OvertimeEvent) Timestamp() time.Time { return e.timestamp }

// CompletedEvent is published exactly once, when the game reaches its
// terminal state
type CompletedEvent struct {
	WinnerID   string
	WinnerName string
	Totals     map[string]int
	timestamp  time.Time
}

// NewCompletedEvent creates a new game completed event
func NewCompletedEvent(winnerID, winnerName string, totals map[string]int) CompletedEvent {
	return CompletedEvent{WinnerID: winnerID, WinnerName: winnerName, Totals: totals, timestamp: time.Now()}
}

func (e CompletedEvent) EventType() EventType { return EventTypeCompleted }
func (e CompletedEvent) Timestamp() time.Time { return e.timestamp }

// ChatEvent carries bot table talk. Flavor only, never affects play.
type ChatEvent struct {
	PlayerID  string
	Line      string
	timestamp time.Time
}

// NewChatEvent creates a new chat event
func NewChatEvent(playerID, line string) ChatEvent {
	return ChatEvent{PlayerID: playerID, Line: line, timestamp: time.Now()}
}

func (e ChatEvent) EventType() EventType { return EventTypeChat }
func (e ChatEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers. Delivery is synchronous and
// best-effort; subscribers must not call back into the publishing game.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// EventFunc adapts a plain function into an EventSubscriber.
type EventFunc func(event GameEvent)

func (f EventFunc) OnEvent(event GameEvent) { f(event) }
