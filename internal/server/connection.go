package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/mschmoyer/farkledice-sub000/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	gameID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	manager   *GameManager
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, manager *GameManager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		manager: manager,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetGame associates this connection with a game
func (c *Connection) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

// GetGame returns the associated game ID
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeCreateGame:
		var data CreateGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create game data")
			return
		}
		c.handleCreateGame(data)

	case MessageTypeJoinGame:
		var data JoinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join game data")
			return
		}
		c.handleJoinGame(data)

	case MessageTypeStartGame:
		var data StartGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start game data")
			return
		}
		c.handleStartGame(data)

	case MessageTypeListGames:
		c.handleListGames()

	case MessageTypeRoll:
		var data RollData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse roll data")
			return
		}
		c.handleRoll(data)

	case MessageTypeKeep:
		var data KeepData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse keep data")
			return
		}
		c.handleKeep(data)

	case MessageTypeBank:
		var data BankData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse bank data")
			return
		}
		c.handleBank(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

// sendActionError maps an engine error onto the wire, flagging validation
// failures as retryable so clients know no state changed.
func (c *Connection) sendActionError(code string, actionErr error) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:      code,
		Message:   actionErr.Error(),
		Retryable: game.IsRetryable(actionErr),
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) authedPlayer() (string, bool) {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return "", false
	}
	return playerID, true
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	// Simple authentication - just accept any player name
	if data.PlayerName == "" {
		c.sendError("invalid_auth", "Player name required")
		return
	}

	c.SetPlayer(data.PlayerName)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: data.PlayerName,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleCreateGame(data CreateGameData) {
	playerID, ok := c.authedPlayer()
	if !ok {
		return
	}
	c.logger.Info("Create game request", "player", playerID, "mode", data.Mode)

	mg, err := c.manager.CreateGame(playerID, data)
	if err != nil {
		c.sendError("create_failed", err.Error())
		return
	}

	c.SetGame(mg.ID)

	response, _ := NewMessage(MessageTypeGameCreated, GameCreatedData{GameID: mg.ID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinGame(data JoinGameData) {
	playerID, ok := c.authedPlayer()
	if !ok {
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.manager.DefaultGameID()
	}
	c.logger.Info("Join game request", "gameId", gameID, "player", playerID)

	mg, err := c.manager.JoinGame(gameID, playerID)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	c.SetGame(gameID)

	response, _ := NewMessage(MessageTypeGameJoined, GameJoinedData{
		GameID:  gameID,
		Players: mg.playerNames(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleStartGame(data StartGameData) {
	playerID, ok := c.authedPlayer()
	if !ok {
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.GetGame()
	}
	c.logger.Info("Start game request", "gameId", gameID, "player", playerID)

	if err := c.manager.StartGame(gameID, playerID); err != nil {
		c.sendError("start_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeGameStarted, map[string]string{"gameId": gameID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleListGames() {
	c.logger.Info("List games request", "player", c.GetPlayer())

	response, _ := NewMessage(MessageTypeGameList, GameListData{
		Games: c.manager.ListGames(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleRoll(data RollData) {
	playerID, ok := c.authedPlayer()
	if !ok {
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.GetGame()
	}

	result, err := c.manager.Roll(c.ctx, gameID, playerID)
	if err != nil {
		c.sendActionError("roll_failed", err)
		return
	}

	response, _ := NewMessage(MessageTypeRollResult, result)
	_ = c.SendMessage(response)
}

func (c *Connection) handleKeep(data KeepData) {
	playerID, ok := c.authedPlayer()
	if !ok {
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.GetGame()
	}

	result, err := c.manager.Keep(c.ctx, gameID, playerID, data.Dice)
	if err != nil {
		c.sendActionError("keep_failed", err)
		return
	}

	response, _ := NewMessage(MessageTypeKeepResult, result)
	_ = c.SendMessage(response)
}

func (c *Connection) handleBank(data BankData) {
	playerID, ok := c.authedPlayer()
	if !ok {
		return
	}

	gameID := data.GameID
	if gameID == "" {
		gameID = c.GetGame()
	}

	result, err := c.manager.Bank(c.ctx, gameID, playerID)
	if err != nil {
		c.sendActionError("bank_failed", err)
		return
	}

	response, _ := NewMessage(MessageTypeBankResult, result)
	_ = c.SendMessage(response)
}
