// Package tui renders an interactive Farkle table in the terminal: a
// scrolling game log, a score sidebar, and a command input pane.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// TUIModel represents the Bubble Tea model for the dice game
type TUIModel struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog      []string
	actionResult chan ActionResult
	quitSignal   chan bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Display state (event-driven)
	isHumansTurn  bool
	lastRoll      []int
	turnScore     int
	diceRemaining int
	combos        []score.Combination
	canBank       bool

	// Table info for sidebar
	gameID   string
	roundStr string
	players  []PlayerInfo

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// ActionResult represents the result of a user action
type ActionResult struct {
	Action   string
	Args     []string
	Continue bool
	Error    error
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// PlayerInfo holds basic player information for the sidebar
type PlayerInfo struct {
	Name   string
	Score  int
	Bot    bool
	Acting bool
}

// NewTUIModel creates a new TUI model
func NewTUIModel(logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(logger *log.Logger, testMode bool) *TUIModel {
	// Viewport gets its real size when the first WindowSizeMsg arrives.
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "roll | keep 1 1 5 | bank | quit"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		actionInput:  ti,
		gameLog:      []string{},
		actionResult: make(chan ActionResult, 1),
		quitSignal:   make(chan bool, 1),
		focusedPane:  1,
		testMode:     testMode,
		capturedLog:  []string{},
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

// listenForQuit returns a command that listens for quit signals
func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.actionResult <- ActionResult{Action: "quit", Continue: false}
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				action := strings.TrimSpace(m.actionInput.Value())
				m.processAction(action)
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	calculatedActionWidth := m.width - 2
	calculatedActionHeight := actionHeight - 2
	if calculatedActionWidth < 1 {
		calculatedActionWidth = 1
	}
	if calculatedActionHeight < 1 {
		calculatedActionHeight = 1
	}

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(calculatedActionWidth).
		Height(calculatedActionHeight)
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := lipgloss.Width(sidebarContent)

	calculatedSidebarWidth := 25
	if sidebarWidth > calculatedSidebarWidth {
		calculatedSidebarWidth = sidebarWidth
	}
	calculatedSidebarHeight := m.height - actionHeight - 4
	if calculatedSidebarWidth < 1 {
		calculatedSidebarWidth = 1
	}
	if calculatedSidebarHeight < 1 {
		calculatedSidebarHeight = 1
	}

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedSidebarWidth).
		Height(calculatedSidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	// Log pane (top, fills remaining space)
	logContent := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(logContent)

	calculatedLogWidth := m.width - calculatedSidebarWidth - 4
	calculatedLogHeight := m.height - actionHeight - 4
	if calculatedLogWidth < 1 {
		calculatedLogWidth = 1
	}
	if calculatedLogHeight < 1 {
		calculatedLogHeight = 1
	}

	m.logViewport.Width = calculatedLogWidth
	m.logViewport.Height = calculatedLogHeight

	if !m.initialized && calculatedLogWidth > 1 && calculatedLogHeight > 1 {
		m.logViewport.GotoTop()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedLogWidth).
		Height(calculatedLogHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	if m.roundStr != "" {
		content.WriteString(WarningStyle.Render(m.roundStr))
		content.WriteString("\n\n")
	}

	if len(m.players) > 0 {
		content.WriteString(InfoStyle.Render("Scores:"))
		content.WriteString("\n")
		for _, player := range m.players {
			marker := "  "
			if player.Acting {
				marker = "▸ "
			}
			name := player.Name
			if player.Bot {
				name += " (bot)"
			}
			content.WriteString(fmt.Sprintf("%s%s: %d", marker, name, player.Score))
			content.WriteString("\n")
		}
	}

	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	if m.isHumansTurn {
		content.WriteString(m.renderTurnInfo())
		content.WriteString("\n")
		if len(m.combos) > 0 {
			content.WriteString(m.renderCombos())
			content.WriteString("\n")
		}
	} else {
		content.WriteString(TurnInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
	}

	if !m.isHumansTurn {
		m.actionInput.Placeholder = "Enter to continue, 'quit' to exit"
	} else if len(m.lastRoll) > 0 {
		m.actionInput.Placeholder = "keep 1 1 5 | keep all scoring dice, then roll or bank"
	} else if m.canBank {
		m.actionInput.Placeholder = "roll | bank | odds | quit"
	} else {
		m.actionInput.Placeholder = "roll | odds | quit"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render(
			"Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

// renderTurnInfo renders the human player's current turn state
func (m *TUIModel) renderTurnInfo() string {
	var parts []string
	if len(m.lastRoll) > 0 {
		parts = append(parts, "Roll: "+FormatDice(m.lastRoll))
	}
	parts = append(parts, fmt.Sprintf("Turn score: %d", m.turnScore))
	parts = append(parts, fmt.Sprintf("Dice left: %d", m.diceRemaining))
	parts = append(parts, fmt.Sprintf("Bust odds: %.0f%%", score.BustProbability(m.diceRemaining)*100))
	return TurnInfoStyle.Render(strings.Join(parts, "  "))
}

// renderCombos lists the scoring combinations available in the last roll
func (m *TUIModel) renderCombos() string {
	var actions []string
	for _, c := range m.combos {
		actions = append(actions, SuccessStyle.Render(
			fmt.Sprintf("[%s = %d]", joinInts(c.Dice), c.Points)))
	}
	return ActionsStyle.Render("Keep: " + strings.Join(actions, " "))
}

// FormatDice renders die faces with their values
func FormatDice(values []int) string {
	var formatted []string
	for _, v := range values {
		if v >= 1 && v <= 6 {
			style := DieStyle
			if v == 1 || v == 5 {
				style = ScoringDieStyle
			}
			formatted = append(formatted, style.Render(fmt.Sprintf("%s %d", dieFaces[v], v)))
		}
	}
	return "[" + strings.Join(formatted, "  ") + "]"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, " ")
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	content := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(content)
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// SetGameInfo sets the sidebar's game header and player list
func (m *TUIModel) SetGameInfo(gameID, roundStr string, players []PlayerInfo) {
	m.gameID = gameID
	m.roundStr = roundStr
	m.players = players
}

// SetHumanTurn sets whether it's currently the human's turn to act
func (m *TUIModel) SetHumanTurn(isHumansTurn bool) {
	m.isHumansTurn = isHumansTurn
	if !isHumansTurn {
		m.lastRoll = nil
		m.combos = nil
	}
}

// SetTurnState updates the action pane's view of the human's turn
func (m *TUIModel) SetTurnState(lastRoll []int, combos []score.Combination, turnScore, diceRemaining int, canBank bool) {
	m.lastRoll = lastRoll
	m.combos = combos
	m.turnScore = turnScore
	m.diceRemaining = diceRemaining
	m.canBank = canBank
}

// processAction processes a user action
func (m *TUIModel) processAction(input string) {
	parts := strings.Fields(strings.ToLower(input))

	var action string
	var args []string
	if len(parts) > 0 {
		action = parts[0]
		args = parts[1:]
	}

	m.actionResult <- ActionResult{
		Action:   action,
		Args:     args,
		Continue: true,
	}
}

// WaitForAction waits for user input (for use by the game loop)
func (m *TUIModel) WaitForAction() (string, []string, bool, error) {
	result := <-m.actionResult
	return result.Action, result.Args, result.Continue, result.Error
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically injects an action (test mode only)
func (m *TUIModel) InjectAction(action string, args []string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}

	select {
	case m.actionResult <- ActionResult{Action: action, Args: args, Continue: true}:
		return nil
	default:
		return fmt.Errorf("action channel full")
	}
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
