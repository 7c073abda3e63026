package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// DefaultChipValues are the bet buttons offered when none are configured
var DefaultChipValues = []int{10, 25, 50, 100, 250, 500}

const (
	eventBufferSize = 64
	historyHeight   = 8
	tableWidth      = 44
)

// eventMsg carries an engine event into the bubbletea loop
type eventMsg struct {
	event game.GameEvent
}

// Model is the bubbletea model for a single-player table
type Model struct {
	engine    *game.Engine
	logger    *log.Logger
	chips     []int
	keys      KeyMap
	help      help.Model
	history   viewport.Model
	formatter *game.EventFormatter
	events    chan game.GameEvent

	rounds   []string
	width    int
	height   int
	quitting bool
}

// NewModel creates a model driving engine. It subscribes to the engine's
// events; call Close when the program exits.
func NewModel(engine *game.Engine, chips []int, logger *log.Logger) *Model {
	if len(chips) == 0 {
		chips = DefaultChipValues
	}

	vp := viewport.New(tableWidth, historyHeight)
	vp.SetContent(InfoStyle.Render("No rounds played yet"))

	m := &Model{
		engine:    engine,
		logger:    logger.WithPrefix("tui"),
		chips:     chips,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		history:   vp,
		formatter: game.NewEventFormatter(game.FormattingOptions{}),
		events:    make(chan game.GameEvent, eventBufferSize),
	}
	engine.Subscribe(m)
	return m
}

// OnEvent queues engine events for the bubbletea loop. Events are dropped if
// the loop falls behind.
func (m *Model) OnEvent(event game.GameEvent) {
	select {
	case m.events <- event:
	default:
		m.logger.Warn("Dropping event, UI is behind", "type", event.EventType())
	}
}

// Close unsubscribes from the engine
func (m *Model) Close() {
	m.engine.Unsubscribe(m)
}

// History returns the finished rounds, newest first
func (m *Model) History() []string {
	return append([]string(nil), m.rounds...)
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-m.events}
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case eventMsg:
		m.handleEvent(msg.event)
		cmds = append(cmds, m.waitForEvent())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.Width = min(max(msg.Width-4, 10), tableWidth)

	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Scroll) {
			return m, m.handleKey(msg)
		}
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(event game.GameEvent) {
	end, ok := event.(game.RoundEndEvent)
	if !ok {
		return
	}

	line := m.formatter.FormatRoundEnd(end)
	m.logger.Debug("Round finished", "summary", line)
	m.rounds = append([]string{line}, m.rounds...)

	var b strings.Builder
	for i, r := range m.rounds {
		style := InfoStyle
		if i == 0 {
			style = resultStyle(end.Result)
		}
		b.WriteString(style.Render(r))
		b.WriteString("\n")
	}
	m.history.SetContent(strings.TrimSuffix(b.String(), "\n"))
	m.history.GotoTop()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	state := m.engine.State()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Bet):
		if state.Phase != game.Betting {
			return nil
		}
		i := int(msg.String()[0] - '1')
		if i < 0 || i >= len(m.chips) {
			return nil
		}
		if m.chips[i] > state.PlayerBalance {
			m.logger.Debug("Chip above balance", "chip", m.chips[i], "balance", state.PlayerBalance)
			return nil
		}
		m.engine.PlaceBet(m.chips[i])

	case key.Matches(msg, m.keys.Hit):
		m.engine.Hit()

	case key.Matches(msg, m.keys.Stand):
		m.engine.Stand()

	case key.Matches(msg, m.keys.NewRound):
		if state.Phase == game.GameOver {
			m.engine.NewRound()
		}

	case key.Matches(msg, m.keys.Reset):
		m.engine.ResetGame()
	}
	return nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.engine.State()
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("♠ Blackjack"))
	b.WriteString("  ")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: %d", s.PlayerBalance)))
	if s.CurrentBet > 0 {
		b.WriteString(InfoStyle.Render(" | "))
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: %d", s.CurrentBet)))
	}
	b.WriteString("\n\n")

	table := strings.Join([]string{
		renderHandRow("Dealer", s.DealerHand, s.DealerHand.AllFaceUp()),
		renderHandRow("You", s.PlayerHand, true),
	}, "\n\n")
	b.WriteString(PaneStyle.Render(table))
	b.WriteString("\n")

	if banner := resultBanner(s.Result); banner != "" {
		b.WriteString(banner)
		b.WriteString("  ")
	}
	b.WriteString(s.Message)
	b.WriteString("\n\n")

	if s.Phase == game.Betting {
		b.WriteString(m.renderChips(s.PlayerBalance))
		b.WriteString("\n\n")
	}

	b.WriteString(LabelStyle.Render("History"))
	b.WriteString("\n")
	b.WriteString(m.history.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// renderChips draws the bet buttons. Chips above the balance are disabled.
func (m *Model) renderChips(balance int) string {
	buttons := make([]string, len(m.chips))
	for i, v := range m.chips {
		label := fmt.Sprintf("[%d] %d", i+1, v)
		if v > balance {
			buttons[i] = DisabledChipStyle.Render(label)
		} else {
			buttons[i] = ChipStyle.Render(label)
		}
	}
	return strings.Join(buttons, "  ")
}

// renderHandRow shows a hand and its value. The value is hidden while
// showValue is false.
func renderHandRow(label string, h game.Hand, showValue bool) string {
	value := "?"
	if h.Len() == 0 {
		value = "-"
	} else if showValue {
		value = fmt.Sprintf("%d", h.Value())
		if h.IsSoft() && !h.IsBlackjack() && h.Value() < game.BlackjackValue {
			value = "soft " + value
		}
	}
	return fmt.Sprintf("%s %s\n%s",
		LabelStyle.Render(fmt.Sprintf("%-7s", label)),
		InfoStyle.Render("("+value+")"),
		renderCards(h.Cards()))
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return InfoStyle.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}

// renderCard draws a single card; face-down cards show as ??
func renderCard(c deck.Card) string {
	switch {
	case !c.FaceUp:
		return CardBackStyle.Render("??")
	case c.IsRed():
		return RedCardStyle.Render(c.String())
	default:
		return BlackCardStyle.Render(c.String())
	}
}

func resultBanner(r game.Result) string {
	switch r {
	case game.Blackjack:
		return resultStyle(r).Render("BLACKJACK!")
	case game.PlayerWin:
		return resultStyle(r).Render("YOU WIN")
	case game.DealerWin:
		return resultStyle(r).Render("DEALER WINS")
	case game.Push:
		return resultStyle(r).Render("PUSH")
	default:
		return ""
	}
}

func resultStyle(r game.Result) lipgloss.Style {
	switch r {
	case game.Blackjack, game.PlayerWin:
		return SuccessStyle
	case game.DealerWin:
		return ErrorStyle
	default:
		return WarningStyle
	}
}

// Run starts the program on the terminal and blocks until the player quits
func Run(engine *game.Engine, chips []int, logger *log.Logger, opts ...tea.ProgramOption) error {
	m := NewModel(engine, chips, logger)
	defer m.Close()

	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
