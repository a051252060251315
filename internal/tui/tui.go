// Package tui is the full-screen Bubble Tea front end. The engine runs on
// its own goroutine and talks to the model through a Bridge.
package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
)

// promptKind is the question currently waiting for an answer
type promptKind int

const (
	promptNone promptKind = iota
	promptBet
	promptInsurance
	promptInsuranceAmount
	promptAction
)

// Messages sent from the engine goroutine into the program
type (
	logMsg     struct{ line string }
	balanceMsg struct{ balance blackjack.Money }
	dealerMsg  struct {
		view     blackjack.HandView
		hideHole bool
	}
	handMsg struct {
		index int
		view  blackjack.HandView
	}
	promptMsg struct {
		kind  promptKind
		text  string
		valid []blackjack.Action
		hand  int
	}
	endMsg struct{ summary blackjack.Summary }
)

// Model is the Bubble Tea model for a blackjack session
type Model struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// Table state, updated only from Update
	gameLog  []string
	balance  blackjack.Money
	dealer   blackjack.HandView
	hideHole bool
	hands    []blackjack.HandView
	rounds   int

	prompt promptMsg
	ended  bool

	answers   chan string
	done      chan struct{}
	closeOnce sync.Once

	quitting    bool
	focusedPane int // 0 = log, 1 = input

	width       int
	height      int
	initialized bool
}

// NewModel creates a new TUI model
func NewModel(logger *log.Logger) *Model {
	// Sized properly when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		answers:     make(chan string, 1),
		done:        make(chan struct{}),
		focusedPane: 1,
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Done is closed once the interface has gone away
func (m *Model) Done() <-chan struct{} {
	return m.done
}

func (m *Model) close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case logMsg:
		m.AddLogEntry(msg.line)

	case balanceMsg:
		m.balance = msg.balance

	case dealerMsg:
		if msg.hideHole {
			// A hidden hole card means a fresh deal
			m.rounds++
			m.hands = nil
			m.AddLogEntry("")
			m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf(" Round %d ", m.rounds)))
		}
		m.dealer = msg.view
		m.hideHole = msg.hideHole

	case handMsg:
		for len(m.hands) <= msg.index {
			m.hands = append(m.hands, blackjack.HandView{})
		}
		m.hands[msg.index] = msg.view

	case promptMsg:
		m.prompt = msg
		m.actionInput.Placeholder = placeholder(msg.kind)

	case endMsg:
		m.ended = true
		m.prompt = promptMsg{}
		m.AddLogEntry("")
		m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf(" Session over: %s ", msg.summary.Reason)))
		m.AddLogEntry(fmt.Sprintf("Rounds: %d, final balance %s (net %s)",
			msg.summary.Rounds, msg.summary.FinalBalance, msg.summary.Net()))
		m.actionInput.Placeholder = "Press Enter to exit"

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.ended {
				return m, m.quit()
			}
			if m.focusedPane == 1 {
				m.submit(strings.TrimSpace(m.actionInput.Value()))
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
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
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

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.close()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// submit hands the typed answer to the waiting bridge. Input typed while no
// question is open is dropped.
func (m *Model) submit(answer string) {
	if m.prompt.kind == promptNone {
		return
	}
	m.AddLogEntry(InfoStyle.Render("> " + answer))
	select {
	case m.answers <- answer:
		m.prompt = promptMsg{}
	default:
		m.logger.Warn("Dropped answer, previous one still pending", "answer", answer)
	}
}

func placeholder(kind promptKind) string {
	switch kind {
	case promptBet:
		return "Bet amount, 0 to quit"
	case promptInsurance:
		return "y or n"
	case promptInsuranceAmount:
		return "Insurance amount"
	case promptAction:
		return "hit, stand, double, split (or 1-4)"
	default:
		return ""
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 30)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the balance and the hands on the table
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: %s", m.balance)))
	content.WriteString("\n\n")

	if len(m.dealer.Cards) > 0 {
		content.WriteString(HandInfoStyle.Render("Dealer"))
		content.WriteString("\n  ")
		if m.hideHole {
			content.WriteString(formatCards(m.dealer.Cards[:1]) + " [??]")
		} else {
			content.WriteString(fmt.Sprintf("%s %s", formatCards(m.dealer.Cards), m.dealer.TotalString()))
		}
		content.WriteString("\n\n")
	}

	for i, h := range m.hands {
		label := HandInfoStyle.Render(fmt.Sprintf("Hand %d", i+1))
		if m.prompt.kind == promptAction && m.prompt.hand == i {
			label = ActiveHandStyle.Render(fmt.Sprintf("▶ Hand %d", i+1))
		}
		content.WriteString(label)
		content.WriteString(InfoStyle.Render(fmt.Sprintf("  bet %s", h.Bet)))
		content.WriteString("\n  ")
		content.WriteString(fmt.Sprintf("%s %s", formatCards(h.Cards), h.TotalString()))
		if h.Total.IsBust() {
			content.WriteString(" " + ErrorStyle.Render("BUST"))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// renderActionPane renders the question, the choices and the input field
func (m *Model) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.prompt.kind != promptNone:
		content.WriteString(HandInfoStyle.Render(m.prompt.text))
		content.WriteString("\n")
		if m.prompt.kind == promptAction {
			content.WriteString(renderAvailableActions(m.prompt.valid))
			content.WriteString("\n")
		}
	case m.ended:
		content.WriteString(HandInfoStyle.Render("Thanks for playing"))
		content.WriteString("\n")
	default:
		content.WriteString(HandInfoStyle.Render("Dealing..."))
		content.WriteString("\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return content.String()
}

// renderAvailableActions renders the valid actions with their menu keys
func renderAvailableActions(valid []blackjack.Action) string {
	actions := make([]string, 0, len(valid))
	for _, a := range valid {
		label := fmt.Sprintf("[%s %s]", a.MenuKey(), strings.ToLower(a.String()))
		switch a {
		case blackjack.Stand:
			actions = append(actions, SuccessStyle.Render(label))
		case blackjack.Double, blackjack.Split:
			actions = append(actions, WarningStyle.Render(label))
		default:
			actions = append(actions, ActionsStyle.Render(label))
		}
	}
	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}
