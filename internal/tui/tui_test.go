package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
}

func handView(cards string, bet blackjack.Money) blackjack.HandView {
	h := blackjack.NewHand(bet)
	for _, c := range deck.MustParseCards(cards) {
		h.Add(c)
	}
	return h.View()
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestModelSubmitsAnswers(t *testing.T) {
	t.Run("enter answers the open prompt", func(t *testing.T) {
		m := NewModel(quietLogger())
		m.Update(promptMsg{kind: promptBet, text: "Place your bet"})

		m.actionInput.SetValue(" 25 ")
		m.Update(enter())

		select {
		case answer := <-m.answers:
			assert.Equal(t, "25", answer)
		default:
			t.Fatal("expected an answer")
		}
		assert.Equal(t, promptNone, m.prompt.kind)
		assert.Empty(t, m.actionInput.Value())
		assert.Contains(t, m.gameLog[len(m.gameLog)-1], "> 25")
	})

	t.Run("input without a prompt is dropped", func(t *testing.T) {
		m := NewModel(quietLogger())
		m.actionInput.SetValue("hit")
		m.Update(enter())

		select {
		case answer := <-m.answers:
			t.Fatalf("unexpected answer %q", answer)
		default:
		}
		assert.Empty(t, m.gameLog)
	})

	t.Run("placeholder follows the prompt", func(t *testing.T) {
		m := NewModel(quietLogger())
		m.Update(promptMsg{kind: promptInsurance})
		assert.Equal(t, "y or n", m.actionInput.Placeholder)
		m.Update(promptMsg{kind: promptAction})
		assert.Contains(t, m.actionInput.Placeholder, "stand")
	})
}

func TestModelQuit(t *testing.T) {
	m := NewModel(quietLogger())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	select {
	case <-m.Done():
	default:
		t.Fatal("Done should be closed after ctrl+c")
	}

	// Closing twice is harmless
	m.close()
}

func TestModelEnterAfterSessionEndsQuits(t *testing.T) {
	m := NewModel(quietLogger())
	m.Update(endMsg{blackjack.Summary{Reason: blackjack.EndQuit, Rounds: 2}})

	assert.True(t, m.ended)
	assert.Contains(t, strings.Join(m.gameLog, "\n"), "Session over: quit")

	_, cmd := m.Update(enter())
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestModelTracksTable(t *testing.T) {
	m := NewModel(quietLogger())

	m.Update(balanceMsg{blackjack.Dollars(900)})
	m.Update(dealerMsg{view: handView("Ad 7c", 0), hideHole: true})
	m.Update(handMsg{index: 0, view: handView("8s 8h", blackjack.Dollars(100))})
	assert.Equal(t, 1, m.rounds)
	require.Len(t, m.hands, 1)

	// A split adds a second hand
	m.Update(handMsg{index: 1, view: handView("8h", blackjack.Dollars(100))})
	require.Len(t, m.hands, 2)

	// The next deal starts over
	m.Update(dealerMsg{view: handView("5d 9c", 0), hideHole: true})
	assert.Equal(t, 2, m.rounds)
	assert.Empty(t, m.hands)
}

func TestModelView(t *testing.T) {
	m := NewModel(quietLogger())
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m.Update(balanceMsg{blackjack.Dollars(900)})
	m.Update(dealerMsg{view: handView("Ad 7c", 0), hideHole: true})
	m.Update(handMsg{index: 0, view: handView("8s 8h", blackjack.Dollars(100))})
	m.Update(promptMsg{
		kind:  promptAction,
		text:  "Your 16 against the dealer's A♦",
		valid: []blackjack.Action{blackjack.Hit, blackjack.Stand, blackjack.Split},
	})

	view := m.View()
	assert.Contains(t, view, "Balance: $900")
	assert.Contains(t, view, "A♦")
	assert.Contains(t, view, "[??]")
	assert.NotContains(t, view, "7♣", "hole card stays hidden")
	assert.Contains(t, view, "▶ Hand 1")
	assert.Contains(t, view, "[1 hit]")
	assert.Contains(t, view, "[4 split]")
	assert.NotContains(t, view, "[3 double]")
}

func TestRenderAvailableActions(t *testing.T) {
	got := renderAvailableActions([]blackjack.Action{blackjack.Hit, blackjack.Stand, blackjack.Double})
	assert.Contains(t, got, "Actions:")
	assert.Contains(t, got, "[1 hit]")
	assert.Contains(t, got, "[2 stand]")
	assert.Contains(t, got, "[3 double]")
}

func TestFormatCards(t *testing.T) {
	assert.Empty(t, formatCards(nil))
	assert.Equal(t, "[A♠ 10♥]", formatCards(deck.MustParseCards("As Th")))
}
