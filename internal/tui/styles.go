package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ActiveHandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)
)

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, len(cards))
	for i, card := range cards {
		if card.IsRed() {
			formatted[i] = RedCardStyle.Render(card.String())
		} else {
			formatted[i] = BlackCardStyle.Render(card.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
