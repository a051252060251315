package console

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/deck"
)

// Styles holds the text styles used by the console front end
type Styles struct {
	Header  lipgloss.Style
	Hand    lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Red     lipgloss.Style
	Black   lipgloss.Style
}

// NewStyles builds styles rendered for w. With color off every style renders
// plain text.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		Hand: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Red: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Black: r.NewStyle().
			Bold(true),
	}
}

// Card renders a card in its suit colour
func (s Styles) Card(c deck.Card) string {
	if c.IsRed() {
		return s.Red.Render(c.String())
	}
	return s.Black.Render(c.String())
}

// Cards renders cards separated by commas
func (s Styles) Cards(cards []deck.Card) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = s.Card(c)
	}
	return strings.Join(out, ", ")
}
