package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
)

// PlayFunc runs a session with the bridge as controller and display
type PlayFunc func(ctx context.Context, b *Bridge) (blackjack.Summary, error)

// Run starts the full-screen interface and runs play on its own goroutine.
// It returns once the player has left the interface and play has finished.
func Run(ctx context.Context, logger *log.Logger, play PlayFunc) (blackjack.Summary, error) {
	model := NewModel(logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge := NewBridge(program, model, logger)

	type outcome struct {
		summary blackjack.Summary
		err     error
	}
	results := make(chan outcome, 1)
	go func() {
		summary, err := play(ctx, bridge)
		results <- outcome{summary, err}
	}()

	_, runErr := program.Run()
	// Unblock a bridge still waiting on the player
	model.close()
	res := <-results

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return res.summary, fmt.Errorf("tui: %w", runErr)
	}
	return res.summary, res.err
}
