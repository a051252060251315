package blackjack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// EndReason says why a session stopped
type EndReason int

const (
	EndQuit       EndReason = iota // the player bet zero
	EndBroke                       // the balance fell below the minimum bet
	EndRoundLimit                  // MaxRounds reached
	EndInterrupted                 // context cancelled or input closed
)

// String returns a short description of the reason
func (r EndReason) String() string {
	switch r {
	case EndQuit:
		return "quit"
	case EndBroke:
		return "out of money"
	case EndRoundLimit:
		return "round limit"
	case EndInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Summary describes a finished session
type Summary struct {
	ID           string
	Reason       EndReason
	Rounds       int
	StartBalance Money
	FinalBalance Money
	Wins         int
	Losses       int
	Pushes       int
	Busts        int
	Naturals     int
	Elapsed      time.Duration
}

// Net is the session's overall win or loss
func (s Summary) Net() Money {
	return s.FinalBalance - s.StartBalance
}

func (s *Summary) add(r *RoundResult) {
	s.Rounds++
	s.Wins += r.Count(Win)
	s.Losses += r.Count(Lose)
	s.Pushes += r.Count(Push)
	s.Busts += r.Count(Bust)
	s.Naturals += r.Count(Natural)
}

// Session is the outer betting loop around an Engine: ask for a bet, play a
// round, repeat until the player quits or runs out of money
type Session struct {
	id        string
	engine    *Engine
	player    *Player
	ctl       Controller
	display   Display
	clock     quartz.Clock
	logger    *log.Logger
	maxRounds int
	onRound   func(*RoundResult)
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSessionID sets the identifier attached to logs and the summary
func WithSessionID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// WithClock sets the clock used to time the session
func WithClock(c quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// WithMaxRounds stops the session after n rounds. Zero means no limit.
func WithMaxRounds(n int) SessionOption {
	return func(s *Session) { s.maxRounds = n }
}

// WithRoundHook calls fn after every settled round
func WithRoundHook(fn func(*RoundResult)) SessionOption {
	return func(s *Session) { s.onRound = fn }
}

// WithLogger sets the session logger
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session for player at engine, controlled by ctl
func NewSession(engine *Engine, player *Player, ctl Controller, display Display, opts ...SessionOption) *Session {
	if display == nil {
		display = NopDisplay{}
	}
	s := &Session{
		engine:  engine,
		player:  player,
		ctl:     ctl,
		display: display,
		clock:   quartz.NewReal(),
		logger:  engine.logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("session")
	if s.id != "" {
		s.logger = s.logger.With("session", s.id)
	}
	return s
}

// Run plays rounds until the session ends. Closing the input or cancelling
// ctx ends the session with EndInterrupted and a nil error; other failures
// are returned alongside the summary so far.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	start := s.clock.Now()
	summary := Summary{
		ID:           s.id,
		StartBalance: s.player.Balance(),
	}
	s.logger.Info("Session started", "balance", summary.StartBalance, "decks", s.engine.rules.Decks)

	reason, err := s.loop(ctx, &summary)
	if err != nil && isInterruption(ctx, err) {
		reason, err = EndInterrupted, nil
	}

	summary.Reason = reason
	summary.FinalBalance = s.player.Balance()
	summary.Elapsed = s.clock.Since(start)
	s.display.SessionEnded(summary)

	if err != nil {
		s.logger.Error("Session failed", "rounds", summary.Rounds, "error", err)
		return summary, err
	}
	s.logger.Info("Session ended",
		"reason", reason,
		"rounds", summary.Rounds,
		"net", summary.Net(),
		"elapsed", summary.Elapsed)
	return summary, nil
}

func (s *Session) loop(ctx context.Context, summary *Summary) (EndReason, error) {
	for {
		if err := ctx.Err(); err != nil {
			return EndInterrupted, err
		}
		if s.maxRounds > 0 && summary.Rounds >= s.maxRounds {
			return EndRoundLimit, nil
		}

		s.display.Balance(s.player.Balance())
		if s.player.Balance() < MinBet {
			return EndBroke, nil
		}

		bet, err := s.askBet(ctx)
		if err != nil {
			return EndInterrupted, err
		}
		if bet == 0 {
			return EndQuit, nil
		}

		result, err := s.engine.PlayRound(ctx, s.player, s.ctl, bet)
		if err != nil {
			return EndInterrupted, fmt.Errorf("round %d: %w", summary.Rounds+1, err)
		}
		summary.add(result)
		if s.onRound != nil {
			s.onRound(result)
		}
	}
}

// askBet repeats the bet question until it gets zero or a bet the player
// can cover
func (s *Session) askBet(ctx context.Context) (Money, error) {
	for {
		balance := s.player.Balance()
		bet, err := s.ctl.Bet(ctx, balance)
		if err == nil {
			err = ValidateBet(bet, balance)
		}
		if err == nil {
			return bet, nil
		}
		if !IsRecoverable(err) {
			return 0, fmt.Errorf("bet: %w", err)
		}
		s.logger.Warn("Rejected bet", "bet", bet, "error", err)
		s.display.Rejected(err)
	}
}

// ValidateBet checks an opening wager against the balance. Zero is accepted
// as the request to stop playing.
func ValidateBet(bet, balance Money) error {
	switch {
	case bet == 0:
		return nil
	case bet < MinBet || !bet.IsWholeDollars():
		return fmt.Errorf("bet must be at least %s in whole dollars: %w", MinBet, ErrMalformedInput)
	case bet > balance:
		return fmt.Errorf("bet %s exceeds balance %s: %w", bet, balance, ErrInsufficientFunds)
	}
	return nil
}

// ErrInputClosed is returned by front ends when their input ends
var ErrInputClosed = errors.New("input closed")

func isInterruption(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrInputClosed)
}
