package blackjack

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

var errScriptExhausted = errors.New("script exhausted")

// script is a Controller that replays canned answers and records what it
// was asked
type script struct {
	actions   []Action
	bets      []Money
	insurance []Money

	decisions []Decision
	offers    []InsuranceOffer
	onBet     func()
}

func (s *script) Decide(_ context.Context, d Decision) (Action, error) {
	s.decisions = append(s.decisions, d)
	if len(s.actions) == 0 {
		return 0, errScriptExhausted
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

func (s *script) Bet(_ context.Context, _ Money) (Money, error) {
	if s.onBet != nil {
		s.onBet()
	}
	if len(s.bets) == 0 {
		return 0, nil
	}
	b := s.bets[0]
	s.bets = s.bets[1:]
	return b, nil
}

func (s *script) Insurance(_ context.Context, offer InsuranceOffer) (Money, error) {
	s.offers = append(s.offers, offer)
	if len(s.insurance) == 0 {
		return 0, nil
	}
	amount := s.insurance[0]
	s.insurance = s.insurance[1:]
	return amount, nil
}

// recorder is a Display that keeps what it is shown
type recorder struct {
	NopDisplay
	rejected  []error
	outcomes  []HandResult
	naturals  []HandResult
	insurance []InsuranceResult
	dealer    []HandView
	summaries []Summary
}

func (r *recorder) Rejected(err error) { r.rejected = append(r.rejected, err) }
func (r *recorder) Outcome(res HandResult) { r.outcomes = append(r.outcomes, res) }
func (r *recorder) Natural(res HandResult) { r.naturals = append(r.naturals, res) }
func (r *recorder) InsuranceSettled(res InsuranceResult) { r.insurance = append(r.insurance, res) }
func (r *recorder) SessionEnded(s Summary) { r.summaries = append(r.summaries, s) }
func (r *recorder) DealerHand(v HandView, hide bool) {
	if !hide {
		r.dealer = append(r.dealer, v)
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestEngine builds an engine whose shoe deals cards in the order given,
// as "player, dealer, player, dealer, then every later draw"
func newTestEngine(t *testing.T, cards string, rules Rules) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	shoe := deck.NewStackedShoe(rules.Decks, randutil.New(1), deck.MustParseCards(cards)...)
	return NewEngine(shoe, rules, rec, quietLogger()), rec
}

func outcomes(results []HandResult) []Outcome {
	out := make([]Outcome, len(results))
	for i, r := range results {
		out[i] = r.Outcome
	}
	return out
}
