// Package strategy provides automated players for the simulator and for
// unattended runs of the game: a basic-strategy player, one that copies the
// dealer, and a random one. All of them bet a flat amount.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
)

// ErrUnknownStrategy is returned by New for a name it does not recognise
var ErrUnknownStrategy = errors.New("unknown strategy")

type constructor func(rng *rand.Rand, flat Flat, logger *log.Logger) blackjack.Controller

var registry = map[string]constructor{
	"basic": func(_ *rand.Rand, flat Flat, logger *log.Logger) blackjack.Controller {
		return NewBasic(flat, logger)
	},
	"dealer": func(_ *rand.Rand, flat Flat, _ *log.Logger) blackjack.Controller {
		return NewMimic(flat)
	},
	"random": func(rng *rand.Rand, flat Flat, _ *log.Logger) blackjack.Controller {
		return NewRandom(rng, flat)
	},
}

// Names lists the strategies New accepts, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the named strategy betting bet every round. rng is only used
// by strategies that make random choices.
func New(name string, rng *rand.Rand, bet blackjack.Money, logger *log.Logger) (blackjack.Controller, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (choose from %v)", ErrUnknownStrategy, name, Names())
	}
	if bet < blackjack.MinBet || !bet.IsWholeDollars() {
		return nil, fmt.Errorf("flat bet %s must be at least %s in whole dollars: %w", bet, blackjack.MinBet, blackjack.ErrMalformedInput)
	}
	return ctor(rng, Flat{Amount: bet}, logger.WithPrefix(name)), nil
}

// Flat bets the same amount every round, or what is left of the balance in
// whole dollars when that is less. It never insures.
type Flat struct {
	Amount blackjack.Money
}

// Bet returns the flat amount capped at the balance, or zero to stop once
// the balance cannot cover the minimum
func (f Flat) Bet(_ context.Context, balance blackjack.Money) (blackjack.Money, error) {
	whole := blackjack.Dollars(balance.Dollars())
	if whole < blackjack.MinBet {
		return 0, nil
	}
	return min(f.Amount, whole), nil
}

// Insurance always declines
func (Flat) Insurance(context.Context, blackjack.InsuranceOffer) (blackjack.Money, error) {
	return 0, nil
}

// canSplit reports whether a split is both legal and affordable
func canSplit(d blackjack.Decision) bool {
	return d.Allows(blackjack.Split) && d.Balance >= d.Hand.Bet
}

// firstAllowed returns the first of the preferred actions the decision
// allows, falling back to Stand
func firstAllowed(d blackjack.Decision, preferred ...blackjack.Action) blackjack.Action {
	for _, a := range preferred {
		if a == blackjack.Split && !canSplit(d) {
			continue
		}
		if slices.Contains(d.Valid, a) {
			return a
		}
	}
	return blackjack.Stand
}
