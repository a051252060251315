package blackjack

import (
	"context"
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// Decision is the read-only state handed to an Agent for one hand decision
type Decision struct {
	HandIndex int // position in the player's hand list, from zero
	HandCount int
	Hand      HandView
	DealerUp  deck.Card
	Balance   Money
	Valid     []Action
}

// Allows reports whether a is among the valid actions
func (d Decision) Allows(a Action) bool {
	return slices.Contains(d.Valid, a)
}

// InsuranceOffer is presented when the dealer shows an ace
type InsuranceOffer struct {
	Bet     Money
	Max     Money // half the bet in whole dollars, capped at the balance
	Balance Money
}

// Agent chooses the next action for a hand. The interactive front ends, the
// automated strategies and the dealer policy all implement it.
type Agent interface {
	Decide(ctx context.Context, d Decision) (Action, error)
}

// Bettor chooses the wagers around a round. A bet of zero ends the session;
// an insurance stake of zero declines the offer.
type Bettor interface {
	Bet(ctx context.Context, balance Money) (Money, error)
	Insurance(ctx context.Context, offer InsuranceOffer) (Money, error)
}

// Controller is everything that plays the player's seat
type Controller interface {
	Agent
	Bettor
}

// Display receives the visible progress of a session
type Display interface {
	// DealerHand shows the dealer's hand. With hideHole only the up card is
	// shown.
	DealerHand(view HandView, hideHole bool)
	// PlayerHand shows one of the player's hands, numbered from zero.
	PlayerHand(index int, view HandView)
	InsuranceSettled(result InsuranceResult)
	Natural(result HandResult)
	Outcome(result HandResult)
	// Rejected reports an answer that was refused; the question follows
	// again.
	Rejected(err error)
	Balance(balance Money)
	SessionEnded(summary Summary)
}

// NopDisplay discards everything. Embed it to implement part of Display.
type NopDisplay struct{}

func (NopDisplay) DealerHand(HandView, bool) {}
func (NopDisplay) PlayerHand(int, HandView) {}
func (NopDisplay) InsuranceSettled(InsuranceResult) {}
func (NopDisplay) Natural(HandResult) {}
func (NopDisplay) Outcome(HandResult) {}
func (NopDisplay) Rejected(error) {}
func (NopDisplay) Balance(Money) {}
func (NopDisplay) SessionEnded(Summary) {}
