package blackjack

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Participant is the role shared by the player and the dealer: a balance and
// an ordered list of hands. Hand order is play order.
type Participant struct {
	balance Money
	Hands   []*Hand
}

// Balance returns the current balance
func (p *Participant) Balance() Money {
	return p.balance
}

// PlaceBet moves amount from the balance onto hand
func (p *Participant) PlaceBet(amount Money, hand *Hand) error {
	if err := p.Debit(amount); err != nil {
		return err
	}
	hand.Bet += amount
	return nil
}

// Debit removes amount from the balance without touching any hand. It never
// lets the balance go negative.
func (p *Participant) Debit(amount Money) error {
	if amount < 0 {
		return fmt.Errorf("debit %s: %w", amount, ErrMalformedInput)
	}
	if amount > p.balance {
		return fmt.Errorf("need %s, have %s: %w", amount, p.balance, ErrInsufficientFunds)
	}
	p.balance -= amount
	return nil
}

// Credit adds amount to the balance
func (p *Participant) Credit(amount Money) {
	p.balance += amount
}

// ClearHands drops every hand, ready for the next round
func (p *Participant) ClearHands() {
	p.Hands = nil
}

// Player is the human or automated seat playing against the dealer
type Player struct {
	Participant
}

// NewPlayer creates a player with a starting balance
func NewPlayer(balance Money) *Player {
	return &Player{Participant: Participant{balance: balance}}
}

// Dealer plays a single hand by a fixed policy and never wagers
type Dealer struct {
	Participant
	Policy DealerPolicy
}

// NewDealer creates a dealer following policy
func NewDealer(policy DealerPolicy) *Dealer {
	return &Dealer{Policy: policy}
}

// Hand returns the dealer's hand, or nil before the deal
func (d *Dealer) Hand() *Hand {
	if len(d.Hands) == 0 {
		return nil
	}
	return d.Hands[0]
}

// UpCard returns the dealer's first dealt card
func (d *Dealer) UpCard() (card deck.Card, ok bool) {
	h := d.Hand()
	if h == nil || len(h.Cards) == 0 {
		return card, false
	}
	return h.Cards[0], true
}
