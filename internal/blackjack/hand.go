package blackjack

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is one wager and the cards dealt to it
type Hand struct {
	Cards       []deck.Card
	Bet         Money
	OriginalBet Money // bet when the hand was created, for display
	Stood       bool
	Doubled     bool
}

// NewHand creates an empty hand carrying bet
func NewHand(bet Money) *Hand {
	return &Hand{Bet: bet, OriginalBet: bet}
}

// Add appends a dealt card
func (h *Hand) Add(c deck.Card) {
	h.Cards = append(h.Cards, c)
}

// Total returns the best total of the hand
func (h *Hand) Total() int {
	return Value(h.Cards)
}

// Evaluate returns the full valuation of the hand
func (h *Hand) Evaluate() Total {
	return Evaluate(h.Cards)
}

// IsBust reports whether the hand is over 21
func (h *Hand) IsBust() bool {
	return h.Total() > Blackjack
}

// IsBlackjack reports a two-card 21
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Total() == Blackjack
}

// CanSplit reports whether the hand is a pair: exactly two cards of the same
// rank. Suits are ignored, and a ten does not pair with a face card.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// CanDouble reports whether the hand may double down against the given
// balance
func (h *Hand) CanDouble(balance Money) bool {
	return len(h.Cards) == 2 && !h.Doubled && balance >= h.Bet
}

// Done reports whether the hand takes no further decisions
func (h *Hand) Done() bool {
	return h.Stood || h.Total() >= Blackjack
}

// Split moves the second card into a new hand. The new hand carries the same
// original bet for display; the caller funds its wager with PlaceBet and
// deals a card to each hand.
func (h *Hand) Split() (*Hand, error) {
	if !h.CanSplit() {
		return nil, fmt.Errorf("split %s: %w", h, ErrInvalidOperation)
	}

	sibling := &Hand{OriginalBet: h.OriginalBet}
	sibling.Add(h.Cards[1])
	h.Cards = h.Cards[:1]
	return sibling, nil
}

// View returns an immutable snapshot of the hand
func (h *Hand) View() HandView {
	return HandView{
		Cards:       slices.Clone(h.Cards),
		Total:       h.Evaluate(),
		Bet:         h.Bet,
		OriginalBet: h.OriginalBet,
		Stood:       h.Stood,
		Doubled:     h.Doubled,
	}
}

// String renders the cards and total, e.g. "A♠, 6♥ (7/17)"
func (h *Hand) String() string {
	return h.View().String()
}

// HandView is a read-only copy of a hand handed to agents and displays
type HandView struct {
	Cards       []deck.Card
	Total       Total
	Bet         Money
	OriginalBet Money
	Stood       bool
	Doubled     bool
}

// CanSplit reports whether the viewed hand is a pair
func (v HandView) CanSplit() bool {
	return len(v.Cards) == 2 && v.Cards[0].Rank == v.Cards[1].Rank
}

// TotalString renders the total, showing the all-aces-low alternative when
// it differs and does not bust
func (v HandView) TotalString() string {
	if v.Total.HasAlternate() {
		return fmt.Sprintf("%d/%d", v.Total.Hard, v.Total.Best)
	}
	return fmt.Sprintf("%d", v.Total.Best)
}

// String renders the cards and total
func (v HandView) String() string {
	cards := make([]string, len(v.Cards))
	for i, c := range v.Cards {
		cards[i] = c.String()
	}
	return fmt.Sprintf("%s (%s)", strings.Join(cards, ", "), v.TotalString())
}
