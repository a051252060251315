package blackjack

import "github.com/lox/blackjack/internal/deck"

// Blackjack is the target total
const Blackjack = 21

// Total describes the value of a set of cards
type Total struct {
	Best int  // highest total not over 21, or the all-aces-low total on a bust
	Hard int  // every ace counted as one
	Soft bool // Best counts at least one ace as eleven
}

// IsBust reports whether even the lowest total exceeds 21
func (t Total) IsBust() bool {
	return t.Best > Blackjack
}

// HasAlternate reports whether a second, lower total is worth showing
// alongside Best, as in "7/17"
func (t Total) HasAlternate() bool {
	return t.Soft && t.Hard != t.Best && t.Hard <= Blackjack
}

// CardPoints returns a card's base value: face value for number cards, 10
// for faces and 11 for an ace
func CardPoints(c deck.Card) int {
	switch {
	case c.Rank == deck.Ace:
		return 11
	case c.Rank.IsFace():
		return 10
	default:
		return int(c.Rank)
	}
}

// Evaluate computes the best total for cards. Aces start at eleven and are
// reduced to one, one at a time, while the total is over 21.
func Evaluate(cards []deck.Card) Total {
	total, aces := 0, 0
	for _, c := range cards {
		total += CardPoints(c)
		if c.IsAce() {
			aces++
		}
	}

	hard := total - 10*aces
	for total > Blackjack && aces > 0 {
		total -= 10
		aces--
	}

	return Total{
		Best: total,
		Hard: hard,
		Soft: aces > 0,
	}
}

// Value returns the best total for cards
func Value(cards []deck.Card) int {
	return Evaluate(cards).Best
}
