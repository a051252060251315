package strategy

import (
	"context"

	"github.com/lox/blackjack/internal/blackjack"
)

// Mimic plays the player's hands by the dealer's rule: hit below 17, stand
// otherwise, never double or split
type Mimic struct {
	Flat
	policy blackjack.DealerPolicy
}

// NewMimic creates a player that copies a stand-on-soft-17 dealer
func NewMimic(flat Flat) *Mimic {
	return &Mimic{Flat: flat}
}

func (m *Mimic) Decide(_ context.Context, d blackjack.Decision) (blackjack.Action, error) {
	return m.policy.Next(d.Hand.Total), nil
}
