package blackjack

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// DealerStandsOn is the total at which the dealer stops drawing
const DealerStandsOn = 17

// DealerPolicy is the fixed rule the dealer plays by
type DealerPolicy struct {
	HitSoft17 bool
}

// Next returns Hit or Stand for a dealer hand total
func (p DealerPolicy) Next(t Total) Action {
	switch {
	case t.Best < DealerStandsOn:
		return Hit
	case t.Best == DealerStandsOn && t.Soft && p.HitSoft17:
		return Hit
	default:
		return Stand
	}
}

// DealerAgent adapts a DealerPolicy to the Agent contract
type DealerAgent struct {
	Policy DealerPolicy
}

// Decide applies the policy. It never fails.
func (a DealerAgent) Decide(_ context.Context, d Decision) (Action, error) {
	return a.Policy.Next(d.Hand.Total), nil
}

// Play draws for the dealer's hand until agent stands. observe is called
// with the hand after every card drawn.
func (d *Dealer) Play(ctx context.Context, shoe *deck.Shoe, agent Agent, observe func(HandView)) error {
	hand := d.Hand()
	if hand == nil {
		return fmt.Errorf("dealer has no hand: %w", ErrInvalidOperation)
	}

	for !hand.Stood {
		action, err := agent.Decide(ctx, Decision{
			HandCount: 1,
			Hand:      hand.View(),
			Valid:     []Action{Hit, Stand},
		})
		if err != nil {
			return fmt.Errorf("dealer decision: %w", err)
		}

		switch action {
		case Hit:
			hand.Add(shoe.Draw())
			if observe != nil {
				observe(hand.View())
			}
		case Stand:
			hand.Stood = true
		default:
			return fmt.Errorf("dealer cannot %s: %w", action, ErrInvalidOperation)
		}
	}
	return nil
}
