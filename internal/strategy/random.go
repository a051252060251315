package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/lox/blackjack/internal/blackjack"
)

// Random makes uniform random legal actions and takes full insurance half
// the time it is offered
type Random struct {
	Flat
	rng *rand.Rand
}

// NewRandom creates a random player drawing from rng
func NewRandom(rng *rand.Rand, flat Flat) *Random {
	return &Random{Flat: flat, rng: rng}
}

func (r *Random) Decide(_ context.Context, d blackjack.Decision) (blackjack.Action, error) {
	choices := make([]blackjack.Action, 0, len(d.Valid))
	for _, a := range d.Valid {
		if a == blackjack.Split && !canSplit(d) {
			continue
		}
		choices = append(choices, a)
	}
	if len(choices) == 0 {
		return blackjack.Stand, nil
	}
	return choices[r.rng.IntN(len(choices))], nil
}

func (r *Random) Insurance(_ context.Context, offer blackjack.InsuranceOffer) (blackjack.Money, error) {
	if r.rng.IntN(2) == 0 {
		return 0, nil
	}
	return offer.Max, nil
}
