package blackjack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func TestDealerPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cards     string
		hitSoft17 bool
		want      Action
	}{
		{"hits 16", "10s 6h", false, Hit},
		{"stands hard 17", "10s 7h", false, Stand},
		{"stands soft 17 by default", "As 6h", false, Stand},
		{"hits soft 17 when configured", "As 6h", true, Hit},
		{"stands hard 17 with ace", "As 6h 10d", true, Stand},
		{"stands soft 18", "As 7h", true, Stand},
		{"stands on bust", "10s 6h 9d", false, Stand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DealerPolicy{HitSoft17: tt.hitSoft17}
			got := policy.Next(Evaluate(deck.MustParseCards(tt.cards)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDealerPlay(t *testing.T) {
	t.Parallel()

	shoe := deck.NewStackedShoe(1, randutil.New(1), deck.MustParseCards("2c 3d 9h")...)
	dealer := NewDealer(DealerPolicy{})
	dealer.Hands = []*Hand{handOf("10s 2h", 0)}

	var seen []HandView
	err := dealer.Play(context.Background(), shoe, DealerAgent{Policy: dealer.Policy}, func(v HandView) {
		seen = append(seen, v)
	})
	require.NoError(t, err)

	// 12 -> 14 -> 17, stands before the 9
	assert.Equal(t, 17, dealer.Hand().Total())
	assert.True(t, dealer.Hand().Stood)
	require.Len(t, seen, 2)
	assert.Equal(t, 14, seen[0].Total.Best)
	assert.Equal(t, 17, seen[1].Total.Best)
	assert.Equal(t, 1, shoe.Remaining())
}

func TestDealerPlaySoft17(t *testing.T) {
	t.Parallel()

	for _, hit := range []bool{false, true} {
		shoe := deck.NewStackedShoe(1, randutil.New(1), deck.MustParseCards("3c")...)
		dealer := NewDealer(DealerPolicy{HitSoft17: hit})
		dealer.Hands = []*Hand{handOf("As 6h", 0)}

		require.NoError(t, dealer.Play(context.Background(), shoe, DealerAgent{Policy: dealer.Policy}, nil))
		if hit {
			assert.Equal(t, 20, dealer.Hand().Total())
		} else {
			assert.Equal(t, 17, dealer.Hand().Total())
		}
	}
}

func TestDealerPlayWithoutHand(t *testing.T) {
	t.Parallel()

	dealer := NewDealer(DealerPolicy{})
	err := dealer.Play(context.Background(), deck.NewShoe(1, randutil.New(1)), DealerAgent{}, nil)
	require.ErrorIs(t, err, ErrInvalidOperation)
}
