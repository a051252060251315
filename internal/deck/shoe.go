package deck

import (
	"math/rand/v2"
)

// CardsPerDeck is the size of one standard deck
const CardsPerDeck = 52

// Shoe is the working supply of cards for a session. It is built from one or
// more standard decks and refills itself whenever it runs dry, so Draw never
// fails.
//
// A Shoe is not safe for concurrent use; each session owns its own.
type Shoe struct {
	cards      []Card
	decks      int
	rng        *rand.Rand
	reshuffles int
}

// NewShoe creates a shuffled shoe holding decks × 52 cards
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{
		cards: make([]Card, 0, decks*CardsPerDeck),
		decks: decks,
		rng:   rng,
	}
	s.fill()
	return s
}

// NewStackedShoe returns a shoe that deals the given cards first, in order.
// Once they are used up the shoe refills normally.
func NewStackedShoe(decks int, rng *rand.Rand, cards ...Card) *Shoe {
	if decks < 1 {
		decks = 1
	}
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{
		cards: stacked,
		decks: decks,
		rng:   rng,
	}
}

// Draw removes and returns the top card, reshuffling a full shoe first if
// every card has been dealt
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.fill()
		s.reshuffles++
	}

	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// Remaining returns the number of cards left before the next reshuffle
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Decks returns the configured deck count
func (s *Shoe) Decks() int {
	return s.decks
}

// Reshuffles returns how many times the shoe has refilled itself after
// running out
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}

// fill replaces the contents with freshly shuffled decks
func (s *Shoe) fill() {
	s.cards = s.cards[:0]
	for range s.decks {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	s.shuffle()
}

// shuffle is a Fisher-Yates pass driven by the injected generator
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}
