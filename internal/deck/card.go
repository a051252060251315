package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in shoe construction order
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the symbol for a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from Two to Ace
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the printed rank, using "10" rather than "T" for tens
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// IsFace returns true for jacks, queens and kings
func (r Rank) IsFace() bool {
	return r >= Jack && r <= King
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// ParseCard parses short notation such as "As", "Td", "10h" or "Q♣".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	runes := []rune(s)
	suit, err := parseSuit(runes[len(runes)-1])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}

	rank, err := parseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a space or comma separated list of cards
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func parseSuit(r rune) (Suit, error) {
	switch r {
	case 's', 'S', '♠':
		return Spades, nil
	case 'h', 'H', '♥':
		return Hearts, nil
	case 'd', 'D', '♦':
		return Diamonds, nil
	case 'c', 'C', '♣':
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", r)
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}
