package strategy

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// Chart codes, one per dealer up card from 2 through ace:
//
//	H hit, S stand, P split, D double (else hit), d double (else stand)
type row string

// Multi-deck basic strategy, dealer stands on soft 17, doubling after a
// split allowed, no surrender.
var (
	//                dealer 23456789TA
	hardChart = map[int]row{
		9:  "HDDDDHHHHH",
		10: "DDDDDDDDHH",
		11: "DDDDDDDDDH",
		12: "HHSSSHHHHH",
		13: "SSSSSHHHHH",
		14: "SSSSSHHHHH",
		15: "SSSSSHHHHH",
		16: "SSSSSHHHHH",
	}
	softChart = map[int]row{
		13: "HHHDDHHHHH",
		14: "HHHDDHHHHH",
		15: "HHDDDHHHHH",
		16: "HHDDDHHHHH",
		17: "HDDDDHHHHH",
		18: "dddddSSHHH",
		19: "SSSSdSSSSS",
	}
	// keyed by the card value of the pair; tens and fives play their totals
	pairChart = map[int]row{
		2:  "PPPPPPHHHH",
		3:  "PPPPPPHHHH",
		4:  "HHHPPHHHHH",
		6:  "PPPPPHHHHH",
		7:  "PPPPPPHHHH",
		8:  "PPPPPPPPPP",
		9:  "PPPPPSPPSS",
		11: "PPPPPPPPPP",
	}
)

// Basic plays the standard basic-strategy chart
type Basic struct {
	Flat
	logger *log.Logger
}

// NewBasic creates a basic-strategy player
func NewBasic(flat Flat, logger *log.Logger) *Basic {
	return &Basic{Flat: flat, logger: logger}
}

// Decide looks the hand up in the pair, soft and hard charts in that order
func (b *Basic) Decide(_ context.Context, d blackjack.Decision) (blackjack.Action, error) {
	code := Chart(d.Hand, d.DealerUp)
	action := b.resolve(code, d)
	b.logger.Debug("Chart decision",
		"hand", d.Hand.String(),
		"dealerUp", d.DealerUp,
		"code", string(code),
		"action", action)
	return action, nil
}

// Chart returns the chart code for hand against the dealer up card,
// ignoring whether the action is currently affordable
func Chart(hand blackjack.HandView, up deck.Card) byte {
	col := blackjack.CardPoints(up) - 2
	total := hand.Total

	if hand.CanSplit() {
		if r, ok := pairChart[blackjack.CardPoints(hand.Cards[0])]; ok {
			if r[col] == 'P' {
				return 'P'
			}
		}
	}

	if total.Soft {
		switch {
		case total.Best >= 20:
			return 'S'
		case total.Best < 13:
			return 'H'
		}
		return softChart[total.Best][col]
	}

	switch {
	case total.Best >= 17:
		return 'S'
	case total.Best <= 8:
		return 'H'
	}
	return hardChart[total.Best][col]
}

func (b *Basic) resolve(code byte, d blackjack.Decision) blackjack.Action {
	switch code {
	case 'P':
		if canSplit(d) {
			return blackjack.Split
		}
		// unaffordable split: play the pair as a plain total
		return b.resolve(Chart(blackjack.HandView{Total: d.Hand.Total}, d.DealerUp), d)
	case 'D':
		return firstAllowed(d, blackjack.Double, blackjack.Hit)
	case 'd':
		return firstAllowed(d, blackjack.Double, blackjack.Stand)
	case 'H':
		return blackjack.Hit
	default:
		return blackjack.Stand
	}
}
