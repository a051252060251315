// Package blackjack implements the rules engine for single-player blackjack
// against a dealer.
//
// The main type is Engine, which plays one round at a time: it deals from a
// deck.Shoe, offers insurance when the dealer shows an ace, settles player
// naturals, drives the player's decisions across every hand (including hands
// created by splitting), runs the dealer policy and settles payouts.
//
// # Basic Usage
//
//	shoe := deck.NewShoe(4, randutil.New(42))
//	engine := blackjack.NewEngine(shoe, blackjack.DefaultRules(), display, logger)
//	player := blackjack.NewPlayer(blackjack.Dollars(1000))
//	result, err := engine.PlayRound(ctx, player, controller, blackjack.Dollars(10))
//
// Session wraps the engine with the outer betting loop used by the command
// line tools and the simulator.
//
// # Decisions
//
// Every choice the engine needs comes through an interface. Agent chooses
// hand actions and is implemented alike by the interactive front ends, the
// automated strategies and the dealer's fixed policy (DealerAgent). Bettor
// chooses wagers. Display receives what happened. Rules errors returned by
// any of them (ErrMalformedInput, ErrInvalidOperation, ErrInsufficientFunds)
// are reported back through Display.Rejected and the same question is asked
// again. Any other error ends the session.
//
// # Money
//
// Amounts are Money, a count of cents, so the 3:2 natural payout is exact
// for whole-dollar wagers.
package blackjack
