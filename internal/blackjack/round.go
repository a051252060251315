package blackjack

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sanity-io/litter"

	"github.com/lox/blackjack/internal/deck"
)

// Rules holds the table configuration
type Rules struct {
	Decks     int
	HitSoft17 bool
}

// DefaultRules returns a four-deck shoe with the dealer standing on soft 17
func DefaultRules() Rules {
	return Rules{Decks: 4}
}

// Engine plays rounds of blackjack between one player and the dealer. It
// owns the shoe and the dealer for the lifetime of a session.
//
// An Engine is not safe for concurrent use. Concurrent sessions each need
// their own Engine and Shoe.
type Engine struct {
	rules       Rules
	shoe        *deck.Shoe
	dealer      *Dealer
	dealerAgent Agent
	display     Display
	logger      *log.Logger
}

// NewEngine creates an engine dealing from shoe
func NewEngine(shoe *deck.Shoe, rules Rules, display Display, logger *log.Logger) *Engine {
	if display == nil {
		display = NopDisplay{}
	}
	policy := DealerPolicy{HitSoft17: rules.HitSoft17}
	return &Engine{
		rules:       rules,
		shoe:        shoe,
		dealer:      NewDealer(policy),
		dealerAgent: DealerAgent{Policy: policy},
		display:     display,
		logger:      logger.WithPrefix("engine"),
	}
}

// Rules returns the engine's table rules
func (e *Engine) Rules() Rules {
	return e.rules
}

// Shoe returns the shoe the engine deals from
func (e *Engine) Shoe() *deck.Shoe {
	return e.shoe
}

// Dealer returns the engine's dealer
func (e *Engine) Dealer() *Dealer {
	return e.dealer
}

// round is the state scoped to a single PlayRound call
type round struct {
	*Engine
	player    *Player
	ctl       Controller
	bet       Money
	insurance Money
	result    *RoundResult
}

// PlayRound plays one complete round for player with an opening wager of
// bet. Rules errors from ctl are reported to the display and asked again;
// any other error abandons the round, leaving wagers already placed
// forfeited. Both participants' hands are cleared when it returns.
func (e *Engine) PlayRound(ctx context.Context, player *Player, ctl Controller, bet Money) (*RoundResult, error) {
	if bet < MinBet || !bet.IsWholeDollars() {
		return nil, fmt.Errorf("bet %s: %w", bet, ErrMalformedInput)
	}

	r := &round{
		Engine: e,
		player: player,
		ctl:    ctl,
		bet:    bet,
		result: &RoundResult{Bet: bet, BalanceBefore: player.Balance()},
	}
	defer func() {
		player.ClearHands()
		e.dealer.ClearHands()
	}()

	if err := r.deal(); err != nil {
		return nil, err
	}

	if up, _ := e.dealer.UpCard(); up.IsAce() {
		if err := r.offerInsurance(ctx); err != nil {
			return nil, err
		}
	}

	if player.Hands[0].Total() == Blackjack {
		r.settleNatural()
		return r.finish(), nil
	}

	if err := r.playerTurns(ctx); err != nil {
		return nil, err
	}

	dealerPlayed := false
	if r.anyLive() {
		if err := r.dealerTurn(ctx); err != nil {
			return nil, err
		}
		dealerPlayed = true
	}

	r.settleInsurance()
	r.settleHands(dealerPlayed)
	return r.finish(), nil
}

// deal opens a hand for each side, takes the bet and deals two cards each,
// player first
func (r *round) deal() error {
	hand := NewHand(0)
	if err := r.player.PlaceBet(r.bet, hand); err != nil {
		return fmt.Errorf("opening bet: %w", err)
	}
	hand.OriginalBet = r.bet

	r.player.Hands = []*Hand{hand}
	r.dealer.Hands = []*Hand{NewHand(0)}
	dealerHand := r.dealer.Hand()

	for range 2 {
		hand.Add(r.shoe.Draw())
		dealerHand.Add(r.shoe.Draw())
	}

	r.logger.Debug("Dealt", "player", hand.String(), "dealerUp", dealerHand.Cards[0], "bet", r.bet)
	r.display.DealerHand(dealerHand.View(), true)
	r.display.PlayerHand(0, hand.View())
	return nil
}

// offerInsurance runs the insurance decision until a valid answer arrives
func (r *round) offerInsurance(ctx context.Context) error {
	limit := min(MaxInsurance(r.bet), Dollars(r.player.Balance().Dollars()))
	if limit < MinBet {
		return nil
	}

	offer := InsuranceOffer{Bet: r.bet, Max: limit, Balance: r.player.Balance()}
	for {
		amount, err := r.ctl.Insurance(ctx, offer)
		if err == nil {
			err = r.takeInsurance(amount)
		}
		if err == nil {
			return nil
		}
		if !IsRecoverable(err) {
			return fmt.Errorf("insurance: %w", err)
		}
		r.reject(err)
	}
}

func (r *round) takeInsurance(amount Money) error {
	switch {
	case amount == 0:
		return nil
	case amount < 0 || !amount.IsWholeDollars():
		return fmt.Errorf("insurance %s: %w", amount, ErrMalformedInput)
	case amount > MaxInsurance(r.bet):
		return fmt.Errorf("insurance %s exceeds half the bet (%s): %w", amount, MaxInsurance(r.bet), ErrMalformedInput)
	}

	if err := r.player.Debit(amount); err != nil {
		return fmt.Errorf("insurance: %w", err)
	}
	r.insurance = amount
	r.logger.Debug("Insurance taken", "amount", amount)
	return nil
}

// settleNatural resolves a player two-card 21 before any other play
func (r *round) settleNatural() {
	hand := r.player.Hands[0]
	dealerHand := r.dealer.Hand()
	dealerBlackjack := dealerHand.Total() == Blackjack

	res := HandResult{
		Index:   0,
		Hand:    hand.View(),
		Dealer:  dealerHand.Total(),
		Outcome: Natural,
		Credit:  naturalCredit(hand.Bet),
	}
	if dealerBlackjack {
		res.Outcome = Push
		res.Credit = hand.Bet
	}
	r.player.Credit(res.Credit)

	r.result.Natural = true
	r.result.Hands = append(r.result.Hands, res)
	r.display.DealerHand(dealerHand.View(), false)
	r.display.Natural(res)

	if r.insurance > 0 {
		r.resolveInsurance(dealerBlackjack)
	}
}

// playerTurns walks the hand list by index. Splits append hands, so the
// length is re-read on every pass.
func (r *round) playerTurns(ctx context.Context) error {
	for i := 0; i < len(r.player.Hands); i++ {
		for !r.player.Hands[i].Done() {
			if err := r.decide(ctx, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// decide asks for and applies one action on hand i, asking again until the
// answer is usable
func (r *round) decide(ctx context.Context, i int) error {
	up, _ := r.dealer.UpCard()
	for {
		hand := r.player.Hands[i]
		d := Decision{
			HandIndex: i,
			HandCount: len(r.player.Hands),
			Hand:      hand.View(),
			DealerUp:  up,
			Balance:   r.player.Balance(),
			Valid:     ValidActions(hand, r.player.Balance()),
		}

		action, err := r.ctl.Decide(ctx, d)
		if err == nil {
			err = r.apply(i, action, d)
		}
		if err == nil {
			return nil
		}
		if !IsRecoverable(err) {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		r.reject(err)
	}
}

// apply performs action on hand i. Rejected actions leave the round
// untouched.
func (r *round) apply(i int, action Action, d Decision) error {
	hand := r.player.Hands[i]
	if !d.Allows(action) {
		return fmt.Errorf("%s not available for hand %d: %w", action, i+1, ErrInvalidOperation)
	}

	switch action {
	case Hit:
		hand.Add(r.shoe.Draw())

	case Stand:
		hand.Stood = true

	case Double:
		if err := r.player.PlaceBet(hand.Bet, hand); err != nil {
			return fmt.Errorf("double: %w", err)
		}
		hand.Doubled = true
		hand.Add(r.shoe.Draw())
		hand.Stood = true
		r.result.Doubles++

	case Split:
		bet := hand.Bet
		if r.player.Balance() < bet {
			return fmt.Errorf("split needs %s, have %s: %w", bet, r.player.Balance(), ErrInsufficientFunds)
		}
		sibling, err := hand.Split()
		if err != nil {
			return err
		}
		hand.Add(r.shoe.Draw())
		sibling.Add(r.shoe.Draw())
		if err := r.player.PlaceBet(bet, sibling); err != nil {
			return fmt.Errorf("split: %w", err)
		}
		r.player.Hands = append(r.player.Hands, sibling)
		r.result.Splits++
		r.display.PlayerHand(len(r.player.Hands)-1, sibling.View())

	default:
		return fmt.Errorf("unknown action %d: %w", int(action), ErrInvalidOperation)
	}

	r.logger.Debug("Action applied", "hand", i+1, "action", action, "cards", hand.String(), "bet", hand.Bet)
	r.display.PlayerHand(i, hand.View())
	return nil
}

// anyLive reports whether some player hand is still under 22
func (r *round) anyLive() bool {
	for _, h := range r.player.Hands {
		if h.Total() <= Blackjack {
			return true
		}
	}
	return false
}

func (r *round) dealerTurn(ctx context.Context) error {
	r.display.DealerHand(r.dealer.Hand().View(), false)
	err := r.dealer.Play(ctx, r.shoe, r.dealerAgent, func(v HandView) {
		r.logger.Debug("Dealer draws", "hand", v.String())
		r.display.DealerHand(v, false)
	})
	if err != nil {
		return fmt.Errorf("dealer turn: %w", err)
	}
	return nil
}

// settleInsurance resolves a side bet left open by the natural check. Any
// dealer 21 counts as blackjack here, however many cards it took.
func (r *round) settleInsurance() {
	if r.insurance == 0 {
		return
	}
	r.resolveInsurance(r.dealer.Hand().Total() == Blackjack)
}

// resolveInsurance pays twice the stake on a dealer blackjack
func (r *round) resolveInsurance(dealerBlackjack bool) {
	res := InsuranceResult{Stake: r.insurance, DealerBlackjack: dealerBlackjack}
	if dealerBlackjack {
		res.Paid = r.insurance * 2
		r.player.Credit(res.Paid)
	}
	r.result.Insurance = &res
	r.display.InsuranceSettled(res)
}

// settleHands pays each player hand against the dealer's final total
func (r *round) settleHands(dealerPlayed bool) {
	dealerHand := r.dealer.Hand()
	dealerTotal := dealerHand.Total()
	if !dealerPlayed {
		r.display.DealerHand(dealerHand.View(), false)
	}

	for i, hand := range r.player.Hands {
		total := hand.Total()
		res := HandResult{Index: i, Hand: hand.View(), Dealer: dealerTotal}

		switch {
		case total > Blackjack:
			res.Outcome = Bust
		case dealerTotal > Blackjack || total > dealerTotal:
			res.Outcome = Win
			res.Credit = hand.Bet
		case total == dealerTotal:
			res.Outcome = Push
			res.Credit = hand.Bet
		default:
			res.Outcome = Lose
		}

		r.player.Credit(res.Credit)
		r.result.Hands = append(r.result.Hands, res)
		r.display.Outcome(res)
	}
}

// finish stamps the closing balance and logs the round
func (r *round) finish() *RoundResult {
	r.result.Dealer = r.dealer.Hand().View()
	r.result.BalanceAfter = r.player.Balance()

	r.logger.Info("Round settled",
		"bet", r.result.Bet,
		"hands", len(r.result.Hands),
		"dealer", r.result.Dealer.Total.Best,
		"net", r.result.Net(),
		"balance", r.result.BalanceAfter)
	if r.logger.GetLevel() <= log.DebugLevel {
		r.logger.Debug("Round snapshot", "result", litter.Sdump(r.result))
	}
	return r.result
}

func (r *round) reject(err error) {
	r.logger.Warn("Rejected answer", "error", err)
	r.display.Rejected(err)
}
