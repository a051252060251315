package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
)

// Bridge plays the player's seat through a running Bubble Tea program. Every
// engine callback becomes a message to the model; questions block until the
// model hands back what was typed.
type Bridge struct {
	send    func(tea.Msg)
	answers <-chan string
	done    <-chan struct{}
	logger  *log.Logger
}

var (
	_ blackjack.Controller = (*Bridge)(nil)
	_ blackjack.Display    = (*Bridge)(nil)
)

// NewBridge connects to model running inside program
func NewBridge(program *tea.Program, model *Model, logger *log.Logger) *Bridge {
	return newBridge(program.Send, model.answers, model.done, logger)
}

func newBridge(send func(tea.Msg), answers <-chan string, done <-chan struct{}, logger *log.Logger) *Bridge {
	return &Bridge{
		send:    send,
		answers: answers,
		done:    done,
		logger:  logger.WithPrefix("bridge"),
	}
}

// post delivers msg unless the interface has already closed
func (b *Bridge) post(msg tea.Msg) {
	select {
	case <-b.done:
	default:
		b.send(msg)
	}
}

// ask shows a question and waits for the answer
func (b *Bridge) ask(ctx context.Context, p promptMsg) (string, error) {
	b.post(p)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-b.done:
		return "", blackjack.ErrInputClosed
	case answer := <-b.answers:
		b.logger.Debug("Received answer", "kind", p.kind, "answer", answer)
		return answer, nil
	}
}

// Bet asks for the next opening wager
func (b *Bridge) Bet(ctx context.Context, balance blackjack.Money) (blackjack.Money, error) {
	answer, err := b.ask(ctx, promptMsg{
		kind: promptBet,
		text: fmt.Sprintf("Place your bet (%s-%s, 0 to quit)", blackjack.MinBet, blackjack.Dollars(balance.Dollars())),
	})
	if err != nil {
		return 0, err
	}
	return blackjack.ParseAmount(answer)
}

// Insurance asks whether to insure and for how much
func (b *Bridge) Insurance(ctx context.Context, offer blackjack.InsuranceOffer) (blackjack.Money, error) {
	answer, err := b.ask(ctx, promptMsg{kind: promptInsurance, text: "Dealer shows an ace. Take insurance? (y/n)"})
	if err != nil {
		return 0, err
	}
	take, err := blackjack.ParseYesNo(answer)
	if err != nil || !take {
		return 0, err
	}

	answer, err = b.ask(ctx, promptMsg{
		kind: promptInsuranceAmount,
		text: fmt.Sprintf("Insurance amount (%s-%s)", blackjack.MinBet, offer.Max),
	})
	if err != nil {
		return 0, err
	}
	return blackjack.ParseAmount(answer)
}

// Decide asks for the action on the current hand
func (b *Bridge) Decide(ctx context.Context, d blackjack.Decision) (blackjack.Action, error) {
	text := fmt.Sprintf("Your %s against the dealer's %s", d.Hand.TotalString(), d.DealerUp)
	if d.HandCount > 1 {
		text = fmt.Sprintf("Hand %d of %d: %s", d.HandIndex+1, d.HandCount, text)
	}
	answer, err := b.ask(ctx, promptMsg{kind: promptAction, text: text, valid: d.Valid, hand: d.HandIndex})
	if err != nil {
		return 0, err
	}
	return blackjack.ParseAction(answer)
}

// DealerHand updates the dealer's hand
func (b *Bridge) DealerHand(v blackjack.HandView, hideHole bool) {
	b.post(dealerMsg{view: v, hideHole: hideHole})
	if hideHole {
		b.post(logMsg{fmt.Sprintf("Dealer shows %s", formatCards(v.Cards[:1]))})
		return
	}
	b.post(logMsg{fmt.Sprintf("Dealer: %s (%s)", formatCards(v.Cards), v.TotalString())})
}

// PlayerHand updates one of the player's hands
func (b *Bridge) PlayerHand(index int, v blackjack.HandView) {
	b.post(handMsg{index: index, view: v})
	line := fmt.Sprintf("Hand %d: %s (%s)", index+1, formatCards(v.Cards), v.TotalString())
	if v.Total.IsBust() {
		line += " " + ErrorStyle.Render("BUST")
	}
	b.post(logMsg{line})
}

// InsuranceSettled logs the settled side bet
func (b *Bridge) InsuranceSettled(r blackjack.InsuranceResult) {
	if r.DealerBlackjack {
		b.post(logMsg{SuccessStyle.Render(fmt.Sprintf("Insurance pays %s", r.Paid))})
		return
	}
	b.post(logMsg{WarningStyle.Render(fmt.Sprintf("Insurance lost (%s)", r.Stake))})
}

// Natural logs the result of a player blackjack
func (b *Bridge) Natural(r blackjack.HandResult) {
	if r.Outcome == blackjack.Push {
		b.post(logMsg{WarningStyle.Render("Blackjack against a dealer blackjack: push")})
		return
	}
	b.post(logMsg{SuccessStyle.Render(fmt.Sprintf("Blackjack! Paid %s", r.Credit))})
}

// Outcome logs how a hand settled
func (b *Bridge) Outcome(r blackjack.HandResult) {
	line := fmt.Sprintf("Hand %d: %s", r.Index+1, r.Outcome)
	switch r.Outcome {
	case blackjack.Win, blackjack.Push:
		b.post(logMsg{SuccessStyle.Render(fmt.Sprintf("%s, %s returned", line, r.Credit))})
	default:
		b.post(logMsg{ErrorStyle.Render(fmt.Sprintf("%s, %s lost", line, r.Hand.Bet))})
	}
}

// Rejected logs why the last answer was refused
func (b *Bridge) Rejected(err error) {
	msg := err.Error()
	if errors.Is(err, blackjack.ErrInsufficientFunds) {
		msg = "Not enough money: " + msg
	}
	b.post(logMsg{ErrorStyle.Render("✗ " + msg)})
}

// Balance updates the balance shown in the sidebar
func (b *Bridge) Balance(balance blackjack.Money) {
	b.post(balanceMsg{balance})
}

// SessionEnded shows the summary and waits for the player to leave
func (b *Bridge) SessionEnded(s blackjack.Summary) {
	b.post(endMsg{s})
}
