// Package console is the line-oriented terminal front end. It reads answers
// one line at a time and prints the table as plain (optionally coloured)
// text, so it works over pipes as well as in a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
)

// Console plays the player's seat from a reader and shows the table on a
// writer. It implements blackjack.Controller and blackjack.Display.
type Console struct {
	in     io.Reader
	out    io.Writer
	styles Styles
	logger *log.Logger

	once  sync.Once
	lines chan string
}

var (
	_ blackjack.Controller = (*Console)(nil)
	_ blackjack.Display    = (*Console)(nil)
)

// New creates a console reading answers from in and writing to out
func New(in io.Reader, out io.Writer, color bool, logger *log.Logger) *Console {
	return &Console{
		in:     in,
		out:    out,
		styles: NewStyles(out, color),
		logger: logger.WithPrefix("console"),
		lines:  make(chan string),
	}
}

// readLine waits for the next line of input. The scanner runs on its own
// goroutine so a cancelled context is noticed while it blocks.
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.once.Do(func() {
		go c.scan()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", blackjack.ErrInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Console) scan() {
	defer close(c.lines)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error("Reading input failed", "error", err)
	}
}

// ask prints a prompt and reads the answer
func (c *Console) ask(ctx context.Context, format string, args ...any) (string, error) {
	fmt.Fprint(c.out, c.styles.Prompt.Render(fmt.Sprintf(format, args...))+" ")
	line, err := c.readLine(ctx)
	if err != nil {
		fmt.Fprintln(c.out)
		return "", err
	}
	c.logger.Debug("Read answer", "line", line)
	return line, nil
}

// Bet asks for the next opening wager
func (c *Console) Bet(ctx context.Context, balance blackjack.Money) (blackjack.Money, error) {
	line, err := c.ask(ctx, "Bet (%s-%s, 0 to quit):", blackjack.MinBet, blackjack.Dollars(balance.Dollars()))
	if err != nil {
		return 0, err
	}
	return blackjack.ParseAmount(line)
}

// Insurance asks whether to insure against a dealer blackjack and, if so,
// for how much
func (c *Console) Insurance(ctx context.Context, offer blackjack.InsuranceOffer) (blackjack.Money, error) {
	line, err := c.ask(ctx, "Dealer shows an ace. Take insurance? (y/n):")
	if err != nil {
		return 0, err
	}
	take, err := blackjack.ParseYesNo(line)
	if err != nil || !take {
		return 0, err
	}

	line, err = c.ask(ctx, "Insurance amount (%s-%s):", blackjack.MinBet, offer.Max)
	if err != nil {
		return 0, err
	}
	return blackjack.ParseAmount(line)
}

// Decide shows the available actions for a hand and reads the choice
func (c *Console) Decide(ctx context.Context, d blackjack.Decision) (blackjack.Action, error) {
	if d.HandCount > 1 {
		fmt.Fprintf(c.out, "%s %s\n",
			c.styles.Hand.Render(fmt.Sprintf("Playing hand %d of %d:", d.HandIndex+1, d.HandCount)),
			c.hand(d.Hand))
	}

	menu := make([]string, len(d.Valid))
	for i, a := range d.Valid {
		menu[i] = fmt.Sprintf("%s) %s", a.MenuKey(), a)
	}
	fmt.Fprintln(c.out, c.styles.Info.Render(strings.Join(menu, "  ")))

	line, err := c.ask(ctx, "Action:")
	if err != nil {
		return 0, err
	}
	return blackjack.ParseAction(line)
}

func (c *Console) hand(v blackjack.HandView) string {
	s := fmt.Sprintf("%s (%s)", c.styles.Cards(v.Cards), v.TotalString())
	if v.Total.IsBust() {
		s += " " + c.styles.Error.Render("BUST")
	}
	return s
}

// DealerHand prints the dealer's cards
func (c *Console) DealerHand(v blackjack.HandView, hideHole bool) {
	if hideHole && len(v.Cards) > 0 {
		fmt.Fprintf(c.out, "%s %s [hidden]\n", c.styles.Hand.Render("Dealer shows:"), c.styles.Card(v.Cards[0]))
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.styles.Hand.Render("Dealer:"), c.hand(v))
}

// PlayerHand prints one of the player's hands
func (c *Console) PlayerHand(index int, v blackjack.HandView) {
	bet := fmt.Sprintf("bet %s", v.Bet)
	if v.Doubled {
		bet += ", doubled"
	}
	fmt.Fprintf(c.out, "%s %s %s\n",
		c.styles.Hand.Render(fmt.Sprintf("Hand %d:", index+1)),
		c.hand(v),
		c.styles.Info.Render(bet))
}

// InsuranceSettled prints the settled side bet
func (c *Console) InsuranceSettled(r blackjack.InsuranceResult) {
	if r.DealerBlackjack {
		fmt.Fprintln(c.out, c.styles.Success.Render(fmt.Sprintf("Dealer has blackjack. Insurance pays %s.", r.Paid)))
		return
	}
	fmt.Fprintln(c.out, c.styles.Warning.Render(fmt.Sprintf("No dealer blackjack. Insurance of %s lost.", r.Stake)))
}

// Natural prints the result of a player blackjack
func (c *Console) Natural(r blackjack.HandResult) {
	if r.Outcome == blackjack.Push {
		fmt.Fprintln(c.out, c.styles.Warning.Render("Blackjack! The dealer has one too. Push."))
		return
	}
	fmt.Fprintln(c.out, c.styles.Success.Render(fmt.Sprintf("Blackjack! Paid %s.", r.Credit)))
}

// Outcome prints how a hand settled
func (c *Console) Outcome(r blackjack.HandResult) {
	label := fmt.Sprintf("Hand %d:", r.Index+1)
	switch r.Outcome {
	case blackjack.Win, blackjack.Natural:
		msg := fmt.Sprintf("%s win, %s returned", label, r.Credit)
		if r.Dealer > 21 {
			msg += " (dealer busts)"
		}
		fmt.Fprintln(c.out, c.styles.Success.Render(msg))
	case blackjack.Push:
		fmt.Fprintln(c.out, c.styles.Warning.Render(fmt.Sprintf("%s push at %d, %s returned", label, r.Dealer, r.Credit)))
	case blackjack.Bust:
		fmt.Fprintln(c.out, c.styles.Error.Render(fmt.Sprintf("%s bust, %s lost", label, r.Hand.Bet)))
	default:
		fmt.Fprintln(c.out, c.styles.Error.Render(fmt.Sprintf("%s dealer's %d beats %d, %s lost", label, r.Dealer, r.Hand.Total.Best, r.Hand.Bet)))
	}
}

// Rejected prints why the last answer was refused
func (c *Console) Rejected(err error) {
	fmt.Fprintln(c.out, c.styles.Error.Render("✗ "+err.Error()))
}

// Balance prints the balance before each round
func (c *Console) Balance(balance blackjack.Money) {
	fmt.Fprintf(c.out, "\n%s\n", c.styles.Header.Render(fmt.Sprintf(" Balance: %s ", balance)))
}

// SessionEnded prints the session summary
func (c *Console) SessionEnded(s blackjack.Summary) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.Header.Render(fmt.Sprintf(" Session over: %s ", s.Reason)))
	if s.Reason == blackjack.EndBroke {
		fmt.Fprintln(c.out, c.styles.Error.Render("You're out of money."))
	}
	fmt.Fprintf(c.out, "Rounds played: %d\n", s.Rounds)
	fmt.Fprintf(c.out, "Final balance: %s (net %s)\n", s.FinalBalance, s.Net())
	fmt.Fprintf(c.out, "Wins: %d, blackjacks: %d, pushes: %d, losses: %d, busts: %d\n",
		s.Wins, s.Naturals, s.Pushes, s.Losses, s.Busts)
	if s.ID != "" {
		fmt.Fprintln(c.out, c.styles.Info.Render("Session "+s.ID))
	}
}
