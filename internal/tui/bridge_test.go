package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// typist stands in for a running program. Messages go straight into the
// model and every prompt is answered by typing the next scripted line. When
// the script runs out the interface closes.
type typist struct {
	model  *Model
	script []string
}

func (ty *typist) send(msg tea.Msg) {
	ty.model.Update(msg)
	if _, ok := msg.(promptMsg); !ok {
		return
	}
	if len(ty.script) == 0 {
		ty.model.close()
		return
	}
	ty.model.actionInput.SetValue(ty.script[0])
	ty.script = ty.script[1:]
	ty.model.Update(enter())
}

func playThroughModel(t *testing.T, cards string, script ...string) (blackjack.Summary, *Model) {
	t.Helper()

	model := NewModel(quietLogger())
	ty := &typist{model: model, script: script}
	bridge := newBridge(ty.send, model.answers, model.done, quietLogger())

	shoe := deck.NewStackedShoe(1, randutil.New(1), deck.MustParseCards(cards)...)
	engine := blackjack.NewEngine(shoe, blackjack.DefaultRules(), bridge, quietLogger())
	session := blackjack.NewSession(engine, blackjack.NewPlayer(blackjack.Dollars(1000)), bridge, bridge)

	summary, err := session.Run(context.Background())
	require.NoError(t, err)
	return summary, model
}

func TestBridgePlaysRound(t *testing.T) {
	summary, model := playThroughModel(t, "10s 9d 9h 8c", "100", "stand", "0")

	assert.Equal(t, blackjack.EndQuit, summary.Reason)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, blackjack.Dollars(1000), summary.FinalBalance)

	log := strings.Join(model.gameLog, "\n")
	assert.Contains(t, log, "Round 1")
	assert.Contains(t, log, "Dealer shows [9♦]")
	assert.Contains(t, log, "Hand 1: [10♠ 9♥] (19)")
	assert.Contains(t, log, "Dealer: [9♦ 8♣] (17)")
	assert.Contains(t, log, "Hand 1: win, $100 returned")
	assert.Contains(t, log, "Session over: quit")

	assert.True(t, model.ended)
	assert.Equal(t, blackjack.Dollars(1000), model.balance)
}

func TestBridgeRejectedAnswersAskAgain(t *testing.T) {
	summary, model := playThroughModel(t, "10s Ad 9h Kc",
		"2000", "100", // too much, then fine
		"y", "80",     // over half the bet
		"y", "50",     // the offer comes round again
		"fold", "s",
		"0")

	assert.Equal(t, blackjack.Dollars(950), summary.FinalBalance)

	log := strings.Join(model.gameLog, "\n")
	assert.Equal(t, 3, strings.Count(log, "✗"))
	assert.Contains(t, log, "Not enough money")
	assert.Contains(t, log, "Insurance pays $100")
	assert.Contains(t, log, "Hand 1: lose, $100 lost")
}

func TestBridgeSplitHands(t *testing.T) {
	// 8s 8h split against a dealer 17; each eight draws a ten
	summary, model := playThroughModel(t, "8s 10d 8h 7c Ks Kh", "100", "split", "s", "s", "0")

	assert.Equal(t, 2, summary.Wins)
	require.Len(t, model.hands, 2)
	assert.Equal(t, 18, model.hands[0].Total.Best)
	assert.Equal(t, 18, model.hands[1].Total.Best)
}

func TestBridgeInterfaceClosed(t *testing.T) {
	summary, model := playThroughModel(t, "10s 9d 9h 8c", "100")

	assert.Equal(t, blackjack.EndInterrupted, summary.Reason)
	assert.Equal(t, blackjack.Dollars(900), summary.FinalBalance)
	assert.False(t, model.ended, "nothing is posted once the interface has gone")
}

func TestBridgeContextCancelled(t *testing.T) {
	model := NewModel(quietLogger())
	bridge := newBridge(func(tea.Msg) {}, model.answers, model.done, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bridge.Decide(ctx, blackjack.Decision{Valid: []blackjack.Action{blackjack.Hit}})
	assert.ErrorIs(t, err, context.Canceled)
}
