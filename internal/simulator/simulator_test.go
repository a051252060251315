package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/strategy"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Sessions: 6,
		Rounds:   50,
		Balance:  blackjack.Dollars(1000),
		Bet:      blackjack.Dollars(10),
		Strategy: "basic",
		Workers:  3,
		Seed:     12345,
		Rules:    blackjack.DefaultRules(),
		Logger:   log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
		Clock:    quartz.NewMock(t),
	}
}

func TestNew(t *testing.T) {
	sim := New(Config{Sessions: 1})
	if sim == nil {
		t.Fatal("New() returned nil")
	}
	if sim.config.Workers != 1 {
		t.Errorf("Expected workers to default to 1, got %d", sim.config.Workers)
	}
	if sim.config.Clock == nil || sim.config.Logger == nil {
		t.Error("Expected default clock and logger")
	}
}

func TestSimulator_Run(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Sessions, cfg.Sessions)
	rounds := 0
	for _, s := range res.Sessions {
		rounds += s.Rounds
		assert.Contains(t, []blackjack.EndReason{blackjack.EndRoundLimit, blackjack.EndBroke}, s.Reason)
		assert.NotEmpty(t, s.ID)
	}
	assert.Equal(t, rounds, res.Stats.Rounds)
	assert.GreaterOrEqual(t, res.Stats.Hands, res.Stats.Rounds)
	assert.NoError(t, res.Stats.Validate())
	assert.Zero(t, res.Elapsed, "mock clock never advanced")
}

func TestSimulator_DeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	serial := testConfig(t)
	serial.Workers = 1
	parallel := testConfig(t)
	parallel.Workers = 6

	a, err := New(serial).Run(context.Background())
	require.NoError(t, err)
	b, err := New(parallel).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Stats.Values, b.Stats.Values)
	assert.Equal(t, a.Stats.Outcomes, b.Stats.Outcomes)
	for i := range a.Sessions {
		assert.Equal(t, a.Sessions[i].FinalBalance, b.Sessions[i].FinalBalance, "session %d", i)
	}
}

func TestSimulator_EveryStrategy(t *testing.T) {
	t.Parallel()

	for _, name := range strategy.Names() {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Strategy = name
			cfg.Sessions = 2
			res, err := New(cfg).Run(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Stats.IsLedgerBalanced())
		})
	}
}

func TestSimulator_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*Config){
		"no sessions":      func(c *Config) { c.Sessions = 0 },
		"no rounds":        func(c *Config) { c.Rounds = 0 },
		"no decks":         func(c *Config) { c.Rules.Decks = 0 },
		"bet over balance": func(c *Config) { c.Bet = blackjack.Dollars(5000) },
		"unknown strategy": func(c *Config) { c.Strategy = "psychic" },
		"fractional bet":   func(c *Config) { c.Bet = blackjack.Money(150) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			mutate(&cfg)
			_, err := New(cfg).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestSimulator_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoundStats(t *testing.T) {
	t.Parallel()

	bet := blackjack.Dollars(10)
	hand := func(cards string, bet blackjack.Money) blackjack.HandView {
		return blackjack.HandView{Cards: deck.MustParseCards(cards), Bet: bet}
	}
	r := &blackjack.RoundResult{
		Bet: bet,
		Hands: []blackjack.HandResult{
			{Hand: hand("8s 10h", bet), Outcome: blackjack.Win, Credit: bet},
			{Hand: hand("8d 5c Kc", bet), Outcome: blackjack.Bust},
		},
		Insurance:     &blackjack.InsuranceResult{Stake: blackjack.Dollars(5)},
		Splits:        1,
		BalanceBefore: blackjack.Dollars(100),
		BalanceAfter:  blackjack.Dollars(85),
	}

	got := RoundStats(r, 7)
	assert.InDelta(t, -1.5, got.Net, 1e-9)
	assert.InDelta(t, -1.0, got.HandNet, 1e-9)
	assert.InDelta(t, -0.5, got.Insurance, 1e-9)
	assert.Equal(t, 2, got.Hands)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 1, got.Busts)
	assert.Equal(t, 1, got.Splits)
	assert.Equal(t, int64(7), got.Seed)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Sessions = 1
	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, res, cfg)
	out := buf.String()
	assert.Contains(t, out, "FINAL RESULTS: basic strategy")
	assert.Contains(t, out, "95% CI")
	assert.Contains(t, out, "Naturals:")
}
