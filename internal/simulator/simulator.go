package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/sessionid"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions int
	Rounds   int // round limit per session
	Balance  blackjack.Money
	Bet      blackjack.Money
	Strategy string
	Workers  int
	Seed     int64
	Rules    blackjack.Rules
	Logger   *log.Logger
	Clock    quartz.Clock
}

// Validate checks the configuration before a run
func (c Config) Validate() error {
	switch {
	case c.Sessions < 1:
		return fmt.Errorf("sessions must be at least 1, got %d", c.Sessions)
	case c.Rounds < 1:
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.Rules.Decks < 1:
		return fmt.Errorf("decks must be at least 1, got %d", c.Rules.Decks)
	case c.Bet > c.Balance:
		return fmt.Errorf("bet %s exceeds starting balance %s", c.Bet, c.Balance)
	}
	return nil
}

// Result is the outcome of a simulation run
type Result struct {
	Stats    *statistics.Statistics
	Sessions []blackjack.Summary // in session order
	Elapsed  time.Duration
}

// Broke returns how many sessions ran out of money
func (r *Result) Broke() int {
	n := 0
	for _, s := range r.Sessions {
		if s.Reason == blackjack.EndBroke {
			n++
		}
	}
	return n
}

// Simulator plays many independent blackjack sessions with an automated
// strategy
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// sessionResult is what one worker hands back for one session
type sessionResult struct {
	summary blackjack.Summary
	stats   *statistics.Statistics
}

// Run plays every session and merges the results. Sessions run concurrently,
// each on its own shoe and RNG, so the totals depend only on the seed.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if _, err := strategy.New(s.config.Strategy, randutil.New(0), s.config.Bet, s.config.Logger); err != nil {
		return nil, err
	}

	start := s.config.Clock.Now()
	results := make([]sessionResult, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Sessions {
		// Each session gets an independent seed for replay
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			res, err := s.playSession(ctx, seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Stats: &statistics.Statistics{}}
	for _, res := range results {
		out.Stats.Merge(res.stats)
		out.Sessions = append(out.Sessions, res.summary)
	}
	out.Elapsed = s.config.Clock.Since(start)

	if err := out.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Logger.Info("Simulation complete",
		"sessions", s.config.Sessions,
		"rounds", out.Stats.Rounds,
		"mean", out.Stats.Mean(),
		"elapsed", out.Elapsed)
	return out, nil
}

// playSession runs a single session to its round limit or until broke
func (s *Simulator) playSession(ctx context.Context, seed int64) (sessionResult, error) {
	ctl, err := strategy.New(s.config.Strategy, randutil.New(randutil.Derive(seed, 1)), s.config.Bet, s.config.Logger)
	if err != nil {
		return sessionResult{}, err
	}

	id := sessionid.Generate()
	logger := s.config.Logger.With("seed", seed)
	shoe := deck.NewShoe(s.config.Rules.Decks, randutil.New(seed))
	engine := blackjack.NewEngine(shoe, s.config.Rules, nil, logger)
	player := blackjack.NewPlayer(s.config.Balance)

	stats := &statistics.Statistics{}
	session := blackjack.NewSession(engine, player, ctl, nil,
		blackjack.WithSessionID(id),
		blackjack.WithMaxRounds(s.config.Rounds),
		blackjack.WithClock(s.config.Clock),
		blackjack.WithRoundHook(func(r *blackjack.RoundResult) {
			stats.Add(RoundStats(r, seed))
		}))

	summary, err := session.Run(ctx)
	if err != nil {
		return sessionResult{}, err
	}
	if summary.Reason == blackjack.EndInterrupted {
		if err := ctx.Err(); err != nil {
			return sessionResult{}, err
		}
		return sessionResult{}, fmt.Errorf("session %s interrupted after %d rounds", id, summary.Rounds)
	}
	return sessionResult{summary: summary, stats: stats}, nil
}

// RoundStats converts an engine round into statistics measured in units of
// the opening bet
func RoundStats(r *blackjack.RoundResult, seed int64) statistics.RoundResult {
	unit := float64(r.Bet)
	var handNet blackjack.Money
	for _, h := range r.Hands {
		handNet += h.Net()
	}

	out := statistics.RoundResult{
		Net:     float64(r.Net()) / unit,
		HandNet: float64(handNet) / unit,
		Seed:    seed,
		Hands:   len(r.Hands),
		Wins:    r.Count(blackjack.Win),
		Losses:  r.Count(blackjack.Lose),
		Pushes:  r.Count(blackjack.Push),
		Busts:   r.Count(blackjack.Bust),
		Natural: r.Count(blackjack.Natural) > 0,
		Doubles: r.Doubles,
		Splits:  r.Splits,
	}
	if r.Insurance != nil {
		out.Insurance = float64(r.Insurance.Net()) / unit
	}
	return out
}

// PrintSummary writes a report of simulation results
func PrintSummary(w io.Writer, res *Result, cfg Config) {
	stats := res.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s strategy ===\n", cfg.Strategy)
	fmt.Fprintf(w, "Sessions: %d (%d went broke)\n", len(res.Sessions), res.Broke())
	fmt.Fprintf(w, "Rounds played: %d, hands settled: %d\n", stats.Rounds, stats.Hands)
	fmt.Fprintf(w, "Seed: %d, decks: %d, dealer hits soft 17: %t\n", cfg.Seed, cfg.Rules.Decks, cfg.Rules.HitSoft17)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f bets/round (%.2f%% edge)\n", stats.Mean(), stats.Mean()*100)
	fmt.Fprintf(w, "Median: %.4f bets/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f bets\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f bets\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] bets/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Best round: %+.1f, worst round: %+.1f bets\n", stats.MaxWin, stats.MaxLoss)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	total := stats.Outcomes.Total()
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}
	o := stats.Outcomes
	fmt.Fprintf(w, "Wins: %d (%.1f%%)\n", o.Wins, pct(o.Wins))
	fmt.Fprintf(w, "Naturals: %d (%.1f%%)\n", o.Naturals, pct(o.Naturals))
	fmt.Fprintf(w, "Pushes: %d (%.1f%%)\n", o.Pushes, pct(o.Pushes))
	fmt.Fprintf(w, "Losses: %d (%.1f%%)\n", o.Losses, pct(o.Losses))
	fmt.Fprintf(w, "Busts: %d (%.1f%%)\n", o.Busts, pct(o.Busts))
	fmt.Fprintf(w, "Doubles: %d, splits: %d, insured rounds: %d\n", stats.Doubles, stats.Splits, stats.InsuranceTaken)

	meanHands := stats.HandUnits / float64(stats.Rounds)
	meanInsurance := stats.InsuranceUnits / float64(stats.Rounds)
	fmt.Fprintf(w, "Hands: %.4f bets/round, insurance: %.4f bets/round\n", meanHands, meanInsurance)
	fmt.Fprintf(w, "Elapsed: %s\n", res.Elapsed.Round(time.Millisecond))
}
