package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	TableFlags

	Sessions int    `help:"Number of independent sessions" env:"BLACKJACK_SESSIONS"`
	Rounds   int    `help:"Round limit per session" env:"BLACKJACK_ROUNDS"`
	Bet      int    `help:"Flat bet in whole dollars" env:"BLACKJACK_BET"`
	Strategy string `help:"Strategy: basic, dealer, random" env:"BLACKJACK_STRATEGY"`
	Workers  int    `help:"Sessions played in parallel" env:"BLACKJACK_WORKERS"`
	Seed     int64  `help:"Base RNG seed (0 for random)" env:"BLACKJACK_SEED"`
	Output   string `help:"Also write the report to this file"`
	Verbose  bool   `short:"V" help:"Verbose logging"`
}

func (c *SimulateCmd) config(g *Globals) (*config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	c.TableFlags.apply(cfg)

	sim := &cfg.Simulation
	if c.Sessions != 0 {
		sim.Sessions = c.Sessions
	}
	if c.Rounds != 0 {
		sim.Rounds = c.Rounds
	}
	if c.Bet != 0 {
		sim.Bet = c.Bet
	}
	if c.Strategy != "" {
		sim.Strategy = c.Strategy
	}
	if c.Workers != 0 {
		sim.Workers = c.Workers
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := c.config(g)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		if seed, err = randutil.Seed(); err != nil {
			return err
		}
	}

	simCfg := simulator.Config{
		Sessions: cfg.Simulation.Sessions,
		Rounds:   cfg.Simulation.Rounds,
		Balance:  cfg.Balance(),
		Bet:      blackjack.Dollars(int64(cfg.Simulation.Bet)),
		Strategy: cfg.Simulation.Strategy,
		Workers:  cfg.Simulation.Workers,
		Seed:     seed,
		Rules:    cfg.TableRules(),
		Logger:   logger,
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting simulation",
		"sessions", simCfg.Sessions,
		"rounds", simCfg.Rounds,
		"strategy", simCfg.Strategy,
		"workers", simCfg.Workers,
		"seed", seed)

	res, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, res, simCfg)
	if c.Output != "" {
		err := fileutil.WriteAtomic(c.Output, 0o644, func(w io.Writer) error {
			simulator.PrintSummary(w, res, simCfg)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Report written", "file", c.Output)
	}
	if logger.GetLevel() <= log.DebugLevel {
		for _, s := range res.Sessions {
			logger.Debug("Session", "id", s.ID, "rounds", s.Rounds, "reason", s.Reason, "final", s.FinalBalance)
		}
	}
	return nil
}
