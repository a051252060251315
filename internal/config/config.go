// Package config loads the blackjack HCL configuration file. Every block and
// attribute is optional; anything left out takes its default.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/strategy"
)

// DefaultFile is the config file looked for when none is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Rules      RulesConfig
	Logging    LoggingConfig
	Simulation SimulationConfig
}

// RulesConfig describes the table
type RulesConfig struct {
	Decks           int  `hcl:"decks,optional"`
	StartingBalance int  `hcl:"starting_balance,optional"` // whole dollars
	HitSoft17       bool `hcl:"hit_soft_17,optional"`
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulationConfig holds the defaults for the simulate command
type SimulationConfig struct {
	Sessions int    `hcl:"sessions,optional"`
	Rounds   int    `hcl:"rounds,optional"`
	Bet      int    `hcl:"bet,optional"` // whole dollars
	Strategy string `hcl:"strategy,optional"`
	Workers  int    `hcl:"workers,optional"`
}

// file is the on-disk shape, where a missing block decodes as nil
type file struct {
	Rules      *RulesConfig      `hcl:"rules,block"`
	Logging    *LoggingConfig    `hcl:"logging,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			Decks:           4,
			StartingBalance: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "blackjack.log",
		},
		Simulation: SimulationConfig{
			Sessions: 100,
			Rounds:   500,
			Bet:      10,
			Strategy: "basic",
			Workers:  8,
		},
	}
}

// LoadConfig loads configuration from an HCL file, returning the defaults
// when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(f)
}

// Parse decodes configuration from HCL source. filename is only used in
// error messages.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(f)
}

func decode(f *hcl.File) (*Config, error) {
	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	def := *config

	if r := raw.Rules; r != nil {
		config.Rules = *r
		if config.Rules.Decks == 0 {
			config.Rules.Decks = def.Rules.Decks
		}
		if config.Rules.StartingBalance == 0 {
			config.Rules.StartingBalance = def.Rules.StartingBalance
		}
	}

	if l := raw.Logging; l != nil {
		config.Logging = *l
		if config.Logging.Level == "" {
			config.Logging.Level = def.Logging.Level
		}
		if config.Logging.File == "" {
			config.Logging.File = def.Logging.File
		}
	}

	if s := raw.Simulation; s != nil {
		config.Simulation = *s
		if config.Simulation.Sessions == 0 {
			config.Simulation.Sessions = def.Simulation.Sessions
		}
		if config.Simulation.Rounds == 0 {
			config.Simulation.Rounds = def.Simulation.Rounds
		}
		if config.Simulation.Bet == 0 {
			config.Simulation.Bet = def.Simulation.Bet
		}
		if config.Simulation.Strategy == "" {
			config.Simulation.Strategy = def.Simulation.Strategy
		}
		if config.Simulation.Workers == 0 {
			config.Simulation.Workers = def.Simulation.Workers
		}
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Rules.Decks < 1 || c.Rules.Decks > 8 {
		return fmt.Errorf("decks must be between 1 and 8, got %d", c.Rules.Decks)
	}
	if c.Rules.StartingBalance < 1 {
		return fmt.Errorf("starting balance must be at least $1, got %d", c.Rules.StartingBalance)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	sim := c.Simulation
	if sim.Sessions < 1 {
		return fmt.Errorf("simulation: sessions must be positive, got %d", sim.Sessions)
	}
	if sim.Rounds < 1 {
		return fmt.Errorf("simulation: rounds must be positive, got %d", sim.Rounds)
	}
	if sim.Bet < 1 || sim.Bet > c.Rules.StartingBalance {
		return fmt.Errorf("simulation: bet must be between 1 and the starting balance, got %d", sim.Bet)
	}
	if sim.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive, got %d", sim.Workers)
	}
	if !slices.Contains(strategy.Names(), sim.Strategy) {
		return fmt.Errorf("simulation: invalid strategy %s (choose from %v)", sim.Strategy, strategy.Names())
	}

	return nil
}

// TableRules returns the engine rules described by the rules block
func (c *Config) TableRules() blackjack.Rules {
	return blackjack.Rules{
		Decks:     c.Rules.Decks,
		HitSoft17: c.Rules.HitSoft17,
	}
}

// Balance returns the starting balance as money
func (c *Config) Balance() blackjack.Money {
	return blackjack.Dollars(int64(c.Rules.StartingBalance))
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
