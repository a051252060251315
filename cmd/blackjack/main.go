package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string           `help:"HCL config file" default:"blackjack.hcl" env:"BLACKJACK_CONFIG"`
	LogLevel string           `help:"Log level (debug, info, warn, error)" env:"BLACKJACK_LOG_LEVEL"`
	Version  kong.VersionFlag `short:"v" help:"Show version"`
}

// TableFlags override the rules block of the config file
type TableFlags struct {
	Decks     int  `help:"Number of decks in the shoe (1-8)" env:"BLACKJACK_DECKS"`
	Balance   int  `help:"Starting balance in whole dollars" env:"BLACKJACK_BALANCE"`
	HitSoft17 bool `name:"hit-soft-17" help:"Dealer hits soft 17" env:"BLACKJACK_HIT_SOFT_17"`
}

func (f TableFlags) apply(cfg *config.Config) {
	if f.Decks != 0 {
		cfg.Rules.Decks = f.Decks
	}
	if f.Balance != 0 {
		cfg.Rules.StartingBalance = f.Balance
	}
	if f.HitSoft17 {
		cfg.Rules.HitSoft17 = true
	}
}

type CLI struct {
	Globals

	Play     PlayCmd     `cmd:"" default:"withargs" help:"Play blackjack at the terminal"`
	Simulate SimulateCmd `cmd:"" help:"Play many sessions with an automated strategy and report the results"`
}

// loadConfig reads the config file named by the globals and applies the
// global overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	return cfg, nil
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against the house"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
