package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/sessionid"
	"github.com/lox/blackjack/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type PlayCmd struct {
	TableFlags

	Seed    int64  `help:"Shuffle seed (0 for random)" env:"BLACKJACK_SEED"`
	TUI     bool   `name:"tui" help:"Use the full-screen interface"`
	NoColor bool   `help:"Disable colour in the line interface" env:"BLACKJACK_NO_COLOR"`
	LogFile string `help:"Log file (overrides the config file)" env:"BLACKJACK_LOG_FILE"`
}

// config loads the config file and applies the command's overrides
func (c *PlayCmd) config(g *Globals) (*config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	c.TableFlags.apply(cfg)
	if c.LogFile != "" {
		cfg.Logging.File = c.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := c.config(g)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger, err := newLogger(logFile, cfg)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		if seed, err = randutil.Seed(); err != nil {
			return err
		}
	}

	id := sessionid.Generate()
	logger.Info("Starting game", "session", id, "seed", seed, "decks", cfg.Rules.Decks, "tui", c.TUI)

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	shoe := deck.NewShoe(cfg.Rules.Decks, randutil.New(seed))
	player := blackjack.NewPlayer(cfg.Balance())
	play := func(ctx context.Context, ctl blackjack.Controller, display blackjack.Display) (blackjack.Summary, error) {
		engine := blackjack.NewEngine(shoe, cfg.TableRules(), display, logger)
		session := blackjack.NewSession(engine, player, ctl, display, blackjack.WithSessionID(id))
		return session.Run(ctx)
	}

	var summary blackjack.Summary
	if c.TUI {
		summary, err = tui.Run(ctx, logger, func(ctx context.Context, b *tui.Bridge) (blackjack.Summary, error) {
			return play(ctx, b, b)
		})
	} else {
		fmt.Fprint(os.Stdout, titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
		fmt.Fprintln(os.Stdout)
		con := console.New(os.Stdin, os.Stdout, !c.NoColor, logger)
		summary, err = play(ctx, con, con)
	}
	if err != nil {
		return err
	}

	logger.Info("Game over", "session", id, "reason", summary.Reason, "balance", summary.FinalBalance)
	return nil
}

// newLogger builds the logger the way the config asks for
func newLogger(w io.Writer, cfg *config.Config) (*log.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
		Level:           level,
	}), nil
}
