// Package main is the rover runner: it drives a mission on a simulated or no-op robot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/urfave/cli/v2"

	"go.magellan.dev/rover/config"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/mission"
)

const (
	flagConfig = "config"
	flagDebug  = "debug"
	flagNoop   = "noop"
)

func main() {
	var logger logging.Logger

	app := &cli.App{
		Name:            "rover",
		Usage:           "drive a rover through a mission",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("rover")
			} else {
				logger = logging.NewLogger("rover")
			}
			logging.ReplaceGlobal(logger)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the mission described by a config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagConfig,
						Aliases:  []string{"c"},
						Usage:    "load configuration from `FILE`",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  flagNoop,
						Usage: "use a robot whose behaviors succeed after a few steps",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Read(c.String(flagConfig), logger)
					if err != nil {
						return err
					}
					if level, ok, _ := cfg.Level(); ok {
						logger.SetLevel(level)
					}
					r, err := newRunner(cfg, c.Bool(flagNoop), logger)
					if err != nil {
						return err
					}
					return r.run(c.Context, clock.New())
				},
			},
			{
				Name:      "mission",
				Usage:     "print the waypoints of a mission file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit("expected exactly one mission file", 1)
					}
					m, err := mission.LoadFile(c.Args().First(), logging.NewBlankLogger("mission"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, m.Table())
					return nil
				},
			},
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	// Global is still the startup logger if flag parsing failed before Before ran.
	logger = logging.Global()
	if err != nil {
		logger.Error(err)
		//nolint:errcheck
		logger.Sync()
		cancel()
		//nolint:gocritic
		os.Exit(1)
	}
}
