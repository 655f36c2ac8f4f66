package main

import (
	"fmt"
	"os"

	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	log := logger.NewTo(os.Stderr, "ledgerctl", false)
	// SQL tracing is opt-in so it does not mix with command output
	cfg.App.Debug = false

	cliApp := &cli.App{
		Name:  "ledgerctl",
		Usage: "inspect and operate the order/receipt ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "sqlite database path (overrides DB_PATH)",
				Destination: &cfg.Database.Path,
				Value:       cfg.Database.Path,
				EnvVars:     []string{"DB_PATH"},
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "log SQL statements",
				Destination: &cfg.App.Debug,
			},
		},
		Commands: commands(cfg, log),
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
