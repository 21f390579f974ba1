package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "tokenmint",
		Usage: "SPL token mint helper CLI",
		Description: `A command-line tool for creating fungible-token mints, minting tokens to
accounts, and inspecting mint metadata on a Solana cluster.

Every operation is a single-shot pipeline: build instructions, wrap them into
a transaction, sign with the configured keypair, submit, and wait for
confirmation.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			// Mint creation, mint-to, and queries
			mintCommands(),
			// Submission ledger inspection (requires DATABASE_URL)
			ledgerCommands(),
		},
		// Global flags available to all commands
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rpc-url",
				Usage:   "Solana RPC endpoint URL",
				EnvVars: []string{"SOLANA_RPC_URL"},
			},
			&cli.StringFlag{
				Name:    "keypair",
				Usage:   "Path to a Solana CLI keygen file used for signing",
				EnvVars: []string{"SOLANA_KEYPAIR_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
