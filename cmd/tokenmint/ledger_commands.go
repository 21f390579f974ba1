package main

import (
	"fmt"
	"time"

	"github.com/brojonat/tokenmint/service/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
)

func ledgerCommands() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "Submission ledger inspection commands",
		Subcommands: []*cli.Command{
			ledgerListCommand(),
			ledgerGetCommand(),
		},
	}
}

func ledgerDatabaseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "database-url",
		Usage:   "Database connection URL",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func openStore(c *cli.Context) (*db.Store, func(), error) {
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return nil, nil, fmt.Errorf("--database-url (or DATABASE_URL) is required")
	}
	pool, err := pgxpool.New(c.Context, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db.NewStore(pool), pool.Close, nil
}

func ledgerListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List recorded transactions for a mint, newest first",
		ArgsUsage: "MINT",
		Flags: []cli.Flag{
			ledgerDatabaseFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Value: 50,
				Usage: "Maximum number of transactions to return",
			},
			&cli.IntFlag{
				Name:  "offset",
				Value: 0,
				Usage: "Number of transactions to skip",
			},
			filterFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("mint address is required")
			}

			store, closeStore, err := openStore(c)
			if err != nil {
				return err
			}
			defer closeStore()

			txns, err := store.ListMintTransactionsByMint(c.Context, db.ListMintTransactionsParams{
				Mint:   c.Args().Get(0),
				Limit:  int32(c.Int("limit")),
				Offset: int32(c.Int("offset")),
			})
			if err != nil {
				return err
			}

			out := make([]map[string]any, 0, len(txns))
			for _, txn := range txns {
				out = append(out, ledgerTxnToOutput(txn))
			}
			return printJSON(out, c.String("filter"))
		},
	}
}

func ledgerGetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a recorded transaction by signature",
		ArgsUsage: "SIGNATURE",
		Flags: []cli.Flag{
			ledgerDatabaseFlag(),
			filterFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("transaction signature is required")
			}

			store, closeStore, err := openStore(c)
			if err != nil {
				return err
			}
			defer closeStore()

			txn, err := store.GetMintTransaction(c.Context, c.Args().Get(0))
			if db.IsNotFound(err) {
				return fmt.Errorf("no recorded transaction with signature %s", c.Args().Get(0))
			}
			if err != nil {
				return err
			}
			return printJSON(ledgerTxnToOutput(txn), c.String("filter"))
		},
	}
}

func ledgerTxnToOutput(txn *db.MintTransaction) map[string]any {
	out := map[string]any{
		"signature":  txn.Signature,
		"kind":       txn.Kind,
		"mint":       txn.Mint,
		"authority":  txn.Authority,
		"decimals":   txn.Decimals,
		"created_at": txn.CreatedAt.Format(time.RFC3339),
	}
	if txn.DestinationOwner != nil {
		out["destination_owner"] = *txn.DestinationOwner
	}
	if txn.RawAmount != nil {
		out["raw_amount"] = *txn.RawAmount
	}
	return out
}
