package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/tokenmint/service/db"
	"github.com/brojonat/tokenmint/service/nats"
	"github.com/brojonat/tokenmint/service/spltoken"
	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
)

func mintCommands() *cli.Command {
	return &cli.Command{
		Name:  "mint",
		Usage: "Mint creation, minting, and metadata commands",
		Subcommands: []*cli.Command{
			mintCreateCommand(),
			mintToCommand(),
			mintInfoCommand(),
			mintDecimalsCommand(),
			mintSupplyCommand(),
		},
	}
}

// newSPLClient builds the spltoken client from the global flags.
func newSPLClient(c *cli.Context, logger *slog.Logger) (*spltoken.Client, error) {
	rpcURL := c.String("rpc-url")
	if rpcURL == "" {
		return nil, fmt.Errorf("--rpc-url (or SOLANA_RPC_URL) is required")
	}
	var opts []spltoken.ClientOption
	if d := c.Duration("confirm-timeout"); d > 0 {
		opts = append(opts, spltoken.WithConfirmTimeout(d))
	}
	return spltoken.NewClient(spltoken.NewRPCClient(rpcURL), rpcURL, nil, logger, opts...), nil
}

// loadWallet loads the signing keypair from the global --keypair flag.
func loadWallet(c *cli.Context) (*spltoken.KeypairWallet, error) {
	path := c.String("keypair")
	if path == "" {
		return nil, fmt.Errorf("--keypair (or SOLANA_KEYPAIR_PATH) is required for signing commands")
	}
	return spltoken.NewKeypairWalletFromFile(path)
}

// submitFlags are shared by the commands that sign and send transactions.
func submitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:    "confirm-timeout",
			Usage:   "How long to wait for transaction confirmation",
			Value:   30 * time.Second,
			EnvVars: []string{"CONFIRM_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "nats-url",
			Usage:   "Publish a mint event to this NATS server after confirmation",
			EnvVars: []string{"NATS_URL"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Record the submitted transaction in this database",
			EnvVars: []string{"DATABASE_URL"},
		},
		filterFlag(),
	}
}

func mintCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new fungible-token mint",
		Flags: append([]cli.Flag{
			&cli.UintFlag{
				Name:    "decimals",
				Aliases: []string{"d"},
				Value:   6,
				Usage:   "Number of decimal places for the new mint",
			},
			&cli.StringFlag{
				Name:  "authority",
				Usage: "Mint authority public key (defaults to the wallet)",
			},
			&cli.BoolFlag{
				Name:  "no-send",
				Usage: "Print the signed transaction as base64 instead of submitting it",
			},
		}, submitFlags()...),
		Action: func(c *cli.Context) error {
			decimals := c.Uint("decimals")
			if decimals > 255 {
				return fmt.Errorf("decimals must fit in a byte, got %d", decimals)
			}

			logger := setupLogger(c.String("log-level"))
			client, err := newSPLClient(c, logger)
			if err != nil {
				return err
			}
			wallet, err := loadWallet(c)
			if err != nil {
				return err
			}

			authority := wallet.PublicKey()
			if s := c.String("authority"); s != "" {
				authority, err = solana.PublicKeyFromBase58(s)
				if err != nil {
					return fmt.Errorf("invalid authority address: %w", err)
				}
			}

			ctx := c.Context
			if c.Bool("no-send") {
				out, err := createMintNoSend(ctx, client, wallet, authority, uint8(decimals))
				if err != nil {
					return err
				}
				return printJSON(out, c.String("filter"))
			}

			mint, sig, err := client.CreateMintWithAuthority(ctx, wallet, authority, uint8(decimals))
			if err != nil {
				return fmt.Errorf("failed to create mint: %w", err)
			}

			event := &nats.MintEvent{
				Signature:   sig.String(),
				Kind:        nats.KindCreateMint,
				Mint:        mint.String(),
				Decimals:    uint8(decimals),
				ConfirmedAt: time.Now().UTC(),
			}
			publishEvent(ctx, c.String("nats-url"), logger, event)
			recordTransaction(ctx, c, logger, db.CreateMintTransactionParams{
				Signature: sig.String(),
				Kind:      nats.KindCreateMint,
				Mint:      mint.String(),
				Authority: authority.String(),
				Decimals:  int16(decimals),
			})

			return printJSON(map[string]any{
				"mint":      mint.String(),
				"authority": authority.String(),
				"signature": sig.String(),
				"decimals":  decimals,
			}, c.String("filter"))
		},
	}
}

// createMintNoSend builds and signs a create-mint transaction without
// submitting it. The mint keypair is generated here since the transaction
// never reaches the convenience pipeline; its signature and the wallet's are
// both attached so the printed transaction is ready to broadcast.
func createMintNoSend(
	ctx context.Context,
	client *spltoken.Client,
	wallet spltoken.Wallet,
	authority solana.PublicKey,
	decimals uint8,
) (map[string]any, error) {
	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate mint keypair: %w", err)
	}
	mint := mintKey.PublicKey()

	tx, err := client.CreateMintSigned(ctx, decimals, mint, authority, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to build create-mint transaction: %w", err)
	}
	if err := spltoken.NewKeypairWallet(mintKey).SignTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to sign with mint keypair: %w", err)
	}

	encoded, err := tx.ToBase64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return map[string]any{
		"mint":        mint.String(),
		"authority":   authority.String(),
		"decimals":    decimals,
		"transaction": encoded,
	}, nil
}

func mintToCommand() *cli.Command {
	return &cli.Command{
		Name:      "to",
		Usage:     "Mint tokens to an owner's associated token account",
		ArgsUsage: "MINT OWNER AMOUNT",
		Flags:     submitFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 {
				return fmt.Errorf("usage: tokenmint mint to MINT OWNER AMOUNT")
			}
			mint, err := solana.PublicKeyFromBase58(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("invalid mint address: %w", err)
			}
			owner, err := solana.PublicKeyFromBase58(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid owner address: %w", err)
			}
			amount := c.Args().Get(2)

			logger := setupLogger(c.String("log-level"))
			client, err := newSPLClient(c, logger)
			if err != nil {
				return err
			}
			wallet, err := loadWallet(c)
			if err != nil {
				return err
			}

			ctx := c.Context
			sig, err := client.MintTo(ctx, mint, owner, wallet, amount)
			if err != nil {
				return fmt.Errorf("failed to mint tokens: %w", err)
			}

			// Re-fetch for the event payload; the pipeline already used (and
			// discarded) its own fresh copy.
			decimals, err := client.Decimals(ctx, mint)
			if err != nil {
				return fmt.Errorf("failed to fetch mint decimals: %w", err)
			}
			rawAmount, err := spltoken.ToRawAmount(amount, decimals)
			if err != nil {
				return err
			}
			ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
			if err != nil {
				return err
			}

			event := &nats.MintEvent{
				Signature:          sig.String(),
				Kind:               nats.KindMintTo,
				Mint:               mint.String(),
				Decimals:           decimals,
				DestinationOwner:   owner.String(),
				DestinationAccount: ata.String(),
				RawAmount:          rawAmount,
				Amount:             amount,
				ConfirmedAt:        time.Now().UTC(),
			}
			publishEvent(ctx, c.String("nats-url"), logger, event)
			rawForDB := int64(rawAmount)
			ownerStr := owner.String()
			recordTransaction(ctx, c, logger, db.CreateMintTransactionParams{
				Signature:        sig.String(),
				Kind:             nats.KindMintTo,
				Mint:             mint.String(),
				Authority:        wallet.PublicKey().String(),
				DestinationOwner: &ownerStr,
				RawAmount:        &rawForDB,
				Decimals:         int16(decimals),
			})

			return printJSON(map[string]any{
				"mint":       mint.String(),
				"owner":      owner.String(),
				"ata":        ata.String(),
				"amount":     amount,
				"raw_amount": rawAmount,
				"signature":  sig.String(),
			}, c.String("filter"))
		},
	}
}

func mintInfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Fetch full mint metadata",
		ArgsUsage: "MINT",
		Flags:     []cli.Flag{filterFlag()},
		Action: func(c *cli.Context) error {
			return runMintQuery(c, func(ctx context.Context, client *spltoken.Client, mint solana.PublicKey) (any, error) {
				info, err := client.MintInfo(ctx, mint)
				if err != nil {
					return nil, err
				}
				out := map[string]any{
					"address":        info.Address.String(),
					"decimals":       info.Decimals,
					"supply_raw":     info.SupplyRaw,
					"supply":         spltoken.FromRawAmount(info.SupplyRaw, info.Decimals),
					"is_initialized": info.IsInitialized,
				}
				if info.MintAuthority != nil {
					out["mint_authority"] = info.MintAuthority.String()
				}
				if info.FreezeAuthority != nil {
					out["freeze_authority"] = info.FreezeAuthority.String()
				}
				return out, nil
			})
		},
	}
}

func mintDecimalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "decimals",
		Usage:     "Fetch the mint's decimal count",
		ArgsUsage: "MINT",
		Flags:     []cli.Flag{filterFlag()},
		Action: func(c *cli.Context) error {
			return runMintQuery(c, func(ctx context.Context, client *spltoken.Client, mint solana.PublicKey) (any, error) {
				decimals, err := client.Decimals(ctx, mint)
				if err != nil {
					return nil, err
				}
				return map[string]any{"mint": mint.String(), "decimals": decimals}, nil
			})
		},
	}
}

func mintSupplyCommand() *cli.Command {
	return &cli.Command{
		Name:      "supply",
		Usage:     "Fetch the mint's total supply (raw and decimal-scaled)",
		ArgsUsage: "MINT",
		Flags:     []cli.Flag{filterFlag()},
		Action: func(c *cli.Context) error {
			return runMintQuery(c, func(ctx context.Context, client *spltoken.Client, mint solana.PublicKey) (any, error) {
				info, err := client.MintInfo(ctx, mint)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"mint":       mint.String(),
					"supply_raw": info.SupplyRaw,
					"supply":     spltoken.FromRawAmount(info.SupplyRaw, info.Decimals),
				}, nil
			})
		},
	}
}

// runMintQuery handles the shared plumbing of single-mint query commands.
func runMintQuery(
	c *cli.Context,
	query func(ctx context.Context, client *spltoken.Client, mint solana.PublicKey) (any, error),
) error {
	if c.NArg() < 1 {
		return fmt.Errorf("mint address is required")
	}
	mint, err := solana.PublicKeyFromBase58(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid mint address: %w", err)
	}

	logger := setupLogger(c.String("log-level"))
	client, err := newSPLClient(c, logger)
	if err != nil {
		return err
	}

	out, err := query(c.Context, client, mint)
	if err != nil {
		return err
	}
	return printJSON(out, c.String("filter"))
}

// newPublisher builds the event publisher for a NATS URL. Tests swap this
// for a mock so the publish path can run without a server.
var newPublisher = func(natsURL string, logger *slog.Logger) (nats.Publisher, error) {
	return nats.NewPublisher(natsURL, logger)
}

// publishEvent publishes a mint event when --nats-url is set.
// Publishing is best-effort: a failure is logged, not fatal, since the
// transaction is already confirmed on chain.
func publishEvent(ctx context.Context, natsURL string, logger *slog.Logger, event *nats.MintEvent) {
	if natsURL == "" {
		return
	}
	publisher, err := newPublisher(natsURL, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return
	}
	defer publisher.Close()
	if err := publisher.PublishMintEvent(ctx, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish mint event",
			"signature", event.Signature,
			"error", err,
		)
	}
}

// recordTransaction inserts the submission into the ledger when
// --database-url is set. Best-effort, same as publishing.
func recordTransaction(ctx context.Context, c *cli.Context, logger *slog.Logger, params db.CreateMintTransactionParams) {
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.ErrorContext(ctx, "failed to connect to database", "error", err)
		return
	}
	defer pool.Close()

	store := db.NewStore(pool)
	if _, err := store.CreateMintTransaction(ctx, params); err != nil {
		logger.ErrorContext(ctx, "failed to record mint transaction",
			"signature", params.Signature,
			"error", err,
		)
	}
}
