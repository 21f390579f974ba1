package spltoken

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// MintAccountSize is the serialized size of an SPL token mint account.
const MintAccountSize = 82

// CreateMintInstructions builds the two instructions that create a new mint:
// a system program account creation (sized and funded for rent exemption,
// owned by the token program) followed by an InitializeMint for the given
// decimals and mint authority. No freeze authority is set. The only side
// effect is the rent-exemption RPC query.
func (c *Client) CreateMintInstructions(
	ctx context.Context,
	decimals uint8,
	mint solana.PublicKey,
	mintAuthority solana.PublicKey,
	payer solana.PublicKey,
) ([]solana.Instruction, error) {
	start := time.Now()
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, MintAccountSize, rpc.CommitmentFinalized)
	c.recordRPC("GetMinimumBalanceForRentExemption", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get rent-exempt balance: %w", err)
	}

	c.logger.DebugContext(ctx, "building create-mint instructions",
		"mint", mint.String(),
		"mint_authority", mintAuthority.String(),
		"payer", payer.String(),
		"decimals", decimals,
		"lamports", lamports,
	)

	createAccountIx := system.NewCreateAccountInstruction(
		lamports,
		MintAccountSize,
		solana.TokenProgramID,
		payer,
		mint,
	).Build()

	initMintIx := token.NewInitializeMintInstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(mintAuthority).
		SetMintAccount(mint).
		SetSysVarRentPubkeyAccount(solana.SysVarRentPubkey).
		Build()

	return []solana.Instruction{createAccountIx, initMintIx}, nil
}

// CreateMintTx wraps the create-mint instructions into an unsigned
// transaction: fee payer set to payer, recent blockhash fetched fresh.
func (c *Client) CreateMintTx(
	ctx context.Context,
	decimals uint8,
	mint solana.PublicKey,
	mintAuthority solana.PublicKey,
	payer solana.PublicKey,
) (*solana.Transaction, error) {
	instructions, err := c.CreateMintInstructions(ctx, decimals, mint, mintAuthority, payer)
	if err != nil {
		return nil, err
	}
	return c.wrapTx(ctx, instructions, payer)
}

// CreateMintSigned builds the create-mint transaction and asks the wallet to
// sign it. The wallet must control the payer; the mint account's own
// signature is supplied by the caller (CreateMint does this with the
// generated keypair).
func (c *Client) CreateMintSigned(
	ctx context.Context,
	decimals uint8,
	mint solana.PublicKey,
	mintAuthority solana.PublicKey,
	wallet Wallet,
) (*solana.Transaction, error) {
	tx, err := c.CreateMintTx(ctx, decimals, mint, mintAuthority, wallet.PublicKey())
	if err != nil {
		return nil, err
	}
	if err := wallet.SignTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// CreateMint generates a fresh keypair for the mint, builds and signs the
// create-mint transaction (wallet pays fees and rent, and is the mint
// authority), submits it, and waits for confirmation. It returns the new
// mint's public key and the transaction signature.
func (c *Client) CreateMint(
	ctx context.Context,
	wallet Wallet,
	decimals uint8,
) (solana.PublicKey, solana.Signature, error) {
	return c.CreateMintWithAuthority(ctx, wallet, wallet.PublicKey(), decimals)
}

// CreateMintWithAuthority is CreateMint with a mint authority other than the
// fee-paying wallet. The wallet still funds the account and signs the
// transaction; mintAuthority only ends up in the InitializeMint instruction
// and never needs to sign.
func (c *Client) CreateMintWithAuthority(
	ctx context.Context,
	wallet Wallet,
	mintAuthority solana.PublicKey,
	decimals uint8,
) (solana.PublicKey, solana.Signature, error) {
	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, fmt.Errorf("failed to generate mint keypair: %w", err)
	}
	mint := mintKey.PublicKey()

	tx, err := c.CreateMintTx(ctx, decimals, mint, mintAuthority, wallet.PublicKey())
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}

	// The new account must sign its own creation.
	if err := partialSign(tx, mintKey); err != nil {
		return solana.PublicKey{}, solana.Signature{}, fmt.Errorf("failed to sign with mint keypair: %w", err)
	}
	if err := wallet.SignTransaction(ctx, tx); err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(ctx, tx, "create_mint")
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}

	c.logger.InfoContext(ctx, "created mint",
		"mint", mint.String(),
		"mint_authority", mintAuthority.String(),
		"decimals", decimals,
		"signature", sig.String(),
	)
	return mint, sig, nil
}

// wrapTx assembles instructions into a transaction with a fresh blockhash
// and the given fee payer.
func (c *Client) wrapTx(
	ctx context.Context,
	instructions []solana.Instruction,
	payer solana.PublicKey,
) (*solana.Transaction, error) {
	start := time.Now()
	blockhash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	c.recordRPC("GetLatestBlockhash", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx, nil
}
