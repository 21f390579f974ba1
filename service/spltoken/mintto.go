package spltoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// MintToRawInstructions builds the single instruction that mints rawAmount
// base units of mint into the destination token account, authorized by
// authority. It is a pure function of its inputs: no RPC access, no decimal
// scaling.
func MintToRawInstructions(
	mint solana.PublicKey,
	destination solana.PublicKey,
	authority solana.PublicKey,
	rawAmount uint64,
) []solana.Instruction {
	mintToIx := token.NewMintToInstruction(
		rawAmount,
		mint,
		destination,
		authority,
		nil,
	).Build()
	return []solana.Instruction{mintToIx}
}

// MintToTx builds an unsigned transaction that mints the decimal amount
// (e.g., "1.5") of mint to destOwner's associated token account. If the
// associated account does not exist yet, an instruction creating it (paid by
// authority) is prepended. The amount is scaled into raw base units using the
// mint's on-chain decimal count, fetched fresh. The fee payer is authority.
func (c *Client) MintToTx(
	ctx context.Context,
	mint solana.PublicKey,
	destOwner solana.PublicKey,
	authority solana.PublicKey,
	amount string,
) (*solana.Transaction, error) {
	instructions, err := c.MintToInstructions(ctx, mint, destOwner, authority, amount)
	if err != nil {
		return nil, err
	}
	return c.wrapTx(ctx, instructions, authority)
}

// MintToInstructions builds the instruction list MintToTx wraps: an optional
// associated-account creation followed by the mint-to itself, with the decimal
// amount scaled to raw units using the mint's on-chain decimal count.
func (c *Client) MintToInstructions(
	ctx context.Context,
	mint solana.PublicKey,
	destOwner solana.PublicKey,
	authority solana.PublicKey,
	amount string,
) ([]solana.Instruction, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(destOwner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token account: %w", err)
	}

	exists, err := c.accountExists(ctx, ata)
	if err != nil {
		return nil, err
	}

	decimals, err := c.Decimals(ctx, mint)
	if err != nil {
		return nil, err
	}

	rawAmount, err := ToRawAmount(amount, decimals)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "building mint-to transaction",
		"mint", mint.String(),
		"dest_owner", destOwner.String(),
		"dest_ata", ata.String(),
		"ata_exists", exists,
		"amount", amount,
		"raw_amount", rawAmount,
		"decimals", decimals,
	)

	var instructions []solana.Instruction
	if !exists {
		createAtaIx := associatedtokenaccount.NewCreateInstruction(
			authority,
			destOwner,
			mint,
		).Build()
		instructions = append(instructions, createAtaIx)
	}
	instructions = append(instructions, MintToRawInstructions(mint, ata, authority, rawAmount)...)
	return instructions, nil
}

// MintToSigned builds the mint-to transaction with the wallet as mint
// authority and fee payer, then asks the wallet to sign it.
func (c *Client) MintToSigned(
	ctx context.Context,
	mint solana.PublicKey,
	destOwner solana.PublicKey,
	wallet Wallet,
	amount string,
) (*solana.Transaction, error) {
	tx, err := c.MintToTx(ctx, mint, destOwner, wallet.PublicKey(), amount)
	if err != nil {
		return nil, err
	}
	if err := wallet.SignTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// MintTo signs, submits, and confirms a mint-to transaction, returning the
// transaction signature.
func (c *Client) MintTo(
	ctx context.Context,
	mint solana.PublicKey,
	destOwner solana.PublicKey,
	wallet Wallet,
	amount string,
) (solana.Signature, error) {
	tx, err := c.MintToSigned(ctx, mint, destOwner, wallet, amount)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(ctx, tx, "mint_to")
	if err != nil {
		return solana.Signature{}, err
	}

	c.logger.InfoContext(ctx, "minted tokens",
		"mint", mint.String(),
		"dest_owner", destOwner.String(),
		"amount", amount,
		"signature", sig.String(),
	)
	return sig, nil
}

// accountExists reports whether an account is present on chain. The RPC
// client signals absence with rpc.ErrNotFound; any other error is surfaced.
func (c *Client) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	start := time.Now()
	_, err := c.rpc.GetAccountInfo(ctx, account)
	if errors.Is(err, rpc.ErrNotFound) {
		c.recordRPC("GetAccountInfo", start, nil)
		return false, nil
	}
	c.recordRPC("GetAccountInfo", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check account %s: %w", account.String(), err)
	}
	return true, nil
}
