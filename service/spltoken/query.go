package spltoken

import (
	"context"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// MintInfo is our domain model for on-chain mint metadata, independent of the
// RPC response format.
type MintInfo struct {
	Address         solana.PublicKey
	Decimals        uint8
	SupplyRaw       uint64
	MintAuthority   *solana.PublicKey // nil if minting is disabled
	FreezeAuthority *solana.PublicKey // nil if no freeze authority
	IsInitialized   bool
}

// MintInfo fetches and decodes a mint account. Single RPC round trip, no
// caching; callers wanting to amortize across projections should call this
// once themselves.
func (c *Client) MintInfo(ctx context.Context, mint solana.PublicKey) (*MintInfo, error) {
	start := time.Now()
	result, err := c.rpc.GetAccountInfo(ctx, mint)
	c.recordRPC("GetAccountInfo", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get mint account %s: %w", mint.String(), err)
	}
	if result.Value == nil {
		return nil, fmt.Errorf("failed to get mint account %s: %w", mint.String(), rpc.ErrNotFound)
	}

	var m token.Mint
	if err := m.UnmarshalWithDecoder(bin.NewBinDecoder(result.Value.Data.GetBinary())); err != nil {
		return nil, fmt.Errorf("failed to decode mint account %s: %w", mint.String(), err)
	}

	return &MintInfo{
		Address:         mint,
		Decimals:        m.Decimals,
		SupplyRaw:       m.Supply,
		MintAuthority:   m.MintAuthority,
		FreezeAuthority: m.FreezeAuthority,
		IsInitialized:   m.IsInitialized,
	}, nil
}

// Decimals fetches the mint's decimal count.
func (c *Client) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	info, err := c.MintInfo(ctx, mint)
	if err != nil {
		return 0, err
	}
	return info.Decimals, nil
}

// SupplyRaw fetches the mint's total supply in raw base units.
func (c *Client) SupplyRaw(ctx context.Context, mint solana.PublicKey) (uint64, error) {
	info, err := c.MintInfo(ctx, mint)
	if err != nil {
		return 0, err
	}
	return info.SupplyRaw, nil
}

// Supply fetches the mint's total supply as a decimal string scaled by the
// mint's decimal count (raw supply 1000000 at 3 decimals yields "1000").
func (c *Client) Supply(ctx context.Context, mint solana.PublicKey) (string, error) {
	info, err := c.MintInfo(ctx, mint)
	if err != nil {
		return "", err
	}
	return FromRawAmount(info.SupplyRaw, info.Decimals), nil
}
