package spltoken

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMintInstructions(t *testing.T) {
	ctx := context.Background()

	mint := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()

	mock := &mockRPCClient{rentExemptBalance: 1461600}
	client := newTestClient(t, mock)

	instructions, err := client.CreateMintInstructions(ctx, 6, mint, authority, payer)
	require.NoError(t, err)

	// Exactly two instructions: create account, then initialize mint.
	require.Len(t, instructions, 2)

	createIx, ok := instructions[0].(*system.Instruction)
	require.True(t, ok, "first instruction should be a system program instruction")
	assert.Equal(t, solana.SystemProgramID, createIx.ProgramID())
	createAccount, ok := createIx.Impl.(system.CreateAccount)
	require.True(t, ok, "first instruction should be CreateAccount")
	assert.Equal(t, uint64(MintAccountSize), *createAccount.Space)
	assert.Equal(t, uint64(1461600), *createAccount.Lamports)
	assert.Equal(t, solana.TokenProgramID, *createAccount.Owner)

	initIx, ok := instructions[1].(*token.Instruction)
	require.True(t, ok, "second instruction should be a token program instruction")
	assert.Equal(t, solana.TokenProgramID, initIx.ProgramID())
	initMint, ok := initIx.Impl.(token.InitializeMint)
	require.True(t, ok, "second instruction should be InitializeMint")
	assert.Equal(t, uint8(6), *initMint.Decimals)
	assert.Equal(t, authority, *initMint.MintAuthority)
	assert.Nil(t, initMint.FreezeAuthority)

	// The only RPC access is the rent-exemption query.
	assert.Equal(t, []string{"GetMinimumBalanceForRentExemption"}, mock.calls)
}

func TestCreateMintInstructions_RentQueryError(t *testing.T) {
	ctx := context.Background()

	mock := &mockRPCClient{rentErr: errors.New("rpc unavailable")}
	client := newTestClient(t, mock)

	_, err := client.CreateMintInstructions(ctx, 6,
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
	)
	require.Error(t, err)
	assert.ErrorContains(t, err, "rpc unavailable")
}

func TestCreateMintTx(t *testing.T) {
	ctx := context.Background()

	mint := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()
	blockhash := solana.HashFromBytes([]byte("00000000000000000000000000000001"))

	mock := &mockRPCClient{
		rentExemptBalance: 1461600,
		blockhash:         blockhash,
	}
	client := newTestClient(t, mock)

	tx, err := client.CreateMintTx(ctx, 6, mint, authority, payer)
	require.NoError(t, err)

	assert.Equal(t, blockhash, tx.Message.RecentBlockhash)
	require.NotEmpty(t, tx.Message.AccountKeys)
	assert.Equal(t, payer, tx.Message.AccountKeys[0], "fee payer should be the first account key")
	assert.Len(t, tx.Message.Instructions, 2)
}

func TestCreateMintSigned(t *testing.T) {
	ctx := context.Background()

	payerKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	wallet := NewKeypairWallet(payerKey)

	mintKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	mock := &mockRPCClient{
		rentExemptBalance: 1461600,
		blockhash:         solana.HashFromBytes([]byte("00000000000000000000000000000001")),
	}
	client := newTestClient(t, mock)

	tx, err := client.CreateMintSigned(ctx, 6, mintKey.PublicKey(), wallet.PublicKey(), wallet)
	require.NoError(t, err)

	// Payer signature present; the mint's own slot still awaits the caller.
	require.NotEmpty(t, tx.Signatures)
}

func TestCreateMint(t *testing.T) {
	ctx := context.Background()

	payerKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	wallet := NewKeypairWallet(payerKey)

	sigBytes := make([]byte, 64)
	sigBytes[0] = 7
	wantSig := solana.SignatureFromBytes(sigBytes)

	mock := &mockRPCClient{
		rentExemptBalance: 1461600,
		blockhash:         solana.HashFromBytes([]byte("00000000000000000000000000000001")),
		sendSig:           wantSig,
		statuses:          [][]*rpc.SignatureStatusesResult{confirmedStatus(4242)},
	}
	client := newTestClient(t, mock)

	mint, sig, err := client.CreateMint(ctx, wallet, 9)
	require.NoError(t, err)
	assert.Equal(t, wantSig, sig)
	assert.False(t, mint.IsZero())

	// The submitted transaction carries both required signatures: the payer
	// wallet and the freshly generated mint keypair.
	require.Len(t, mock.sentTxs, 1)
	sent := mock.sentTxs[0]
	assert.Len(t, sent.Signatures, 2)
	assert.Equal(t, wallet.PublicKey(), sent.Message.AccountKeys[0])
	assert.Contains(t, sent.Message.AccountKeys, mint)
}

func TestCreateMintWithAuthority(t *testing.T) {
	ctx := context.Background()

	payerKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	wallet := NewKeypairWallet(payerKey)
	authority := solana.NewWallet().PublicKey()

	mock := &mockRPCClient{
		rentExemptBalance: 1461600,
		blockhash:         solana.HashFromBytes([]byte("00000000000000000000000000000001")),
		sendSig:           testSignature(11),
		statuses:          [][]*rpc.SignatureStatusesResult{confirmedStatus(99)},
	}
	client := newTestClient(t, mock)

	mint, _, err := client.CreateMintWithAuthority(ctx, wallet, authority, 2)
	require.NoError(t, err)

	// The authority lands in the InitializeMint instruction data; the wallet
	// still pays and signs, and the authority's signature is never required.
	require.Len(t, mock.sentTxs, 1)
	sent := mock.sentTxs[0]
	assert.Equal(t, wallet.PublicKey(), sent.Message.AccountKeys[0])
	assert.Len(t, sent.Signatures, 2)
	assert.Contains(t, sent.Message.AccountKeys, mint)
	assert.NotContains(t, sent.Message.AccountKeys, authority)

	// InitializeMint data layout: variant u8, decimals u8, authority 32 bytes,
	// freeze-authority presence flag.
	data := []byte(sent.Message.Instructions[1].Data)
	require.Len(t, data, 35)
	assert.Equal(t, uint8(token.Instruction_InitializeMint), data[0])
	assert.Equal(t, uint8(2), data[1])
	assert.Equal(t, authority.Bytes(), data[2:34])
	assert.Equal(t, uint8(0), data[34])
}

func TestCreateMint_SendError(t *testing.T) {
	ctx := context.Background()

	payerKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	mock := &mockRPCClient{
		rentExemptBalance: 1461600,
		blockhash:         solana.HashFromBytes([]byte("00000000000000000000000000000001")),
		sendErr:           errors.New("insufficient funds for rent"),
	}
	client := newTestClient(t, mock)

	_, _, err = client.CreateMint(ctx, NewKeypairWallet(payerKey), 6)
	require.Error(t, err)
	assert.ErrorContains(t, err, "insufficient funds for rent")
}
