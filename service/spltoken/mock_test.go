package spltoken

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// mockRPCClient implements RPCClient for testing.
// It's behavior-focused: we set what it should return, not verify call sequences.
// The calls slice records method names so tests can assert which RPC surface
// an operation touched (or that it touched none at all).
type mockRPCClient struct {
	calls []string

	rentExemptBalance uint64
	rentErr           error

	blockhash    solana.Hash
	blockhashErr error

	// accounts maps base58 pubkeys to account results; lookups for keys not
	// present return rpc.ErrNotFound, matching the real client.
	accounts   map[string]*rpc.GetAccountInfoResult
	accountErr error

	sendSig solana.Signature
	sendErr error
	sentTxs []*solana.Transaction

	// statuses is consumed one entry per GetSignatureStatuses call; the last
	// entry repeats once the sequence is exhausted.
	statuses    [][]*rpc.SignatureStatusesResult
	statusIndex int
	statusErr   error
}

func (m *mockRPCClient) GetMinimumBalanceForRentExemption(
	ctx context.Context,
	dataSize uint64,
	commitment rpc.CommitmentType,
) (uint64, error) {
	m.calls = append(m.calls, "GetMinimumBalanceForRentExemption")
	if m.rentErr != nil {
		return 0, m.rentErr
	}
	return m.rentExemptBalance, nil
}

func (m *mockRPCClient) GetLatestBlockhash(
	ctx context.Context,
	commitment rpc.CommitmentType,
) (*rpc.GetLatestBlockhashResult, error) {
	m.calls = append(m.calls, "GetLatestBlockhash")
	if m.blockhashErr != nil {
		return nil, m.blockhashErr
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash: m.blockhash,
		},
	}, nil
}

func (m *mockRPCClient) GetAccountInfo(
	ctx context.Context,
	account solana.PublicKey,
) (*rpc.GetAccountInfoResult, error) {
	m.calls = append(m.calls, "GetAccountInfo")
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	result, ok := m.accounts[account.String()]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return result, nil
}

func (m *mockRPCClient) SendTransaction(
	ctx context.Context,
	tx *solana.Transaction,
	opts rpc.TransactionOpts,
) (solana.Signature, error) {
	m.calls = append(m.calls, "SendTransaction")
	if m.sendErr != nil {
		return solana.Signature{}, m.sendErr
	}
	m.sentTxs = append(m.sentTxs, tx)
	return m.sendSig, nil
}

func (m *mockRPCClient) GetSignatureStatuses(
	ctx context.Context,
	searchTransactionHistory bool,
	signatures ...solana.Signature,
) (*rpc.GetSignatureStatusesResult, error) {
	m.calls = append(m.calls, "GetSignatureStatuses")
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	if len(m.statuses) == 0 {
		return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{nil}}, nil
	}
	idx := m.statusIndex
	if idx >= len(m.statuses) {
		idx = len(m.statuses) - 1
	}
	m.statusIndex++
	return &rpc.GetSignatureStatusesResult{Value: m.statuses[idx]}, nil
}

func newTestClient(t *testing.T, mock *mockRPCClient, opts ...ClientOption) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(mock, "test", nil, logger, opts...)
}

// mintAccountResult encodes a token.Mint into the account shape the RPC
// returns so queries can decode it.
func mintAccountResult(t *testing.T, m token.Mint) *rpc.GetAccountInfoResult {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := m.MarshalWithEncoder(bin.NewBinEncoder(buf)); err != nil {
		t.Fatalf("failed to encode mint: %v", err)
	}
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Owner: solana.TokenProgramID,
			Data:  rpc.DataBytesOrJSONFromBytes(buf.Bytes()),
		},
	}
}

// tokenAccountResult returns a minimal present-account result for ATA
// existence checks; the data contents are never decoded by the code under test.
func tokenAccountResult() *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Owner: solana.TokenProgramID,
			Data:  rpc.DataBytesOrJSONFromBytes(make([]byte, 165)),
		},
	}
}

func confirmedStatus(slot uint64) []*rpc.SignatureStatusesResult {
	return []*rpc.SignatureStatusesResult{{
		Slot:               slot,
		ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
	}}
}
