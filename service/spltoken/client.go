package spltoken

import (
	"context"
	"log/slog"
	"time"

	"github.com/brojonat/tokenmint/service/metrics"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type RPCClient interface {
	GetMinimumBalanceForRentExemption(
		ctx context.Context,
		dataSize uint64,
		commitment rpc.CommitmentType,
	) (uint64, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)

	GetAccountInfo(
		ctx context.Context,
		account solana.PublicKey,
	) (*rpc.GetAccountInfoResult, error)

	SendTransaction(
		ctx context.Context,
		tx *solana.Transaction,
		opts rpc.TransactionOpts,
	) (solana.Signature, error)

	GetSignatureStatuses(
		ctx context.Context,
		searchTransactionHistory bool,
		signatures ...solana.Signature,
	) (*rpc.GetSignatureStatusesResult, error)
}

// Client provides methods for building, signing, submitting, and confirming
// SPL token mint transactions. It wraps the RPC client with domain-specific
// operations. The client holds no state between calls; every operation
// re-fetches whatever it needs (rent minimums, blockhashes, mint decimals,
// account existence) from the RPC endpoint.
type Client struct {
	rpc      RPCClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string // RPC endpoint identifier for metrics (e.g., "mainnet", "devnet", rpc host)

	confirmTimeout      time.Duration
	confirmPollInterval time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithConfirmTimeout sets how long Send* methods wait for confirmation
// before giving up. Defaults to 30s.
func WithConfirmTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.confirmTimeout = d }
}

// WithConfirmPollInterval sets the cadence of GetSignatureStatuses polls.
// Defaults to 500ms.
func WithConfirmPollInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.confirmPollInterval = d }
}

// NewClient creates a new SPL token client.
// The endpoint parameter is used for metrics labeling (e.g., "mainnet", "devnet", or RPC hostname).
// If m is nil, no metrics will be recorded.
func NewClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		rpc:                 rpcClient,
		logger:              logger,
		metrics:             m,
		endpoint:            endpoint,
		confirmTimeout:      30 * time.Second,
		confirmPollInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// recordRPC records a timed RPC call if metrics are enabled.
func (c *Client) recordRPC(method string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordRPCCall(method, status, c.endpoint, time.Since(start).Seconds())
}
