package spltoken

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/brojonat/tokenmint/service/metrics"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatherValue sums the samples of a metric family across label sets.
func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
			}
		}
	}
	return total
}

func TestClientRecordsMetrics(t *testing.T) {
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	payerKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	wallet := NewKeypairWallet(payerKey)

	mock := &mockRPCClient{
		rentExemptBalance: 1461600,
		blockhash:         solana.HashFromBytes([]byte("00000000000000000000000000000001")),
		sendSig:           testSignature(8),
		statuses:          [][]*rpc.SignatureStatusesResult{confirmedStatus(55)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(mock, "test", m, logger)

	_, _, err = client.CreateMint(ctx, wallet, 6)
	require.NoError(t, err)

	// Rent query, blockhash, send, and at least one status poll.
	assert.GreaterOrEqual(t, gatherValue(t, reg, "spl_rpc_calls_total"), float64(4))
	assert.Equal(t, float64(1), gatherValue(t, reg, "spl_transactions_submitted_total"))
	assert.Equal(t, float64(1), gatherValue(t, reg, "spl_confirmation_duration_seconds"))
	assert.GreaterOrEqual(t, gatherValue(t, reg, "spl_confirmation_polls_total"), float64(1))
}
