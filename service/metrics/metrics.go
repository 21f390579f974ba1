package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Solana RPC Metrics
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec

	// Transaction Submission Metrics
	transactionsSubmittedTotal *prometheus.CounterVec
	confirmationDuration       *prometheus.HistogramVec
	confirmationPollsTotal     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spl_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spl_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		transactionsSubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spl_transactions_submitted_total",
				Help: "Total number of transactions submitted by kind and status",
			},
			[]string{"kind", "status"},
		),
		confirmationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spl_confirmation_duration_seconds",
				Help:    "Time from submission to confirmation in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"kind"},
		),
		confirmationPollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spl_confirmation_polls_total",
				Help: "Total number of signature status polls by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRPCCall records a Solana RPC call with its duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, durationSeconds float64) {
	m.rpcCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.rpcCallDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordTransactionSubmitted records a transaction submission attempt.
// Kind is "create_mint" or "mint_to"; status is "success" or "error".
func (m *Metrics) RecordTransactionSubmitted(kind, status string) {
	m.transactionsSubmittedTotal.WithLabelValues(kind, status).Inc()
}

// RecordConfirmationDuration records how long a transaction took to confirm.
func (m *Metrics) RecordConfirmationDuration(kind string, durationSeconds float64) {
	m.confirmationDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordConfirmationPoll records a single GetSignatureStatuses poll.
// Outcome is "pending", "confirmed", or "error".
func (m *Metrics) RecordConfirmationPoll(outcome string) {
	m.confirmationPollsTotal.WithLabelValues(outcome).Inc()
}
