package nats

import (
	"time"
)

// Event kinds published to the stream.
const (
	KindCreateMint = "create_mint"
	KindMintTo     = "mint_to"
)

// MintEvent represents a confirmed mint transaction published to NATS.
// Events are published to the subject "mints.{mint_address}" in JetStream.
type MintEvent struct {
	// Transaction identifiers
	Signature string `json:"signature"`
	Kind      string `json:"kind"` // "create_mint" or "mint_to"

	// Mint information
	Mint     string `json:"mint"`
	Decimals uint8  `json:"decimals"`

	// Mint-to details (empty for create_mint events)
	DestinationOwner   string `json:"destination_owner,omitempty"`
	DestinationAccount string `json:"destination_account,omitempty"`
	RawAmount          uint64 `json:"raw_amount,omitempty"`
	Amount             string `json:"amount,omitempty"`

	// Timing information
	ConfirmedAt time.Time `json:"confirmed_at"`
	PublishedAt time.Time `json:"published_at"`
}
