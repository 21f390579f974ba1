package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for the submission ledger.
// Every mint transaction the CLI submits can be recorded here for later
// inspection; the core pipeline itself never touches the database.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store with the given database connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// MintTransaction represents a submitted mint transaction in our system.
type MintTransaction struct {
	Signature        string
	Kind             string // "create_mint" or "mint_to"
	Mint             string
	Authority        string
	DestinationOwner *string // nil for create_mint
	RawAmount        *int64  // nil for create_mint
	Decimals         int16
	CreatedAt        time.Time
}

// CreateMintTransactionParams contains the parameters for recording a transaction.
type CreateMintTransactionParams struct {
	Signature        string
	Kind             string
	Mint             string
	Authority        string
	DestinationOwner *string
	RawAmount        *int64
	Decimals         int16
}

// ListMintTransactionsParams contains pagination parameters.
type ListMintTransactionsParams struct {
	Mint   string
	Limit  int32
	Offset int32
}

// CreateMintTransaction inserts a new mint transaction into the ledger.
func (s *Store) CreateMintTransaction(ctx context.Context, params CreateMintTransactionParams) (*MintTransaction, error) {
	const q = `
		INSERT INTO mint_transactions (signature, kind, mint, authority, destination_owner, raw_amount, decimals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING signature, kind, mint, authority, destination_owner, raw_amount, decimals, created_at`

	var txn MintTransaction
	err := s.pool.QueryRow(ctx, q,
		params.Signature,
		params.Kind,
		params.Mint,
		params.Authority,
		params.DestinationOwner,
		params.RawAmount,
		params.Decimals,
	).Scan(
		&txn.Signature,
		&txn.Kind,
		&txn.Mint,
		&txn.Authority,
		&txn.DestinationOwner,
		&txn.RawAmount,
		&txn.Decimals,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert mint transaction: %w", err)
	}
	return &txn, nil
}

// GetMintTransaction retrieves a mint transaction by its signature.
// Returns pgx.ErrNoRows if no such transaction was recorded.
func (s *Store) GetMintTransaction(ctx context.Context, signature string) (*MintTransaction, error) {
	const q = `
		SELECT signature, kind, mint, authority, destination_owner, raw_amount, decimals, created_at
		FROM mint_transactions
		WHERE signature = $1`

	var txn MintTransaction
	err := s.pool.QueryRow(ctx, q, signature).Scan(
		&txn.Signature,
		&txn.Kind,
		&txn.Mint,
		&txn.Authority,
		&txn.DestinationOwner,
		&txn.RawAmount,
		&txn.Decimals,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListMintTransactionsByMint returns the recorded transactions for a mint,
// newest first.
func (s *Store) ListMintTransactionsByMint(ctx context.Context, params ListMintTransactionsParams) ([]*MintTransaction, error) {
	const q = `
		SELECT signature, kind, mint, authority, destination_owner, raw_amount, decimals, created_at
		FROM mint_transactions
		WHERE mint = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, q, params.Mint, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list mint transactions: %w", err)
	}
	defer rows.Close()

	var txns []*MintTransaction
	for rows.Next() {
		var txn MintTransaction
		if err := rows.Scan(
			&txn.Signature,
			&txn.Kind,
			&txn.Mint,
			&txn.Authority,
			&txn.DestinationOwner,
			&txn.RawAmount,
			&txn.Decimals,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mint transaction: %w", err)
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txns, nil
}

// IsNotFound reports whether err signals an absent row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
