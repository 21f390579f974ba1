package spltoken

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Wallet is a signing capability bound to a public identity. The module never
// accesses private key material directly; it only asks the wallet to add its
// signature to a transaction. Implementations must sign for exactly the key
// reported by PublicKey.
type Wallet interface {
	// PublicKey returns the identity this wallet signs for.
	PublicKey() solana.PublicKey

	// SignTransaction adds this wallet's signature to the transaction.
	// Signatures already present (e.g., from a freshly generated mint
	// keypair) must be preserved.
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// KeypairWallet is a Wallet backed by an in-memory ed25519 keypair.
type KeypairWallet struct {
	key solana.PrivateKey
}

// NewKeypairWallet wraps an existing private key.
func NewKeypairWallet(key solana.PrivateKey) *KeypairWallet {
	return &KeypairWallet{key: key}
}

// NewKeypairWalletFromFile loads a Solana CLI compatible keygen file
// (a JSON array of the 64 secret key bytes).
func NewKeypairWalletFromFile(path string) (*KeypairWallet, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keygen file %s: %w", path, err)
	}
	return &KeypairWallet{key: key}, nil
}

// NewKeypairWalletFromBase58 parses a base58-encoded private key.
func NewKeypairWalletFromBase58(encoded string) (*KeypairWallet, error) {
	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &KeypairWallet{key: key}, nil
}

// PublicKey returns the keypair's public key.
func (w *KeypairWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// SignTransaction signs the transaction for this wallet's key only.
// Other required signers are left untouched.
func (w *KeypairWallet) SignTransaction(ctx context.Context, tx *solana.Transaction) error {
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// partialSign adds a single keypair's signature to a transaction. Used for
// ephemeral signers like a freshly generated mint account keypair.
func partialSign(tx *solana.Transaction, key solana.PrivateKey) error {
	_, err := tx.PartialSign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(key.PublicKey()) {
			return &key
		}
		return nil
	})
	return err
}
