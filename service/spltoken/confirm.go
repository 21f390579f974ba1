package spltoken

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// submitAndConfirm sends a signed transaction and waits for it to reach
// confirmed commitment. Kind labels the metrics ("create_mint", "mint_to").
func (c *Client) submitAndConfirm(
	ctx context.Context,
	tx *solana.Transaction,
	kind string,
) (solana.Signature, error) {
	start := time.Now()
	sig, err := c.rpc.SendTransaction(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	c.recordRPC("SendTransaction", start, err)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordTransactionSubmitted(kind, "error")
		}
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordTransactionSubmitted(kind, "success")
	}

	c.logger.DebugContext(ctx, "transaction submitted, awaiting confirmation",
		"signature", sig.String(),
		"kind", kind,
	)

	confirmStart := time.Now()
	if err := c.WaitForConfirmation(ctx, sig); err != nil {
		return solana.Signature{}, err
	}
	if c.metrics != nil {
		c.metrics.RecordConfirmationDuration(kind, time.Since(confirmStart).Seconds())
	}
	return sig, nil
}

// WaitForConfirmation polls GetSignatureStatuses until the signature reaches
// confirmed or finalized commitment, the configured timeout elapses, or the
// context is canceled. A transaction error reported by the chain fails the
// wait immediately.
func (c *Client) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.confirmPollInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		result, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		c.recordRPC("GetSignatureStatuses", start, err)
		if err != nil {
			// A transient poll failure is not fatal; the next tick may succeed.
			if c.metrics != nil {
				c.metrics.RecordConfirmationPoll("error")
			}
			c.logger.WarnContext(ctx, "signature status poll failed",
				"signature", sig.String(),
				"error", err,
			)
		} else if status := pollStatus(result); status != nil {
			if status.Err != nil {
				if c.metrics != nil {
					c.metrics.RecordConfirmationPoll("error")
				}
				return fmt.Errorf("transaction %s failed on chain: %v", sig.String(), status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				if c.metrics != nil {
					c.metrics.RecordConfirmationPoll("confirmed")
				}
				c.logger.DebugContext(ctx, "transaction confirmed",
					"signature", sig.String(),
					"slot", status.Slot,
					"commitment", string(status.ConfirmationStatus),
				)
				return nil
			}
			if c.metrics != nil {
				c.metrics.RecordConfirmationPoll("pending")
			}
		} else if c.metrics != nil {
			c.metrics.RecordConfirmationPoll("pending")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for confirmation of %s: %w", sig.String(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// pollStatus extracts the first (only) status entry, which is nil while the
// cluster has not yet seen the signature.
func pollStatus(result *rpc.GetSignatureStatusesResult) *rpc.SignatureStatusesResult {
	if result == nil || len(result.Value) == 0 {
		return nil
	}
	return result.Value[0]
}
