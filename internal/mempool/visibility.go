// Package mempool models what an external observer learns from a pending
// transaction. It has no mutable state: the same classification function
// serves the simulator and the explain tooling.
package mempool

import (
	"securelp/internal/commithash"
	"securelp/internal/domain"
)

// approxGranularity is the display rounding for committed amounts (0.1 SOL).
// The observer sees a rough size for UX, never the exact trade.
const approxGranularity = 100_000_000

// DirectSwap is the payload of a visible, unprotected swap.
type DirectSwap struct {
	Trader   string
	AmountIn uint64
	AToB     bool
	MinOut   uint64
}

// CommitTx is the payload of a commit transaction.
type CommitTx struct {
	Owner  string
	Hash   [32]byte
	Amount uint64 // approximate, display only
	Kind   domain.IntentKind
}

// ObserveDirectSwap classifies a pending direct swap.
// Everything a sandwich attacker needs is on the wire: exact size,
// direction, and the victim's minimum acceptable output.
func ObserveDirectSwap(swap DirectSwap) domain.VisibleFields {
	return domain.VisibleFields{
		Kind:        domain.TxDirectSwap,
		Trader:      swap.Trader,
		AmountIn:    domain.Lamports(swap.AmountIn),
		AToB:        swap.AToB,
		MinOut:      domain.Lamports(swap.MinOut),
		CanSandwich: true,
	}
}

// ObserveCommit classifies a pending commit transaction.
// The observer sees a fixed-size opaque digest plus coarse display
// metadata. Reversing the digest requires the 32-byte nonce, which is
// never transmitted before execution, so CanSandwich is always false.
func ObserveCommit(tx CommitTx) domain.VisibleFields {
	approx := tx.Amount / approxGranularity * approxGranularity
	return domain.VisibleFields{
		Kind:          domain.TxCommit,
		Trader:        tx.Owner,
		CommitmentHex: commithash.HexString(tx.Hash),
		ApproxAmount:  domain.Lamports(approx),
		IntentKind:    tx.Kind,
		CanSandwich:   false,
	}
}
