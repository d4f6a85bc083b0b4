package domain

// TransactionKind classifies a transaction as seen by a mempool observer.
type TransactionKind string

// Transaction kind constants
const (
	TxDirectSwap TransactionKind = "direct_swap"
	TxCommit     TransactionKind = "commit"
	TxReveal     TransactionKind = "reveal"
	TxCancel     TransactionKind = "cancel"
)

// VisibleFields is what an external observer can read off a pending
// transaction. For a direct swap this is the full attack surface; for a
// commit it is an opaque hash plus display metadata.
type VisibleFields struct {
	Kind          TransactionKind `json:"kind"`
	Trader        string          `json:"trader"`
	AmountIn      Lamports        `json:"amount_in,omitempty"`      // exact, direct swaps only
	AToB          bool            `json:"a_to_b,omitempty"`         // direction, direct swaps only
	MinOut        Lamports        `json:"min_out,omitempty"`        // direct swaps only
	CommitmentHex string          `json:"commitment_hex,omitempty"` // commits only
	ApproxAmount  Lamports        `json:"approx_amount,omitempty"`  // commits only, rounded for UX
	IntentKind    IntentKind      `json:"intent_kind,omitempty"`    // commits only
	CanSandwich   bool            `json:"can_sandwich"`
}
