// Package solana provides the RPC and WebSocket clients used to run the
// simulation against a live cluster: funding wallets, confirming
// airdrops, and watching the deployed program's logs.
package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface the simulator uses.
type RPCClient interface {
	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)

	// GetBalance retrieves the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// RequestAirdrop requests lamports for an account (devnet/localnet)
	// and returns the airdrop transaction signature.
	RequestAirdrop(ctx context.Context, pubkey string, lamports uint64) (string, error)

	// GetSignatureStatuses retrieves confirmation status for signatures.
	// Entries are nil for unknown signatures.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)
}
