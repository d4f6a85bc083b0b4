// Package stub provides in-memory fakes of the solana clients for tests.
package stub

import (
	"context"
	"fmt"
	"sync"

	"securelp/internal/solana"
)

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu sync.Mutex

	Slot     int64
	Balances map[string]uint64
	Statuses map[string]*solana.SignatureStatus

	airdropSeq int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Balances: make(map[string]uint64),
		Statuses: make(map[string]*solana.SignatureStatus),
	}
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)

// GetSlot returns the configured slot.
func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Slot, nil
}

// GetBalance returns the stubbed balance, zero for unknown accounts.
func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Balances[pubkey], nil
}

// RequestAirdrop credits the account immediately and returns a synthetic
// signature that confirms on the first status poll.
func (c *RPCClient) RequestAirdrop(_ context.Context, pubkey string, lamports uint64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.airdropSeq++
	sig := fmt.Sprintf("stub_airdrop_%d", c.airdropSeq)

	c.Balances[pubkey] += lamports
	c.Statuses[sig] = &solana.SignatureStatus{
		Slot:               c.Slot,
		ConfirmationStatus: "confirmed",
	}
	return sig, nil
}

// GetSignatureStatuses returns stubbed statuses, nil for unknown.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	statuses := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		statuses[i] = c.Statuses[sig]
	}
	return statuses, nil
}
