// Package funding prepares cluster wallets for a simulation run:
// airdrops to the trader and attacker wallets and waits for
// confirmation before the run starts.
package funding

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"securelp/internal/domain"
	"securelp/internal/solana"
)

// Default configuration values.
const (
	// DefaultBatchSize caps concurrent airdrop requests; faucets rate
	// limit aggressively.
	DefaultBatchSize = 5

	// DefaultAirdropChunk is the per-request cap (localnet faucet limit).
	DefaultAirdropChunk = 10 * domain.LamportsPerSOL

	DefaultPollInterval   = 500 * time.Millisecond
	DefaultConfirmTimeout = 30 * time.Second
)

// Manager funds wallets through airdrops.
type Manager struct {
	rpc solana.RPCClient

	batchSize      int
	airdropChunk   uint64
	pollInterval   time.Duration
	confirmTimeout time.Duration
	verbose        bool
}

// Options for creating Manager.
type Options struct {
	RPC solana.RPCClient // required

	BatchSize      int           // zero means DefaultBatchSize
	AirdropChunk   uint64        // zero means DefaultAirdropChunk
	PollInterval   time.Duration // zero means DefaultPollInterval
	ConfirmTimeout time.Duration // zero means DefaultConfirmTimeout
	Verbose        bool
}

// NewManager creates a funding manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		rpc:            opts.RPC,
		batchSize:      opts.BatchSize,
		airdropChunk:   opts.AirdropChunk,
		pollInterval:   opts.PollInterval,
		confirmTimeout: opts.ConfirmTimeout,
		verbose:        opts.Verbose,
	}
	if m.batchSize <= 0 {
		m.batchSize = DefaultBatchSize
	}
	if m.airdropChunk == 0 {
		m.airdropChunk = DefaultAirdropChunk
	}
	if m.pollInterval <= 0 {
		m.pollInterval = DefaultPollInterval
	}
	if m.confirmTimeout <= 0 {
		m.confirmTimeout = DefaultConfirmTimeout
	}
	return m
}

// FundWallets brings every wallet up to lamportsEach, processing
// batchSize wallets concurrently. Wallets already at or above the
// target are skipped. The first error aborts subsequent batches.
func (m *Manager) FundWallets(ctx context.Context, wallets []string, lamportsEach uint64) error {
	for start := 0; start < len(wallets); start += m.batchSize {
		end := start + m.batchSize
		if end > len(wallets) {
			end = len(wallets)
		}
		batch := wallets[start:end]

		var wg sync.WaitGroup
		errs := make([]error, len(batch))

		for i, wallet := range batch {
			wg.Add(1)
			go func(i int, wallet string) {
				defer wg.Done()
				errs[i] = m.EnsureBalance(ctx, wallet, lamportsEach)
			}(i, wallet)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				return fmt.Errorf("fund wallet %s: %w", batch[i], err)
			}
		}
		m.log("Funded batch %d-%d of %d wallets", start+1, end, len(wallets))
	}
	return nil
}

// EnsureBalance tops the wallet up to the required balance, requesting
// airdrops in chunks and confirming each before the next.
func (m *Manager) EnsureBalance(ctx context.Context, wallet string, required uint64) error {
	balance, err := m.rpc.GetBalance(ctx, wallet)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if balance >= required {
		return nil
	}

	remaining := required - balance
	for remaining > 0 {
		amount := remaining
		if amount > m.airdropChunk {
			amount = m.airdropChunk
		}

		sig, err := m.rpc.RequestAirdrop(ctx, wallet, amount)
		if err != nil {
			return fmt.Errorf("request airdrop: %w", err)
		}
		if err := m.awaitConfirmation(ctx, sig); err != nil {
			return fmt.Errorf("confirm airdrop %s: %w", sig, err)
		}
		remaining -= amount
	}

	m.log("Wallet %s funded to %.4f SOL", wallet, domain.Lamports(required).SOL())
	return nil
}

// awaitConfirmation polls the signature until it confirms or times out.
func (m *Manager) awaitConfirmation(ctx context.Context, signature string) error {
	deadline := time.Now().Add(m.confirmTimeout)

	for {
		statuses, err := m.rpc.GetSignatureStatuses(ctx, []string{signature})
		if err != nil {
			return err
		}
		if len(statuses) > 0 && statuses[0].Confirmed() {
			return nil
		}
		if len(statuses) > 0 && statuses[0] != nil && statuses[0].Err != nil {
			return fmt.Errorf("transaction failed: %v", statuses[0].Err)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timeout after %s", m.confirmTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.pollInterval):
		}
	}
}

func (m *Manager) log(format string, args ...interface{}) {
	if m.verbose {
		log.Printf("[funding] "+format, args...)
	}
}
