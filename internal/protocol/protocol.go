// Package protocol implements the commit-reveal state machine that hides
// trade intent until execution.
//
// States: NoCommitment -> Committed -> {Revealed, Cancelled} -> NoCommitment.
// Commit stores a blinded SHA-256 digest of the swap details; RevealAndExecute
// verifies delay and digest against the authoritative clock and store, then
// executes the swap. The reveal gate is evaluated protocol-side: a client
// cannot shorten the delay by calling early, it just gets ErrDelayNotMet.
package protocol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securelp/internal/commithash"
	"securelp/internal/domain"
	"securelp/internal/storage"
)

// Defaults mirror the deployed program configuration.
const (
	DefaultMinDelay      = 1 * time.Second
	DefaultMaxSlippage   = 1000      // bps, 10%
	DefaultMinAmount     = 1_000_000 // lamports, 0.001 SOL
)

// Clock supplies the authoritative time. Commitment timestamps and delay
// checks both use it; client time is never trusted.
type Clock func() time.Time

// Executor performs the value transfer behind a reveal. Implementations
// must be all-or-nothing and must price with the same math as Quote.
type Executor interface {
	// Quote returns the output for amountIn without mutating state.
	Quote(ctx context.Context, amountIn uint64, kind domain.IntentKind) (amountOut uint64, fee uint64, err error)

	// Execute performs the transfer.
	Execute(ctx context.Context, amountIn uint64, kind domain.IntentKind) (amountOut uint64, fee uint64, err error)
}

// ExecutionReceipt is returned by a successful reveal.
type ExecutionReceipt struct {
	Owner         string
	Kind          domain.IntentKind
	AmountIn      uint64
	AmountOut     uint64
	Fee           uint64
	CommitmentHex string
	RevealedAt    int64 // Unix seconds, protocol clock
	DelayWaited   int64 // seconds between commit and reveal
}

// Config holds protocol parameters.
type Config struct {
	MinDelay       time.Duration // minimum commit-reveal delay
	MaxSlippageBps uint16        // maximum allowed slippage tolerance
	MinAmount      uint64        // minimum commit amount in lamports
}

// DefaultConfig returns the deployed program's parameters.
func DefaultConfig() Config {
	return Config{
		MinDelay:       DefaultMinDelay,
		MaxSlippageBps: DefaultMaxSlippage,
		MinAmount:      DefaultMinAmount,
	}
}

// Options for creating a Protocol.
type Options struct {
	Store    storage.CommitmentStore // required
	Executor Executor                // required
	Config   Config                  // zero value means DefaultConfig
	Clock    Clock                   // nil means time.Now
}

// Protocol orchestrates Commit -> (delay) -> RevealAndExecute, or
// Commit -> Cancel.
type Protocol struct {
	store    storage.CommitmentStore
	executor Executor
	cfg      Config
	clock    Clock
}

// New creates a Protocol.
func New(opts Options) *Protocol {
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Protocol{
		store:    opts.Store,
		executor: opts.Executor,
		cfg:      cfg,
		clock:    clock,
	}
}

// Commit stores a blinded intent for owner. The createdAt timestamp comes
// from the protocol clock, set exactly once here.
func (p *Protocol) Commit(ctx context.Context, owner string, hash [32]byte, amount uint64, kind domain.IntentKind) (*domain.Commitment, error) {
	if amount < p.cfg.MinAmount {
		return nil, ErrAmountTooSmall
	}

	c := &domain.Commitment{
		Owner:     owner,
		Hash:      hash,
		CreatedAt: p.clock().Unix(),
		Amount:    amount,
		Kind:      kind,
	}
	if err := p.store.Put(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, ErrCommitmentAlreadyExists
		}
		return nil, fmt.Errorf("store commitment: %w", err)
	}
	return c, nil
}

// RevealAndExecute verifies the commitment and performs the swap.
//
// This is the only path that moves value. The sequence is atomic at the
// operation boundary: every check runs before any state mutates, the
// commitment is consumed before the transfer, and a failed transfer
// restores it.
func (p *Protocol) RevealAndExecute(ctx context.Context, owner string, details commithash.SwapDetails) (*ExecutionReceipt, error) {
	c, err := p.store.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommitmentNotFound
		}
		return nil, fmt.Errorf("load commitment: %w", err)
	}

	now := p.clock().Unix()
	if now < c.CreatedAt+int64(p.cfg.MinDelay/time.Second) {
		return nil, ErrDelayNotMet
	}

	if commithash.Hash(details) != c.Hash {
		return nil, ErrHashMismatch
	}

	if details.SlippageBps > p.cfg.MaxSlippageBps {
		return nil, ErrSlippageTooHigh
	}

	// Quote before touching state so the slippage check cannot leave a
	// partially-applied swap behind.
	quoted, _, err := p.executor.Quote(ctx, details.AmountIn, c.Kind)
	if err != nil {
		return nil, fmt.Errorf("quote reveal: %w", err)
	}
	if quoted < details.MinOut {
		return nil, ErrSlippageTooHigh
	}

	// Consume the commitment before moving value: a close failure here
	// leaves reserves untouched with the commitment intact, and a retry
	// after a successful transfer finds no live commitment. The swap can
	// never run twice against one commitment.
	if err := p.store.Delete(ctx, owner); err != nil {
		return nil, fmt.Errorf("close commitment: %w", err)
	}

	amountOut, fee, err := p.executor.Execute(ctx, details.AmountIn, c.Kind)
	if err != nil {
		// Execute is all-or-nothing, so no value moved; restore the
		// commitment so the owner can retry or cancel.
		if putErr := p.store.Put(ctx, c); putErr != nil {
			return nil, fmt.Errorf("execute reveal: %w (restore commitment: %v)", err, putErr)
		}
		return nil, fmt.Errorf("execute reveal: %w", err)
	}

	return &ExecutionReceipt{
		Owner:         owner,
		Kind:          c.Kind,
		AmountIn:      details.AmountIn,
		AmountOut:     amountOut,
		Fee:           fee,
		CommitmentHex: commithash.HexString(c.Hash),
		RevealedAt:    now,
		DelayWaited:   now - c.CreatedAt,
	}, nil
}

// Cancel closes an existing commitment unconditionally. No delay applies;
// only the owner can cancel their own commitment (enforced by keying).
func (p *Protocol) Cancel(ctx context.Context, owner string) error {
	if err := p.store.Delete(ctx, owner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommitmentNotFound
		}
		return fmt.Errorf("cancel commitment: %w", err)
	}
	return nil
}

// GetCommitment returns the live commitment for owner, or nil if none.
func (p *Protocol) GetCommitment(ctx context.Context, owner string) (*domain.Commitment, error) {
	c, err := p.store.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commitment: %w", err)
	}
	return c, nil
}
