// Package stakepool implements the liquid-staking pool that backs stake
// and unstake intents: SOL in, pool tokens out, at the pool-wide exchange
// rate. Unlike the AMM there is no price curve; the rate moves only when
// staking rewards accrue.
package stakepool

import (
	"context"
	"errors"
	"math/bits"

	"securelp/internal/domain"
	"securelp/internal/protocol"
)

// RateScale is the fixed-point scale of the exchange rate (9 decimals).
const RateScale = 1_000_000_000

// Pool faults.
var (
	// ErrMathOverflow is returned when an intermediate product does not
	// fit the integer domain.
	ErrMathOverflow = errors.New("math overflow")

	// ErrInsufficientInput is returned for zero-amount operations.
	ErrInsufficientInput = errors.New("insufficient input amount")

	// ErrInsufficientReserve is returned when a withdrawal exceeds the
	// pool's SOL or token supply.
	ErrInsufficientReserve = errors.New("insufficient pool reserve")
)

// Pool tracks staked lamports against minted pool tokens.
type Pool struct {
	totalStakedLamports uint64 // SOL staked with validators
	reserveLamports     uint64 // SOL held for instant unstakes
	totalTokenSupply    uint64 // pool tokens minted
	feeBps              uint16 // protocol fee on deposits
}

// NewPool creates an empty stake pool with the given deposit fee.
func NewPool(feeBps uint16) *Pool {
	return &Pool{feeBps: feeBps}
}

// mulDiv computes floor(a*b/den) with a 128-bit intermediate.
func mulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrMathOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, ErrMathOverflow
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}

// totalSOL is the pool's full SOL backing: staked plus reserve.
func (p *Pool) totalSOL() uint64 {
	return p.totalStakedLamports + p.reserveLamports
}

// ExchangeRate returns lamports per pool token, scaled by RateScale.
// An empty pool trades 1:1.
func (p *Pool) ExchangeRate() uint64 {
	if p.totalTokenSupply == 0 {
		return RateScale
	}
	rate, err := mulDiv(p.totalSOL(), RateScale, p.totalTokenSupply)
	if err != nil {
		return RateScale
	}
	return rate
}

// TokensForDeposit returns pool tokens minted for a SOL deposit.
// First deposit is 1:1; afterwards tokens = lamports*supply/totalSOL.
func (p *Pool) TokensForDeposit(lamports uint64) (uint64, error) {
	if lamports == 0 {
		return 0, ErrInsufficientInput
	}
	if p.totalTokenSupply == 0 {
		return lamports, nil
	}
	return mulDiv(lamports, p.totalTokenSupply, p.totalSOL())
}

// LamportsForWithdrawal returns SOL for burning tokens:
// lamports = tokens*totalSOL/supply.
func (p *Pool) LamportsForWithdrawal(tokens uint64) (uint64, error) {
	if tokens == 0 {
		return 0, ErrInsufficientInput
	}
	if tokens > p.totalTokenSupply {
		return 0, ErrInsufficientReserve
	}
	return mulDiv(tokens, p.totalSOL(), p.totalTokenSupply)
}

// Deposit stakes lamports and mints pool tokens.
func (p *Pool) Deposit(lamports uint64) (tokens uint64, fee uint64, err error) {
	fee, err = mulDiv(lamports, uint64(p.feeBps), 10000)
	if err != nil {
		return 0, 0, err
	}
	tokens, err = p.TokensForDeposit(lamports - fee)
	if err != nil {
		return 0, 0, err
	}

	p.reserveLamports += lamports - fee
	p.totalTokenSupply += tokens
	return tokens, fee, nil
}

// Withdraw burns pool tokens and returns lamports from the reserve.
func (p *Pool) Withdraw(tokens uint64) (lamports uint64, err error) {
	lamports, err = p.LamportsForWithdrawal(tokens)
	if err != nil {
		return 0, err
	}
	if lamports > p.reserveLamports {
		return 0, ErrInsufficientReserve
	}

	p.reserveLamports -= lamports
	p.totalTokenSupply -= tokens
	return lamports, nil
}

// AccrueRewards adds staking rewards to the pool, raising the exchange
// rate for all token holders.
func (p *Pool) AccrueRewards(lamports uint64) {
	p.totalStakedLamports += lamports
}

// Executor adapts the stake pool to the protocol's reveal path.
type Executor struct {
	pool *Pool
}

// NewExecutor creates a protocol executor over the stake pool.
func NewExecutor(pool *Pool) *Executor {
	return &Executor{pool: pool}
}

// Compile-time interface check.
var _ protocol.Executor = (*Executor)(nil)

// Quote prices a stake or unstake without mutating the pool.
func (e *Executor) Quote(_ context.Context, amountIn uint64, kind domain.IntentKind) (uint64, uint64, error) {
	if kind == domain.IntentStake {
		fee, err := mulDiv(amountIn, uint64(e.pool.feeBps), 10000)
		if err != nil {
			return 0, 0, err
		}
		out, err := e.pool.TokensForDeposit(amountIn - fee)
		return out, fee, err
	}
	out, err := e.pool.LamportsForWithdrawal(amountIn)
	return out, 0, err
}

// Execute applies the stake or unstake to the pool.
func (e *Executor) Execute(_ context.Context, amountIn uint64, kind domain.IntentKind) (uint64, uint64, error) {
	if kind == domain.IntentStake {
		return e.pool.Deposit(amountIn)
	}
	out, err := e.pool.Withdraw(amountIn)
	return out, 0, err
}
