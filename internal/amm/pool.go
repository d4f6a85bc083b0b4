package amm

import (
	"math/bits"

	"securelp/internal/domain"
)

// Pool wraps a mutable PoolState and applies swap/liquidity operations
// to it. Operations are all-or-nothing: on error the state is untouched.
type Pool struct {
	state domain.PoolState
}

// NewPool creates a pool with the given reserves and fee.
func NewPool(reserveA, reserveB uint64, feeBps uint16) *Pool {
	return &Pool{state: domain.PoolState{
		ReserveA: reserveA,
		ReserveB: reserveB,
		FeeBps:   feeBps,
	}}
}

// FromState creates a pool over an existing state value.
func FromState(s domain.PoolState) *Pool {
	return &Pool{state: s}
}

// State returns a copy of the current pool state.
func (p *Pool) State() domain.PoolState {
	return p.state
}

// SetState restores a previously captured state snapshot.
func (p *Pool) SetState(s domain.PoolState) {
	p.state = s
}

// Clone returns an independent pool with identical state.
// Attack-search simulations run against clones, never the live pool.
func (p *Pool) Clone() *Pool {
	return &Pool{state: p.state}
}

// Quote computes the swap output without mutating reserves.
func (p *Pool) Quote(amountIn uint64, aToB bool) (SwapResult, error) {
	reserveIn, reserveOut := p.state.ReserveB, p.state.ReserveA
	if aToB {
		reserveIn, reserveOut = p.state.ReserveA, p.state.ReserveB
	}
	return SwapOutput(amountIn, reserveIn, reserveOut, p.state.FeeBps)
}

// ApplySwap executes a swap against the live reserves.
// Reserves remain strictly positive afterwards; the constant-product
// formula itself guarantees amountOut < reserveOut.
func (p *Pool) ApplySwap(amountIn uint64, aToB bool) (SwapResult, error) {
	res, err := p.Quote(amountIn, aToB)
	if err != nil {
		return SwapResult{}, err
	}

	// Quote widens reserveIn + amountAfterFee, which is smaller than
	// reserveIn + amountIn by the fee, so the reserve update needs its
	// own carry check.
	if aToB {
		if res.AmountOut >= p.state.ReserveB {
			return SwapResult{}, ErrInsufficientLiquidity
		}
		newA, carry := bits.Add64(p.state.ReserveA, amountIn, 0)
		if carry != 0 {
			return SwapResult{}, ErrMathOverflow
		}
		p.state.ReserveA = newA
		p.state.ReserveB -= res.AmountOut
	} else {
		if res.AmountOut >= p.state.ReserveA {
			return SwapResult{}, ErrInsufficientLiquidity
		}
		newB, carry := bits.Add64(p.state.ReserveB, amountIn, 0)
		if carry != 0 {
			return SwapResult{}, ErrMathOverflow
		}
		p.state.ReserveB = newB
		p.state.ReserveA -= res.AmountOut
	}
	return res, nil
}

// Deposit adds liquidity and mints LP tokens.
// The first deposit locks MinimumLiquidity in the supply.
func (p *Pool) Deposit(amountA, amountB uint64) (lpMinted uint64, err error) {
	first := p.state.TotalLPSupply == 0

	lpMinted, err = LiquidityForDeposit(p.state, amountA, amountB)
	if err != nil {
		return 0, err
	}

	newA, carryA := bits.Add64(p.state.ReserveA, amountA, 0)
	newB, carryB := bits.Add64(p.state.ReserveB, amountB, 0)
	if carryA != 0 || carryB != 0 {
		return 0, ErrMathOverflow
	}
	p.state.ReserveA = newA
	p.state.ReserveB = newB
	p.state.TotalLPSupply += lpMinted
	if first {
		p.state.TotalLPSupply += MinimumLiquidity
	}
	return lpMinted, nil
}

// Withdraw burns LP tokens and returns proportional reserves.
// Fails if the withdrawal would fully drain either reserve.
func (p *Pool) Withdraw(lpAmount uint64) (amountA, amountB uint64, err error) {
	amountA, amountB, err = WithdrawAmounts(p.state, lpAmount)
	if err != nil {
		return 0, 0, err
	}
	if amountA >= p.state.ReserveA || amountB >= p.state.ReserveB {
		return 0, 0, ErrInsufficientLiquidity
	}

	p.state.ReserveA -= amountA
	p.state.ReserveB -= amountB
	p.state.TotalLPSupply -= lpAmount
	return amountA, amountB, nil
}
