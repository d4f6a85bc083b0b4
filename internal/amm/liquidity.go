package amm

import (
	"math/big"

	"securelp/internal/domain"
)

// MinimumLiquidity is the LP amount permanently locked by the first
// deposit, which fixes the initial exchange rate.
const MinimumLiquidity = 1000

// InitialLiquidity computes LP tokens for the first deposit:
// sqrt(amountA*amountB) - MinimumLiquidity.
// Rejects deposits where either side is zero.
func InitialLiquidity(amountA, amountB uint64) (uint64, error) {
	if amountA == 0 || amountB == 0 {
		return 0, ErrInsufficientInput
	}

	product := new(big.Int).Mul(
		new(big.Int).SetUint64(amountA),
		new(big.Int).SetUint64(amountB),
	)
	sqrt := new(big.Int).Sqrt(product)

	if sqrt.Cmp(big.NewInt(MinimumLiquidity)) <= 0 {
		return 0, ErrMinimumLiquidity
	}
	sqrt.Sub(sqrt, big.NewInt(MinimumLiquidity))
	if !sqrt.IsUint64() {
		return 0, ErrMathOverflow
	}
	return sqrt.Uint64(), nil
}

// LiquidityForDeposit computes LP tokens to mint for a deposit against
// existing reserves: min(amountA*supply/reserveA, amountB*supply/reserveB).
// Falls back to InitialLiquidity when the pool has no LP supply yet.
func LiquidityForDeposit(pool domain.PoolState, amountA, amountB uint64) (uint64, error) {
	if pool.TotalLPSupply == 0 {
		return InitialLiquidity(amountA, amountB)
	}
	if amountA == 0 || amountB == 0 {
		return 0, ErrInsufficientInput
	}
	if pool.ReserveA == 0 || pool.ReserveB == 0 {
		return 0, ErrZeroLiquidity
	}

	fromA, err := mulDiv(amountA, pool.TotalLPSupply, pool.ReserveA)
	if err != nil {
		return 0, err
	}
	fromB, err := mulDiv(amountB, pool.TotalLPSupply, pool.ReserveB)
	if err != nil {
		return 0, err
	}
	if fromB < fromA {
		return fromB, nil
	}
	return fromA, nil
}

// WithdrawAmounts computes the reserves returned for burning lpAmount:
// proportional to the share of total supply.
func WithdrawAmounts(pool domain.PoolState, lpAmount uint64) (amountA, amountB uint64, err error) {
	if lpAmount == 0 {
		return 0, 0, ErrInsufficientInput
	}
	if pool.TotalLPSupply == 0 || lpAmount > pool.TotalLPSupply {
		return 0, 0, ErrInsufficientLiquidity
	}

	amountA, err = mulDiv(pool.ReserveA, lpAmount, pool.TotalLPSupply)
	if err != nil {
		return 0, 0, err
	}
	amountB, err = mulDiv(pool.ReserveB, lpAmount, pool.TotalLPSupply)
	if err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}
