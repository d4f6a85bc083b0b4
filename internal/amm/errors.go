package amm

import "errors"

// Arithmetic faults. All abort the operation before any state mutation.
var (
	// ErrMathOverflow is returned when an intermediate product or quotient
	// does not fit the integer domain.
	ErrMathOverflow = errors.New("math overflow")

	// ErrZeroLiquidity is returned when an operation requires positive
	// reserves and at least one reserve is zero.
	ErrZeroLiquidity = errors.New("zero liquidity: pool has an empty reserve")

	// ErrInsufficientLiquidity is returned when an operation would drain a
	// reserve or burn more LP tokens than exist.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInsufficientInput is returned for zero-amount inputs.
	ErrInsufficientInput = errors.New("insufficient input amount")

	// ErrMinimumLiquidity is returned when the first deposit is too small
	// to lock the minimum LP amount.
	ErrMinimumLiquidity = errors.New("initial deposit below minimum liquidity")
)
