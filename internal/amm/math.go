// Package amm implements constant-product (x*y=k) pool pricing.
//
// All functions are pure and deterministic: the simulator and the
// production swap path must agree bit-for-bit, so intermediates are
// computed with 128-bit widening and floor division, never floats.
package amm

import "math/bits"

// BpsDenominator is the basis-point scale (10000 = 100%).
const BpsDenominator = 10000

// SwapResult is the output of a swap quote.
type SwapResult struct {
	AmountOut      uint64 // output tokens received
	Fee            uint64 // fee charged, in input tokens
	PriceImpactBps uint64 // execution price vs spot price, in bps
}

// mulDiv computes floor(a*b/den) with a 128-bit intermediate.
// Returns ErrMathOverflow if the quotient does not fit in uint64.
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

// SwapOutput quotes a constant-product swap.
//
// The fee is deducted first: afterFee = amountIn*(10000-feeBps)/10000,
// then amountOut = reserveOut*afterFee/(reserveIn+afterFee).
// Guarantees amountOut < reserveOut for positive reserves, and that
// amountOut is monotonically non-decreasing in amountIn.
func SwapOutput(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (SwapResult, error) {
	if amountIn == 0 {
		return SwapResult{}, ErrInsufficientInput
	}
	if reserveIn == 0 || reserveOut == 0 {
		return SwapResult{}, ErrZeroLiquidity
	}
	if uint64(feeBps) > BpsDenominator {
		return SwapResult{}, ErrMathOverflow
	}

	afterFee, err := mulDiv(amountIn, BpsDenominator-uint64(feeBps), BpsDenominator)
	if err != nil {
		return SwapResult{}, err
	}
	fee := amountIn - afterFee

	denom, carry := bits.Add64(reserveIn, afterFee, 0)
	if carry != 0 {
		return SwapResult{}, ErrMathOverflow
	}
	amountOut, err := mulDiv(reserveOut, afterFee, denom)
	if err != nil {
		return SwapResult{}, err
	}

	// Ideal output at spot price, used only to report impact.
	impact := uint64(0)
	if ideal, err := mulDiv(afterFee, reserveOut, reserveIn); err == nil && ideal > amountOut {
		impact, _ = mulDiv(ideal-amountOut, BpsDenominator, ideal)
	}

	return SwapResult{AmountOut: amountOut, Fee: fee, PriceImpactBps: impact}, nil
}

// MinOutputForSlippage returns the minimum acceptable output for a quote,
// given a slippage tolerance in basis points.
func MinOutputForSlippage(amountOut uint64, slippageBps uint16) uint64 {
	slip, err := mulDiv(amountOut, uint64(slippageBps), BpsDenominator)
	if err != nil {
		return 0
	}
	return amountOut - slip
}
