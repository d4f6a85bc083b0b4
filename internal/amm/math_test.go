package amm

import (
	"errors"
	"math"
	"testing"
)

func TestSwapOutput(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   uint64
		reserveIn  uint64
		reserveOut uint64
		feeBps     uint16
		wantOut    uint64
		wantFee    uint64
	}{
		{
			// afterFee = 1000*9970/10000 = 997
			// out = 1_000_000*997/(1_000_000+997) = 996006...
			name:       "small swap with 30bps fee",
			amountIn:   1000,
			reserveIn:  1_000_000,
			reserveOut: 1_000_000,
			feeBps:     30,
			wantOut:    996,
			wantFee:    3,
		},
		{
			name:       "no fee",
			amountIn:   1000,
			reserveIn:  1_000_000,
			reserveOut: 1_000_000,
			feeBps:     0,
			wantOut:    999, // 1_000_000*1000/1_001_000
			wantFee:    0,
		},
		{
			name:       "asymmetric reserves",
			amountIn:   500,
			reserveIn:  1_000_000,
			reserveOut: 2_000_000,
			feeBps:     0,
			wantOut:    999, // 2_000_000*500/1_000_500
			wantFee:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := SwapOutput(tt.amountIn, tt.reserveIn, tt.reserveOut, tt.feeBps)
			if err != nil {
				t.Fatalf("SwapOutput() error = %v", err)
			}
			if res.AmountOut != tt.wantOut {
				t.Errorf("AmountOut = %d, want %d", res.AmountOut, tt.wantOut)
			}
			if res.Fee != tt.wantFee {
				t.Errorf("Fee = %d, want %d", res.Fee, tt.wantFee)
			}
		})
	}
}

func TestSwapOutputErrors(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   uint64
		reserveIn  uint64
		reserveOut uint64
		feeBps     uint16
		wantErr    error
	}{
		{"zero input", 0, 1000, 1000, 30, ErrInsufficientInput},
		{"zero reserve in", 100, 0, 1000, 30, ErrZeroLiquidity},
		{"zero reserve out", 100, 1000, 0, 30, ErrZeroLiquidity},
		{"fee above 100 percent", 100, 1000, 1000, 10001, ErrMathOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SwapOutput(tt.amountIn, tt.reserveIn, tt.reserveOut, tt.feeBps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SwapOutput() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSwapOutputNeverDrainsReserve(t *testing.T) {
	// Even an absurdly large input cannot buy the whole output reserve.
	reserveOut := uint64(1_000_000)
	res, err := SwapOutput(math.MaxUint64/4, math.MaxUint64/4, reserveOut, 30)
	if err != nil {
		t.Fatalf("SwapOutput() error = %v", err)
	}
	if res.AmountOut >= reserveOut {
		t.Errorf("AmountOut = %d, must stay below reserveOut %d", res.AmountOut, reserveOut)
	}
}

func TestSwapOutputMonotonic(t *testing.T) {
	// Larger input never produces less output.
	var prev uint64
	for in := uint64(1_000); in <= 100_000_000; in *= 10 {
		res, err := SwapOutput(in, 1_000_000_000, 1_000_000_000, 30)
		if err != nil {
			t.Fatalf("SwapOutput(%d) error = %v", in, err)
		}
		if res.AmountOut < prev {
			t.Errorf("AmountOut decreased: in=%d out=%d prev=%d", in, res.AmountOut, prev)
		}
		prev = res.AmountOut
	}
}

func TestSwapOutputPriceImpactGrows(t *testing.T) {
	small, err := SwapOutput(1_000_000, 1_000_000_000, 1_000_000_000, 30)
	if err != nil {
		t.Fatalf("small swap error = %v", err)
	}
	large, err := SwapOutput(100_000_000, 1_000_000_000, 1_000_000_000, 30)
	if err != nil {
		t.Fatalf("large swap error = %v", err)
	}
	if large.PriceImpactBps <= small.PriceImpactBps {
		t.Errorf("price impact should grow with size: small=%d large=%d",
			small.PriceImpactBps, large.PriceImpactBps)
	}
}

func TestMulDivOverflow(t *testing.T) {
	_, err := mulDiv(math.MaxUint64, math.MaxUint64, 2)
	if !errors.Is(err, ErrMathOverflow) {
		t.Errorf("mulDiv overflow error = %v, want ErrMathOverflow", err)
	}

	// Large values that fit after division must not error.
	got, err := mulDiv(math.MaxUint64, 3, 4)
	if err != nil {
		t.Fatalf("mulDiv() error = %v", err)
	}
	want := uint64(math.MaxUint64 / 4 * 3)
	// Allow floor-division rounding.
	if got < want || got > want+3 {
		t.Errorf("mulDiv() = %d, want about %d", got, want)
	}
}

func TestMinOutputForSlippage(t *testing.T) {
	tests := []struct {
		amountOut   uint64
		slippageBps uint16
		want        uint64
	}{
		{10_000, 100, 9_900},  // 1%
		{10_000, 0, 10_000},   // no tolerance
		{10_000, 1000, 9_000}, // 10%
		{1, 100, 1},           // floor rounding keeps the full amount
	}

	for _, tt := range tests {
		got := MinOutputForSlippage(tt.amountOut, tt.slippageBps)
		if got != tt.want {
			t.Errorf("MinOutputForSlippage(%d, %d) = %d, want %d",
				tt.amountOut, tt.slippageBps, got, tt.want)
		}
	}
}
