package protocol

import (
	"context"

	"securelp/internal/amm"
	"securelp/internal/domain"
)

// AMMExecutor executes reveals against a constant-product pool.
// Stake intents swap A->B, unstake intents swap B->A.
type AMMExecutor struct {
	pool *amm.Pool
}

// NewAMMExecutor creates an executor over the given pool.
func NewAMMExecutor(pool *amm.Pool) *AMMExecutor {
	return &AMMExecutor{pool: pool}
}

// Compile-time interface check.
var _ Executor = (*AMMExecutor)(nil)

// Pool exposes the underlying pool for read access.
func (e *AMMExecutor) Pool() *amm.Pool {
	return e.pool
}

// Quote prices amountIn without mutating reserves.
func (e *AMMExecutor) Quote(_ context.Context, amountIn uint64, kind domain.IntentKind) (uint64, uint64, error) {
	res, err := e.pool.Quote(amountIn, kind == domain.IntentStake)
	if err != nil {
		return 0, 0, err
	}
	return res.AmountOut, res.Fee, nil
}

// Execute applies the swap to the live reserves.
func (e *AMMExecutor) Execute(_ context.Context, amountIn uint64, kind domain.IntentKind) (uint64, uint64, error) {
	res, err := e.pool.ApplySwap(amountIn, kind == domain.IntentStake)
	if err != nil {
		return 0, 0, err
	}
	return res.AmountOut, res.Fee, nil
}
