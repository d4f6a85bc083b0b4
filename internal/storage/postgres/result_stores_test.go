package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

func TestTradeResultStore_InsertBulkAndGetByRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeResultStore(pool)
	ctx := context.Background()

	normal := []*domain.TradeResult{
		{
			Signature:    "sim_swap_1",
			Trader:       "Trader111",
			AmountIn:     1_000_000_000,
			AToB:         true,
			ExpectedOut:  996_000_000,
			ActualOut:    980_000_000,
			SlippageLoss: 16_000_000,
			WasAttacked:  true,
			FeePaid:      3_000_000,
			Timestamp:    1700000001,
		},
		{
			Signature:   "sim_swap_2",
			Trader:      "Trader222",
			AmountIn:    2_000_000_000,
			ExpectedOut: 1_990_000_000,
			ActualOut:   1_990_000_000,
			FeePaid:     6_000_000,
			Timestamp:   1700000002,
		},
	}
	protected := []*domain.TradeResult{
		{
			Signature:     "sim_protected_1",
			Trader:        "Trader111",
			AmountIn:      1_000_000_000,
			AToB:          true,
			ExpectedOut:   996_000_000,
			ActualOut:     996_000_000,
			FeePaid:       3_000_000,
			Protected:     true,
			CommitmentHex: "ab12cd34",
			DelayWaited:   1,
			Timestamp:     1700000003,
		},
	}

	require.NoError(t, store.InsertBulk(ctx, "run-001", normal))
	require.NoError(t, store.InsertBulk(ctx, "run-001", protected))

	retrieved, err := store.GetByRun(ctx, "run-001")
	require.NoError(t, err)
	require.Len(t, retrieved, 3)

	// Normal trades first, then protected, each in sequence order.
	assert.Equal(t, "sim_swap_1", retrieved[0].Signature)
	assert.Equal(t, "sim_swap_2", retrieved[1].Signature)
	assert.Equal(t, "sim_protected_1", retrieved[2].Signature)

	assert.Equal(t, *normal[0], *retrieved[0])
	assert.Equal(t, *protected[0], *retrieved[2])
}

func TestTradeResultStore_GetByRunEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeResultStore(pool)

	retrieved, err := store.GetByRun(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, retrieved)
}

func TestTradeResultStore_InsertBulkInvalid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeResultStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.InsertBulk(ctx, "", []*domain.TradeResult{{}}), storage.ErrInvalidInput)

	// A nil entry aborts the whole batch.
	err := store.InsertBulk(ctx, "run-001", []*domain.TradeResult{
		{Signature: "sim_swap_1", Trader: "t", Timestamp: 1},
		nil,
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	retrieved, err := store.GetByRun(ctx, "run-001")
	require.NoError(t, err)
	assert.Empty(t, retrieved, "failed batch must not leave partial rows")
}

func TestTradeResultStore_InsertBulkEmptySlice(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeResultStore(pool)
	assert.NoError(t, store.InsertBulk(context.Background(), "run-001", nil))
}

func TestSandwichResultStore_InsertBulkAndGetByRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichResultStore(pool)
	ctx := context.Background()

	results := []*domain.SandwichResult{
		{
			FrontRunSig:      "sim_frontrun_1",
			VictimSig:        "sim_victim_1",
			BackRunSig:       "sim_backrun_1",
			ProfitLamports:   5_000_000,
			VictimLoss:       12_000_000,
			FrontRunAmount:   500_000_000,
			FrontRunReceived: 497_000_000,
			BackRunAmount:    497_000_000,
			BackRunReceived:  505_000_000,
			Success:          true,
			Timestamp:        1700000001,
		},
		{
			FrontRunSig:    "sim_frontrun_2",
			ProfitLamports: -2_000_000,
			FrontRunAmount: 300_000_000,
			Timestamp:      1700000002,
		},
	}

	require.NoError(t, store.InsertBulk(ctx, "run-001", results))

	retrieved, err := store.GetByRun(ctx, "run-001")
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	assert.Equal(t, *results[0], *retrieved[0])
	assert.Equal(t, *results[1], *retrieved[1])

	// Negative profit survives the round trip.
	assert.Equal(t, int64(-2_000_000), int64(retrieved[1].ProfitLamports))
}

func TestSandwichResultStore_RunsAreIsolated(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichResultStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run-a", []*domain.SandwichResult{
		{FrontRunSig: "sim_frontrun_1", Success: true, Timestamp: 1},
	}))
	require.NoError(t, store.InsertBulk(ctx, "run-b", []*domain.SandwichResult{
		{FrontRunSig: "sim_frontrun_1", Timestamp: 2},
		{FrontRunSig: "sim_frontrun_2", Timestamp: 3},
	}))

	a, err := store.GetByRun(ctx, "run-a")
	require.NoError(t, err)
	b, err := store.GetByRun(ctx, "run-b")
	require.NoError(t, err)

	assert.Len(t, a, 1)
	assert.Len(t, b, 2)
}
