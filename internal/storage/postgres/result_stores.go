package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

// TradeResultStore implements storage.TradeResultStore using PostgreSQL.
type TradeResultStore struct {
	pool *Pool
}

// NewTradeResultStore creates a new TradeResultStore.
func NewTradeResultStore(pool *Pool) *TradeResultStore {
	return &TradeResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeResultStore = (*TradeResultStore)(nil)

// InsertBulk adds all trade results for a run atomically.
func (s *TradeResultStore) InsertBulk(ctx context.Context, runID string, trades []*domain.TradeResult) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(trades) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO trade_results (
				run_id, seq, signature, trader, amount_in, a_to_b,
				expected_out, actual_out, slippage_loss, was_attacked,
				fee_paid, protected, commitment_hex, delay_waited, ts
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10,
				$11, $12, $13, $14, $15
			)
		`
		for i, t := range trades {
			if t == nil {
				return storage.ErrInvalidInput
			}
			_, err := tx.Exec(ctx, query,
				runID, i, t.Signature, t.Trader, int64(t.AmountIn), t.AToB,
				int64(t.ExpectedOut), int64(t.ActualOut), int64(t.SlippageLoss), t.WasAttacked,
				int64(t.FeePaid), t.Protected, t.CommitmentHex, t.DelayWaited, t.Timestamp,
			)
			if err != nil {
				return fmt.Errorf("insert trade result %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetByRun retrieves all trade results for a run, insertion order.
func (s *TradeResultStore) GetByRun(ctx context.Context, runID string) ([]*domain.TradeResult, error) {
	query := `
		SELECT signature, trader, amount_in, a_to_b,
		       expected_out, actual_out, slippage_loss, was_attacked,
		       fee_paid, protected, commitment_hex, delay_waited, ts
		FROM trade_results
		WHERE run_id = $1
		ORDER BY protected ASC, seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query trade results: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeResult
	for rows.Next() {
		var (
			t                                              domain.TradeResult
			amountIn, expectedOut, actualOut, loss, feePaid int64
		)
		err := rows.Scan(
			&t.Signature, &t.Trader, &amountIn, &t.AToB,
			&expectedOut, &actualOut, &loss, &t.WasAttacked,
			&feePaid, &t.Protected, &t.CommitmentHex, &t.DelayWaited, &t.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade result: %w", err)
		}
		t.AmountIn = domain.Lamports(amountIn)
		t.ExpectedOut = domain.Lamports(expectedOut)
		t.ActualOut = domain.Lamports(actualOut)
		t.SlippageLoss = domain.Lamports(loss)
		t.FeePaid = domain.Lamports(feePaid)
		result = append(result, &t)
	}
	return result, rows.Err()
}

// SandwichResultStore implements storage.SandwichResultStore using PostgreSQL.
type SandwichResultStore struct {
	pool *Pool
}

// NewSandwichResultStore creates a new SandwichResultStore.
func NewSandwichResultStore(pool *Pool) *SandwichResultStore {
	return &SandwichResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SandwichResultStore = (*SandwichResultStore)(nil)

// InsertBulk adds all sandwich results for a run atomically.
func (s *SandwichResultStore) InsertBulk(ctx context.Context, runID string, results []*domain.SandwichResult) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(results) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO sandwich_results (
				run_id, seq, frontrun_sig, victim_sig, backrun_sig,
				profit_lamports, victim_loss, frontrun_amount, frontrun_received,
				backrun_amount, backrun_received, success, ts
			) VALUES (
				$1, $2, $3, $4, $5,
				$6, $7, $8, $9,
				$10, $11, $12, $13
			)
		`
		for i, r := range results {
			if r == nil {
				return storage.ErrInvalidInput
			}
			_, err := tx.Exec(ctx, query,
				runID, i, r.FrontRunSig, r.VictimSig, r.BackRunSig,
				int64(r.ProfitLamports), int64(r.VictimLoss), int64(r.FrontRunAmount), int64(r.FrontRunReceived),
				int64(r.BackRunAmount), int64(r.BackRunReceived), r.Success, r.Timestamp,
			)
			if err != nil {
				return fmt.Errorf("insert sandwich result %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetByRun retrieves all sandwich results for a run, insertion order.
func (s *SandwichResultStore) GetByRun(ctx context.Context, runID string) ([]*domain.SandwichResult, error) {
	query := `
		SELECT frontrun_sig, victim_sig, backrun_sig,
		       profit_lamports, victim_loss, frontrun_amount, frontrun_received,
		       backrun_amount, backrun_received, success, ts
		FROM sandwich_results
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query sandwich results: %w", err)
	}
	defer rows.Close()

	var result []*domain.SandwichResult
	for rows.Next() {
		var (
			r                                      domain.SandwichResult
			profit                                 int64
			loss, frAmt, frRecv, brAmt, brRecv int64
		)
		err := rows.Scan(
			&r.FrontRunSig, &r.VictimSig, &r.BackRunSig,
			&profit, &loss, &frAmt, &frRecv,
			&brAmt, &brRecv, &r.Success, &r.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sandwich result: %w", err)
		}
		r.ProfitLamports = domain.SignedLamports(profit)
		r.VictimLoss = domain.Lamports(loss)
		r.FrontRunAmount = domain.Lamports(frAmt)
		r.FrontRunReceived = domain.Lamports(frRecv)
		r.BackRunAmount = domain.Lamports(brAmt)
		r.BackRunReceived = domain.Lamports(brRecv)
		result = append(result, &r)
	}
	return result, rows.Err()
}
