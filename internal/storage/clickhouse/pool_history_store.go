package clickhouse

import (
	"context"
	"fmt"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

// PoolHistoryStore implements storage.PoolHistoryStore using ClickHouse.
// Pool history is a pure timeseries: append-heavy, read back ordered.
type PoolHistoryStore struct {
	conn *Conn
}

// NewPoolHistoryStore creates a new PoolHistoryStore.
func NewPoolHistoryStore(conn *Conn) *PoolHistoryStore {
	return &PoolHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PoolHistoryStore = (*PoolHistoryStore)(nil)

// InsertBulk appends pool state records for a run.
func (s *PoolHistoryStore) InsertBulk(ctx context.Context, runID string, records []domain.PoolStateRecord) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pool_history (
			run_id, transaction_id, reserve_a, reserve_b, price_a_in_b, scenario
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			runID, r.TransactionID, uint64(r.ReserveA), uint64(r.ReserveB),
			r.PriceAInB, r.Scenario,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRun retrieves records for a run ordered by transaction id, then scenario.
func (s *PoolHistoryStore) GetByRun(ctx context.Context, runID string) ([]domain.PoolStateRecord, error) {
	query := `
		SELECT transaction_id, reserve_a, reserve_b, price_a_in_b, scenario
		FROM pool_history
		WHERE run_id = ?
		ORDER BY transaction_id ASC, scenario ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query pool history: %w", err)
	}
	defer rows.Close()

	var result []domain.PoolStateRecord
	for rows.Next() {
		var (
			r                  domain.PoolStateRecord
			reserveA, reserveB uint64
		)
		if err := rows.Scan(&r.TransactionID, &reserveA, &reserveB, &r.PriceAInB, &r.Scenario); err != nil {
			return nil, fmt.Errorf("scan pool history row: %w", err)
		}
		r.ReserveA = domain.Lamports(reserveA)
		r.ReserveB = domain.Lamports(reserveB)
		result = append(result, r)
	}
	return result, rows.Err()
}
