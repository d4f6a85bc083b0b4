package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
// Config and summary are stored as JSONB; lamport fields inside them use
// the decimal-string encoding from domain.Lamports.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	configJSON, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("marshal run config: %w", err)
	}
	summaryJSON, err := json.Marshal(r.Summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	query := `
		INSERT INTO simulation_runs (run_id, started_at, config, summary)
		VALUES ($1, $2, $3, $4)
	`

	_, err = s.pool.Exec(ctx, query, r.RunID, r.StartedAt, configJSON, summaryJSON)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `
		SELECT run_id, started_at, config, summary
		FROM simulation_runs
		WHERE run_id = $1
	`

	r, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// List retrieves all runs ordered by started_at ASC.
func (s *RunStore) List(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `
		SELECT run_id, started_at, config, summary
		FROM simulation_runs
		ORDER BY started_at ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var result []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// scanRun scans one simulation_runs row.
func scanRun(row pgx.Row) (*domain.RunRecord, error) {
	var (
		r           domain.RunRecord
		configJSON  []byte
		summaryJSON []byte
	)
	if err := row.Scan(&r.RunID, &r.StartedAt, &configJSON, &summaryJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &r.Config); err != nil {
		return nil, fmt.Errorf("unmarshal run config: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &r.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal run summary: %w", err)
	}
	return &r, nil
}
