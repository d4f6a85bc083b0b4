package storage

import (
	"context"

	"securelp/internal/domain"
)

// CommitmentStore is the authoritative record of pending blinded intents.
// At most one live commitment exists per owner.
type CommitmentStore interface {
	// Put stores a new commitment. Returns ErrDuplicateKey if the owner
	// already has a live commitment.
	Put(ctx context.Context, c *domain.Commitment) error

	// Get retrieves the live commitment for an owner.
	// Returns ErrNotFound if none exists.
	Get(ctx context.Context, owner string) (*domain.Commitment, error)

	// Delete closes the live commitment for an owner.
	// Returns ErrNotFound if none exists.
	Delete(ctx context.Context, owner string) error
}

// RunStore provides access to simulation run metadata.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// List retrieves all runs ordered by started_at ASC.
	List(ctx context.Context) ([]*domain.RunRecord, error)
}

// TradeResultStore provides access to per-scenario trade results.
type TradeResultStore interface {
	// InsertBulk adds all trade results for a run atomically.
	InsertBulk(ctx context.Context, runID string, trades []*domain.TradeResult) error

	// GetByRun retrieves all trade results for a run, insertion order.
	GetByRun(ctx context.Context, runID string) ([]*domain.TradeResult, error)
}

// SandwichResultStore provides access to sandwich attack results.
type SandwichResultStore interface {
	// InsertBulk adds all sandwich results for a run atomically.
	InsertBulk(ctx context.Context, runID string, results []*domain.SandwichResult) error

	// GetByRun retrieves all sandwich results for a run, insertion order.
	GetByRun(ctx context.Context, runID string) ([]*domain.SandwichResult, error)
}

// PoolHistoryStore provides access to the pool reserve timeseries.
type PoolHistoryStore interface {
	// InsertBulk appends pool state records for a run.
	InsertBulk(ctx context.Context, runID string, records []domain.PoolStateRecord) error

	// GetByRun retrieves records for a run ordered by transaction id, then
	// scenario.
	GetByRun(ctx context.Context, runID string) ([]domain.PoolStateRecord, error)
}
