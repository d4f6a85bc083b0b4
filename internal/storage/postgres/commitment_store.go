package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

// CommitmentStore implements storage.CommitmentStore using PostgreSQL.
// The primary key on owner enforces the one-live-commitment invariant
// at the database level.
type CommitmentStore struct {
	pool *Pool
}

// NewCommitmentStore creates a new CommitmentStore.
func NewCommitmentStore(pool *Pool) *CommitmentStore {
	return &CommitmentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CommitmentStore = (*CommitmentStore)(nil)

// Put stores a new commitment. Returns ErrDuplicateKey if the owner
// already has a live commitment.
func (s *CommitmentStore) Put(ctx context.Context, c *domain.Commitment) error {
	if c == nil || c.Owner == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO commitments (owner, hash, created_at, amount, kind)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		c.Owner, c.Hash[:], c.CreatedAt, int64(c.Amount), string(c.Kind),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert commitment: %w", err)
	}
	return nil
}

// Get retrieves the live commitment for an owner.
func (s *CommitmentStore) Get(ctx context.Context, owner string) (*domain.Commitment, error) {
	query := `
		SELECT owner, hash, created_at, amount, kind
		FROM commitments
		WHERE owner = $1
	`

	var (
		c      domain.Commitment
		hash   []byte
		amount int64
		kind   string
	)
	err := s.pool.QueryRow(ctx, query, owner).Scan(
		&c.Owner, &hash, &c.CreatedAt, &amount, &kind,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get commitment: %w", err)
	}

	copy(c.Hash[:], hash)
	c.Amount = uint64(amount)
	c.Kind = domain.IntentKind(kind)
	return &c, nil
}

// Delete closes the live commitment for an owner.
func (s *CommitmentStore) Delete(ctx context.Context, owner string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM commitments WHERE owner = $1`, owner)
	if err != nil {
		return fmt.Errorf("delete commitment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
