package memory

import (
	"context"
	"sync"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

// CommitmentStore is an in-memory implementation of storage.CommitmentStore.
type CommitmentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Commitment // keyed by owner
}

// NewCommitmentStore creates a new in-memory commitment store.
func NewCommitmentStore() *CommitmentStore {
	return &CommitmentStore{
		data: make(map[string]*domain.Commitment),
	}
}

// Compile-time interface check.
var _ storage.CommitmentStore = (*CommitmentStore)(nil)

// Put stores a new commitment. Returns ErrDuplicateKey if the owner
// already has a live commitment.
func (s *CommitmentStore) Put(_ context.Context, c *domain.Commitment) error {
	if c == nil || c.Owner == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.Owner]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *c
	s.data[c.Owner] = &copy
	return nil
}

// Get retrieves the live commitment for an owner.
func (s *CommitmentStore) Get(_ context.Context, owner string) (*domain.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[owner]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *c
	return &copy, nil
}

// Delete closes the live commitment for an owner.
func (s *CommitmentStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[owner]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, owner)
	return nil
}
