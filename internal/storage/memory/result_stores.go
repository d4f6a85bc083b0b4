package memory

import (
	"context"
	"sync"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

// TradeResultStore is an in-memory implementation of storage.TradeResultStore.
type TradeResultStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.TradeResult // keyed by run_id, insertion order
}

// NewTradeResultStore creates a new in-memory trade result store.
func NewTradeResultStore() *TradeResultStore {
	return &TradeResultStore{
		data: make(map[string][]*domain.TradeResult),
	}
}

// Compile-time interface check.
var _ storage.TradeResultStore = (*TradeResultStore)(nil)

// InsertBulk adds all trade results for a run atomically.
func (s *TradeResultStore) InsertBulk(_ context.Context, runID string, trades []*domain.TradeResult) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	for _, t := range trades {
		if t == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range trades {
		copy := *t
		s.data[runID] = append(s.data[runID], &copy)
	}
	return nil
}

// GetByRun retrieves all trade results for a run, insertion order.
func (s *TradeResultStore) GetByRun(_ context.Context, runID string) ([]*domain.TradeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[runID]
	result := make([]*domain.TradeResult, 0, len(stored))
	for _, t := range stored {
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

// SandwichResultStore is an in-memory implementation of storage.SandwichResultStore.
type SandwichResultStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.SandwichResult
}

// NewSandwichResultStore creates a new in-memory sandwich result store.
func NewSandwichResultStore() *SandwichResultStore {
	return &SandwichResultStore{
		data: make(map[string][]*domain.SandwichResult),
	}
}

// Compile-time interface check.
var _ storage.SandwichResultStore = (*SandwichResultStore)(nil)

// InsertBulk adds all sandwich results for a run atomically.
func (s *SandwichResultStore) InsertBulk(_ context.Context, runID string, results []*domain.SandwichResult) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range results {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range results {
		copy := *r
		s.data[runID] = append(s.data[runID], &copy)
	}
	return nil
}

// GetByRun retrieves all sandwich results for a run, insertion order.
func (s *SandwichResultStore) GetByRun(_ context.Context, runID string) ([]*domain.SandwichResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[runID]
	result := make([]*domain.SandwichResult, 0, len(stored))
	for _, r := range stored {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

// PoolHistoryStore is an in-memory implementation of storage.PoolHistoryStore.
type PoolHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]domain.PoolStateRecord
}

// NewPoolHistoryStore creates a new in-memory pool history store.
func NewPoolHistoryStore() *PoolHistoryStore {
	return &PoolHistoryStore{
		data: make(map[string][]domain.PoolStateRecord),
	}
}

// Compile-time interface check.
var _ storage.PoolHistoryStore = (*PoolHistoryStore)(nil)

// InsertBulk appends pool state records for a run.
func (s *PoolHistoryStore) InsertBulk(_ context.Context, runID string, records []domain.PoolStateRecord) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[runID] = append(s.data[runID], records...)
	return nil
}

// GetByRun retrieves records for a run ordered by transaction id, then scenario.
func (s *PoolHistoryStore) GetByRun(_ context.Context, runID string) ([]domain.PoolStateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[runID]
	result := make([]domain.PoolStateRecord, len(stored))
	copy(result, stored)
	return result, nil
}
