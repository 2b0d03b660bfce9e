package memory

import (
	"context"
	"sort"
	"sync"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TraderStore is an in-memory implementation of storage.TraderStore.
type TraderStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trader // keyed by trader_id
}

// NewTraderStore creates a new in-memory trader store.
func NewTraderStore() *TraderStore {
	return &TraderStore{
		data: make(map[string]*domain.Trader),
	}
}

// InsertBulk adds multiple traders atomically. Fails entire batch on any duplicate.
func (s *TraderStore) InsertBulk(_ context.Context, traders []*domain.Trader) error {
	if len(traders) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(traders))

	// First pass: check for duplicates (existing + intra-batch)
	for _, t := range traders {
		if t == nil || t.TraderID == "" || t.TokenID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TraderID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TraderID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TraderID] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range traders {
		s.data[t.TraderID] = t.Clone()
	}

	return nil
}

// Update replaces the mutable fields of an existing trader. Returns ErrNotFound if not exists.
func (s *TraderStore) Update(_ context.Context, t *domain.Trader) error {
	if t == nil || t.TraderID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(t)
}

func (s *TraderStore) updateLocked(t *domain.Trader) error {
	if _, exists := s.data[t.TraderID]; !exists {
		return storage.ErrNotFound
	}
	s.data[t.TraderID] = t.Clone()
	return nil
}

// GetByTokenID retrieves all traders of a token, ordered by created_at, trader_id ASC.
func (s *TraderStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.Trader, error) {
	return s.collect(tokenID, false), nil
}

// GetActiveByTokenID retrieves active traders of a token.
func (s *TraderStore) GetActiveByTokenID(_ context.Context, tokenID string) ([]*domain.Trader, error) {
	return s.collect(tokenID, true), nil
}

// DeactivateByTokenID marks every trader of a token inactive.
func (s *TraderStore) DeactivateByTokenID(_ context.Context, tokenID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.data {
		if t.TokenID == tokenID && t.IsActive {
			t.IsActive = false
			n++
		}
	}
	return n, nil
}

func (s *TraderStore) collect(tokenID string, activeOnly bool) []*domain.Trader {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trader
	for _, t := range s.data {
		if t.TokenID != tokenID || (activeOnly && !t.IsActive) {
			continue
		}
		result = append(result, t.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].TraderID < result[j].TraderID
	})

	return result
}

var _ storage.TraderStore = (*TraderStore)(nil)
