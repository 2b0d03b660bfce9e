package memory

import (
	"context"
	"sort"
	"sync"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

type priceKey struct {
	tokenID string
	seq     int64
}

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[priceKey]*domain.PricePoint
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[priceKey]*domain.PricePoint),
	}
}

// Insert adds a new point. Returns ErrDuplicateKey if (token_id, seq) exists.
func (s *PriceHistoryStore) Insert(_ context.Context, p *domain.PricePoint) error {
	if p == nil || p.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(p); err != nil {
		return err
	}
	s.insertLocked(p)
	return nil
}

func (s *PriceHistoryStore) checkLocked(p *domain.PricePoint) error {
	if _, exists := s.data[priceKey{p.TokenID, p.Seq}]; exists {
		return storage.ErrDuplicateKey
	}
	return nil
}

func (s *PriceHistoryStore) insertLocked(p *domain.PricePoint) {
	copy := *p
	s.data[priceKey{p.TokenID, p.Seq}] = &copy
}

// GetByTokenID retrieves all points of a token, ordered by seq ASC.
func (s *PriceHistoryStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.PricePoint, error) {
	return s.filter(tokenID, func(*domain.PricePoint) bool { return true }), nil
}

// GetByTimeRange retrieves points of a token within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(_ context.Context, tokenID string, start, end int64) ([]*domain.PricePoint, error) {
	return s.filter(tokenID, func(p *domain.PricePoint) bool {
		return p.TimestampMs >= start && p.TimestampMs <= end
	}), nil
}

func (s *PriceHistoryStore) filter(tokenID string, keep func(*domain.PricePoint) bool) []*domain.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for k, p := range s.data {
		if k.tokenID == tokenID && keep(p) {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)
