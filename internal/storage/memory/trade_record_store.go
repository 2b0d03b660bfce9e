package memory

import (
	"context"
	"sort"
	"sync"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TradeRecordStore is an in-memory implementation of storage.TradeRecordStore.
type TradeRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewTradeRecordStore creates a new in-memory trade record store.
func NewTradeRecordStore() *TradeRecordStore {
	return &TradeRecordStore{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(t); err != nil {
		return err
	}
	s.insertLocked(t)
	return nil
}

func (s *TradeRecordStore) checkLocked(t *domain.TradeRecord) error {
	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}
	return nil
}

func (s *TradeRecordStore) insertLocked(t *domain.TradeRecord) {
	copy := *t
	s.data[t.TradeID] = &copy
}

// GetByTokenID retrieves all trades of a token, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.TradeRecord, error) {
	return s.filter(tokenID, func(*domain.TradeRecord) bool { return true }), nil
}

// GetByTimeRange retrieves trades of a token within [start, end] (inclusive).
func (s *TradeRecordStore) GetByTimeRange(_ context.Context, tokenID string, start, end int64) ([]*domain.TradeRecord, error) {
	return s.filter(tokenID, func(t *domain.TradeRecord) bool {
		return t.TimestampMs >= start && t.TimestampMs <= end
	}), nil
}

func (s *TradeRecordStore) filter(tokenID string, keep func(*domain.TradeRecord) bool) []*domain.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.TokenID == tokenID && keep(t) {
			copy := *t
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].TradeID < result[j].TradeID
	})

	return result
}

var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)
