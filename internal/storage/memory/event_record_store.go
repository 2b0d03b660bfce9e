package memory

import (
	"context"
	"sort"
	"sync"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// EventRecordStore is an in-memory implementation of storage.EventRecordStore.
type EventRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EventRecord // keyed by record_id
}

// NewEventRecordStore creates a new in-memory event record store.
func NewEventRecordStore() *EventRecordStore {
	return &EventRecordStore{
		data: make(map[string]*domain.EventRecord),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *EventRecordStore) Insert(_ context.Context, r *domain.EventRecord) error {
	if r == nil || r.RecordID == "" || r.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RecordID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RecordID] = &copy
	return nil
}

// GetByTokenID retrieves all records of a token, ordered by timestamp ASC.
func (s *EventRecordStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EventRecord
	for _, r := range s.data {
		if r.TokenID == tokenID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].RecordID < result[j].RecordID
	})

	return result, nil
}

var _ storage.EventRecordStore = (*EventRecordStore)(nil)
