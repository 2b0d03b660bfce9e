package memory

import (
	"context"
	"sync"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TimelineStore is an in-memory implementation of storage.TimelineStore.
type TimelineStore struct {
	mu   sync.RWMutex
	data map[string][]domain.ScheduledEvent // keyed by token_id, ordered by seq
}

// NewTimelineStore creates a new in-memory timeline store.
func NewTimelineStore() *TimelineStore {
	return &TimelineStore{
		data: make(map[string][]domain.ScheduledEvent),
	}
}

// Save stores the full timeline of a token once. An empty timeline is valid.
func (s *TimelineStore) Save(_ context.Context, tokenID string, timeline []domain.ScheduledEvent) error {
	if tokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[tokenID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[tokenID] = cloneTimeline(timeline)
	return nil
}

// GetByTokenID retrieves a token's timeline. Returns ErrNotFound if none was saved.
func (s *TimelineStore) GetByTokenID(_ context.Context, tokenID string) ([]domain.ScheduledEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timeline, exists := s.data[tokenID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return cloneTimeline(timeline), nil
}

// MarkExecuted flags an entry executed. Already executed entries are left untouched.
func (s *TimelineStore) MarkExecuted(_ context.Context, tokenID string, seq int, executedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timeline, exists := s.data[tokenID]
	if !exists || seq < 0 || seq >= len(timeline) {
		return storage.ErrNotFound
	}
	if timeline[seq].Executed {
		return nil
	}
	timeline[seq].Executed = true
	at := executedAt
	timeline[seq].ExecutedAt = &at
	return nil
}

func cloneTimeline(in []domain.ScheduledEvent) []domain.ScheduledEvent {
	out := make([]domain.ScheduledEvent, len(in))
	for i, e := range in {
		out[i] = e
		if e.ExecutedAt != nil {
			v := *e.ExecutedAt
			out[i].ExecutedAt = &v
		}
	}
	return out
}

var _ storage.TimelineStore = (*TimelineStore)(nil)
