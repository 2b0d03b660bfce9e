package memory

import (
	"context"
	"sort"
	"sync"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token // keyed by token_id
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.Token),
	}
}

// Insert adds a new token. Returns ErrDuplicateKey if token_id exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || t.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TokenID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[t.TokenID] = t.Clone()
	return nil
}

// Update replaces the mutable fields of an existing token. Returns ErrNotFound if not exists.
func (s *TokenStore) Update(_ context.Context, t *domain.Token) error {
	if t == nil || t.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(t)
}

func (s *TokenStore) updateLocked(t *domain.Token) error {
	if _, exists := s.data[t.TokenID]; !exists {
		return storage.ErrNotFound
	}
	s.data[t.TokenID] = t.Clone()
	return nil
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(_ context.Context, tokenID string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tokenID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return t.Clone(), nil
}

// GetByStatus retrieves all tokens with a given status, ordered by created_at ASC.
func (s *TokenStore) GetByStatus(_ context.Context, status domain.TokenStatus) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Token
	for _, t := range s.data {
		if t.Status == status {
			result = append(result, t.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].TokenID < result[j].TokenID
	})

	return result, nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
