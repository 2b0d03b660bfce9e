package postgres

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// EventRecordStore implements storage.EventRecordStore using PostgreSQL.
type EventRecordStore struct {
	pool *Pool
}

// NewEventRecordStore creates a new EventRecordStore.
func NewEventRecordStore(pool *Pool) *EventRecordStore {
	return &EventRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventRecordStore = (*EventRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *EventRecordStore) Insert(ctx context.Context, r *domain.EventRecord) error {
	query := `
		INSERT INTO event_records (record_id, token_id, event_type, note, impact_percent, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RecordID, r.TokenID, string(r.EventType), r.Note, r.ImpactPercent, r.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert event record: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all records of a token, ordered by timestamp ASC.
func (s *EventRecordStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.EventRecord, error) {
	query := `
		SELECT record_id, token_id, event_type, note, impact_percent, timestamp_ms
		FROM event_records
		WHERE token_id = $1
		ORDER BY timestamp_ms ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query event records: %w", err)
	}
	defer rows.Close()

	var result []*domain.EventRecord
	for rows.Next() {
		var r domain.EventRecord
		var eventType string
		if err := rows.Scan(&r.RecordID, &r.TokenID, &eventType, &r.Note, &r.ImpactPercent, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event record: %w", err)
		}
		r.EventType = domain.EventType(eventType)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event records: %w", err)
	}
	return result, nil
}
