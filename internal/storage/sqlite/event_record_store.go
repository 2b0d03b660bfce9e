package sqlite

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// EventRecordStore implements storage.EventRecordStore using SQLite.
type EventRecordStore struct {
	db *DB
}

// NewEventRecordStore creates a new EventRecordStore.
func NewEventRecordStore(db *DB) *EventRecordStore {
	return &EventRecordStore{db: db}
}

var _ storage.EventRecordStore = (*EventRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *EventRecordStore) Insert(ctx context.Context, r *domain.EventRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO event_records (
			record_id, token_id, event_type, note, impact_percent, timestamp_ms
		) VALUES (?, ?, ?, ?, ?, ?)`,
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
	var rows []eventRecordRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM event_records WHERE token_id = ? ORDER BY timestamp_ms ASC, record_id ASC`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query event records: %w", err)
	}

	result := make([]*domain.EventRecord, 0, len(rows))
	for _, r := range rows {
		result = append(result, &domain.EventRecord{
			RecordID:      r.RecordID,
			TokenID:       r.TokenID,
			EventType:     domain.EventType(r.EventType),
			Note:          r.Note,
			ImpactPercent: r.ImpactPercent,
			Timestamp:     r.TimestampMs,
		})
	}
	return result, nil
}
