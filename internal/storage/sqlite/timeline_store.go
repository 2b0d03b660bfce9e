package sqlite

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TimelineStore implements storage.TimelineStore using SQLite.
type TimelineStore struct {
	db *DB
}

// NewTimelineStore creates a new TimelineStore.
func NewTimelineStore(db *DB) *TimelineStore {
	return &TimelineStore{db: db}
}

var _ storage.TimelineStore = (*TimelineStore)(nil)

// Save stores the full timeline of a token once. Returns ErrDuplicateKey if one exists.
func (s *TimelineStore) Save(ctx context.Context, tokenID string, timeline []domain.ScheduledEvent) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO event_timelines (token_id) VALUES (?)`, tokenID); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert timeline: %w", err)
	}

	for _, e := range timeline {
		row := timelineEntryRow{
			TokenID:    tokenID,
			Seq:        e.Seq,
			EventType:  string(e.EventType),
			TriggerAt:  e.TriggerAt,
			Executed:   e.Executed,
			ExecutedAt: e.ExecutedAt,
		}
		_, err := tx.NamedExecContext(ctx, `INSERT INTO event_timeline_entries (
				token_id, seq, event_type, trigger_at, executed, executed_at
			) VALUES (:token_id, :seq, :event_type, :trigger_at, :executed, :executed_at)`, row)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert timeline entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByTokenID retrieves a token's timeline ordered by seq. Returns ErrNotFound if none was saved.
func (s *TimelineStore) GetByTokenID(ctx context.Context, tokenID string) ([]domain.ScheduledEvent, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM event_timelines WHERE token_id = ?`, tokenID); err != nil {
		return nil, fmt.Errorf("check timeline: %w", err)
	}
	if count == 0 {
		return nil, storage.ErrNotFound
	}

	var rows []timelineEntryRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM event_timeline_entries WHERE token_id = ? ORDER BY seq ASC`, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}

	result := make([]domain.ScheduledEvent, 0, len(rows))
	for _, r := range rows {
		result = append(result, domain.ScheduledEvent{
			TokenID:    r.TokenID,
			Seq:        r.Seq,
			EventType:  domain.EventType(r.EventType),
			TriggerAt:  r.TriggerAt,
			Executed:   r.Executed,
			ExecutedAt: r.ExecutedAt,
		})
	}
	return result, nil
}

// MarkExecuted flags an entry executed. Already executed entries are left untouched.
func (s *TimelineStore) MarkExecuted(ctx context.Context, tokenID string, seq int, executedAt int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE event_timeline_entries
		SET executed = 1, executed_at = COALESCE(executed_at, ?)
		WHERE token_id = ? AND seq = ?`, executedAt, tokenID, seq)
	if err != nil {
		return fmt.Errorf("mark timeline entry executed: %w", err)
	}
	return requireAffected(res)
}
