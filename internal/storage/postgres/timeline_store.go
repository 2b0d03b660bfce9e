package postgres

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TimelineStore implements storage.TimelineStore using PostgreSQL.
type TimelineStore struct {
	pool *Pool
}

// NewTimelineStore creates a new TimelineStore.
func NewTimelineStore(pool *Pool) *TimelineStore {
	return &TimelineStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TimelineStore = (*TimelineStore)(nil)

// Save stores the full timeline of a token once. Returns ErrDuplicateKey if one exists.
func (s *TimelineStore) Save(ctx context.Context, tokenID string, timeline []domain.ScheduledEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO event_timelines (token_id) VALUES ($1)`, tokenID); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert timeline: %w", err)
	}

	query := `
		INSERT INTO event_timeline_entries (token_id, seq, event_type, trigger_at, executed, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, e := range timeline {
		_, err := tx.Exec(ctx, query, tokenID, e.Seq, string(e.EventType), e.TriggerAt, e.Executed, e.ExecutedAt)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert timeline entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByTokenID retrieves a token's timeline ordered by seq. Returns ErrNotFound if none was saved.
func (s *TimelineStore) GetByTokenID(ctx context.Context, tokenID string) ([]domain.ScheduledEvent, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM event_timelines WHERE token_id = $1)`, tokenID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check timeline: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	query := `
		SELECT token_id, seq, event_type, trigger_at, executed, executed_at
		FROM event_timeline_entries
		WHERE token_id = $1
		ORDER BY seq ASC
	`
	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	result := []domain.ScheduledEvent{}
	for rows.Next() {
		var e domain.ScheduledEvent
		var eventType string
		if err := rows.Scan(&e.TokenID, &e.Seq, &eventType, &e.TriggerAt, &e.Executed, &e.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		e.EventType = domain.EventType(eventType)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline: %w", err)
	}
	return result, nil
}

// MarkExecuted flags an entry executed. Already executed entries are left untouched.
func (s *TimelineStore) MarkExecuted(ctx context.Context, tokenID string, seq int, executedAt int64) error {
	query := `
		UPDATE event_timeline_entries
		SET executed = TRUE, executed_at = COALESCE(executed_at, $3)
		WHERE token_id = $1 AND seq = $2
	`
	tag, err := s.pool.Exec(ctx, query, tokenID, seq, executedAt)
	if err != nil {
		return fmt.Errorf("mark timeline entry executed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
