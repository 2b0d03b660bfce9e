package sqlite

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using SQLite.
type TradeRecordStore struct {
	db *DB
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(db *DB) *TradeRecordStore {
	return &TradeRecordStore{db: db}
}

var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	return insertTradeRecord(ctx, s.db.DB, t)
}

func insertTradeRecord(ctx context.Context, e execer, t *domain.TradeRecord) error {
	_, err := e.ExecContext(ctx, `INSERT INTO trade_records (
			trade_id, token_id, trader_id, archetype, side,
			amount, average_price, total, price_after, progress_after, timestamp_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.TokenID, t.TraderID, string(t.Archetype), string(t.Side),
		t.Amount, t.AveragePrice, t.Total, t.PriceAfter, t.ProgressAfter, t.TimestampMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all trades of a token, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.TradeRecord, error) {
	return s.query(ctx, `SELECT * FROM trade_records WHERE token_id = ? ORDER BY timestamp_ms ASC, trade_id ASC`, tokenID)
}

// GetByTimeRange retrieves trades of a token within [start, end] (inclusive).
func (s *TradeRecordStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.TradeRecord, error) {
	return s.query(ctx, `SELECT * FROM trade_records
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, trade_id ASC`, tokenID, start, end)
}

func (s *TradeRecordStore) query(ctx context.Context, query string, args ...interface{}) ([]*domain.TradeRecord, error) {
	var rows []tradeRecordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query trade records: %w", err)
	}

	result := make([]*domain.TradeRecord, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}
