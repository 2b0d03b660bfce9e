package clickhouse

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using ClickHouse.
type TradeRecordStore struct {
	conn *Conn
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(conn *Conn) *TradeRecordStore {
	return &TradeRecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	exists, err := s.exists(ctx, t.TradeID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	return s.append(ctx, t)
}

func (s *TradeRecordStore) append(ctx context.Context, trades ...*domain.TradeRecord) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_records (
			trade_id, token_id, trader_id, archetype, side,
			amount, average_price, total, price_after, progress_after, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		err = batch.Append(
			t.TradeID, t.TokenID, t.TraderID, string(t.Archetype), string(t.Side),
			t.Amount, t.AveragePrice, t.Total, t.PriceAfter, t.ProgressAfter, uint64(t.TimestampMs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all trades of a token, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT trade_id, token_id, trader_id, archetype, side,
			amount, average_price, total, price_after, progress_after, timestamp_ms
		FROM trade_records FINAL
		WHERE token_id = ?
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query by token id: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// GetByTimeRange retrieves trades of a token within [start, end] (inclusive).
func (s *TradeRecordStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.TradeRecord, error) {
	query := `
		SELECT trade_id, token_id, trader_id, archetype, side,
			amount, average_price, total, price_after, progress_after, timestamp_ms
		FROM trade_records FINAL
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// exists checks if a trade with the given id exists.
func (s *TradeRecordStore) exists(ctx context.Context, tradeID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM trade_records WHERE trade_id = ?`, tradeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanTradeRecords(rows chRows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		var t domain.TradeRecord
		var archetype, side string
		var timestampMs uint64

		err := rows.Scan(
			&t.TradeID, &t.TokenID, &t.TraderID, &archetype, &side,
			&t.Amount, &t.AveragePrice, &t.Total, &t.PriceAfter, &t.ProgressAfter, &timestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}

		t.Archetype = domain.Archetype(archetype)
		t.Side = domain.TradeSide(side)
		t.TimestampMs = int64(timestampMs)
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
