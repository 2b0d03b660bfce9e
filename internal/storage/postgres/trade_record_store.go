package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const tradeRecordColumns = `
	trade_id, token_id, trader_id, archetype, side,
	amount, average_price, total, price_after, progress_after, timestamp_ms
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	return insertTradeRecord(ctx, s.pool, t)
}

func insertTradeRecord(ctx context.Context, q querier, t *domain.TradeRecord) error {
	query := `
		INSERT INTO trade_records (` + tradeRecordColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
	`

	_, err := q.Exec(ctx, query,
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
	query := `SELECT ` + tradeRecordColumns + ` FROM trade_records WHERE token_id = $1 ORDER BY timestamp_ms ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query trade records: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// GetByTimeRange retrieves trades of a token within [start, end] (inclusive).
func (s *TradeRecordStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.TradeRecord, error) {
	query := `SELECT ` + tradeRecordColumns + ` FROM trade_records
		WHERE token_id = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, tokenID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query trade records by time range: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

func scanTradeRecords(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var result []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var archetype, side string
		err := rows.Scan(
			&t.TradeID, &t.TokenID, &t.TraderID, &archetype, &side,
			&t.Amount, &t.AveragePrice, &t.Total, &t.PriceAfter, &t.ProgressAfter, &t.TimestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade record: %w", err)
		}
		t.Archetype = domain.Archetype(archetype)
		t.Side = domain.TradeSide(side)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade records: %w", err)
	}
	return result, nil
}
