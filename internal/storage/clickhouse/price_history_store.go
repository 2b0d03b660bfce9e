package clickhouse

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// Insert adds a new point. Returns ErrDuplicateKey if (token_id, seq) exists.
func (s *PriceHistoryStore) Insert(ctx context.Context, p *domain.PricePoint) error {
	exists, err := s.exists(ctx, p.TokenID, p.Seq)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	return s.append(ctx, p)
}

func (s *PriceHistoryStore) append(ctx context.Context, points ...*domain.PricePoint) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.TokenID, p.Seq, uint64(p.TimestampMs),
			p.Price, p.Volume, p.MarketCap, p.CirculatingSupply, string(p.Side),
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

// GetByTokenID retrieves all points of a token, ordered by seq ASC.
func (s *PriceHistoryStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.PricePoint, error) {
	query := `
		SELECT token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		FROM price_history FINAL
		WHERE token_id = ?
		ORDER BY seq ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query by token id: %w", err)
	}
	defer rows.Close()

	return scanPriceHistory(rows)
}

// GetByTimeRange retrieves points of a token within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.PricePoint, error) {
	query := `
		SELECT token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		FROM price_history FINAL
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY seq ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPriceHistory(rows)
}

// exists checks if a point with the given key exists.
func (s *PriceHistoryStore) exists(ctx context.Context, tokenID string, seq int64) (bool, error) {
	query := `
		SELECT count(*) FROM price_history
		WHERE token_id = ? AND seq = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, tokenID, seq).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPriceHistory scans multiple rows.
func scanPriceHistory(rows chRows) ([]*domain.PricePoint, error) {
	var points []*domain.PricePoint

	for rows.Next() {
		var p domain.PricePoint
		var timestampMs uint64
		var side string

		err := rows.Scan(
			&p.TokenID, &p.Seq, &timestampMs,
			&p.Price, &p.Volume, &p.MarketCap, &p.CirculatingSupply, &side,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}

		p.TimestampMs = int64(timestampMs)
		p.Side = domain.TradeSide(side)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}

	return points, nil
}
