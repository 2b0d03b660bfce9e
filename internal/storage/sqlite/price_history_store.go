package sqlite

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using SQLite.
type PriceHistoryStore struct {
	db *DB
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(db *DB) *PriceHistoryStore {
	return &PriceHistoryStore{db: db}
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// Insert adds a new point. Returns ErrDuplicateKey if (token_id, seq) exists.
func (s *PriceHistoryStore) Insert(ctx context.Context, p *domain.PricePoint) error {
	return insertPricePoint(ctx, s.db.DB, p)
}

func insertPricePoint(ctx context.Context, e execer, p *domain.PricePoint) error {
	_, err := e.ExecContext(ctx, `INSERT INTO price_history (
			token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.TokenID, p.Seq, p.TimestampMs, p.Price, p.Volume, p.MarketCap, p.CirculatingSupply, string(p.Side),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert price point: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all points of a token, ordered by seq ASC.
func (s *PriceHistoryStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.PricePoint, error) {
	return s.query(ctx, `SELECT * FROM price_history WHERE token_id = ? ORDER BY seq ASC`, tokenID)
}

// GetByTimeRange retrieves points of a token within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.PricePoint, error) {
	return s.query(ctx, `SELECT * FROM price_history
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY seq ASC`, tokenID, start, end)
}

func (s *PriceHistoryStore) query(ctx context.Context, query string, args ...interface{}) ([]*domain.PricePoint, error) {
	var rows []pricePointRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}

	result := make([]*domain.PricePoint, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}
