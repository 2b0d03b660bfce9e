package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using PostgreSQL.
type PriceHistoryStore struct {
	pool *Pool
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(pool *Pool) *PriceHistoryStore {
	return &PriceHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// Insert adds a new point. Returns ErrDuplicateKey if (token_id, seq) exists.
func (s *PriceHistoryStore) Insert(ctx context.Context, p *domain.PricePoint) error {
	return insertPricePoint(ctx, s.pool, p)
}

func insertPricePoint(ctx context.Context, q querier, p *domain.PricePoint) error {
	query := `
		INSERT INTO price_history (
			token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
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
	query := `
		SELECT token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		FROM price_history
		WHERE token_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetByTimeRange retrieves points of a token within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.PricePoint, error) {
	query := `
		SELECT token_id, seq, timestamp_ms, price, volume, market_cap, circulating_supply, side
		FROM price_history
		WHERE token_id = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query price history by time range: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func scanPricePoints(rows pgx.Rows) ([]*domain.PricePoint, error) {
	var result []*domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		var side string
		err := rows.Scan(&p.TokenID, &p.Seq, &p.TimestampMs, &p.Price, &p.Volume, &p.MarketCap, &p.CirculatingSupply, &side)
		if err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.Side = domain.TradeSide(side)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}
	return result, nil
}
