package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TraderStore implements storage.TraderStore using PostgreSQL.
type TraderStore struct {
	pool *Pool
}

// NewTraderStore creates a new TraderStore.
func NewTraderStore(pool *Pool) *TraderStore {
	return &TraderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TraderStore = (*TraderStore)(nil)

const traderColumns = `
	trader_id, token_id, archetype, handle, wallet_address,
	holdings, total_bought, total_sold, balance, target_profit_percent,
	trade_count, is_active, created_at, last_trade_at
`

// InsertBulk adds multiple traders atomically. Fails entire batch on any duplicate.
func (s *TraderStore) InsertBulk(ctx context.Context, traders []*domain.Trader) error {
	if len(traders) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO traders (` + traderColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14
		)
	`

	for _, t := range traders {
		_, err := tx.Exec(ctx, query,
			t.TraderID, t.TokenID, string(t.Archetype), t.Handle, t.WalletAddress,
			t.Holdings, t.TotalBought, t.TotalSold, t.Balance, t.TargetProfitPercent,
			t.TradeCount, t.IsActive, t.CreatedAt, t.LastTradeAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trader in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of an existing trader. Returns ErrNotFound if not exists.
func (s *TraderStore) Update(ctx context.Context, t *domain.Trader) error {
	return updateTrader(ctx, s.pool, t)
}

func updateTrader(ctx context.Context, q querier, t *domain.Trader) error {
	query := `
		UPDATE traders SET
			holdings = $2, total_bought = $3, total_sold = $4, balance = $5,
			trade_count = $6, is_active = $7, last_trade_at = $8
		WHERE trader_id = $1
	`

	tag, err := q.Exec(ctx, query,
		t.TraderID,
		t.Holdings, t.TotalBought, t.TotalSold, t.Balance,
		t.TradeCount, t.IsActive, t.LastTradeAt,
	)
	if err != nil {
		return fmt.Errorf("update trader: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByTokenID retrieves all traders of a token, ordered by created_at, trader_id ASC.
func (s *TraderStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.Trader, error) {
	query := `SELECT ` + traderColumns + ` FROM traders WHERE token_id = $1 ORDER BY created_at ASC, trader_id ASC`
	return s.query(ctx, query, tokenID)
}

// GetActiveByTokenID retrieves active traders of a token, same ordering.
func (s *TraderStore) GetActiveByTokenID(ctx context.Context, tokenID string) ([]*domain.Trader, error) {
	query := `SELECT ` + traderColumns + ` FROM traders WHERE token_id = $1 AND is_active ORDER BY created_at ASC, trader_id ASC`
	return s.query(ctx, query, tokenID)
}

// DeactivateByTokenID marks every trader of a token inactive. Returns the number changed.
func (s *TraderStore) DeactivateByTokenID(ctx context.Context, tokenID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE traders SET is_active = FALSE WHERE token_id = $1 AND is_active`, tokenID)
	if err != nil {
		return 0, fmt.Errorf("deactivate traders: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *TraderStore) query(ctx context.Context, query string, args ...any) ([]*domain.Trader, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query traders: %w", err)
	}
	defer rows.Close()

	return scanTraders(rows)
}

func scanTraders(rows pgx.Rows) ([]*domain.Trader, error) {
	var result []*domain.Trader
	for rows.Next() {
		var t domain.Trader
		var archetype string
		err := rows.Scan(
			&t.TraderID, &t.TokenID, &archetype, &t.Handle, &t.WalletAddress,
			&t.Holdings, &t.TotalBought, &t.TotalSold, &t.Balance, &t.TargetProfitPercent,
			&t.TradeCount, &t.IsActive, &t.CreatedAt, &t.LastTradeAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trader: %w", err)
		}
		t.Archetype = domain.Archetype(archetype)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traders: %w", err)
	}
	return result, nil
}
