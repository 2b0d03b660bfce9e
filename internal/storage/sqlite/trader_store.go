package sqlite

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TraderStore implements storage.TraderStore using SQLite.
type TraderStore struct {
	db *DB
}

// NewTraderStore creates a new TraderStore.
func NewTraderStore(db *DB) *TraderStore {
	return &TraderStore{db: db}
}

var _ storage.TraderStore = (*TraderStore)(nil)

const insertTraderQuery = `INSERT INTO traders (
		trader_id, token_id, archetype, handle, wallet_address,
		holdings, total_bought, total_sold, balance, target_profit_percent,
		trade_count, is_active, created_at, last_trade_at
	) VALUES (
		:trader_id, :token_id, :archetype, :handle, :wallet_address,
		:holdings, :total_bought, :total_sold, :balance, :target_profit_percent,
		:trade_count, :is_active, :created_at, :last_trade_at
	)`

// InsertBulk adds multiple traders atomically. Fails entire batch on any duplicate.
func (s *TraderStore) InsertBulk(ctx context.Context, traders []*domain.Trader) error {
	if len(traders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range traders {
		if _, err := tx.NamedExecContext(ctx, insertTraderQuery, toTraderRow(t)); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trader in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing trader. Returns ErrNotFound if not exists.
func (s *TraderStore) Update(ctx context.Context, t *domain.Trader) error {
	return updateTrader(ctx, s.db.DB, t)
}

func updateTrader(ctx context.Context, e execer, t *domain.Trader) error {
	query := `UPDATE traders SET
			holdings = :holdings, total_bought = :total_bought, total_sold = :total_sold,
			balance = :balance, trade_count = :trade_count, is_active = :is_active,
			last_trade_at = :last_trade_at
		WHERE trader_id = :trader_id`

	res, err := e.NamedExecContext(ctx, query, toTraderRow(t))
	if err != nil {
		return fmt.Errorf("update trader: %w", err)
	}
	return requireAffected(res)
}

// GetByTokenID retrieves all traders of a token, ordered by created_at, trader_id ASC.
func (s *TraderStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.Trader, error) {
	return s.query(ctx, `SELECT * FROM traders WHERE token_id = ? ORDER BY created_at ASC, trader_id ASC`, tokenID)
}

// GetActiveByTokenID retrieves active traders of a token, same ordering.
func (s *TraderStore) GetActiveByTokenID(ctx context.Context, tokenID string) ([]*domain.Trader, error) {
	return s.query(ctx, `SELECT * FROM traders WHERE token_id = ? AND is_active = 1 ORDER BY created_at ASC, trader_id ASC`, tokenID)
}

// DeactivateByTokenID marks every trader of a token inactive. Returns the number changed.
func (s *TraderStore) DeactivateByTokenID(ctx context.Context, tokenID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE traders SET is_active = 0 WHERE token_id = ? AND is_active = 1`, tokenID)
	if err != nil {
		return 0, fmt.Errorf("deactivate traders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (s *TraderStore) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Trader, error) {
	var rows []traderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query traders: %w", err)
	}

	result := make([]*domain.Trader, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}
