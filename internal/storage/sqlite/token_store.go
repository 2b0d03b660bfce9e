package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TokenStore implements storage.TokenStore using SQLite.
type TokenStore struct {
	db *DB
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(db *DB) *TokenStore {
	return &TokenStore{db: db}
}

var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if token_id exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	query := `INSERT INTO tokens (
			token_id, name, symbol, mint_address,
			total_supply, circulating_supply, current_price, market_cap,
			curve_k, initial_investment, destiny, status,
			flag_sniper_attack, flag_whale_buy, flag_rug_pull,
			flag_panic_sell, flag_fomo_buy, flag_viral_moment,
			transaction_count, created_at, last_trade_at, terminated_at, terminal_reason
		) VALUES (
			:token_id, :name, :symbol, :mint_address,
			:total_supply, :circulating_supply, :current_price, :market_cap,
			:curve_k, :initial_investment, :destiny, :status,
			:flag_sniper_attack, :flag_whale_buy, :flag_rug_pull,
			:flag_panic_sell, :flag_fomo_buy, :flag_viral_moment,
			:transaction_count, :created_at, :last_trade_at, :terminated_at, :terminal_reason
		)`

	if _, err := s.db.NamedExecContext(ctx, query, toTokenRow(t)); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing token. Returns ErrNotFound if not exists.
func (s *TokenStore) Update(ctx context.Context, t *domain.Token) error {
	return updateToken(ctx, s.db.DB, t)
}

func updateToken(ctx context.Context, e execer, t *domain.Token) error {
	query := `UPDATE tokens SET
			circulating_supply = :circulating_supply, current_price = :current_price, market_cap = :market_cap,
			destiny = :destiny, status = :status,
			flag_sniper_attack = :flag_sniper_attack, flag_whale_buy = :flag_whale_buy, flag_rug_pull = :flag_rug_pull,
			flag_panic_sell = :flag_panic_sell, flag_fomo_buy = :flag_fomo_buy, flag_viral_moment = :flag_viral_moment,
			transaction_count = :transaction_count, last_trade_at = :last_trade_at,
			terminated_at = :terminated_at, terminal_reason = :terminal_reason
		WHERE token_id = :token_id`

	res, err := e.NamedExecContext(ctx, query, toTokenRow(t))
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return requireAffected(res)
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(ctx context.Context, tokenID string) (*domain.Token, error) {
	var row tokenRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM tokens WHERE token_id = ?`, tokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by id: %w", err)
	}
	return row.toDomain(), nil
}

// GetByStatus retrieves all tokens with a given status, ordered by created_at ASC.
func (s *TokenStore) GetByStatus(ctx context.Context, status domain.TokenStatus) ([]*domain.Token, error) {
	var rows []tokenRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM tokens WHERE status = ? ORDER BY created_at ASC, token_id ASC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("query tokens by status: %w", err)
	}

	result := make([]*domain.Token, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
