package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `
	token_id, name, symbol, mint_address,
	total_supply, circulating_supply, current_price, market_cap,
	curve_k, initial_investment, destiny, status,
	flag_sniper_attack, flag_whale_buy, flag_rug_pull,
	flag_panic_sell, flag_fomo_buy, flag_viral_moment,
	transaction_count, created_at, last_trade_at, terminated_at, terminal_reason
`

// Insert adds a new token. Returns ErrDuplicateKey if token_id exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO tokens (` + tokenColumns + `) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20, $21, $22, $23
		)
	`

	_, err := s.pool.Exec(ctx, query,
		t.TokenID, t.Name, t.Symbol, t.MintAddress,
		t.TotalSupply, t.CirculatingSupply, t.CurrentPrice, t.MarketCap,
		t.CurveK, t.InitialInvestment, string(t.Destiny), string(t.Status),
		t.Flags.SniperAttack, t.Flags.WhaleBuy, t.Flags.RugPull,
		t.Flags.PanicSell, t.Flags.FomoBuy, t.Flags.ViralMoment,
		t.TransactionCount, t.CreatedAt, t.LastTradeAt, t.TerminatedAt, t.TerminalReason,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing token. Returns ErrNotFound if not exists.
func (s *TokenStore) Update(ctx context.Context, t *domain.Token) error {
	return updateToken(ctx, s.pool, t)
}

func updateToken(ctx context.Context, q querier, t *domain.Token) error {
	query := `
		UPDATE tokens SET
			circulating_supply = $2, current_price = $3, market_cap = $4,
			destiny = $5, status = $6,
			flag_sniper_attack = $7, flag_whale_buy = $8, flag_rug_pull = $9,
			flag_panic_sell = $10, flag_fomo_buy = $11, flag_viral_moment = $12,
			transaction_count = $13, last_trade_at = $14, terminated_at = $15, terminal_reason = $16
		WHERE token_id = $1
	`

	tag, err := q.Exec(ctx, query,
		t.TokenID,
		t.CirculatingSupply, t.CurrentPrice, t.MarketCap,
		string(t.Destiny), string(t.Status),
		t.Flags.SniperAttack, t.Flags.WhaleBuy, t.Flags.RugPull,
		t.Flags.PanicSell, t.Flags.FomoBuy, t.Flags.ViralMoment,
		t.TransactionCount, t.LastTradeAt, t.TerminatedAt, t.TerminalReason,
	)
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(ctx context.Context, tokenID string) (*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE token_id = $1`

	row := s.pool.QueryRow(ctx, query, tokenID)
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by id: %w", err)
	}
	return t, nil
}

// GetByStatus retrieves all tokens with a given status, ordered by created_at ASC.
func (s *TokenStore) GetByStatus(ctx context.Context, status domain.TokenStatus) ([]*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE status = $1 ORDER BY created_at ASC, token_id ASC`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query tokens by status: %w", err)
	}
	defer rows.Close()

	var result []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return result, nil
}

func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token
	var destiny, status string

	err := row.Scan(
		&t.TokenID, &t.Name, &t.Symbol, &t.MintAddress,
		&t.TotalSupply, &t.CirculatingSupply, &t.CurrentPrice, &t.MarketCap,
		&t.CurveK, &t.InitialInvestment, &destiny, &status,
		&t.Flags.SniperAttack, &t.Flags.WhaleBuy, &t.Flags.RugPull,
		&t.Flags.PanicSell, &t.Flags.FomoBuy, &t.Flags.ViralMoment,
		&t.TransactionCount, &t.CreatedAt, &t.LastTradeAt, &t.TerminatedAt, &t.TerminalReason,
	)
	if err != nil {
		return nil, err
	}

	t.Destiny = domain.Destiny(destiny)
	t.Status = domain.TokenStatus(status)
	return &t, nil
}
