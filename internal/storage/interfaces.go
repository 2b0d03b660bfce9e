package storage

import (
	"context"

	"memelaunch-sim/internal/domain"
)

// TokenStore provides access to tokens storage.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if token_id exists.
	Insert(ctx context.Context, t *domain.Token) error

	// Update replaces the mutable fields of an existing token. Returns ErrNotFound if not exists.
	Update(ctx context.Context, t *domain.Token) error

	// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tokenID string) (*domain.Token, error)

	// GetByStatus retrieves all tokens with a given status, ordered by created_at ASC.
	GetByStatus(ctx context.Context, status domain.TokenStatus) ([]*domain.Token, error)
}

// TraderStore provides access to traders storage.
type TraderStore interface {
	// InsertBulk adds multiple traders atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, traders []*domain.Trader) error

	// Update replaces the mutable fields of an existing trader. Returns ErrNotFound if not exists.
	Update(ctx context.Context, t *domain.Trader) error

	// GetByTokenID retrieves all traders of a token, ordered by created_at, trader_id ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.Trader, error)

	// GetActiveByTokenID retrieves active traders of a token, same ordering.
	GetActiveByTokenID(ctx context.Context, tokenID string) ([]*domain.Trader, error)

	// DeactivateByTokenID marks every trader of a token inactive. Returns the number changed.
	DeactivateByTokenID(ctx context.Context, tokenID string) (int, error)
}

// PriceHistoryStore provides access to price_history storage (append-only).
type PriceHistoryStore interface {
	// Insert adds a new point. Returns ErrDuplicateKey if (token_id, seq) exists.
	Insert(ctx context.Context, p *domain.PricePoint) error

	// GetByTokenID retrieves all points of a token, ordered by seq ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.PricePoint, error)

	// GetByTimeRange retrieves points of a token within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.PricePoint, error)
}

// EventRecordStore provides access to event_records storage (append-only audit).
type EventRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.EventRecord) error

	// GetByTokenID retrieves all records of a token, ordered by timestamp ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.EventRecord, error)
}

// TradeRecordStore provides access to trade_records storage (append-only).
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// GetByTokenID retrieves all trades of a token, ordered by timestamp ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.TradeRecord, error)

	// GetByTimeRange retrieves trades of a token within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.TradeRecord, error)
}

// TimelineStore provides access to event_timeline storage.
type TimelineStore interface {
	// Save stores the full timeline of a token once. Returns ErrDuplicateKey if one exists.
	Save(ctx context.Context, tokenID string, timeline []domain.ScheduledEvent) error

	// GetByTokenID retrieves a token's timeline ordered by seq. Returns ErrNotFound if none was saved.
	GetByTokenID(ctx context.Context, tokenID string) ([]domain.ScheduledEvent, error)

	// MarkExecuted flags an entry executed. Already executed entries are left untouched.
	// Returns ErrNotFound if the entry does not exist.
	MarkExecuted(ctx context.Context, tokenID string, seq int, executedAt int64) error
}

// TradeWrite is everything one applied trade changes.
type TradeWrite struct {
	Token  *domain.Token
	Trader *domain.Trader
	Price  *domain.PricePoint
	Record *domain.TradeRecord
}

// TradeLedger applies trades atomically: either every part of a TradeWrite is stored or none is.
type TradeLedger interface {
	ApplyTrade(ctx context.Context, w TradeWrite) error
}

// TradeMirror receives copies of applied trades for analytics.
type TradeMirror interface {
	MirrorTrade(ctx context.Context, p *domain.PricePoint, r *domain.TradeRecord) error
}
