package postgres

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/storage"
)

// Ledger implements storage.TradeLedger with a single transaction per trade.
type Ledger struct {
	pool *Pool
}

// NewLedger creates a new Ledger.
func NewLedger(pool *Pool) *Ledger {
	return &Ledger{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeLedger = (*Ledger)(nil)

// ApplyTrade stores every part of w or nothing.
func (l *Ledger) ApplyTrade(ctx context.Context, w storage.TradeWrite) error {
	if w.Token == nil || w.Trader == nil || w.Price == nil || w.Record == nil {
		return storage.ErrInvalidInput
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := updateToken(ctx, tx, w.Token); err != nil {
		return err
	}
	if err := updateTrader(ctx, tx, w.Trader); err != nil {
		return err
	}
	if err := insertPricePoint(ctx, tx, w.Price); err != nil {
		return err
	}
	if err := insertTradeRecord(ctx, tx, w.Record); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// NewSet creates a complete PostgreSQL storage set over pool.
func NewSet(pool *Pool) storage.Set {
	return storage.Set{
		Tokens:       NewTokenStore(pool),
		Traders:      NewTraderStore(pool),
		PriceHistory: NewPriceHistoryStore(pool),
		Events:       NewEventRecordStore(pool),
		Trades:       NewTradeRecordStore(pool),
		Timelines:    NewTimelineStore(pool),
		Ledger:       NewLedger(pool),
	}
}
