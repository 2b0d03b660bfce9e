package sqlite

import (
	"context"
	"fmt"

	"memelaunch-sim/internal/storage"
)

// Ledger implements storage.TradeLedger with a single transaction per trade.
type Ledger struct {
	db *DB
}

// NewLedger creates a new Ledger.
func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

var _ storage.TradeLedger = (*Ledger)(nil)

// ApplyTrade stores every part of w or nothing.
func (l *Ledger) ApplyTrade(ctx context.Context, w storage.TradeWrite) error {
	if w.Token == nil || w.Trader == nil || w.Price == nil || w.Record == nil {
		return storage.ErrInvalidInput
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// NewSet creates a complete SQLite storage set over db.
func NewSet(db *DB) storage.Set {
	return storage.Set{
		Tokens:       NewTokenStore(db),
		Traders:      NewTraderStore(db),
		PriceHistory: NewPriceHistoryStore(db),
		Events:       NewEventRecordStore(db),
		Trades:       NewTradeRecordStore(db),
		Timelines:    NewTimelineStore(db),
		Ledger:       NewLedger(db),
	}
}
