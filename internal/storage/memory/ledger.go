package memory

import (
	"context"

	"memelaunch-sim/internal/storage"
)

// Ledger applies trades across the in-memory stores atomically.
// It holds every involved store lock, in a fixed order, for the whole write.
type Ledger struct {
	tokens  *TokenStore
	traders *TraderStore
	prices  *PriceHistoryStore
	trades  *TradeRecordStore
}

// NewLedger creates a Ledger over the given stores.
func NewLedger(tokens *TokenStore, traders *TraderStore, prices *PriceHistoryStore, trades *TradeRecordStore) *Ledger {
	return &Ledger{tokens: tokens, traders: traders, prices: prices, trades: trades}
}

// ApplyTrade stores every part of w or nothing.
func (l *Ledger) ApplyTrade(_ context.Context, w storage.TradeWrite) error {
	if w.Token == nil || w.Trader == nil || w.Price == nil || w.Record == nil || w.Record.TradeID == "" {
		return storage.ErrInvalidInput
	}

	l.tokens.mu.Lock()
	defer l.tokens.mu.Unlock()
	l.traders.mu.Lock()
	defer l.traders.mu.Unlock()
	l.prices.mu.Lock()
	defer l.prices.mu.Unlock()
	l.trades.mu.Lock()
	defer l.trades.mu.Unlock()

	// Validate everything before the first write
	if _, ok := l.tokens.data[w.Token.TokenID]; !ok {
		return storage.ErrNotFound
	}
	if _, ok := l.traders.data[w.Trader.TraderID]; !ok {
		return storage.ErrNotFound
	}
	if err := l.prices.checkLocked(w.Price); err != nil {
		return err
	}
	if err := l.trades.checkLocked(w.Record); err != nil {
		return err
	}

	_ = l.tokens.updateLocked(w.Token)
	_ = l.traders.updateLocked(w.Trader)
	l.prices.insertLocked(w.Price)
	l.trades.insertLocked(w.Record)
	return nil
}

var _ storage.TradeLedger = (*Ledger)(nil)
