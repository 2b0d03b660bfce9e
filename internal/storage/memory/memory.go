// Package memory provides in-process implementations of the storage interfaces.
package memory

import "memelaunch-sim/internal/storage"

// NewSet creates a complete in-memory storage set with a shared ledger.
func NewSet() storage.Set {
	tokens := NewTokenStore()
	traders := NewTraderStore()
	prices := NewPriceHistoryStore()
	trades := NewTradeRecordStore()

	return storage.Set{
		Tokens:       tokens,
		Traders:      traders,
		PriceHistory: prices,
		Events:       NewEventRecordStore(),
		Trades:       trades,
		Timelines:    NewTimelineStore(),
		Ledger:       NewLedger(tokens, traders, prices, trades),
	}
}
