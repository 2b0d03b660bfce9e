package storage

// Set groups the stores the simulation needs from one backend.
type Set struct {
	Tokens       TokenStore
	Traders      TraderStore
	PriceHistory PriceHistoryStore
	Events       EventRecordStore
	Trades       TradeRecordStore
	Timelines    TimelineStore
	Ledger       TradeLedger
}
