package domain

// TradeSide is the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// String returns the string representation of TradeSide.
func (s TradeSide) String() string {
	return string(s)
}

// IsValid checks if the side is a valid value.
func (s TradeSide) IsValid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// TradeRecord is an append-only record of one applied agent trade.
// Corresponds to trade_records table.
type TradeRecord struct {
	TradeID       string    // deterministic hash
	TokenID       string    // FK to tokens
	TraderID      string    // FK to traders
	Archetype     Archetype // trader archetype at trade time
	Side          TradeSide // buy | sell
	Amount        float64   // tokens moved
	AveragePrice  float64   // total / amount
	Total         float64   // cost (buy) or proceeds (sell)
	PriceAfter    float64   // token price after the trade
	ProgressAfter float64   // bonding curve progress after the trade
	TimestampMs   int64     // Unix timestamp in milliseconds
}

// PricePoint is an append-only price history entry, one per applied trade.
// Corresponds to price_history table.
type PricePoint struct {
	TokenID           string    // FK to tokens
	Seq               int64     // transaction count after the trade, 0 for the launch point
	TimestampMs       int64     // Unix timestamp in milliseconds
	Price             float64   // price after the trade
	Volume            float64   // currency volume of the trade
	MarketCap         float64   // market cap after the trade
	CirculatingSupply float64   // supply after the trade
	Side              TradeSide // empty for the launch point
}
