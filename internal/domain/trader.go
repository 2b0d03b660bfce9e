package domain

// Archetype is the fixed behavior profile of a trader agent.
type Archetype string

const (
	ArchetypeSniper      Archetype = "SNIPER"
	ArchetypeWhale       Archetype = "WHALE"
	ArchetypeRetail      Archetype = "RETAIL"
	ArchetypeBot         Archetype = "BOT"
	ArchetypeMarketMaker Archetype = "MARKET_MAKER"
)

// AllArchetypes lists every archetype.
var AllArchetypes = []Archetype{
	ArchetypeSniper,
	ArchetypeWhale,
	ArchetypeRetail,
	ArchetypeBot,
	ArchetypeMarketMaker,
}

// String returns the string representation of Archetype.
func (a Archetype) String() string {
	return string(a)
}

// IsValid checks if the archetype is a valid value.
func (a Archetype) IsValid() bool {
	switch a {
	case ArchetypeSniper, ArchetypeWhale, ArchetypeRetail, ArchetypeBot, ArchetypeMarketMaker:
		return true
	}
	return false
}

// Trader is a simulated market participant bound to one token.
// Corresponds to traders table.
type Trader struct {
	TraderID            string    // PRIMARY KEY (uuid)
	TokenID             string    // FK to tokens, never reassigned
	Archetype           Archetype // immutable
	Handle              string    // ai_trader_<short id>_<archetype>
	WalletAddress       string    // synthetic base58 address
	Holdings            float64   // tokens held, >= 0
	TotalBought         float64   // cumulative tokens bought
	TotalSold           float64   // cumulative tokens sold
	Balance             float64   // net currency flow (negative after buys)
	TargetProfitPercent float64   // drawn once at creation
	TradeCount          int64     // applied trades
	IsActive            bool      // false is permanent
	CreatedAt           int64     // Unix timestamp in milliseconds
	LastTradeAt         *int64    // nullable until first trade
}

// Clone returns a deep copy of the trader.
func (t *Trader) Clone() *Trader {
	c := *t
	if t.LastTradeAt != nil {
		v := *t.LastTradeAt
		c.LastTradeAt = &v
	}
	return &c
}
