package domain

// TokenStatus is the lifecycle state of a token.
type TokenStatus string

const (
	TokenStatusActive    TokenStatus = "active"
	TokenStatusDead      TokenStatus = "dead"
	TokenStatusGraduated TokenStatus = "graduated"
)

// String returns the string representation of TokenStatus.
func (s TokenStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s TokenStatus) IsValid() bool {
	return s == TokenStatusActive || s == TokenStatusDead || s == TokenStatusGraduated
}

// IsTerminal reports whether no further transitions are allowed.
func (s TokenStatus) IsTerminal() bool {
	return s == TokenStatusDead || s == TokenStatusGraduated
}

// EventFlags records which market events have fired for a token.
type EventFlags struct {
	SniperAttack bool
	WhaleBuy     bool
	RugPull      bool
	PanicSell    bool
	FomoBuy      bool
	ViralMoment  bool
}

// Token is a simulated meme token trading on a bonding curve.
// Corresponds to tokens table.
type Token struct {
	TokenID           string      // PRIMARY KEY (uuid)
	Name              string      // display name
	Symbol            string      // upper-case ticker
	MintAddress       string      // synthetic base58 address
	TotalSupply       float64     // fixed at creation
	CirculatingSupply float64     // 0 <= circulating <= total
	CurrentPrice      float64     // price at current progress
	MarketCap         float64     // current_price * circulating_supply
	CurveK            float64     // bonding curve steepness
	InitialInvestment float64     // seed capital anchoring the price scale
	Destiny           Destiny     // empty until drawn, immutable afterwards
	Status            TokenStatus // active | dead | graduated
	Flags             EventFlags  // fired market events
	TransactionCount  int64       // applied agent trades
	CreatedAt         int64       // Unix timestamp in milliseconds
	LastTradeAt       *int64      // nullable until first trade
	TerminatedAt      *int64      // set on terminal transition
	TerminalReason    string      // human readable cause of the terminal transition
}

// Progress returns circulating supply divided by total supply, clamped to [0,1].
func (t *Token) Progress() float64 {
	if t.TotalSupply <= 0 {
		return 0
	}
	p := t.CirculatingSupply / t.TotalSupply
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// RemainingSupply returns the un-circulated supply.
func (t *Token) RemainingSupply() float64 {
	r := t.TotalSupply - t.CirculatingSupply
	if r < 0 {
		return 0
	}
	return r
}

// AgeMs returns the token age at nowMs.
func (t *Token) AgeMs(nowMs int64) int64 {
	if nowMs < t.CreatedAt {
		return 0
	}
	return nowMs - t.CreatedAt
}

// Clone returns a deep copy of the token.
func (t *Token) Clone() *Token {
	c := *t
	if t.LastTradeAt != nil {
		v := *t.LastTradeAt
		c.LastTradeAt = &v
	}
	if t.TerminatedAt != nil {
		v := *t.TerminatedAt
		c.TerminatedAt = &v
	}
	return &c
}
