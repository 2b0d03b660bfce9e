package domain

// UpdateKind classifies a MarketUpdate.
type UpdateKind string

const (
	UpdateKindTrade  UpdateKind = "trade"
	UpdateKindEvent  UpdateKind = "event"
	UpdateKindStatus UpdateKind = "status"
)

// MarketUpdate is a live notification about a token, fanned out to feed subscribers.
type MarketUpdate struct {
	Kind        UpdateKind   `json:"kind"`
	TokenID     string       `json:"token_id"`
	TimestampMs int64        `json:"timestamp_ms"`
	Price       float64      `json:"price"`
	MarketCap   float64      `json:"market_cap"`
	Progress    float64      `json:"progress"`
	Status      TokenStatus  `json:"status"`
	EventType   EventType    `json:"event_type,omitempty"`
	Note        string       `json:"note,omitempty"`
	Trade       *TradeRecord `json:"trade,omitempty"`
}

// NewMarketUpdate builds an update carrying the token's current market state.
func NewMarketUpdate(kind UpdateKind, t *Token, nowMs int64) MarketUpdate {
	return MarketUpdate{
		Kind:        kind,
		TokenID:     t.TokenID,
		TimestampMs: nowMs,
		Price:       t.CurrentPrice,
		MarketCap:   t.MarketCap,
		Progress:    t.Progress(),
		Status:      t.Status,
	}
}
