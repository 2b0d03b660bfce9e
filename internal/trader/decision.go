package trader

import (
	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
)

// Action is the outcome of one decision opportunity.
type Action string

const (
	ActionWait Action = "wait"
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Decision reasons.
const (
	ReasonInactive     = "inactive"
	ReasonUnknown      = "unknown_archetype"
	ReasonEntry        = "entry"
	ReasonEntryDelay   = "entry_delay"
	ReasonFomoEntry    = "fomo_entry"
	ReasonBearHold     = "bear_hesitation"
	ReasonTargetProfit = "target_profit"
	ReasonMaxHold      = "max_hold"
	ReasonPanic        = "panic_sell"
	ReasonDipBuy       = "dip_buy"
	ReasonHolding      = "holding"
)

// Decision parameters.
const (
	// entry price is estimated as a fixed fraction of the current price
	entryPriceFactor = 0.9

	dipBuyChance      = 0.3
	dipBuyMaxProgress = 0.5

	bullEntryChance  = 0.3
	bearSkipChance   = 0.4
	bullTargetFactor = 1.25
	bearTargetFactor = 0.75
	bearHoldFactor   = 0.8
	panicThreshold   = 1.2
)

// Decision is what an agent does this tick.
type Decision struct {
	Action Action
	Reason string
}

// Decide evaluates one decision opportunity for t on tok at nowMs.
// With a neutral mood it consumes at most one draw from src.
func Decide(src rng.Source, t *domain.Trader, tok *domain.Token, nowMs int64, mood Mood) Decision {
	if !t.IsActive {
		return Decision{ActionWait, ReasonInactive}
	}
	b, ok := behaviors[t.Archetype]
	if !ok {
		return Decision{ActionWait, ReasonUnknown}
	}
	if t.Holdings <= 0 {
		return decideEntry(src, b, tok, nowMs, mood)
	}
	return decideHolding(src, b, t, tok, nowMs, mood)
}

func decideEntry(src rng.Source, b Behavior, tok *domain.Token, nowMs int64, mood Mood) Decision {
	ageSec := float64(tok.AgeMs(nowMs)) / 1000
	if ageSec >= b.EntryDelay.Draw(src) {
		if mood.Sentiment == SentimentBear && rng.Chance(src, bearSkipChance) {
			return Decision{ActionWait, ReasonBearHold}
		}
		return Decision{ActionBuy, ReasonEntry}
	}

	early := mood.FomoBoost
	if mood.Sentiment == SentimentBull {
		early += bullEntryChance
	}
	if early > 0 && rng.Chance(src, early) {
		return Decision{ActionBuy, ReasonFomoEntry}
	}
	return Decision{ActionWait, ReasonEntryDelay}
}

func decideHolding(src rng.Source, b Behavior, t *domain.Trader, tok *domain.Token, nowMs int64, mood Mood) Decision {
	price := tok.CurrentPrice
	entryPrice := price * entryPriceFactor
	var profit float64
	if entryPrice > 0 {
		profit = (price - entryPrice) / entryPrice * 100
	}

	target := t.TargetProfitPercent
	maxHold := b.SellDelay.Max
	switch mood.Sentiment {
	case SentimentBull:
		target *= bullTargetFactor
	case SentimentBear:
		target *= bearTargetFactor
		maxHold *= bearHoldFactor
	}

	if profit >= target {
		return Decision{ActionSell, ReasonTargetProfit}
	}
	if secondsSinceLastTrade(t, nowMs) >= maxHold {
		return Decision{ActionSell, ReasonMaxHold}
	}
	if mood.PanicMultiplier > panicThreshold && profit > 0 && rng.Chance(src, mood.PanicMultiplier-1) {
		return Decision{ActionSell, ReasonPanic}
	}
	if t.Archetype == domain.ArchetypeMarketMaker &&
		tok.Progress() < dipBuyMaxProgress &&
		holdingsFraction(t, tok) < b.MaxHoldings &&
		rng.Chance(src, dipBuyChance) {
		return Decision{ActionBuy, ReasonDipBuy}
	}
	return Decision{ActionWait, ReasonHolding}
}

func secondsSinceLastTrade(t *domain.Trader, nowMs int64) float64 {
	last := t.CreatedAt
	if t.LastTradeAt != nil {
		last = *t.LastTradeAt
	}
	if nowMs <= last {
		return 0
	}
	return float64(nowMs-last) / 1000
}

func holdingsFraction(t *domain.Trader, tok *domain.Token) float64 {
	if tok.TotalSupply <= 0 {
		return 0
	}
	return t.Holdings / tok.TotalSupply
}
