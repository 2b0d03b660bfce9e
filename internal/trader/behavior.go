// Package trader implements the per-archetype behavior of simulated trader agents:
// population at token creation, the per-tick decision function and trade sizing.
package trader

import (
	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
)

// Range is an inclusive-exclusive [Min,Max) interval for uniform draws.
type Range struct {
	Min float64
	Max float64
}

// Draw returns a uniform value in the range.
func (r Range) Draw(src rng.Source) float64 {
	return rng.Uniform(src, r.Min, r.Max)
}

// Behavior is the static parameter set of one archetype.
type Behavior struct {
	EntryDelay     Range   // seconds after token creation
	BuySize        Range   // fraction of total supply
	TargetProfit   Range   // percent
	SellDelay      Range   // seconds since last trade; Max forces an exit
	TradeFrequency Range   // seconds between trades
	MaxHoldings    float64 // fraction of total supply
}

var behaviors = map[domain.Archetype]Behavior{
	domain.ArchetypeSniper: {
		EntryDelay:     Range{5, 30},
		BuySize:        Range{0.05, 0.15},
		TargetProfit:   Range{30, 100},
		SellDelay:      Range{60, 180},
		TradeFrequency: Range{30, 120},
		MaxHoldings:    0.15,
	},
	domain.ArchetypeWhale: {
		EntryDelay:     Range{300, 1200},
		BuySize:        Range{0.10, 0.30},
		TargetProfit:   Range{50, 200},
		SellDelay:      Range{600, 1800},
		TradeFrequency: Range{120, 600},
		MaxHoldings:    0.30,
	},
	domain.ArchetypeRetail: {
		EntryDelay:     Range{60, 600},
		BuySize:        Range{0.001, 0.02},
		TargetProfit:   Range{10, 50},
		SellDelay:      Range{180, 900},
		TradeFrequency: Range{30, 300},
		MaxHoldings:    0.05,
	},
	domain.ArchetypeBot: {
		EntryDelay:     Range{10, 60},
		BuySize:        Range{0.0001, 0.005},
		TargetProfit:   Range{5, 15},
		SellDelay:      Range{30, 180},
		TradeFrequency: Range{5, 30},
		MaxHoldings:    0.02,
	},
	domain.ArchetypeMarketMaker: {
		EntryDelay:     Range{30, 120},
		BuySize:        Range{0.01, 0.05},
		TargetProfit:   Range{20, 50},
		SellDelay:      Range{300, 1200},
		TradeFrequency: Range{60, 300},
		MaxHoldings:    0.10,
	},
}

// BehaviorFor returns the behavior of archetype a.
func BehaviorFor(a domain.Archetype) (Behavior, bool) {
	b, ok := behaviors[a]
	return b, ok
}
