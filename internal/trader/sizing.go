package trader

import (
	"math"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
)

// Sell sizing parameters.
const (
	partialSellChance = 0.5
	partialSellMin    = 0.3
	partialSellMax    = 0.7
)

// BuySize draws a whole-token buy amount for archetype a, clamped to the
// token's remaining supply. ok is false when nothing can be bought.
func BuySize(src rng.Source, a domain.Archetype, tok *domain.Token) (amount float64, ok bool) {
	b, found := behaviors[a]
	if !found {
		return 0, false
	}
	amount = math.Floor(tok.TotalSupply * b.BuySize.Draw(src))
	if remaining := math.Floor(tok.RemainingSupply()); amount > remaining {
		amount = remaining
	}
	if amount <= 0 {
		return 0, false
	}
	return amount, true
}

// SellSize draws a sell amount: half the time a random 30-70% of holdings,
// otherwise the full position. ok is false when nothing can be sold.
func SellSize(src rng.Source, holdings float64) (amount float64, ok bool) {
	if holdings <= 0 {
		return 0, false
	}
	if rng.Chance(src, partialSellChance) {
		amount = math.Floor(holdings * rng.Uniform(src, partialSellMin, partialSellMax))
	} else {
		amount = holdings
	}
	if amount <= 0 {
		return 0, false
	}
	return amount, true
}
