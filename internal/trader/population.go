package trader

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
	"memelaunch-sim/internal/wallet"
)

// Population draw parameters.
const (
	sniperChance = 0.8
	whaleChance  = 0.2
)

// Populate creates the trader agents for a token with the given destiny.
// Draw order: sniper inclusion, sniper count, whale inclusion, retail count, bot count.
func Populate(src rng.Source, tokenID string, d domain.Destiny, nowMs int64) []*domain.Trader {
	var traders []*domain.Trader

	add := func(a domain.Archetype, n int) {
		for i := 0; i < n; i++ {
			traders = append(traders, newTrader(src, tokenID, a, nowMs))
		}
	}

	if rng.Chance(src, sniperChance) {
		add(domain.ArchetypeSniper, rng.IntInclusive(src, 1, 2))
	}
	if rng.Chance(src, whaleChance) {
		add(domain.ArchetypeWhale, 1)
	}
	add(domain.ArchetypeRetail, rng.IntInclusive(src, 2, 5))
	add(domain.ArchetypeBot, rng.IntInclusive(src, 3, 8))
	if d == domain.DestinySurvival || d == domain.DestinyGraduated {
		add(domain.ArchetypeMarketMaker, 1)
	}

	return traders
}

func newTrader(src rng.Source, tokenID string, a domain.Archetype, nowMs int64) *domain.Trader {
	b := behaviors[a]
	id := uuid.NewString()
	return &domain.Trader{
		TraderID:            id,
		TokenID:             tokenID,
		Archetype:           a,
		Handle:              Handle(id, a),
		WalletAddress:       wallet.Generate(),
		TargetProfitPercent: b.TargetProfit.Draw(src),
		IsActive:            true,
		CreatedAt:           nowMs,
	}
}

// Handle returns the public handle of an agent.
func Handle(traderID string, a domain.Archetype) string {
	short := strings.ReplaceAll(traderID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ai_trader_%s_%s", short, strings.ToLower(string(a)))
}
