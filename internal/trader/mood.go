package trader

import (
	"math"

	"memelaunch-sim/internal/domain"
)

// Sentiment is the prevailing direction of recent trading.
type Sentiment string

const (
	SentimentBull    Sentiment = "BULL"
	SentimentBear    Sentiment = "BEAR"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// Mood windows, in milliseconds.
const (
	SentimentWindowMs int64 = 5 * 60 * 1000
	HerdWindowMs      int64 = 2 * 60 * 1000
)

// Mood summarizes recent market activity for the decision function.
type Mood struct {
	Sentiment       Sentiment
	FomoBoost       float64 // added to early-entry chance under buy pressure
	PanicMultiplier float64 // > 1 under sell pressure
}

// NeutralMood leaves every decision unchanged.
func NeutralMood() Mood {
	return Mood{Sentiment: SentimentNeutral, PanicMultiplier: 1}
}

// IsNeutral reports whether m alters no decision.
func (m Mood) IsNeutral() bool {
	return m.Sentiment == SentimentNeutral && m.FomoBoost == 0 && m.PanicMultiplier <= 1
}

// AssessMood derives sentiment from the last 5 minutes and herd pressure
// from the last 2 minutes of trades.
func AssessMood(trades []*domain.TradeRecord, nowMs int64) Mood {
	m := NeutralMood()

	var buys, sells int
	var buyVol, sellVol float64
	var herdBuys, herdSells int
	for _, t := range trades {
		age := nowMs - t.TimestampMs
		if age < 0 || age > SentimentWindowMs {
			continue
		}
		if t.Side == domain.TradeSideBuy {
			buys++
			buyVol += t.Total
		} else {
			sells++
			sellVol += t.Total
		}
		if age <= HerdWindowMs {
			if t.Side == domain.TradeSideBuy {
				herdBuys++
			} else {
				herdSells++
			}
		}
	}

	if n := buys + sells; n > 0 {
		buyRatio := float64(buys) / float64(n)
		volRatio := 0.5
		if vol := buyVol + sellVol; vol > 0 {
			volRatio = buyVol / vol
		}
		switch {
		case buyRatio > 0.6 || volRatio > 0.65:
			m.Sentiment = SentimentBull
		case buyRatio < 0.4 || volRatio < 0.35:
			m.Sentiment = SentimentBear
		}
	}

	if herdBuys > 3*herdSells && herdBuys >= 3 {
		m.FomoBoost = 0.15 * math.Log(pressure(herdBuys, herdSells))
	}
	if herdSells > 3*herdBuys && herdSells >= 3 {
		m.PanicMultiplier = 1 + 0.2*math.Log(pressure(herdSells, herdBuys))
	}
	return m
}

// pressure is the capped ratio of the dominant side.
func pressure(dominant, other int) float64 {
	if other == 0 {
		return 10
	}
	return math.Min(float64(dominant)/float64(other), 10)
}
