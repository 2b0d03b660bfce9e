// Package destiny draws the pre-determined outcome of a token.
package destiny

import (
	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
)

type threshold struct {
	upper   float64
	destiny domain.Destiny
}

// cumulative upper bounds; anything at or above the last bound is SURVIVAL
var thresholds = []threshold{
	{0.05, domain.DestinyGraduated},
	{0.40, domain.DestinyDeath5Min},
	{0.60, domain.DestinyDeath10Min},
	{0.75, domain.DestinyRugPull},
}

// Select draws one destiny from src.
func Select(src rng.Source) domain.Destiny {
	return FromValue(src.Float64())
}

// FromValue maps a uniform value in [0,1) to a destiny.
func FromValue(v float64) domain.Destiny {
	for _, t := range thresholds {
		if v < t.upper {
			return t.destiny
		}
	}
	return domain.DestinySurvival
}

// Probabilities returns the draw probability of every destiny.
func Probabilities() map[domain.Destiny]float64 {
	out := make(map[domain.Destiny]float64, len(domain.AllDestinies))
	lower := 0.0
	for _, t := range thresholds {
		out[t.destiny] = t.upper - lower
		lower = t.upper
	}
	out[domain.DestinySurvival] = 1 - lower
	return out
}
