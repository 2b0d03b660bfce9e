package events

import (
	"fmt"

	"memelaunch-sim/internal/domain"
)

var impacts = map[domain.EventType]float64{
	domain.EventSniperAttack:   -15,
	domain.EventWhaleBuy:       25,
	domain.EventPanicSell:      -40,
	domain.EventFomoBuy:        35,
	domain.EventViralMoment:    100,
	domain.EventRugPull:        -80,
	domain.EventCoinDeath:      -100,
	domain.EventCoinGraduation: 200,
	domain.EventCoinCreated:    0,
}

var notes = map[domain.EventType]string{
	domain.EventSniperAttack: "Sniper bots swarmed the launch",
	domain.EventWhaleBuy:     "A whale took a large position",
	domain.EventPanicSell:    "Holders are dumping in panic",
	domain.EventFomoBuy:      "FOMO buyers piled in",
	domain.EventViralMoment:  "The token went viral",
	domain.EventRugPull:      "Developers pulled the liquidity",
}

// Impact returns the fixed impact_percent annotation of an event type.
func Impact(t domain.EventType) float64 {
	return impacts[t]
}

// Note returns the default audit note for a flag-setting event type.
func Note(t domain.EventType) string {
	if n, ok := notes[t]; ok {
		return n
	}
	return string(t)
}

// CreatedNote is the audit note recorded when a token's destiny is assigned.
func CreatedNote(d domain.Destiny) string {
	return fmt.Sprintf("Destiny: %s", d)
}

// SetFlag sets the token flag for a flag-setting event.
// It reports false for event types that carry no flag.
func SetFlag(tok *domain.Token, t domain.EventType) bool {
	switch t {
	case domain.EventSniperAttack:
		tok.Flags.SniperAttack = true
	case domain.EventWhaleBuy:
		tok.Flags.WhaleBuy = true
	case domain.EventPanicSell:
		tok.Flags.PanicSell = true
	case domain.EventFomoBuy:
		tok.Flags.FomoBuy = true
	case domain.EventViralMoment:
		tok.Flags.ViralMoment = true
	case domain.EventRugPull:
		tok.Flags.RugPull = true
	default:
		return false
	}
	return true
}
