// Package events holds the per-destiny market event catalog and builds token event timelines.
package events

import (
	"sort"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
)

// Entry is a candidate event for a destiny.
type Entry struct {
	Type        domain.EventType
	Probability float64 // independent inclusion probability
	DelayMin    float64 // seconds after creation
	DelayMax    float64
}

var catalog = map[domain.Destiny][]Entry{
	domain.DestinyGraduated: {
		{domain.EventSniperAttack, 0.80, 5, 30},
		{domain.EventWhaleBuy, 0.90, 300, 1200},
		{domain.EventFomoBuy, 0.70, 600, 1800},
		{domain.EventViralMoment, 0.80, 1800, 3600},
	},
	domain.DestinyDeath5Min: {
		{domain.EventSniperAttack, 0.95, 5, 30},
		{domain.EventPanicSell, 0.80, 120, 240},
		{domain.EventCoinDeath, 1.0, 240, 300},
	},
	domain.DestinyDeath10Min: {
		{domain.EventSniperAttack, 0.85, 5, 30},
		{domain.EventFomoBuy, 0.40, 120, 300},
		{domain.EventPanicSell, 0.70, 400, 500},
		{domain.EventCoinDeath, 1.0, 540, 600},
	},
	domain.DestinyRugPull: {
		{domain.EventSniperAttack, 0.90, 5, 30},
		{domain.EventWhaleBuy, 0.60, 180, 360},
		{domain.EventFomoBuy, 0.50, 300, 600},
		{domain.EventRugPull, 1.0, 600, 1200},
		{domain.EventCoinDeath, 1.0, 1200, 1800},
	},
	domain.DestinySurvival: {
		{domain.EventSniperAttack, 0.70, 5, 30},
		{domain.EventWhaleBuy, 0.30, 600, 1800},
		{domain.EventFomoBuy, 0.20, 900, 2400},
		{domain.EventViralMoment, 0.10, 1800, 3600},
	},
}

// Catalog returns a copy of the candidate events for destiny d.
func Catalog(d domain.Destiny) []Entry {
	entries := catalog[d]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// BuildTimeline samples the catalog once for a token created at createdAtMs.
// Each entry is included independently; included entries trigger at
// createdAt + uniform(delayMin, delayMax) and are returned sorted by trigger time.
func BuildTimeline(src rng.Source, tokenID string, d domain.Destiny, createdAtMs int64) []domain.ScheduledEvent {
	var timeline []domain.ScheduledEvent
	for _, e := range catalog[d] {
		if !rng.Chance(src, e.Probability) {
			continue
		}
		delay := rng.Uniform(src, e.DelayMin, e.DelayMax)
		timeline = append(timeline, domain.ScheduledEvent{
			TokenID:   tokenID,
			EventType: e.Type,
			TriggerAt: createdAtMs + int64(delay*1000),
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].TriggerAt < timeline[j].TriggerAt
	})
	for i := range timeline {
		timeline[i].Seq = i
	}
	return timeline
}

// Pending counts entries not yet executed.
func Pending(timeline []domain.ScheduledEvent) int {
	n := 0
	for _, e := range timeline {
		if !e.Executed {
			n++
		}
	}
	return n
}
