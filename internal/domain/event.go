package domain

// EventType identifies a market event.
type EventType string

const (
	EventSniperAttack   EventType = "SNIPER_ATTACK"
	EventWhaleBuy       EventType = "WHALE_BUY"
	EventPanicSell      EventType = "PANIC_SELL"
	EventFomoBuy        EventType = "FOMO_BUY"
	EventViralMoment    EventType = "VIRAL_MOMENT"
	EventRugPull        EventType = "RUG_PULL"
	EventCoinDeath      EventType = "COIN_DEATH"
	EventCoinGraduation EventType = "COIN_GRADUATION"
	EventCoinCreated    EventType = "COIN_CREATED"
)

// String returns the string representation of EventType.
func (e EventType) String() string {
	return string(e)
}

// IsValid checks if the event type is a known value.
func (e EventType) IsValid() bool {
	switch e {
	case EventSniperAttack, EventWhaleBuy, EventPanicSell, EventFomoBuy, EventViralMoment,
		EventRugPull, EventCoinDeath, EventCoinGraduation, EventCoinCreated:
		return true
	}
	return false
}

// IsTerminal reports whether executing the event ends the token's life.
func (e EventType) IsTerminal() bool {
	return e == EventCoinDeath || e == EventCoinGraduation
}

// ScheduledEvent is one entry of a token's event timeline.
// Corresponds to event_timeline table.
type ScheduledEvent struct {
	TokenID    string    // FK to tokens
	Seq        int       // position in the sorted timeline
	EventType  EventType // event to execute
	TriggerAt  int64     // absolute trigger time (ms)
	Executed   bool      // false -> true, one-way
	ExecutedAt *int64    // nullable until executed
}

// EventRecord is an append-only audit entry for an executed event.
// Corresponds to event_records table.
type EventRecord struct {
	RecordID      string    // deterministic hash
	TokenID       string    // FK to tokens
	EventType     EventType // executed event
	Note          string    // free-form description
	ImpactPercent float64   // fixed annotation per event type
	Timestamp     int64     // Unix timestamp in milliseconds
}
