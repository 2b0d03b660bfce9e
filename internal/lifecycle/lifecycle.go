// Package lifecycle enforces token state transitions: active -> dead | graduated.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"memelaunch-sim/internal/domain"
)

// ErrTerminal is returned when transitioning a token that is already dead or graduated.
var ErrTerminal = errors.New("token is in a terminal state")

// Reason identifies why a token left the active state.
type Reason string

const (
	ReasonRugPull            Reason = "rug_pull"
	ReasonStarved            Reason = "starved"
	ReasonInactive           Reason = "inactive"
	ReasonGraduated          Reason = "graduated"
	ReasonScheduledDeath     Reason = "scheduled_death"
	ReasonScheduledGraduated Reason = "scheduled_graduation"
)

// Transition is a terminal state change.
type Transition struct {
	To     domain.TokenStatus
	Reason Reason
	Note   string
}

// Rules are the termination thresholds checked every tick.
type Rules struct {
	StarvedProgress         float64       // dead when progress is below this...
	StarvedMinTransactions  int64         // ...and transaction count exceeds this
	InactivityWindow        time.Duration // dead when no trade for this long...
	InactiveMinTransactions int64         // ...and transaction count exceeds this
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		StarvedProgress:         0.01,
		StarvedMinTransactions:  10,
		InactivityWindow:        10 * time.Minute,
		InactiveMinTransactions: 5,
	}
}

// Evaluate checks, in order: fired rug pull, starvation, inactivity, graduation.
func (r Rules) Evaluate(tok *domain.Token, nowMs int64) (Transition, bool) {
	if tok.Status.IsTerminal() {
		return Transition{}, false
	}

	if tok.Flags.RugPull {
		return Transition{domain.TokenStatusDead, ReasonRugPull, "Rug pull event"}, true
	}

	progress := tok.Progress()
	if progress < r.StarvedProgress && tok.TransactionCount > r.StarvedMinTransactions {
		return Transition{
			To:     domain.TokenStatusDead,
			Reason: ReasonStarved,
			Note:   fmt.Sprintf("Bonding curve progress dropped below %g%%", r.StarvedProgress*100),
		}, true
	}

	if tok.LastTradeAt != nil && tok.TransactionCount > r.InactiveMinTransactions &&
		nowMs-*tok.LastTradeAt > r.InactivityWindow.Milliseconds() {
		return Transition{
			To:     domain.TokenStatusDead,
			Reason: ReasonInactive,
			Note:   fmt.Sprintf("No trading activity for %s", formatWindow(r.InactivityWindow)),
		}, true
	}

	if t, ok := Graduation(tok); ok {
		return t, true
	}
	return Transition{}, false
}

// Graduation reports an organic graduation once progress reaches 100%.
func Graduation(tok *domain.Token) (Transition, bool) {
	if tok.Status.IsTerminal() || tok.Progress() < 1 {
		return Transition{}, false
	}
	return Transition{domain.TokenStatusGraduated, ReasonGraduated, "Bonding curve completed"}, true
}

// ForScheduledEvent maps a terminal scheduled event to its transition.
func ForScheduledEvent(t domain.EventType) (Transition, bool) {
	switch t {
	case domain.EventCoinDeath:
		return Transition{domain.TokenStatusDead, ReasonScheduledDeath, "Scheduled death event"}, true
	case domain.EventCoinGraduation:
		return Transition{domain.TokenStatusGraduated, ReasonScheduledGraduated, "Scheduled graduation event"}, true
	}
	return Transition{}, false
}

// Apply performs tr on tok. Terminal states are never left.
func Apply(tok *domain.Token, tr Transition, nowMs int64) error {
	if tok.Status.IsTerminal() {
		return ErrTerminal
	}
	if !tr.To.IsTerminal() {
		return fmt.Errorf("invalid transition target %q", tr.To)
	}
	tok.Status = tr.To
	tok.TerminatedAt = &nowMs
	tok.TerminalReason = tr.Note
	return nil
}

// AuditEvent returns the audit event type recorded for a terminal status.
func AuditEvent(s domain.TokenStatus) domain.EventType {
	if s == domain.TokenStatusGraduated {
		return domain.EventCoinGraduation
	}
	return domain.EventCoinDeath
}

func formatWindow(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
