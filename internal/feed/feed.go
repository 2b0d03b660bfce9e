// Package feed publishes market updates to live subscribers.
package feed

import (
	"context"

	"memelaunch-sim/internal/domain"
)

// Notifier receives market updates. Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, u domain.MarketUpdate)
}

// Fanout forwards every update to each notifier in order.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, u domain.MarketUpdate) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, u)
		}
	}
}
