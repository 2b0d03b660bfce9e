package clickhouse

import (
	"context"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// Mirror copies applied trades into the analytics tables.
// Tables are ReplacingMergeTree, so replays collapse on merge and no existence check is made.
type Mirror struct {
	prices *PriceHistoryStore
	trades *TradeRecordStore
}

// NewMirror creates a Mirror writing through conn.
func NewMirror(conn *Conn) *Mirror {
	return &Mirror{
		prices: NewPriceHistoryStore(conn),
		trades: NewTradeRecordStore(conn),
	}
}

var _ storage.TradeMirror = (*Mirror)(nil)

// MirrorTrade appends the price point and trade record.
func (m *Mirror) MirrorTrade(ctx context.Context, p *domain.PricePoint, r *domain.TradeRecord) error {
	if p != nil {
		if err := m.prices.append(ctx, p); err != nil {
			return err
		}
	}
	if r != nil {
		if err := m.trades.append(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
