package idhash

import (
	"testing"

	"memelaunch-sim/internal/domain"
)

func TestComputeTradeID(t *testing.T) {
	tests := []struct {
		name     string
		tokenID  string
		traderID string
		side     domain.TradeSide
		seq      int64
		wantLen  int // hash length should be 64
	}{
		{
			name:     "buy",
			tokenID:  "0b4f7c1e-tok",
			traderID: "5d2a9e33-trader",
			side:     domain.TradeSideBuy,
			seq:      1,
			wantLen:  64,
		},
		{
			name:     "sell",
			tokenID:  "0b4f7c1e-tok",
			traderID: "5d2a9e33-trader",
			side:     domain.TradeSideSell,
			seq:      2,
			wantLen:  64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTradeID(tt.tokenID, tt.traderID, tt.side, tt.seq)

			if len(got) != tt.wantLen {
				t.Errorf("ComputeTradeID() length = %d, want %d", len(got), tt.wantLen)
			}

			// Verify determinism: same inputs should produce same output
			got2 := ComputeTradeID(tt.tokenID, tt.traderID, tt.side, tt.seq)
			if got != got2 {
				t.Errorf("ComputeTradeID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeTradeID_Uniqueness(t *testing.T) {
	base := ComputeTradeID("tok", "trader", domain.TradeSideBuy, 1)

	variants := []string{
		ComputeTradeID("tok2", "trader", domain.TradeSideBuy, 1),
		ComputeTradeID("tok", "trader2", domain.TradeSideBuy, 1),
		ComputeTradeID("tok", "trader", domain.TradeSideSell, 1),
		ComputeTradeID("tok", "trader", domain.TradeSideBuy, 2),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base ID", i)
		}
	}
}

func TestComputeEventRecordID(t *testing.T) {
	a := ComputeEventRecordID("tok", domain.EventSniperAttack, 1000)
	b := ComputeEventRecordID("tok", domain.EventSniperAttack, 1000)
	c := ComputeEventRecordID("tok", domain.EventWhaleBuy, 1000)

	if len(a) != 64 {
		t.Errorf("length = %d, want 64", len(a))
	}
	if a != b {
		t.Errorf("not deterministic: %s != %s", a, b)
	}
	if a == c {
		t.Errorf("different event types must not collide")
	}
}
