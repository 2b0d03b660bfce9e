package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

func TestLedger_ApplyTrade(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	set := NewSet(pool)

	tok := testToken("tok", 1700000000000)
	require.NoError(t, set.Tokens.Insert(ctx, tok))
	tr := testTrader("t1", "tok")
	require.NoError(t, set.Traders.InsertBulk(ctx, []*domain.Trader{tr}))

	tok.CirculatingSupply = 20_000
	tok.TransactionCount = 1
	tok.LastTradeAt = ptr(int64(1700000005000))
	tr.Holdings = 10_000
	tr.TradeCount = 1
	w := storage.TradeWrite{
		Token:  tok,
		Trader: tr,
		Price: &domain.PricePoint{
			TokenID: "tok", Seq: 1, TimestampMs: 1700000005000,
			Price: 0.0021, Volume: 21, MarketCap: 42, CirculatingSupply: 20_000, Side: domain.TradeSideBuy,
		},
		Record: &domain.TradeRecord{
			TradeID: "trade-1", TokenID: "tok", TraderID: "t1", Archetype: domain.ArchetypeWhale,
			Side: domain.TradeSideBuy, Amount: 10_000, AveragePrice: 0.0021, Total: 21,
			PriceAfter: 0.0021, ProgressAfter: 0.02, TimestampMs: 1700000005000,
		},
	}
	require.NoError(t, set.Ledger.ApplyTrade(ctx, w))

	gotTok, err := set.Tokens.GetByID(ctx, "tok")
	require.NoError(t, err)
	assert.InDelta(t, 20_000, gotTok.CirculatingSupply, 0.0001)
	assert.Equal(t, int64(1), gotTok.TransactionCount)

	trades, err := set.Trades.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, domain.TradeSideBuy, trades[0].Side)

	points, err := set.PriceHistory.GetByTimeRange(ctx, "tok", 1700000000000, 1700000009000)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, domain.TradeSideBuy, points[0].Side)

	// Duplicate trade id rolls back the token update too
	tok.CirculatingSupply = 30_000
	w.Price = &domain.PricePoint{TokenID: "tok", Seq: 2, TimestampMs: 1700000006000}
	err = set.Ledger.ApplyTrade(ctx, w)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	gotTok, err = set.Tokens.GetByID(ctx, "tok")
	require.NoError(t, err)
	assert.InDelta(t, 20_000, gotTok.CirculatingSupply, 0.0001)

	points, err = set.PriceHistory.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestTimelineStore_SaveAndMarkExecuted(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, NewTokenStore(pool).Insert(ctx, testToken("tok", 1)))
	store := NewTimelineStore(pool)

	_, err := store.GetByTokenID(ctx, "tok")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	timeline := []domain.ScheduledEvent{
		{TokenID: "tok", Seq: 0, EventType: domain.EventSniperAttack, TriggerAt: 5000},
		{TokenID: "tok", Seq: 1, EventType: domain.EventCoinDeath, TriggerAt: 250000},
	}
	require.NoError(t, store.Save(ctx, "tok", timeline))
	assert.ErrorIs(t, store.Save(ctx, "tok", timeline), storage.ErrDuplicateKey)

	require.NoError(t, store.MarkExecuted(ctx, "tok", 0, 6000))
	require.NoError(t, store.MarkExecuted(ctx, "tok", 0, 9000))
	assert.ErrorIs(t, store.MarkExecuted(ctx, "tok", 7, 6000), storage.ErrNotFound)

	got, err := store.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Executed)
	assert.Equal(t, int64(6000), *got[0].ExecutedAt)
	assert.False(t, got[1].Executed)
	assert.Equal(t, domain.EventCoinDeath, got[1].EventType)
}

func TestEventRecordStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, NewTokenStore(pool).Insert(ctx, testToken("tok", 1)))
	store := NewEventRecordStore(pool)

	r := &domain.EventRecord{RecordID: "r1", TokenID: "tok", EventType: domain.EventRugPull, Note: "pulled", ImpactPercent: -80, Timestamp: 2000}
	require.NoError(t, store.Insert(ctx, r))
	assert.ErrorIs(t, store.Insert(ctx, r), storage.ErrDuplicateKey)

	records, err := store.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.EventRugPull, records[0].EventType)
	assert.InDelta(t, -80, records[0].ImpactPercent, 0.0001)
}
