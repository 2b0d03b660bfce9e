package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

func TestTraderStore_InsertBulkAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, NewTokenStore(pool).Insert(ctx, testToken("tok", 1)))
	store := NewTraderStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.Trader{
		testTrader("t2", "tok"),
		testTrader("t1", "tok"),
	}))

	traders, err := store.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, traders, 2)
	assert.Equal(t, "t1", traders[0].TraderID)
	assert.Equal(t, domain.ArchetypeWhale, traders[0].Archetype)
	assert.True(t, traders[0].IsActive)
	assert.Nil(t, traders[0].LastTradeAt)
}

func TestTraderStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, NewTokenStore(pool).Insert(ctx, testToken("tok", 1)))
	store := NewTraderStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.Trader{testTrader("t1", "tok")}))
	err := store.InsertBulk(ctx, []*domain.Trader{testTrader("t2", "tok"), testTrader("t1", "tok")})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	traders, err := store.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, traders, 1)
}

func TestTraderStore_UpdateAndDeactivate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, NewTokenStore(pool).Insert(ctx, testToken("tok", 1)))
	store := NewTraderStore(pool)
	require.NoError(t, store.InsertBulk(ctx, []*domain.Trader{testTrader("t1", "tok"), testTrader("t2", "tok")}))

	upd := testTrader("t1", "tok")
	upd.Holdings = 5000
	upd.TotalBought = 5000
	upd.Balance = -12.5
	upd.TradeCount = 1
	upd.LastTradeAt = ptr(int64(1700000001000))
	require.NoError(t, store.Update(ctx, upd))

	traders, err := store.GetByTokenID(ctx, "tok")
	require.NoError(t, err)
	assert.InDelta(t, 5000, traders[0].Holdings, 0.0001)
	assert.InDelta(t, -12.5, traders[0].Balance, 0.0001)
	assert.Equal(t, int64(1700000001000), *traders[0].LastTradeAt)

	n, err := store.DeactivateByTokenID(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, err := store.GetActiveByTokenID(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, store.Update(ctx, testTrader("missing", "tok")), storage.ErrNotFound)
}
