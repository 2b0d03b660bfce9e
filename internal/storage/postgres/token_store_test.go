package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

func TestTokenStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	tok := testToken("tok-1", 1700000000000)
	tok.Flags.SniperAttack = true
	require.NoError(t, store.Insert(ctx, tok))

	got, err := store.GetByID(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, tok.Name, got.Name)
	assert.Equal(t, tok.Destiny, got.Destiny)
	assert.Equal(t, tok.Status, got.Status)
	assert.True(t, got.Flags.SniperAttack)
	assert.False(t, got.Flags.RugPull)
	assert.InDelta(t, tok.CirculatingSupply, got.CirculatingSupply, 0.0001)
	assert.Nil(t, got.LastTradeAt)
	assert.Nil(t, got.TerminatedAt)
}

func TestTokenStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	require.NoError(t, store.Insert(ctx, testToken("tok-dup", 1)))
	err := store.Insert(ctx, testToken("tok-dup", 1))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTokenStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewTokenStore(pool).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenStore_UpdateAndGetByStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	require.NoError(t, store.Insert(ctx, testToken("tok-b", 2000)))
	require.NoError(t, store.Insert(ctx, testToken("tok-a", 1000)))
	require.NoError(t, store.Insert(ctx, testToken("tok-c", 3000)))

	dead := testToken("tok-c", 3000)
	dead.Status = domain.TokenStatusDead
	dead.Flags.RugPull = true
	dead.TerminatedAt = ptr(int64(4000))
	dead.TerminalReason = "Rug pull event"
	require.NoError(t, store.Update(ctx, dead))

	active, err := store.GetByStatus(ctx, domain.TokenStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "tok-a", active[0].TokenID)
	assert.Equal(t, "tok-b", active[1].TokenID)

	deadTokens, err := store.GetByStatus(ctx, domain.TokenStatusDead)
	require.NoError(t, err)
	require.Len(t, deadTokens, 1)
	assert.True(t, deadTokens[0].Flags.RugPull)
	assert.Equal(t, int64(4000), *deadTokens[0].TerminatedAt)
	assert.Equal(t, "Rug pull event", deadTokens[0].TerminalReason)

	err = store.Update(ctx, testToken("missing", 0))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
