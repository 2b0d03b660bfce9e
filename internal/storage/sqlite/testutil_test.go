package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"memelaunch-sim/internal/domain"
)

// setupTestDB opens a fresh database file in a temp dir and applies the schema.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to open sqlite")
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join(findProjectRoot(t), "internal", "storage", "migrations", "sqlite", "001_schema.sql"))
	require.NoError(t, err, "failed to read schema")

	_, err = db.ExecContext(ctx, string(schema))
	require.NoError(t, err, "failed to apply schema")

	return db
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func testToken(id string, createdAt int64) *domain.Token {
	return &domain.Token{
		TokenID:           id,
		Name:              "Token " + id,
		Symbol:            "TKN",
		MintAddress:       "Mint" + id,
		TotalSupply:       1_000_000,
		CirculatingSupply: 10_000,
		CurrentPrice:      0.002,
		MarketCap:         20,
		CurveK:            4,
		InitialInvestment: 2000,
		Destiny:           domain.DestinyRugPull,
		Status:            domain.TokenStatusActive,
		CreatedAt:         createdAt,
	}
}

func testTrader(id, tokenID string) *domain.Trader {
	return &domain.Trader{
		TraderID:            id,
		TokenID:             tokenID,
		Archetype:           domain.ArchetypeBot,
		Handle:              "ai_trader_" + id + "_bot",
		WalletAddress:       "Wallet" + id,
		TargetProfitPercent: 10,
		IsActive:            true,
		CreatedAt:           1700000000000,
	}
}

func ptr[T any](v T) *T {
	return &v
}
