package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage/sqlite"
)

func TestSplitStatements(t *testing.T) {
	input := `-- header comment
CREATE TABLE a (x String) ENGINE = Memory;

-- second
CREATE TABLE b (y String) ENGINE = Memory;
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x String) ENGINE = Memory", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y String) ENGINE = Memory", stmts[1])
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'it''s'; SELECT 1;"))
	assert.Error(t, validateNoSemicolonInStrings("SELECT 'a;b';"))
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default:@localhost:9000/memesim")
	require.NoError(t, err)
	assert.Equal(t, "memesim", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreSplittable(t *testing.T) {
	files, err := sqlFiles(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		data, err := ClickhouseFS.ReadFile("clickhouse/" + f)
		require.NoError(t, err)
		assert.NoError(t, validateNoSemicolonInStrings(string(data)), f)
		assert.NotEmpty(t, splitStatements(string(data)), f)
	}

	pg, err := sqlFiles(PostgresFS, "postgres")
	require.NoError(t, err)
	assert.Equal(t, "001_tokens.sql", pg[0])
}

func TestRunSqliteMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "sim.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunSqliteMigrations(ctx, db))
	require.NoError(t, RunSqliteMigrations(ctx, db))

	store := sqlite.NewTokenStore(db)
	require.NoError(t, store.Insert(ctx, &domain.Token{
		TokenID:     "tok",
		Name:        "Doge Two",
		Symbol:      "DOGE2",
		TotalSupply: 1_000_000,
		Destiny:     domain.DestinySurvival,
		Status:      domain.TokenStatusActive,
	}))
	got, err := store.GetByID(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "DOGE2", got.Symbol)
}
