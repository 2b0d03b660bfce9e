// Package migrations embeds and applies the schema of every storage backend.
package migrations

import "embed"

// PostgresFS embeds all PostgreSQL migration files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds all ClickHouse migration files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// SqliteFS embeds all SQLite migration files.
//
//go:embed sqlite/*.sql
var SqliteFS embed.FS
