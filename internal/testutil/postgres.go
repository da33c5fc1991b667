package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/infrastructure/database"
)

// NewTestPool connects to TEST_DATABASE_URL, applies the migrations and
// empties the catalog tables. The test is skipped when the variable is unset.
func NewTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	require.NoError(t, database.MigrateDSN(ctx, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE books, authors, categories, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}
