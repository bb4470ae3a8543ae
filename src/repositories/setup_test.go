package repositories_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

const testUser = "repo-test-user"

// setupTestDB connects to FINBOARD_TEST_DATABASE_URL, applies the migrations
// and returns a pool. Tests are skipped when the variable is not set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("FINBOARD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FINBOARD_TEST_DATABASE_URL not set")
	}

	sqlDB, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(sqlDB, "../../migrations"))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanupTestData(t, pool)
		pool.Close()
	})
	cleanupTestData(t, pool)
	return pool
}

func cleanupTestData(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, `DELETE FROM portfolios WHERE user_id LIKE 'repo-test-%'`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM watchlist_items WHERE user_id LIKE 'repo-test-%'`)
	require.NoError(t, err)
}
