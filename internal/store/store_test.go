// Integration tests in this package run against the PostgreSQL named by
// the POSTGRES_* variables and skip when it is unreachable.
package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"portfolio/internal/config"
	"portfolio/internal/database"
)

// testDB connects with the server's own configuration and migrates the
// schema. The connection closes when the test ends.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.Connect(context.Background(), cfg.DSN())
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// marker returns a unique token tests embed in text columns so that
// listings can be narrowed to rows the test created.
func marker() string {
	return "zz" + uuid.NewString()[:8]
}

func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		_, _ = db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanLike removes rows of table whose column contains mark.
func cleanLike(t *testing.T, db *sql.DB, table, column, mark string) {
	t.Helper()
	_, _ = db.Exec("DELETE FROM "+table+" WHERE "+column+" LIKE $1", "%"+mark+"%")
}

func boolPtr(b bool) *bool { return &b }
