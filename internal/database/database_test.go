package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/config"
)

// testConn connects with the server's configuration and skips when
// PostgreSQL is unreachable.
func testConn(t *testing.T) *sql.DB {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := Connect(context.Background(), cfg.DSN())
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectPool(t *testing.T) {
	db := testConn(t)
	assert.Equal(t, 25, db.Stats().MaxOpenConnections)
	assert.NoError(t, db.Ping())
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://nobody:x@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database ping")
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := testConn(t)
	ctx := context.Background()

	// The second run finds nothing pending.
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db))

	for _, table := range []string{
		"users", "profiles", "projects", "skills", "testimonials",
		"blog_posts", "tags", "blog_post_tags", "contact_messages",
	} {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s", table)
	}
}

func TestSchemaConstraints(t *testing.T) {
	db := testConn(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))

	tests := []struct {
		name string
		stmt string
	}{
		{"rating above five", `INSERT INTO testimonials (client_name, client_position, content, rating) VALUES ('zz-check', 'QA', 'x', 6)`},
		{"rating below one", `INSERT INTO testimonials (client_name, client_position, content, rating) VALUES ('zz-check', 'QA', 'x', 0)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ExecContext(ctx, tt.stmt)
			if err == nil {
				_, _ = db.ExecContext(ctx, `DELETE FROM testimonials WHERE client_name = 'zz-check'`)
			}
			assert.Error(t, err)
		})
	}
}
