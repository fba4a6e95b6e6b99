package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedWithoutDatabase(t *testing.T) {
	ctx := context.Background()

	// Neither case touches the nil pool.
	assert.NoError(t, Seed(ctx, nil, Superuser{}))
	assert.ErrorIs(t, Seed(ctx, nil, Superuser{Email: "root@example.com"}), ErrIncompleteSuperuser)
	assert.ErrorIs(t, Seed(ctx, nil, Superuser{Password: "pw"}), ErrIncompleteSuperuser)
}

func TestSeedCreatesAdminOnce(t *testing.T) {
	db := testConn(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE email = 'seed-test@example.com'`)
	})

	su := Superuser{Email: " Seed-Test@Example.com", Password: "s3cret-pass"}
	require.NoError(t, Seed(ctx, db, su))
	su.Password = "another-pass"
	require.NoError(t, Seed(ctx, db, su))

	var (
		count   int
		role    string
		name    string
		enabled bool
	)
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(role), MIN(display_name), BOOL_OR(totp_enabled)
		FROM users WHERE email = 'seed-test@example.com'`).Scan(&count, &role, &name, &enabled)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "admin", role)
	assert.Equal(t, "Admin", name, "display name defaults")
	assert.False(t, enabled, "the superuser enrolls TOTP on first sign-in")
}
