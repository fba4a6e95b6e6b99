// Shared fixtures for the handler tests that need PostgreSQL and Valkey.
// Connection details come from the same environment variables the server
// reads; tests skip when either service is down.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/service"
	"portfolio/internal/session"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

// testValkeyDB keeps test sessions away from a developer's real ones.
const testValkeyDB = 15

// integrationDeps dials the services described by the environment.
func integrationDeps(t *testing.T) (*sql.DB, *redis.Client) {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))

	vk, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, testValkeyDB)
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	t.Cleanup(func() {
		if keys, _ := vk.Keys(ctx, "session:*").Result(); len(keys) > 0 {
			vk.Del(ctx, keys...)
		}
		vk.Close()
	})
	return db, vk
}

// testEnv wires the handlers the way main does, minus the router.
type testEnv struct {
	DB        *sql.DB
	Sessions  *session.Store
	UserStore *store.UserStore
	Stores    service.Stores
	Landing   *service.Landing
	Admin     *Admin
	Auth      *Auth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, vk := integrationDeps(t)

	renderer, err := render.New(true)
	require.NoError(t, err)
	media, err := storage.NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)

	env := &testEnv{
		DB:        db,
		Sessions:  session.NewStore(vk, false),
		UserStore: store.NewUserStore(db),
		Stores: service.Stores{
			Profiles:     store.NewProfileStore(db),
			Projects:     store.NewProjectStore(db),
			Skills:       store.NewSkillStore(db),
			Testimonials: store.NewTestimonialStore(db),
			Posts:        store.NewBlogPostStore(db),
			Messages:     store.NewContactMessageStore(db),
			Dashboard:    store.NewDashboardStore(db),
		},
	}
	s := env.Stores
	env.Landing = service.NewLanding(cache.NewMemory(), s.Profiles, s.Projects, s.Skills, s.Testimonials, s.Posts)
	env.Admin = NewAdmin(renderer, service.NewBackoffice(s, env.Landing), media)
	env.Auth = NewAuth(renderer, env.Sessions, env.UserStore)
	return env
}

// testOperator creates a throwaway admin account with password.
func testOperator(t *testing.T, env *testEnv, password string) *models.User {
	t.Helper()
	ctx := context.Background()
	email := "op-" + uuid.NewString()[:8] + "@portfolio.test"
	u, err := env.UserStore.Create(ctx, email, password, "Test Operator", models.RoleAdmin)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.UserStore.Delete(ctx, u.ID) })
	return u
}

func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam sets one route parameter as chi would after matching.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// cleanLike removes rows of table whose column contains mark.
func cleanLike(t *testing.T, db *sql.DB, table, column, mark string) {
	t.Helper()
	_, _ = db.Exec("DELETE FROM "+table+" WHERE "+column+" LIKE $1", "%"+mark+"%")
}
