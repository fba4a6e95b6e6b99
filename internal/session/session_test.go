package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/cache"
	"portfolio/internal/config"
)

// testValkeyClient returns a client on the test Valkey database. Skips the
// test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	// DB 15 keeps test keys away from development data.
	client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, 15)
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func operator(role string) *Data {
	return &Data{
		UserID:      uuid.New(),
		Email:       role + "@portfolio.local",
		DisplayName: "Operator " + role,
		Role:        role,
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("%s cookie not set", CookieName)
	return nil
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestCreateSetsScopedCookie(t *testing.T) {
	for _, secure := range []bool{false, true} {
		store := NewStore(testValkeyClient(t), secure)
		rec := httptest.NewRecorder()

		id, err := store.Create(context.Background(), rec, operator("admin"))
		require.NoError(t, err)
		assert.Len(t, id, idLength*2)

		c := sessionCookie(t, rec)
		assert.Equal(t, id, c.Value)
		assert.Equal(t, "/admin", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, secure, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, int(DefaultTTL.Seconds()), c.MaxAge)
	}
}

func TestCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()
	want := operator("staff")

	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, want)
	require.NoError(t, err)
	assert.False(t, want.CreatedAt.IsZero(), "Create stamps CreatedAt")

	got, err := store.Get(ctx, requestWith(sessionCookie(t, rec)))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, "staff", got.Role)
	assert.False(t, got.TwoFADone)

	ttl, err := client.TTL(ctx, keyPrefix+id).Result()
	require.NoError(t, err)
	assert.InDelta(t, DefaultTTL.Seconds(), ttl.Seconds(), 5)
}

func TestGetWithoutSession(t *testing.T) {
	store := NewStore(testValkeyClient(t), false)
	ctx := context.Background()

	tests := map[string]*http.Cookie{
		"no cookie":    nil,
		"empty cookie": {Name: CookieName, Value: ""},
		"unknown id":   {Name: CookieName, Value: "does-not-exist"},
		"other cookie": {Name: "pf_csrf", Value: "abc"},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx, requestWith(c))
			assert.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestGetExpiredKey(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	store.ttl = time.Second
	ctx := context.Background()

	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, operator("admin"))
	require.NoError(t, err)
	require.NoError(t, client.Del(ctx, keyPrefix+id).Err())

	got, err := store.Get(ctx, requestWith(sessionCookie(t, rec)))
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate(t *testing.T) {
	store := NewStore(testValkeyClient(t), false)
	ctx := context.Background()
	data := operator("staff")

	rec := httptest.NewRecorder()
	_, err := store.Create(ctx, rec, data)
	require.NoError(t, err)
	req := requestWith(sessionCookie(t, rec))

	data.DisplayName = "Renamed"
	require.NoError(t, store.Update(ctx, req, data))

	got, err := store.Get(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.DisplayName)

	err = store.Update(ctx, requestWith(nil), data)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRotate(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()
	data := operator("admin")

	createRec := httptest.NewRecorder()
	oldID, err := store.Create(ctx, createRec, data)
	require.NoError(t, err)
	oldReq := requestWith(sessionCookie(t, createRec))

	data.TwoFADone = true
	rotateRec := httptest.NewRecorder()
	require.NoError(t, store.Rotate(ctx, rotateRec, oldReq, data))

	newCookie := sessionCookie(t, rotateRec)
	assert.NotEqual(t, oldID, newCookie.Value)

	stale, err := store.Get(ctx, oldReq)
	require.NoError(t, err)
	assert.Nil(t, stale, "old id must stop working")

	fresh, err := store.Get(ctx, requestWith(newCookie))
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.True(t, fresh.TwoFADone)

	n, err := client.Exists(ctx, keyPrefix+oldID).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	err = store.Rotate(ctx, httptest.NewRecorder(), requestWith(nil), data)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDestroy(t *testing.T) {
	store := NewStore(testValkeyClient(t), false)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	_, err := store.Create(ctx, rec, operator("admin"))
	require.NoError(t, err)
	req := requestWith(sessionCookie(t, rec))

	out := httptest.NewRecorder()
	require.NoError(t, store.Destroy(ctx, out, req))
	cleared := sessionCookie(t, out)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Empty(t, cleared.Value)

	got, err := store.Get(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Without a cookie there is nothing to do.
	out = httptest.NewRecorder()
	assert.NoError(t, store.Destroy(ctx, out, requestWith(nil)))
	assert.Empty(t, out.Result().Cookies())
}

func TestGenerateIDIsRandomHex(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := generateID()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f]{64}$`, id)
		assert.False(t, seen[id], "duplicate id")
		seen[id] = true
	}
}
