// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Remember returns the value cached under key, or calls load, caches its
// result for ttl and returns it. Cache failures never fail the call: a
// broken or corrupt entry is treated as a miss and a failed write is only
// logged. Concurrent misses each call load; the last write wins.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := Lookup[T](ctx, c, key); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	Put(ctx, c, key, v, ttl)
	return v, nil
}

// Put JSON-encodes v and stores it, logging instead of returning failures.
func Put[T any](ctx context.Context, c Cache, key string, v T, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.Set(ctx, key, b, ttl); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// Forget deletes key, logging instead of returning failures.
func Forget(ctx context.Context, c Cache, key string) {
	if err := c.Delete(ctx, key); err != nil {
		slog.Warn("cache delete failed", "key", key, "error", err)
		return
	}
	slog.Debug("cache invalidated", "key", key)
}

// Lookup decodes the value cached under key. Misses, backend errors and
// corrupt entries all report false.
func Lookup[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var v T
	b, err := c.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		slog.Warn("cache decode failed", "key", key, "error", err)
		return v, false
	}
	slog.Debug("cache hit", "key", key)
	return v, true
}
