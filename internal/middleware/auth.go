// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// adminAPIPrefix marks JSON endpoints, which get status codes instead
	// of redirects.
	adminAPIPrefix = "/admin/api/"
)

// LoadSession retrieves the session from Valkey and stores it in the
// request context. It does not enforce authentication.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Treat a broken session backend as logged out.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAdminAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, adminAPIPrefix)
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

// RequireAuth redirects unauthenticated users to the login page, or
// answers 401 on the admin JSON API. Must run after LoadSession.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			if isAdminAPI(r) {
				jsonError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loginURL sends a GET for a back-office page back to it after sign-in.
func loginURL(r *http.Request) string {
	if r.Method != http.MethodGet || r.URL.Path == "/admin/" || strings.HasPrefix(r.URL.Path, "/admin/2fa/") {
		return "/admin/login"
	}
	return "/admin/login?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
}

// Require2FA sends users who haven't completed 2FA to the setup page.
// Must run after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess != nil && !sess.TwoFADone {
			if isAdminAPI(r) {
				jsonError(w, http.StatusForbidden, "two-factor authentication required")
				return
			}
			http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the operator is not an admin. Staff keep
// read and edit access; routes wrapped with this are admin-only.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || !models.Role(sess.Role).IsAdmin() {
			if isAdminAPI(r) {
				jsonError(w, http.StatusForbidden, "admin role required")
				return
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
