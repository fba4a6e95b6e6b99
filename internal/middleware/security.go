// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// contentSecurityPolicy allows same-origin assets plus the admin CDN
// scripts used in development. Inline styles are permitted for the syntax
// highlighter output.
const contentSecurityPolicy = "default-src 'self'; img-src 'self' data: https:; " +
	"style-src 'self' 'unsafe-inline'; " +
	"script-src 'self' https://cdn.tailwindcss.com; " +
	"frame-ancestors 'self'; base-uri 'self'; form-action 'self'"

// hstsPolicy is sent only when the site is served over TLS.
const hstsPolicy = "max-age=31536000; includeSubDomains"

// SecureHeaders adds security-related HTTP headers to every response.
// With hsts set, browsers are told to stay on HTTPS. Back-office responses
// are never cached.
func SecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			// Disable the legacy XSS filter; CSP covers it.
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "interest-cohort=()")
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			if hsts {
				h.Set("Strict-Transport-Security", hstsPolicy)
			}
			if strings.HasPrefix(r.URL.Path, "/admin") {
				h.Set("Cache-Control", "no-store")
			}

			next.ServeHTTP(w, r)
		})
	}
}
