// Package web provides embedded static assets (CSS, JS) for the public site
// and the admin interface. They are served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. The admin layout also
// pulls Tailwind from its CDN in development; admin.css covers the few
// rules the production build needs without it.
//
//go:embed all:static
var StaticFS embed.FS
