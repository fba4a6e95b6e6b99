// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin interface. Both template sets are embedded and parsed once at
// startup; each page is paired with the base layout of its set.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/markdown"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/pagination"
	"portfolio/internal/session"
)

//go:embed templates
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title       string          // Page title for <title> tag
	Description string          // Meta description on public pages
	Section     string          // Active navigation section
	Session     *session.Data   // Current operator session (admin only)
	CSRFToken   string          // CSRF token for forms and admin scripts
	Profile     *models.Profile // Site owner, shown in public header and footer
	Flash       *session.Flash  // One-time notification message
	Data        map[string]any  // Page-specific data
}

// Pager feeds the shared "pager" template.
type Pager struct {
	Page  pagination.Page
	Base  string
	Query url.Values
}

// Renderer holds the parsed admin and public template sets.
type Renderer struct {
	templates map[string]*template.Template
	public    map[string]*template.Template
	funcMap   template.FuncMap
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithMediaURL sets the function that turns a stored media path into a
// public URL. The default prefixes "/media/".
func WithMediaURL(fn func(string) string) Option {
	return func(r *Renderer) {
		r.funcMap["media"] = func(path string) string {
			if path == "" {
				return ""
			}
			return fn(path)
		}
	}
}

// standaloneTemplates lists admin templates that render as full HTML pages
// without the base layout.
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

// New parses every embedded template. Each page is paired with the base
// layout of its set. When devMode is true, admin templates also load
// TailwindCSS from its CDN.
func New(devMode bool, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		public:    make(map[string]*template.Template),
		funcMap:   baseFuncs(devMode),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.parseSet("templates/admin", r.templates, standaloneTemplates); err != nil {
		return nil, err
	}
	if err := r.parseSet("templates/public", r.public, nil); err != nil {
		return nil, err
	}
	return r, nil
}

func baseFuncs(devMode bool) template.FuncMap {
	return template.FuncMap{
		"activeClass": func(current, target string) string {
			if current == target {
				return "bg-gray-900 text-white"
			}
			return "text-gray-300 hover:bg-gray-700 hover:text-white"
		},
		"navClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"isDev": func() bool {
			return devMode
		},
		"media": func(path string) string {
			if path == "" {
				return ""
			}
			return "/media/" + strings.TrimPrefix(path, "/")
		},
		"markdown": markdown.Render,
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"pageURL": pagination.URL,
		"truncate": func(n int, s string) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return strings.TrimSpace(string(runes[:n])) + "…"
		},
		"first": func(msgs []string) string {
			if len(msgs) == 0 {
				return ""
			}
			return msgs[0]
		},
	}
}

// parseSet parses every page in dir with dir/base.html into dst.
func (r *Renderer) parseSet(dir string, dst map[string]*template.Template, standalone map[string]bool) error {
	entries, err := fs.ReadDir(templateFS, dir)
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error
		if standalone[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, dir+"/"+name)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, dir+"/base.html", dir+"/"+name,
			)
		}
		if parseErr != nil {
			return fmt.Errorf("parse template %s/%s: %w", dir, name, parseErr)
		}
		dst[tmplName] = tmpl
	}
	return nil
}

// Page renders an admin page with status 200. Standalone pages (login and
// the 2FA screens) render without the admin layout.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}
	write(w, status, tmpl, execName, data)
}

// Public renders a public site page inside the public layout.
func (rn *Renderer) Public(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.public[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Data == nil {
		data.Data = map[string]any{}
	}
	write(w, status, tmpl, "base.html", data)
}

// write executes into a buffer first so a template error still yields a
// clean 500 instead of a half-written page.
func write(w http.ResponseWriter, status int, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", tmpl.Name(), "block", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
