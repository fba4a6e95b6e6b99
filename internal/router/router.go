// Package router sets up all HTTP routes and middleware chains for the
// portfolio site. It organizes routes into public, API and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/session"
	"portfolio/web"
)

// Handlers groups the handler sets mounted by New.
type Handlers struct {
	Public *handlers.Public
	API    *handlers.API
	Auth   *handlers.Auth
	Admin  *handlers.Admin
}

// Options carries the deployment-dependent parts of the route table.
type Options struct {
	Secure       bool
	AllowedHosts []string
	CORSOrigins  []string

	// Media serves /media/* when uploads live on local disk. Nil when
	// media is served from S3.
	Media http.Handler

	ContactLimiter *middleware.RateLimiter
	LoginLimiter   *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.Secure))
	r.Use(middleware.AllowedHosts(opts.AllowedHosts))

	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
	if opts.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", opts.Media))
	}

	csrf := middleware.NewCSRF(opts.Secure)

	// Public site. CSRF covers the contact forms.
	r.Group(func(r chi.Router) {
		r.Use(csrf)

		r.Get("/", h.Public.Index)
		r.With(limit(opts.ContactLimiter)).Post("/", h.Public.Index)
		r.Get("/projects/", h.Public.Projects)
		r.Get("/projects/{id}/", h.Public.ProjectDetail)
		r.Get("/blog/", h.Public.Blog)
		r.Get("/blog/feed/", h.Public.Feed)
		r.Get("/blog/{slug}/", h.Public.BlogDetail)
		r.Get("/search/", h.Public.Search)
		r.Get("/contact/", h.Public.Contact)
		r.With(limit(opts.ContactLimiter)).Post("/contact/", h.Public.Contact)
		r.Get("/sitemap.xml", h.Public.Sitemap)
	})

	// Read-only JSON API.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}).Handler)

		r.Get("/projects", h.API.Projects)
		r.Get("/projects/{id}", h.API.Project)
		r.Get("/skills", h.API.Skills)
		r.Get("/skills/{id}", h.API.Skill)
		r.Get("/blog", h.API.Posts)
		r.Get("/blog/{id}", h.API.Post)
	})

	// Admin routes require a session and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(csrf)

		// Auth pages, accessible without a session.
		r.Get("/login", h.Auth.LoginPage)
		r.With(limit(opts.LoginLimiter)).Post("/login", h.Auth.LoginSubmit)
		r.Post("/logout", h.Auth.Logout)

		// 2FA requires auth but not a completed 2FA step.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", h.Auth.TwoFASetupPage)
			r.Post("/2fa/setup", h.Auth.TwoFAVerifySubmit)
			r.Get("/2fa/verify", h.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", h.Auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified back-office.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", h.Admin.Dashboard)
			r.Route("/api", func(r chi.Router) { mountAdminAPI(r, h.Admin) })
		})
	})

	r.NotFound(appendSlash(r, h.Public.NotFound))

	return r
}

// mountAdminAPI registers the back-office JSON endpoints. Deletes are
// reserved for admins; staff may create and edit.
func mountAdminAPI(r chi.Router, a *handlers.Admin) {
	del := r.With(middleware.RequireAdmin)

	r.Get("/dashboard", a.DashboardJSON)
	r.Post("/media", a.MediaUpload)

	r.Get("/profile", a.ProfileGet)
	r.With(middleware.RequireAdmin).Post("/profile", a.ProfileCreate)
	r.With(middleware.RequireAdmin).Put("/profile/{id}", a.ProfileUpdate)
	r.Delete("/profile/{id}", a.ProfileDelete)

	r.Get("/projects", a.ProjectsList)
	r.Post("/projects", a.ProjectCreate)
	r.Get("/projects/{id}", a.ProjectGet)
	r.Put("/projects/{id}", a.ProjectUpdate)
	r.Patch("/projects/{id}", a.ProjectPatch)
	del.Delete("/projects/{id}", a.ProjectDelete)

	r.Get("/skills", a.SkillsList)
	r.Get("/skills/categories", a.SkillCategories)
	r.Post("/skills", a.SkillCreate)
	r.Get("/skills/{id}", a.SkillGet)
	r.Put("/skills/{id}", a.SkillUpdate)
	r.Patch("/skills/{id}", a.SkillPatch)
	del.Delete("/skills/{id}", a.SkillDelete)

	r.Get("/testimonials", a.TestimonialsList)
	r.Post("/testimonials", a.TestimonialCreate)
	r.Get("/testimonials/{id}", a.TestimonialGet)
	r.Put("/testimonials/{id}", a.TestimonialUpdate)
	r.Patch("/testimonials/{id}", a.TestimonialPatch)
	del.Delete("/testimonials/{id}", a.TestimonialDelete)

	r.Get("/posts", a.PostsList)
	r.Post("/posts", a.PostCreate)
	r.Get("/posts/{id}", a.PostGet)
	r.Put("/posts/{id}", a.PostUpdate)
	r.Patch("/posts/{id}", a.PostPatch)
	del.Delete("/posts/{id}", a.PostDelete)

	r.Get("/messages", a.MessagesList)
	r.Post("/messages/mark-read", a.MessagesMarkRead)
	r.Post("/messages/mark-unread", a.MessagesMarkUnread)
	r.Get("/messages/{id}", a.MessageGet)
	r.Patch("/messages/{id}", a.MessagePatch)
	del.Delete("/messages/{id}", a.MessageDelete)
}

// limit applies rl when it is configured.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// appendSlash redirects GET and HEAD requests for a path missing its
// trailing slash when the slashed path is routable. Everything else falls
// through to notFound.
func appendSlash(routes chi.Routes, notFound http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && !strings.HasSuffix(path, "/") {
			if routes.Match(chi.NewRouteContext(), r.Method, path+"/") {
				target := path + "/"
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}
		}
		notFound(w, r)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
