// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio/internal/contact"
	"portfolio/internal/models"
	"portfolio/internal/pagination"
	"portfolio/internal/render"
	"portfolio/internal/seo"
	"portfolio/internal/service"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

// Public page sizes and feed length.
const (
	ProjectsPerPage = 6
	PostsPerPage    = 5
	FeedItems       = 10
)

// Feed metadata.
const (
	feedTitle       = "Your Portfolio Blog"
	feedDescription = "Latest blog posts from my portfolio"
	feedPath        = "/blog/feed/"
)

// LandingLoader supplies the cached landing content.
type LandingLoader interface {
	Load(ctx context.Context) (*service.LandingData, error)
	Profile(ctx context.Context) (*models.Profile, error)
}

// ProjectReader is the read side of the project store.
type ProjectReader interface {
	List(ctx context.Context, f store.ProjectFilter, limit, offset int) ([]models.Project, error)
	Count(ctx context.Context, f store.ProjectFilter) (int, error)
	Search(ctx context.Context, term string) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// PostReader is the read side of the blog store.
type PostReader interface {
	List(ctx context.Context, f store.PostFilter, limit, offset int) ([]models.BlogPost, error)
	Count(ctx context.Context, f store.PostFilter) (int, error)
	Latest(ctx context.Context, limit int) ([]models.BlogPost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	PublishedTags(ctx context.Context) ([]store.TagCount, error)
}

// ContactSubmitter runs the contact intake pipeline.
type ContactSubmitter interface {
	Submit(ctx context.Context, f contact.Form) (*contact.Result, error)
}

// Public groups handlers for the visitor-facing site.
type Public struct {
	renderer *render.Renderer
	landing  LandingLoader
	projects ProjectReader
	posts    PostReader
	contact  ContactSubmitter
	siteURL  string
	secure   bool
	now      func() time.Time
}

// NewPublic creates a new Public handler group. siteURL is the absolute
// origin used in the feed and sitemap; secure marks the flash cookie Secure.
func NewPublic(renderer *render.Renderer, landing LandingLoader, projects ProjectReader, posts PostReader,
	submitter ContactSubmitter, siteURL string, secure bool) *Public {
	return &Public{
		renderer: renderer,
		landing:  landing,
		projects: projects,
		posts:    posts,
		contact:  submitter,
		siteURL:  siteURL,
		secure:   secure,
		now:      time.Now,
	}
}

// page builds the common PageData: the owner profile for the layout and
// any pending flash message.
func (p *Public) page(w http.ResponseWriter, r *http.Request, section, title string, data map[string]any) *render.PageData {
	profile, err := p.landing.Profile(r.Context())
	if err != nil {
		slog.Warn("load profile for layout failed", "error", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return &render.PageData{
		Title:   title,
		Section: section,
		Profile: profile,
		Flash:   session.PopFlash(w, r),
		Data:    data,
	}
}

// formData seeds the contact form partial. The timestamp is issued fresh on
// every render so the minimum fill time counts from this page view.
func (p *Public) formData(data map[string]any, action string, form contact.Form, errs contact.Errors) map[string]any {
	data["FormAction"] = action
	data["FormTimestamp"] = strconv.FormatFloat(float64(p.now().UnixMilli())/1000, 'f', 3, 64)
	data["Form"] = form
	data["Errors"] = errs
	return data
}

// Index renders the landing page. A POST carrying a name field is treated
// as an inline contact submission; any other POST just renders the page.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := parseContactForm(w, r); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if _, ok := r.PostForm["name"]; ok {
			p.submitContact(w, r, "/#contact", p.renderIndex)
			return
		}
	}
	p.renderIndex(w, r, http.StatusOK, contact.Form{}, nil, nil)
}

func (p *Public) renderIndex(w http.ResponseWriter, r *http.Request, status int, form contact.Form, errs contact.Errors, flash *session.Flash) {
	landing, err := p.landing.Load(r.Context())
	if err != nil {
		slog.Error("load landing content failed", "error", err)
		p.serverError(w, r)
		return
	}
	data := p.formData(map[string]any{"Landing": landing}, "/", form, errs)
	pd := p.page(w, r, "home", "", data)
	pd.Description = landingDescription(landing.Profile)
	if flash != nil {
		pd.Flash = flash
	}
	p.renderer.Public(w, r, status, "index", pd)
}

func landingDescription(profile *models.Profile) string {
	if profile == nil {
		return ""
	}
	return profile.Bio
}

// Projects lists all projects, newest first.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var filter store.ProjectFilter

	total, err := p.projects.Count(ctx, filter)
	if err != nil {
		slog.Error("count projects failed", "error", err)
		p.serverError(w, r)
		return
	}
	pg := pagination.Resolve(r.URL.Query().Get("page"), total, ProjectsPerPage)

	items, err := p.projects.List(ctx, filter, pg.Limit(), pg.Offset())
	if err != nil {
		slog.Error("list projects failed", "error", err)
		p.serverError(w, r)
		return
	}

	p.renderer.Public(w, r, http.StatusOK, "projects", p.page(w, r, "projects", "Projects", map[string]any{
		"Projects": items,
		"Pager":    render.Pager{Page: pg, Base: "/projects/", Query: r.URL.Query()},
	}))
}

// ProjectDetail shows one project by id.
func (p *Public) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		p.NotFound(w, r)
		return
	}
	project, err := p.projects.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find project failed", "error", err, "id", id)
		p.serverError(w, r)
		return
	}
	if project == nil {
		p.NotFound(w, r)
		return
	}

	pd := p.page(w, r, "projects", project.Title, map[string]any{"Project": project})
	pd.Description = truncateText(project.Description, 160)
	p.renderer.Public(w, r, http.StatusOK, "project_detail", pd)
}

// Blog lists published posts, newest first, optionally narrowed to a tag.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := store.PublishedOnly()
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	filter.Tag = tag

	total, err := p.posts.Count(ctx, filter)
	if err != nil {
		slog.Error("count posts failed", "error", err)
		p.serverError(w, r)
		return
	}
	pg := pagination.Resolve(r.URL.Query().Get("page"), total, PostsPerPage)

	posts, err := p.posts.List(ctx, filter, pg.Limit(), pg.Offset())
	if err != nil {
		slog.Error("list posts failed", "error", err)
		p.serverError(w, r)
		return
	}

	tags, err := p.posts.PublishedTags(ctx)
	if err != nil {
		slog.Warn("list tags failed", "error", err)
	}

	p.renderer.Public(w, r, http.StatusOK, "blog", p.page(w, r, "blog", "Blog", map[string]any{
		"Posts": posts,
		"Tag":   tag,
		"Tags":  tags,
		"Pager": render.Pager{Page: pg, Base: "/blog/", Query: r.URL.Query()},
	}))
}

// BlogDetail shows one published post by slug. Unpublished posts are
// reported as missing to everyone, operators included.
func (p *Public) BlogDetail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	post, err := p.posts.FindPublishedBySlug(r.Context(), slugParam)
	if err != nil {
		slog.Error("find post failed", "error", err, "slug", slugParam)
		p.serverError(w, r)
		return
	}
	if post == nil {
		p.NotFound(w, r)
		return
	}

	pd := p.page(w, r, "blog", post.Title, map[string]any{"Post": post})
	pd.Description = post.Excerpt
	p.renderer.Public(w, r, http.StatusOK, "blog_detail", pd)
}

// Search matches projects against the q parameter. A blank query shows the
// form with no results.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var results []models.Project
	if q != "" {
		var err error
		results, err = p.projects.Search(r.Context(), q)
		if err != nil {
			slog.Error("search projects failed", "error", err)
			p.serverError(w, r)
			return
		}
	}

	p.renderer.Public(w, r, http.StatusOK, "search", p.page(w, r, "", "Search", map[string]any{
		"Query":   q,
		"Results": results,
	}))
}

// Contact shows the standalone contact page and accepts its submissions.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := parseContactForm(w, r); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		p.submitContact(w, r, "/contact/", p.renderContact)
		return
	}
	p.renderContact(w, r, http.StatusOK, contact.Form{}, nil, nil)
}

func (p *Public) renderContact(w http.ResponseWriter, r *http.Request, status int, form contact.Form, errs contact.Errors, flash *session.Flash) {
	pd := p.page(w, r, "contact", "Contact", p.formData(map[string]any{}, "/contact/", form, errs))
	if flash != nil {
		pd.Flash = flash
	}
	p.renderer.Public(w, r, status, "contact", pd)
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.Public(w, r, http.StatusNotFound, "not_found", p.page(w, r, "", "Not Found", nil))
}

func (p *Public) serverError(w http.ResponseWriter, r *http.Request) {
	p.renderer.Public(w, r, http.StatusInternalServerError, "error", &render.PageData{
		Title: "Error",
		Data:  map[string]any{},
	})
}

// Feed serves the RSS feed of the latest published posts.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.Latest(r.Context(), FeedItems)
	if err != nil {
		slog.Error("load feed posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	feed := seo.Feed{Title: feedTitle, Path: "/blog/", Description: feedDescription}
	for _, post := range posts {
		feed.Items = append(feed.Items, seo.FeedItem{
			Title:       post.Title,
			Path:        postPath(post.Slug),
			Description: post.Excerpt,
			Published:   post.CreatedAt,
			Categories:  post.TagNames(),
		})
	}

	body, err := seo.BuildRSS(p.siteURL, feedPath, feed)
	if err != nil {
		slog.Error("build rss failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write(body)
}

// Sitemap serves sitemap.xml covering the home page, every project and
// every published post.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := p.projects.List(ctx, store.ProjectFilter{}, 0, 0)
	if err != nil {
		slog.Error("list projects for sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	posts, err := p.posts.List(ctx, store.PublishedOnly(), 0, 0)
	if err != nil {
		slog.Error("list posts for sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	b := seo.NewSitemapBuilder(p.siteURL)
	b.AddHomepage()
	for _, project := range projects {
		b.AddProject(projectPath(project.ID), project.DateCreated)
	}
	for _, post := range posts {
		b.AddPost(postPath(post.Slug), post.UpdatedAt)
	}

	body, err := b.Build()
	if err != nil {
		slog.Error("build sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func projectPath(id uuid.UUID) string { return "/projects/" + id.String() + "/" }

func postPath(slug string) string { return "/blog/" + slug + "/" }

// truncateText shortens s to at most n runes, appending an ellipsis.
func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
