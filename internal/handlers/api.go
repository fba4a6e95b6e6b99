// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/pagination"
	"portfolio/internal/store"
)

// APIPageSize is the page size of every API list endpoint.
const APIPageSize = 10

// SkillReader is the read side of the skill store.
type SkillReader interface {
	List(ctx context.Context, f store.SkillFilter, limit, offset int) ([]models.Skill, error)
	Count(ctx context.Context, f store.SkillFilter) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
}

// apiPage is the page-number pagination envelope.
type apiPage[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// API serves the read-only JSON API over projects, skills and published
// blog posts.
type API struct {
	projects ProjectReader
	skills   SkillReader
	posts    PostReader
	siteURL  string
}

// NewAPI creates the API handler group. siteURL prefixes pagination links.
func NewAPI(projects ProjectReader, skills SkillReader, posts PostReader, siteURL string) *API {
	return &API{
		projects: projects,
		skills:   skills,
		posts:    posts,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

// Projects lists all projects, newest first.
func (a *API) Projects(w http.ResponseWriter, r *http.Request) {
	var f store.ProjectFilter
	paginate(a, w, r,
		func(ctx context.Context) (int, error) { return a.projects.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.Project, error) {
			return a.projects.List(ctx, f, limit, offset)
		})
}

// Project returns one project.
func (a *API) Project(w http.ResponseWriter, r *http.Request) {
	detail(w, r, a.projects.FindByID)
}

// Skills lists all skills.
func (a *API) Skills(w http.ResponseWriter, r *http.Request) {
	var f store.SkillFilter
	paginate(a, w, r,
		func(ctx context.Context) (int, error) { return a.skills.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.Skill, error) {
			return a.skills.List(ctx, f, limit, offset)
		})
}

// Skill returns one skill.
func (a *API) Skill(w http.ResponseWriter, r *http.Request) {
	detail(w, r, a.skills.FindByID)
}

// Posts lists published blog posts, newest first.
func (a *API) Posts(w http.ResponseWriter, r *http.Request) {
	f := store.PublishedOnly()
	paginate(a, w, r,
		func(ctx context.Context) (int, error) { return a.posts.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
			return a.posts.List(ctx, f, limit, offset)
		})
}

// Post returns one published blog post. Drafts are not found.
func (a *API) Post(w http.ResponseWriter, r *http.Request) {
	detail(w, r, func(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
		p, err := a.posts.FindByID(ctx, id)
		if err != nil || p == nil || !p.Published {
			return nil, err
		}
		return p, nil
	})
}

// paginate answers a list request. A missing page means the first; "last"
// means the last; anything else that is not a page in range is a 404.
func paginate[T any](a *API, w http.ResponseWriter, r *http.Request,
	count func(context.Context) (int, error), load func(context.Context, int, int) ([]T, error)) {
	ctx := r.Context()

	total, err := count(ctx)
	if err != nil {
		slog.Error("api count failed", "path", r.URL.Path, "error", err)
		writeAPIDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}

	pages := pagination.TotalPages(total, APIPageSize)
	number, ok := apiPageNumber(r.URL.Query().Get("page"), pages)
	if !ok {
		writeAPIDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}
	pg := pagination.Page{Number: number, PerPage: APIPageSize, TotalItems: total, TotalPages: pages}

	items, err := load(ctx, pg.Limit(), pg.Offset())
	if err != nil {
		slog.Error("api list failed", "path", r.URL.Path, "error", err)
		writeAPIDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	if items == nil {
		items = []T{}
	}

	body := apiPage[T]{Count: total, Results: items}
	if pg.HasNext() {
		next := a.pageLink(r, pg.Next())
		body.Next = &next
	}
	if pg.HasPrev() {
		prev := a.pageLink(r, pg.Prev())
		body.Previous = &prev
	}
	writeJSON(w, http.StatusOK, body)
}

// apiPageNumber resolves the page token strictly against pages.
func apiPageNumber(raw string, pages int) (int, bool) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return 1, true
	case "last":
		return pages, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > pages {
		return 0, false
	}
	return n, true
}

// pageLink builds the absolute URL of page n, keeping other query
// parameters. The first page carries no page parameter.
func (a *API) pageLink(r *http.Request, n int) string {
	q := url.Values{}
	for k, v := range r.URL.Query() {
		q[k] = v
	}
	q.Del("page")
	if n > 1 {
		q.Set("page", strconv.Itoa(n))
	}
	link := a.siteURL + r.URL.Path
	if enc := q.Encode(); enc != "" {
		link += "?" + enc
	}
	return link
}

func detail[T any](w http.ResponseWriter, r *http.Request, find func(context.Context, uuid.UUID) (*T, error)) {
	id, ok := urlID(r)
	if !ok {
		writeAPIDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	v, err := find(r.Context(), id)
	if err != nil {
		slog.Error("api detail failed", "path", r.URL.Path, "error", err)
		writeAPIDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	if v == nil {
		writeAPIDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeAPIDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
