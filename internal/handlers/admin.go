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

	"github.com/google/uuid"

	"portfolio/internal/render"
	"portfolio/internal/service"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

// Admin groups the back-office handlers: the dashboard page and the JSON
// API under /admin/api.
type Admin struct {
	renderer   *render.Renderer
	backoffice *service.Backoffice
	media      storage.Storage
	now        func() time.Time
}

// NewAdmin creates a new Admin handler group. media may be nil, in which
// case uploads answer 503.
func NewAdmin(renderer *render.Renderer, backoffice *service.Backoffice, media storage.Storage) *Admin {
	return &Admin{
		renderer:   renderer,
		backoffice: backoffice,
		media:      media,
		now:        time.Now,
	}
}

// respond writes v with status, or maps err.
func respond[T any](w http.ResponseWriter, r *http.Request, status int, v T, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status, v)
}

// requireID parses {id} and answers 404 when it is not a UUID.
func requireID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := urlID(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Not found.")
	}
	return id, ok
}

// decodeBody decodes the JSON body into v and answers 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// listParams holds the query parameters shared by every list endpoint.
type listParams struct {
	search string
	page   string
}

func readListParams(r *http.Request) listParams {
	q := r.URL.Query()
	return listParams{search: strings.TrimSpace(q.Get("q")), page: q.Get("page")}
}

// boolPatch is the body of the single-flag PATCH endpoints.
type boolPatch map[string]*bool

// flag extracts the named flag from a PATCH body.
func flag(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	var body boolPatch
	if !decodeBody(w, r, &body) {
		return false, false
	}
	v, ok := body[name]
	if !ok || v == nil || len(body) != 1 {
		writeServiceError(w, r, &service.ValidationError{Fields: service.FieldErrors{
			name: {"Send exactly one boolean field named " + strconv.Quote(name) + "."},
		}})
		return false, false
	}
	return *v, true
}

// --- Dashboard ---

// Dashboard renders the back-office overview page.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.backoffice.Dashboard(r.Context())
	if err != nil {
		slog.Error("load dashboard failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"Dashboard": d},
	})
}

// DashboardJSON returns the overview as JSON.
func (a *Admin) DashboardJSON(w http.ResponseWriter, r *http.Request) {
	d, err := a.backoffice.Dashboard(r.Context())
	respond(w, r, http.StatusOK, d, err)
}

// --- Profile ---

// ProfileGet returns the site profile.
func (a *Admin) ProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.backoffice.Profile(r.Context())
	respond(w, r, http.StatusOK, p, err)
}

// ProfileCreate creates the profile. Only one may ever exist.
func (a *Admin) ProfileCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := a.backoffice.CreateProfile(r.Context(), in)
	respond(w, r, http.StatusCreated, p, err)
}

// ProfileUpdate replaces the profile fields.
func (a *Admin) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var in service.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := a.backoffice.UpdateProfile(r.Context(), id, in)
	respond(w, r, http.StatusOK, p, err)
}

// ProfileDelete always refuses.
func (a *Admin) ProfileDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	writeServiceError(w, r, a.backoffice.DeleteProfile(r.Context(), id))
}

// --- Projects ---

// ProjectsList lists projects. Filters: q, featured, date_created.
func (a *Admin) ProjectsList(w http.ResponseWriter, r *http.Request) {
	lp := readListParams(r)
	q := r.URL.Query()

	featured, err := service.ParseBoolFilter("featured", q.Get("featured"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	created, err := service.ParseDateFilter(q.Get("date_created"), a.now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	l, err := a.backoffice.ListProjects(r.Context(), store.ProjectFilter{
		Search: lp.search, Featured: featured, Created: created,
	}, lp.page)
	respond(w, r, http.StatusOK, l, err)
}

// ProjectGet returns one project.
func (a *Admin) ProjectGet(w http.ResponseWriter, r *http.Request) {
	if id, ok := requireID(w, r); ok {
		p, err := a.backoffice.Project(r.Context(), id)
		respond(w, r, http.StatusOK, p, err)
	}
}

// ProjectCreate adds a project.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := a.backoffice.CreateProject(r.Context(), in)
	respond(w, r, http.StatusCreated, p, err)
}

// ProjectUpdate replaces a project.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var in service.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := a.backoffice.UpdateProject(r.Context(), id, in)
	respond(w, r, http.StatusOK, p, err)
}

// ProjectPatch toggles the featured flag.
func (a *Admin) ProjectPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	featured, ok := flag(w, r, "featured")
	if !ok {
		return
	}
	p, err := a.backoffice.SetProjectFeatured(r.Context(), id, featured)
	respond(w, r, http.StatusOK, p, err)
}

// ProjectDelete removes a project.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.backoffice.DeleteProject)
}

// --- Skills ---

// SkillsList lists skills. Filters: q, category.
func (a *Admin) SkillsList(w http.ResponseWriter, r *http.Request) {
	lp := readListParams(r)
	l, err := a.backoffice.ListSkills(r.Context(), store.SkillFilter{
		Search:   lp.search,
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}, lp.page)
	respond(w, r, http.StatusOK, l, err)
}

// SkillCategories lists the distinct categories for the filter sidebar.
func (a *Admin) SkillCategories(w http.ResponseWriter, r *http.Request) {
	c, err := a.backoffice.SkillCategories(r.Context())
	if c == nil {
		c = []string{}
	}
	respond(w, r, http.StatusOK, c, err)
}

// SkillGet returns one skill.
func (a *Admin) SkillGet(w http.ResponseWriter, r *http.Request) {
	if id, ok := requireID(w, r); ok {
		s, err := a.backoffice.Skill(r.Context(), id)
		respond(w, r, http.StatusOK, s, err)
	}
}

// SkillCreate adds a skill.
func (a *Admin) SkillCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SkillInput
	if !decodeBody(w, r, &in) {
		return
	}
	s, err := a.backoffice.CreateSkill(r.Context(), in)
	respond(w, r, http.StatusCreated, s, err)
}

// SkillUpdate replaces a skill.
func (a *Admin) SkillUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var in service.SkillInput
	if !decodeBody(w, r, &in) {
		return
	}
	s, err := a.backoffice.UpdateSkill(r.Context(), id, in)
	respond(w, r, http.StatusOK, s, err)
}

// SkillPatch edits proficiency and/or category in place.
func (a *Admin) SkillPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var p store.SkillPatch
	if !decodeBody(w, r, &p) {
		return
	}
	s, err := a.backoffice.PatchSkill(r.Context(), id, p)
	respond(w, r, http.StatusOK, s, err)
}

// SkillDelete removes a skill.
func (a *Admin) SkillDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.backoffice.DeleteSkill)
}

// --- Testimonials ---

// TestimonialsList lists testimonials. Filters: q, rating, featured,
// created_at.
func (a *Admin) TestimonialsList(w http.ResponseWriter, r *http.Request) {
	lp := readListParams(r)
	q := r.URL.Query()

	f := store.TestimonialFilter{Search: lp.search}
	if raw := strings.TrimSpace(q.Get("rating")); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, r, &service.ValidationError{Fields: service.FieldErrors{
				"rating": {"Rating must be a whole number."},
			}})
			return
		}
		f.Rating = rating
	}
	var err error
	if f.Featured, err = service.ParseBoolFilter("featured", q.Get("featured")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if f.Created, err = service.ParseDateFilter(q.Get("created_at"), a.now()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	l, err := a.backoffice.ListTestimonials(r.Context(), f, lp.page)
	respond(w, r, http.StatusOK, l, err)
}

// TestimonialGet returns one testimonial.
func (a *Admin) TestimonialGet(w http.ResponseWriter, r *http.Request) {
	if id, ok := requireID(w, r); ok {
		t, err := a.backoffice.Testimonial(r.Context(), id)
		respond(w, r, http.StatusOK, t, err)
	}
}

// TestimonialCreate adds a testimonial.
func (a *Admin) TestimonialCreate(w http.ResponseWriter, r *http.Request) {
	var in service.TestimonialInput
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := a.backoffice.CreateTestimonial(r.Context(), in)
	respond(w, r, http.StatusCreated, t, err)
}

// TestimonialUpdate replaces a testimonial.
func (a *Admin) TestimonialUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var in service.TestimonialInput
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := a.backoffice.UpdateTestimonial(r.Context(), id, in)
	respond(w, r, http.StatusOK, t, err)
}

// TestimonialPatch toggles the featured flag.
func (a *Admin) TestimonialPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	featured, ok := flag(w, r, "featured")
	if !ok {
		return
	}
	t, err := a.backoffice.SetTestimonialFeatured(r.Context(), id, featured)
	respond(w, r, http.StatusOK, t, err)
}

// TestimonialDelete removes a testimonial.
func (a *Admin) TestimonialDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.backoffice.DeleteTestimonial)
}

// --- Blog posts ---

// PostsList lists posts, drafts included. Filters: q, published,
// created_at, tag.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	lp := readListParams(r)
	q := r.URL.Query()

	f := store.PostFilter{Search: lp.search, Tag: strings.TrimSpace(q.Get("tag"))}
	var err error
	if f.Published, err = service.ParseBoolFilter("published", q.Get("published")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if f.Created, err = service.ParseDateFilter(q.Get("created_at"), a.now()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	l, err := a.backoffice.ListPosts(r.Context(), f, lp.page)
	respond(w, r, http.StatusOK, l, err)
}

// PostGet returns one post.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	if id, ok := requireID(w, r); ok {
		p, err := a.backoffice.Post(r.Context(), id)
		respond(w, r, http.StatusOK, p, err)
	}
}

// PostCreate adds a post. An empty slug is derived from the title.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := a.backoffice.CreatePost(r.Context(), in)
	respond(w, r, http.StatusCreated, p, err)
}

// PostUpdate replaces a post and its tag set.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	var in service.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := a.backoffice.UpdatePost(r.Context(), id, in)
	respond(w, r, http.StatusOK, p, err)
}

// PostPatch toggles the published flag.
func (a *Admin) PostPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	published, ok := flag(w, r, "published")
	if !ok {
		return
	}
	p, err := a.backoffice.SetPostPublished(r.Context(), id, published)
	respond(w, r, http.StatusOK, p, err)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.backoffice.DeletePost)
}

// --- Contact messages ---

// MessagesList lists messages. Filters: q, read, timestamp.
func (a *Admin) MessagesList(w http.ResponseWriter, r *http.Request) {
	lp := readListParams(r)
	q := r.URL.Query()

	f := store.MessageFilter{Search: lp.search}
	var err error
	if f.Read, err = service.ParseBoolFilter("read", q.Get("read")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if f.Received, err = service.ParseDateFilter(q.Get("timestamp"), a.now()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	l, err := a.backoffice.ListMessages(r.Context(), f, lp.page)
	respond(w, r, http.StatusOK, l, err)
}

// MessageGet returns one message.
func (a *Admin) MessageGet(w http.ResponseWriter, r *http.Request) {
	if id, ok := requireID(w, r); ok {
		m, err := a.backoffice.Message(r.Context(), id)
		respond(w, r, http.StatusOK, m, err)
	}
}

// MessagePatch sets the read flag. The payload itself is immutable.
func (a *Admin) MessagePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	read, ok := flag(w, r, "read")
	if !ok {
		return
	}
	m, err := a.backoffice.SetMessageRead(r.Context(), id, read)
	respond(w, r, http.StatusOK, m, err)
}

// MessageDelete removes a message.
func (a *Admin) MessageDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.backoffice.DeleteMessage)
}

// bulkRequest is the body of the bulk read/unread actions.
type bulkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// MessagesMarkRead flags the given messages as read.
func (a *Admin) MessagesMarkRead(w http.ResponseWriter, r *http.Request) {
	a.bulk(w, r, a.backoffice.MarkRead)
}

// MessagesMarkUnread flags the given messages as unread.
func (a *Admin) MessagesMarkUnread(w http.ResponseWriter, r *http.Request) {
	a.bulk(w, r, a.backoffice.MarkUnread)
}

func (a *Admin) bulk(w http.ResponseWriter, r *http.Request, fn func(context.Context, []uuid.UUID) (int64, error)) {
	var body bulkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	n, err := fn(r.Context(), body.IDs)
	respond(w, r, http.StatusOK, map[string]int64{"updated": n}, err)
}

// remove runs a delete and answers 204.
func (a *Admin) remove(w http.ResponseWriter, r *http.Request, del func(context.Context, uuid.UUID) error) {
	id, ok := requireID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
