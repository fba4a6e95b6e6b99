package handlers

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/contact"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/service"
	"portfolio/internal/store"
)

// fakeLanding serves fixed landing content.
type fakeLanding struct {
	data *service.LandingData
	err  error
}

func (f *fakeLanding) Load(context.Context) (*service.LandingData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeLanding) Profile(context.Context) (*models.Profile, error) {
	if f.data == nil {
		return nil, f.err
	}
	return f.data.Profile, f.err
}

// fakeProjects keeps projects in memory, newest first.
type fakeProjects struct {
	items []models.Project
}

func (f *fakeProjects) matching(fl store.ProjectFilter) []models.Project {
	var out []models.Project
	term := strings.ToLower(strings.TrimSpace(fl.Search))
	for _, p := range f.items {
		if term != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description+" "+p.Technologies), term) {
			continue
		}
		if fl.Featured != nil && p.Featured != *fl.Featured {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f *fakeProjects) List(_ context.Context, fl store.ProjectFilter, limit, offset int) ([]models.Project, error) {
	return window(f.matching(fl), limit, offset), nil
}

func (f *fakeProjects) Count(_ context.Context, fl store.ProjectFilter) (int, error) {
	return len(f.matching(fl)), nil
}

func (f *fakeProjects) Search(ctx context.Context, term string) ([]models.Project, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	return f.List(ctx, store.ProjectFilter{Search: term}, 0, 0)
}

func (f *fakeProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

// fakePosts keeps blog posts in memory, newest first.
type fakePosts struct {
	items []models.BlogPost
}

func (f *fakePosts) matching(fl store.PostFilter) []models.BlogPost {
	var out []models.BlogPost
	for _, p := range f.items {
		if fl.Published != nil && p.Published != *fl.Published {
			continue
		}
		if fl.Tag != "" && !hasTag(p, fl.Tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasTag(p models.BlogPost, slug string) bool {
	for _, t := range p.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakePosts) List(_ context.Context, fl store.PostFilter, limit, offset int) ([]models.BlogPost, error) {
	return window(f.matching(fl), limit, offset), nil
}

func (f *fakePosts) Count(_ context.Context, fl store.PostFilter) (int, error) {
	return len(f.matching(fl)), nil
}

func (f *fakePosts) Latest(ctx context.Context, limit int) ([]models.BlogPost, error) {
	return f.List(ctx, store.PublishedOnly(), limit, 0)
}

func (f *fakePosts) FindByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

func (f *fakePosts) FindPublishedBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	for i := range f.items {
		if f.items[i].Slug == slug && f.items[i].Published {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

func (f *fakePosts) PublishedTags(context.Context) ([]store.TagCount, error) {
	counts := map[string]*store.TagCount{}
	for _, p := range f.matching(store.PublishedOnly()) {
		for _, t := range p.Tags {
			if counts[t.Slug] == nil {
				counts[t.Slug] = &store.TagCount{Tag: t}
			}
			counts[t.Slug].Posts++
		}
	}
	var out []store.TagCount
	for _, tc := range counts {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeSkills keeps skills in memory.
type fakeSkills struct {
	items []models.Skill
}

func (f *fakeSkills) List(_ context.Context, _ store.SkillFilter, limit, offset int) ([]models.Skill, error) {
	return window(f.items, limit, offset), nil
}

func (f *fakeSkills) Count(context.Context, store.SkillFilter) (int, error) {
	return len(f.items), nil
}

func (f *fakeSkills) FindByID(_ context.Context, id uuid.UUID) (*models.Skill, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

// fakeMessages records contact messages.
type fakeMessages struct {
	mu    sync.Mutex
	saved []models.ContactMessage
	err   error
}

func (f *fakeMessages) Create(_ context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := *m
	out.ID = uuid.New()
	out.Timestamp = time.Now()
	f.saved = append(f.saved, out)
	return &out, nil
}

func (f *fakeMessages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// window applies limit/offset the way the stores do: non-positive limit
// means no limit.
func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// publicFixture wires a Public handler over in-memory fakes.
type publicFixture struct {
	public   *Public
	projects *fakeProjects
	posts    *fakePosts
	skills   *fakeSkills
	messages *fakeMessages
	landing  *fakeLanding
}

const testSiteURL = "https://example.test"

func newPublicFixture(t *testing.T) *publicFixture {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	profile := &models.Profile{ID: uuid.New(), Name: "Ada Lovelace", Bio: "Engineer and writer."}
	f := &publicFixture{
		projects: &fakeProjects{},
		posts:    &fakePosts{},
		skills:   &fakeSkills{},
		messages: &fakeMessages{},
		landing:  &fakeLanding{data: &service.LandingData{Profile: profile}},
	}
	svc := contact.NewService(f.messages, nil)
	f.public = NewPublic(renderer, f.landing, f.projects, f.posts, svc, testSiteURL, false)
	return f
}

// addProjects appends n projects titled "Project 1".."Project n", newest
// first.
func (f *publicFixture) addProjects(n int) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := n; i >= 1; i-- {
		f.projects.items = append(f.projects.items, models.Project{
			ID:           uuid.New(),
			Title:        "Project " + strconv.Itoa(i),
			Description:  "Description " + strconv.Itoa(i),
			Technologies: "Go, PostgreSQL",
			DateCreated:  base.AddDate(0, 0, i),
		})
	}
}

func (f *publicFixture) addPost(title, slug string, published bool, tags ...string) models.BlogPost {
	p := models.BlogPost{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug,
		Content:   "# " + title + "\n\nBody text.",
		Excerpt:   "About " + title,
		Published: published,
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(f.posts.items)) * time.Hour),
	}
	p.UpdatedAt = p.CreatedAt
	for _, tag := range tags {
		p.Tags = append(p.Tags, models.Tag{ID: uuid.New(), Name: tag, Slug: tag})
	}
	// Newest first.
	f.posts.items = append([]models.BlogPost{p}, f.posts.items...)
	return p
}
