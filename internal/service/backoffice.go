// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/pagination"
	"portfolio/internal/slug"
	"portfolio/internal/store"
)

// AdminPageSize is the number of rows per back-office list page.
const AdminPageSize = 25

// RecentLimit is the number of recent rows shown on the dashboard.
const RecentLimit = 5

// Listing is one page of a back-office list.
type Listing[T any] struct {
	Items []T             `json:"items"`
	Page  pagination.Page `json:"page"`
}

// Dashboard is the back-office overview.
type Dashboard struct {
	Stats          store.Stats             `json:"stats"`
	RecentProjects []models.Project        `json:"recent_projects"`
	RecentMessages []models.ContactMessage `json:"recent_messages"`
	RecentPosts    []models.BlogPost       `json:"recent_posts"`
}

// Backoffice implements the content management operations behind the
// admin surface. Writes that affect cached landing content invalidate the
// matching cache entry after the row is saved.
type Backoffice struct {
	profiles     *store.ProfileStore
	projects     *store.ProjectStore
	skills       *store.SkillStore
	testimonials *store.TestimonialStore
	posts        *store.BlogPostStore
	messages     *store.ContactMessageStore
	dashboard    *store.DashboardStore
	landing      *Landing
}

// Stores groups the stores the back-office works on.
type Stores struct {
	Profiles     *store.ProfileStore
	Projects     *store.ProjectStore
	Skills       *store.SkillStore
	Testimonials *store.TestimonialStore
	Posts        *store.BlogPostStore
	Messages     *store.ContactMessageStore
	Dashboard    *store.DashboardStore
}

// NewBackoffice creates a Backoffice service.
func NewBackoffice(s Stores, landing *Landing) *Backoffice {
	return &Backoffice{
		profiles:     s.Profiles,
		projects:     s.Projects,
		skills:       s.Skills,
		testimonials: s.Testimonials,
		posts:        s.Posts,
		messages:     s.Messages,
		dashboard:    s.Dashboard,
		landing:      landing,
	}
}

// list resolves the requested page against the total and loads its rows.
func list[T any](ctx context.Context, rawPage string, count func(context.Context) (int, error),
	load func(ctx context.Context, limit, offset int) ([]T, error)) (*Listing[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.Resolve(rawPage, total, AdminPageSize)
	items, err := load(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &Listing[T]{Items: items, Page: page}, nil
}

// found maps the store's nil-for-missing convention onto ErrNotFound.
func found[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func deleted(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// --- Profile ---

// Profile returns the site profile.
func (b *Backoffice) Profile(ctx context.Context) (*models.Profile, error) {
	return found(b.profiles.First(ctx))
}

// CreateProfile creates the site profile. Only one may exist.
func (b *Backoffice) CreateProfile(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, err := b.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrProfileExists
	}

	var p models.Profile
	in.apply(&p)
	created, err := b.profiles.Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	b.landing.InvalidateProfile(ctx)
	slog.Info("profile created", "id", created.ID)
	return created, nil
}

// UpdateProfile overwrites the profile with the given id.
func (b *Backoffice) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := models.Profile{ID: id}
	in.apply(&p)
	updated, err := found(b.profiles.Update(ctx, &p))
	if err != nil {
		return nil, err
	}
	b.landing.InvalidateProfile(ctx)
	return updated, nil
}

// DeleteProfile always refuses.
func (b *Backoffice) DeleteProfile(context.Context, uuid.UUID) error {
	return ErrProfileUndeletable
}

// --- Projects ---

// ListProjects returns one page of projects, newest first.
func (b *Backoffice) ListProjects(ctx context.Context, f store.ProjectFilter, page string) (*Listing[models.Project], error) {
	return list(ctx, page,
		func(ctx context.Context) (int, error) { return b.projects.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.Project, error) {
			return b.projects.List(ctx, f, limit, offset)
		})
}

// Project returns a project by id.
func (b *Backoffice) Project(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return found(b.projects.FindByID(ctx, id))
}

// CreateProject validates and stores a new project.
func (b *Backoffice) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var p models.Project
	in.apply(&p)
	created, err := b.projects.Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	b.landing.InvalidateFeaturedProjects(ctx)
	return created, nil
}

// UpdateProject overwrites a project.
func (b *Backoffice) UpdateProject(ctx context.Context, id uuid.UUID, in ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := models.Project{ID: id}
	in.apply(&p)
	updated, err := found(b.projects.Update(ctx, &p))
	if err != nil {
		return nil, err
	}
	b.landing.InvalidateFeaturedProjects(ctx)
	return updated, nil
}

// SetProjectFeatured toggles the featured flag.
func (b *Backoffice) SetProjectFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Project, error) {
	p, err := found(b.projects.SetFeatured(ctx, id, featured))
	if err != nil {
		return nil, err
	}
	b.landing.InvalidateFeaturedProjects(ctx)
	return p, nil
}

// DeleteProject removes a project.
func (b *Backoffice) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := deleted(b.projects.Delete(ctx, id)); err != nil {
		return err
	}
	b.landing.InvalidateFeaturedProjects(ctx)
	return nil
}

// --- Skills ---

// ListSkills returns one page of skills ordered by category and name.
func (b *Backoffice) ListSkills(ctx context.Context, f store.SkillFilter, page string) (*Listing[models.Skill], error) {
	return list(ctx, page,
		func(ctx context.Context) (int, error) { return b.skills.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.Skill, error) {
			return b.skills.List(ctx, f, limit, offset)
		})
}

// SkillCategories returns the distinct categories for the filter sidebar.
func (b *Backoffice) SkillCategories(ctx context.Context) ([]string, error) {
	return b.skills.Categories(ctx)
}

// Skill returns a skill by id.
func (b *Backoffice) Skill(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return found(b.skills.FindByID(ctx, id))
}

// CreateSkill validates and stores a new skill.
func (b *Backoffice) CreateSkill(ctx context.Context, in SkillInput) (*models.Skill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var s models.Skill
	in.apply(&s)
	return b.skills.Create(ctx, &s)
}

// UpdateSkill overwrites a skill.
func (b *Backoffice) UpdateSkill(ctx context.Context, id uuid.UUID, in SkillInput) (*models.Skill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s := models.Skill{ID: id}
	in.apply(&s)
	return found(b.skills.Update(ctx, &s))
}

// PatchSkill applies an inline edit of proficiency and/or category.
func (b *Backoffice) PatchSkill(ctx context.Context, id uuid.UUID, p store.SkillPatch) (*models.Skill, error) {
	if err := validateSkillPatch(&p); err != nil {
		return nil, err
	}
	return found(b.skills.Patch(ctx, id, p))
}

// DeleteSkill removes a skill.
func (b *Backoffice) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	return deleted(b.skills.Delete(ctx, id))
}

// --- Testimonials ---

// ListTestimonials returns one page of testimonials, newest first.
func (b *Backoffice) ListTestimonials(ctx context.Context, f store.TestimonialFilter, page string) (*Listing[models.Testimonial], error) {
	if f.Rating != 0 && !models.ValidRating(f.Rating) {
		return nil, &ValidationError{Fields: FieldErrors{"rating": {"Rating must be between 1 and 5."}}}
	}
	return list(ctx, page,
		func(ctx context.Context) (int, error) { return b.testimonials.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.Testimonial, error) {
			return b.testimonials.List(ctx, f, limit, offset)
		})
}

// Testimonial returns a testimonial by id.
func (b *Backoffice) Testimonial(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	return found(b.testimonials.FindByID(ctx, id))
}

// CreateTestimonial validates and stores a new testimonial.
func (b *Backoffice) CreateTestimonial(ctx context.Context, in TestimonialInput) (*models.Testimonial, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var t models.Testimonial
	in.apply(&t)
	return b.testimonials.Create(ctx, &t)
}

// UpdateTestimonial overwrites a testimonial.
func (b *Backoffice) UpdateTestimonial(ctx context.Context, id uuid.UUID, in TestimonialInput) (*models.Testimonial, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := models.Testimonial{ID: id}
	in.apply(&t)
	return found(b.testimonials.Update(ctx, &t))
}

// SetTestimonialFeatured toggles the featured flag.
func (b *Backoffice) SetTestimonialFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Testimonial, error) {
	return found(b.testimonials.SetFeatured(ctx, id, featured))
}

// DeleteTestimonial removes a testimonial.
func (b *Backoffice) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	return deleted(b.testimonials.Delete(ctx, id))
}

// --- Blog posts ---

// ListPosts returns one page of posts, newest first, drafts included.
func (b *Backoffice) ListPosts(ctx context.Context, f store.PostFilter, page string) (*Listing[models.BlogPost], error) {
	return list(ctx, page,
		func(ctx context.Context) (int, error) { return b.posts.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
			return b.posts.List(ctx, f, limit, offset)
		})
}

// Post returns a post by id regardless of its published state.
func (b *Backoffice) Post(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return found(b.posts.FindByID(ctx, id))
}

// uniqueSlug rejects a slug that another post already uses. When the slug
// was generated from the title, a numeric suffix is tried instead.
func (b *Backoffice) uniqueSlug(ctx context.Context, in *PostInput, explicit bool, exclude uuid.UUID) error {
	base := in.Slug
	for i := 2; ; i++ {
		taken, err := b.posts.SlugExists(ctx, in.Slug, exclude)
		if err != nil {
			return err
		}
		if !taken {
			return nil
		}
		if explicit || i > 100 {
			return &ValidationError{Fields: FieldErrors{"slug": {"Blog post with this slug already exists."}}}
		}
		in.Slug = slug.WithSuffix(base, i)
	}
}

// slugConflict turns a slug lost to a concurrent writer into the same
// field error uniqueSlug reports.
func slugConflict(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return &ValidationError{Fields: FieldErrors{"slug": {"Blog post with this slug already exists."}}}
	}
	return err
}

// CreatePost validates and stores a new post with its tags.
func (b *Backoffice) CreatePost(ctx context.Context, in PostInput) (*models.BlogPost, error) {
	explicit := in.Slug != ""
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := b.uniqueSlug(ctx, &in, explicit, uuid.Nil); err != nil {
		return nil, err
	}
	var p models.BlogPost
	in.apply(&p)
	created, err := b.posts.Create(ctx, &p)
	if err != nil {
		return nil, slugConflict(err)
	}
	slog.Info("blog post created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdatePost overwrites a post and replaces its tags.
func (b *Backoffice) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.BlogPost, error) {
	explicit := in.Slug != ""
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := b.uniqueSlug(ctx, &in, explicit, id); err != nil {
		return nil, err
	}
	p := models.BlogPost{ID: id}
	in.apply(&p)
	updated, err := b.posts.Update(ctx, &p)
	return found(updated, slugConflict(err))
}

// SetPostPublished toggles the published flag.
func (b *Backoffice) SetPostPublished(ctx context.Context, id uuid.UUID, published bool) (*models.BlogPost, error) {
	return found(b.posts.SetPublished(ctx, id, published))
}

// DeletePost removes a post and its tag links.
func (b *Backoffice) DeletePost(ctx context.Context, id uuid.UUID) error {
	return deleted(b.posts.Delete(ctx, id))
}

// --- Contact messages ---

// ListMessages returns one page of messages, newest first.
func (b *Backoffice) ListMessages(ctx context.Context, f store.MessageFilter, page string) (*Listing[models.ContactMessage], error) {
	return list(ctx, page,
		func(ctx context.Context) (int, error) { return b.messages.Count(ctx, f) },
		func(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
			return b.messages.List(ctx, f, limit, offset)
		})
}

// Message returns a message by id.
func (b *Backoffice) Message(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return found(b.messages.FindByID(ctx, id))
}

// SetMessageRead changes the read flag of one message.
func (b *Backoffice) SetMessageRead(ctx context.Context, id uuid.UUID, read bool) (*models.ContactMessage, error) {
	n, err := b.messages.SetRead(ctx, []uuid.UUID{id}, read)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return b.Message(ctx, id)
}

// MarkRead flags every message in ids as read and returns how many rows
// changed.
func (b *Backoffice) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return b.bulkRead(ctx, ids, true)
}

// MarkUnread flags every message in ids as unread.
func (b *Backoffice) MarkUnread(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return b.bulkRead(ctx, ids, false)
}

func (b *Backoffice) bulkRead(ctx context.Context, ids []uuid.UUID, read bool) (int64, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Fields: FieldErrors{"ids": {"Select at least one message."}}}
	}
	n, err := b.messages.SetRead(ctx, ids, read)
	if err != nil {
		return 0, err
	}
	slog.Info("messages marked", "read", read, "requested", len(ids), "updated", n)
	return n, nil
}

// DeleteMessage removes a message.
func (b *Backoffice) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return deleted(b.messages.Delete(ctx, id))
}

// --- Dashboard ---

// Dashboard gathers the counters and recent activity.
func (b *Backoffice) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := b.dashboard.Stats(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Stats: *stats}
	if d.RecentProjects, err = b.projects.List(ctx, store.ProjectFilter{}, RecentLimit, 0); err != nil {
		return nil, fmt.Errorf("recent projects: %w", err)
	}
	if d.RecentMessages, err = b.messages.List(ctx, store.MessageFilter{}, RecentLimit, 0); err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	if d.RecentPosts, err = b.posts.Latest(ctx, RecentLimit); err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return d, nil
}
