// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/models"
)

func TestProfileStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() { cleanLike(t, db, "profiles", "name", mark) })

	before, err := s.Count(ctx)
	require.NoError(t, err)

	created, err := s.Create(ctx, &models.Profile{
		Name: "Owner " + mark, Bio: "bio", AboutMe: "about",
		ProfilePicture: "profiles/me.jpg", Email: "owner@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAboutPicture, created.AboutPicture)
	assert.Nil(t, created.Resume)

	after, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	resume := "resumes/cv.pdf"
	created.Bio = "new bio"
	created.Resume = &resume
	updated, err := s.Update(ctx, created)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new bio", updated.Bio)
	require.NotNil(t, updated.Resume)
	assert.Equal(t, resume, *updated.Resume)
	assert.False(t, updated.UpdatedAt.Before(created.CreatedAt))

	first, err := s.First(ctx)
	require.NoError(t, err)
	assert.NotNil(t, first)
}

func TestSkillStorePatch(t *testing.T) {
	db := testDB(t)
	s := NewSkillStore(db)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() { cleanLike(t, db, "skills", "name", mark) })

	sk, err := s.Create(ctx, &models.Skill{Name: "Go " + mark, Proficiency: 50, Category: "Backend"})
	require.NoError(t, err)

	prof := 90
	patched, err := s.Patch(ctx, sk.ID, SkillPatch{Proficiency: &prof})
	require.NoError(t, err)
	require.NotNil(t, patched)
	assert.Equal(t, 90, patched.Proficiency)
	assert.Equal(t, "Backend", patched.Category)

	// Proficiency is not range-checked.
	over := 150
	patched, err = s.Patch(ctx, sk.ID, SkillPatch{Proficiency: &over})
	require.NoError(t, err)
	assert.Equal(t, 150, patched.Proficiency)

	cat := "Languages"
	patched, err = s.Patch(ctx, sk.ID, SkillPatch{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Languages", patched.Category)

	missing, err := s.Patch(ctx, uuid.New(), SkillPatch{Category: &cat})
	require.NoError(t, err)
	assert.Nil(t, missing)

	items, err := s.List(ctx, SkillFilter{Search: mark, Category: "Languages"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTestimonialStoreRating(t *testing.T) {
	db := testDB(t)
	s := NewTestimonialStore(db)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() { cleanLike(t, db, "testimonials", "client_name", mark) })

	tm, err := s.Create(ctx, &models.Testimonial{
		ClientName: "Client " + mark, ClientPosition: "CTO", Content: "Great work", Rating: 4, Featured: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, tm.Rating)

	_, err = s.Create(ctx, &models.Testimonial{
		ClientName: "Bad " + mark, ClientPosition: "CTO", Content: "Too good", Rating: 6,
	})
	assert.Error(t, err, "rating 6 must violate the CHECK constraint")

	items, err := s.List(ctx, TestimonialFilter{Search: mark, Rating: 4, Featured: boolPtr(true)}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	off, err := s.SetFeatured(ctx, tm.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Featured)
}

func TestBlogPostStoreTagsAndPublishing(t *testing.T) {
	db := testDB(t)
	s := NewBlogPostStore(db)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() {
		cleanLike(t, db, "blog_posts", "slug", mark)
		cleanLike(t, db, "tags", "slug", mark)
	})

	tagSlug := "golang-" + mark
	post, err := s.Create(ctx, &models.BlogPost{
		Title: "Hello " + mark, Slug: "hello-" + mark, Content: "# Hi",
		Excerpt: "hi", FeaturedImage: "blog/hi.jpg", Published: false,
		Tags: []models.Tag{{Name: "Golang " + mark, Slug: tagSlug}, {Name: "dupe", Slug: tagSlug}},
	})
	require.NoError(t, err)
	require.Len(t, post.Tags, 1, "duplicate tag slugs collapse")

	// Unpublished posts are invisible by slug.
	got, err := s.FindPublishedBySlug(ctx, "hello-"+mark)
	require.NoError(t, err)
	assert.Nil(t, got)

	published, err := s.SetPublished(ctx, post.ID, true)
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.True(t, published.Published)
	assert.Len(t, published.Tags, 1)

	got, err = s.FindPublishedBySlug(ctx, "hello-"+mark)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Golang " + mark}, got.TagNames())

	f := PublishedOnly()
	f.Tag = tagSlug
	items, err := s.List(ctx, f, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Replacing the tag set drops the old link.
	got.Tags = nil
	updated, err := s.Update(ctx, got)
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	items, err = s.List(ctx, f, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	exists, err := s.SlugExists(ctx, "hello-"+mark, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.SlugExists(ctx, "hello-"+mark, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBlogPostStoreDuplicateSlug(t *testing.T) {
	db := testDB(t)
	s := NewBlogPostStore(db)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() { cleanLike(t, db, "blog_posts", "slug", mark) })

	p := &models.BlogPost{Title: "A", Slug: "same-" + mark, Content: "x", Excerpt: "x", FeaturedImage: "blog/x.jpg"}
	_, err := s.Create(ctx, p)
	require.NoError(t, err)
	_, err = s.Create(ctx, p)
	assert.Error(t, err)
}

func TestContactMessageStoreReadFlags(t *testing.T) {
	db := testDB(t)
	s := NewContactMessageStore(db)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() { cleanLike(t, db, "contact_messages", "subject", mark) })

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		m, err := s.Create(ctx, &models.ContactMessage{
			Name: "Ann", Email: "ann@example.com", Subject: "Hi " + mark, Message: "Hello there friend",
		})
		require.NoError(t, err)
		assert.False(t, m.Read)
		assert.WithinDuration(t, time.Now(), m.Timestamp, time.Minute)
		ids = append(ids, m.ID)
	}

	n, err := s.SetRead(ctx, append(ids[:2:2], uuid.New()), true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err := s.Count(ctx, MessageFilter{Search: mark, Read: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	n, err = s.SetRead(ctx, ids, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = s.SetRead(ctx, nil, true)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDashboardStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	mark := marker()
	t.Cleanup(func() { cleanLike(t, db, "contact_messages", "subject", mark) })

	before, err := NewDashboardStore(db).Stats(ctx)
	require.NoError(t, err)

	_, err = NewContactMessageStore(db).Create(ctx, &models.ContactMessage{
		Name: "Bo", Email: "bo@example.com", Subject: "Stats " + mark, Message: "Counting messages",
	})
	require.NoError(t, err)

	after, err := NewDashboardStore(db).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.ContactMessages+1, after.ContactMessages)
	assert.Equal(t, before.UnreadMessages+1, after.UnreadMessages)
}
