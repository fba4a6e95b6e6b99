package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/cache"
	"portfolio/internal/models"
)

type fakeProfiles struct {
	calls   atomic.Int32
	profile *models.Profile
	err     error
}

func (f *fakeProfiles) First(context.Context) (*models.Profile, error) {
	f.calls.Add(1)
	if f.profile == nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, f.err
}

type fakeProjects struct {
	calls    atomic.Int32
	projects []models.Project
}

func (f *fakeProjects) Featured(_ context.Context, limit int) ([]models.Project, error) {
	f.calls.Add(1)
	if len(f.projects) > limit {
		return f.projects[:limit], nil
	}
	return f.projects, nil
}

type fakeSkills struct{ calls atomic.Int32 }

func (f *fakeSkills) All(context.Context) ([]models.Skill, error) {
	f.calls.Add(1)
	return []models.Skill{{Name: "Go", Proficiency: 90, Category: "Backend"}}, nil
}

type fakeTestimonials struct{ calls atomic.Int32 }

func (f *fakeTestimonials) Featured(context.Context, int) ([]models.Testimonial, error) {
	f.calls.Add(1)
	return []models.Testimonial{{ClientName: "Bob", Rating: 5}}, nil
}

type fakePosts struct{ calls atomic.Int32 }

func (f *fakePosts) Latest(context.Context, int) ([]models.BlogPost, error) {
	f.calls.Add(1)
	return []models.BlogPost{{Title: "Hello", Slug: "hello", Published: true}}, nil
}

type landingFixture struct {
	landing      *Landing
	cache        *cache.Memory
	profiles     *fakeProfiles
	projects     *fakeProjects
	skills       *fakeSkills
	testimonials *fakeTestimonials
	posts        *fakePosts
}

func newLandingFixture() *landingFixture {
	f := &landingFixture{
		cache:        cache.NewMemory(),
		profiles:     &fakeProfiles{profile: &models.Profile{ID: uuid.New(), Name: "Ada"}},
		projects:     &fakeProjects{},
		skills:       &fakeSkills{},
		testimonials: &fakeTestimonials{},
		posts:        &fakePosts{},
	}
	for i := 0; i < 5; i++ {
		f.projects.projects = append(f.projects.projects, models.Project{ID: uuid.New(), Featured: true})
	}
	f.landing = NewLanding(f.cache, f.profiles, f.projects, f.skills, f.testimonials, f.posts)
	return f
}

func TestLandingCachesProfileAndFeatured(t *testing.T) {
	f := newLandingFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := f.landing.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ada", d.Profile.Name)
		assert.Len(t, d.FeaturedProjects, LandingLimit)
		assert.Len(t, d.Skills, 1)
		assert.Len(t, d.Testimonials, 1)
		assert.Len(t, d.LatestPosts, 1)
	}

	assert.Equal(t, int32(1), f.profiles.calls.Load())
	assert.Equal(t, int32(1), f.projects.calls.Load())
	// Uncached sources are read on every request.
	assert.Equal(t, int32(3), f.skills.calls.Load())
	assert.Equal(t, int32(3), f.testimonials.calls.Load())
	assert.Equal(t, int32(3), f.posts.calls.Load())
}

func TestLandingMissingProfileNotCached(t *testing.T) {
	f := newLandingFixture()
	f.profiles.profile = nil
	ctx := context.Background()

	p, err := f.landing.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	f.profiles.profile = &models.Profile{Name: "Later"}
	p, err = f.landing.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Later", p.Name)
	assert.Equal(t, int32(2), f.profiles.calls.Load())
}

func TestLandingInvalidateProfile(t *testing.T) {
	f := newLandingFixture()
	ctx := context.Background()

	_, err := f.landing.Profile(ctx)
	require.NoError(t, err)

	f.profiles.profile = &models.Profile{Name: "Renamed"}
	p, _ := f.landing.Profile(ctx)
	assert.Equal(t, "Ada", p.Name, "stale value served until invalidated")

	f.landing.InvalidateProfile(ctx)
	p, err = f.landing.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
}

func TestLandingInvalidateFeaturedProjects(t *testing.T) {
	f := newLandingFixture()
	ctx := context.Background()

	_, err := f.landing.FeaturedProjects(ctx)
	require.NoError(t, err)
	f.landing.InvalidateFeaturedProjects(ctx)
	_, err = f.landing.FeaturedProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.projects.calls.Load())
}

func TestLandingConcurrentMisses(t *testing.T) {
	f := newLandingFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.landing.Profile(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "Ada", p.Name)
		}()
	}
	wg.Wait()

	calls := f.profiles.calls.Load()
	assert.GreaterOrEqual(t, calls, int32(1))
	assert.LessOrEqual(t, calls, int32(8))

	p, ok := cache.Lookup[*models.Profile](ctx, f.cache, ProfileKey)
	require.True(t, ok)
	assert.Equal(t, "Ada", p.Name)
}

func TestLandingStoreError(t *testing.T) {
	f := newLandingFixture()
	f.profiles.profile = nil
	f.profiles.err = errors.New("db down")

	_, err := f.landing.Load(context.Background())
	assert.ErrorIs(t, err, f.profiles.err)
}
