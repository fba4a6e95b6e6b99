// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/models"
)

// Landing cache keys and lifetimes.
const (
	ProfileKey          = "landing:profile"
	FeaturedProjectsKey = "landing:featured_projects"

	ProfileTTL          = 24 * time.Hour
	FeaturedProjectsTTL = 12 * time.Hour

	// LandingLimit caps featured projects, testimonials and posts.
	LandingLimit = 3
)

// ProfileSource loads the site profile.
type ProfileSource interface {
	First(ctx context.Context) (*models.Profile, error)
}

// ProjectSource loads featured projects.
type ProjectSource interface {
	Featured(ctx context.Context, limit int) ([]models.Project, error)
}

// SkillSource loads every skill.
type SkillSource interface {
	All(ctx context.Context) ([]models.Skill, error)
}

// TestimonialSource loads featured testimonials.
type TestimonialSource interface {
	Featured(ctx context.Context, limit int) ([]models.Testimonial, error)
}

// PostSource loads the latest published posts.
type PostSource interface {
	Latest(ctx context.Context, limit int) ([]models.BlogPost, error)
}

// LandingData is everything the home page renders.
type LandingData struct {
	Profile          *models.Profile
	FeaturedProjects []models.Project
	Skills           []models.Skill
	Testimonials     []models.Testimonial
	LatestPosts      []models.BlogPost
}

// Landing assembles the home page. Profile and featured projects go
// through the cache; everything else is read from the store each time.
type Landing struct {
	cache        cache.Cache
	profiles     ProfileSource
	projects     ProjectSource
	skills       SkillSource
	testimonials TestimonialSource
	posts        PostSource
}

// NewLanding creates a Landing service.
func NewLanding(c cache.Cache, profiles ProfileSource, projects ProjectSource, skills SkillSource,
	testimonials TestimonialSource, posts PostSource) *Landing {
	return &Landing{
		cache:        c,
		profiles:     profiles,
		projects:     projects,
		skills:       skills,
		testimonials: testimonials,
		posts:        posts,
	}
}

// Profile returns the cached profile, loading it on a miss. A missing
// profile is returned as nil and left uncached so the first save shows up
// immediately.
func (l *Landing) Profile(ctx context.Context) (*models.Profile, error) {
	if p, ok := cache.Lookup[*models.Profile](ctx, l.cache, ProfileKey); ok && p != nil {
		return p, nil
	}
	p, err := l.profiles.First(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p != nil {
		cache.Put(ctx, l.cache, ProfileKey, p, ProfileTTL)
	}
	return p, nil
}

// FeaturedProjects returns the cached top featured projects, newest first.
func (l *Landing) FeaturedProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := cache.Remember(ctx, l.cache, FeaturedProjectsKey, FeaturedProjectsTTL,
		func(ctx context.Context) ([]models.Project, error) {
			return l.projects.Featured(ctx, LandingLimit)
		})
	if err != nil {
		return nil, fmt.Errorf("load featured projects: %w", err)
	}
	return projects, nil
}

// Load builds the full landing context.
func (l *Landing) Load(ctx context.Context) (*LandingData, error) {
	var (
		d   LandingData
		err error
	)
	if d.Profile, err = l.Profile(ctx); err != nil {
		return nil, err
	}
	if d.FeaturedProjects, err = l.FeaturedProjects(ctx); err != nil {
		return nil, err
	}
	if d.Skills, err = l.skills.All(ctx); err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	if d.Testimonials, err = l.testimonials.Featured(ctx, LandingLimit); err != nil {
		return nil, fmt.Errorf("load testimonials: %w", err)
	}
	if d.LatestPosts, err = l.posts.Latest(ctx, LandingLimit); err != nil {
		return nil, fmt.Errorf("load latest posts: %w", err)
	}
	return &d, nil
}

// InvalidateProfile drops the cached profile.
func (l *Landing) InvalidateProfile(ctx context.Context) {
	cache.Forget(ctx, l.cache, ProfileKey)
}

// InvalidateFeaturedProjects drops the cached featured projects.
func (l *Landing) InvalidateFeaturedProjects(ctx context.Context) {
	cache.Forget(ctx, l.cache, FeaturedProjectsKey)
}
