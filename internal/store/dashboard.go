// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats holds the back-office dashboard counters.
type Stats struct {
	Profiles             int `json:"profiles"`
	Projects             int `json:"projects"`
	FeaturedProjects     int `json:"featured_projects"`
	Skills               int `json:"skills"`
	Testimonials         int `json:"testimonials"`
	FeaturedTestimonials int `json:"featured_testimonials"`
	BlogPosts            int `json:"blog_posts"`
	PublishedBlogPosts   int `json:"published_blog_posts"`
	ContactMessages      int `json:"contact_messages"`
	UnreadMessages       int `json:"unread_messages"`
}

// DashboardStore computes aggregate counters across all content tables.
type DashboardStore struct {
	db *sql.DB
}

// NewDashboardStore creates a new DashboardStore with the given database connection.
func NewDashboardStore(db *sql.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

// Stats returns all dashboard counters in a single round trip.
func (s *DashboardStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM projects WHERE featured),
			(SELECT COUNT(*) FROM skills),
			(SELECT COUNT(*) FROM testimonials),
			(SELECT COUNT(*) FROM testimonials WHERE featured),
			(SELECT COUNT(*) FROM blog_posts),
			(SELECT COUNT(*) FROM blog_posts WHERE published),
			(SELECT COUNT(*) FROM contact_messages),
			(SELECT COUNT(*) FROM contact_messages WHERE NOT read)
	`).Scan(
		&st.Profiles, &st.Projects, &st.FeaturedProjects, &st.Skills,
		&st.Testimonials, &st.FeaturedTestimonials, &st.BlogPosts,
		&st.PublishedBlogPosts, &st.ContactMessages, &st.UnreadMessages,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &st, nil
}
