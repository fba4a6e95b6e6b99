// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// TestimonialFilter narrows testimonial listings. Rating 0 means any.
type TestimonialFilter struct {
	Search   string
	Rating   int
	Featured *bool
	Created  *DateRange
}

func (f TestimonialFilter) apply(q *query) {
	q.search(f.Search, "client_name", "content")
	if f.Rating != 0 {
		q.eq("rating", f.Rating)
	}
	if f.Featured != nil {
		q.eq("featured", *f.Featured)
	}
	q.within("created_at", f.Created)
}

// TestimonialStore handles all testimonial-related database operations.
type TestimonialStore struct {
	db *sql.DB
}

// NewTestimonialStore creates a new TestimonialStore with the given database connection.
func NewTestimonialStore(db *sql.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

const testimonialColumns = `id, client_name, client_position, client_company, content,
	avatar, rating, featured, created_at`

func scanTestimonial(sc scanner) (*models.Testimonial, error) {
	var t models.Testimonial
	err := sc.Scan(
		&t.ID, &t.ClientName, &t.ClientPosition, &t.ClientCompany, &t.Content,
		&t.Avatar, &t.Rating, &t.Featured, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns testimonials matching f, newest first.
func (s *TestimonialStore) List(ctx context.Context, f TestimonialFilter, limit, offset int) ([]models.Testimonial, error) {
	var q query
	f.apply(&q)
	sqlText := `SELECT ` + testimonialColumns + ` FROM testimonials` + q.clause() +
		` ORDER BY created_at DESC, id DESC` + q.page(limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlText, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var items []models.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Count returns the number of testimonials matching f.
func (s *TestimonialStore) Count(ctx context.Context, f TestimonialFilter) (int, error) {
	var q query
	f.apply(&q)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM testimonials`+q.clause(), q.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count testimonials: %w", err)
	}
	return n, nil
}

// Featured returns up to limit featured testimonials, newest first.
func (s *TestimonialStore) Featured(ctx context.Context, limit int) ([]models.Testimonial, error) {
	featured := true
	return s.List(ctx, TestimonialFilter{Featured: &featured}, limit, 0)
}

// FindByID retrieves a testimonial by its UUID. Returns nil if not found.
func (s *TestimonialStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id)
	t, err := scanTestimonial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find testimonial by id: %w", err)
	}
	return t, nil
}

// Create inserts a new testimonial. The rating CHECK constraint rejects
// values outside 1..5.
func (s *TestimonialStore) Create(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (client_name, client_position, client_company, content, avatar, rating, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+testimonialColumns,
		t.ClientName, t.ClientPosition, t.ClientCompany, t.Content, t.Avatar, t.Rating, t.Featured,
	)
	created, err := scanTestimonial(row)
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return created, nil
}

// Update overwrites a testimonial. Returns nil if not found.
func (s *TestimonialStore) Update(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE testimonials SET
			client_name = $1, client_position = $2, client_company = $3, content = $4,
			avatar = $5, rating = $6, featured = $7
		WHERE id = $8
		RETURNING `+testimonialColumns,
		t.ClientName, t.ClientPosition, t.ClientCompany, t.Content, t.Avatar, t.Rating, t.Featured, t.ID,
	)
	updated, err := scanTestimonial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return updated, nil
}

// SetFeatured toggles the featured flag. Returns nil if not found.
func (s *TestimonialStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE testimonials SET featured = $1 WHERE id = $2 RETURNING `+testimonialColumns, featured, id)
	t, err := scanTestimonial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set testimonial featured: %w", err)
	}
	return t, nil
}

// Delete removes a testimonial and reports whether it existed.
func (s *TestimonialStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "testimonials", id)
}
