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

// ProfileStore handles database operations for the site owner's profile.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, name, bio, about_me, profile_picture, about_picture,
	email, phone, linkedin, github, twitter, resume, created_at, updated_at`

func scanProfile(sc scanner) (*models.Profile, error) {
	var p models.Profile
	err := sc.Scan(
		&p.ID, &p.Name, &p.Bio, &p.AboutMe, &p.ProfilePicture, &p.AboutPicture,
		&p.Email, &p.Phone, &p.LinkedIn, &p.GitHub, &p.Twitter, &p.Resume,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// First returns the earliest created profile, or nil if none exists.
func (s *ProfileStore) First(ctx context.Context) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC, id ASC LIMIT 1`)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first profile: %w", err)
	}
	return p, nil
}

// FindByID retrieves a profile by its UUID. Returns nil if not found.
func (s *ProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

// Count returns the number of profile rows.
func (s *ProfileStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

// Create inserts a profile. Singleton enforcement is the caller's job.
func (s *ProfileStore) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if p.AboutPicture == "" {
		p.AboutPicture = models.DefaultAboutPicture
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (name, bio, about_me, profile_picture, about_picture,
			email, phone, linkedin, github, twitter, resume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+profileColumns,
		p.Name, p.Bio, p.AboutMe, p.ProfilePicture, p.AboutPicture,
		p.Email, p.Phone, p.LinkedIn, p.GitHub, p.Twitter, p.Resume,
	)
	created, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// Update overwrites all editable columns. Returns nil if the profile does
// not exist.
func (s *ProfileStore) Update(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if p.AboutPicture == "" {
		p.AboutPicture = models.DefaultAboutPicture
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE profiles SET
			name = $1, bio = $2, about_me = $3, profile_picture = $4, about_picture = $5,
			email = $6, phone = $7, linkedin = $8, github = $9, twitter = $10, resume = $11,
			updated_at = NOW()
		WHERE id = $12
		RETURNING `+profileColumns,
		p.Name, p.Bio, p.AboutMe, p.ProfilePicture, p.AboutPicture,
		p.Email, p.Phone, p.LinkedIn, p.GitHub, p.Twitter, p.Resume, p.ID,
	)
	updated, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}
