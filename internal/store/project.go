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

// ProjectFilter narrows project listings. Zero values mean "any".
type ProjectFilter struct {
	Search   string
	Featured *bool
	Created  *DateRange
}

func (f ProjectFilter) apply(q *query) {
	q.search(f.Search, "title", "description", "technologies")
	if f.Featured != nil {
		q.eq("featured", *f.Featured)
	}
	q.within("date_created", f.Created)
}

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, description, image, project_url, github_url,
	technologies, date_created, featured`

func scanProject(sc scanner) (*models.Project, error) {
	var p models.Project
	err := sc.Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, &p.ProjectURL, &p.GitHubURL,
		&p.Technologies, &p.DateCreated, &p.Featured,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns projects matching f, newest first. A non-positive limit
// returns every match.
func (s *ProjectStore) List(ctx context.Context, f ProjectFilter, limit, offset int) ([]models.Project, error) {
	var q query
	f.apply(&q)
	sqlText := `SELECT ` + projectColumns + ` FROM projects` + q.clause() +
		` ORDER BY date_created DESC, id DESC` + q.page(limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlText, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Count returns the number of projects matching f.
func (s *ProjectStore) Count(ctx context.Context, f ProjectFilter) (int, error) {
	var q query
	f.apply(&q)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+q.clause(), q.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// Featured returns up to limit featured projects, newest first.
func (s *ProjectStore) Featured(ctx context.Context, limit int) ([]models.Project, error) {
	featured := true
	return s.List(ctx, ProjectFilter{Featured: &featured}, limit, 0)
}

// Search returns every project whose title, description or technologies
// contain term, case-insensitively. A blank term yields no results.
func (s *ProjectStore) Search(ctx context.Context, term string) ([]models.Project, error) {
	if isBlank(term) {
		return nil, nil
	}
	return s.List(ctx, ProjectFilter{Search: term}, 0, 0)
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// Create inserts a new project and returns it with the generated ID.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, image, project_url, github_url, technologies, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns,
		p.Title, p.Description, p.Image, p.ProjectURL, p.GitHubURL, p.Technologies, p.Featured,
	)
	created, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update overwrites the editable columns of a project. Returns nil if the
// project does not exist.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE projects SET
			title = $1, description = $2, image = $3, project_url = $4,
			github_url = $5, technologies = $6, featured = $7
		WHERE id = $8
		RETURNING `+projectColumns,
		p.Title, p.Description, p.Image, p.ProjectURL, p.GitHubURL, p.Technologies, p.Featured, p.ID,
	)
	updated, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// SetFeatured toggles the featured flag. Returns nil if not found.
func (s *ProjectStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE projects SET featured = $1 WHERE id = $2 RETURNING `+projectColumns, featured, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set project featured: %w", err)
	}
	return p, nil
}

// Delete removes a project by ID and reports whether a row was removed.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "projects", id)
}
