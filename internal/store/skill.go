// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// SkillFilter narrows skill listings.
type SkillFilter struct {
	Search   string
	Category string
}

func (f SkillFilter) apply(q *query) {
	q.search(f.Search, "name", "category")
	if f.Category != "" {
		q.eq("category", f.Category)
	}
}

// SkillPatch holds the inline-editable skill columns. Nil fields are left
// unchanged.
type SkillPatch struct {
	Proficiency *int    `json:"proficiency"`
	Category    *string `json:"category"`
}

// SkillStore handles all skill-related database operations.
type SkillStore struct {
	db *sql.DB
}

// NewSkillStore creates a new SkillStore with the given database connection.
func NewSkillStore(db *sql.DB) *SkillStore {
	return &SkillStore{db: db}
}

const skillColumns = `id, name, proficiency, category`

func scanSkill(sc scanner) (*models.Skill, error) {
	var s models.Skill
	if err := sc.Scan(&s.ID, &s.Name, &s.Proficiency, &s.Category); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns skills matching f ordered by category then name.
func (s *SkillStore) List(ctx context.Context, f SkillFilter, limit, offset int) ([]models.Skill, error) {
	var q query
	f.apply(&q)
	sqlText := `SELECT ` + skillColumns + ` FROM skills` + q.clause() +
		` ORDER BY category ASC, name ASC, id ASC` + q.page(limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlText, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var items []models.Skill
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		items = append(items, *sk)
	}
	return items, rows.Err()
}

// All returns every skill.
func (s *SkillStore) All(ctx context.Context) ([]models.Skill, error) {
	return s.List(ctx, SkillFilter{}, 0, 0)
}

// Count returns the number of skills matching f.
func (s *SkillStore) Count(ctx context.Context, f SkillFilter) (int, error) {
	var q query
	f.apply(&q)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skills`+q.clause(), q.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	return n, nil
}

// Categories returns the distinct skill categories in alphabetical order.
func (s *SkillStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM skills ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list skill categories: %w", err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan skill category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// FindByID retrieves a skill by its UUID. Returns nil if not found.
func (s *SkillStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)
	sk, err := scanSkill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find skill by id: %w", err)
	}
	return sk, nil
}

// Create inserts a new skill.
func (s *SkillStore) Create(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO skills (name, proficiency, category)
		VALUES ($1, $2, $3)
		RETURNING `+skillColumns,
		sk.Name, sk.Proficiency, sk.Category,
	)
	created, err := scanSkill(row)
	if err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return created, nil
}

// Update overwrites a skill. Returns nil if not found.
func (s *SkillStore) Update(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE skills SET name = $1, proficiency = $2, category = $3
		WHERE id = $4
		RETURNING `+skillColumns,
		sk.Name, sk.Proficiency, sk.Category, sk.ID,
	)
	updated, err := scanSkill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update skill: %w", err)
	}
	return updated, nil
}

// Patch applies the non-nil fields of p. An empty patch just re-reads the
// row. Returns nil if not found.
func (s *SkillStore) Patch(ctx context.Context, id uuid.UUID, p SkillPatch) (*models.Skill, error) {
	var q query
	var sets []string
	if p.Proficiency != nil {
		sets = append(sets, "proficiency = "+q.arg(*p.Proficiency))
	}
	if p.Category != nil {
		sets = append(sets, "category = "+q.arg(*p.Category))
	}
	if len(sets) == 0 {
		return s.FindByID(ctx, id)
	}

	sqlText := `UPDATE skills SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + q.arg(id) + ` RETURNING ` + skillColumns
	sk, err := scanSkill(s.db.QueryRowContext(ctx, sqlText, q.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patch skill: %w", err)
	}
	return sk, nil
}

// Delete removes a skill and reports whether it existed.
func (s *SkillStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "skills", id)
}
