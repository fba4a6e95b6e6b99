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

// PostFilter narrows blog post listings. Tag is a tag slug.
type PostFilter struct {
	Search    string
	Published *bool
	Created   *DateRange
	Tag       string
}

func (f PostFilter) apply(q *query) {
	q.search(f.Search, "p.title", "p.content", "p.excerpt")
	if f.Published != nil {
		q.eq("p.published", *f.Published)
	}
	q.within("p.created_at", f.Created)
	if f.Tag != "" {
		q.where(`p.id IN (SELECT pt.post_id FROM blog_post_tags pt
			JOIN tags t ON t.id = pt.tag_id WHERE t.slug = ` + q.arg(f.Tag) + `)`)
	}
}

// PublishedOnly is the filter used by every public surface.
func PublishedOnly() PostFilter {
	published := true
	return PostFilter{Published: &published}
}

// BlogPostStore handles blog posts and their tag associations.
type BlogPostStore struct {
	db *sql.DB
}

// NewBlogPostStore creates a new BlogPostStore with the given database connection.
func NewBlogPostStore(db *sql.DB) *BlogPostStore {
	return &BlogPostStore{db: db}
}

const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image,
	p.created_at, p.updated_at, p.published`

func scanPost(sc scanner) (*models.BlogPost, error) {
	var p models.BlogPost
	err := sc.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.CreatedAt, &p.UpdatedAt, &p.Published,
	)
	if err != nil {
		return nil, err
	}
	p.Tags = []models.Tag{}
	return &p, nil
}

// List returns posts matching f, newest first, with their tags loaded.
func (s *BlogPostStore) List(ctx context.Context, f PostFilter, limit, offset int) ([]models.BlogPost, error) {
	var q query
	f.apply(&q)
	sqlText := `SELECT ` + postColumns + ` FROM blog_posts p` + q.clause() +
		` ORDER BY p.created_at DESC, p.id DESC` + q.page(limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlText, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var items []models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}

	if err := s.loadTags(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of posts matching f.
func (s *BlogPostStore) Count(ctx context.Context, f PostFilter) (int, error) {
	var q query
	f.apply(&q)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts p`+q.clause(), q.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blog posts: %w", err)
	}
	return n, nil
}

// Latest returns up to limit published posts, newest first.
func (s *BlogPostStore) Latest(ctx context.Context, limit int) ([]models.BlogPost, error) {
	return s.List(ctx, PublishedOnly(), limit, 0)
}

// FindByID retrieves any post (published or not) by UUID. Returns nil if
// not found.
func (s *BlogPostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts p WHERE p.id = $1`, id)
	return s.findOne(ctx, row, "find blog post by id")
}

// FindPublishedBySlug retrieves a published post by slug. Unpublished posts
// are reported as not found.
func (s *BlogPostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts p WHERE p.slug = $1 AND p.published = TRUE`, slug)
	return s.findOne(ctx, row, "find blog post by slug")
}

// SlugExists reports whether a post other than exclude already uses slug.
func (s *BlogPostStore) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2)`, slug, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blog slug: %w", err)
	}
	return exists, nil
}

func (s *BlogPostStore) findOne(ctx context.Context, row *sql.Row, op string) (*models.BlogPost, error) {
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	posts := []models.BlogPost{*p}
	if err := s.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// loadTags fills the Tags field of every post in one query.
func (s *BlogPostStore) loadTags(ctx context.Context, posts []models.BlogPost) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(posts))
	index := make(map[uuid.UUID]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM blog_post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1::uuid[])
		ORDER BY t.name`, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, t)
		}
	}
	return rows.Err()
}

// Create inserts a post and its tag associations in one transaction. Tags
// are matched by slug and created when missing.
func (s *BlogPostStore) Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	created, err := scanPost(tx.QueryRowContext(ctx, `
		INSERT INTO blog_posts AS p (title, slug, content, excerpt, featured_image, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Published,
	))
	if err != nil {
		return nil, wrapWrite("create blog post", err)
	}

	if created.Tags, err = setPostTags(ctx, tx, created.ID, p.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit blog post: %w", err)
	}
	return created, nil
}

// Update overwrites a post and replaces its tag set in one transaction.
// Returns nil if the post does not exist.
func (s *BlogPostStore) Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	updated, err := scanPost(tx.QueryRowContext(ctx, `
		UPDATE blog_posts AS p SET
			title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5,
			published = $6, updated_at = NOW()
		WHERE p.id = $7
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Published, p.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWrite("update blog post", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM blog_post_tags WHERE post_id = $1`, updated.ID); err != nil {
		return nil, fmt.Errorf("clear post tags: %w", err)
	}
	if updated.Tags, err = setPostTags(ctx, tx, updated.ID, p.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit blog post: %w", err)
	}
	return updated, nil
}

// setPostTags links postID to each tag, creating tags that do not exist.
func setPostTags(ctx context.Context, tx *sql.Tx, postID uuid.UUID, tags []models.Tag) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t.Slug == "" || seen[t.Slug] {
			continue
		}
		seen[t.Slug] = true

		var tag models.Tag
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
			RETURNING id, name, slug`, t.Name, t.Slug,
		).Scan(&tag.ID, &tag.Name, &tag.Slug)
		if err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", t.Slug, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blog_post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, postID, tag.ID); err != nil {
			return nil, fmt.Errorf("link tag %q: %w", t.Slug, err)
		}
		out = append(out, tag)
	}
	return out, nil
}

// SetPublished toggles the published flag. Returns nil if not found.
func (s *BlogPostStore) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE blog_posts AS p SET published = $1, updated_at = NOW()
		WHERE p.id = $2
		RETURNING `+postColumns, published, id)
	return s.findOne(ctx, row, "set blog post published")
}

// Delete removes a post (tag links cascade) and reports whether it existed.
func (s *BlogPostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "blog_posts", id)
}

// TagCount is a tag with the number of published posts carrying it.
type TagCount struct {
	models.Tag
	Posts int `json:"posts"`
}

// PublishedTags lists tags used by at least one published post.
func (s *BlogPostStore) PublishedTags(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, COUNT(*)
		FROM tags t
		JOIN blog_post_tags pt ON pt.tag_id = t.id
		JOIN blog_posts p ON p.id = pt.post_id AND p.published = TRUE
		GROUP BY t.id, t.name, t.slug
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list published tags: %w", err)
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Slug, &tc.Posts); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}
