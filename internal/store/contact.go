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

// MessageFilter narrows contact message listings.
type MessageFilter struct {
	Search   string
	Read     *bool
	Received *DateRange
}

func (f MessageFilter) apply(q *query) {
	q.search(f.Search, "name", "email", "subject", "message")
	if f.Read != nil {
		q.eq("read", *f.Read)
	}
	q.within("timestamp", f.Received)
}

// ContactMessageStore persists messages from the contact form. There is no
// method that rewrites the submitted payload; only the read flag changes.
type ContactMessageStore struct {
	db *sql.DB
}

// NewContactMessageStore creates a new ContactMessageStore with the given database connection.
func NewContactMessageStore(db *sql.DB) *ContactMessageStore {
	return &ContactMessageStore{db: db}
}

const messageColumns = `id, name, email, subject, message, timestamp, read`

func scanMessage(sc scanner) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := sc.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Timestamp, &m.Read)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new unread message. The insert is a single statement,
// so either the whole row is stored or nothing is.
func (s *ContactMessageStore) Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message, read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING `+messageColumns,
		m.Name, m.Email, m.Subject, m.Message,
	)
	created, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return created, nil
}

// List returns messages matching f, newest first.
func (s *ContactMessageStore) List(ctx context.Context, f MessageFilter, limit, offset int) ([]models.ContactMessage, error) {
	var q query
	f.apply(&q)
	sqlText := `SELECT ` + messageColumns + ` FROM contact_messages` + q.clause() +
		` ORDER BY timestamp DESC, id DESC` + q.page(limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlText, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var items []models.ContactMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Count returns the number of messages matching f.
func (s *ContactMessageStore) Count(ctx context.Context, f MessageFilter) (int, error) {
	var q query
	f.apply(&q)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`+q.clause(), q.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return n, nil
}

// FindByID retrieves a message by UUID. Returns nil if not found.
func (s *ContactMessageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact message by id: %w", err)
	}
	return m, nil
}

// SetRead sets the read flag on every message in ids and returns how many
// rows changed. Unknown ids are ignored.
func (s *ContactMessageStore) SetRead(ctx context.Context, ids []uuid.UUID, read bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_messages SET read = $1 WHERE id = ANY($2::uuid[])`,
		read, uuidStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("set messages read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set messages read: %w", err)
	}
	return n, nil
}

// Delete removes a message and reports whether it existed.
func (s *ContactMessageStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "contact_messages", id)
}
