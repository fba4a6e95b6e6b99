// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rating bounds for testimonials.
const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a client quote with a star rating.
type Testimonial struct {
	ID             uuid.UUID `json:"id"`
	ClientName     string    `json:"client_name"`
	ClientPosition string    `json:"client_position"`
	ClientCompany  string    `json:"client_company"`
	Content        string    `json:"content"`
	Avatar         *string   `json:"avatar,omitempty"`
	Rating         int       `json:"rating"`
	Featured       bool      `json:"featured"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidRating reports whether r is one of the allowed star ratings.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Stars renders the rating as filled and empty stars, e.g. "★★★☆☆".
func (t *Testimonial) Stars() string {
	n := min(max(t.Rating, 0), MaxRating)
	return strings.Repeat("★", n) + strings.Repeat("☆", MaxRating-n)
}

// Byline joins position and company for display ("CTO, Acme").
func (t *Testimonial) Byline() string {
	parts := make([]string, 0, 2)
	if t.ClientPosition != "" {
		parts = append(parts, t.ClientPosition)
	}
	if t.ClientCompany != "" {
		parts = append(parts, t.ClientCompany)
	}
	return strings.Join(parts, ", ")
}
