// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio showcase entry.
type Project struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	ProjectURL   string    `json:"project_url"`
	GitHubURL    string    `json:"github_url"`
	Technologies string    `json:"technologies"`
	DateCreated  time.Time `json:"date_created"`
	Featured     bool      `json:"featured"`
}

// TechList splits the free-text technologies field on commas, dropping
// empty entries. "Go, PostgreSQL,, HTMX" -> [Go PostgreSQL HTMX].
func (p *Project) TechList() []string {
	var out []string
	for _, t := range strings.Split(p.Technologies, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
