// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// DefaultProficiency is assigned to skills created without a proficiency.
const DefaultProficiency = 50

// Skill is a named competence with a proficiency percentage. The 0-100
// range is a convention only; values outside it are stored as given.
type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Proficiency int       `json:"proficiency"`
	Category    string    `json:"category"`
}
