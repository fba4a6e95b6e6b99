// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the rows stored for the portfolio site: the
// public content types, contact messages, and back-office operators.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the permission level of a back-office operator.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is a back-office operator. Operators sign in with a password and a
// TOTP code; there are no public accounts.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	TOTPSecret   *string    `json:"-"`
	TOTPEnabled  bool       `json:"totp_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the role may delete content and edit the
// profile. Role names are case-sensitive.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Needs2FASetup reports whether the operator still has to enrol a TOTP device.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}
