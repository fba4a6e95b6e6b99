// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAboutPicture is used when the profile has no dedicated about picture.
const DefaultAboutPicture = "profiles/default_about.jpg"

// Profile is the site owner's personal information shown on the landing
// page. The back-office keeps it a singleton; the table itself does not.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	AboutMe        string    `json:"about_me"`
	ProfilePicture string    `json:"profile_picture"`
	AboutPicture   string    `json:"about_picture"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	LinkedIn       string    `json:"linkedin"`
	GitHub         string    `json:"github"`
	Twitter        string    `json:"twitter"`
	Resume         *string   `json:"resume,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasSocialLinks reports whether any social profile URL is set.
func (p *Profile) HasSocialLinks() bool {
	return p.LinkedIn != "" || p.GitHub != "" || p.Twitter != ""
}

// AboutPictureOrDefault returns the about picture path, falling back to
// the bundled default image.
func (p *Profile) AboutPictureOrDefault() string {
	if p.AboutPicture == "" {
		return DefaultAboutPicture
	}
	return p.AboutPicture
}
