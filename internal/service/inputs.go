// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"regexp"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/slug"
	"portfolio/internal/store"
)

// Column widths shared by the input validators.
const (
	maxNameLen     = 100
	maxTitleLen    = 200
	maxPhoneLen    = 20
	maxCategoryLen = 100
	maxTechLen     = 200
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// reservedSlugs are fixed routes under /blog/ that a post slug would
// otherwise shadow.
var reservedSlugs = map[string]bool{"feed": true}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Name           string  `json:"name"`
	Bio            string  `json:"bio"`
	AboutMe        string  `json:"about_me"`
	ProfilePicture string  `json:"profile_picture"`
	AboutPicture   string  `json:"about_picture"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	LinkedIn       string  `json:"linkedin"`
	GitHub         string  `json:"github"`
	Twitter        string  `json:"twitter"`
	Resume         *string `json:"resume"`
}

func (in *ProfileInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.LinkedIn = strings.TrimSpace(in.LinkedIn)
	in.GitHub = strings.TrimSpace(in.GitHub)
	in.Twitter = strings.TrimSpace(in.Twitter)
	if in.Resume != nil && strings.TrimSpace(*in.Resume) == "" {
		in.Resume = nil
	}
}

// Validate normalizes the input and reports field errors.
func (in *ProfileInput) Validate() error {
	in.normalize()
	var v validator
	v.text("name", "Name", in.Name, maxNameLen)
	v.text("bio", "Bio", in.Bio, 0)
	v.text("profile_picture", "Profile picture", in.ProfilePicture, 0)
	v.email("email", "Email", in.Email)
	v.maxLen("phone", "Phone", in.Phone, maxPhoneLen)
	v.url("linkedin", "LinkedIn", in.LinkedIn, 0)
	v.url("github", "GitHub", in.GitHub, 0)
	v.url("twitter", "Twitter", in.Twitter, 0)
	return v.err()
}

func (in *ProfileInput) apply(p *models.Profile) {
	p.Name = in.Name
	p.Bio = in.Bio
	p.AboutMe = in.AboutMe
	p.ProfilePicture = in.ProfilePicture
	p.AboutPicture = in.AboutPicture
	p.Email = in.Email
	p.Phone = in.Phone
	p.LinkedIn = in.LinkedIn
	p.GitHub = in.GitHub
	p.Twitter = in.Twitter
	p.Resume = in.Resume
}

// ProjectInput is the editable part of a project.
type ProjectInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProjectURL   string `json:"project_url"`
	GitHubURL    string `json:"github_url"`
	Technologies string `json:"technologies"`
	Featured     bool   `json:"featured"`
}

// Validate normalizes the input and reports field errors.
func (in *ProjectInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.ProjectURL = strings.TrimSpace(in.ProjectURL)
	in.GitHubURL = strings.TrimSpace(in.GitHubURL)
	in.Technologies = strings.TrimSpace(in.Technologies)

	var v validator
	v.text("title", "Title", in.Title, maxTitleLen)
	v.text("description", "Description", in.Description, 0)
	v.text("image", "Image", in.Image, 0)
	v.url("project_url", "Project URL", in.ProjectURL, 0)
	v.url("github_url", "GitHub URL", in.GitHubURL, 0)
	v.text("technologies", "Technologies", in.Technologies, maxTechLen)
	return v.err()
}

func (in *ProjectInput) apply(p *models.Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.Image = in.Image
	p.ProjectURL = in.ProjectURL
	p.GitHubURL = in.GitHubURL
	p.Technologies = in.Technologies
	p.Featured = in.Featured
}

// SkillInput is the editable part of a skill. A nil Proficiency means the
// default. Proficiency is not range checked.
type SkillInput struct {
	Name        string `json:"name"`
	Proficiency *int   `json:"proficiency"`
	Category    string `json:"category"`
}

// Validate normalizes the input and reports field errors.
func (in *SkillInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)

	var v validator
	v.text("name", "Name", in.Name, maxNameLen)
	v.text("category", "Category", in.Category, maxCategoryLen)
	return v.err()
}

func (in *SkillInput) apply(s *models.Skill) {
	s.Name = in.Name
	s.Category = in.Category
	s.Proficiency = models.DefaultProficiency
	if in.Proficiency != nil {
		s.Proficiency = *in.Proficiency
	}
}

func validateSkillPatch(p *store.SkillPatch) error {
	var v validator
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		p.Category = &c
		v.text("category", "Category", c, maxCategoryLen)
	}
	v.check(p.Proficiency != nil || p.Category != nil, "patch", "Nothing to update.")
	return v.err()
}

// TestimonialInput is the editable part of a testimonial.
type TestimonialInput struct {
	ClientName     string  `json:"client_name"`
	ClientPosition string  `json:"client_position"`
	ClientCompany  string  `json:"client_company"`
	Content        string  `json:"content"`
	Avatar         *string `json:"avatar"`
	Rating         int     `json:"rating"`
	Featured       bool    `json:"featured"`
}

// Validate normalizes the input and reports field errors.
func (in *TestimonialInput) Validate() error {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientPosition = strings.TrimSpace(in.ClientPosition)
	in.ClientCompany = strings.TrimSpace(in.ClientCompany)
	if in.Avatar != nil && strings.TrimSpace(*in.Avatar) == "" {
		in.Avatar = nil
	}

	var v validator
	v.text("client_name", "Client name", in.ClientName, maxNameLen)
	v.maxLen("client_position", "Client position", in.ClientPosition, maxNameLen)
	v.maxLen("client_company", "Client company", in.ClientCompany, maxNameLen)
	v.text("content", "Content", in.Content, 0)
	v.check(models.ValidRating(in.Rating), "rating", "Rating must be between 1 and 5.")
	return v.err()
}

func (in *TestimonialInput) apply(t *models.Testimonial) {
	t.ClientName = in.ClientName
	t.ClientPosition = in.ClientPosition
	t.ClientCompany = in.ClientCompany
	t.Content = in.Content
	t.Avatar = in.Avatar
	t.Rating = in.Rating
	t.Featured = in.Featured
}

// PostInput is the editable part of a blog post. An empty Slug is
// generated from the title.
type PostInput struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage string   `json:"featured_image"`
	Published     bool     `json:"published"`
	Tags          []string `json:"tags"`
}

// Validate normalizes the input and reports field errors. Slug uniqueness
// is checked by the back-office against the store.
func (in *PostInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	explicit := in.Slug != ""
	if !explicit {
		in.Slug = slug.Generate(in.Title)
		if reservedSlugs[in.Slug] {
			in.Slug = slug.WithSuffix(in.Slug, 2)
		}
	}

	var v validator
	v.text("title", "Title", in.Title, maxTitleLen)
	v.text("content", "Content", in.Content, 0)
	v.text("excerpt", "Excerpt", in.Excerpt, models.MaxExcerptLen)
	v.text("featured_image", "Featured image", in.FeaturedImage, 0)
	if in.Title != "" {
		if in.Slug == "" {
			v.add("slug", "Slug could not be generated from the title; enter one.")
		} else {
			v.maxLen("slug", "Slug", in.Slug, slug.MaxLen)
			v.check(slugPattern.MatchString(in.Slug), "slug",
				"Slug may only contain lowercase letters, numbers and hyphens.")
			v.check(!reservedSlugs[in.Slug], "slug", "This slug is reserved; choose another.")
		}
	}
	return v.err()
}

// tags turns free-form labels into tags, dropping blanks and duplicates.
func (in *PostInput) tags() []models.Tag {
	seen := map[string]bool{}
	var out []models.Tag
	for _, name := range in.Tags {
		name = strings.TrimSpace(name)
		s := slug.Generate(name)
		if name == "" || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, models.Tag{Name: name, Slug: s})
	}
	return out
}

func (in *PostInput) apply(p *models.BlogPost) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.FeaturedImage = in.FeaturedImage
	p.Published = in.Published
	p.Tags = in.tags()
}
