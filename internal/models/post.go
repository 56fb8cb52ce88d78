// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/slug"
)

// WordsPerMinute is the reading rate used to derive a read time from a body.
const WordsPerMinute = 200

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a single blog post as supplied by a content source. Body holds
// the raw lightweight-markup text; it is rendered on demand and never
// stored in rendered form.
type Post struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Slug         string     `json:"slug" db:"slug"`
	Title        string     `json:"title" db:"title"`
	Excerpt      string     `json:"excerpt" db:"excerpt"`
	Body         string     `json:"body,omitempty" db:"body"`
	Category     string     `json:"category" db:"category"`
	Tags         []string   `json:"tags" db:"-"`
	Author       string     `json:"author,omitempty" db:"author"`
	CoverImage   string     `json:"cover_image,omitempty" db:"cover_image"`
	Status       PostStatus `json:"status" db:"status"`
	Featured     bool       `json:"featured" db:"featured"`
	ReadTime     *int       `json:"read_time,omitempty" db:"read_time"`
	PublishDate  time.Time  `json:"publish_date" db:"publish_date"`
	LastModified *time.Time `json:"last_modified,omitempty" db:"last_modified"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Modified returns LastModified, falling back to PublishDate when unset.
func (p *Post) Modified() time.Time {
	if p.LastModified != nil {
		return *p.LastModified
	}
	return p.PublishDate
}

// Minutes returns the precomputed read time, or derives one from the body.
func (p *Post) Minutes() int {
	if p.ReadTime != nil {
		return *p.ReadTime
	}
	return ReadingTime(p.Body)
}

// URLSlug returns the explicit slug, or one derived from the title.
func (p *Post) URLSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	return slug.ForTitle(p.Title)
}

// HasTag reports whether the post carries the tag, ignoring case.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ReadingTime returns the minutes needed to read body at WordsPerMinute,
// rounded up. The result is never below one.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
