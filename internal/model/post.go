// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// PostStatuses lists every valid post status.
var PostStatuses = []string{PostStatusPublished, PostStatusDraft, PostStatusArchived}

// IsValidPostStatus reports whether s is a known post status.
func IsValidPostStatus(s string) bool {
	return slices.Contains(PostStatuses, s)
}

// Post represents a blog post addressed by its slug.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	AuthorID  int64     `json:"author_id"`
	ImageKey  string    `json:"image_key,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorName is filled by listing queries that join users.
	AuthorName string `json:"author_name,omitempty"`
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// IsArchived returns true if the post is archived.
func (p *Post) IsArchived() bool {
	return p.Status == PostStatusArchived
}

// HasImage returns true if an image blob is attached.
func (p *Post) HasImage() bool {
	return p.ImageKey != ""
}

// IsOwnedBy returns true if the principal authored the post.
func (p *Post) IsOwnedBy(principal Principal) bool {
	return !principal.IsAnonymous() && p.AuthorID == principal.UserID
}

// VisibleTo reports whether the principal may read the post. Published
// posts are public, everything else is only shown to its author.
func (p *Post) VisibleTo(principal Principal) bool {
	return p.IsPublished() || p.IsOwnedBy(principal)
}

// PostInput holds the column values written by an insert or update.
type PostInput struct {
	Title    string
	Content  string
	Slug     string
	AuthorID int64
	ImageKey string
	Status   string
}
