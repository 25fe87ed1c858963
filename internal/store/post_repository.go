// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/oblog/internal/model"
)

// PostRepository persists posts and is the only place that talks SQL about
// them. It works on any DBTX, so the same code runs inside and outside a
// transaction.
type PostRepository struct {
	q *Queries
}

// NewPostRepository returns a repository that runs its statements on db.
func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{q: New(db)}
}

// FindBySlug returns the post with exactly this slug.
func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (model.Post, error) {
	p, err := r.q.GetPostBySlug(ctx, slug)
	if err != nil {
		return model.Post{}, translateError(err, "")
	}
	return p.Model(), nil
}

// FindByID returns the post with the given id.
func (r *PostRepository) FindByID(ctx context.Context, id int64) (model.Post, error) {
	p, err := r.q.GetPostByID(ctx, id)
	if err != nil {
		return model.Post{}, translateError(err, "")
	}
	return p.Model(), nil
}

// SlugExists reports whether a post other than excludingID uses slug.
// An excludingID of 0 excludes nothing.
func (r *PostRepository) SlugExists(ctx context.Context, slug string, excludingID int64) (bool, error) {
	n, err := r.q.CountPostsWithSlug(ctx, CountPostsWithSlugParams{
		Slug:      slug,
		ExcludeID: excludingID,
	})
	if err != nil {
		return false, fmt.Errorf("checking slug %q: %w", slug, err)
	}
	return n > 0, nil
}

// Insert stores a new post. A slug clash or unknown author yields a
// *model.ConstraintError.
func (r *PostRepository) Insert(ctx context.Context, in model.PostInput) (model.Post, error) {
	now := time.Now().UTC()
	p, err := r.q.CreatePost(ctx, CreatePostParams{
		Title:     in.Title,
		Content:   in.Content,
		Slug:      in.Slug,
		AuthorID:  in.AuthorID,
		ImageKey:  in.ImageKey,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Post{}, translateError(err, "author_id")
	}
	return p.Model(), nil
}

// Update overwrites the editable columns of post id. The author is never
// changed.
func (r *PostRepository) Update(ctx context.Context, id int64, in model.PostInput) error {
	n, err := r.q.UpdatePost(ctx, UpdatePostParams{
		Title:     in.Title,
		Content:   in.Content,
		Slug:      in.Slug,
		ImageKey:  in.ImageKey,
		Status:    in.Status,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
	if err != nil {
		return translateError(err, "author_id")
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Rename changes only the slug of post id.
func (r *PostRepository) Rename(ctx context.Context, id int64, slug string) error {
	n, err := r.q.UpdatePostSlug(ctx, UpdatePostSlugParams{Slug: slug, ID: id})
	if err != nil {
		return translateError(err, "")
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteBySlugAndAuthor removes the post with slug if authorID wrote it.
// The check and the delete are one statement; the result is the number of
// rows removed (0 or 1).
func (r *PostRepository) DeleteBySlugAndAuthor(ctx context.Context, slug string, authorID int64) (int64, error) {
	n, err := r.q.DeletePostBySlugAndAuthor(ctx, DeletePostBySlugAndAuthorParams{
		Slug:     slug,
		AuthorID: authorID,
	})
	if err != nil {
		return 0, fmt.Errorf("deleting post %q: %w", slug, err)
	}
	return n, nil
}

// ListPublished returns one page of published posts, newest first.
func (r *PostRepository) ListPublished(ctx context.Context, limit, offset int64) ([]model.Post, error) {
	rows, err := r.q.ListPublishedPosts(ctx, ListPublishedPostsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing published posts: %w", err)
	}

	posts := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		p := row.Post.Model()
		p.AuthorName = row.AuthorName
		posts = append(posts, p)
	}
	return posts, nil
}

// CountPublished returns the number of published posts.
func (r *PostRepository) CountPublished(ctx context.Context) (int64, error) {
	n, err := r.q.CountPublishedPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting published posts: %w", err)
	}
	return n, nil
}

// ListByAuthor returns every post of authorID regardless of status.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	rows, err := r.q.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("listing posts of author %d: %w", authorID, err)
	}

	posts := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.Model())
	}
	return posts, nil
}
