// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const postColumns = `id, title, content, slug, author_id, image_key, status, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Content,
		&i.Slug,
		&i.AuthorID,
		&i.ImageKey,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPost = `-- name: CreatePost :one
INSERT INTO posts (title, content, slug, author_id, image_key, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

// CreatePostParams holds the values of a new post row.
type CreatePostParams struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	AuthorID  int64     `json:"author_id"`
	ImageKey  string    `json:"image_key"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title,
		arg.Content,
		arg.Slug,
		arg.AuthorID,
		arg.ImageKey,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const getPostBySlug = `-- name: GetPostBySlug :one
SELECT ` + postColumns + ` FROM posts WHERE slug = ?`

func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostBySlug, slug))
}

const getPostByID = `-- name: GetPostByID :one
SELECT ` + postColumns + ` FROM posts WHERE id = ?`

func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const countPostsWithSlug = `-- name: CountPostsWithSlug :one
SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?`

// CountPostsWithSlugParams selects posts using Slug other than ExcludeID.
type CountPostsWithSlugParams struct {
	Slug      string `json:"slug"`
	ExcludeID int64  `json:"exclude_id"`
}

func (q *Queries) CountPostsWithSlug(ctx context.Context, arg CountPostsWithSlugParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPostsWithSlug, arg.Slug, arg.ExcludeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updatePost = `-- name: UpdatePost :execrows
UPDATE posts
SET title = ?, content = ?, slug = ?, image_key = ?, status = ?, updated_at = ?
WHERE id = ?`

// UpdatePostParams holds the editable columns of a post.
type UpdatePostParams struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	ImageKey  string    `json:"image_key"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePost,
		arg.Title,
		arg.Content,
		arg.Slug,
		arg.ImageKey,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updatePostSlug = `-- name: UpdatePostSlug :execrows
UPDATE posts SET slug = ? WHERE id = ?`

// UpdatePostSlugParams renames a post.
type UpdatePostSlugParams struct {
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

func (q *Queries) UpdatePostSlug(ctx context.Context, arg UpdatePostSlugParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePostSlug, arg.Slug, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deletePostBySlugAndAuthor = `-- name: DeletePostBySlugAndAuthor :execrows
DELETE FROM posts WHERE slug = ? AND author_id = ?`

// DeletePostBySlugAndAuthorParams scopes a delete to one author.
type DeletePostBySlugAndAuthorParams struct {
	Slug     string `json:"slug"`
	AuthorID int64  `json:"author_id"`
}

func (q *Queries) DeletePostBySlugAndAuthor(ctx context.Context, arg DeletePostBySlugAndAuthorParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePostBySlugAndAuthor, arg.Slug, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPublishedPosts = `-- name: ListPublishedPosts :many
SELECT p.id, p.title, p.content, p.slug, p.author_id, p.image_key, p.status, p.created_at, p.updated_at,
       u.username AS author_name
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.status = 'published'
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?`

// ListPublishedPostsParams pages through published posts.
type ListPublishedPostsParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// ListPublishedPostsRow is a published post with its author's username.
type ListPublishedPostsRow struct {
	Post
	AuthorName string `json:"author_name"`
}

func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]ListPublishedPostsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPosts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ListPublishedPostsRow
	for rows.Next() {
		var i ListPublishedPostsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Content,
			&i.Slug,
			&i.AuthorID,
			&i.ImageKey,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.AuthorName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countPublishedPosts = `-- name: CountPublishedPosts :one
SELECT COUNT(*) FROM posts WHERE status = 'published'`

func (q *Queries) CountPublishedPosts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPublishedPosts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listPostsByAuthor = `-- name: ListPostsByAuthor :many
SELECT ` + postColumns + ` FROM posts
WHERE author_id = ?
ORDER BY updated_at DESC, id DESC`

func (q *Queries) ListPostsByAuthor(ctx context.Context, authorID int64) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPostsByAuthor, authorID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Post
	for rows.Next() {
		i, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
