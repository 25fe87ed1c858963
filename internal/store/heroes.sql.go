// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const heroColumns = `id, title, caption, link_url, image_key, position, is_active, created_by, created_at, updated_at`

func scanHeroImage(row interface{ Scan(...any) error }) (HeroImage, error) {
	var i HeroImage
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Caption,
		&i.LinkUrl,
		&i.ImageKey,
		&i.Position,
		&i.IsActive,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryHeroImages(ctx context.Context, query string, args ...any) ([]HeroImage, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []HeroImage
	for rows.Next() {
		i, err := scanHeroImage(rows)
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

const createHeroImage = `-- name: CreateHeroImage :one
INSERT INTO hero_images (title, caption, link_url, image_key, position, is_active, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + heroColumns

// CreateHeroImageParams holds the values of a new hero image.
type CreateHeroImageParams struct {
	Title     string        `json:"title"`
	Caption   string        `json:"caption"`
	LinkUrl   string        `json:"link_url"`
	ImageKey  string        `json:"image_key"`
	Position  int64         `json:"position"`
	IsActive  bool          `json:"is_active"`
	CreatedBy sql.NullInt64 `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (q *Queries) CreateHeroImage(ctx context.Context, arg CreateHeroImageParams) (HeroImage, error) {
	row := q.db.QueryRowContext(ctx, createHeroImage,
		arg.Title,
		arg.Caption,
		arg.LinkUrl,
		arg.ImageKey,
		arg.Position,
		arg.IsActive,
		arg.CreatedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanHeroImage(row)
}

const getHeroImage = `-- name: GetHeroImage :one
SELECT ` + heroColumns + ` FROM hero_images WHERE id = ?`

func (q *Queries) GetHeroImage(ctx context.Context, id int64) (HeroImage, error) {
	return scanHeroImage(q.db.QueryRowContext(ctx, getHeroImage, id))
}

const listHeroImages = `-- name: ListHeroImages :many
SELECT ` + heroColumns + ` FROM hero_images ORDER BY position ASC, id ASC`

func (q *Queries) ListHeroImages(ctx context.Context) ([]HeroImage, error) {
	return q.queryHeroImages(ctx, listHeroImages)
}

const listActiveHeroImages = `-- name: ListActiveHeroImages :many
SELECT ` + heroColumns + ` FROM hero_images WHERE is_active = 1 ORDER BY position ASC, id ASC`

func (q *Queries) ListActiveHeroImages(ctx context.Context) ([]HeroImage, error) {
	return q.queryHeroImages(ctx, listActiveHeroImages)
}

const updateHeroImage = `-- name: UpdateHeroImage :execrows
UPDATE hero_images
SET title = ?, caption = ?, link_url = ?, image_key = ?, is_active = ?, updated_at = ?
WHERE id = ?`

// UpdateHeroImageParams holds the editable columns of a hero image.
type UpdateHeroImageParams struct {
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	LinkUrl   string    `json:"link_url"`
	ImageKey  string    `json:"image_key"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateHeroImage(ctx context.Context, arg UpdateHeroImageParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateHeroImage,
		arg.Title,
		arg.Caption,
		arg.LinkUrl,
		arg.ImageKey,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateHeroImagePosition = `-- name: UpdateHeroImagePosition :exec
UPDATE hero_images SET position = ?, updated_at = ? WHERE id = ?`

// UpdateHeroImagePositionParams moves a hero image in the display order.
type UpdateHeroImagePositionParams struct {
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateHeroImagePosition(ctx context.Context, arg UpdateHeroImagePositionParams) error {
	_, err := q.db.ExecContext(ctx, updateHeroImagePosition, arg.Position, arg.UpdatedAt, arg.ID)
	return err
}

const deleteHeroImage = `-- name: DeleteHeroImage :execrows
DELETE FROM hero_images WHERE id = ?`

func (q *Queries) DeleteHeroImage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteHeroImage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getMaxHeroPosition = `-- name: GetMaxHeroPosition :one
SELECT COALESCE(MAX(position), 0) FROM hero_images`

func (q *Queries) GetMaxHeroPosition(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMaxHeroPosition)
	var position int64
	err := row.Scan(&position)
	return position, err
}
