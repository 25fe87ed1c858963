// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/oblog/internal/model"
)

// HeroRepository persists hero images and their display order.
type HeroRepository struct {
	q *Queries
}

// NewHeroRepository returns a repository that runs its statements on db.
func NewHeroRepository(db DBTX) *HeroRepository {
	return &HeroRepository{q: New(db)}
}

// Create appends a hero image after the last position.
func (r *HeroRepository) Create(ctx context.Context, h model.HeroImage) (model.HeroImage, error) {
	last, err := r.q.GetMaxHeroPosition(ctx)
	if err != nil {
		return model.HeroImage{}, fmt.Errorf("reading hero positions: %w", err)
	}

	now := time.Now().UTC()
	row, err := r.q.CreateHeroImage(ctx, CreateHeroImageParams{
		Title:     h.Title,
		Caption:   h.Caption,
		LinkUrl:   h.LinkURL,
		ImageKey:  h.ImageKey,
		Position:  last + 1,
		IsActive:  h.IsActive,
		CreatedBy: sql.NullInt64{Int64: h.CreatedBy, Valid: h.CreatedBy != 0},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.HeroImage{}, translateError(err, "created_by")
	}
	return row.Model(), nil
}

// Get returns hero image id.
func (r *HeroRepository) Get(ctx context.Context, id int64) (model.HeroImage, error) {
	row, err := r.q.GetHeroImage(ctx, id)
	if err != nil {
		return model.HeroImage{}, translateError(err, "")
	}
	return row.Model(), nil
}

// List returns all hero images in display order.
func (r *HeroRepository) List(ctx context.Context) ([]model.HeroImage, error) {
	rows, err := r.q.ListHeroImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing hero images: %w", err)
	}
	return heroModels(rows), nil
}

// ListActive returns the active hero images in display order.
func (r *HeroRepository) ListActive(ctx context.Context) ([]model.HeroImage, error) {
	rows, err := r.q.ListActiveHeroImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active hero images: %w", err)
	}
	return heroModels(rows), nil
}

// Update overwrites the editable columns of h.ID.
func (r *HeroRepository) Update(ctx context.Context, h model.HeroImage) error {
	n, err := r.q.UpdateHeroImage(ctx, UpdateHeroImageParams{
		Title:     h.Title,
		Caption:   h.Caption,
		LinkUrl:   h.LinkURL,
		ImageKey:  h.ImageKey,
		IsActive:  h.IsActive,
		UpdatedAt: time.Now().UTC(),
		ID:        h.ID,
	})
	if err != nil {
		return fmt.Errorf("updating hero image %d: %w", h.ID, err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetPosition moves hero image id to position.
func (r *HeroRepository) SetPosition(ctx context.Context, id, position int64) error {
	return r.q.UpdateHeroImagePosition(ctx, UpdateHeroImagePositionParams{
		Position:  position,
		UpdatedAt: time.Now().UTC(),
		ID:        id,
	})
}

// Delete removes hero image id.
func (r *HeroRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.q.DeleteHeroImage(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting hero image %d: %w", id, err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func heroModels(rows []HeroImage) []model.HeroImage {
	heroes := make([]model.HeroImage, 0, len(rows))
	for _, row := range rows {
		heroes = append(heroes, row.Model())
	}
	return heroes
}
