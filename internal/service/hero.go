// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// ImageKindHero is the blob key prefix of hero images.
const ImageKindHero = "heroes"

// HeroCacheKey caches the active hero list.
const HeroCacheKey = "hero:active"

// HeroRepo persists hero images.
type HeroRepo interface {
	Create(ctx context.Context, h model.HeroImage) (model.HeroImage, error)
	Get(ctx context.Context, id int64) (model.HeroImage, error)
	List(ctx context.Context) ([]model.HeroImage, error)
	ListActive(ctx context.Context) ([]model.HeroImage, error)
	Update(ctx context.Context, h model.HeroImage) error
	SetPosition(ctx context.Context, id, position int64) error
	Delete(ctx context.Context, id int64) error
}

// HeroStore hands out hero repositories.
type HeroStore interface {
	InTx(ctx context.Context, fn func(HeroRepo) error) error
	Heroes() HeroRepo
}

// SQLHeroStore adapts *store.Store to HeroStore.
type SQLHeroStore struct {
	st *store.Store
}

// NewSQLHeroStore wraps st.
func NewSQLHeroStore(st *store.Store) SQLHeroStore {
	return SQLHeroStore{st: st}
}

// InTx implements HeroStore.
func (s SQLHeroStore) InTx(ctx context.Context, fn func(HeroRepo) error) error {
	return s.st.InHeroTx(ctx, func(r *store.HeroRepository) error { return fn(r) })
}

// Heroes implements HeroStore.
func (s SQLHeroStore) Heroes() HeroRepo {
	return s.st.Heroes()
}

// HeroInput is the editable part of a hero image.
type HeroInput struct {
	Title    string `form:"title" validate:"required,max=100"`
	Caption  string `form:"caption" validate:"max=300"`
	LinkURL  string `form:"link_url" validate:"omitempty,url,max=500"`
	IsActive bool   `form:"is_active"`

	// Image is required on create and replaces the current one on update.
	Image io.Reader `form:"-" validate:"-"`
}

// HeroService manages hero images. The active list is cached.
type HeroService struct {
	store    HeroStore
	images   ImageStore
	active   *cache.TypedCache[[]model.HeroImage]
	validate *Validator
}

// NewHeroService creates a hero service. c may be nil to disable caching.
func NewHeroService(st HeroStore, images ImageStore, c cache.Cache) *HeroService {
	s := &HeroService{
		store:    st,
		images:   images,
		validate: NewValidator(),
	}
	if c != nil {
		s.active = cache.NewTypedCache[[]model.HeroImage](c, 0)
	}
	return s
}

// Create stores a new hero image at the end of the list.
func (s *HeroService) Create(ctx context.Context, principal model.Principal, in HeroInput) (model.HeroImage, error) {
	if principal.IsAnonymous() {
		return model.HeroImage{}, model.ErrUnauthorized
	}
	verrs := model.ValidationErrors{}
	if err := s.check(&in); err != nil && !errors.As(err, &verrs) {
		return model.HeroImage{}, err
	}
	if in.Image == nil {
		verrs.Add("image", "Image is required.")
	}
	if verrs.HasErrors() {
		return model.HeroImage{}, verrs
	}

	key, err := storeUpload(ctx, s.images, ImageKindHero, in.Image)
	if err != nil {
		return model.HeroImage{}, err
	}

	h, err := s.store.Heroes().Create(ctx, model.HeroImage{
		Title:     in.Title,
		Caption:   in.Caption,
		LinkURL:   in.LinkURL,
		ImageKey:  key,
		IsActive:  in.IsActive,
		CreatedBy: principal.UserID,
	})
	if err != nil {
		discardUpload(ctx, s.images, key)
		return model.HeroImage{}, fmt.Errorf("creating hero image: %w", err)
	}

	s.invalidate(ctx)
	slog.Info("hero image created", "id", h.ID, "user_id", principal.UserID)
	return h, nil
}

// Update edits hero id. A new image replaces the stored one.
func (s *HeroService) Update(ctx context.Context, principal model.Principal, id int64, in HeroInput) (model.HeroImage, error) {
	if principal.IsAnonymous() {
		return model.HeroImage{}, model.ErrUnauthorized
	}
	if err := s.check(&in); err != nil {
		return model.HeroImage{}, err
	}

	repo := s.store.Heroes()
	h, err := repo.Get(ctx, id)
	if err != nil {
		return model.HeroImage{}, err
	}

	newKey, err := storeUpload(ctx, s.images, ImageKindHero, in.Image)
	if err != nil {
		return model.HeroImage{}, err
	}

	oldKey := h.ImageKey
	h.Title = in.Title
	h.Caption = in.Caption
	h.LinkURL = in.LinkURL
	h.IsActive = in.IsActive
	if newKey != "" {
		h.ImageKey = newKey
	}

	if err := repo.Update(ctx, h); err != nil {
		discardUpload(ctx, s.images, newKey)
		return model.HeroImage{}, fmt.Errorf("updating hero image %d: %w", id, err)
	}
	if newKey != "" {
		discardUpload(ctx, s.images, oldKey)
	}

	s.invalidate(ctx)
	return repo.Get(ctx, id)
}

// Delete removes hero id and its image.
func (s *HeroService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if principal.IsAnonymous() {
		return model.ErrUnauthorized
	}

	repo := s.store.Heroes()
	h, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting hero image %d: %w", id, err)
	}

	discardUpload(ctx, s.images, h.ImageKey)
	s.invalidate(ctx)
	slog.Info("hero image deleted", "id", id, "user_id", principal.UserID)
	return nil
}

// Get returns hero id.
func (s *HeroService) Get(ctx context.Context, id int64) (model.HeroImage, error) {
	return s.store.Heroes().Get(ctx, id)
}

// ListAll returns every hero image in display order.
func (s *HeroService) ListAll(ctx context.Context) ([]model.HeroImage, error) {
	return s.store.Heroes().List(ctx)
}

// ListActive returns the active hero images in display order.
func (s *HeroService) ListActive(ctx context.Context) ([]model.HeroImage, error) {
	if s.active == nil {
		return s.store.Heroes().ListActive(ctx)
	}
	return s.active.GetOrSet(ctx, HeroCacheKey, s.store.Heroes().ListActive)
}

// Move shifts hero id by delta places in the display order, stopping at
// either end. Moving by zero or past the edge is a no-op.
func (s *HeroService) Move(ctx context.Context, principal model.Principal, id int64, delta int) error {
	if principal.IsAnonymous() {
		return model.ErrUnauthorized
	}

	moved := false
	err := s.store.InTx(ctx, func(repo HeroRepo) error {
		heroes, err := repo.List(ctx)
		if err != nil {
			return err
		}

		from := -1
		for i, h := range heroes {
			if h.ID == id {
				from = i
				break
			}
		}
		if from < 0 {
			return model.ErrNotFound
		}

		to := min(max(from+delta, 0), len(heroes)-1)
		if to == from {
			return nil
		}

		// Renumber so gaps left by deletions do not break the swap.
		order := make([]model.HeroImage, 0, len(heroes))
		order = append(order, heroes[:from]...)
		order = append(order, heroes[from+1:]...)
		order = append(order[:to], append([]model.HeroImage{heroes[from]}, order[to:]...)...)

		for i, h := range order {
			if h.Position == int64(i+1) {
				continue
			}
			if err := repo.SetPosition(ctx, h.ID, int64(i+1)); err != nil {
				return err
			}
		}
		moved = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("moving hero image %d: %w", id, err)
	}

	if moved {
		s.invalidate(ctx)
	}
	return nil
}

func (s *HeroService) check(in *HeroInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Caption = strings.TrimSpace(in.Caption)
	in.LinkURL = strings.TrimSpace(in.LinkURL)
	return s.validate.Struct(in)
}

func (s *HeroService) invalidate(ctx context.Context) {
	if s.active == nil {
		return
	}
	if err := s.active.Delete(context.WithoutCancel(ctx), HeroCacheKey); err != nil {
		slog.Warn("failed to invalidate hero cache", "error", err)
	}
}
