// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

type heroFixture struct {
	st     *store.Store
	svc    *HeroService
	images *fakeImages
	admin  model.Principal
}

func newHeroFixture(t *testing.T) heroFixture {
	t.Helper()
	st := testutil.TestStore(t)
	admin := testutil.CreateUser(t, st, "admin", "password123")
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	images := &fakeImages{}
	return heroFixture{
		st:     st,
		svc:    NewHeroService(NewSQLHeroStore(st), images, mem),
		images: images,
		admin:  admin.Principal(),
	}
}

func heroInput(title string, active bool) HeroInput {
	return HeroInput{Title: title, IsActive: active, Image: bytes.NewReader([]byte("png"))}
}

func (f heroFixture) create(t *testing.T, title string, active bool) model.HeroImage {
	t.Helper()
	h, err := f.svc.Create(context.Background(), f.admin, heroInput(title, active))
	require.NoError(t, err)
	return h
}

func heroTitles(heroes []model.HeroImage) []string {
	titles := make([]string, 0, len(heroes))
	for _, h := range heroes {
		titles = append(titles, h.Title)
	}
	return titles
}

func TestHeroService_Create(t *testing.T) {
	f := newHeroFixture(t)

	h := f.create(t, "Spring sale", true)
	assert.Equal(t, "heroes/img-1/original.jpg", h.ImageKey)
	assert.Equal(t, int64(1), h.Position)
	assert.Equal(t, f.admin.UserID, h.CreatedBy)

	second := f.create(t, "Summer", false)
	assert.Equal(t, int64(2), second.Position)
}

func TestHeroService_CreateValidation(t *testing.T) {
	f := newHeroFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.admin, HeroInput{Title: "No picture"})
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "image")

	_, err = f.svc.Create(ctx, f.admin, HeroInput{LinkURL: "not a url"})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "link_url")
	assert.Contains(t, verrs, "image")

	_, err = f.svc.Create(ctx, model.Anonymous, heroInput("x", true))
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestHeroService_ListActiveIsCached(t *testing.T) {
	f := newHeroFixture(t)
	ctx := context.Background()

	f.create(t, "One", true)
	f.create(t, "Hidden", false)

	active, err := f.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"One"}, heroTitles(active))

	// A write that bypasses the service is not seen until invalidation.
	_, err = f.st.Heroes().Create(ctx, model.HeroImage{Title: "Sneaky", ImageKey: "k", IsActive: true})
	require.NoError(t, err)

	active, err = f.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"One"}, heroTitles(active))

	f.create(t, "Two", true)
	active, err = f.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Sneaky", "Two"}, heroTitles(active))

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestHeroService_Update(t *testing.T) {
	f := newHeroFixture(t)
	ctx := context.Background()
	h := f.create(t, "Original", true)

	got, err := f.svc.Update(ctx, f.admin, h.ID, HeroInput{Title: "Renamed", Caption: "Now with caption", IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, h.ImageKey, got.ImageKey, "image kept without upload")
	assert.Empty(t, f.images.deleted)

	active, err := f.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	got, err = f.svc.Update(ctx, f.admin, h.ID, heroInput("Renamed", true))
	require.NoError(t, err)
	assert.NotEqual(t, h.ImageKey, got.ImageKey)
	assert.Equal(t, []string{h.ImageKey}, f.images.deleted)

	_, err = f.svc.Update(ctx, f.admin, 999, HeroInput{Title: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestHeroService_Delete(t *testing.T) {
	f := newHeroFixture(t)
	ctx := context.Background()
	h := f.create(t, "Gone soon", true)

	_, err := f.svc.ListActive(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.admin, h.ID))
	assert.Equal(t, []string{h.ImageKey}, f.images.deleted)

	active, err := f.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.svc.Get(ctx, h.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.admin, h.ID), model.ErrNotFound)
}

func TestHeroService_Move(t *testing.T) {
	f := newHeroFixture(t)
	ctx := context.Background()

	a := f.create(t, "A", true)
	f.create(t, "B", true)
	c := f.create(t, "C", true)

	_, err := f.svc.ListActive(ctx)
	require.NoError(t, err)

	tests := []struct {
		name  string
		id    int64
		delta int
		want  []string
	}{
		{"down one", a.ID, 1, []string{"B", "A", "C"}},
		{"up to top", c.ID, -5, []string{"C", "B", "A"}},
		{"past the end is a no-op", a.ID, 1, []string{"C", "B", "A"}},
		{"zero", c.ID, 0, []string{"C", "B", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.svc.Move(ctx, f.admin, tt.id, tt.delta))
			active, err := f.svc.ListActive(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, heroTitles(active))
		})
	}

	assert.ErrorIs(t, f.svc.Move(ctx, f.admin, 999, 1), model.ErrNotFound)
	assert.ErrorIs(t, f.svc.Move(ctx, model.Anonymous, a.ID, 1), model.ErrUnauthorized)
}

func TestHeroService_WithoutCache(t *testing.T) {
	st := testutil.TestStore(t)
	admin := testutil.CreateUser(t, st, "admin", "password123")
	svc := NewHeroService(NewSQLHeroStore(st), &fakeImages{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin.Principal(), heroInput("Plain", true))
	require.NoError(t, err)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Plain"}, heroTitles(active))
}
