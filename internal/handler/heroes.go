// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
)

// HeroFormData is rendered by the hero form. Hero is nil for a new image.
type HeroFormData struct {
	Hero   *model.HeroImage
	Action string
}

// HeroesHandler manages hero images from the dashboard.
type HeroesHandler struct {
	heroes   *service.HeroService
	events   *service.EventService
	renderer *render.Renderer
}

// NewHeroesHandler creates a new HeroesHandler.
func NewHeroesHandler(heroes *service.HeroService, events *service.EventService, renderer *render.Renderer) *HeroesHandler {
	return &HeroesHandler{
		heroes:   heroes,
		events:   events,
		renderer: renderer,
	}
}

// List renders all hero images in display order.
func (h *HeroesHandler) List(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.heroes.ListAll(r.Context())
	if handleServiceError(w, r, h.renderer, "Hero images", err) {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, TemplateHeroes, "Hero images", heroes, nil, nil)
}

// NewForm renders the empty hero form.
func (h *HeroesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, TemplateHeroForm, "New hero image",
		HeroFormData{Action: redirectHeroes}, url.Values{"is_active": {"1"}}, nil)
}

// Create handles the new hero form.
func (h *HeroesHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	file, err := parseUploadForm(w, r)
	defer closeUpload(file)
	if err != nil {
		h.formError(w, r, nil, err)
		return
	}

	in := heroInputFromForm(r)
	if file != nil {
		in.Image = file
	}

	hero, err := h.heroes.Create(r.Context(), principal, in)
	if err != nil {
		h.formError(w, r, nil, err)
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryHero, "Hero image created", &principal.UserID,
		map[string]any{"hero_id": hero.ID})
	flashSuccess(w, r, h.renderer, redirectHeroes, "Hero image created.")
}

// EditForm renders the form for an existing hero image.
func (h *HeroesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	hero, ok := h.load(w, r)
	if !ok {
		return
	}

	form := url.Values{
		"title":    {hero.Title},
		"caption":  {hero.Caption},
		"link_url": {hero.LinkURL},
	}
	if hero.IsActive {
		form.Set("is_active", "1")
	}
	renderPage(w, r, h.renderer, http.StatusOK, TemplateHeroForm, "Edit hero image",
		HeroFormData{Hero: &hero, Action: fmt.Sprintf(redirectHeroesEdit, hero.ID)}, form, nil)
}

// Update handles the edit form. A new image replaces the old one.
func (h *HeroesHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	current, ok := h.load(w, r)
	if !ok {
		return
	}

	file, err := parseUploadForm(w, r)
	defer closeUpload(file)
	if err != nil {
		h.formError(w, r, &current, err)
		return
	}

	in := heroInputFromForm(r)
	if file != nil {
		in.Image = file
	}

	if _, err := h.heroes.Update(r.Context(), principal, current.ID, in); err != nil {
		h.formError(w, r, &current, err)
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryHero, "Hero image updated", &principal.UserID,
		map[string]any{"hero_id": current.ID})
	flashSuccess(w, r, h.renderer, redirectHeroes, "Hero image updated.")
}

// Delete removes a hero image and its blobs.
func (h *HeroesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	id, err := ParseIDParam(r)
	if err != nil {
		renderErrorPage(w, r, h.renderer, http.StatusBadRequest, "Invalid hero image id.")
		return
	}
	if handleServiceError(w, r, h.renderer, "Hero image", h.heroes.Delete(r.Context(), principal, id)) {
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryHero, "Hero image deleted", &principal.UserID,
		map[string]any{"hero_id": id})
	flashSuccess(w, r, h.renderer, redirectHeroes, "Hero image deleted.")
}

// Move shifts a hero image one place up or down.
func (h *HeroesHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		renderErrorPage(w, r, h.renderer, http.StatusBadRequest, "Invalid hero image id.")
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.Warn(logParseFailed, "path", r.URL.Path, "error", err)
		flashError(w, r, h.renderer, redirectHeroes, "Invalid form data")
		return
	}

	var delta int
	switch r.FormValue(fieldDirection) {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		flashError(w, r, h.renderer, redirectHeroes, "Unknown direction.")
		return
	}

	if handleServiceError(w, r, h.renderer, "Hero image", h.heroes.Move(r.Context(), middleware.GetPrincipal(r), id, delta)) {
		return
	}
	http.Redirect(w, r, redirectHeroes, http.StatusSeeOther)
}

func (h *HeroesHandler) load(w http.ResponseWriter, r *http.Request) (model.HeroImage, bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		renderErrorPage(w, r, h.renderer, http.StatusBadRequest, "Invalid hero image id.")
		return model.HeroImage{}, false
	}
	hero, err := h.heroes.Get(r.Context(), id)
	if handleServiceError(w, r, h.renderer, "Hero image", err) {
		return model.HeroImage{}, false
	}
	return hero, true
}

func (h *HeroesHandler) formError(w http.ResponseWriter, r *http.Request, current *model.HeroImage, err error) {
	errs, ok := asValidation(err)
	if !ok {
		handleServiceError(w, r, h.renderer, "Hero image", err)
		return
	}

	data := HeroFormData{Action: redirectHeroes}
	title := "New hero image"
	if current != nil {
		data = HeroFormData{Hero: current, Action: fmt.Sprintf(redirectHeroesEdit, current.ID)}
		title = "Edit hero image"
	}

	form := url.Values{
		"title":     {r.FormValue("title")},
		"caption":   {r.FormValue("caption")},
		"link_url":  {r.FormValue("link_url")},
		"is_active": {r.FormValue("is_active")},
	}
	renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, TemplateHeroForm, title, data, form, errs)
}

func heroInputFromForm(r *http.Request) service.HeroInput {
	return service.HeroInput{
		Title:    r.FormValue("title"),
		Caption:  r.FormValue("caption"),
		LinkURL:  r.FormValue("link_url"),
		IsActive: r.FormValue("is_active") != "",
	}
}
