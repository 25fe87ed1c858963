// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
)

// HomeData is rendered by the home page.
type HomeData struct {
	Heroes     []model.HeroImage
	Posts      []model.Post
	Pagination Pagination
}

// PostData is rendered by the post page.
type PostData struct {
	Post    model.Post
	CanEdit bool
}

// PostFormData is rendered by the post form. Post is nil for a new post.
type PostFormData struct {
	Post   *model.Post
	Action string
}

// PostsHandler serves the public post pages and post management.
type PostsHandler struct {
	posts    *service.PostService
	heroes   *service.HeroService
	events   *service.EventService
	renderer *render.Renderer
}

// NewPostsHandler creates a new PostsHandler. heroes may be nil.
func NewPostsHandler(posts *service.PostService, heroes *service.HeroService, events *service.EventService, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{
		posts:    posts,
		heroes:   heroes,
		events:   events,
		renderer: renderer,
	}
}

// Home renders the active hero images and a page of published posts.
func (h *PostsHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListPublished(r.Context(), ParsePageParam(r))
	if handleServiceError(w, r, h.renderer, "Page", err) {
		return
	}

	var heroes []model.HeroImage
	if h.heroes != nil {
		heroes, err = h.heroes.ListActive(r.Context())
		if err != nil {
			slog.Error("failed to load hero images", "error", err)
		}
	}

	renderPage(w, r, h.renderer, http.StatusOK, TemplateHome, "", HomeData{
		Heroes:     heroes,
		Posts:      page.Posts,
		Pagination: BuildPagination(page.Page, page.TotalPages, page.Total, RouteRoot, r.URL.Query()),
	}, nil, nil)
}

// Show renders a single post. Drafts are only visible to their author.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	post, err := h.posts.Get(r.Context(), principal, chi.URLParam(r, "slug"))
	if handleServiceError(w, r, h.renderer, "Post", err) {
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, TemplatePost, post.Title, PostData{
		Post:    post,
		CanEdit: post.IsOwnedBy(principal),
	}, nil, nil)
}

// NewForm renders the empty post form.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	form := url.Values{"status": {model.PostStatusDraft}}
	renderPage(w, r, h.renderer, http.StatusOK, TemplatePostForm, "New post",
		PostFormData{Action: RoutePosts}, form, nil)
}

// Create handles the new post form.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	file, err := parseUploadForm(w, r)
	defer closeUpload(file)
	if err != nil {
		h.formError(w, r, nil, err)
		return
	}

	post, err := h.posts.Create(r.Context(), principal, draftFromForm(r, file))
	if err != nil {
		h.formError(w, r, nil, err)
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryPost, "Post created", &principal.UserID,
		map[string]any{"post_id": post.ID, "slug": post.Slug})
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectPostSlug, post.Slug), "Post created.")
}

// EditForm renders the form for an existing post.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	post, err := h.posts.Get(r.Context(), principal, chi.URLParam(r, "slug"))
	if err == nil && !post.IsOwnedBy(principal) {
		err = model.ErrUnauthorized
	}
	if handleServiceError(w, r, h.renderer, "Post", err) {
		return
	}

	form := url.Values{
		"title":   {post.Title},
		"content": {post.Content},
		"status":  {post.Status},
	}
	renderPage(w, r, h.renderer, http.StatusOK, TemplatePostForm, "Edit post",
		PostFormData{Post: &post, Action: fmt.Sprintf(redirectPostEdit, post.Slug)}, form, nil)
}

// Update handles the edit form. The slug follows the title.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	slug := chi.URLParam(r, "slug")

	current, err := h.posts.Get(r.Context(), principal, slug)
	if err == nil && !current.IsOwnedBy(principal) {
		err = model.ErrUnauthorized
	}
	if handleServiceError(w, r, h.renderer, "Post", err) {
		return
	}

	file, err := parseUploadForm(w, r)
	defer closeUpload(file)
	if err != nil {
		h.formError(w, r, &current, err)
		return
	}

	post, err := h.posts.Update(r.Context(), principal, slug, draftFromForm(r, file))
	if err != nil {
		h.formError(w, r, &current, err)
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryPost, "Post updated", &principal.UserID,
		map[string]any{"post_id": post.ID, "slug": post.Slug, "previous_slug": slug})
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectPostSlug, post.Slug), "Post updated.")
}

// Delete removes a post owned by the current user.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	slug := chi.URLParam(r, "slug")

	if handleServiceError(w, r, h.renderer, "Post", h.posts.Delete(r.Context(), principal, slug)) {
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryPost, "Post deleted", &principal.UserID,
		map[string]any{"slug": slug})
	flashSuccess(w, r, h.renderer, redirectDashboard, "Post deleted.")
}

// formError re-renders the post form for validation and slug errors and
// falls back to the error page otherwise. current is nil on create.
func (h *PostsHandler) formError(w http.ResponseWriter, r *http.Request, current *model.Post, err error) {
	errs, ok := asValidation(err)
	if !ok && errors.Is(err, model.ErrDuplicateSlug) {
		errs, ok = model.ValidationErrors{"title": "A post with this title already exists."}, true
	}
	if !ok {
		handleServiceError(w, r, h.renderer, "Post", err)
		return
	}

	data := PostFormData{Action: RoutePosts}
	title := "New post"
	if current != nil {
		data = PostFormData{Post: current, Action: fmt.Sprintf(redirectPostEdit, current.Slug)}
		title = "Edit post"
	}

	form := url.Values{
		"title":   {r.FormValue("title")},
		"content": {r.FormValue("content")},
		"status":  {r.FormValue("status")},
	}
	renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, TemplatePostForm, title, data, form, errs)
}

func draftFromForm(r *http.Request, image io.Reader) service.PostDraft {
	return service.PostDraft{
		Title:       r.FormValue("title"),
		Content:     r.FormValue("content"),
		Status:      r.FormValue("status"),
		Image:       image,
		RemoveImage: r.FormValue(fieldRemoveImage) != "",
	}
}
