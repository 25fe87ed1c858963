// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
)

// dashboardEvents is the number of events shown on the dashboard.
const dashboardEvents = 15

// DashboardData is rendered by the dashboard overview.
type DashboardData struct {
	Posts  []model.Post
	Unread int64
	Events []model.Event
}

// DashboardHandler renders the author's overview page.
type DashboardHandler struct {
	posts    *service.PostService
	contacts *service.ContactService
	events   *service.EventService
	renderer *render.Renderer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(posts *service.PostService, contacts *service.ContactService, events *service.EventService, renderer *render.Renderer) *DashboardHandler {
	return &DashboardHandler{
		posts:    posts,
		contacts: contacts,
		events:   events,
		renderer: renderer,
	}
}

// Index lists the current user's posts, the unread message count and the
// most recent events.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.posts.ListMine(ctx, middleware.GetPrincipal(r))
	if handleServiceError(w, r, h.renderer, "Posts", err) {
		return
	}

	unread, err := h.contacts.CountUnread(ctx)
	if err != nil {
		slog.Error("failed to count unread messages", "error", err)
	}

	events, err := h.events.Recent(ctx, dashboardEvents)
	if err != nil {
		slog.Error("failed to load recent events", "error", err)
	}

	renderPage(w, r, h.renderer, http.StatusOK, TemplateDashboard, "Dashboard", DashboardData{
		Posts:  posts,
		Unread: unread,
		Events: events,
	}, nil, nil)
}
