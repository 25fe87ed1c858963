// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/util"
)

// MessagesData is rendered by the inbox page.
type MessagesData struct {
	Messages   []model.ContactMessage
	Total      int64
	Pagination Pagination
}

// ContactHandler serves the public contact form and the inbox.
type ContactHandler struct {
	contacts *service.ContactService
	events   *service.EventService
	renderer *render.Renderer
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contacts *service.ContactService, events *service.EventService, renderer *render.Renderer) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		events:   events,
		renderer: renderer,
	}
}

// Form renders the contact form.
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, TemplateContact, "Contact", nil, nil, nil)
}

// Submit stores a contact message.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn(logParseFailed, "path", r.URL.Path, "error", err)
		flashError(w, r, h.renderer, redirectContact, "Invalid form data")
		return
	}

	in := service.ContactInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}
	client := service.ClientInfo{IP: util.ClientIP(r), UserAgent: r.UserAgent()}

	msg, err := h.contacts.Submit(r.Context(), in, client)
	if err != nil {
		if errs, ok := asValidation(err); ok {
			form := url.Values{
				"name":    {in.Name},
				"email":   {in.Email},
				"subject": {in.Subject},
				"message": {in.Message},
			}
			renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, TemplateContact, "Contact", nil, form, errs)
			return
		}
		handleServiceError(w, r, h.renderer, "Message", err)
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryContact, "Contact message received", nil,
		map[string]any{"message_id": msg.ID, "country": msg.CountryCode})
	flashSuccess(w, r, h.renderer, redirectContact, "Thank you, your message has been sent.")
}

// Messages lists stored messages, newest first.
func (h *ContactHandler) Messages(w http.ResponseWriter, r *http.Request) {
	page, err := h.contacts.List(r.Context(), middleware.GetPrincipal(r), ParsePageParam(r))
	if handleServiceError(w, r, h.renderer, "Messages", err) {
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, TemplateMessages, "Messages", MessagesData{
		Messages:   page.Messages,
		Total:      page.Total,
		Pagination: BuildPagination(page.Page, page.TotalPages, page.Total, redirectMessages, r.URL.Query()),
	}, nil, nil)
}

// MarkRead flags a message as read.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		renderErrorPage(w, r, h.renderer, http.StatusBadRequest, "Invalid message id.")
		return
	}
	if handleServiceError(w, r, h.renderer, "Message", h.contacts.MarkRead(r.Context(), middleware.GetPrincipal(r), id)) {
		return
	}
	flashSuccess(w, r, h.renderer, redirectMessages, "Message marked as read.")
}

// Delete removes a message.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	id, err := ParseIDParam(r)
	if err != nil {
		renderErrorPage(w, r, h.renderer, http.StatusBadRequest, "Invalid message id.")
		return
	}
	if handleServiceError(w, r, h.renderer, "Message", h.contacts.Delete(r.Context(), principal, id)) {
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryContact, "Contact message deleted", &principal.UserID,
		map[string]any{"message_id": id})
	flashSuccess(w, r, h.renderer, redirectMessages, "Message deleted.")
}
