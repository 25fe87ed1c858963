// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the blog: public pages,
// identity, the author dashboard, uploads and health checks.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
)

// ErrorData is rendered by the error page.
type ErrorData struct {
	Status  int
	Message string
}

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// renderPage renders name with the current user filled in.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name, title string, data any, form url.Values, errs model.ValidationErrors) {
	td := render.TemplateData{
		Title:  title,
		Data:   data,
		User:   middleware.GetUser(r),
		Form:   form,
		Errors: errs,
	}
	if err := renderer.RenderStatus(w, r, status, name, td); err != nil {
		logAndInternalError(w, logRenderFailed, "template", name, "error", err)
	}
}

// renderErrorPage renders the error page with status.
func renderErrorPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, message string) {
	renderPage(w, r, renderer, status, TemplateError, http.StatusText(status),
		ErrorData{Status: status, Message: message}, nil, nil)
}

// handleServiceError maps domain errors to an error page. It returns false
// when err is nil.
func handleServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, entity string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, model.ErrNotFound):
		renderErrorPage(w, r, renderer, http.StatusNotFound, entity+" not found.")
	case errors.Is(err, model.ErrUnauthorized):
		renderErrorPage(w, r, renderer, http.StatusForbidden, "You are not allowed to do that.")
	default:
		slog.Error("request failed", "entity", entity, "path", r.URL.Path, "error", err)
		renderErrorPage(w, r, renderer, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return true
}

// asValidation extracts field errors from err.
func asValidation(err error) (model.ValidationErrors, bool) {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
