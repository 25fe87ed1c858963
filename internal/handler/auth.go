// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/util"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users           *service.UserService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(users *service.UserService, renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		users:           users,
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    events,
		loginProtection: lp,
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, TemplateRegister, "Register", nil, nil, nil)
}

// Register handles the registration form and logs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn(logParseFailed, "path", r.URL.Path, "error", err)
		flashError(w, r, h.renderer, redirectRegister, "Invalid form data")
		return
	}

	in := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm_password"),
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		errs, ok := asValidation(err)
		switch {
		case ok:
		case errors.Is(err, model.ErrEmailTaken):
			errs = model.ValidationErrors{"email": "This email is already registered."}
		case errors.Is(err, model.ErrUsernameTaken):
			errs = model.ValidationErrors{"username": "This username is taken."}
		default:
			logAndInternalError(w, "registration failed", "error", err)
			return
		}
		form := url.Values{"username": {in.Username}, "email": {in.Email}}
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, TemplateRegister, "Register", nil, form, errs)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryUser, "User registered", &user.ID,
		map[string]any{"username": user.Username, "ip": util.ClientIP(r)})

	flashSuccess(w, r, h.renderer, redirectDashboard, fmt.Sprintf("Welcome, %s!", user.Username))
}

// LoginForm renders the login page. Logged-in users go to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, TemplateLogin, "Log in", nil, nil, nil)
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn(logParseFailed, "path", r.URL.Path, "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	clientIP := util.ClientIP(r)

	if email == "" || password == "" {
		errs := model.ValidationErrors{}
		if email == "" {
			errs.Add("email", "Email is required.")
		}
		if password == "" {
			errs.Add("password", "Password is required.")
		}
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, TemplateLogin, "Log in", nil,
			url.Values{"email": {email}}, errs)
		return
	}

	if h.loginProtection != nil {
		if remaining := h.loginProtection.Locked(email); remaining > 0 {
			_ = h.eventService.LogWarning(r.Context(), model.EventCategoryAuth, "Login attempt on locked account", nil,
				map[string]any{"email": email, "ip": clientIP})
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, model.ErrInvalidCredentials) {
			logAndInternalError(w, "login failed", "error", err)
			return
		}
		_ = h.eventService.LogWarning(r.Context(), model.EventCategoryAuth, "Login failed", nil,
			map[string]any{"email": email, "ip": clientIP})
		flashError(w, r, h.renderer, redirectLogin, h.failedLoginMessage(email))
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.Succeed(email)
	}

	if !h.startSession(w, r, user) {
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	_ = h.eventService.LogInfo(r.Context(), model.EventCategoryAuth, "User logged in", &user.ID,
		map[string]any{"ip": clientIP})

	flashSuccess(w, r, h.renderer, redirectDashboard, fmt.Sprintf("Welcome back, %s!", user.Username))
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)
	if userID > 0 {
		_ = h.eventService.LogInfo(r.Context(), model.EventCategoryAuth, "User logged out", &userID,
			map[string]any{"ip": util.ClientIP(r)})
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out.", render.FlashInfo)
}

// startSession renews the session token and stores the user id. It writes
// the error response itself and returns false on failure.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user model.User) bool {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return false
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)
	return true
}

// failedLoginMessage records the failure and words the flash message.
func (h *AuthHandler) failedLoginMessage(email string) string {
	if h.loginProtection == nil {
		return msgInvalidCredentials
	}
	f := h.loginProtection.Fail(email)
	switch {
	case f.LockedFor > 0:
		return fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(f.LockedFor))
	case f.Remaining == 1:
		return "Invalid email or password. 1 attempt remaining."
	case f.Remaining <= 3:
		return fmt.Sprintf("Invalid email or password. %d attempts remaining.", f.Remaining)
	}
	return msgInvalidCredentials
}

const msgInvalidCredentials = "Invalid email or password."

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
