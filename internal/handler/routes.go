// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog/internal/middleware"
)

// requestTimeout bounds every request, uploads included.
const requestTimeout = 30 * time.Second

// staticMaxAge is the Cache-Control max-age of embedded assets.
const staticMaxAge = 24 * time.Hour

// Handlers groups the route handlers.
type Handlers struct {
	Auth      *AuthHandler
	Posts     *PostsHandler
	Contact   *ContactHandler
	Heroes    *HeroesHandler
	Dashboard *DashboardHandler
	Uploads   *UploadsHandler
	Health    *HealthHandler
	SEO       *SEOHandler
}

// RouterConfig holds the shared middleware dependencies.
type RouterConfig struct {
	SessionManager  *scs.SessionManager
	Users           middleware.UserLoader
	SecurityHeaders middleware.SecurityHeadersConfig
	// CSRF protects state-changing routes. Nil disables it.
	CSRF func(http.Handler) http.Handler
	// LoginProtection rate limits login attempts. Nil disables it.
	LoginProtection *middleware.LoginProtection
	// ContactLimiter rate limits contact form posts. Nil disables it.
	ContactLimiter *middleware.IPRateLimiter
	// Static holds the embedded assets served under /static/.
	Static fs.FS
	// AccessLog enables chi request logging.
	AccessLog bool
}

// NewRouter wires every route of the application.
func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))

	if cfg.Static != nil {
		r.With(middleware.StaticCache(staticMaxAge)).
			Handle(RouteStatic+"/*", http.StripPrefix(RouteStatic, http.FileServerFS(cfg.Static)))
	}

	r.Get(RouteRobots, h.SEO.Robots)
	r.Get(RouteSitemap, h.SEO.Sitemap)

	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionManager.LoadAndSave)

		csrf := cfg.CSRF
		if csrf == nil {
			csrf = func(next http.Handler) http.Handler { return next }
		}

		// Public pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalLoadUser(cfg.SessionManager, cfg.Users))

			r.Get(RouteRoot, h.Posts.Home)
			r.Get(RoutePost+RouteParamSlug, h.Posts.Show)
			r.Get(RouteUploads+"/*", h.Uploads.Serve)

			r.Get(RouteHealth, h.Health.Health)
			r.Get(RouteHealth+"/live", h.Health.Liveness)
			r.Get(RouteHealth+"/ready", h.Health.Readiness)

			r.Group(func(r chi.Router) {
				r.Use(csrf)

				r.Get(RouteRegister, h.Auth.RegisterForm)
				r.Get(RouteLogin, h.Auth.LoginForm)
				if cfg.LoginProtection != nil {
					r.With(cfg.LoginProtection.Middleware()).Post(RouteRegister, h.Auth.Register)
					r.With(cfg.LoginProtection.Middleware()).Post(RouteLogin, h.Auth.Login)
				} else {
					r.Post(RouteRegister, h.Auth.Register)
					r.Post(RouteLogin, h.Auth.Login)
				}
				r.Get(RouteLogout, h.Auth.Logout)
				r.Post(RouteLogout, h.Auth.Logout)

				r.Get(RouteContact, h.Contact.Form)
				if cfg.ContactLimiter != nil {
					r.With(cfg.ContactLimiter.Middleware).Post(RouteContact, h.Contact.Submit)
				} else {
					r.Post(RouteContact, h.Contact.Submit)
				}
			})
		})

		// Author area
		r.Group(func(r chi.Router) {
			r.Use(csrf)
			r.Use(middleware.Auth(cfg.SessionManager))
			r.Use(middleware.LoadUser(cfg.SessionManager, cfg.Users))

			r.Get(RouteDashboard, h.Dashboard.Index)

			r.Get(RoutePosts+RouteSuffixNew, h.Posts.NewForm)
			r.Post(RoutePosts, h.Posts.Create)
			r.Get(RoutePosts+RouteParamSlug+RouteSuffixEdit, h.Posts.EditForm)
			r.Post(RoutePosts+RouteParamSlug+RouteSuffixEdit, h.Posts.Update)
			r.Post(RoutePosts+RouteParamSlug+RouteSuffixDelete, h.Posts.Delete)

			r.Route(RouteDashboard+RouteMessages, func(r chi.Router) {
				r.Get(RouteRoot, h.Contact.Messages)
				r.Post(RouteParamID+RouteSuffixRead, h.Contact.MarkRead)
				r.Post(RouteParamID+RouteSuffixDelete, h.Contact.Delete)
			})

			r.Route(RouteDashboard+RouteHeroes, func(r chi.Router) {
				r.Get(RouteRoot, h.Heroes.List)
				r.Get(RouteSuffixNew, h.Heroes.NewForm)
				r.Post(RouteRoot, h.Heroes.Create)
				r.Get(RouteParamID+RouteSuffixEdit, h.Heroes.EditForm)
				r.Post(RouteParamID+RouteSuffixEdit, h.Heroes.Update)
				r.Post(RouteParamID+RouteSuffixDelete, h.Heroes.Delete)
				r.Post(RouteParamID+RouteSuffixMove, h.Heroes.Move)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}
