// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixRead is the suffix for mark-as-read routes.
	RouteSuffixRead = "/read"
	// RouteSuffixMove is the suffix for move routes.
	RouteSuffixMove = "/move"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteContact is the public contact form.
	RouteContact = "/contact"
	// RoutePost is the public post route prefix.
	RoutePost = "/post"
	// RoutePosts is the post management prefix.
	RoutePosts = "/posts"
	// RouteDashboard is the dashboard prefix.
	RouteDashboard = "/dashboard"
	// RouteMessages is the contact inbox below the dashboard.
	RouteMessages = "/messages"
	// RouteHeroes is the hero management below the dashboard.
	RouteHeroes = "/heroes"
	// RouteUploads serves stored image blobs.
	RouteUploads = "/uploads"
	// RouteStatic serves embedded static assets.
	RouteStatic = "/static"
	// RouteHealth is the health check prefix.
	RouteHealth = "/health"
	// RouteRobots serves robots.txt.
	RouteRobots = "/robots.txt"
	// RouteSitemap serves the XML sitemap.
	RouteSitemap = "/sitemap.xml"
)

// Redirect targets.
const (
	redirectLogin      = RouteLogin
	redirectRegister   = RouteRegister
	redirectContact    = RouteContact
	redirectDashboard  = RouteDashboard
	redirectPostsNew   = RoutePosts + RouteSuffixNew
	redirectMessages   = RouteDashboard + RouteMessages
	redirectHeroes     = RouteDashboard + RouteHeroes
	redirectHeroesNew  = redirectHeroes + RouteSuffixNew
	redirectPostSlug   = RoutePost + "/%s"
	redirectPostEdit   = RoutePosts + "/%s" + RouteSuffixEdit
	redirectHeroesEdit = redirectHeroes + "/%d" + RouteSuffixEdit
)

// Template names.
const (
	TemplateHome      = "pages/home"
	TemplatePost      = "pages/post"
	TemplateContact   = "pages/contact"
	TemplateError     = "pages/error"
	TemplateLogin     = "auth/login"
	TemplateRegister  = "auth/register"
	TemplateDashboard = "dashboard/index"
	TemplatePostForm  = "dashboard/post_form"
	TemplateMessages  = "dashboard/messages"
	TemplateHeroes    = "dashboard/heroes"
	TemplateHeroForm  = "dashboard/hero_form"
)

// Form field names shared by handlers and templates.
const (
	fieldImage       = "image"
	fieldRemoveImage = "remove_image"
	fieldDirection   = "direction"
)

// Log messages reused across handlers.
const (
	logRenderFailed = "failed to render template"
	logParseFailed  = "failed to parse form"
)

// LogCacheInit is logged once the hero cache backend is chosen.
const LogCacheInit = "hero cache initialized"
