// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/oblog/internal/seo"
	"github.com/olegiv/oblog/internal/service"
)

// SEOHandler serves robots.txt and the sitemap.
type SEOHandler struct {
	posts       *service.PostService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived from
// each request. disallowAll blocks every crawler.
func NewSEOHandler(posts *service.PostService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		posts:       posts,
		siteURL:     siteURL,
		disallowAll: disallowAll,
	}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	})))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListRecent(r.Context(), seo.MaxURLs-2)
	if err != nil {
		logAndInternalError(w, "failed to list posts for sitemap", "error", err)
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL(r))
	var newest time.Time
	if len(posts) > 0 {
		newest = posts[0].UpdatedAt
	}
	b.AddHomepage(newest)
	b.AddPage(RouteContact)
	for _, p := range posts {
		b.AddPost(seo.SitemapPost{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	slog.Debug("sitemap generated", "urls", b.Len())
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
