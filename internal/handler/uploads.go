// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/storage"
)

// uploadsCacheControl lets browsers keep image blobs; keys never change content.
const uploadsCacheControl = "public, max-age=31536000, immutable"

// UploadsHandler streams stored image blobs.
type UploadsHandler struct {
	blobs storage.Blob
}

// NewUploadsHandler creates a new UploadsHandler.
func NewUploadsHandler(blobs storage.Blob) *UploadsHandler {
	return &UploadsHandler{blobs: blobs}
}

// Serve handles GET /uploads/*.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if err := storage.ValidateKey(key); err != nil {
		http.NotFound(w, r)
		return
	}

	rc, info, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to open blob", "key", key, "error", err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Cache-Control", uploadsCacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.ModTime.IsZero() {
		w.Header().Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("blob stream interrupted", "key", key, "error", err)
	}
}
