// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
)

// maxFormOverhead is the room left for text fields next to an image.
const maxFormOverhead = 1 << 20

// multipartMemory is kept in memory before parts spill to temp files.
const multipartMemory = 8 << 20

// parseUploadForm parses a form that may carry an image. Plain urlencoded
// bodies are accepted too. The returned file is nil when no image was sent
// and must be closed by the caller otherwise. Oversized bodies yield
// model.ValidationErrors for the image field.
func parseUploadForm(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+maxFormOverhead)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, model.ValidationErrors{
				fieldImage: fmt.Sprintf("Image must be smaller than %d MB.", imaging.MaxUploadSize>>20),
			}
		}
		return nil, fmt.Errorf("parsing form: %w", err)
	}

	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(fieldImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if header.Size == 0 {
		_ = file.Close()
		return nil, nil
	}
	return file, nil
}

// closeUpload closes f when an image was sent.
func closeUpload(f multipart.File) {
	if f != nil {
		_ = f.Close()
	}
}
