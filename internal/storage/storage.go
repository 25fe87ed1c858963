// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage stores uploaded image blobs on local disk or in a MinIO
// (S3 compatible) bucket behind one interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound is returned when a key has no blob.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that could escape the store.
var ErrInvalidKey = errors.New("invalid blob key")

// Backend names accepted by configuration.
const (
	BackendLocal = "local"
	BackendMinIO = "minio"
)

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Blob is a flat key/value store for binary objects. Keys use forward
// slashes, e.g. "posts/<uuid>/large.jpg".
type Blob interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

var keySegment = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey rejects empty keys, absolute keys and any segment that is
// not a plain file name.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || len(key) > 512 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." || !keySegment.MatchString(seg) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// ContentTypeFor guesses the content type of key from its extension.
func ContentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
