// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathEscapesRoot is returned when a joined path ends up outside its root.
var ErrPathEscapesRoot = errors.New("path escapes root directory")

// JoinWithin joins elems onto root and returns the cleaned result, or
// ErrPathEscapesRoot if ".." segments or absolute elements would leave root.
// The root itself is a valid result.
func JoinWithin(root string, elems ...string) (string, error) {
	joined := filepath.Join(append([]string{root}, elems...)...)

	rel, err := filepath.Rel(filepath.Clean(root), joined)
	if err != nil {
		return "", ErrPathEscapesRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathEscapesRoot
	}
	return joined, nil
}
