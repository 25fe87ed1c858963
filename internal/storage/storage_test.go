// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"errors"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"posts/0b6f/original.jpg", true},
		{"heroes/abc-123/thumbnail.png", true},
		{"single.gif", true},
		{"", false},
		{"/etc/passwd", false},
		{"posts/../../etc/passwd", false},
		{"posts/./x.jpg", false},
		{"posts//x.jpg", false},
		{"posts/.hidden", false},
		{"posts/with space.jpg", false},
		{`posts\evil.jpg`, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.valid && err != nil {
				t.Errorf("ValidateKey(%q) = %v, want nil", tt.key, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a/b/large.jpg": "image/jpeg",
		"a/b/large.png": "image/png",
		"a/b/large.gif": "image/gif",
		"a/b/noext":     "application/octet-stream",
	}
	for key, want := range tests {
		if got := ContentTypeFor(key); got != want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", key, got, want)
		}
	}
}
