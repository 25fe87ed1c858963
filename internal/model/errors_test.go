// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstraintErrorMatching(t *testing.T) {
	base := errors.New("UNIQUE constraint failed: posts.slug")
	err := fmt.Errorf("inserting post: %w", &ConstraintError{Field: "slug", Err: base})

	if !errors.Is(err, ErrConstraintViolation) {
		t.Error("errors.Is(err, ErrConstraintViolation) = false, want true")
	}
	if !errors.Is(err, base) {
		t.Error("ConstraintError should unwrap to the driver error")
	}
	if !IsConstraintOn(err, "slug") {
		t.Error("IsConstraintOn(err, slug) = false, want true")
	}
	if IsConstraintOn(err, "author_id") {
		t.Error("IsConstraintOn(err, author_id) = true, want false")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("constraint error must not match ErrNotFound")
	}
}

func TestValidationErrors(t *testing.T) {
	v := ValidationErrors{}
	if v.HasErrors() {
		t.Fatal("empty ValidationErrors reports errors")
	}

	v.Add("title", "Title is required")
	v.Add("title", "ignored")
	v.Add("content", "Content is required")

	if v["title"] != "Title is required" {
		t.Errorf("first message should win, got %q", v["title"])
	}
	want := "validation failed: content: Content is required; title: Title is required"
	if got := v.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var target ValidationErrors
	if !errors.As(fmt.Errorf("wrap: %w", v), &target) {
		t.Error("errors.As should find ValidationErrors")
	}
}
