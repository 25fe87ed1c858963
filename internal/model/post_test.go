// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestIsValidPostStatus(t *testing.T) {
	tests := map[string]bool{
		PostStatusDraft:     true,
		PostStatusPublished: true,
		PostStatusArchived:  true,
		"Published":         false,
		"deleted":           false,
		"":                  false,
	}
	for status, want := range tests {
		if got := IsValidPostStatus(status); got != want {
			t.Errorf("IsValidPostStatus(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestPostVisibility(t *testing.T) {
	author := Principal{UserID: 1, Username: "author"}
	other := Principal{UserID: 2, Username: "other"}

	tests := []struct {
		name      string
		status    string
		principal Principal
		want      bool
	}{
		{"published to anonymous", PostStatusPublished, Anonymous, true},
		{"published to other", PostStatusPublished, other, true},
		{"draft to author", PostStatusDraft, author, true},
		{"draft to other", PostStatusDraft, other, false},
		{"draft to anonymous", PostStatusDraft, Anonymous, false},
		{"archived to author", PostStatusArchived, author, true},
		{"archived to other", PostStatusArchived, other, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{AuthorID: 1, Status: tt.status}
			if got := p.VisibleTo(tt.principal); got != tt.want {
				t.Errorf("VisibleTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostIsOwnedBy(t *testing.T) {
	p := &Post{AuthorID: 3}
	if !p.IsOwnedBy(Principal{UserID: 3}) {
		t.Error("IsOwnedBy(author) = false, want true")
	}
	if p.IsOwnedBy(Principal{UserID: 4}) {
		t.Error("IsOwnedBy(other) = true, want false")
	}

	orphan := &Post{}
	if orphan.IsOwnedBy(Anonymous) {
		t.Error("anonymous principal must never own a post")
	}
}

func TestPostStatusHelpers(t *testing.T) {
	p := &Post{Status: PostStatusArchived, ImageKey: "posts/abc/original.jpg"}
	if !p.IsArchived() || p.IsDraft() || p.IsPublished() {
		t.Errorf("status helpers disagree for %q", p.Status)
	}
	if !p.HasImage() {
		t.Error("HasImage() = false, want true")
	}
}
