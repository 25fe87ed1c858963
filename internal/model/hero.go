// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// HeroImage is a promotional image shown on the home page.
type HeroImage struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption,omitempty"`
	LinkURL   string    `json:"link_url,omitempty"`
	ImageKey  string    `json:"image_key"`
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasLink returns true if the hero links somewhere.
func (h *HeroImage) HasLink() bool {
	return h.LinkURL != ""
}
