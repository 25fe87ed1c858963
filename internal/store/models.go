// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/olegiv/oblog/internal/model"
)

// Post is a row of the posts table.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	AuthorID  int64     `json:"author_id"`
	ImageKey  string    `json:"image_key"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Model converts the row to the domain type.
func (p Post) Model() model.Post {
	return model.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Slug:      p.Slug,
		AuthorID:  p.AuthorID,
		ImageKey:  p.ImageKey,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// User is a row of the users table.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
}

// Model converts the row to the domain type.
func (u User) Model() model.User {
	return model.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}

// ContactMessage is a row of the contact_messages table.
type ContactMessage struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	IpAddress   string    `json:"ip_address"`
	CountryCode string    `json:"country_code"`
	UserAgent   string    `json:"user_agent"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Model converts the row to the domain type.
func (m ContactMessage) Model() model.ContactMessage {
	return model.ContactMessage{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Message,
		IPAddress:   m.IpAddress,
		CountryCode: m.CountryCode,
		UserAgent:   m.UserAgent,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

// HeroImage is a row of the hero_images table.
type HeroImage struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Caption   string        `json:"caption"`
	LinkUrl   string        `json:"link_url"`
	ImageKey  string        `json:"image_key"`
	Position  int64         `json:"position"`
	IsActive  bool          `json:"is_active"`
	CreatedBy sql.NullInt64 `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Model converts the row to the domain type.
func (h HeroImage) Model() model.HeroImage {
	return model.HeroImage{
		ID:        h.ID,
		Title:     h.Title,
		Caption:   h.Caption,
		LinkURL:   h.LinkUrl,
		ImageKey:  h.ImageKey,
		Position:  h.Position,
		IsActive:  h.IsActive,
		CreatedBy: h.CreatedBy.Int64,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// Event is a row of the events table.
type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

// Model converts the row to the domain type.
func (e Event) Model() model.Event {
	return model.Event{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		UserID:    e.UserID,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
}
