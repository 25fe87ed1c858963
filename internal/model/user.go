// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including Post, User, ContactMessage, HeroImage and Event.
package model

import (
	"database/sql"
	"time"
)

// User represents a registered author.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// Principal returns the identity of u for authorization checks.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Username: u.Username}
}

// Principal is the identity on whose behalf an operation runs.
// The zero value is the anonymous visitor.
type Principal struct {
	UserID   int64
	Username string
}

// Anonymous is the principal of a visitor without a session.
var Anonymous = Principal{}

// IsAnonymous returns true if no user is logged in.
func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}
