// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
)

// Default author credentials created by Seed.
const (
	DefaultAuthorUsername = "admin"
	DefaultAuthorEmail    = "admin@example.com"
	DefaultAuthorPassword = "changeme1234"
)

const welcomeContent = `Welcome to **oblog**.

Log in with the seeded account, open the dashboard and write your first post.
Every post gets an address derived from its title.`

// Seed creates a default author and a welcome post when enabled and the
// users table is empty.
func Seed(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	users := NewUserRepository(db)
	_, err := users.FindByEmail(ctx, DefaultAuthorEmail)
	if err == nil {
		slog.Info("default author already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("checking for default author: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAuthorPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := users.Create(ctx, DefaultAuthorUsername, DefaultAuthorEmail, passwordHash)
	if err != nil {
		return fmt.Errorf("creating default author: %w", err)
	}

	post, err := NewPostRepository(db).Insert(ctx, model.PostInput{
		Title:    "Hello, World!",
		Content:  welcomeContent,
		Slug:     "hello-world",
		AuthorID: user.ID,
		Status:   model.PostStatusPublished,
	})
	if err != nil && !model.IsConstraintOn(err, "slug") {
		return fmt.Errorf("creating welcome post: %w", err)
	}

	slog.Info("created default author",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAuthorPassword,
		"welcome_post", post.Slug,
	)

	return nil
}
