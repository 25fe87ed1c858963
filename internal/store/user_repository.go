// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/oblog/internal/model"
)

// UserRepository persists registered users.
type UserRepository struct {
	q *Queries
}

// NewUserRepository returns a repository that runs its statements on db.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{q: New(db)}
}

// Create stores a new user. Duplicate email or username yields a
// *model.ConstraintError on that field.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	now := time.Now().UTC()
	u, err := r.q.CreateUser(ctx, CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, translateError(err, "")
	}
	return u.Model(), nil
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, translateError(err, "")
	}
	return u.Model(), nil
}

// FindByEmail returns the user registered with email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return model.User{}, translateError(err, "")
	}
	return u.Model(), nil
}

// UpdatePassword replaces the stored hash of user id.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.q.UpdateUserPassword(ctx, UpdateUserPasswordParams{
		PasswordHash: passwordHash,
		UpdatedAt:    time.Now().UTC(),
		ID:           id,
	})
}

// TouchLastLogin records a successful login at the current time.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	return r.q.UpdateUserLastLogin(ctx, UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		ID:          id,
	})
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}
