// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
)

// UserRepo is the persistence interface of the identity use cases.
type UserRepo interface {
	Create(ctx context.Context, username, email, passwordHash string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int64) error
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username string `form:"username" validate:"required,min=2,max=32"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=8,max=128"`
	Confirm  string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// UserService registers and authenticates users.
type UserService struct {
	users    UserRepo
	hasher   *auth.Hasher
	validate *Validator
}

// NewUserService creates a user service hashing with hasher.
func NewUserService(users UserRepo, hasher *auth.Hasher) *UserService {
	return &UserService{users: users, hasher: hasher, validate: NewValidator()}
}

// Register creates an account. A taken email or username is reported as
// model.ErrEmailTaken or model.ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	u, err := s.users.Create(ctx, in.Username, in.Email, hash)
	switch {
	case model.IsConstraintOn(err, "email"):
		return model.User{}, model.ErrEmailTaken
	case model.IsConstraintOn(err, "username"):
		return model.User{}, model.ErrUsernameTaken
	case err != nil:
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords both yield model.ErrInvalidCredentials after the same amount of
// hashing work.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, model.ErrNotFound) {
		s.hasher.VerifyDummy(password)
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("loading user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		slog.Error("stored password hash is unreadable", "user_id", u.ID, "error", err)
		return model.User{}, model.ErrInvalidCredentials
	}
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(u.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
				slog.Warn("failed to upgrade password hash", "user_id", u.ID, "error", err)
			}
		}
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		slog.Warn("failed to record last login", "user_id", u.ID, "error", err)
	}

	return u, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
