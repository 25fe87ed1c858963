// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

var fastParams = auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newUserService(t *testing.T, p auth.Params) (*UserService, *store.Store) {
	t.Helper()
	st := testutil.TestStore(t)
	return NewUserService(st.Users(), auth.NewHasher(p)), st
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username: "carol",
		Email:    "Carol@Example.com ",
		Password: "correct horse",
		Confirm:  "correct horse",
	}
}

func TestUserService_Register(t *testing.T) {
	svc, _ := newUserService(t, fastParams)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
	assert.Equal(t, "carol@example.com", u.Email)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	dup := validRegistration()
	dup.Username = "carol2"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	dup = validRegistration()
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc, _ := newUserService(t, fastParams)

	tests := []struct {
		name   string
		modify func(*RegisterInput)
		field  string
	}{
		{"short username", func(in *RegisterInput) { in.Username = "c" }, "username"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password, in.Confirm = "short", "short" }, "password"},
		{"mismatch", func(in *RegisterInput) { in.Confirm = "something else" }, "confirm_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.modify(&in)
			_, err := svc.Register(context.Background(), in)
			var verrs model.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	svc, st := newUserService(t, fastParams)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "  CAROL@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	stored, err := st.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastLoginAt.Valid)

	_, err = svc.Authenticate(ctx, "carol@example.com", "wrong password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestUserService_AuthenticateRehashes(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, st, "dave", "password123")

	stronger := fastParams
	stronger.Time = 2
	svc := NewUserService(st.Users(), auth.NewHasher(stronger))

	_, err := svc.Authenticate(ctx, u.Email, "password123")
	require.NoError(t, err)

	stored, err := st.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, u.PasswordHash, stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "t=2")

	_, err = svc.Authenticate(ctx, u.Email, "password123")
	assert.NoError(t, err, "upgraded hash still verifies")
}

func TestUserService_Get(t *testing.T) {
	svc, st := newUserService(t, fastParams)
	u := testutil.CreateUser(t, st, "erin", "password123")

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin", got.Username)

	_, err = svc.Get(context.Background(), u.ID+100)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
