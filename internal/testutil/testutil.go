// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for oblog.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// The database is closed when the test finishes.
func TestDB(t testing.TB) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "oblog-test.db")

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

// TestStore returns a Store over a fresh migrated database.
func TestStore(t testing.TB) *store.Store {
	t.Helper()
	return store.NewStore(TestDB(t))
}

// testParams keeps password hashing fast in tests.
var testParams = auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

// CreateUser inserts a user with the given username and password. The
// email is derived from the username.
func CreateUser(t testing.TB, s *store.Store, username, password string) model.User {
	t.Helper()

	hash, err := auth.NewHasher(testParams).Hash(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	u, err := s.Users().Create(context.Background(), username, username+"@example.com", hash)
	if err != nil {
		t.Fatalf("creating user %q: %v", username, err)
	}
	return u
}
