// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Store bundles the database handle with its queries and runs
// transactions.
type Store struct {
	*Queries
	db *sql.DB
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{Queries: New(db), db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Posts returns a repository that runs outside any transaction.
func (s *Store) Posts() *PostRepository {
	return NewPostRepository(s.db)
}

// Users returns the user repository.
func (s *Store) Users() *UserRepository {
	return NewUserRepository(s.db)
}

// Contacts returns the contact message repository.
func (s *Store) Contacts() *ContactRepository {
	return NewContactRepository(s.db)
}

// Heroes returns the hero image repository.
func (s *Store) Heroes() *HeroRepository {
	return NewHeroRepository(s.db)
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InTx runs fn with a post repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back on an error or a
// panic.
func (s *Store) InTx(ctx context.Context, fn func(*PostRepository) error) error {
	return s.ExecTx(ctx, func(q *Queries) error {
		return fn(&PostRepository{q: q})
	})
}

// InHeroTx runs fn with a hero repository bound to a single transaction.
func (s *Store) InHeroTx(ctx context.Context, fn func(*HeroRepository) error) error {
	return s.ExecTx(ctx, func(q *Queries) error {
		return fn(&HeroRepository{q: q})
	})
}

// ExecTx runs fn with queries bound to a single transaction.
func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(s.WithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
