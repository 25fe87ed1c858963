// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/olegiv/oblog/internal/model"
)

// uniqueColumns maps the column named in a UNIQUE failure to the field
// reported to callers.
var uniqueColumns = map[string]string{
	"posts.slug":     "slug",
	"users.email":    "email",
	"users.username": "username",
}

// translateError converts driver errors into model errors. fkField names
// the column reported for a FOREIGN KEY failure, since SQLite does not say
// which reference broke.
func translateError(err error, fkField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if !isConstraintError(err) {
		return err
	}

	msg := err.Error()
	field := "unknown"
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		field = fkField
	case strings.Contains(msg, "UNIQUE constraint failed"):
		for column, name := range uniqueColumns {
			if strings.Contains(msg, column) {
				field = name
				break
			}
		}
	}
	return &model.ConstraintError{Field: field, Err: err}
}

// isConstraintError reports whether err is an SQLITE_CONSTRAINT failure.
// Errors from other drivers (tests use mattn/go-sqlite3 and sqlmock) are
// recognised by their message.
func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return strings.Contains(err.Error(), "constraint failed")
}
