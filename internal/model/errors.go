// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by the store, service and handler layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateSlug       = errors.New("duplicate slug")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
)

// ConstraintError reports a storage-level uniqueness or foreign key
// violation on a single column.
type ConstraintError struct {
	Field string
	Err   error
}

func (e *ConstraintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("constraint violation on %s: %v", e.Field, e.Err)
	}
	return "constraint violation on " + e.Field
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Is makes every ConstraintError match ErrConstraintViolation.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintOn reports whether err is a ConstraintError on field.
func IsConstraintOn(err error, field string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Field == field
}

// ValidationErrors maps form field names to human-readable messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (v ValidationErrors) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// HasErrors returns true if at least one field failed.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}
