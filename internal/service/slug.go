// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/util"
)

// SlugPolicy decides what happens when a desired slug is taken.
type SlugPolicy string

const (
	// PolicySuffix appends -2, -3, ... until a free slug is found.
	PolicySuffix SlugPolicy = "suffix"
	// PolicyStrict rejects a taken slug with model.ErrDuplicateSlug.
	PolicyStrict SlugPolicy = "strict"
)

// DefaultMaxSuffix is the highest numeric suffix tried by PolicySuffix.
const DefaultMaxSuffix = 100

// SlugChecker reports whether a slug is used by a post other than
// excludingID (0 excludes nothing).
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string, excludingID int64) (bool, error)
}

// SlugFinder looks posts up by exact slug.
type SlugFinder interface {
	FindBySlug(ctx context.Context, slug string) (model.Post, error)
}

// SlugResolver maps desired slugs to free ones and slugs back to posts.
type SlugResolver struct {
	Policy    SlugPolicy
	MaxSuffix int
}

// NewSlugResolver returns a resolver for policy with the default suffix
// range. Unknown policies fall back to PolicySuffix.
func NewSlugResolver(policy SlugPolicy) SlugResolver {
	if policy != PolicyStrict {
		policy = PolicySuffix
	}
	return SlugResolver{Policy: policy, MaxSuffix: DefaultMaxSuffix}
}

// Reserve returns a slug no other post uses. An empty desired slug is
// replaced by fallback. A free base is returned unchanged; a taken one is
// rejected or suffixed depending on the policy.
func (r SlugResolver) Reserve(ctx context.Context, repo SlugChecker, desired string, excludingID int64, fallback string) (string, error) {
	base := desired
	if base == "" {
		base = fallback
	}
	if base == "" {
		return "", fmt.Errorf("%w: no usable slug", model.ErrDuplicateSlug)
	}

	taken, err := repo.SlugExists(ctx, base, excludingID)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	if r.Policy == PolicyStrict {
		return "", fmt.Errorf("%w: %q", model.ErrDuplicateSlug, base)
	}

	maxSuffix := r.MaxSuffix
	if maxSuffix < 2 {
		maxSuffix = DefaultMaxSuffix
	}
	for n := 2; n <= maxSuffix; n++ {
		candidate := util.WithSuffix(base, n)
		taken, err := repo.SlugExists(ctx, candidate, excludingID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q and its suffixes up to %d are taken", model.ErrDuplicateSlug, base, maxSuffix)
}

// Resolve returns the post with exactly this slug. Lookups are case
// sensitive; a miss is model.ErrNotFound.
func (r SlugResolver) Resolve(ctx context.Context, repo SlugFinder, slug string) (model.Post, error) {
	if !util.IsValidSlug(slug) {
		return model.Post{}, model.ErrNotFound
	}
	return repo.FindBySlug(ctx, slug)
}
