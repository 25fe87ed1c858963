// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/olegiv/oblog/internal/imaging"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// MaxSlugAttempts bounds how often a create or update is retried after
// losing a slug race to a concurrent writer.
const MaxSlugAttempts = 5

// PostsPerPage is the page size of the public post list.
const PostsPerPage = 10

// ImageKindPost is the blob key prefix of post images.
const ImageKindPost = "posts"

// PostRepo is the persistence interface the post use cases need.
type PostRepo interface {
	SlugChecker
	SlugFinder
	FindByID(ctx context.Context, id int64) (model.Post, error)
	Insert(ctx context.Context, in model.PostInput) (model.Post, error)
	Update(ctx context.Context, id int64, in model.PostInput) error
	Rename(ctx context.Context, id int64, slug string) error
	DeleteBySlugAndAuthor(ctx context.Context, slug string, authorID int64) (int64, error)
	ListPublished(ctx context.Context, limit, offset int64) ([]model.Post, error)
	CountPublished(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error)
}

// PostStore hands out post repositories, optionally bound to a
// transaction that commits when fn returns nil.
type PostStore interface {
	InTx(ctx context.Context, fn func(PostRepo) error) error
	Posts() PostRepo
}

// ImageStore keeps uploaded images and their variants.
type ImageStore interface {
	Store(ctx context.Context, kind string, r io.Reader) (*imaging.Result, error)
	Delete(ctx context.Context, key string) error
}

// SQLPostStore adapts *store.Store to PostStore.
type SQLPostStore struct {
	st *store.Store
}

// NewSQLPostStore wraps st.
func NewSQLPostStore(st *store.Store) SQLPostStore {
	return SQLPostStore{st: st}
}

// InTx implements PostStore.
func (s SQLPostStore) InTx(ctx context.Context, fn func(PostRepo) error) error {
	return s.st.InTx(ctx, func(r *store.PostRepository) error { return fn(r) })
}

// Posts implements PostStore.
func (s SQLPostStore) Posts() PostRepo {
	return s.st.Posts()
}

// PostDraft is the author-supplied part of a post.
type PostDraft struct {
	Title   string
	Content string
	// Status defaults to draft when empty.
	Status string

	// Image is the uploaded file, nil when none was sent.
	Image io.Reader
	// RemoveImage drops the current image on update.
	RemoveImage bool
}

// postFields is the validated view of a PostDraft.
type postFields struct {
	Title   string `form:"title" validate:"required,max=200"`
	Content string `form:"content" validate:"required"`
	Status  string `form:"status" validate:"oneof=published draft archived"`
}

// PostPage is one page of the public post list.
type PostPage struct {
	Posts      []model.Post
	Page       int
	TotalPages int
	Total      int64
}

// HasPrev reports whether a previous page exists.
func (p PostPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PostPage) HasNext() bool { return p.Page < p.TotalPages }

// PostService implements the post use cases. Every call takes the acting
// principal explicitly.
type PostService struct {
	store    PostStore
	images   ImageStore
	slugs    SlugResolver
	validate *Validator
	backoff  func() retry.Backoff
}

// NewPostService creates a post service. images may be nil, in which case
// uploads are rejected.
func NewPostService(st PostStore, images ImageStore, slugs SlugResolver) *PostService {
	return &PostService{
		store:    st,
		images:   images,
		slugs:    slugs,
		validate: NewValidator(),
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(MaxSlugAttempts-1, retry.NewConstant(5*time.Millisecond))
		},
	}
}

// Create validates d, stores its image and inserts the post with a slug
// derived from the unmodified title.
func (s *PostService) Create(ctx context.Context, principal model.Principal, d PostDraft) (model.Post, error) {
	if principal.IsAnonymous() {
		return model.Post{}, model.ErrUnauthorized
	}
	if err := s.check(&d); err != nil {
		return model.Post{}, err
	}

	imageKey, err := s.storeImage(ctx, d.Image)
	if err != nil {
		return model.Post{}, err
	}

	desired := util.Slugify(d.Title)
	var created model.Post

	err = s.withSlugRetry(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(repo PostRepo) error {
			slug := "draft-" + uuid.NewString()
			if desired != "" {
				var err error
				if slug, err = s.slugs.Reserve(ctx, repo, desired, 0, ""); err != nil {
					return err
				}
			}

			p, err := repo.Insert(ctx, model.PostInput{
				Title:    d.Title,
				Content:  d.Content,
				Slug:     slug,
				AuthorID: principal.UserID,
				ImageKey: imageKey,
				Status:   d.Status,
			})
			if err != nil {
				return err
			}

			if desired == "" {
				final, err := s.slugs.Reserve(ctx, repo, "", p.ID, fallbackSlug(p.ID))
				if err != nil {
					return err
				}
				if err := repo.Rename(ctx, p.ID, final); err != nil {
					return err
				}
				p.Slug = final
			}

			created = p
			return nil
		})
	})
	if err != nil {
		s.discardImage(ctx, imageKey)
		return model.Post{}, fmt.Errorf("creating post: %w", err)
	}

	slog.Info("post created", "slug", created.Slug, "user_id", principal.UserID)
	return created, nil
}

// Update edits the post addressed by slug. Only its author may edit it.
// The slug is recomputed from the new title and may change.
func (s *PostService) Update(ctx context.Context, principal model.Principal, slug string, d PostDraft) (model.Post, error) {
	if principal.IsAnonymous() {
		return model.Post{}, model.ErrUnauthorized
	}
	if err := s.check(&d); err != nil {
		return model.Post{}, err
	}

	newImage, err := s.storeImage(ctx, d.Image)
	if err != nil {
		return model.Post{}, err
	}

	var updated model.Post
	var replacedImage string

	err = s.withSlugRetry(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(repo PostRepo) error {
			p, err := s.slugs.Resolve(ctx, repo, slug)
			if err != nil {
				return err
			}
			if !p.IsOwnedBy(principal) {
				return model.ErrUnauthorized
			}

			newSlug, err := s.slugs.Reserve(ctx, repo, util.Slugify(d.Title), p.ID, fallbackSlug(p.ID))
			if err != nil {
				return err
			}

			imageKey := p.ImageKey
			switch {
			case newImage != "":
				imageKey = newImage
			case d.RemoveImage:
				imageKey = ""
			}

			if err := repo.Update(ctx, p.ID, model.PostInput{
				Title:    d.Title,
				Content:  d.Content,
				Slug:     newSlug,
				ImageKey: imageKey,
				Status:   d.Status,
			}); err != nil {
				return err
			}

			replacedImage = ""
			if p.ImageKey != "" && p.ImageKey != imageKey {
				replacedImage = p.ImageKey
			}

			updated, err = repo.FindByID(ctx, p.ID)
			return err
		})
	})
	if err != nil {
		s.discardImage(ctx, newImage)
		return model.Post{}, fmt.Errorf("updating post %q: %w", slug, err)
	}

	s.discardImage(ctx, replacedImage)
	if updated.Slug != slug {
		slog.Info("post slug changed", "from", slug, "to", updated.Slug, "user_id", principal.UserID)
	}
	return updated, nil
}

// Delete removes the post addressed by slug if principal wrote it. The
// ownership check and the delete are a single statement.
func (s *PostService) Delete(ctx context.Context, principal model.Principal, slug string) error {
	if principal.IsAnonymous() {
		return model.ErrUnauthorized
	}

	var imageKey string
	err := s.store.InTx(ctx, func(repo PostRepo) error {
		before, findErr := repo.FindBySlug(ctx, slug)
		if findErr != nil && !errors.Is(findErr, model.ErrNotFound) {
			return findErr
		}

		n, err := repo.DeleteBySlugAndAuthor(ctx, slug, principal.UserID)
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := repo.FindBySlug(ctx, slug); err != nil {
				return err
			}
			return model.ErrUnauthorized
		}

		imageKey = before.ImageKey
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting post %q: %w", slug, err)
	}

	s.discardImage(ctx, imageKey)
	slog.Info("post deleted", "slug", slug, "user_id", principal.UserID)
	return nil
}

// Get returns the post addressed by slug. Drafts and archived posts are
// only visible to their author; everyone else gets model.ErrNotFound.
func (s *PostService) Get(ctx context.Context, principal model.Principal, slug string) (model.Post, error) {
	p, err := s.slugs.Resolve(ctx, s.store.Posts(), slug)
	if err != nil {
		return model.Post{}, err
	}
	if !p.VisibleTo(principal) {
		return model.Post{}, model.ErrNotFound
	}
	return p, nil
}

// ListPublished returns page (1-based) of the published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context, page int) (PostPage, error) {
	repo := s.store.Posts()

	total, err := repo.CountPublished(ctx)
	if err != nil {
		return PostPage{}, err
	}

	page, totalPages := clampPage(page, total, PostsPerPage)

	posts, err := repo.ListPublished(ctx, PostsPerPage, int64((page-1)*PostsPerPage))
	if err != nil {
		return PostPage{}, err
	}

	return PostPage{Posts: posts, Page: page, TotalPages: totalPages, Total: total}, nil
}

// ListRecent returns up to limit published posts, newest first.
func (s *PostService) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	return s.store.Posts().ListPublished(ctx, int64(limit), 0)
}

// ListMine returns every post of principal, newest first.
func (s *PostService) ListMine(ctx context.Context, principal model.Principal) ([]model.Post, error) {
	if principal.IsAnonymous() {
		return nil, model.ErrUnauthorized
	}
	return s.store.Posts().ListByAuthor(ctx, principal.UserID)
}

func (s *PostService) check(d *PostDraft) error {
	if d.Status == "" {
		d.Status = model.PostStatusDraft
	}
	// Whitespace-only input is as good as empty.
	return s.validate.Struct(postFields{
		Title:   strings.TrimSpace(d.Title),
		Content: strings.TrimSpace(d.Content),
		Status:  d.Status,
	})
}

// withSlugRetry reruns fn while the store reports a slug uniqueness
// violation, at most MaxSlugAttempts times.
func (s *PostService) withSlugRetry(ctx context.Context, fn func(context.Context) error) error {
	attempts := 0
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempts++
		err := fn(ctx)
		if model.IsConstraintOn(err, "slug") {
			slog.Debug("slug taken concurrently, retrying", "attempt", attempts)
			return retry.RetryableError(err)
		}
		return err
	})
	if model.IsConstraintOn(err, "slug") {
		return fmt.Errorf("%w after %d attempts: %w", model.ErrDuplicateSlug, attempts, err)
	}
	return err
}

func (s *PostService) storeImage(ctx context.Context, r io.Reader) (string, error) {
	return storeUpload(ctx, s.images, ImageKindPost, r)
}

func (s *PostService) discardImage(ctx context.Context, key string) {
	discardUpload(ctx, s.images, key)
}

// storeUpload saves r under kind and returns the key of the original.
// A nil reader stores nothing.
func storeUpload(ctx context.Context, images ImageStore, kind string, r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	if images == nil {
		return "", model.ValidationErrors{"image": "Image uploads are disabled."}
	}

	res, err := images.Store(ctx, kind, r)
	if err != nil {
		if msg, ok := imageErrorMessage(err); ok {
			return "", model.ValidationErrors{"image": msg}
		}
		return "", fmt.Errorf("storing %s image: %w", kind, err)
	}
	return res.Key, nil
}

// discardUpload deletes key and its variants, logging failures.
func discardUpload(ctx context.Context, images ImageStore, key string) {
	if key == "" || images == nil {
		return
	}
	if err := images.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.Warn("failed to delete image", "key", key, "error", err)
	}
}

// imageErrorMessage maps upload rejections to a form message.
func imageErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return fmt.Sprintf("Image must be smaller than %d MB.", imaging.MaxUploadSize>>20), true
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return "Image must be a JPEG, PNG, GIF or WebP file.", true
	case errors.Is(err, imaging.ErrEmpty):
		return "Image file is empty.", true
	}
	return "", false
}

// fallbackSlug is used when a title produces no slug at all.
func fallbackSlug(id int64) string {
	return fmt.Sprintf("post-%d", id)
}
