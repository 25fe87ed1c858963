// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olegiv/oblog/internal/util"
)

// Local stores blobs as files below a root directory.
type Local struct {
	root string
}

var _ Blob = (*Local)(nil)

// NewLocal creates root if needed and returns a store rooted there.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Local{root: root}, nil
}

func (l *Local) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return util.JoinWithin(l.root, filepath.FromSlash(key))
}

// Put writes data under key, replacing any previous blob.
func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("creating directory for %q: %w", key, err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %q: %w", key, err)
	}
	return nil
}

// Open returns a reader for key. The caller closes it.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ObjectInfo{}, ErrNotFound
	}
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("opening %q: %w", key, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat %q: %w", key, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ObjectInfo{}, ErrNotFound
	}

	return f, ObjectInfo{
		Size:        st.Size(),
		ContentType: ContentTypeFor(key),
		ModTime:     st.ModTime(),
	}, nil
}

// Delete removes key and any directories left empty. Missing keys are
// not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting %q: %w", key, err)
	}

	root, err := filepath.Abs(l.root)
	if err != nil {
		return nil
	}
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil || abs == root || len(abs) <= len(root) {
			break
		}
		// os.Remove fails on non-empty directories, which ends the walk.
		if os.Remove(abs) != nil {
			break
		}
	}
	return nil
}
