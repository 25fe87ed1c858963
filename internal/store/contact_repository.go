// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/oblog/internal/model"
)

// ContactRepository persists contact form submissions.
type ContactRepository struct {
	q *Queries
}

// NewContactRepository returns a repository that runs its statements on db.
func NewContactRepository(db DBTX) *ContactRepository {
	return &ContactRepository{q: New(db)}
}

// Create stores a submission. CreatedAt defaults to now.
func (r *ContactRepository) Create(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	row, err := r.q.CreateContactMessage(ctx, CreateContactMessageParams{
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Message,
		IpAddress:   m.IPAddress,
		CountryCode: m.CountryCode,
		UserAgent:   m.UserAgent,
		CreatedAt:   m.CreatedAt,
	})
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("creating contact message: %w", err)
	}
	return row.Model(), nil
}

// Get returns message id.
func (r *ContactRepository) Get(ctx context.Context, id int64) (model.ContactMessage, error) {
	row, err := r.q.GetContactMessage(ctx, id)
	if err != nil {
		return model.ContactMessage{}, translateError(err, "")
	}
	return row.Model(), nil
}

// List returns one page of messages, newest first.
func (r *ContactRepository) List(ctx context.Context, limit, offset int64) ([]model.ContactMessage, error) {
	rows, err := r.q.ListContactMessages(ctx, ListContactMessagesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	msgs := make([]model.ContactMessage, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.Model())
	}
	return msgs, nil
}

// MarkRead flags message id as read.
func (r *ContactRepository) MarkRead(ctx context.Context, id int64) error {
	n, err := r.q.MarkContactMessageRead(ctx, id)
	if err != nil {
		return fmt.Errorf("marking message %d read: %w", id, err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes message id.
func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.q.DeleteContactMessage(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting message %d: %w", id, err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Count returns the total number of messages.
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	return r.q.CountContactMessages(ctx)
}

// CountUnread returns the number of unread messages.
func (r *ContactRepository) CountUnread(ctx context.Context) (int64, error) {
	return r.q.CountUnreadContactMessages(ctx)
}
