// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const contactColumns = `id, name, email, subject, message, ip_address, country_code, user_agent, is_read, created_at`

func scanContactMessage(row interface{ Scan(...any) error }) (ContactMessage, error) {
	var i ContactMessage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Subject,
		&i.Message,
		&i.IpAddress,
		&i.CountryCode,
		&i.UserAgent,
		&i.IsRead,
		&i.CreatedAt,
	)
	return i, err
}

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, subject, message, ip_address, country_code, user_agent, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + contactColumns

// CreateContactMessageParams holds a sanitized contact submission.
type CreateContactMessageParams struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	IpAddress   string    `json:"ip_address"`
	CountryCode string    `json:"country_code"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, createContactMessage,
		arg.Name,
		arg.Email,
		arg.Subject,
		arg.Message,
		arg.IpAddress,
		arg.CountryCode,
		arg.UserAgent,
		arg.CreatedAt,
	)
	return scanContactMessage(row)
}

const getContactMessage = `-- name: GetContactMessage :one
SELECT ` + contactColumns + ` FROM contact_messages WHERE id = ?`

func (q *Queries) GetContactMessage(ctx context.Context, id int64) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRowContext(ctx, getContactMessage, id))
}

const listContactMessages = `-- name: ListContactMessages :many
SELECT ` + contactColumns + ` FROM contact_messages
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

// ListContactMessagesParams pages through the inbox.
type ListContactMessagesParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListContactMessages(ctx context.Context, arg ListContactMessagesParams) ([]ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, listContactMessages, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ContactMessage
	for rows.Next() {
		i, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markContactMessageRead = `-- name: MarkContactMessageRead :execrows
UPDATE contact_messages SET is_read = 1 WHERE id = ?`

func (q *Queries) MarkContactMessageRead(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, markContactMessageRead, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteContactMessage = `-- name: DeleteContactMessage :execrows
DELETE FROM contact_messages WHERE id = ?`

func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContactMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countContactMessages = `-- name: CountContactMessages :one
SELECT COUNT(*) FROM contact_messages`

func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countContactMessages)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countUnreadContactMessages = `-- name: CountUnreadContactMessages :one
SELECT COUNT(*) FROM contact_messages WHERE is_read = 0`

func (q *Queries) CountUnreadContactMessages(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUnreadContactMessages)
	var count int64
	err := row.Scan(&count)
	return count, err
}
