// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mileusna/useragent"

	"github.com/olegiv/oblog/internal/model"
)

// MessagesPerPage is the page size of the contact inbox.
const MessagesPerPage = 20

// ContactRepo persists contact messages.
type ContactRepo interface {
	Create(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error)
	Get(ctx context.Context, id int64) (model.ContactMessage, error)
	List(ctx context.Context, limit, offset int64) ([]model.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

// CountryLookup resolves an IP address to an ISO country code.
type CountryLookup interface {
	Country(ip string) string
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Subject string `form:"subject" validate:"max=200"`
	Message string `form:"message" validate:"required,min=10,max=5000"`
}

// ClientInfo describes the sender of a request.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// MessagePage is one page of the contact inbox.
type MessagePage struct {
	Messages   []model.ContactMessage
	Page       int
	TotalPages int
	Total      int64
}

// ContactService stores contact form submissions and exposes them to
// logged-in users.
type ContactService struct {
	repo     ContactRepo
	geo      CountryLookup
	validate *Validator
	strict   *bluemonday.Policy
}

// NewContactService creates a contact service. geo may be nil.
func NewContactService(repo ContactRepo, geo CountryLookup) *ContactService {
	return &ContactService{
		repo:     repo,
		geo:      geo,
		validate: NewValidator(),
		strict:   bluemonday.StrictPolicy(),
	}
}

// Submit sanitizes, validates and stores in.
func (s *ContactService) Submit(ctx context.Context, in ContactInput, client ClientInfo) (model.ContactMessage, error) {
	in = ContactInput{
		Name:    plainText(s.strict, in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: plainText(s.strict, in.Subject),
		Message: plainText(s.strict, in.Message),
	}
	if err := s.validate.Struct(in); err != nil {
		return model.ContactMessage{}, err
	}

	msg := model.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		IPAddress: client.IP,
		UserAgent: SummarizeUserAgent(client.UserAgent),
	}
	if s.geo != nil {
		msg.CountryCode = s.geo.Country(client.IP)
	}

	saved, err := s.repo.Create(ctx, msg)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("submitting contact message: %w", err)
	}

	slog.Info("contact message received", "id", saved.ID, "country", saved.CountryCode)
	return saved, nil
}

// List returns page (1-based) of the inbox, newest first.
func (s *ContactService) List(ctx context.Context, principal model.Principal, page int) (MessagePage, error) {
	if principal.IsAnonymous() {
		return MessagePage{}, model.ErrUnauthorized
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return MessagePage{}, err
	}
	page, totalPages := clampPage(page, total, MessagesPerPage)

	msgs, err := s.repo.List(ctx, MessagesPerPage, int64((page-1)*MessagesPerPage))
	if err != nil {
		return MessagePage{}, err
	}
	return MessagePage{Messages: msgs, Page: page, TotalPages: totalPages, Total: total}, nil
}

// Get returns message id.
func (s *ContactService) Get(ctx context.Context, principal model.Principal, id int64) (model.ContactMessage, error) {
	if principal.IsAnonymous() {
		return model.ContactMessage{}, model.ErrUnauthorized
	}
	return s.repo.Get(ctx, id)
}

// MarkRead flags message id as read.
func (s *ContactService) MarkRead(ctx context.Context, principal model.Principal, id int64) error {
	if principal.IsAnonymous() {
		return model.ErrUnauthorized
	}
	return s.repo.MarkRead(ctx, id)
}

// Delete removes message id.
func (s *ContactService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if principal.IsAnonymous() {
		return model.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting contact message %d: %w", id, err)
	}
	slog.Info("contact message deleted", "id", id, "user_id", principal.UserID)
	return nil
}

// CountUnread returns the number of unread messages.
func (s *ContactService) CountUnread(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

// SummarizeUserAgent reduces a User-Agent header to "Browser on OS".
func SummarizeUserAgent(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.Parse(ua)

	name := parsed.Name
	if name == "" {
		name = "Unknown"
	}
	if parsed.Bot {
		return name + " (bot)"
	}

	var b strings.Builder
	b.WriteString(name)
	if parsed.OS != "" {
		b.WriteString(" on ")
		b.WriteString(parsed.OS)
	}
	switch {
	case parsed.Tablet:
		b.WriteString(" (tablet)")
	case parsed.Mobile:
		b.WriteString(" (mobile)")
	}
	return b.String()
}

// clampPage returns page limited to [1, totalPages] and totalPages,
// which is at least 1.
func clampPage(page int, total int64, perPage int) (int, int) {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}
