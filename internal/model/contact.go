// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	IPAddress   string    `json:"ip_address"`
	CountryCode string    `json:"country_code,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasSubject returns true if the sender filled in a subject.
func (m *ContactMessage) HasSubject() bool {
	return m.Subject != ""
}

// DisplaySubject returns the subject or a placeholder for the inbox list.
func (m *ContactMessage) DisplaySubject() string {
	if m.Subject == "" {
		return "(no subject)"
	}
	return m.Subject
}
