// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"testing"
)

func contactForm(message string) url.Values {
	return url.Values{
		"name":    {"Jane Reader"},
		"email":   {"jane@example.com"},
		"subject": {"Hello"},
		"message": {message},
	}
}

func TestContact_SubmitAndInbox(t *testing.T) {
	app := newTestApp(t)
	visitor := app.client(t)

	assertStatus(t, visitor.get(RouteContact).Status, http.StatusOK)

	resp := visitor.postForm(RouteContact, contactForm("Short"))
	assertStatus(t, resp.Status, http.StatusUnprocessableEntity)
	assertContains(t, resp.Body, "Message must be at least 10 characters long.")
	assertContains(t, resp.Body, `value="Jane Reader"`)

	assertRedirect(t, visitor.postForm(RouteContact, contactForm("I enjoyed your last post.")), redirectContact)
	assertContains(t, visitor.get(RouteContact).Body, "Thank you, your message has been sent.")

	// The inbox is for logged-in users only.
	assertRedirect(t, visitor.get(redirectMessages), redirectLogin)

	author := app.client(t)
	author.register("alice")
	assertContains(t, author.get(RouteDashboard).Body, "1 unread message<")

	inbox := author.get(redirectMessages)
	assertStatus(t, inbox.Status, http.StatusOK)
	assertContains(t, inbox.Body, "I enjoyed your last post.")
	assertContains(t, inbox.Body, "jane@example.com")
	assertContains(t, inbox.Body, `action="/dashboard/messages/1/read"`)

	assertRedirect(t, author.postForm("/dashboard/messages/1/read", nil), redirectMessages)
	inbox = author.get(redirectMessages)
	assertContains(t, inbox.Body, "Message marked as read.")
	assertNotContains(t, inbox.Body, `action="/dashboard/messages/1/read"`)
	assertContains(t, author.get(RouteDashboard).Body, "0 unread messages")

	assertRedirect(t, author.postForm("/dashboard/messages/1/delete", nil), redirectMessages)
	assertContains(t, author.get(redirectMessages).Body, "The inbox is empty.")

	assertStatus(t, author.postForm("/dashboard/messages/1/delete", nil).Status, http.StatusNotFound)
	assertStatus(t, author.postForm("/dashboard/messages/abc/read", nil).Status, http.StatusBadRequest)
}

func TestContact_RateLimited(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	for i := range 3 {
		resp := c.postForm(RouteContact, contactForm("Message number one."))
		if resp.Status != http.StatusSeeOther {
			t.Fatalf("post %d: status = %d; want %d", i+1, resp.Status, http.StatusSeeOther)
		}
	}

	resp := c.postForm(RouteContact, contactForm("One message too many."))
	assertStatus(t, resp.Status, http.StatusTooManyRequests)
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// Reading the form is not limited.
	assertStatus(t, c.get(RouteContact).Status, http.StatusOK)
}
