// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/session"
)

type fakeUsers map[int64]model.User

func (f fakeUsers) FindByID(_ context.Context, id int64) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

type failingUsers struct{}

func (failingUsers) FindByID(context.Context, int64) (model.User, error) {
	return model.User{}, errors.New("database is locked")
}

// serveWithSession runs h inside a session that optionally carries userID.
func serveWithSession(sm *scs.SessionManager, userID int64, h http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID != 0 {
			sm.Put(r.Context(), session.KeyUserID, userID)
		}
		h.ServeHTTP(w, r)
	})).ServeHTTP(rr, req)
	return rr
}

func principalEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetPrincipal(r).Username))
	})
}

func TestAuth(t *testing.T) {
	sm := scs.New()
	protected := Auth(sm)(principalEcho())

	t.Run("anonymous is redirected", func(t *testing.T) {
		rr := serveWithSession(sm, 0, protected)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})

	t.Run("logged in passes", func(t *testing.T) {
		rr := serveWithSession(sm, 1, protected)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
	})
}

func TestLoadUser(t *testing.T) {
	sm := scs.New()
	users := fakeUsers{7: {ID: 7, Username: "alice", Email: "alice@example.com"}}

	t.Run("known user is loaded", func(t *testing.T) {
		rr := serveWithSession(sm, 7, LoadUser(sm, users)(principalEcho()))
		if rr.Code != http.StatusOK || rr.Body.String() != "alice" {
			t.Errorf("got %d %q, want 200 alice", rr.Code, rr.Body.String())
		}
	})

	t.Run("deleted user is logged out", func(t *testing.T) {
		rr := serveWithSession(sm, 99, LoadUser(sm, users)(principalEcho()))
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
		}
	})

	t.Run("lookup failure is logged out", func(t *testing.T) {
		rr := serveWithSession(sm, 7, LoadUser(sm, failingUsers{})(principalEcho()))
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
		}
	})

	t.Run("no session passes through", func(t *testing.T) {
		rr := serveWithSession(sm, 0, LoadUser(sm, users)(principalEcho()))
		if rr.Code != http.StatusOK || rr.Body.String() != "" {
			t.Errorf("got %d %q, want 200 and anonymous", rr.Code, rr.Body.String())
		}
	})
}

func TestOptionalLoadUser(t *testing.T) {
	sm := scs.New()
	users := fakeUsers{7: {ID: 7, Username: "alice"}}

	rr := serveWithSession(sm, 99, OptionalLoadUser(sm, users)(principalEcho()))
	if rr.Code != http.StatusOK || rr.Body.String() != "" {
		t.Errorf("unknown user: got %d %q, want 200 and anonymous", rr.Code, rr.Body.String())
	}

	rr = serveWithSession(sm, 7, OptionalLoadUser(sm, users)(principalEcho()))
	if rr.Body.String() != "alice" {
		t.Errorf("known user: body = %q, want alice", rr.Body.String())
	}
}

func TestGetUserAndPrincipal(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if GetUser(req) != nil {
			t.Error("GetUser() should be nil")
		}
		if GetUserID(req) != 0 {
			t.Error("GetUserID() should be 0")
		}
		if !GetPrincipal(req).IsAnonymous() {
			t.Error("GetPrincipal() should be anonymous")
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUser(req.Context(), model.User{ID: 123, Username: "bob"}))

		if u := GetUser(req); u == nil || u.ID != 123 {
			t.Fatalf("GetUser() = %+v, want id 123", u)
		}
		if GetUserID(req) != 123 {
			t.Errorf("GetUserID() = %d, want 123", GetUserID(req))
		}
		p := GetPrincipal(req)
		if p.UserID != 123 || p.Username != "bob" {
			t.Errorf("GetPrincipal() = %+v", p)
		}
	})
}
