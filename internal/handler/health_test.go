// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/version"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func newHealthRequest(path string, loggedIn bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if loggedIn {
		req = req.WithContext(middleware.WithUser(req.Context(), model.User{ID: 1, Username: "alice"}))
	}
	return req
}

func TestHealthHandler_Health_Public(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, "", version.Info{Version: "v1.2.3"})

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", false))

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != statusHealthy {
		t.Errorf("status = %v; want %s", resp["status"], statusHealthy)
	}
	if len(resp) != 1 {
		t.Errorf("public response leaks details: %v", resp)
	}
}

func TestHealthHandler_Health_LoggedIn(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, "", version.Info{Version: "v1.2.3"})

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", true))
	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Version != "v1.2.3" {
		t.Errorf("Version = %q; want v1.2.3", resp.Version)
	}
	if resp.Uptime == "" {
		t.Error("Uptime is empty")
	}
	for _, name := range []string{"database", "disk"} {
		if c, ok := resp.Checks[name]; !ok || c.Status != statusHealthy {
			t.Errorf("check %s = %+v; want healthy", name, c)
		}
	}
	if resp.System != nil {
		t.Error("System should only be set with verbose=true")
	}

	w = httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health?verbose=true", true))
	resp = HealthStatus{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.System == nil || resp.System.GoVersion == "" || resp.System.NumCPU == 0 {
		t.Errorf("System = %+v; want runtime details", resp.System)
	}
}

func TestHealthHandler_Health_UnhealthyDatabase(t *testing.T) {
	h := NewHealthHandler(fakePinger{err: errors.New("database is locked")}, "", version.Info{})

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", true))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != statusDegraded {
		t.Errorf("Status = %q; want %s", resp.Status, statusDegraded)
	}
	db := resp.Checks["database"]
	if db.Status != statusUnhealthy || db.Message != "database is locked" {
		t.Errorf("database check = %+v", db)
	}
	if resp.Version != "dev" {
		t.Errorf("Version = %q; want dev", resp.Version)
	}
}

func TestHealthHandler_DiskCheck(t *testing.T) {
	tests := []struct {
		name    string
		dir     func(t *testing.T) string
		message string
	}{
		{"remote storage", func(*testing.T) string { return "" }, "Remote blob storage"},
		{"missing directory", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") }, "Uploads directory does not exist yet"},
		{"existing directory", func(t *testing.T) string { return t.TempDir() }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(fakePinger{}, tt.dir(t), version.Info{})
			check := h.checkDiskSpace()
			if check.Status == statusUnhealthy {
				t.Fatalf("disk check = %+v", check)
			}
			if tt.message != "" && check.Message != tt.message {
				t.Errorf("Message = %q; want %q", check.Message, tt.message)
			}
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(fakePinger{err: errors.New("down")}, "", version.Info{})

	w := httptest.NewRecorder()
	h.Liveness(w, newHealthRequest("/health/live", false))
	assertStatus(t, w.Code, http.StatusOK)
	assertContains(t, w.Body.String(), `"alive"`)
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h := NewHealthHandler(fakePinger{}, "", version.Info{})
		w := httptest.NewRecorder()
		h.Readiness(w, newHealthRequest("/health/ready", false))
		assertStatus(t, w.Code, http.StatusOK)
		assertContains(t, w.Body.String(), `"ready"`)
	})

	t.Run("not ready anonymous", func(t *testing.T) {
		h := NewHealthHandler(fakePinger{err: errors.New("sql: database is closed")}, "", version.Info{})
		w := httptest.NewRecorder()
		h.Readiness(w, newHealthRequest("/health/ready", false))
		assertStatus(t, w.Code, http.StatusServiceUnavailable)

		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp["status"] != "not_ready" {
			t.Errorf("status = %q; want not_ready", resp["status"])
		}
		if _, ok := resp["message"]; ok {
			t.Error("anonymous not_ready response should not contain the error")
		}
	})

	t.Run("not ready logged in", func(t *testing.T) {
		h := NewHealthHandler(fakePinger{err: errors.New("sql: database is closed")}, "", version.Info{})
		w := httptest.NewRecorder()
		h.Readiness(w, newHealthRequest("/health/ready", true))
		assertStatus(t, w.Code, http.StatusServiceUnavailable)
		assertContains(t, w.Body.String(), "sql: database is closed")
	})
}

func TestHealth_ThroughRouter(t *testing.T) {
	app := newTestApp(t)

	resp := app.client(t).get(RouteHealth)
	assertStatus(t, resp.Status, http.StatusOK)
	assertNotContains(t, resp.Body, "v0.0.0-test")

	c := app.client(t)
	c.register("alice")
	resp = c.get(RouteHealth)
	assertStatus(t, resp.Status, http.StatusOK)
	assertContains(t, resp.Body, "v0.0.0-test")
	assertContains(t, resp.Body, "Remote blob storage")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1572864, "1.50 MB"},
		{1073741824, "1.00 GB"},
		{1610612736, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
