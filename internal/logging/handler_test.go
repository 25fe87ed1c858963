// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantCount int
		wantLevel string
	}{
		{"error", func(l *slog.Logger) { l.Error("database connection failed", "host", "localhost") }, 1, model.EventLevelError},
		{"warn", func(l *slog.Logger) { l.Warn("slow query detected", "duration_ms", 5000) }, 1, model.EventLevelWarning},
		{"info skipped", func(l *slog.Logger) { l.Info("server started") }, 0, ""},
		{"debug skipped", func(l *slog.Logger) { l.Debug("details") }, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.TestDB(t)
			tt.log(slog.New(NewEventLogHandler(discardHandler{}, db)))

			events := recentEvents(t, store.New(db))
			if len(events) != tt.wantCount {
				t.Fatalf("got %d events, want %d", len(events), tt.wantCount)
			}
			if tt.wantCount > 0 && events[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("ignored warning")
	logger.Error("kept error")

	events := recentEvents(t, store.New(db))
	if len(events) != 1 || events[0].Message != "kept error" {
		t.Fatalf("events = %+v, want only the error", events)
	}
}

func TestEventLogHandler_AttributesAndMetadata(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("request_id", "abc")

	logger.Warn("something odd", "category", model.EventCategoryHero, "user_id", int64(7), "note", `say "hi"`)

	events := recentEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Category != model.EventCategoryHero {
		t.Errorf("Category = %q, want %q", ev.Category, model.EventCategoryHero)
	}
	if !ev.UserID.Valid || ev.UserID.Int64 != 7 {
		t.Errorf("UserID = %+v, want 7", ev.UserID)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, ev.Metadata)
	}
	if meta["request_id"] != "abc" || meta["note"] != `say "hi"` {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"login failed", model.EventCategoryAuth},
		{"failed to destroy session", model.EventCategoryAuth},
		{"post slug collision", model.EventCategoryPost},
		{"contact form rejected", model.EventCategoryContact},
		{"hero image missing", model.EventCategoryHero},
		{"user not found", model.EventCategoryUser},
		{"cache unavailable", model.EventCategoryCache},
		{"disk full", model.EventCategorySystem},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := extractCategory(tt.message, nil); got != tt.want {
				t.Errorf("extractCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractMetadata_Empty(t *testing.T) {
	if got := extractMetadata(nil); got != "{}" {
		t.Errorf("extractMetadata(nil) = %q, want {}", got)
	}
}
