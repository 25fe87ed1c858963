// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Default schedules of the built-in jobs.
const (
	EventRetentionSchedule = "@daily"
	GeoIPReloadSchedule    = "@weekly"
)

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Reloader reopens a file-backed resource.
type Reloader interface {
	Reload() error
}

// EventRetentionJob deletes events older than days days. A non-positive
// days keeps everything.
func EventRetentionJob(events EventPruner, days int, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		if days <= 0 {
			return nil
		}
		n, err := events.DeleteOlderThan(ctx, time.Duration(days)*24*time.Hour)
		if err != nil {
			return fmt.Errorf("pruning events: %w", err)
		}
		if n > 0 {
			logger.Info("pruned old events", "deleted", n, "retention_days", days)
		}
		return nil
	}
}

// GeoIPReloadJob reopens the GeoIP database so replaced files are picked up.
func GeoIPReloadJob(db Reloader) JobFunc {
	return func(context.Context) error {
		if err := db.Reload(); err != nil {
			return fmt.Errorf("reloading geoip database: %w", err)
		}
		return nil
	}
}
