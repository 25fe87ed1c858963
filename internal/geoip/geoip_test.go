// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_Disabled(t *testing.T) {
	g, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	if g.Enabled() {
		t.Error("lookup without a path should be disabled")
	}
	if err := g.Reload(); err != nil {
		t.Errorf("Reload() on disabled lookup: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close() on disabled lookup: %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	g, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
	if g == nil || g.Enabled() {
		t.Error("a failed open should still return a disabled lookup")
	}
}

func TestOpen_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mmdb")
	if err := os.WriteFile(path, []byte("not a maxmind database"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for invalid database")
	}
}

func TestCountry(t *testing.T) {
	g, _ := Open("")

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", CountryLocal},
		{"10.1.2.3", CountryLocal},
		{"192.168.0.10", CountryLocal},
		{"::1", CountryLocal},
		{"fd00::1", CountryLocal},
		{"8.8.8.8", ""},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := g.Country(tt.ip); got != tt.want {
				t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}
