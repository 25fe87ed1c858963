// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing", "", 1},
		{"valid", "page=3", 3},
		{"zero", "page=0", 1},
		{"negative", "page=-2", 1},
		{"garbage", "page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			if got := ParsePageParam(req); got != tt.want {
				t.Errorf("ParsePageParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		param      string
		defaultVal int
		minVal     int
		maxVal     int
		want       int
	}{
		{"valid value", "limit=50", "limit", 10, 1, 100, 50},
		{"missing param", "", "limit", 10, 1, 100, 10},
		{"empty value", "limit=", "limit", 10, 1, 100, 10},
		{"invalid value", "limit=abc", "limit", 10, 1, 100, 10},
		{"below min", "limit=0", "limit", 10, 1, 100, 10},
		{"above max", "limit=200", "limit", 10, 1, 100, 10},
		{"no min check", "limit=0", "limit", 10, 0, 100, 0},
		{"no max check", "limit=500", "limit", 10, 1, 0, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got := ParseIntParam(req, tt.param, tt.defaultVal, tt.minVal, tt.maxVal)
			if got != tt.want {
				t.Errorf("ParseIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{"valid id", "123", 123, false},
		{"large id", "9999999999", 9999999999, false},
		{"empty id", "", 0, true},
		{"invalid id", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := ParseIDParam(req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIDParam() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseIDParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		wantNumbers []int
		wantHasPrev bool
		wantHasNext bool
	}{
		{"single page", 1, 1, []int{1}, false, false},
		{"first of many", 1, 10, []int{1, 2, 3, 4, 5, 0, 10}, false, true},
		{"middle", 5, 10, []int{1, 0, 3, 4, 5, 6, 7, 0, 10}, true, true},
		{"last", 10, 10, []int{1, 0, 6, 7, 8, 9, 10}, true, false},
		{"second of three", 2, 3, []int{1, 2, 3}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.currentPage, tt.totalPages, 0, "/", nil)
			if p.HasPrev != tt.wantHasPrev || p.HasNext != tt.wantHasNext {
				t.Errorf("HasPrev/HasNext = %v/%v, want %v/%v", p.HasPrev, p.HasNext, tt.wantHasPrev, tt.wantHasNext)
			}
			if len(p.Pages) != len(tt.wantNumbers) {
				t.Fatalf("got %d page links, want %d: %+v", len(p.Pages), len(tt.wantNumbers), p.Pages)
			}
			for i, want := range tt.wantNumbers {
				got := p.Pages[i]
				if want == 0 {
					if !got.IsEllipsis {
						t.Errorf("link %d: want ellipsis, got %+v", i, got)
					}
					continue
				}
				if got.Number != want {
					t.Errorf("link %d: number = %d, want %d", i, got.Number, want)
				}
				if got.IsCurrent != (want == tt.currentPage) {
					t.Errorf("link %d: IsCurrent = %v", i, got.IsCurrent)
				}
			}
		})
	}
}

func TestPagination_PageURL(t *testing.T) {
	p := BuildPagination(2, 3, 50, "/dashboard/messages", url.Values{"page": {"2"}, "q": {"hi"}})

	if got := p.PageURL(1); got != "/dashboard/messages?q=hi" {
		t.Errorf("PageURL(1) = %q", got)
	}
	if got := p.NextURL(); got != "/dashboard/messages?q=hi&page=3" {
		t.Errorf("NextURL() = %q", got)
	}

	plain := BuildPagination(2, 3, 50, "/", nil)
	if got := plain.PrevURL(); got != "/" {
		t.Errorf("PrevURL() = %q, want /", got)
	}
	if !plain.ShouldShow() {
		t.Error("ShouldShow() = false for 3 pages")
	}
}
