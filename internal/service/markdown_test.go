// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "basic formatting",
			src:      "# Title\n\nSome **bold** text.",
			contains: []string{"<h1", "Title</h1>", "<strong>bold</strong>"},
		},
		{
			name:     "gfm table",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "script stripped",
			src:      "hello <script>alert('x')</script>",
			contains: []string{"hello"},
			excludes: []string{"<script", "alert("},
		},
		{
			name:     "javascript link stripped",
			src:      "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "event handler stripped",
			src:      `<img src="/a.png" onerror="alert(1)">`,
			excludes: []string{"onerror"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := md.Render(tt.src)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, string(out), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, string(out), s)
			}
		})
	}
}

func TestMarkdown_Excerpt(t *testing.T) {
	md := NewMarkdown()

	assert.Equal(t, "Title Tom & Jerry", md.Excerpt("# Title\n\nTom & **Jerry**", 100))

	long := strings.Repeat("word ", 50)
	got := md.Excerpt(long, 20)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 21)

	assert.Empty(t, md.Excerpt("", 10))
}
