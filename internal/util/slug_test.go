// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "Page 123",
			expected: "page-123",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello - World",
			expected: "hello-world",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "underscores and punctuation",
			input:    "snake_case: a (short) story?",
			expected: "snakecase-a-short-story",
		},
		{
			name:     "hyphen and whitespace runs",
			input:    "  Multiple   Spaces--and--dashes  ",
			expected: "multiple-spaces-and-dashes",
		},
		{
			name:     "leading and trailing hyphens",
			input:    "--Draft--",
			expected: "draft",
		},
		{
			name:     "tabs and newlines",
			input:    "Line\tone\ntwo",
			expected: "line-one-two",
		},
		{
			name:     "cyrillic is transliterated",
			input:    "Привет",
			expected: "privet",
		},
		{
			name:     "german umlauts",
			input:    "Über München",
			expected: "uber-munchen",
		},
		{
			name:     "only symbols",
			input:    "©®™",
			expected: "",
		},
		{
			name:     "currency sign",
			input:    "100€ deal",
			expected: "100-deal",
		},
		{
			name:     "vulgar fraction",
			input:    "½ price",
			expected: "price",
		},
		{
			name:     "em dash is not a hyphen",
			input:    "a—b",
			expected: "ab",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "single word",
			input:    "Hello",
			expected: "hello",
		},
		{
			name:     "mixed case",
			input:    "HeLLo WoRLd",
			expected: "hello-world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugifyNonLatinScripts(t *testing.T) {
	inputs := []string{"日本語タイトル", "Ελληνικά", "مرحبا"}
	for _, in := range inputs {
		got := Slugify(in)
		if got == "" {
			t.Errorf("Slugify(%q) = empty, want transliterated slug", in)
			continue
		}
		if !IsValidSlug(got) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestSlugifyProperties(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"  padded  ",
		"a_b_c",
		"---",
		"Ünïcödé   and -- dashes",
		"Tab\tSeparated\tWords",
		"100% Pure",
		"日本語",
		"",
	}

	for _, in := range inputs {
		got := Slugify(in)

		if Slugify(in) != got {
			t.Errorf("Slugify(%q) is not deterministic", in)
		}
		if again := Slugify(got); again != got {
			t.Errorf("Slugify(Slugify(%q)) = %q, want %q", in, again, got)
		}
		if got != "" && !IsValidSlug(got) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("hello", 2); got != "hello-2" {
		t.Errorf("WithSuffix() = %q, want %q", got, "hello-2")
	}
	if got := WithSuffix("post-7", 10); got != "post-7-10" {
		t.Errorf("WithSuffix() = %q, want %q", got, "post-7-10")
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "valid simple slug",
			input:    "hello-world",
			expected: true,
		},
		{
			name:     "valid slug with numbers",
			input:    "page-123",
			expected: true,
		},
		{
			name:     "valid single word",
			input:    "hello",
			expected: true,
		},
		{
			name:     "valid numbers only",
			input:    "123",
			expected: true,
		},
		{
			name:     "invalid - empty",
			input:    "",
			expected: false,
		},
		{
			name:     "invalid - uppercase",
			input:    "Hello-World",
			expected: false,
		},
		{
			name:     "invalid - spaces",
			input:    "hello world",
			expected: false,
		},
		{
			name:     "invalid - special chars",
			input:    "hello!world",
			expected: false,
		},
		{
			name:     "invalid - starts with hyphen",
			input:    "-hello",
			expected: false,
		},
		{
			name:     "invalid - ends with hyphen",
			input:    "hello-",
			expected: false,
		},
		{
			name:     "invalid - consecutive hyphens",
			input:    "hello--world",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidSlug(tt.input)
			if result != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
