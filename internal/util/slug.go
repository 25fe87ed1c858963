// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with Unicode normalization support.
package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowedChars matches everything that is not a letter, digit,
	// whitespace or hyphen. Underscores are removed as well.
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]+`)
	// separatorRun matches runs of hyphens and whitespace
	separatorRun = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a post title to a URL-friendly slug.
//
// Every character other than a letter, digit, whitespace or hyphen is
// dropped first, so symbols such as "©" or "€" vanish instead of being
// spelled out. Accents are then stripped and the remaining letters of
// non-Latin scripts are transliterated to ASCII. The remainder is trimmed, lower-cased and each run of hyphens or
// whitespace becomes a single hyphen. The result only contains [a-z0-9-],
// never starts or ends with a hyphen and may be empty.
func Slugify(title string) string {
	// Decompose accents and drop the combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, title)
	if err != nil {
		result = title
	}

	result = strings.Map(keepSlugRune, result)
	result = unidecode.Unidecode(result)

	result = disallowedChars.ReplaceAllString(result, "")
	result = strings.ToLower(strings.TrimSpace(result))
	result = separatorRun.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// keepSlugRune drops runes that are not letters, decimal digits,
// whitespace or the ASCII hyphen.
func keepSlugRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
		return r
	}
	return -1
}

// WithSuffix returns base with a numeric disambiguation suffix ("base-n").
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	// Check if it only contains lowercase letters, numbers, and hyphens
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// Check that it doesn't start or end with a hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	// Check for consecutive hyphens
	if strings.Contains(s, "--") {
		return false
	}

	return true
}
