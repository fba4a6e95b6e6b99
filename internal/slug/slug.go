// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns blog post titles and tag names into URL path segments.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
)

// MaxLen is the longest slug this package produces, matching the
// blog_posts.slug column width.
const MaxLen = 200

var (
	// disallowed matches anything that is not a word character, space or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	// separators collapses runs of hyphens and whitespace.
	separators = regexp.MustCompile(`[-\s]+`)
)

// Generate lowercases s, transliterates non-ASCII letters, drops
// punctuation and joins words with single hyphens. Underscores survive;
// leading and trailing hyphens or underscores do not.
//
//	"Hello, World! 2026" -> "hello-world-2026"
//	"Café Déjà Vu"       -> "cafe-deja-vu"
func Generate(s string) string {
	result := strings.TrimSpace(s)
	if !isASCII(result) {
		result = unidecode.Unidecode(result)
	}
	result = strings.ToLower(result)
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-_")
	return truncate(result, MaxLen)
}

// WithSuffix appends "-n" to base, shortening base so the result still fits
// in MaxLen. Used to derive "my-post-2", "my-post-3" on collisions.
func WithSuffix(base string, n int) string {
	suffix := "-" + strconv.Itoa(n)
	return truncate(base, MaxLen-len(suffix)) + suffix
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-_")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
