// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly identifiers derived from free text.
//
// There are two strategies. Generate produces heading anchors and is a
// plain ASCII transformation that never looks at the rest of the document,
// so two identical headings get identical anchors. ForTitle produces post
// URL segments and transliterates unicode via gosimple/slug.
package slug

import (
	"regexp"
	"strings"

	goslug "github.com/gosimple/slug"
)

var (
	// nonWord matches anything that isn't a word character, whitespace, or hyphen.
	nonWord = regexp.MustCompile(`[^a-z0-9_\s-]`)
	// whitespaceRun matches one or more whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates an anchor slug from the given heading text.
// Example: "Hello, World!" → "hello-world"
func Generate(s string) string {
	result := strings.TrimSpace(strings.ToLower(s))
	result = nonWord.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return result
}

// ForTitle creates a post URL slug from a title. Accented letters are
// transliterated rather than dropped, and leading or trailing hyphens are
// removed.
func ForTitle(title string) string {
	s := goslug.Make(title)
	if s == "" {
		s = strings.Trim(Generate(title), "-_")
	}
	return s
}
