package markdown

import (
	"html"
	"regexp"
	"strings"
)

// backslashEscape matches a backslash followed by one of the characters an
// author may escape to have it rendered literally.
var backslashEscape = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!|>])")

// Escape replaces &, <, >, " and ' with HTML entities. It must run exactly
// once on any text before markup is introduced.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Unescape drops the backslash from author-escaped markup characters,
// so `\*` becomes `*`. Other backslashes are left alone.
func Unescape(s string) string {
	return backslashEscape.ReplaceAllString(s, "$1")
}

// shieldBase is the first rune of the private-use block used to hold
// backslash-escaped characters while inline passes run.
const shieldBase = '\uE000'

// shield replaces every backslash-escaped markup character with a
// private-use placeholder so no inline pass can treat it as syntax.
func shield(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	return backslashEscape.ReplaceAllStringFunc(s, func(m string) string {
		return string(shieldBase + rune(m[1]))
	})
}

// shieldAttr hides the inline markup characters of an attribute value that
// has already been written, so later passes leave it alone.
func shieldAttr(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '*', '`', '[', ']':
			return shieldBase + r
		}
		return r
	}, v)
}

// unshield turns placeholders back into their literal, escaped characters.
func unshield(s string) string {
	if !strings.ContainsFunc(s, isShielded) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isShielded(r) {
			b.WriteString(Escape(string(r - shieldBase)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isShielded(r rune) bool {
	return r >= shieldBase && r < shieldBase+128
}
