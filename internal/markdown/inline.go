package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var (
	imagePattern  = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)
	codePattern   = regexp.MustCompile("`([^`]+)`")
)

// Inline converts the inline constructs of a single line into HTML.
//
// Passes run in a fixed order over the escaped text: images, links, bold,
// italic, inline code. Unterminated syntax matches nothing and is left as
// literal text. Backslash-escaped characters are held aside for the whole
// run and come back as literal characters, as are attribute values once
// the image and link passes have written them.
func (r *Renderer) Inline(line string) string {
	s := Escape(shield(line))
	s = imagePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := imagePattern.FindStringSubmatch(m)
		return `<img src="` + shieldAttr(safeURL(sub[2])) + `" alt="` + shieldAttr(sub[1]) + `" loading="lazy">`
	})
	s = linkPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := linkPattern.FindStringSubmatch(m)
		return r.link(sub[1], sub[2])
	})
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicPattern.ReplaceAllString(s, "<em>$1</em>")
	s = codePattern.ReplaceAllString(s, "<code>$1</code>")
	return unshield(s)
}

// link renders an anchor. text and href are already escaped.
func (r *Renderer) link(text, href string) string {
	href = safeURL(href)
	external := r.IsExternal(html.UnescapeString(href))
	href = shieldAttr(href)
	if external {
		return `<a href="` + href + `" class="external-link" target="_blank" rel="noopener noreferrer">` + text + `</a>`
	}
	return `<a href="` + href + `">` + text + `</a>`
}

// IsExternal reports whether rawURL is an absolute http(s) URL pointing
// outside the site. Relative URLs, fragments and mailto links are internal.
func (r *Renderer) IsExternal(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host != "" && !strings.Contains(host, r.siteHost)
}

// safeURL neutralises script-capable URL schemes. href is escaped text.
func safeURL(href string) string {
	u, err := url.Parse(html.UnescapeString(href))
	if err != nil {
		return "#"
	}
	switch u.Scheme {
	case "", "http", "https", "mailto", "tel":
		return href
	}
	return "#"
}
