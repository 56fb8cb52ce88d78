package markdown

import (
	"regexp"
	"strings"

	"postpilot/internal/slug"
)

// tocPattern matches level-2 and level-3 headings only.
var tocPattern = regexp.MustCompile(`^(#{2,3}) (.*)$`)

// Heading is one entry of a post's table of contents.
type Heading struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// TableOfContents lists the level-2 and level-3 headings of src in
// document order. IDs match the anchors produced by Render. Headings
// inside fenced code blocks are ignored.
func TableOfContents(src string) []Heading {
	var (
		toc    []Heading
		inCode bool
	)
	for _, line := range splitLines(src) {
		if fencePattern.MatchString(strings.TrimSpace(line)) {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		m := tocPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := Unescape(strings.TrimSpace(m[2]))
		toc = append(toc, Heading{
			ID:    slug.Generate(title),
			Title: title,
			Level: len(m[1]),
		})
	}
	return toc
}
