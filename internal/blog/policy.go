package blog

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	classNames = regexp.MustCompile(`^[a-zA-Z0-9_ -]+$`)
	anchorIDs  = regexp.MustCompile(`^[a-z0-9_-]*$`)
)

// PreviewPolicy returns the UGC policy extended with the attributes the
// markup renderer emits: anchor IDs, highlighter classes, link classes and
// table alignment.
func PreviewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classNames).OnElements("a", "pre", "code", "span")
	p.AllowAttrs("data-language").Matching(classNames).OnElements("pre")
	p.AllowAttrs("id").Matching(anchorIDs).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right").OnElements("th", "td")
	return p
}
