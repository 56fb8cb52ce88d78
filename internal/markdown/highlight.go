package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// highlightLexers maps the recognised language tags to chroma lexer names.
// Every other tag is rendered escaped but unhighlighted.
var highlightLexers = map[string]string{
	"js":         "javascript",
	"javascript": "javascript",
	"jsx":        "react",
	"ts":         "typescript",
	"typescript": "typescript",
	"tsx":        "typescript",
	"json":       "json",
}

// keywords is the fixed keyword set. Identifiers outside it are never
// marked as keywords even when the lexer classifies them as such.
var keywords = map[string]bool{
	"async": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"from": true, "function": true, "if": true, "implements": true,
	"import": true, "in": true, "instanceof": true, "interface": true,
	"let": true, "new": true, "null": true, "of": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "type": true, "typeof": true,
	"undefined": true, "var": true, "void": true, "while": true, "yield": true,
}

// Token kinds, used as CSS classes.
const (
	kindPlain   = ""
	kindKeyword = "keyword"
	kindString  = "string"
	kindNumber  = "number"
	kindComment = "comment"
)

// Highlight renders a fenced code block. lang is case-insensitive and
// defaults to "text". For recognised languages the code is tokenized once
// and every token is escaped and emitted exactly once, so a keyword inside
// a string or a number inside a comment keeps the enclosing token's class.
func Highlight(code, lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = "text"
	}
	lang = Escape(lang)

	var b strings.Builder
	b.WriteString(`<pre class="code-block" data-language="` + lang + `"><code class="language-` + lang + `">`)
	if name, ok := highlightLexers[lang]; ok {
		b.WriteString(highlightTokens(code, name))
	} else {
		b.WriteString(Escape(code))
	}
	b.WriteString(`</code></pre>`)
	return b.String()
}

// highlightTokens runs the chroma lexer over code and wraps tokens by kind.
// Adjacent tokens of the same kind share one span.
func highlightTokens(code, lexerName string) string {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return Escape(code)
	}
	// Not every lexer ends a line comment at end of input; give them all
	// the newline they expect. The extra byte is cut off below.
	src := code
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return Escape(code)
	}

	var (
		b       strings.Builder
		run     strings.Builder
		runKind = kindPlain
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runKind == kindPlain {
			b.WriteString(Escape(run.String()))
		} else {
			b.WriteString(`<span class="token ` + runKind + `">` + Escape(run.String()) + `</span>`)
		}
		run.Reset()
	}

	// Some lexers append a trailing newline; never emit more than the input.
	remaining := len(code)
	for _, tok := range it.Tokens() {
		if remaining <= 0 {
			break
		}
		value := tok.Value
		if len(value) > remaining {
			value = value[:remaining]
		}
		remaining -= len(value)

		kind := tokenKind(tok.Type, value)
		if kind != runKind {
			flush()
			runKind = kind
		}
		run.WriteString(value)
	}
	flush()
	return b.String()
}

// tokenKind maps a chroma token to one of the highlight kinds. Only
// single-line comments and decimal integer literals are marked; JSON
// object keys count as strings.
func tokenKind(t chroma.TokenType, value string) string {
	switch {
	case t.InCategory(chroma.Comment) && strings.HasPrefix(value, "//"):
		return kindComment
	case t.InSubCategory(chroma.LiteralString):
		return kindString
	case t == chroma.NameTag && strings.HasPrefix(value, `"`):
		return kindString
	case t == chroma.LiteralNumberInteger:
		return kindNumber
	case (t.InCategory(chroma.Keyword) || t.InCategory(chroma.Name)) && keywords[value]:
		return kindKeyword
	}
	return kindPlain
}
