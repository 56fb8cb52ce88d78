package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"postpilot/internal/slug"
)

var (
	fencePattern     = regexp.MustCompile("^```\\s*([^\\s`]*)\\s*$")
	headingPattern   = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	quotePattern     = regexp.MustCompile(`^> (.*)$`)
	unorderedPattern = regexp.MustCompile(`^[-*] (.*)$`)
	orderedPattern   = regexp.MustCompile(`^\d+\. (.*)$`)
	rulePattern      = regexp.MustCompile(`^-{3,}$`)
	separatorPattern = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)
)

// listKind is the kind of list currently open, if any.
type listKind int

const (
	listNone listKind = iota
	listUnordered
	listOrdered
)

// tableState tracks an open table. The separator line following the
// header row is skipped; body rows are wrapped in a lazily opened tbody.
type tableState struct {
	open          bool
	skipSeparator bool
	bodyOpen      bool
	aligns        []string
}

// state is the block parser state threaded through the lines of a
// document. At most one list is open at a time and an open code fence
// suppresses every other block rule.
type state struct {
	list  listKind
	code  bool
	lang  string
	buf   []string
	table tableState
}

// Render converts a raw post body into an HTML fragment. Block fragments
// are separated by newlines. Each non-blank line that matches no other rule
// becomes its own paragraph.
func (r *Renderer) Render(src string) string {
	lines := splitLines(src)
	var (
		st    state
		parts []string
		frag  []string
	)
	for i, line := range lines {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		st, frag = r.step(st, line, next)
		parts = append(parts, frag...)
	}
	parts = append(parts, st.flush()...)
	return strings.Join(parts, "\n")
}

// step applies one line to the state and returns the new state along with
// the HTML emitted for that line. next is the following line, or "" at the
// end of input; it is only consulted to detect a table header.
func (r *Renderer) step(st state, line, next string) (state, []string) {
	var out []string
	trimmed := strings.TrimSpace(line)

	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		if st.code {
			out = append(out, Highlight(strings.Join(st.buf, "\n"), st.lang))
			st.code, st.lang, st.buf = false, "", nil
			return st, out
		}
		st, out = st.closeTable(out)
		st, out = st.closeList(out)
		st.code, st.lang = true, m[1]
		return st, out
	}
	if st.code {
		st.buf = append(st.buf, line)
		return st, out
	}

	if st.table.open {
		switch {
		case st.table.skipSeparator:
			st.table.skipSeparator = false
			return st, out
		case trimmed != "" && strings.Contains(line, "|"):
			if !st.table.bodyOpen {
				out = append(out, "<tbody>")
				st.table.bodyOpen = true
			}
			out = append(out, r.tableRow(splitRow(trimmed), st.table.aligns, "td"))
			return st, out
		}
		st, out = st.closeTable(out)
	}

	if trimmed == "" {
		st, out = st.closeList(out)
		return st, out
	}

	if strings.Contains(line, "|") && isSeparator(next) {
		st, out = st.closeList(out)
		aligns := columnAligns(splitRow(strings.TrimSpace(next)))
		out = append(out, "<table>", "<thead>", r.tableRow(splitRow(trimmed), aligns, "th"), "</thead>")
		st.table = tableState{open: true, skipSeparator: true, aligns: aligns}
		return st, out
	}

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		st, out = st.closeList(out)
		level := strconv.Itoa(len(m[1]))
		text := strings.TrimSpace(m[2])
		id := slug.Generate(Unescape(text))
		out = append(out, `<h`+level+` id="`+id+`">`+r.Inline(text)+`</h`+level+`>`)
		return st, out
	}

	if m := quotePattern.FindStringSubmatch(line); m != nil {
		st, out = st.closeList(out)
		out = append(out, "<blockquote><p>"+r.Inline(strings.TrimSpace(m[1]))+"</p></blockquote>")
		return st, out
	}

	if m := unorderedPattern.FindStringSubmatch(line); m != nil {
		st, out = st.openList(listUnordered, out)
		out = append(out, "<li>"+r.Inline(strings.TrimSpace(m[1]))+"</li>")
		return st, out
	}

	if m := orderedPattern.FindStringSubmatch(line); m != nil {
		st, out = st.openList(listOrdered, out)
		out = append(out, "<li>"+r.Inline(strings.TrimSpace(m[1]))+"</li>")
		return st, out
	}

	if rulePattern.MatchString(trimmed) {
		st, out = st.closeList(out)
		out = append(out, "<hr>")
		return st, out
	}

	st, out = st.closeList(out)
	out = append(out, "<p>"+r.Inline(trimmed)+"</p>")
	return st, out
}

// flush closes whatever is still open at the end of input. An unterminated
// code fence is emitted as if it had been closed.
func (st state) flush() []string {
	var out []string
	if st.code {
		out = append(out, Highlight(strings.Join(st.buf, "\n"), st.lang))
	}
	_, out = st.closeTable(out)
	_, out = st.closeList(out)
	return out
}

func (st state) openList(kind listKind, out []string) (state, []string) {
	if st.list == kind {
		return st, out
	}
	st, out = st.closeList(out)
	if kind == listUnordered {
		out = append(out, "<ul>")
	} else {
		out = append(out, "<ol>")
	}
	st.list = kind
	return st, out
}

func (st state) closeList(out []string) (state, []string) {
	switch st.list {
	case listUnordered:
		out = append(out, "</ul>")
	case listOrdered:
		out = append(out, "</ol>")
	}
	st.list = listNone
	return st, out
}

func (st state) closeTable(out []string) (state, []string) {
	if !st.table.open {
		return st, out
	}
	if st.table.bodyOpen {
		out = append(out, "</tbody>")
	}
	out = append(out, "</table>")
	st.table = tableState{}
	return st, out
}

// tableRow renders one row, padding or truncating to the header width.
func (r *Renderer) tableRow(cells, aligns []string, tag string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for i, align := range aligns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString("<" + tag)
		if align != "" {
			b.WriteString(` style="text-align: ` + align + `"`)
		}
		b.WriteString(">" + r.Inline(cell) + "</" + tag + ">")
	}
	b.WriteString("</tr>")
	return b.String()
}

// isSeparator reports whether line is a table header separator such as
// "| --- | :---: |".
func isSeparator(line string) bool {
	line = strings.TrimSpace(line)
	return strings.Contains(line, "|") && separatorPattern.MatchString(line)
}

// splitRow splits a trimmed table line into cells. A backslash-escaped
// pipe stays inside its cell.
func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = strings.TrimSuffix(line, "|")
	}

	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteString(`\|`)
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

// columnAligns reads the alignment of each column from separator cells.
func columnAligns(cells []string) []string {
	aligns := make([]string, len(cells))
	for i, c := range cells {
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			aligns[i] = "center"
		case right:
			aligns[i] = "right"
		case left:
			aligns[i] = "left"
		}
	}
	return aligns
}

// splitLines normalises line endings and splits src into lines.
func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}
