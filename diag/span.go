// Package diag provides source-span tracking and error rendering shared by
// every pipeline stage (splitter, markup parser, script analyzer, CSS
// scoper).
package diag

import "strings"

// Span is a half-open byte interval [Start, End) into a source text. It
// carries no line/column information directly; callers resolve that lazily
// against the original text via Locate, since most spans are never shown to
// a user (only the ones attached to an error are).
type Span struct {
	Start int
	End   int
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	s := Span{Start: a.Start, End: a.End}
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

// Position is a 1-based line/column pair.
type Position struct {
	Line int
	Col  int
}

// Locate resolves a byte offset in src to a 1-based line/column, clamping
// out-of-range offsets so callers can render a caret even for a slightly
// stale span.
func Locate(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := 1
	col := 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Col: col}
}

// lineAt returns the text of the given 1-based line number, without its
// trailing newline.
func lineAt(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
