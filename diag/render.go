package diag

import (
	"fmt"
	"strings"
)

// Render formats err as a human-readable, caret-annotated snippet against
// src. Errors without a Span are rendered without a snippet. Errors is
// rendered as one block per diagnostic, in collection order.
func Render(err error, src string) string {
	switch v := err.(type) {
	case Errors:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = renderOne(e, src)
		}
		return strings.Join(parts, "\n\n")
	case *Error:
		return renderOne(v, src)
	default:
		return err.Error()
	}
}

func renderOne(e *Error, src string) string {
	if e.Span == nil {
		return e.Error()
	}
	pos := Locate(src, e.Span.Start)
	header := fmt.Sprintf("%s at %d:%d: %s", e.Kind, pos.Line, pos.Col, e.Message)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	if pos.Line > 1 {
		writeNumberedLine(&b, pos.Line-1, lineAt(src, pos.Line-1))
	}
	cur := lineAt(src, pos.Line)
	writeNumberedLine(&b, pos.Line, cur)

	gutter := len(fmt.Sprintf("%d", pos.Line)) + 3
	col := pos.Col
	if col < 1 {
		col = 1
	}
	if col > len(cur)+1 {
		col = len(cur) + 1
	}
	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString("|")
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^\n")

	lastLine := Locate(src, len(src)).Line
	if pos.Line < lastLine {
		writeNumberedLine(&b, pos.Line+1, lineAt(src, pos.Line+1))
	}

	if e.Stderr != "" {
		b.WriteString("\n")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func writeNumberedLine(b *strings.Builder, n int, text string) {
	fmt.Fprintf(b, "%4d | %s\n", n, text)
}
