// Package source implements the Decorous source splitter: it loads
// .decor text and separates it into an ordered list of fenced language
// blocks plus a single markup span.
package source

import (
	"strings"

	"github.com/decorous-lang/decorous/diag"
)

// Block is one fenced `---<lang> ... ---` region of a .decor file.
type Block struct {
	Lang string
	Span diag.Span
	Body string
}

// File is the result of splitting a .decor source: its fenced blocks plus
// the markup text that sits outside any fence.
type File struct {
	Pragma     Pragma
	Blocks     []Block
	Markup     string
	MarkupSpan diag.Span
	// Script is every "js" block concatenated in source order, separated by
	// a blank line so the analyzer can treat them as one logical script
	// while each Block still carries its own exact span.
	Script string
}

var knownLangs = map[string]bool{
	"c": true, "cpp": true, "rust": true, "go": true, "tinygo": true,
	"wat": true, "zig": true, "js": true, "css": true,
}

// Split parses raw .decor text into its fenced blocks and markup span.
func Split(text string) (*File, error) {
	var errs diag.Errors

	pragma, rest, offset := extractPragma(text)
	if pragmaErr := pragma.err; pragmaErr != nil {
		errs = errs.Add(pragmaErr)
	}

	f := &File{Pragma: pragma.Pragma}

	var markup strings.Builder
	markupStart := -1
	seenNonScript := map[string]bool{}
	var scriptParts []string

	i := 0
	n := len(rest)
	for i < n {
		lineEnd := indexOrEnd(rest, i, '\n')
		line := rest[i:lineEnd]

		if lang, ok := fenceOpen(line); ok {
			fenceLineStart := i
			if !knownLangs[lang] {
				errs = errs.Add(diag.New(diag.UnknownFenceLang,
					diag.Span{Start: offset + fenceLineStart, End: offset + lineEnd},
					"unknown fence language %q", lang))
			}

			bodyStart := lineEnd
			if bodyStart < n && rest[bodyStart] == '\n' {
				bodyStart++
			}

			closeLineStart, closeLineEnd, found := findFenceClose(rest, bodyStart)
			if !found {
				errs = errs.Add(diag.New(diag.UnterminatedFence,
					diag.Span{Start: offset + fenceLineStart, End: offset + n},
					"fence for %q opened here is never closed", lang))
				i = n
				break
			}

			body := rest[bodyStart:closeLineStart]
			body = strings.TrimSuffix(body, "\n")
			blockSpan := diag.Span{Start: offset + bodyStart, End: offset + closeLineStart}

			if lang != "js" {
				if seenNonScript[lang] {
					errs = errs.Add(diag.New(diag.DuplicateLangBlock, blockSpan,
						"non-script block %q may appear at most once per component", lang))
				}
				seenNonScript[lang] = true
			}

			if lang == "js" {
				scriptParts = append(scriptParts, body)
			}

			f.Blocks = append(f.Blocks, Block{Lang: lang, Span: blockSpan, Body: body})

			i = closeLineEnd
			if i < n && rest[i] == '\n' {
				i++
			}
			continue
		}

		if markupStart < 0 {
			markupStart = i
		}
		markup.WriteString(rest[i:lineEnd])
		markup.WriteByte('\n')
		i = lineEnd
		if i < n && rest[i] == '\n' {
			i++
		}
	}

	f.Markup = strings.TrimSuffix(markup.String(), "\n")
	if markupStart >= 0 {
		f.MarkupSpan = diag.Span{Start: offset + markupStart, End: offset + n}
	}
	f.Script = strings.Join(scriptParts, "\n\n")

	if err := errs.OrNil(); err != nil {
		return f, err
	}
	return f, nil
}

// fenceOpen recognizes a line of the form "---<ident>" and returns the
// language identifier.
func fenceOpen(line string) (string, bool) {
	if !strings.HasPrefix(line, "---") {
		return "", false
	}
	rest := strings.TrimSpace(line[3:])
	if rest == "" {
		return "", false
	}
	for _, r := range rest {
		if !(r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return "", false
		}
	}
	return rest, true
}

// findFenceClose finds the next line that is exactly "---", starting the
// scan at byte offset from. It returns the byte offset of that line's start
// and end (exclusive of its trailing newline).
func findFenceClose(text string, from int) (start, end int, found bool) {
	i := from
	n := len(text)
	for i < n {
		lineEnd := indexOrEnd(text, i, '\n')
		if strings.TrimRight(text[i:lineEnd], " \t\r") == "---" {
			return i, lineEnd, true
		}
		i = lineEnd
		if i < n && text[i] == '\n' {
			i++
		}
	}
	return 0, 0, false
}

func indexOrEnd(s string, from int, b byte) int {
	idx := strings.IndexByte(s[from:], b)
	if idx < 0 {
		return len(s)
	}
	return from + idx
}
