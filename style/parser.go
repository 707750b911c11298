package style

import (
	"strings"

	"github.com/gorilla/css/scanner"

	"github.com/decorous-lang/decorous/diag"
)

// token pairs a gorilla/css/scanner token with the absolute byte span it
// occupies in the original source, which the scanner itself does not
// track.
type token struct {
	tok        scanner.Token
	val        string
	start, end int
}

// lexAll eagerly tokenizes src, the same buffered-up-front style as the
// script package's own Parser. base shifts every resulting span into the
// enclosing .decor file's coordinate space.
func lexAll(src string, base int) []token {
	s := scanner.New(src)
	pos := base
	var toks []token
	for {
		t := s.Next()
		start := pos
		pos += len(t.Value)
		toks = append(toks, token{tok: *t, val: t.Value, start: start, end: pos})
		if t.Type == scanner.TokenEOF || t.Type == scanner.TokenError {
			break
		}
	}
	return toks
}

type parser struct {
	toks []token
	pos  int
	errs diag.Errors
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) atEOF() bool {
	t := p.cur().tok.Type
	return t == scanner.TokenEOF || t == scanner.TokenError
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func isChar(t token, v string) bool { return t.val == v }

func isBlank(t token) bool { return strings.TrimSpace(t.val) == "" }

// Parse tokenizes a css block with gorilla/css/scanner and parses the
// token stream into a Sheet of top-level rules and at-rules.
func Parse(src string, base int) (*Sheet, diag.Errors) {
	p := &parser{toks: lexAll(src, base)}
	items := p.parseItems(false)
	return &Sheet{Items: items}, p.errs
}

// parseItems parses a run of rules/at-rules. When stopAtRBrace is true it
// stops (without consuming) at a top-level "}", for an at-rule body; the
// caller consumes that brace itself.
func (p *parser) parseItems(stopAtRBrace bool) []Item {
	var items []Item
	for !p.atEOF() {
		if stopAtRBrace && isChar(p.cur(), "}") {
			return items
		}
		if isBlank(p.cur()) {
			p.advance()
			continue
		}
		if it := p.parseItem(stopAtRBrace); it != nil {
			items = append(items, it)
		}
	}
	return items
}

func (p *parser) parseItem(inBlock bool) Item {
	start := p.cur().start
	if strings.HasPrefix(p.cur().val, "@") {
		return p.parseAtRule(start)
	}
	return p.parseRule(start, inBlock)
}

// parseRule accumulates a selector-list prelude up to the opening "{",
// splits it into its comma-separated selectors, then reads the balanced
// declaration body.
func (p *parser) parseRule(start int, inBlock bool) Item {
	var prelude strings.Builder
	for !p.atEOF() && !isChar(p.cur(), "{") {
		if inBlock && isChar(p.cur(), "}") {
			if strings.TrimSpace(prelude.String()) == "" {
				return nil
			}
			p.errs = p.errs.Add(diag.New(diag.MalformedSelector,
				diag.Span{Start: start, End: p.cur().end}, "rule has no declaration block"))
			return nil
		}
		if isChar(p.cur(), ";") {
			trimmed := strings.TrimSpace(prelude.String())
			end := p.cur().end
			p.advance()
			if trimmed == "" {
				return nil
			}
			p.errs = p.errs.Add(diag.New(diag.MalformedSelector,
				diag.Span{Start: start, End: end}, "expected a declaration block after selector %q", trimmed))
			return nil
		}
		prelude.WriteString(p.advance().val)
	}
	if p.atEOF() {
		if strings.TrimSpace(prelude.String()) == "" {
			return nil
		}
		p.errs = p.errs.Add(diag.New(diag.UnterminatedBlock,
			diag.Span{Start: start, End: p.cur().end}, "rule's declaration block is never opened"))
		return nil
	}
	p.advance() // consume "{"

	body, end, ok := p.readBalancedBody()
	if !ok {
		p.errs = p.errs.Add(diag.New(diag.UnterminatedBlock,
			diag.Span{Start: start, End: end}, "declaration block is never closed"))
	}

	selectors := splitSelectors(prelude.String())
	if len(selectors) == 0 {
		p.errs = p.errs.Add(diag.New(diag.MalformedSelector,
			diag.Span{Start: start, End: end}, "rule has an empty selector list"))
		return nil
	}
	return Rule{Selectors: selectors, Body: body, Span: diag.Span{Start: start, End: end}}
}

// parseAtRule handles @media/@supports (recursed into), @font-face/@page
// (a flat declaration block, kept raw), @import/@charset (no block), and
// @keyframes (parsed as Keyframes, never selector-scoped).
func (p *parser) parseAtRule(start int) Item {
	name := strings.TrimPrefix(p.advance().val, "@")

	var prelude strings.Builder
	for !p.atEOF() && !isChar(p.cur(), "{") && !isChar(p.cur(), ";") {
		prelude.WriteString(p.advance().val)
	}

	if p.atEOF() {
		p.errs = p.errs.Add(diag.New(diag.UnterminatedAtRule,
			diag.Span{Start: start, End: p.cur().end}, "@%s is never closed", name))
		return nil
	}

	if isChar(p.cur(), ";") {
		end := p.cur().end
		p.advance()
		return AtRule{Name: name, Prelude: normalizeWS(prelude.String()), Span: diag.Span{Start: start, End: end}}
	}

	p.advance() // consume "{"

	if isKeyframesName(name) {
		body, end, ok := p.readBalancedBody()
		if !ok {
			p.errs = p.errs.Add(diag.New(diag.UnterminatedAtRule,
				diag.Span{Start: start, End: end}, "@%s is never closed", name))
		}
		return Keyframes{AtName: name, Prelude: normalizeWS(prelude.String()), Body: body, Span: diag.Span{Start: start, End: end}}
	}

	if !recursesInto(name) {
		body, end, ok := p.readBalancedBody()
		if !ok {
			p.errs = p.errs.Add(diag.New(diag.UnterminatedAtRule,
				diag.Span{Start: start, End: end}, "@%s is never closed", name))
		}
		return AtRule{Name: name, Prelude: normalizeWS(prelude.String()), Body: body, Span: diag.Span{Start: start, End: end}}
	}

	items := p.parseItems(true)
	var end int
	if isChar(p.cur(), "}") {
		end = p.cur().end
		p.advance()
	} else {
		end = p.cur().end
		p.errs = p.errs.Add(diag.New(diag.UnterminatedAtRule,
			diag.Span{Start: start, End: end}, "@%s is never closed", name))
	}
	return AtRule{Name: name, Prelude: normalizeWS(prelude.String()), Items: items, Span: diag.Span{Start: start, End: end}}
}

func isKeyframesName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "keyframes" || strings.HasSuffix(lower, "-keyframes")
}

// recursesInto reports whether an at-rule's block holds nested rules
// (@media, @supports, and vendor document/layer variants) as opposed to
// a flat declaration list (@font-face, @page).
func recursesInto(name string) bool {
	switch strings.ToLower(name) {
	case "media", "supports", "document", "layer", "container":
		return true
	default:
		return false
	}
}

// readBalancedBody reads raw token text up to (and consuming) the "}"
// that matches the "{" the caller already consumed, tracking nested brace
// depth defensively even though a plain declaration block should never
// contain one.
func (p *parser) readBalancedBody() (string, int, bool) {
	var b strings.Builder
	depth := 0
	for !p.atEOF() {
		switch {
		case isChar(p.cur(), "{"):
			depth++
			b.WriteString(p.advance().val)
		case isChar(p.cur(), "}"):
			if depth == 0 {
				end := p.cur().end
				p.advance()
				return b.String(), end, true
			}
			depth--
			b.WriteString(p.advance().val)
		default:
			b.WriteString(p.advance().val)
		}
	}
	return b.String(), p.cur().end, false
}

// splitSelectors splits a prelude string on top-level commas, ignoring
// commas nested inside parentheses (`:is(a, b)`, `:not(a, b)`).
func splitSelectors(text string) []string {
	var sels []string
	var cur strings.Builder
	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			depth++
			cur.WriteRune(r)
		case ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case ',':
			if depth == 0 {
				if s := normalizeWS(cur.String()); s != "" {
					sels = append(sels, s)
				}
				cur.Reset()
				continue
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	if s := normalizeWS(cur.String()); s != "" {
		sels = append(sels, s)
	}
	return sels
}

func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
