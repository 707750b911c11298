package markup

import (
	"strings"

	"github.com/decorous-lang/decorous/diag"
	"github.com/decorous-lang/decorous/script"
)

type parser struct {
	src       string
	base      int // byte offset of src within the whole .decor file
	pos       int
	anchorSeq int
	errs      diag.Errors
}

// Parse parses a component's markup span (already isolated by the source
// splitter) into a typed node tree. base is the markup span's starting
// offset within the original .decor source, so every node and error span
// lines up with the file the user wrote, not the isolated markup string.
func Parse(src string, base int) (*Tree, diag.Errors) {
	p := &parser{src: src, base: base}
	nodes := p.parseNodeList(func(*parser) bool { return false })
	if !p.atEOF() {
		p.errorAt(diag.UnexpectedToken, p.pos, p.pos+1, "unexpected character %q", string(p.peek()))
	}
	return &Tree{Root: nodes, AnchorCount: p.anchorSeq}, p.errs
}

// --- cursor primitives ---

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEOF() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	i := p.pos + off
	if i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	return c
}

func (p *parser) span(start, end int) diag.Span {
	return diag.Span{Start: p.base + start, End: p.base + end}
}

func (p *parser) errorAt(kind diag.Kind, start, end int, format string, args ...any) {
	p.errs = p.errs.Add(diag.New(kind, p.span(start, end), format, args...))
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (p *parser) scanIdent() string {
	start := p.pos
	if !p.atEOF() && isIdentStart(p.src[p.pos]) {
		p.pos++
		for !p.atEOF() && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
	}
	return p.src[start:p.pos]
}

func (p *parser) scanQuotedString() string {
	q := p.advance()
	var b strings.Builder
	for !p.atEOF() && p.peek() != q {
		c := p.advance()
		if c == '\\' && !p.atEOF() {
			b.WriteByte(p.advance())
			continue
		}
		b.WriteByte(c)
	}
	if !p.atEOF() {
		p.advance()
	}
	return b.String()
}

func (p *parser) skipWS() {
	for !p.atEOF() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) matchesCommentOpen() bool {
	return strings.HasPrefix(p.src[p.pos:], "<!--")
}

// matchesClose reports whether the cursor is at "/tag" followed by a
// non-identifier byte (or EOF), without consuming anything.
func (p *parser) matchesClose(tag string) bool {
	if p.peek() != '/' {
		return false
	}
	i := p.pos + 1
	j := i
	for j < len(p.src) && isIdentPart(p.src[j]) {
		j++
	}
	return p.src[i:j] == tag
}

func (p *parser) consumeClose(tag string) {
	p.pos++ // '/'
	p.pos += len(tag)
}

// matchesCloseAfterWS looks past leading whitespace for a "/tag" close
// marker without consuming anything; callers use this to let a void
// element swallow an optional, redundant explicit close.
func (p *parser) matchesCloseAfterWS(tag string) (skip int, ok bool) {
	i := p.pos
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	save := p.pos
	p.pos = i
	ok = p.matchesClose(tag)
	p.pos = save
	return i - save, ok
}

// --- brace-expression scanning (shared by interpolations, attribute
// bindings, event handlers, and #if/#for headers) ---

func (p *parser) skipQuotedRaw(q byte) {
	p.advance() // opening quote
	for !p.atEOF() && p.peek() != q {
		if p.peek() == '\\' {
			p.advance()
			if !p.atEOF() {
				p.advance()
			}
			continue
		}
		p.advance()
	}
	if !p.atEOF() {
		p.advance()
	}
}

func (p *parser) skipTemplateRaw() {
	p.advance() // opening backtick
	for !p.atEOF() && p.peek() != '`' {
		if p.peek() == '\\' {
			p.advance()
			if !p.atEOF() {
				p.advance()
			}
			continue
		}
		p.advance()
	}
	if !p.atEOF() {
		p.advance()
	}
}

// readBraceExprSrc reads a balanced `{...}` starting at the current '{',
// consuming through the matching closing brace. It returns the inner
// text and its [start,end) offsets (relative to src) so callers can parse
// it with the correct absolute span.
func (p *parser) readBraceExprSrc() (string, int, int, bool) {
	if p.peek() != '{' {
		return "", 0, 0, false
	}
	p.advance()
	return p.readHeaderExpr()
}

// readHeaderExpr reads balanced text up to (and consuming) the closing '}'
// that matches an already-consumed opening brace. Used both by
// readBraceExprSrc (the opening brace is the interpolation/attribute's own
// '{') and by #if/#for headers (the opening brace was consumed as part of
// the "{#if"/"{#for" marker itself).
func (p *parser) readHeaderExpr() (string, int, int, bool) {
	innerStart := p.pos
	depth := 0
	for !p.atEOF() {
		switch c := p.peek(); c {
		case '{':
			depth++
			p.advance()
		case '}':
			if depth == 0 {
				innerEnd := p.pos
				p.advance()
				return p.src[innerStart:innerEnd], innerStart, innerEnd, true
			}
			depth--
			p.advance()
		case '"', '\'':
			p.skipQuotedRaw(c)
		case '`':
			p.skipTemplateRaw()
		default:
			p.advance()
		}
	}
	return "", 0, 0, false
}

// --- node dispatch ---

func (p *parser) parseNodeList(stop func(*parser) bool) []Node {
	var nodes []Node
	for !p.atEOF() && !stop(p) {
		before := p.pos
		n := p.parseNode(stop)
		if n != nil {
			nodes = append(nodes, n)
		}
		if p.pos == before {
			// Defensive: never spin without progress.
			p.pos++
		}
	}
	return nodes
}

func (p *parser) parseNode(stop func(*parser) bool) Node {
	if n := p.parseText(stop); n != nil {
		return n
	}
	if p.atEOF() || stop(p) {
		return nil
	}
	switch {
	case p.peek() == '#' && isIdentStart(p.peekAt(1)):
		return p.parseElement()
	case p.matchesCommentOpen():
		return p.parseComment()
	case p.peek() == '{':
		return p.parseBrace()
	default:
		p.errorAt(diag.UnexpectedToken, p.pos, p.pos+1, "unexpected character %q", string(p.peek()))
		p.pos++
		return nil
	}
}

// parseText accumulates a literal run, preserved verbatim, stopping at
// the start of an element, comment, interpolation/block, or the
// caller's stop boundary. "{{" and "}}" escape to literal braces.
func (p *parser) parseText(stop func(*parser) bool) Node {
	start := p.pos
	var b strings.Builder
	for !p.atEOF() && !stop(p) {
		c := p.peek()
		if c == '#' && isIdentStart(p.peekAt(1)) {
			break
		}
		if c == '<' && p.matchesCommentOpen() {
			break
		}
		if c == '{' {
			if p.peekAt(1) == '{' {
				b.WriteByte('{')
				p.pos += 2
				continue
			}
			break
		}
		if c == '}' && p.peekAt(1) == '}' {
			b.WriteByte('}')
			p.pos += 2
			continue
		}
		b.WriteByte(p.advance())
	}
	if b.Len() == 0 {
		return nil
	}
	return &Text{base: base{p.span(start, p.pos)}, Literal: b.String()}
}

func (p *parser) parseComment() Node {
	start := p.pos
	p.pos += 4 // "<!--"
	idx := strings.Index(p.src[p.pos:], "-->")
	if idx < 0 {
		p.errorAt(diag.UnterminatedBlock, start, len(p.src), "HTML comment is never closed")
		text := p.src[p.pos:]
		p.pos = len(p.src)
		return &Comment{base: base{p.span(start, p.pos)}, Text: text}
	}
	text := p.src[p.pos : p.pos+idx]
	p.pos += idx + 3
	return &Comment{base: base{p.span(start, p.pos)}, Text: text}
}

func (p *parser) parseElement() Node {
	start := p.pos
	p.advance() // '#'
	tag := p.scanIdent()

	var attrs []Attr
	var events []EventBinding
	if p.peek() == '[' {
		attrs, events = p.parseAttrList()
	}

	void := isVoid(tag)
	var children []Node
	if void {
		if skip, ok := p.matchesCloseAfterWS(tag); ok {
			p.pos += skip
			p.consumeClose(tag)
		}
	} else {
		closeTag := func(pp *parser) bool { return pp.matchesClose(tag) }
		children = p.parseNodeList(closeTag)
		if p.matchesClose(tag) {
			p.consumeClose(tag)
		} else {
			p.errorAt(diag.UnbalancedTag, start, p.pos, "element %q is never closed", tag)
		}
	}

	return &Element{base: base{p.span(start, p.pos)}, Tag: tag, Attrs: attrs, Events: events, Children: children, Void: void}
}

func (p *parser) parseAttrList() ([]Attr, []EventBinding) {
	listStart := p.pos
	p.advance() // '['
	var attrs []Attr
	var events []EventBinding
	for {
		p.skipWS()
		if p.atEOF() || p.peek() == ']' {
			break
		}
		start := p.pos
		if p.peek() == '@' {
			p.advance()
			name := p.scanIdent()
			p.skipWS()
			if p.peek() != '=' {
				p.errorAt(diag.MalformedAttribute, start, p.pos, "event binding %q requires a handler expression", name)
			} else {
				p.advance()
				p.skipWS()
				handlerSrc, hs, _, ok := p.readBraceExprSrc()
				if !ok {
					p.errorAt(diag.MalformedAttribute, start, p.pos, "event binding %q handler must be a {expr}", name)
				} else {
					expr, errs := script.ParseExpr(handlerSrc, p.base+hs)
					p.errs = append(p.errs, errs...)
					events = append(events, EventBinding{Event: name, Handler: expr, Span: p.span(start, p.pos)})
				}
			}
		} else {
			name := p.scanIdent()
			if name == "" {
				p.errorAt(diag.MalformedAttribute, start, start+1, "expected attribute name, found %q", string(p.peek()))
				p.pos++
			} else {
				p.skipWS()
				if p.peek() == '=' {
					p.advance()
					p.skipWS()
					switch p.peek() {
					case '"', '\'':
						val := p.scanQuotedString()
						attrs = append(attrs, Attr{Name: name, Kind: AttrStatic, Static: val, Anchor: -1, Span: p.span(start, p.pos)})
					case '{':
						exprSrc, es, ee, ok := p.readBraceExprSrc()
						if !ok {
							p.errorAt(diag.MalformedAttribute, start, p.pos, "attribute %q value is an unterminated {expr}", name)
						} else if strings.TrimSpace(exprSrc) == "" {
							p.errorAt(diag.EmptyInterpolation, es-1, ee+1, "attribute %q has an empty interpolation", name)
						} else {
							expr, errs := script.ParseExpr(exprSrc, p.base+es)
							p.errs = append(p.errs, errs...)
							idx := p.anchorSeq
							p.anchorSeq++
							attrs = append(attrs, Attr{Name: name, Kind: AttrExpr, Expr: expr, Anchor: idx, Span: p.span(start, p.pos)})
						}
					default:
						p.errorAt(diag.MalformedAttribute, start, p.pos+1, "attribute %q value must be a string or {expr}", name)
					}
				} else {
					attrs = append(attrs, Attr{Name: name, Kind: AttrBool, Anchor: -1, Span: p.span(start, p.pos)})
				}
			}
		}
		p.skipWS()
		if p.peek() == ',' {
			p.advance()
		}
	}
	if p.peek() == ']' {
		p.advance()
	} else {
		p.errorAt(diag.MalformedAttribute, listStart, p.pos, "unterminated attribute list")
	}
	return attrs, events
}

func (p *parser) parseBrace() Node {
	start := p.pos
	switch {
	case strings.HasPrefix(p.src[p.pos:], "{#if"):
		return p.parseIf()
	case strings.HasPrefix(p.src[p.pos:], "{#for"):
		return p.parseFor()
	case strings.HasPrefix(p.src[p.pos:], "{:else}"):
		p.errorAt(diag.ElseOutsideIf, start, start+7, "{:else} outside an #if block")
		p.pos += 7
		return nil
	case strings.HasPrefix(p.src[p.pos:], "{/if}"):
		p.errorAt(diag.UnterminatedBlock, start, start+5, "{/if} without a matching {#if}")
		p.pos += 5
		return nil
	case strings.HasPrefix(p.src[p.pos:], "{/for}"):
		p.errorAt(diag.UnterminatedBlock, start, start+6, "{/for} without a matching {#for}")
		p.pos += 6
		return nil
	}

	exprSrc, es, ee, ok := p.readBraceExprSrc()
	if !ok {
		p.errorAt(diag.UnterminatedBlock, start, len(p.src), "interpolation is never closed")
		p.pos = len(p.src)
		return nil
	}
	if strings.TrimSpace(exprSrc) == "" {
		p.errorAt(diag.EmptyInterpolation, es-1, ee+1, "empty interpolation")
		return nil
	}
	expr, errs := script.ParseExpr(exprSrc, p.base+es)
	p.errs = append(p.errs, errs...)
	idx := p.anchorSeq
	p.anchorSeq++
	return &Interpolation{base: base{p.span(start, p.pos)}, Expr: expr, Anchor: idx}
}

func (p *parser) parseIf() Node {
	start := p.pos
	p.pos += len("{#if")
	condSrc, cs, _, ok := p.readHeaderExpr()
	if !ok {
		p.errorAt(diag.UnterminatedBlock, start, len(p.src), "{#if} header is never closed")
		p.pos = len(p.src)
		return nil
	}
	cond, errs := script.ParseExpr(condSrc, p.base+cs)
	p.errs = append(p.errs, errs...)

	isElseOrEnd := func(pp *parser) bool {
		return strings.HasPrefix(pp.src[pp.pos:], "{:else}") || strings.HasPrefix(pp.src[pp.pos:], "{/if}")
	}
	thenNodes := p.parseNodeList(isElseOrEnd)

	var elseNodes []Node
	if strings.HasPrefix(p.src[p.pos:], "{:else}") {
		p.pos += len("{:else}")
		isEnd := func(pp *parser) bool { return strings.HasPrefix(pp.src[pp.pos:], "{/if}") }
		elseNodes = p.parseNodeList(isEnd)
	}

	if strings.HasPrefix(p.src[p.pos:], "{/if}") {
		p.pos += len("{/if}")
	} else {
		p.errorAt(diag.UnterminatedBlock, start, p.pos, "{#if} block is never closed with {/if}")
	}

	idx := p.anchorSeq
	p.anchorSeq++
	return &If{base: base{p.span(start, p.pos)}, Cond: cond, Then: thenNodes, Else: elseNodes, Anchor: idx}
}

func (p *parser) parseFor() Node {
	start := p.pos
	p.pos += len("{#for")
	headerSrc, hs, _, ok := p.readHeaderExpr()
	if !ok {
		p.errorAt(diag.UnterminatedBlock, start, len(p.src), "{#for} header is never closed")
		p.pos = len(p.src)
		return nil
	}
	pat, iter, errs := script.ParseForHeader(headerSrc, p.base+hs)
	p.errs = append(p.errs, errs...)

	isEnd := func(pp *parser) bool { return strings.HasPrefix(pp.src[pp.pos:], "{/for}") }
	body := p.parseNodeList(isEnd)
	if strings.HasPrefix(p.src[p.pos:], "{/for}") {
		p.pos += len("{/for}")
	} else {
		p.errorAt(diag.UnterminatedBlock, start, p.pos, "{#for} block is never closed with {/for}")
	}

	idx := p.anchorSeq
	p.anchorSeq++
	return &For{base: base{p.span(start, p.pos)}, Pattern: pat, Iter: iter, Body: body, Anchor: idx}
}
