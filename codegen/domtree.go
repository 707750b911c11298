package codegen

import (
	"fmt"
	"strings"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/script"
)

// BuildBlockFunctions walks the whole tree and emits one
// __build_block_<idx> JS function per `#if`/`#for` anchor, in document
// order. Each function takes no arguments, reads ctx (through the
// rewriting printer) directly, and returns a DocumentFragment holding
// that block's current content, built fresh with
// document.createElement/appendChild/addEventListener every time it
// runs. Building live nodes instead of an HTML string means a nested
// block's content, a nested anchor's current value, and a loop body's
// event listeners (each closing over that iteration's own loop
// variable) all come out correct with no separate rewiring pass
// afterward — the same reason BuildCSRTree builds the whole document
// this way for CSR mode.
func BuildBlockFunctions(tree *markup.Tree, table *script.SymbolTable, scopeToken string) string {
	bb := &blockBuilder{table: table, scope: scopeToken}
	bb.walk(tree.Root)
	return bb.b.String()
}

// BuildCSRTree emits a __build_tree(elems) function that constructs the
// component's entire static tree with document.createElement calls,
// exactly the way a nested block's __build_block_N already does, with
// one difference: at this top level there is no bootstrap update pass
// to requery afterward, so every top-level anchor's live node reference
// is captured into elems[idx] as it is built, instead of being looked
// up by comment/data-a marker the way dom/prerender mode's
// elems[] initializer does against a server-rendered fragment.
func BuildCSRTree(tree *markup.Tree, table *script.SymbolTable, scopeToken string) string {
	bb := &blockBuilder{table: table, scope: scopeToken, topLevel: true}
	bb.appendNodes("f", tree.Root)
	return fmt.Sprintf("function __build_tree(elems){ const f=document.createDocumentFragment(); %s return f; }\n", bb.b.String())
}

type blockBuilder struct {
	table *script.SymbolTable
	scope string
	n     int
	b     strings.Builder
	// topLevel marks the single outer walk BuildCSRTree performs over
	// the whole tree. It is false for every __build_block_N body
	// (both the nested-block walk here and a block rebuilt fresh from
	// __update), since a block's own content is discarded and rebuilt
	// in full on every run and so never needs a captured reference of
	// its own — only a top-level anchor, which nothing ever rebuilds
	// except through its captured elems[] entry, needs one.
	topLevel bool
}

func (bb *blockBuilder) newVar() string {
	v := fmt.Sprintf("__e%d", bb.n)
	bb.n++
	return v
}

func (bb *blockBuilder) walk(nodes []markup.Node) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *markup.Element:
			bb.walk(t.Children)
		case *markup.If:
			bb.ifBuilder(t)
			bb.walk(t.Then)
			bb.walk(t.Else)
		case *markup.For:
			bb.forBuilder(t)
			bb.walk(t.Body)
		}
	}
}

func (bb *blockBuilder) ifBuilder(t *markup.If) {
	cond := printExpr(t.Cond, bb.table, true)
	fmt.Fprintf(&bb.b, "function __build_block_%d(){ const f=document.createDocumentFragment(); if (%s) { ", t.Anchor, cond)
	bb.appendNodes("f", t.Then)
	bb.b.WriteString("} else { ")
	bb.appendNodes("f", t.Else)
	bb.b.WriteString("} return f; }\n")
}

func (bb *blockBuilder) forBuilder(t *markup.For) {
	iter := printExpr(t.Iter, bb.table, true)
	pattern := printPattern(t.Pattern)
	fmt.Fprintf(&bb.b, "function __build_block_%d(){ const f=document.createDocumentFragment(); for (const %s of (%s)) { ", t.Anchor, pattern, iter)
	bb.appendNodes("f", t.Body)
	bb.b.WriteString("} return f; }\n")
}

// appendNodes emits statements that build each of nodes and appends it
// to the JS variable named parent, in order.
func (bb *blockBuilder) appendNodes(parent string, nodes []markup.Node) {
	for _, n := range nodes {
		bb.appendNode(parent, n)
	}
}

func (bb *blockBuilder) appendNode(parent string, n markup.Node) {
	switch t := n.(type) {
	case *markup.Text:
		fmt.Fprintf(&bb.b, "%s.appendChild(document.createTextNode(%s)); ", parent, jsStringLit(t.Literal))
	case *markup.Comment:
		fmt.Fprintf(&bb.b, "%s.appendChild(document.createComment(%s)); ", parent, jsStringLit(t.Text))
	case *markup.Interpolation:
		bb.appendInterpolation(parent, t)
	case *markup.If:
		bb.appendBlock(parent, t.Anchor)
	case *markup.For:
		bb.appendBlock(parent, t.Anchor)
	case *markup.Element:
		bb.appendElement(parent, t)
	}
}

// appendInterpolation builds a text-anchor node. At the top level the
// node starts out empty and is captured into elems[idx]; its real value
// is filled in by the bootstrap __update call that follows tree
// construction, the same call that fills in a server-rendered
// fragment's placeholder text nodes. Nested inside a block body there
// is no such follow-up pass, so the node is built with its value
// already in place.
func (bb *blockBuilder) appendInterpolation(parent string, t *markup.Interpolation) {
	if bb.topLevel {
		v := fmt.Sprintf("__a%d", t.Anchor)
		fmt.Fprintf(&bb.b, "const %s=document.createTextNode(''); elems[%d]=%s; %s.appendChild(%s); ",
			v, t.Anchor, v, parent, v)
		return
	}
	fmt.Fprintf(&bb.b, "%s.appendChild(document.createTextNode(__esc(%s))); ", parent, printExpr(t.Expr, bb.table, true))
}

// appendBlock places a block anchor. At the top level it is only the
// comment placeholder — the same shape the server-rendered fragment's
// static shell carries for a block anchor — captured into elems[idx];
// __update mounts the block's real initial content immediately
// afterward via __mount_block. Nested inside another block's body the
// content is built and appended directly, since that whole body is
// discarded and rebuilt fresh every time its owning block reruns.
func (bb *blockBuilder) appendBlock(parent string, anchor int) {
	if bb.topLevel {
		v := fmt.Sprintf("__a%d", anchor)
		fmt.Fprintf(&bb.b, "const %s=document.createComment(String(%d)); elems[%d]=%s; %s.appendChild(%s); ",
			v, anchor, anchor, v, parent, v)
		return
	}
	fmt.Fprintf(&bb.b, "%s.appendChild(__build_block_%d()); ", parent, anchor)
}

func (bb *blockBuilder) appendElement(parent string, el *markup.Element) {
	v := bb.newVar()
	fmt.Fprintf(&bb.b, "const %s=document.createElement(%s); %s.setAttribute('data-scope',%s); ",
		v, jsStringLit(el.Tag), v, jsStringLit(bb.scope))
	for _, a := range el.Attrs {
		bb.appendAttr(v, a)
	}
	for _, ev := range el.Events {
		body := printExpr(ev.Handler, bb.table, true)
		fmt.Fprintf(&bb.b, "%s.addEventListener(%s, (event) => { %s; }); ", v, jsStringLit(ev.Event), body)
	}
	bb.appendNodes(v, el.Children)
	fmt.Fprintf(&bb.b, "%s.appendChild(%s); ", parent, v)
}

// appendAttr emits an attribute. A bound (AttrExpr) attribute at the
// top level only captures the owning element into elems[idx]: its
// value is applied by the bootstrap __update call, same as a
// top-level text or block anchor. Nested inside a block body the
// attribute is set immediately, since the element itself is never
// revisited afterward.
func (bb *blockBuilder) appendAttr(v string, a markup.Attr) {
	switch a.Kind {
	case markup.AttrBool:
		fmt.Fprintf(&bb.b, "%s.setAttribute(%s, ''); ", v, jsStringLit(a.Name))
	case markup.AttrStatic:
		fmt.Fprintf(&bb.b, "%s.setAttribute(%s, %s); ", v, jsStringLit(a.Name), jsStringLit(a.Static))
	case markup.AttrExpr:
		if bb.topLevel {
			fmt.Fprintf(&bb.b, "elems[%d]=%s; ", a.Anchor, v)
			return
		}
		fmt.Fprintf(&bb.b, "__set_attr(%s, %s, %s); ", v, jsStringLit(a.Name), printExpr(a.Expr, bb.table, true))
	}
}

// jsStringLit renders s as a single-quoted JS string literal.
func jsStringLit(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
