package codegen

import (
	"fmt"
	"html"
	"strings"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/script"
)

// anchorComment is the placeholder every text and block anchor gets: a
// comment node carrying the anchor's index as its text, so the JS
// bootstrap's elems[] initializer can locate it with a single
// TreeWalker pass over comment nodes instead of needing a bespoke DOM
// path per anchor (Open Question (a) resolution: one placeholder shape
// for every anchor kind, documented in DESIGN.md).
func anchorComment(idx int) string {
	return fmt.Sprintf("<!--%d-->", idx)
}

// RenderHTML walks the markup tree and emits the pre-rendered HTML
// fragment: static text and element tags verbatim, every element
// carrying data-scope, an index-bearing comment at every text and
// block anchor, a data-a marker attribute at every dynamic attribute
// anchor, and a data-e marker attribute at every element an event
// binding listens on. elemIdx is the *Element -> index map from
// markup.EventSites, so the data-e numbers agree with the listener
// table codegen/js.go builds from that same call. `#if`/`#for` content
// is never rendered here: it is mounted by the JS bootstrap on load,
// the same code path that remounts it on every later update, so there
// is exactly one renderer for block content instead of two that could
// drift apart.
func RenderHTML(tree *markup.Tree, table *script.SymbolTable, scopeToken string, elemIdx map[*markup.Element]int) string {
	var b strings.Builder
	renderNodes(&b, tree.Root, table, scopeToken, elemIdx)
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []markup.Node, table *script.SymbolTable, scopeToken string, elemIdx map[*markup.Element]int) {
	for _, n := range nodes {
		renderNode(b, n, table, scopeToken, elemIdx)
	}
}

func renderNode(b *strings.Builder, n markup.Node, table *script.SymbolTable, scopeToken string, elemIdx map[*markup.Element]int) {
	switch t := n.(type) {
	case *markup.Text:
		b.WriteString(html.EscapeString(t.Literal))
	case *markup.Comment:
		b.WriteString("<!--")
		b.WriteString(t.Text)
		b.WriteString("-->")
	case *markup.Interpolation:
		b.WriteString(anchorComment(t.Anchor))
	case *markup.Element:
		renderElement(b, t, table, scopeToken, elemIdx)
	case *markup.If:
		b.WriteString(anchorComment(t.Anchor))
	case *markup.For:
		b.WriteString(anchorComment(t.Anchor))
	}
}

func renderElement(b *strings.Builder, el *markup.Element, table *script.SymbolTable, scopeToken string, elemIdx map[*markup.Element]int) {
	b.WriteString("<")
	b.WriteString(el.Tag)
	b.WriteString(` data-scope="`)
	b.WriteString(scopeToken)
	b.WriteString(`"`)
	for _, a := range el.Attrs {
		renderAttr(b, a, table)
	}
	if n, ok := elemIdx[el]; ok {
		fmt.Fprintf(b, ` data-e="%d"`, n)
	}
	if el.Void {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
	renderNodes(b, el.Children, table, scopeToken, elemIdx)
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteString(">")
}

func renderAttr(b *strings.Builder, a markup.Attr, table *script.SymbolTable) {
	switch a.Kind {
	case markup.AttrBool:
		b.WriteString(" ")
		b.WriteString(a.Name)
	case markup.AttrStatic:
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Static))
		b.WriteString(`"`)
	case markup.AttrExpr:
		v, ok := evalConst(a.Expr, table)
		val := ""
		if ok {
			val = jsToString(v)
		}
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(val))
		b.WriteString(`" data-a="`)
		b.WriteString(fmt.Sprintf("%d", a.Anchor))
		b.WriteString(`"`)
	}
}

// RenderPrerenderPage wraps a rendered fragment in a standalone
// <html><head>/<body> page for the `prerender` mode.
func RenderPrerenderPage(fragment, title, cssLink, jsSrc string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n")
	if cssLink != "" {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(cssLink))
		b.WriteString("\">\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n<script src=\"")
	b.WriteString(html.EscapeString(jsSrc))
	b.WriteString("\"></script>\n</body>\n</html>\n")
	return b.String()
}
