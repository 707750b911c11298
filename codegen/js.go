package codegen

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/plan"
	"github.com/decorous-lang/decorous/script"
)

// runtimePreamble is the fixed shape of the generated runtime: the dirty
// mask, the elems table, context initialization, and the update/schedule
// pair every component's JS shares. Everything else this file emits is
// wired in around it.
//
//go:embed runtime_preamble.js.tmpl
var runtimePreamble string

// runtimePreambleCSR is runtimePreamble's CSR counterpart: instead of
// locating the elems[] entries against a pre-rendered fragment, it
// builds the whole tree itself and lets that construction fill elems[]
// as it goes.
//
//go:embed runtime_preamble_csr.js.tmpl
var runtimePreambleCSR string

// RenderJS assembles one component's whole client-side script: the
// `#if`/`#for` content builders, the outer-scope function and inert
// bindings the original script declared, the runtime preamble with its
// four placeholders filled in, a small fixed set of runtime helpers, the
// static event-listener wiring, and the bootstrap call that mounts the
// document's dynamic content for the first time.
// root is the JS expression evaluating to the mount root every
// document.querySelector/createTreeWalker call is scoped under. It is
// "document" for an auto-run script that owns the whole page; the
// `--modularize` mode instead binds it to the `root` parameter of the
// exported initialize function, so the same component can be mounted
// more than once per page.
func RenderJS(tree *markup.Tree, prog *script.Program, table *script.SymbolTable, funcs map[string]*script.FuncDecl, pl *plan.Plan, scopeToken, root string) string {
	e := &jsEmitter{
		tree: tree, prog: prog, table: table, funcs: funcs, plan: pl, root: root,
		byIndex:    map[int]plan.Anchor{},
		anchorName: map[int]string{},
		blockBody:  blockBodies(tree),
	}
	for _, a := range pl.Anchors() {
		e.byIndex[a.Index] = a
	}
	for _, s := range markup.Anchors(tree) {
		if s.Kind == markup.AnchorAttr {
			e.anchorName[s.Index] = s.Name
		}
	}

	var b strings.Builder
	b.WriteString(BuildBlockFunctions(tree, table, scopeToken))
	b.WriteString(e.outerScope())
	b.WriteString(e.fillPreamble())
	b.WriteString(runtimeHelpers)
	b.WriteString(findCommentHelper)
	b.WriteString(e.wiring())
	fmt.Fprintf(&b, "__update(%s);\n", e.fullDirtyMask())
	return b.String()
}

// RenderCSRJS assembles a CSR component's whole client-side script: the
// nested `#if`/`#for` content builders, the top-level
// document.createElement tree builder, the outer-scope function and
// inert bindings, the CSR runtime preamble (which builds and mounts the
// tree itself rather than querying a server-rendered fragment for it),
// a small fixed set of runtime helpers, and the bootstrap call that
// fills in every anchor's initial value and mounts every block's
// initial content. It never emits a data-e/data-a-marked HTML string
// or the __find_comment-based elemsInit/wiring DOM/prerender mode
// uses — CSR's elements never exist as markup at all, only as live
// nodes built and wired (including every event listener) in the same
// pass that creates them.
// root is the JS expression the built tree is mounted under:
// "document.body" for an auto-run script, or the `--modularize` mode's
// exported initialize function's root parameter.
func RenderCSRJS(tree *markup.Tree, prog *script.Program, table *script.SymbolTable, funcs map[string]*script.FuncDecl, pl *plan.Plan, scopeToken, root string) string {
	e := &jsEmitter{
		tree: tree, prog: prog, table: table, funcs: funcs, plan: pl, root: root,
		byIndex:    map[int]plan.Anchor{},
		anchorName: map[int]string{},
		blockBody:  blockBodies(tree),
	}
	for _, a := range pl.Anchors() {
		e.byIndex[a.Index] = a
	}
	for _, s := range markup.Anchors(tree) {
		if s.Kind == markup.AnchorAttr {
			e.anchorName[s.Index] = s.Name
		}
	}

	var b strings.Builder
	b.WriteString(BuildBlockFunctions(tree, table, scopeToken))
	b.WriteString(BuildCSRTree(tree, table, scopeToken))
	b.WriteString(e.outerScope())
	b.WriteString(e.fillPreambleCSR())
	b.WriteString(runtimeHelpers)
	fmt.Fprintf(&b, "__update(%s);\n", e.fullDirtyMask())
	return b.String()
}

type jsEmitter struct {
	tree       *markup.Tree
	prog       *script.Program
	table      *script.SymbolTable
	funcs      map[string]*script.FuncDecl
	plan       *plan.Plan
	root       string
	byIndex    map[int]plan.Anchor
	anchorName map[int]string
	blockBody  map[int][]markup.Node
}

// outerScope prints every top-level function declaration and every
// inert binding at global scope, in source-declaration order, so
// handler bodies and content builders (which run in outer scope, not
// inside __init_ctx) can still call and read them. Reactive bindings
// are never declared out here: they live only in ctx, initialized once
// by __init_ctx.
func (e *jsEmitter) outerScope() string {
	var b strings.Builder
	for _, bnd := range e.table.Bindings() {
		switch bnd.Kind {
		case script.BindingFunction:
			b.WriteString(printFuncDecl(e.funcs[bnd.Name], e.table, true))
			b.WriteString("\n")
		case script.BindingInert:
			kw := [...]string{"let", "var", "const"}[bnd.DeclKind]
			if bnd.Init != nil {
				fmt.Fprintf(&b, "%s %s = %s;\n", kw, bnd.Name, printExpr(bnd.Init, e.table, false))
			} else {
				fmt.Fprintf(&b, "%s %s;\n", kw, bnd.Name)
			}
		}
	}
	return b.String()
}

// fillPreamble substitutes the four placeholders in runtimePreamble.
func (e *jsEmitter) fillPreamble() string {
	out := runtimePreamble
	out = strings.Replace(out, "<N_BYTES>", fmt.Sprintf("%d", e.plan.DirtyMaskSize()), 1)
	out = strings.Replace(out, "<ELEMS>", e.elemsInit(), 1)
	out = strings.Replace(out, "<CTX_BODY>", e.ctxBody(), 1)
	out = strings.Replace(out, "<UPDATE_BODY>", e.updateBody(), 1)
	return out
}

// fillPreambleCSR substitutes runtimePreambleCSR's five placeholders.
// There is no elems[] literal to build here: __build_tree fills elems
// itself as it constructs the tree, so this only wires in the sizes
// and the mount root.
func (e *jsEmitter) fillPreambleCSR() string {
	out := runtimePreambleCSR
	out = strings.Replace(out, "<N_BYTES>", fmt.Sprintf("%d", e.plan.DirtyMaskSize()), 1)
	out = strings.Replace(out, "<ANCHOR_COUNT>", fmt.Sprintf("%d", e.tree.AnchorCount), 1)
	out = strings.Replace(out, "<ROOT>", e.root, 1)
	out = strings.Replace(out, "<CTX_BODY>", e.ctxBody(), 1)
	out = strings.Replace(out, "<UPDATE_BODY>", e.updateBody(), 1)
	return out
}

// elemsInit builds the elems[] literal: one entry per anchor index, in
// index order, so elems[idx] addresses anchor idx directly. An anchor
// nested inside a block body gets `undefined` — its content is rebuilt
// fresh by its owning block's content builder every time, so it never
// needs a live element reference of its own.
func (e *jsEmitter) elemsInit() string {
	top := map[int]bool{}
	for _, idx := range markup.TopLevelAnchors(e.tree) {
		top[idx] = true
	}
	entries := make([]string, e.tree.AnchorCount)
	for i := 0; i < e.tree.AnchorCount; i++ {
		if !top[i] {
			entries[i] = "undefined"
			continue
		}
		switch e.byIndex[i].Kind {
		case markup.AnchorAttr:
			entries[i] = fmt.Sprintf("%s.querySelector('[data-a=\"%d\"]')", e.root, i)
		case markup.AnchorBlock:
			entries[i] = fmt.Sprintf("__find_comment(%s, %d)", e.root, i)
		default:
			entries[i] = fmt.Sprintf("replace(__find_comment(%s, %d))", e.root, i)
		}
	}
	return strings.Join(entries, ", ")
}

// ctxBody re-prints the whole original top-level statement list,
// unrewritten, so it runs once with real JS semantics to compute every
// reactive binding's initial value using ordinary local variables, then
// returns those values in context-index order. This local re-execution
// never runs again; it exists only to seed ctx.
func (e *jsEmitter) ctxBody() string {
	var b strings.Builder
	for _, s := range e.prog.Stmts {
		b.WriteString(printStmt(s, e.table, false))
		b.WriteString(" ")
	}
	names := make([]string, 0, e.table.Len())
	for _, bnd := range e.table.Reactive() {
		names = append(names, bnd.Name)
	}
	fmt.Fprintf(&b, "return [%s];", strings.Join(names, ", "))
	return b.String()
}

// updateBody emits one guarded block per top-level anchor, in document
// order, testing the anchor's effective trigger mask (its own
// dependencies for a text/attribute anchor; its own dependencies unioned
// with every nested anchor's for a block, computed here rather than by
// the planner since it is a codegen-level rebuild strategy rather than a
// planning fact) against the incoming dirty mask.
func (e *jsEmitter) updateBody() string {
	var b strings.Builder
	for _, idx := range markup.TopLevelAnchors(e.tree) {
		a := e.byIndex[idx]
		mask := e.effectiveMask(a)
		fmt.Fprintf(&b, "if (__hits(dirty, %s)) { %s }\n", jsByteArray(mask.Bytes()), e.applyAnchor(a))
	}
	return b.String()
}

func (e *jsEmitter) effectiveMask(a plan.Anchor) plan.Bitset {
	if a.Kind != markup.AnchorBlock {
		return a.Trigger
	}
	out := plan.NewBitset(len(a.Trigger) * 8)
	copy(out, a.Trigger)
	for _, nidx := range markup.NestedAnchors(e.blockBody[a.Index]) {
		if n, ok := e.byIndex[nidx]; ok {
			for i, by := range n.Trigger {
				out[i] |= by
			}
		}
	}
	return out
}

func (e *jsEmitter) applyAnchor(a plan.Anchor) string {
	switch a.Kind {
	case markup.AnchorText:
		return fmt.Sprintf("elems[%d].data = __esc(%s);", a.Index, printExpr(a.Expr, e.table, true))
	case markup.AnchorAttr:
		return fmt.Sprintf("__set_attr(elems[%d], %s, %s);", a.Index, jsStringLit(e.anchorName[a.Index]), printExpr(a.Expr, e.table, true))
	case markup.AnchorBlock:
		return fmt.Sprintf("__mount_block(elems[%d], __build_block_%d());", a.Index, a.Index)
	default:
		return ""
	}
}

// wiring attaches every static (outside any block) event listener once,
// by looking its element up through the data-e marker html.go gave it.
func (e *jsEmitter) wiring() string {
	sites, _ := markup.EventSites(e.tree)
	var b strings.Builder
	for _, s := range sites {
		fmt.Fprintf(&b, "%s.querySelector('[data-e=\"%d\"]').addEventListener(%s, (event) => { %s; });\n",
			e.root, s.ElemIndex, jsStringLit(s.Event), printExpr(s.Handler, e.table, true))
	}
	return b.String()
}

func (e *jsEmitter) fullDirtyMask() string {
	n := e.plan.DirtyMaskSize()
	bytes := make([]byte, n)
	for i := range bytes {
		bytes[i] = 0xff
	}
	return fmt.Sprintf("new Uint8Array(%s)", jsByteArray(bytes))
}

// blockBodies maps a block anchor's index to its body node list (both
// branches, for an if), so effectiveMask can find every anchor nested
// inside it.
func blockBodies(tree *markup.Tree) map[int][]markup.Node {
	out := map[int][]markup.Node{}
	var walk func(nodes []markup.Node)
	walk = func(nodes []markup.Node) {
		for _, n := range nodes {
			switch t := n.(type) {
			case *markup.Element:
				walk(t.Children)
			case *markup.If:
				out[t.Anchor] = append(append([]markup.Node{}, t.Then...), t.Else...)
				walk(t.Then)
				walk(t.Else)
			case *markup.For:
				out[t.Anchor] = t.Body
				walk(t.Body)
			}
		}
	}
	walk(tree.Root)
	return out
}

func jsByteArray(bs []byte) string {
	parts := make([]string, len(bs))
	for i, by := range bs {
		parts[i] = fmt.Sprintf("%d", by)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// runtimeHelpers is the fixed set of small runtime functions the
// generated placeholders call: string coercion for text/attribute
// anchors, boolean-aware attribute assignment, mask-overlap testing
// against a multi-byte dirty mask, and the mount/unmount routine a block
// anchor uses to swap its previously rendered content for freshly built
// content while leaving its own anchor comment in place.
const runtimeHelpers = `
function __esc(v){ return v===null||v===undefined ? '' : String(v); }
function __set_attr(el, name, val){
  if (val===false || val===null || val===undefined) { el.removeAttribute(name); return; }
  el.setAttribute(name, val===true ? '' : String(val));
}
function __hits(dirty, mask){
  for (let i=0;i<mask.length;i++){ if (dirty[i] & mask[i]) return true; }
  return false;
}
function __mount_block(anchor, frag){
  let n = anchor.nextSibling;
  while (n && n.__decorousBlock === anchor) { const nx = n.nextSibling; n.remove(); n = nx; }
  for (const child of Array.from(frag.childNodes)) child.__decorousBlock = anchor;
  anchor.after(frag);
}
`

// findCommentHelper is the comment-anchor finder every text and block
// anchor's elems[] entry uses in dom/prerender mode. Only RenderJS
// writes it; CSR captures its anchor nodes while building the tree.
const findCommentHelper = `function __find_comment(root, idx){
  const w = document.createTreeWalker(root, NodeFilter.SHOW_COMMENT);
  let n;
  while ((n = w.nextNode())) { if (n.data === String(idx)) return n; }
  return null;
}
`
