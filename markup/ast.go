// Package markup implements the Decorous template parser: a recursive-
// descent parser over the `#tag[attrs] children /tag` / `{#if}` / `{#for}`
// markup DSL, producing a typed node tree with anchor indices assigned
// in document order as it parses.
package markup

import (
	"github.com/decorous-lang/decorous/diag"
	"github.com/decorous-lang/decorous/script"
)

// Node is the common interface for every markup AST node.
type Node interface {
	SourceSpan() diag.Span
}

type base struct {
	Span diag.Span
}

func (b base) SourceSpan() diag.Span { return b.Span }

// AttrKind distinguishes how an attribute's value was written.
type AttrKind int

const (
	AttrStatic AttrKind = iota // key="literal" or key=literal
	AttrExpr                   // key={expr}
	AttrBool                   // bare key
)

// Attr is one attribute of an Element.
type Attr struct {
	Name   string
	Kind   AttrKind
	Static string
	Expr   script.Node
	// Anchor is the anchor index for an AttrExpr attribute, -1 otherwise.
	Anchor int
	Span   diag.Span
}

// EventBinding is an `@event={handler}` attribute. Event bindings are
// not anchors: they are write sites, not observer sites.
type EventBinding struct {
	Event   string
	Handler script.Node
	Span    diag.Span
}

// Element is a markup tag: `#tag[attrs] children /tag`.
type Element struct {
	base
	Tag      string
	Attrs    []Attr
	Events   []EventBinding
	Children []Node
	// Void marks an HTML void element (br, img, ...) that never takes
	// children or a closing `/tag` marker.
	Void bool
}

// Text is a literal run of characters between interpolations.
type Text struct {
	base
	Literal string
}

// Comment is a passed-through `<!-- ... -->` HTML comment; its contents
// are never interpolated.
type Comment struct {
	base
	Text string
}

// Interpolation is a `{expr}` text-position binding.
type Interpolation struct {
	base
	Expr   script.Node
	Anchor int
}

// If is an `{#if cond} then {:else} else {/if}` block. Else is nil when no
// `{:else}` clause was written.
type If struct {
	base
	Cond   script.Node
	Then   []Node
	Else   []Node
	Anchor int
}

// For is an `{#for pattern in iter} body {/for}` block.
type For struct {
	base
	Pattern script.Pattern
	Iter    script.Node
	Body    []Node
	Anchor  int
}

// Tree is the parsed markup DSL for one component.
type Tree struct {
	Root []Node
	// AnchorCount is the number of anchor indices handed out while
	// parsing, i.e. the size of the anchor table the planner must build.
	AnchorCount int
}
